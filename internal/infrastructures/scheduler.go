package infrastructures

import (
	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

func NewScheduler() gocron.Scheduler {
	sched, err := gocron.NewScheduler()
	if err != nil {
		logrus.Fatalf("failed to create scheduler: %v", err)
	}
	return sched
}
