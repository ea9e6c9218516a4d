package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/moneykaki/kaki-core/internal/app/errors"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/app/pkg"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	dailyAppOpenPoints = 5

	streakRunLockKey = "streak:run:lock"
	streakRunLockTTL = 10 * time.Minute
)

// streakMilestones maps a consecutive-day count to the points awarded when
// a challenge first reaches it.
var streakMilestones = map[int]int64{
	3:  10,
	7:  15,
	14: 20,
	21: 25,
	30: 30,
}

type StreakService struct {
	db                 *gorm.DB
	redis              *redis.Client
	accountService     *AccountService
	transactionService *TransactionService
}

func NewStreakService(db *gorm.DB, redisClient *redis.Client, accountService *AccountService, transactionService *TransactionService) *StreakService {
	return &StreakService{
		db:                 db,
		redis:              redisClient,
		accountService:     accountService,
		transactionService: transactionService,
	}
}

// Run evaluates every streak challenge for the given day. A redis lock
// keeps overlapping runs (cron plus a manual trigger) from evaluating the
// same day twice concurrently; the claim table makes reruns no-ops anyway.
func (s *StreakService) Run(ctx context.Context, day time.Time) error {
	if s.redis != nil {
		acquired, err := s.redis.SetNX(ctx, streakRunLockKey, pkg.DateString(day), streakRunLockTTL).Result()
		if err != nil {
			logrus.Warnf("Streak run lock unavailable, continuing without it: %v", err)
		} else if !acquired {
			logrus.Info("Streak run already in progress, skipping")
			return nil
		} else {
			defer s.redis.Del(ctx, streakRunLockKey)
		}
	}

	if err := s.processDailyAppOpens(day); err != nil {
		return err
	}
	return s.processDailyStreaks(day)
}

// processDailyAppOpens awards the flat daily bonus for every Daily App Open
// challenge, at most once per challenge per day.
func (s *StreakService) processDailyAppOpens(day time.Time) error {
	var challenges []models.Challenge
	err := s.db.Where("challenge_title = ? AND is_redeemed = ?", models.ChallengeTitleDailyAppOpen, false).Find(&challenges).Error
	if err != nil {
		return errors.NewInternalServerError(err, "Failed to load daily app open challenges")
	}

	for i := range challenges {
		challenge := &challenges[i]
		if err := s.awardDailyAppOpen(challenge, day); err != nil {
			logrus.Errorf("Daily app open award failed for challenge %s: %v", challenge.ID, err)
		}
	}
	return nil
}

func (s *StreakService) awardDailyAppOpen(challenge *models.Challenge, day time.Time) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		claim := &models.ChallengeClaim{
			ChallengeID:   challenge.ID,
			UserID:        challenge.UserID,
			ClaimDate:     pkg.DateString(day),
			PointsAwarded: dailyAppOpenPoints,
		}
		if err := tx.Create(claim).Error; err != nil {
			if err == gorm.ErrDuplicatedKey {
				return nil
			}
			return err
		}
		return s.accountService.AddPoints(tx, challenge.UserID, dailyAppOpenPoints)
	})
}

// processDailyStreaks advances or resets each streak challenge based on
// whether its user logged an expense on the given day, paying out milestone
// bonuses as they are crossed. A failure on one challenge does not stop the
// rest of the run.
func (s *StreakService) processDailyStreaks(day time.Time) error {
	var challenges []models.Challenge
	err := s.db.Where("challenge_title = ? AND is_redeemed = ?", models.ChallengeTitleDailyStreak, false).Find(&challenges).Error
	if err != nil {
		return errors.NewInternalServerError(err, "Failed to load daily streak challenges")
	}

	for i := range challenges {
		challenge := &challenges[i]
		if err := s.evaluateStreak(challenge, day); err != nil {
			logrus.Errorf("Streak evaluation failed for challenge %s: %v", challenge.ID, err)
		}
	}
	return nil
}

func (s *StreakService) evaluateStreak(challenge *models.Challenge, day time.Time) error {
	hasExpense, err := s.transactionService.HasExpenseOn(challenge.UserID, day)
	if err != nil {
		return err
	}

	today := pkg.DateString(day)
	state := challenge.Details

	if !hasExpense {
		if state.CurrentStreak == 0 && state.LastExpenseDate == "" {
			return nil
		}
		state.CurrentStreak = 0
		state.LastExpenseDate = ""
		return s.db.Model(&models.Challenge{}).
			Where("id = ?", challenge.ID).
			UpdateColumn("details", state).Error
	}

	if state.LastExpenseDate == today {
		// Already counted this day; a rerun must not advance the streak.
		return nil
	}

	if state.LastExpenseDate == pkg.DateString(day.AddDate(0, 0, -1)) {
		state.CurrentStreak++
	} else {
		// The chain broke since the last counted day; today starts it over.
		state.CurrentStreak = 1
	}
	state.LastExpenseDate = today

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Challenge{}).
			Where("id = ?", challenge.ID).
			UpdateColumn("details", state).Error; err != nil {
			return err
		}

		points, ok := streakMilestones[state.CurrentStreak]
		if !ok {
			return nil
		}
		return s.awardMilestone(tx, challenge, today, state.CurrentStreak, points)
	})
}

// awardMilestone records the milestone claim and pays its points. The unique
// claim index is the idempotency guard: a milestone already claimed for this
// challenge awards nothing on replay.
func (s *StreakService) awardMilestone(tx *gorm.DB, challenge *models.Challenge, claimDate string, streak int, points int64) error {
	claim := &models.ChallengeClaim{
		ChallengeID:   challenge.ID,
		UserID:        challenge.UserID,
		ClaimDate:     claimDate,
		Milestone:     fmt.Sprintf("streak_%d", streak),
		PointsAwarded: points,
	}
	if err := tx.Create(claim).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil
		}
		return err
	}
	return s.accountService.AddPoints(tx, challenge.UserID, points)
}

// StartScheduler registers the nightly evaluation at midnight.
func (s *StreakService) StartScheduler(scheduler gocron.Scheduler) error {
	_, err := scheduler.NewJob(
		gocron.CronJob("0 0 * * *", false),
		gocron.NewTask(func() {
			day := time.Now().AddDate(0, 0, -1)
			if err := s.Run(context.Background(), day); err != nil {
				logrus.Errorf("Nightly streak run failed: %v", err)
			}
		}),
		gocron.WithName("streak-nightly"),
	)
	if err != nil {
		return err
	}
	scheduler.Start()
	return nil
}
