package infrastructures

import (
	"os"

	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDatabase() *gorm.DB {
	db, err := gorm.Open(postgres.Open(os.Getenv("DATABASE_URL")), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}

	if err := Migrate(db); err != nil {
		logrus.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

// Migrate keeps the schema in sync. The challenge_claims unique index is
// load-bearing: the nightly evaluator relies on it for claim idempotency.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.Reward{},
		&models.RewardAssignment{},
		&models.Challenge{},
		&models.ChallengeClaim{},
		&models.Merchant{},
		&models.Transaction{},
		&models.Goal{},
		&models.Saving{},
	)
}
