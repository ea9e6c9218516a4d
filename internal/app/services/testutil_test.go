package services

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/infrastructures"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, infrastructures.Migrate(db))
	return db
}

func newTestValidator() *infrastructures.Validator {
	return infrastructures.NewValidator()
}

func createTestAccount(t *testing.T, db *gorm.DB, role models.AccountRole, credits decimal.Decimal) *models.Account {
	t.Helper()

	account := &models.Account{
		FullName:      "Test " + string(role),
		Email:         fmt.Sprintf("%s-%s@example.com", role, uuid.NewString()[:8]),
		ContactNumber: "81234567",
		Role:          role,
		Status:        models.AccountStatusActive,
		Credits:       credits,
		EmailVerified: true,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

func createTestReward(t *testing.T, db *gorm.DB, price decimal.Decimal, codes ...string) *models.Reward {
	t.Helper()

	pool := make(models.CodePool, 0, len(codes))
	for _, code := range codes {
		pool = append(pool, models.RewardCode{Code: code})
	}
	reward := &models.Reward{
		Picture: "https://cdn.example.com/reward.png",
		Name:    "Test Reward",
		Price:   price,
		Codes:   pool,
	}
	require.NoError(t, db.Create(reward).Error)
	return reward
}

func createTestAssignment(t *testing.T, db *gorm.DB, createdBy, assigneeID, rewardID uuid.UUID, quantity int) *models.RewardAssignment {
	t.Helper()

	assignment := &models.RewardAssignment{
		CreatedBy:   createdBy,
		AssigneeID:  assigneeID,
		RewardID:    rewardID,
		Quantity:    quantity,
		RewardCodes: models.CodeList{},
	}
	require.NoError(t, db.Create(assignment).Error)
	return assignment
}

func reloadAccount(t *testing.T, db *gorm.DB, id uuid.UUID) *models.Account {
	t.Helper()

	var account models.Account
	require.NoError(t, db.Where("id = ?", id).First(&account).Error)
	return &account
}

func reloadReward(t *testing.T, db *gorm.DB, id uuid.UUID) *models.Reward {
	t.Helper()

	var reward models.Reward
	require.NoError(t, db.Where("id = ?", id).First(&reward).Error)
	return &reward
}
