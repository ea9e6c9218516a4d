package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/app/pkg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newStreakService(db *gorm.DB) *StreakService {
	accountService := NewAccountService(db, newTestValidator())
	transactionService := NewTransactionService(db, newTestValidator(), nil)
	return NewStreakService(db, nil, accountService, transactionService)
}

func createStreakChallenge(t *testing.T, db *gorm.DB, userID, createdBy uuid.UUID, title string, streak int, lastExpenseDate string) *models.Challenge {
	t.Helper()

	challenge := &models.Challenge{
		UserID:      userID,
		CreatedBy:   createdBy,
		Title:       title,
		RewardCodes: models.CodeList{},
		Details: models.StreakState{
			CurrentStreak:   streak,
			LastExpenseDate: lastExpenseDate,
		},
	}
	require.NoError(t, db.Create(challenge).Error)
	return challenge
}

func logExpense(t *testing.T, db *gorm.DB, accountID uuid.UUID, day time.Time) {
	t.Helper()

	require.NoError(t, db.Create(&models.Transaction{
		AccountID: accountID,
		Type:      models.TransactionTypeExpense,
		Amount:    decimal.NewFromInt(7),
		Date:      day,
		Status:    models.TransactionStatusCompleted,
	}).Error)
}

func TestStreakAdvancesAndPaysMilestoneOnce(t *testing.T) {
	db := setupTestDB(t)
	service := newStreakService(db)

	advisor := createTestAccount(t, db, models.AccountRoleAdvisor, decimal.Zero)
	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	challenge := createStreakChallenge(t, db, user.ID, advisor.ID, models.ChallengeTitleDailyStreak, 2, pkg.DateString(day.AddDate(0, 0, -1)))
	logExpense(t, db, user.ID, day)

	require.NoError(t, service.Run(context.Background(), day))

	var fresh models.Challenge
	require.NoError(t, db.Where("id = ?", challenge.ID).First(&fresh).Error)
	assert.Equal(t, 3, fresh.Details.CurrentStreak)
	assert.Equal(t, pkg.DateString(day), fresh.Details.LastExpenseDate)
	assert.Equal(t, int64(10), reloadAccount(t, db, user.ID).Points)

	// A replayed run must not advance the streak or pay again.
	require.NoError(t, service.Run(context.Background(), day))

	require.NoError(t, db.Where("id = ?", challenge.ID).First(&fresh).Error)
	assert.Equal(t, 3, fresh.Details.CurrentStreak)
	assert.Equal(t, int64(10), reloadAccount(t, db, user.ID).Points)
}

func TestStreakResetsWithoutExpense(t *testing.T) {
	db := setupTestDB(t)
	service := newStreakService(db)

	advisor := createTestAccount(t, db, models.AccountRoleAdvisor, decimal.Zero)
	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	challenge := createStreakChallenge(t, db, user.ID, advisor.ID, models.ChallengeTitleDailyStreak, 6, pkg.DateString(day.AddDate(0, 0, -1)))

	require.NoError(t, service.Run(context.Background(), day))

	var fresh models.Challenge
	require.NoError(t, db.Where("id = ?", challenge.ID).First(&fresh).Error)
	assert.Equal(t, 0, fresh.Details.CurrentStreak)
	assert.Equal(t, "", fresh.Details.LastExpenseDate)
	assert.Equal(t, int64(0), reloadAccount(t, db, user.ID).Points)
}

func TestStreakRestartsAfterGap(t *testing.T) {
	db := setupTestDB(t)
	service := newStreakService(db)

	advisor := createTestAccount(t, db, models.AccountRoleAdvisor, decimal.Zero)
	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// The last counted expense is three days old: the chain is broken even
	// though the stored count never hit zero.
	challenge := createStreakChallenge(t, db, user.ID, advisor.ID, models.ChallengeTitleDailyStreak, 2, pkg.DateString(day.AddDate(0, 0, -3)))
	logExpense(t, db, user.ID, day)

	require.NoError(t, service.Run(context.Background(), day))

	var fresh models.Challenge
	require.NoError(t, db.Where("id = ?", challenge.ID).First(&fresh).Error)
	assert.Equal(t, 1, fresh.Details.CurrentStreak)
	assert.Equal(t, pkg.DateString(day), fresh.Details.LastExpenseDate)
	assert.Equal(t, int64(0), reloadAccount(t, db, user.ID).Points)
}

func TestStreakNonMilestoneDayPaysNothing(t *testing.T) {
	db := setupTestDB(t)
	service := newStreakService(db)

	advisor := createTestAccount(t, db, models.AccountRoleAdvisor, decimal.Zero)
	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	challenge := createStreakChallenge(t, db, user.ID, advisor.ID, models.ChallengeTitleDailyStreak, 3, pkg.DateString(day.AddDate(0, 0, -1)))
	logExpense(t, db, user.ID, day)

	require.NoError(t, service.Run(context.Background(), day))

	var fresh models.Challenge
	require.NoError(t, db.Where("id = ?", challenge.ID).First(&fresh).Error)
	assert.Equal(t, 4, fresh.Details.CurrentStreak)
	assert.Equal(t, int64(0), reloadAccount(t, db, user.ID).Points)
}

func TestDailyAppOpenAwardsOncePerDay(t *testing.T) {
	db := setupTestDB(t)
	service := newStreakService(db)

	advisor := createTestAccount(t, db, models.AccountRoleAdvisor, decimal.Zero)
	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	createStreakChallenge(t, db, user.ID, advisor.ID, models.ChallengeTitleDailyAppOpen, 0, "")

	require.NoError(t, service.Run(context.Background(), day))
	require.NoError(t, service.Run(context.Background(), day))

	assert.Equal(t, int64(5), reloadAccount(t, db, user.ID).Points)

	// The next day is a fresh claim.
	require.NoError(t, service.Run(context.Background(), day.AddDate(0, 0, 1)))
	assert.Equal(t, int64(10), reloadAccount(t, db, user.ID).Points)
}

func TestRedeemedChallengesAreSkipped(t *testing.T) {
	db := setupTestDB(t)
	service := newStreakService(db)

	advisor := createTestAccount(t, db, models.AccountRoleAdvisor, decimal.Zero)
	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	appOpen := createStreakChallenge(t, db, user.ID, advisor.ID, models.ChallengeTitleDailyAppOpen, 0, "")
	require.NoError(t, db.Model(appOpen).UpdateColumn("is_redeemed", true).Error)

	streak := createStreakChallenge(t, db, user.ID, advisor.ID, models.ChallengeTitleDailyStreak, 2, pkg.DateString(day.AddDate(0, 0, -1)))
	require.NoError(t, db.Model(streak).UpdateColumn("is_redeemed", true).Error)
	logExpense(t, db, user.ID, day)

	require.NoError(t, service.Run(context.Background(), day))

	assert.Equal(t, int64(0), reloadAccount(t, db, user.ID).Points)

	var fresh models.Challenge
	require.NoError(t, db.Where("id = ?", streak.ID).First(&fresh).Error)
	assert.Equal(t, 2, fresh.Details.CurrentStreak)
}
