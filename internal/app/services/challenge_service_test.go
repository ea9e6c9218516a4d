package services

import (
	"testing"

	"github.com/moneykaki/kaki-core/internal/app/errors"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedeemPointChallengeOnce(t *testing.T) {
	db := setupTestDB(t)
	accountService := NewAccountService(db, newTestValidator())
	service := NewChallengeService(db, newTestValidator(), accountService)

	advisor := createTestAccount(t, db, models.AccountRoleAdvisor, decimal.Zero)
	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)

	points := int64(40)
	challenge := &models.Challenge{
		UserID:      user.ID,
		CreatedBy:   advisor.ID,
		Title:       "Log five expenses",
		Points:      &points,
		RewardCodes: models.CodeList{},
	}
	require.NoError(t, db.Create(challenge).Error)

	result, err := service.RedeemChallenge(user.ID, challenge.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.RedeemStatusRedeemed, result.Status)
	assert.Equal(t, int64(40), result.PointsAwarded)
	assert.Equal(t, int64(40), reloadAccount(t, db, user.ID).Points)

	// The award is one-shot.
	_, err = service.RedeemChallenge(user.ID, challenge.ID.String())
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.CodeAlreadyProcessed, appErr.Code)
	assert.Equal(t, int64(40), reloadAccount(t, db, user.ID).Points)
}

func TestRedeemRewardChallengeWalksApprovalWorkflow(t *testing.T) {
	db := setupTestDB(t)
	accountService := NewAccountService(db, newTestValidator())
	service := NewChallengeService(db, newTestValidator(), accountService)
	redemptionService := NewRedemptionService(db, newTestValidator(), nil)

	advisor := createTestAccount(t, db, models.AccountRoleAdvisor, decimal.NewFromInt(30))
	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	reward := createTestReward(t, db, decimal.NewFromInt(10), "CODE-A")

	challenge := &models.Challenge{
		UserID:       user.ID,
		CreatedBy:    advisor.ID,
		Title:        "Save for a month",
		RewardID:     &reward.ID,
		Quantity:     1,
		OverallPrice: decimal.NewFromInt(10),
		RewardCodes:  models.CodeList{},
	}
	require.NoError(t, db.Create(challenge).Error)

	result, err := service.RedeemChallenge(user.ID, challenge.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.RedeemStatusSentToAdvisor, result.Status)

	result, err = service.RedeemChallenge(user.ID, challenge.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.RedeemStatusPendingApproval, result.Status)

	_, err = redemptionService.AdvisorRedeem(advisor.ID, challenge.ID.String())
	require.NoError(t, err)

	result, err = service.RedeemChallenge(user.ID, challenge.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.RedeemStatusRedeemed, result.Status)
	assert.Equal(t, []string{"CODE-A"}, result.Codes)

	_, err = service.RedeemChallenge(user.ID, challenge.ID.String())
	require.Error(t, err)
}

func TestRedeemChallengeNotOwned(t *testing.T) {
	db := setupTestDB(t)
	accountService := NewAccountService(db, newTestValidator())
	service := NewChallengeService(db, newTestValidator(), accountService)

	advisor := createTestAccount(t, db, models.AccountRoleAdvisor, decimal.Zero)
	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	other := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)

	points := int64(10)
	challenge := &models.Challenge{
		UserID:      user.ID,
		CreatedBy:   advisor.ID,
		Title:       "Solo challenge",
		Points:      &points,
		RewardCodes: models.CodeList{},
	}
	require.NoError(t, db.Create(challenge).Error)

	_, err := service.RedeemChallenge(other.ID, challenge.ID.String())
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.CodeNotFound, appErr.Code)
}
