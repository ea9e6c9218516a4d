package services

import (
	"testing"

	"github.com/moneykaki/kaki-core/internal/app/errors"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvisorRedeemInsufficientBalance(t *testing.T) {
	db := setupTestDB(t)
	service := NewRedemptionService(db, newTestValidator(), nil)

	advisor := createTestAccount(t, db, models.AccountRoleAdvisor, decimal.NewFromInt(15))
	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	reward := createTestReward(t, db, decimal.NewFromInt(10), "CODE-A", "CODE-B")
	assignment := createTestAssignment(t, db, advisor.ID, user.ID, reward.ID, 2)
	require.NoError(t, db.Model(assignment).UpdateColumn("sent_to_advisor", true).Error)

	_, err := service.AdvisorRedeem(advisor.ID, assignment.ID.String())
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.CodeInsufficientBalance, appErr.Code)

	// Nothing moved: codes stay unredeemed, balance untouched, flags clear.
	assert.Equal(t, 2, reloadReward(t, db, reward.ID).AvailableQuantity())
	assert.True(t, reloadAccount(t, db, advisor.ID).Credits.Equal(decimal.NewFromInt(15)))

	var fresh models.RewardAssignment
	require.NoError(t, db.Where("id = ?", assignment.ID).First(&fresh).Error)
	assert.False(t, fresh.IsApproved)
}

func TestAdvisorRedeemSuccess(t *testing.T) {
	db := setupTestDB(t)
	service := NewRedemptionService(db, newTestValidator(), nil)

	advisor := createTestAccount(t, db, models.AccountRoleAdvisor, decimal.NewFromInt(25))
	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	reward := createTestReward(t, db, decimal.NewFromInt(10), "CODE-A", "CODE-B")
	assignment := createTestAssignment(t, db, advisor.ID, user.ID, reward.ID, 2)
	require.NoError(t, db.Model(assignment).UpdateColumn("sent_to_advisor", true).Error)

	result, err := service.AdvisorRedeem(advisor.ID, assignment.ID.String())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"CODE-A", "CODE-B"}, result.Codes)
	assert.Equal(t, "20", result.Debited)
	assert.Equal(t, "5", result.RemainingBalance)

	assert.Equal(t, 0, reloadReward(t, db, reward.ID).AvailableQuantity())
	assert.True(t, reloadAccount(t, db, advisor.ID).Credits.Equal(decimal.NewFromInt(5)))

	var fresh models.RewardAssignment
	require.NoError(t, db.Where("id = ?", assignment.ID).First(&fresh).Error)
	assert.True(t, fresh.IsApproved)
	assert.Equal(t, models.CodeList(result.Codes), fresh.RewardCodes)
}

func TestAdvisorRedeemNotifiesAssignee(t *testing.T) {
	db := setupTestDB(t)
	mailer := &stubMailer{}
	service := NewRedemptionService(db, newTestValidator(), mailer)

	advisor := createTestAccount(t, db, models.AccountRoleAdvisor, decimal.NewFromInt(25))
	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	reward := createTestReward(t, db, decimal.NewFromInt(10), "CODE-A")
	assignment := createTestAssignment(t, db, advisor.ID, user.ID, reward.ID, 1)
	require.NoError(t, db.Model(assignment).UpdateColumn("sent_to_advisor", true).Error)

	_, err := service.AdvisorRedeem(advisor.ID, assignment.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, mailer.approvalSent)

	_, err = service.AdvisorRedeem(advisor.ID, assignment.ID.String())
	require.Error(t, err)
	assert.Equal(t, 1, mailer.approvalSent)
}

func TestAdvisorRedeemTwiceConflicts(t *testing.T) {
	db := setupTestDB(t)
	service := NewRedemptionService(db, newTestValidator(), nil)

	advisor := createTestAccount(t, db, models.AccountRoleAdvisor, decimal.NewFromInt(100))
	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	reward := createTestReward(t, db, decimal.NewFromInt(10), "CODE-A", "CODE-B", "CODE-C")
	assignment := createTestAssignment(t, db, advisor.ID, user.ID, reward.ID, 1)
	require.NoError(t, db.Model(assignment).UpdateColumn("sent_to_advisor", true).Error)

	_, err := service.AdvisorRedeem(advisor.ID, assignment.ID.String())
	require.NoError(t, err)

	_, err = service.AdvisorRedeem(advisor.ID, assignment.ID.String())
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.CodeAlreadyProcessed, appErr.Code)

	// Only the first approval debited and allocated.
	assert.Equal(t, 2, reloadReward(t, db, reward.ID).AvailableQuantity())
	assert.True(t, reloadAccount(t, db, advisor.ID).Credits.Equal(decimal.NewFromInt(90)))
}

func TestAdvisorRedeemRejectsUnsentAssignment(t *testing.T) {
	db := setupTestDB(t)
	service := NewRedemptionService(db, newTestValidator(), nil)

	advisor := createTestAccount(t, db, models.AccountRoleAdvisor, decimal.NewFromInt(100))
	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	reward := createTestReward(t, db, decimal.NewFromInt(10), "CODE-A")
	assignment := createTestAssignment(t, db, advisor.ID, user.ID, reward.ID, 1)

	_, err := service.AdvisorRedeem(advisor.ID, assignment.ID.String())
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.CodeConflict, appErr.Code)
}

func TestAdvisorRedeemInsufficientInventory(t *testing.T) {
	db := setupTestDB(t)
	service := NewRedemptionService(db, newTestValidator(), nil)

	advisor := createTestAccount(t, db, models.AccountRoleAdvisor, decimal.NewFromInt(100))
	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	reward := createTestReward(t, db, decimal.NewFromInt(10), "CODE-A")
	assignment := createTestAssignment(t, db, advisor.ID, user.ID, reward.ID, 3)
	require.NoError(t, db.Model(assignment).UpdateColumn("sent_to_advisor", true).Error)

	_, err := service.AdvisorRedeem(advisor.ID, assignment.ID.String())
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.CodeInsufficientInventory, appErr.Code)
	assert.Contains(t, appErr.Message, "need 3, have 1")
}

func TestAdvisorRedeemChallengeUsesOverallPrice(t *testing.T) {
	db := setupTestDB(t)
	service := NewRedemptionService(db, newTestValidator(), nil)

	advisor := createTestAccount(t, db, models.AccountRoleAdvisor, decimal.NewFromInt(50))
	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	reward := createTestReward(t, db, decimal.NewFromInt(10), "CODE-A", "CODE-B")

	challenge := &models.Challenge{
		UserID:        user.ID,
		CreatedBy:     advisor.ID,
		Title:         "Save for a month",
		RewardID:      &reward.ID,
		Quantity:      2,
		OverallPrice:  decimal.NewFromInt(12),
		SentToAdvisor: true,
		RewardCodes:   models.CodeList{},
	}
	require.NoError(t, db.Create(challenge).Error)

	result, err := service.AdvisorRedeem(advisor.ID, challenge.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "12", result.Debited)
	assert.True(t, reloadAccount(t, db, advisor.ID).Credits.Equal(decimal.NewFromInt(38)))
	assert.Len(t, result.Codes, 2)
}

func TestAdvisorRedeemUnknownTarget(t *testing.T) {
	db := setupTestDB(t)
	service := NewRedemptionService(db, newTestValidator(), nil)

	advisor := createTestAccount(t, db, models.AccountRoleAdvisor, decimal.NewFromInt(50))

	_, err := service.AdvisorRedeem(advisor.ID, "b3f5b763-59be-4e4a-b54b-67c05a379d1c")
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.CodeNotFound, appErr.Code)
}

func TestAssigneeRedeemWorkflow(t *testing.T) {
	db := setupTestDB(t)
	service := NewRedemptionService(db, newTestValidator(), nil)

	advisor := createTestAccount(t, db, models.AccountRoleAdvisor, decimal.NewFromInt(100))
	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	reward := createTestReward(t, db, decimal.NewFromInt(10), "CODE-A")
	assignment := createTestAssignment(t, db, advisor.ID, user.ID, reward.ID, 1)

	// First call sends the assignment to the advisor.
	result, err := service.AssigneeRedeem(user.ID, assignment.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.RedeemStatusSentToAdvisor, result.Status)
	assert.Empty(t, result.Codes)

	// Still pending while the advisor has not approved.
	result, err = service.AssigneeRedeem(user.ID, assignment.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.RedeemStatusPendingApproval, result.Status)

	_, err = service.AdvisorRedeem(advisor.ID, assignment.ID.String())
	require.NoError(t, err)

	// Approved: codes are released exactly once.
	result, err = service.AssigneeRedeem(user.ID, assignment.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.RedeemStatusRedeemed, result.Status)
	assert.Equal(t, []string{"CODE-A"}, result.Codes)

	_, err = service.AssigneeRedeem(user.ID, assignment.ID.String())
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.CodeAlreadyProcessed, appErr.Code)
}

func TestAssigneeRedeemApprovedWithoutCodes(t *testing.T) {
	db := setupTestDB(t)
	service := NewRedemptionService(db, newTestValidator(), nil)

	advisor := createTestAccount(t, db, models.AccountRoleAdvisor, decimal.NewFromInt(100))
	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	reward := createTestReward(t, db, decimal.NewFromInt(10), "CODE-A")

	assignment := &models.RewardAssignment{
		CreatedBy:     advisor.ID,
		AssigneeID:    user.ID,
		RewardID:      reward.ID,
		Quantity:      1,
		SentToAdvisor: true,
		IsApproved:    true,
		RewardCodes:   models.CodeList{},
	}
	require.NoError(t, db.Create(assignment).Error)

	_, err := service.AssigneeRedeem(user.ID, assignment.ID.String())
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.CodeNoCodesAvailable, appErr.Code)

	// The failed release does not consume the one-shot flag.
	var fresh models.RewardAssignment
	require.NoError(t, db.Where("id = ?", assignment.ID).First(&fresh).Error)
	assert.False(t, fresh.IsRedeemed)
}

func TestAssigneeRedeemWrongUser(t *testing.T) {
	db := setupTestDB(t)
	service := NewRedemptionService(db, newTestValidator(), nil)

	advisor := createTestAccount(t, db, models.AccountRoleAdvisor, decimal.NewFromInt(100))
	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	other := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	reward := createTestReward(t, db, decimal.NewFromInt(10), "CODE-A")
	assignment := createTestAssignment(t, db, advisor.ID, user.ID, reward.ID, 1)

	_, err := service.AssigneeRedeem(other.ID, assignment.ID.String())
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.CodeNotFound, appErr.Code)
}
