package services

import (
	"testing"

	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavingAdvancesGoalProgress(t *testing.T) {
	db := setupTestDB(t)
	service := NewGoalService(db, newTestValidator())

	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)

	goal, err := service.CreateGoal(user.ID, &models.GoalCreateRequest{
		Name:         "New laptop",
		TargetAmount: decimal.NewFromInt(1500),
	})
	require.NoError(t, err)

	goalID := goal.ID.String()
	saving, err := service.CreateSaving(user.ID, &models.SavingCreateRequest{
		GoalID: &goalID,
		Amount: decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	fresh, err := service.GetGoal(user.ID, goalID)
	require.NoError(t, err)
	assert.True(t, fresh.SavedAmount.Equal(decimal.NewFromInt(200)))

	// Deleting the saving winds the progress back.
	require.NoError(t, service.DeleteSaving(user.ID, saving.ID.String()))

	fresh, err = service.GetGoal(user.ID, goalID)
	require.NoError(t, err)
	assert.True(t, fresh.SavedAmount.Equal(decimal.Zero))
}

func TestGoalOwnershipEnforced(t *testing.T) {
	db := setupTestDB(t)
	service := NewGoalService(db, newTestValidator())

	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	other := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)

	goal, err := service.CreateGoal(user.ID, &models.GoalCreateRequest{
		Name:         "Trip fund",
		TargetAmount: decimal.NewFromInt(800),
	})
	require.NoError(t, err)

	_, err = service.GetGoal(other.ID, goal.ID.String())
	require.Error(t, err)

	goalID := goal.ID.String()
	_, err = service.CreateSaving(other.ID, &models.SavingCreateRequest{
		GoalID: &goalID,
		Amount: decimal.NewFromInt(50),
	})
	require.Error(t, err)
}

func TestDeleteGoalRemovesSavings(t *testing.T) {
	db := setupTestDB(t)
	service := NewGoalService(db, newTestValidator())

	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)

	goal, err := service.CreateGoal(user.ID, &models.GoalCreateRequest{
		Name:         "Emergency fund",
		TargetAmount: decimal.NewFromInt(3000),
	})
	require.NoError(t, err)

	goalID := goal.ID.String()
	_, err = service.CreateSaving(user.ID, &models.SavingCreateRequest{
		GoalID: &goalID,
		Amount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteGoal(user.ID, goalID))

	savings, err := service.GetSavings(user.ID)
	require.NoError(t, err)
	assert.Empty(t, savings)
}
