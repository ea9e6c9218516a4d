package services

import (
	"testing"

	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndRemoveCodes(t *testing.T) {
	db := setupTestDB(t)
	service := NewRewardService(db, newTestValidator())

	reward := createTestReward(t, db, decimal.NewFromInt(10), "CODE-A")

	updated, err := service.AddCodes(reward.ID.String(), &models.RewardAddCodesRequest{
		Codes: []string{"CODE-B", "CODE-C"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.AvailableQuantity())

	updated, err = service.RemoveCode(reward.ID.String(), &models.RewardRemoveCodeRequest{Code: "CODE-B"})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.AvailableQuantity())

	fresh := reloadReward(t, db, reward.ID)
	codes := make([]string, 0, len(fresh.Codes))
	for _, entry := range fresh.Codes {
		codes = append(codes, entry.Code)
	}
	assert.ElementsMatch(t, []string{"CODE-A", "CODE-C"}, codes)
}

func TestRemoveCodeKeepsRedeemedEntries(t *testing.T) {
	db := setupTestDB(t)
	service := NewRewardService(db, newTestValidator())

	reward := &models.Reward{
		Picture: "https://cdn.example.com/reward.png",
		Name:    "Test Reward",
		Price:   decimal.NewFromInt(10),
		Codes: models.CodePool{
			{Code: "CODE-A", IsRedeemed: true},
			{Code: "CODE-B"},
		},
	}
	require.NoError(t, db.Create(reward).Error)

	// A redeemed code is part of the audit trail and cannot be removed.
	_, err := service.RemoveCode(reward.ID.String(), &models.RewardRemoveCodeRequest{Code: "CODE-A"})
	require.Error(t, err)

	fresh := reloadReward(t, db, reward.ID)
	assert.Len(t, fresh.Codes, 2)
}

func TestGetRewardsWithAvailableQuantity(t *testing.T) {
	db := setupTestDB(t)
	service := NewRewardService(db, newTestValidator())

	reward := &models.Reward{
		Picture: "https://cdn.example.com/reward.png",
		Name:    "Test Reward",
		Price:   decimal.NewFromInt(10),
		Codes: models.CodePool{
			{Code: "CODE-A", IsRedeemed: true},
			{Code: "CODE-B"},
			{Code: "CODE-C"},
		},
	}
	require.NoError(t, db.Create(reward).Error)

	rewards, err := service.GetRewardsWithAvailableQuantity()
	require.NoError(t, err)

	require.Len(t, rewards, 1)
	assert.Equal(t, 2, rewards[0].AvailableQuantity)
}
