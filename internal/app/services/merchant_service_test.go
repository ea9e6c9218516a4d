package services

import (
	"testing"

	"github.com/moneykaki/kaki-core/internal/app/errors"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestMerchant(t *testing.T, db *gorm.DB, points, quantity int64) *models.Merchant {
	t.Helper()

	merchant := &models.Merchant{
		Image:    "https://cdn.example.com/offer.png",
		Name:     "Coffee Club",
		Discount: decimal.NewFromInt(20),
		Points:   points,
		Quantity: quantity,
		Code:     "COFFEE-20",
	}
	require.NoError(t, db.Create(merchant).Error)
	return merchant
}

func TestRedeemMerchant(t *testing.T) {
	db := setupTestDB(t)
	accountService := NewAccountService(db, newTestValidator())
	service := NewMerchantService(db, newTestValidator(), accountService)

	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	require.NoError(t, db.Model(user).UpdateColumn("points", 100).Error)
	merchant := createTestMerchant(t, db, 60, 2)

	result, err := service.RedeemMerchant(user.ID, merchant.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "COFFEE-20", result.Code)
	assert.Equal(t, int64(60), result.PointsSpent)
	assert.Equal(t, int64(40), result.RemainingPoints)
	assert.Empty(t, result.Merchant.Code)

	var fresh models.Merchant
	require.NoError(t, db.Where("id = ?", merchant.ID).First(&fresh).Error)
	assert.Equal(t, int64(1), fresh.Quantity)

	// The redemption is recorded in the transaction log.
	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).
		Where("account_id = ? AND type = ?", user.ID, models.TransactionTypeMerchantRedemption).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRedeemMerchantInsufficientPoints(t *testing.T) {
	db := setupTestDB(t)
	accountService := NewAccountService(db, newTestValidator())
	service := NewMerchantService(db, newTestValidator(), accountService)

	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	require.NoError(t, db.Model(user).UpdateColumn("points", 30).Error)
	merchant := createTestMerchant(t, db, 60, 2)

	_, err := service.RedeemMerchant(user.ID, merchant.ID.String())
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.CodeInsufficientBalance, appErr.Code)

	// Transaction rollback restores the stock.
	var fresh models.Merchant
	require.NoError(t, db.Where("id = ?", merchant.ID).First(&fresh).Error)
	assert.Equal(t, int64(2), fresh.Quantity)
	assert.Equal(t, int64(30), reloadAccount(t, db, user.ID).Points)
}

func TestRedeemMerchantOutOfStock(t *testing.T) {
	db := setupTestDB(t)
	accountService := NewAccountService(db, newTestValidator())
	service := NewMerchantService(db, newTestValidator(), accountService)

	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	require.NoError(t, db.Model(user).UpdateColumn("points", 100).Error)
	merchant := createTestMerchant(t, db, 60, 0)

	_, err := service.RedeemMerchant(user.ID, merchant.ID.String())
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.CodeInsufficientInventory, appErr.Code)
	assert.Equal(t, int64(100), reloadAccount(t, db, user.ID).Points)
}

func TestGetAvailableMerchantsHidesCodes(t *testing.T) {
	db := setupTestDB(t)
	accountService := NewAccountService(db, newTestValidator())
	service := NewMerchantService(db, newTestValidator(), accountService)

	createTestMerchant(t, db, 60, 2)
	createTestMerchant(t, db, 30, 0)

	merchants, err := service.GetAvailableMerchants()
	require.NoError(t, err)

	require.Len(t, merchants, 1)
	assert.Empty(t, merchants[0].Code)
}
