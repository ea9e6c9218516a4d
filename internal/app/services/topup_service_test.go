package services

import (
	"testing"

	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v82"
)

func TestApplyTopupCreditsOnce(t *testing.T) {
	db := setupTestDB(t)
	accountService := NewAccountService(db, newTestValidator())
	service := NewTopupService(db, newTestValidator(), nil, accountService)

	advisor := createTestAccount(t, db, models.AccountRoleAdvisor, decimal.NewFromInt(10))

	intent := &stripe.PaymentIntent{
		ID:     "pi_test_123",
		Amount: 2550,
		Metadata: map[string]string{
			"account_id": advisor.ID.String(),
		},
	}

	require.NoError(t, service.applyTopup(intent))
	assert.True(t, reloadAccount(t, db, advisor.ID).Credits.Equal(decimal.RequireFromString("35.50")))

	// Stripe redelivers webhooks; the same payment intent must not credit twice.
	require.NoError(t, service.applyTopup(intent))
	assert.True(t, reloadAccount(t, db, advisor.ID).Credits.Equal(decimal.RequireFromString("35.50")))

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).
		Where("external_reference_id = ?", intent.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestApplyTopupRejectsMissingMetadata(t *testing.T) {
	db := setupTestDB(t)
	accountService := NewAccountService(db, newTestValidator())
	service := NewTopupService(db, newTestValidator(), nil, accountService)

	err := service.applyTopup(&stripe.PaymentIntent{ID: "pi_test_456", Amount: 1000})
	require.Error(t, err)
}
