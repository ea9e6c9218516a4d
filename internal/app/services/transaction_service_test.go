package services

import (
	"testing"
	"time"

	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	amount      decimal.Decimal
	transaction *ExtractedTransaction
	err         error
}

func (s *stubExtractor) ExtractAmount(field, prompt string) (decimal.Decimal, error) {
	return s.amount, s.err
}

func (s *stubExtractor) ExtractTransaction(prompt string) (*ExtractedTransaction, error) {
	return s.transaction, s.err
}

func TestCreateTransactionRejectsNonPositiveAmount(t *testing.T) {
	db := setupTestDB(t)
	service := NewTransactionService(db, newTestValidator(), nil)

	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)

	_, err := service.CreateTransaction(user.ID, &models.TransactionCreateRequest{
		Type:   models.TransactionTypeExpense,
		Amount: decimal.NewFromInt(-5),
	})
	require.Error(t, err)
}

func TestHasExpenseOnRespectsDayBoundary(t *testing.T) {
	db := setupTestDB(t)
	service := NewTransactionService(db, newTestValidator(), nil)

	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	logExpense(t, db, user.ID, day.Add(23*time.Hour+59*time.Minute))

	has, err := service.HasExpenseOn(user.ID, day)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = service.HasExpenseOn(user.ID, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, has)

	has, err = service.HasExpenseOn(user.ID, day.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCreateTransactionFromText(t *testing.T) {
	db := setupTestDB(t)
	extractor := &stubExtractor{
		transaction: &ExtractedTransaction{
			Type:     "expense",
			Amount:   decimal.RequireFromString("12.50"),
			Category: "food",
		},
	}
	service := NewTransactionService(db, newTestValidator(), extractor)

	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)

	transaction, err := service.CreateTransactionFromText(user.ID, &models.TransactionExtractRequest{
		Prompt: "spent 12.50 on lunch today",
	})
	require.NoError(t, err)

	assert.Equal(t, models.TransactionTypeExpense, transaction.Type)
	assert.True(t, transaction.Amount.Equal(decimal.RequireFromString("12.50")))
	require.NotNil(t, transaction.Category)
	assert.Equal(t, "food", *transaction.Category)
}

func TestCreateTransactionFromTextRejectsUnknownType(t *testing.T) {
	db := setupTestDB(t)
	extractor := &stubExtractor{
		transaction: &ExtractedTransaction{Type: "transfer", Amount: decimal.NewFromInt(10)},
	}
	service := NewTransactionService(db, newTestValidator(), extractor)

	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)

	_, err := service.CreateTransactionFromText(user.ID, &models.TransactionExtractRequest{
		Prompt: "move 10 to savings",
	})
	require.Error(t, err)
}

func TestSetMonthlyFinance(t *testing.T) {
	db := setupTestDB(t)
	extractor := &stubExtractor{amount: decimal.NewFromInt(4200)}
	service := NewTransactionService(db, newTestValidator(), extractor)

	user := createTestAccount(t, db, models.AccountRoleUser, decimal.Zero)

	updated, err := service.SetMonthlyFinance(user.ID, ExtractFieldMonthlyIncome, &models.FinanceTextRequest{
		Prompt: "I earn 4200 a month",
	})
	require.NoError(t, err)
	assert.True(t, updated.MonthlyIncome.Equal(decimal.NewFromInt(4200)))

	_, err = service.SetMonthlyFinance(user.ID, "unknown_field", &models.FinanceTextRequest{Prompt: "x"})
	require.Error(t, err)
}
