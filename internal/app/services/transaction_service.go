package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/moneykaki/kaki-core/internal/app/errors"
	"github.com/moneykaki/kaki-core/internal/app/models"
	"github.com/moneykaki/kaki-core/internal/app/pkg"
	"github.com/moneykaki/kaki-core/internal/infrastructures"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionService struct {
	db            *gorm.DB
	validator     *infrastructures.Validator
	textExtractor TextExtractor
}

func NewTransactionService(db *gorm.DB, validator *infrastructures.Validator, textExtractor TextExtractor) *TransactionService {
	return &TransactionService{
		db:            db,
		validator:     validator,
		textExtractor: textExtractor,
	}
}

func (s *TransactionService) CreateTransaction(accountID uuid.UUID, req *models.TransactionCreateRequest) (*models.Transaction, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.NewBadRequestError("Amount must be positive")
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	transaction := &models.Transaction{
		AccountID:   accountID,
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
		Status:      models.TransactionStatusCompleted,
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create transaction")
	}
	return transaction, nil
}

func (s *TransactionService) GetTransactions(accountID uuid.UUID, pagination *models.PaginationRequest) (*models.Pagination[[]models.Transaction], error) {
	page := pagination.Page
	if page < 1 {
		page = 1
	}
	limit := pagination.Limit
	if limit < 1 {
		limit = 20
	}

	query := s.db.Model(&models.Transaction{}).Where("account_id = ?", accountID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count transactions")
	}

	var transactions []models.Transaction
	err := query.Order("date DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&transactions).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get transactions")
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &models.Pagination[[]models.Transaction]{
		Items:      transactions,
		Page:       page,
		Limit:      limit,
		TotalItems: int(total),
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}, nil
}

// GetTransactionsByDateRange returns a user's expense and income entries in
// the half-open range [from, to).
func (s *TransactionService) GetTransactionsByDateRange(accountID uuid.UUID, from, to time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.db.Where("account_id = ? AND type IN ? AND date >= ? AND date < ?",
		accountID,
		[]models.TransactionType{models.TransactionTypeExpense, models.TransactionTypeIncome},
		from, to).
		Order("date DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get transactions")
	}
	return transactions, nil
}

// HasExpenseOn reports whether the account logged at least one expense on
// the calendar day containing t.
func (s *TransactionService) HasExpenseOn(accountID uuid.UUID, t time.Time) (bool, error) {
	from, to := pkg.DayRange(t)
	var count int64
	err := s.db.Model(&models.Transaction{}).
		Where("account_id = ? AND type = ? AND date >= ? AND date < ?",
			accountID, models.TransactionTypeExpense, from, to).
		Count(&count).Error
	if err != nil {
		return false, errors.NewInternalServerError(err, "Failed to check expenses")
	}
	return count > 0, nil
}

// CreateTransactionFromText runs the free-text prompt through the extraction
// service and logs the resulting transaction.
func (s *TransactionService) CreateTransactionFromText(accountID uuid.UUID, req *models.TransactionExtractRequest) (*models.Transaction, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	extracted, err := s.textExtractor.ExtractTransaction(req.Prompt)
	if err != nil {
		return nil, err
	}

	transactionType := models.TransactionType(extracted.Type)
	if transactionType != models.TransactionTypeExpense && transactionType != models.TransactionTypeIncome {
		return nil, errors.NewBadRequestError("Could not determine transaction type from text")
	}

	if extracted.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.NewBadRequestError("Could not extract a valid amount from text")
	}

	date := time.Now()
	if extracted.Date != nil {
		date = *extracted.Date
	}

	var category *string
	if extracted.Category != "" {
		category = &extracted.Category
	}

	transaction := &models.Transaction{
		AccountID:   accountID,
		Type:        transactionType,
		Amount:      extracted.Amount,
		Category:    category,
		Description: &req.Prompt,
		Date:        date,
		Status:      models.TransactionStatusCompleted,
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create transaction")
	}
	return transaction, nil
}

// SetMonthlyFinance extracts a monthly figure from free text and stores it
// on the account field named by the target.
func (s *TransactionService) SetMonthlyFinance(accountID uuid.UUID, field string, req *models.FinanceTextRequest) (*models.Account, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	column, ok := map[string]string{
		ExtractFieldMonthlyIncome:  "monthly_income",
		ExtractFieldMonthlyExpense: "monthly_expense",
		ExtractFieldSaveAmount:     "save_amount",
	}[field]
	if !ok {
		return nil, errors.NewBadRequestError("Unknown finance field")
	}

	amount, err := s.textExtractor.ExtractAmount(field, req.Prompt)
	if err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, errors.NewBadRequestError("Could not extract a valid amount from text")
	}

	err = s.db.Model(&models.Account{}).
		Where("id = ?", accountID).
		UpdateColumn(column, amount).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update account")
	}

	var account models.Account
	if err := s.db.Where("id = ?", accountID).First(&account).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get account")
	}
	return &account, nil
}
