package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionTypeExpense            TransactionType = "expense"
	TransactionTypeIncome             TransactionType = "income"
	TransactionTypeTopup              TransactionType = "topup"
	TransactionTypeMerchantRedemption TransactionType = "merchant_redemption"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

type Transaction struct {
	ID                  uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID           uuid.UUID         `gorm:"type:uuid;index" json:"account_id"`
	Type                TransactionType   `json:"type"`
	Amount              decimal.Decimal   `gorm:"type:decimal(18,2)" json:"amount"`
	Category            *string           `json:"category,omitempty"`
	Description         *string           `json:"description,omitempty"`
	Date                time.Time         `gorm:"index" json:"date"`
	Status              TransactionStatus `gorm:"default:COMPLETED" json:"status"`
	ExternalReferenceID *string           `gorm:"uniqueIndex" json:"external_reference_id,omitempty"`
	CreatedAt           time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type TransactionCreateRequest struct {
	Type        TransactionType `json:"type" validate:"required,oneof=expense income"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Category    *string         `json:"category,omitempty" validate:"omitempty,max=100"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=1000"`
	Date        *time.Time      `json:"date,omitempty"`
}

// TransactionExtractRequest carries free text handed to the extraction
// service; the resulting draft is logged as a normal transaction.
type TransactionExtractRequest struct {
	Prompt string `json:"prompt" validate:"required,max=2000"`
}

type FinanceTextRequest struct {
	Prompt string `json:"prompt" validate:"required,max=2000"`
}
