package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Merchant struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Image     string          `json:"image"`
	Name      string          `json:"name"`
	Discount  decimal.Decimal `gorm:"type:decimal(5,2)" json:"discount"`
	Points    int64           `json:"points"`
	Quantity  int64           `json:"quantity"`
	Code      string          `json:"code,omitempty"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"deleted_at"`
}

func (m *Merchant) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Public strips the voucher code for unauthenticated listings.
func (m Merchant) Public() Merchant {
	m.Code = ""
	return m
}

type MerchantCreateRequest struct {
	Image    string           `json:"image"`
	Name     string           `json:"name" validate:"required,max=255"`
	Discount *decimal.Decimal `json:"discount,omitempty"`
	Points   int64            `json:"points" validate:"min=0"`
	Quantity int64            `json:"quantity" validate:"min=0"`
	Code     string           `json:"code,omitempty" validate:"omitempty,max=100"`
}

type MerchantUpdateRequest struct {
	Image    *string          `json:"image,omitempty"`
	Name     *string          `json:"name,omitempty" validate:"omitempty,max=255"`
	Discount *decimal.Decimal `json:"discount,omitempty"`
	Points   *int64           `json:"points,omitempty" validate:"omitempty,min=0"`
	Quantity *int64           `json:"quantity,omitempty" validate:"omitempty,min=0"`
	Code     *string          `json:"code,omitempty" validate:"omitempty,max=100"`
}

// MerchantRedeemResult is returned after a points redemption.
type MerchantRedeemResult struct {
	Merchant        *Merchant `json:"merchant"`
	Code            string    `json:"code"`
	PointsSpent     int64     `json:"points_spent"`
	RemainingPoints int64     `json:"remaining_points"`
}
