package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AccountRole string

const (
	AccountRoleUser    AccountRole = "user"
	AccountRoleAdvisor AccountRole = "advisor"
	AccountRoleAdmin   AccountRole = "admin"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
)

type Account struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	FullName       string          `json:"full_name"`
	Email          string          `gorm:"uniqueIndex" json:"email"`
	Password       string          `json:"-"`
	ContactNumber  string          `json:"contact_number"`
	ProfilePicture *string         `json:"profile_picture,omitempty"`
	Role           AccountRole     `gorm:"default:user" json:"role"`
	Status         AccountStatus   `gorm:"default:inactive" json:"status"`
	Credits        decimal.Decimal `gorm:"type:decimal(18,2)" json:"credits"`
	Points         int64           `json:"points"`
	EmailCode      *string         `json:"-"`
	ResetCode      *string         `json:"-"`
	EmailVerified  bool            `json:"email_verified"`
	AdvisorID      *uuid.UUID      `gorm:"type:uuid" json:"advisor_id,omitempty"`
	MonthlyIncome  decimal.Decimal `gorm:"type:decimal(18,2)" json:"monthly_income"`
	MonthlyExpense decimal.Decimal `gorm:"type:decimal(18,2)" json:"monthly_expense"`
	SaveAmount     decimal.Decimal `gorm:"type:decimal(18,2)" json:"save_amount"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"deleted_at"`
}

// BeforeCreate assigns the ID client-side so every dialect gets one.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type AccountCreateRequest struct {
	FullName      string `json:"full_name" validate:"required,max=255"`
	Email         string `json:"email" validate:"required,email"`
	ContactNumber string `json:"contact_number" validate:"required,max=32"`
	Role          string `json:"role" validate:"omitempty,oneof=user advisor"`
	AdvisorID     *string `json:"advisor_id,omitempty" validate:"omitempty,uuid"`
}

type AccountUpdateRequest struct {
	FullName       *string          `json:"full_name,omitempty" validate:"omitempty,max=255"`
	ContactNumber  *string          `json:"contact_number,omitempty" validate:"omitempty,max=32"`
	ProfilePicture *string          `json:"profile_picture,omitempty"`
	Status         *AccountStatus   `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	Credits        *decimal.Decimal `json:"credits,omitempty" validate:"omitempty"`
	Points         *int64           `json:"points,omitempty" validate:"omitempty,min=0"`
	AdvisorID      *string          `json:"advisor_id,omitempty" validate:"omitempty,uuid"`
}

type VerifyEmailRequest struct {
	Email     string `json:"email" validate:"required,email"`
	EmailCode string `json:"email_code" validate:"required,len=4"`
}

type CreatePasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token   string   `json:"token"`
	Account *Account `json:"account"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyResetCodeRequest struct {
	Email     string `json:"email" validate:"required,email"`
	ResetCode string `json:"reset_code" validate:"required,len=4"`
}

type ResetPasswordRequest struct {
	Email     string `json:"email" validate:"required,email"`
	ResetCode string `json:"reset_code" validate:"required,len=4"`
	Password  string `json:"password" validate:"required,min=8"`
}
