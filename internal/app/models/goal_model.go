package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Goal struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID       `gorm:"type:uuid;index" json:"user_id"`
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `gorm:"type:decimal(18,2)" json:"target_amount"`
	SavedAmount  decimal.Decimal `gorm:"type:decimal(18,2)" json:"saved_amount"`
	Deadline     *time.Time      `json:"deadline,omitempty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"deleted_at"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

type Saving struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID       `gorm:"type:uuid;index" json:"user_id"`
	GoalID    *uuid.UUID      `gorm:"type:uuid" json:"goal_id,omitempty"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"deleted_at"`
}

func (s *Saving) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type GoalCreateRequest struct {
	Name         string          `json:"name" validate:"required,max=255"`
	TargetAmount decimal.Decimal `json:"target_amount" validate:"required"`
	Deadline     *time.Time      `json:"deadline,omitempty"`
}

type GoalUpdateRequest struct {
	Name         *string          `json:"name,omitempty" validate:"omitempty,max=255"`
	TargetAmount *decimal.Decimal `json:"target_amount,omitempty"`
	Deadline     *time.Time       `json:"deadline,omitempty"`
}

type SavingCreateRequest struct {
	GoalID *string         `json:"goal_id,omitempty" validate:"omitempty,uuid"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Date   *time.Time      `json:"date,omitempty"`
}

type SavingUpdateRequest struct {
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Date   *time.Time       `json:"date,omitempty"`
}
