package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ChallengeTitleDailyAppOpen = "Daily App Open Challenge"
	ChallengeTitleDailyStreak  = "Daily Streak Challenges"
)

// StreakState is the challenge's consecutive-day progress, stored as a JSON
// details column.
type StreakState struct {
	CurrentStreak   int    `json:"current_streak"`
	LastExpenseDate string `json:"last_expense_date,omitempty"`
}

func (s StreakState) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StreakState) Scan(src any) error {
	if src == nil {
		*s = StreakState{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported streak state source type %T", src)
	}
	if len(raw) == 0 {
		*s = StreakState{}
		return nil
	}
	return json.Unmarshal(raw, s)
}

type Challenge struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;index" json:"user_id"`
	CreatedBy     uuid.UUID       `gorm:"type:uuid;index" json:"created_by"`
	Title         string          `gorm:"column:challenge_title;index" json:"challenge_title"`
	Points        *int64          `json:"points,omitempty"`
	RewardID      *uuid.UUID      `gorm:"type:uuid" json:"reward_id,omitempty"`
	Quantity      int             `gorm:"default:1" json:"quantity"`
	OverallPrice  decimal.Decimal `gorm:"type:decimal(18,2)" json:"overall_price"`
	SentToAdvisor bool            `json:"sent_to_advisor"`
	IsApproved    bool            `json:"is_approved"`
	IsRedeemed    bool            `json:"is_redeemed"`
	RewardCodes   CodeList        `gorm:"type:jsonb" json:"reward_codes"`
	Details       StreakState     `gorm:"type:jsonb" json:"details"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"deleted_at"`

	User *Account `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (c *Challenge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Status maps the challenge's approval flags onto the assignment workflow
// states; reward-gated challenges walk the same state machine.
func (c *Challenge) Status() AssignmentStatus {
	switch {
	case c.IsRedeemed:
		return AssignmentStatusRedeemed
	case c.IsApproved:
		return AssignmentStatusApproved
	case c.SentToAdvisor:
		return AssignmentStatusSentToAdvisor
	default:
		return AssignmentStatusNew
	}
}

// HasReward reports whether redeeming this challenge requires the advisor
// approval path instead of a direct point award.
func (c *Challenge) HasReward() bool {
	return c.RewardID != nil
}

type ChallengeCreateRequest struct {
	UserID       string           `json:"user_id" validate:"required,uuid"`
	Title        string           `json:"challenge_title" validate:"required,max=255"`
	Points       *int64           `json:"points,omitempty" validate:"omitempty,min=0"`
	RewardID     *string          `json:"reward_id,omitempty" validate:"omitempty,uuid"`
	Quantity     *int             `json:"quantity,omitempty" validate:"omitempty,min=1"`
	OverallPrice *decimal.Decimal `json:"overall_price,omitempty"`
}

type ChallengeUpdateRequest struct {
	Title string `json:"challenge_title" validate:"required,max=255"`
}

// ChallengeRedeemResult is returned by the user-side challenge redemption.
type ChallengeRedeemResult struct {
	Status        RedeemStatus `json:"status"`
	PointsAwarded int64        `json:"points_awarded"`
	Codes         []string     `json:"codes,omitempty"`
}
