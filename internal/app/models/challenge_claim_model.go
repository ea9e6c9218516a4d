package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChallengeClaim is the append-only award log for the nightly evaluator.
// The composite unique index is the idempotency guard: one daily claim per
// challenge per day (empty milestone), and one claim per milestone.
type ChallengeClaim struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChallengeID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_challenge_claims_unit" json:"challenge_id"`
	UserID        uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	PointsAwarded int64     `json:"points_awarded"`
	ClaimDate     string    `gorm:"uniqueIndex:idx_challenge_claims_unit" json:"claim_date"`
	Milestone     string    `gorm:"uniqueIndex:idx_challenge_claims_unit" json:"milestone,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *ChallengeClaim) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
