package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssignmentStatus is the approval-workflow state derived from the
// persisted flags. Transitions only move forward:
// New -> SentToAdvisor -> Approved -> Redeemed.
type AssignmentStatus string

const (
	AssignmentStatusNew           AssignmentStatus = "new"
	AssignmentStatusSentToAdvisor AssignmentStatus = "sent_to_advisor"
	AssignmentStatusApproved      AssignmentStatus = "approved"
	AssignmentStatusRedeemed      AssignmentStatus = "redeemed"
)

var assignmentStatusRank = map[AssignmentStatus]int{
	AssignmentStatusNew:           0,
	AssignmentStatusSentToAdvisor: 1,
	AssignmentStatusApproved:      2,
	AssignmentStatusRedeemed:      3,
}

// CanTransition reports whether moving from s to next is a single forward
// step. Skipping a state or moving backwards is rejected.
func (s AssignmentStatus) CanTransition(next AssignmentStatus) bool {
	from, ok := assignmentStatusRank[s]
	if !ok {
		return false
	}
	to, ok := assignmentStatusRank[next]
	if !ok {
		return false
	}
	return to == from+1
}

type RewardAssignment struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedBy     uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	AssigneeID    uuid.UUID      `gorm:"type:uuid;index" json:"assignee_id"`
	RewardID      uuid.UUID      `gorm:"type:uuid" json:"reward_id"`
	Quantity      int            `gorm:"default:1" json:"quantity"`
	ScheduleType  string         `json:"schedule_type"`
	Date          *time.Time     `json:"date,omitempty"`
	Headline      *string        `json:"headline,omitempty"`
	Greeting      *string        `json:"greeting,omitempty"`
	SentToAdvisor bool           `json:"sent_to_advisor"`
	IsApproved    bool           `json:"is_approved"`
	IsRedeemed    bool           `json:"is_redeemed"`
	RewardCodes   CodeList       `gorm:"type:jsonb" json:"reward_codes"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at"`

	Reward *Reward `gorm:"foreignKey:RewardID" json:"reward,omitempty"`
}

func (a *RewardAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Status derives the workflow state from the persisted flags.
func (a *RewardAssignment) Status() AssignmentStatus {
	switch {
	case a.IsRedeemed:
		return AssignmentStatusRedeemed
	case a.IsApproved:
		return AssignmentStatusApproved
	case a.SentToAdvisor:
		return AssignmentStatusSentToAdvisor
	default:
		return AssignmentStatusNew
	}
}

type RewardAssignmentCreateRequest struct {
	AssigneeID    string     `json:"assignee_id" validate:"required,uuid"`
	RewardID      string     `json:"reward_id" validate:"required,uuid"`
	Quantity      int        `json:"quantity" validate:"omitempty,min=1"`
	ScheduleType  string     `json:"schedule_type" validate:"required,oneof=instant scheduled"`
	Date          *time.Time `json:"date,omitempty"`
	Headline      *string    `json:"headline,omitempty" validate:"omitempty,max=255"`
	Greeting      *string    `json:"greeting,omitempty" validate:"omitempty,max=1000"`
	SentToAdvisor bool       `json:"sent_to_advisor"`
}

type RewardAssignmentUpdateRequest struct {
	Quantity     *int       `json:"quantity,omitempty" validate:"omitempty,min=1"`
	ScheduleType *string    `json:"schedule_type,omitempty" validate:"omitempty,oneof=instant scheduled"`
	Date         *time.Time `json:"date,omitempty"`
	Headline     *string    `json:"headline,omitempty" validate:"omitempty,max=255"`
	Greeting     *string    `json:"greeting,omitempty" validate:"omitempty,max=1000"`
}

// RedeemStatus is the outcome reported to the end user by the user-side
// redemption calls.
type RedeemStatus string

const (
	// RedeemStatusSentToAdvisor: this call initiated the approval workflow.
	RedeemStatusSentToAdvisor RedeemStatus = "sent_to_advisor"
	// RedeemStatusPendingApproval: already with the advisor, nothing mutated.
	RedeemStatusPendingApproval RedeemStatus = "pending_approval"
	// RedeemStatusRedeemed: codes released to the user.
	RedeemStatusRedeemed RedeemStatus = "redeemed"
)

// RedemptionResult is returned by the advisor-side redemption: the codes the
// assignee will receive, the amount debited and what is left on the balance.
type RedemptionResult struct {
	Codes            []string `json:"codes"`
	Debited          string   `json:"debited"`
	RemainingBalance string   `json:"remaining_balance"`
}

// AssigneeRedeemResult is returned by the user-side redemption call.
type AssigneeRedeemResult struct {
	Status RedeemStatus `json:"status"`
	Codes  []string     `json:"codes,omitempty"`
}
