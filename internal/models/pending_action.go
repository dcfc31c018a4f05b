package models

import "time"

type PendingActionStatus string

const (
	PendingStatusPending   PendingActionStatus = "pending"
	PendingStatusExecuted  PendingActionStatus = "executed"
	PendingStatusCancelled PendingActionStatus = "cancelled"
	PendingStatusExpired   PendingActionStatus = "expired"
)

// PendingAction is a delayed tier-3 action waiting for its execution window.
// Status only ever moves pending -> executed | cancelled | expired.
type PendingAction struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	ActorID    uint   `gorm:"not null" json:"actor_id"`
	ActionType string `gorm:"size:50;not null;index" json:"action_type"`
	ActionTier string `gorm:"size:10;not null" json:"action_tier"`

	Payload     string `gorm:"type:text" json:"payload"`
	TargetTable string `gorm:"size:50" json:"target_table"`
	TargetID    *uint  `json:"target_id"`

	Justification      string `gorm:"type:text" json:"justification"`
	AffectedUsersCount int    `gorm:"default:0" json:"affected_users_count"`

	ScheduledFor time.Time           `gorm:"not null;index" json:"scheduled_for"`
	Status       PendingActionStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`

	CancelledAt     *time.Time `json:"cancelled_at"`
	CancelledReason string     `gorm:"type:text" json:"cancelled_reason"`

	CreatedAt time.Time `json:"created_at"`
}
