package models

import "time"

// ActionLog is the append-only audit trail of administrative actions.
// Rows are never updated or deleted.
type ActionLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ActorID    *uint  `json:"actor_id"`
	ActionType string `gorm:"size:50;not null;index" json:"action_type"`

	TargetTable string `gorm:"size:50" json:"target_table"`
	TargetID    string `gorm:"size:36" json:"target_id"`
	Metadata    string `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
