package models

import "time"

// SettingsHistory is append-only. The newest entry for a key always mirrors
// the live value of that key; older entries are rollback candidates.
type SettingsHistory struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SettingKey string  `gorm:"size:100;not null;index" json:"setting_key"`
	OldValue   *string `gorm:"size:255" json:"old_value"`
	NewValue   string  `gorm:"size:255;not null" json:"new_value"`

	ChangedBy    string `gorm:"size:100;not null" json:"changed_by"`
	ChangeReason string `gorm:"type:text" json:"change_reason"`

	IsRollback     bool  `gorm:"default:false" json:"is_rollback"`
	RolledBackFrom *uint `json:"rolled_back_from"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
