package models

import "time"

// Setting is a flat key/value configuration row. Values are strings and
// interpreted per-key ("true"/"false" for flags, numeric strings for fees).
// Version is the optimistic concurrency token: every mutation must match the
// version it read or the update is rejected.
type Setting struct {
	Key         string `gorm:"primaryKey;size:100" json:"key"`
	Value       string `gorm:"size:255;not null" json:"value"`
	Description string `gorm:"size:255" json:"description"`
	Version     int64  `gorm:"not null;default:1" json:"version"`

	UpdatedBy string    `gorm:"size:100" json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Chaves pré-carregadas no seed
const (
	SettingRegistrationOpen   = "registration_open"
	SettingPaymentsEnabled    = "payments_enabled"
	SettingRegistrationFee    = "registration_fee"
	SettingSystemFrozen       = "system_frozen"
	SettingMaintenanceMode    = "maintenance_mode"
	SettingEmailNotifications = "email_notifications"
)
