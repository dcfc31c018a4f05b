package models

import "time"

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'staff'" json:"role"`
	Banned       bool   `gorm:"default:false" json:"banned"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	RoleStaff      = "staff"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// CanOperateSafeActions define quem pode disparar ações administrativas
func (u *User) CanOperateSafeActions() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperadmin
}
