package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account is a registered principal. Email is unique within a role, so
// the same address may hold both an end-user and an admin account.
type Account struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	FullName     string         `gorm:"size:100" json:"full_name"`
	Address      string         `gorm:"size:255" json:"address"`
	Phone        string         `gorm:"size:20;index" json:"phone"`
	Email        string         `gorm:"size:100;uniqueIndex:idx_accounts_email_role" json:"email"`
	Password     string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;default:'user';uniqueIndex:idx_accounts_email_role" json:"role"`
	IsVerified   bool           `gorm:"default:false" json:"is_verified"`
	RegisteredOn datatypes.Date `json:"registered_on"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}
