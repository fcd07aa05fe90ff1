package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	LicenseStatusActive  = "active"
	LicenseStatusExpired = "expired"
	LicenseStatusRevoked = "revoked"
)

// License is a driver's-license (SIM) record tied to a holder account.
type License struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Number    string         `gorm:"size:50;uniqueIndex;not null" json:"number"`
	HolderID  uint           `gorm:"not null;index" json:"holder_id"`
	Holder    *Account       `gorm:"foreignKey:HolderID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE" json:"holder,omitempty"`
	Class     string         `gorm:"size:10;not null" json:"class"`
	IssuedOn  datatypes.Date `json:"-"`
	ExpiresOn datatypes.Date `json:"-"`
	Status    string         `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
