package models

import "time"

// VerificationToken holds the 6-digit code mailed after registration.
// The unique index on email gives upsert semantics: issuing a new code
// replaces the previous one, so at most one live code exists per email.
type VerificationToken struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"size:100;uniqueIndex;not null"`
	Token     string    `gorm:"size:64;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

func (t VerificationToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// PasswordResetToken mirrors VerificationToken but is looked up by the
// token itself; the email is derived from the matched row.
type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"size:100;uniqueIndex;not null"`
	Token     string    `gorm:"size:64;uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

func (t PasswordResetToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
