package account

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password, so login responses cannot be used to enumerate
	// accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrNotFound      = errors.New("account not found")
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")

	// ErrVerificationMissing and ErrVerificationExpired cover login
	// attempts by unverified accounts whose verification code is gone
	// or stale.
	ErrVerificationMissing = errors.New("account not verified and no verification code on file")
	ErrVerificationExpired = errors.New("account not verified and verification code expired")

	ErrSessionInvalid = errors.New("invalid or expired session")
)

// ValidationError carries a per-field message map for malformed input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// ConflictError names the unique fields that collided on registration.
type ConflictError struct {
	Fields []string
}

func (e *ConflictError) Error() string {
	return "already registered: " + strings.Join(e.Fields, ", ")
}

// VerificationRequiredError is returned on login when the account is
// unverified but still holds a live verification code. The account id
// lets the client route straight to the verification screen.
type VerificationRequiredError struct {
	AccountID uint
}

func (e *VerificationRequiredError) Error() string {
	return "email requires verification"
}
