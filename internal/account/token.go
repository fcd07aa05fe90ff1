package account

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

const (
	// VerificationTokenTTL bounds the life of the 6-digit code mailed
	// after registration.
	VerificationTokenTTL = time.Hour

	// ResetTokenTTL bounds the life of a password-reset code.
	ResetTokenTTL = 15 * time.Minute

	// SessionTTL bounds the life of an opaque login session.
	SessionTTL = 7 * 24 * time.Hour
)

// NumericToken returns a zero-padded 6-digit code drawn from
// crypto/rand. The low entropy is deliberate (users type it from an
// email); the routes consuming these codes are rate limited.
func NumericToken() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// OpaqueToken returns 32 random bytes hex-encoded, used as the bearer
// session credential.
func OpaqueToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashToken is the storage form of session tokens; the plain token
// never touches the database.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
