package account

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex   = regexp.MustCompile(`^[0-9]{10,20}$`)
	numericToken = regexp.MustCompile(`^[0-9]{6}$`)

	profilePolicy = bluemonday.StrictPolicy()
)

func ValidEmail(email string) bool {
	return emailRegex.MatchString(email) && len(email) <= 255
}

func ValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

func ValidNumericToken(token string) bool {
	return numericToken.MatchString(token)
}

// CheckPassword applies the single credential policy used for both
// registration and reset: at least 8 characters with an uppercase
// letter and a digit. Returns an empty string when the password passes.
func CheckPassword(password string) string {
	if len(password) < 8 {
		return "password must be at least 8 characters"
	}

	var hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper {
		return "password must contain an uppercase letter"
	}
	if !hasDigit {
		return "password must contain a digit"
	}
	return ""
}

// SanitizeProfile strips markup from free-text profile fields before
// they are stored or echoed back.
func SanitizeProfile(s string) string {
	return strings.TrimSpace(profilePolicy.Sanitize(s))
}
