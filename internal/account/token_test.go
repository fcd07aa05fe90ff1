package account_test

import (
	"regexp"
	"testing"

	"github.com/rtodev/sim-admin/internal/account"
	"github.com/stretchr/testify/assert"
)

func TestNumericToken(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9]{6}$`)

	for i := 0; i < 50; i++ {
		code, err := account.NumericToken()
		assert.NoError(t, err)
		assert.Regexp(t, pattern, code, "code must be a zero-padded 6-digit string")
	}
}

func TestOpaqueToken(t *testing.T) {
	seen := map[string]bool{}

	for i := 0; i < 20; i++ {
		token, err := account.OpaqueToken()
		assert.NoError(t, err)
		assert.Len(t, token, 64, "32 random bytes hex-encoded")
		assert.False(t, seen[token], "tokens must not repeat")
		seen[token] = true
	}
}

func TestHashToken(t *testing.T) {
	a := account.HashToken("some-token")
	b := account.HashToken("some-token")
	c := account.HashToken("other-token")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
