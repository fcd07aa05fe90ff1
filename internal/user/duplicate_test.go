package user

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicate(t *testing.T) {
	assert.True(t, isDuplicate(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicate(errors.New("Error 1062 (23000): Duplicate entry 'x@x.com-user' for key 'idx_accounts_email_role'")))
	assert.True(t, isDuplicate(errors.New("UNIQUE constraint failed: accounts.email")))
	assert.False(t, isDuplicate(errors.New("dial tcp: connection refused")))
}
