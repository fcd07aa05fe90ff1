package account_test

import (
	"testing"
	"time"

	"github.com/rtodev/sim-admin/internal/account"
	"github.com/rtodev/sim-admin/internal/models"
	"github.com/rtodev/sim-admin/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*account.Service, *testutils.FakeMailer, *account.GormStore, *gorm.DB) {
	db := testutils.TestDB(t)
	store := account.NewStore(db)
	mail := &testutils.FakeMailer{}
	svc := account.NewService(store, mail)
	return svc, mail, store, db
}

func validInput() account.RegisterInput {
	return account.RegisterInput{
		FullName: "Jane Doe",
		Address:  "123 Long Enough Street",
		Phone:    "08123456789",
		Email:    "jane@x.com",
		Password: "Passw0rd",
	}
}

func TestServiceRegisterValidation(t *testing.T) {
	svc, _, _, _ := newService(t)

	cases := []struct {
		name   string
		mutate func(*account.RegisterInput)
		field  string
	}{
		{"missing name", func(in *account.RegisterInput) { in.FullName = "" }, "full_name"},
		{"missing address", func(in *account.RegisterInput) { in.Address = "" }, "address"},
		{"bad email", func(in *account.RegisterInput) { in.Email = "not-an-email" }, "email"},
		{"short phone", func(in *account.RegisterInput) { in.Phone = "12345" }, "phone"},
		{"non-digit phone", func(in *account.RegisterInput) { in.Phone = "08123abc456" }, "phone"},
		{"short password", func(in *account.RegisterInput) { in.Password = "Ab1" }, "password"},
		{"no uppercase", func(in *account.RegisterInput) { in.Password = "passw0rd1" }, "password"},
		{"no digit", func(in *account.RegisterInput) { in.Password = "Passwords" }, "password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)

			_, err := svc.Register(in)
			var validation *account.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Contains(t, validation.Fields, tc.field)
		})
	}
}

func TestServiceRegisterConflict(t *testing.T) {
	svc, _, _, db := newService(t)

	_, err := svc.Register(validInput())
	require.NoError(t, err)

	t.Run("same email", func(t *testing.T) {
		in := validInput()
		in.Phone = "08999999999"

		_, err := svc.Register(in)
		var conflict *account.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, []string{"email"}, conflict.Fields)
	})

	t.Run("same phone", func(t *testing.T) {
		in := validInput()
		in.Email = "other@x.com"

		_, err := svc.Register(in)
		var conflict *account.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, []string{"phone"}, conflict.Fields)
	})

	t.Run("same email and phone", func(t *testing.T) {
		_, err := svc.Register(validInput())
		var conflict *account.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.ElementsMatch(t, []string{"email", "phone"}, conflict.Fields)
	})

	t.Run("no duplicate row was created", func(t *testing.T) {
		var count int64
		require.NoError(t, db.Model(&models.Account{}).Where("email = ?", "jane@x.com").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestServiceRegisterDispatchFailure(t *testing.T) {
	svc, mail, store, _ := newService(t)
	mail.Fail = true

	result, err := svc.Register(validInput())
	require.NoError(t, err, "dispatch failure must not roll back registration")
	assert.False(t, result.EmailSent)
	assert.NotZero(t, result.AccountID)

	// The account and token were committed despite the failed send.
	acc, err := store.FindByEmail("jane@x.com")
	require.NoError(t, err)
	assert.False(t, acc.IsVerified)

	_, err = store.FindVerificationToken("jane@x.com")
	assert.NoError(t, err)
}

func TestServiceResendReplacesToken(t *testing.T) {
	svc, _, store, _ := newService(t)

	_, err := svc.Register(validInput())
	require.NoError(t, err)

	first, err := store.FindVerificationToken("jane@x.com")
	require.NoError(t, err)

	require.NoError(t, svc.ResendToken("jane@x.com"))

	second, err := store.FindVerificationToken("jane@x.com")
	require.NoError(t, err)

	if first.Token != second.Token {
		// The old code must be dead once a replacement is issued.
		err = svc.Verify("jane@x.com", first.Token)
		assert.ErrorIs(t, err, account.ErrTokenNotFound)
	}

	// The replacement code always works.
	assert.NoError(t, svc.Verify("jane@x.com", second.Token))
}

func TestServiceAntiEnumeration(t *testing.T) {
	svc, mail, _, _ := newService(t)

	t.Run("resend-token unknown email", func(t *testing.T) {
		assert.NoError(t, svc.ResendToken("ghost@x.com"))
		assert.Nil(t, mail.LastTo("ghost@x.com"))
	})

	t.Run("forgot-password unknown email", func(t *testing.T) {
		assert.NoError(t, svc.ForgotPassword("ghost@x.com"))
		assert.Nil(t, mail.LastTo("ghost@x.com"))
	})

	t.Run("login unknown email and wrong password look alike", func(t *testing.T) {
		_, err := svc.Register(validInput())
		require.NoError(t, err)

		_, unknownErr := svc.Login("ghost@x.com", "Passw0rd")
		_, wrongErr := svc.Login("jane@x.com", "Wr0ngPass")

		assert.ErrorIs(t, unknownErr, account.ErrInvalidCredentials)
		assert.ErrorIs(t, wrongErr, account.ErrInvalidCredentials)
	})
}

func TestServiceUnverifiedLogin(t *testing.T) {
	svc, _, _, db := newService(t)

	result, err := svc.Register(validInput())
	require.NoError(t, err)

	t.Run("live token routes to verification", func(t *testing.T) {
		_, err := svc.Login("jane@x.com", "Passw0rd")
		var needVerify *account.VerificationRequiredError
		require.ErrorAs(t, err, &needVerify)
		assert.Equal(t, result.AccountID, needVerify.AccountID)
	})

	t.Run("expired token is reported distinctly", func(t *testing.T) {
		err := db.Model(&models.VerificationToken{}).
			Where("email = ?", "jane@x.com").
			Update("expires_at", time.Now().Add(-time.Minute)).Error
		require.NoError(t, err)

		_, err = svc.Login("jane@x.com", "Passw0rd")
		assert.ErrorIs(t, err, account.ErrVerificationExpired)
	})

	t.Run("missing token is reported distinctly", func(t *testing.T) {
		err := db.Where("email = ?", "jane@x.com").Delete(&models.VerificationToken{}).Error
		require.NoError(t, err)

		_, err = svc.Login("jane@x.com", "Passw0rd")
		assert.ErrorIs(t, err, account.ErrVerificationMissing)
	})
}

func TestServiceResetPasswordSingleUse(t *testing.T) {
	svc, _, store, db := newService(t)

	_, err := svc.Register(validInput())
	require.NoError(t, err)

	tok, err := store.FindVerificationToken("jane@x.com")
	require.NoError(t, err)
	require.NoError(t, svc.Verify("jane@x.com", tok.Token))

	require.NoError(t, svc.ForgotPassword("jane@x.com"))

	var reset models.PasswordResetToken
	require.NoError(t, db.Where("email = ?", "jane@x.com").First(&reset).Error)

	require.NoError(t, svc.ResetPassword(reset.Token, "NewPassw0rd"))

	// Old password dead, new one live.
	_, err = svc.Login("jane@x.com", "Passw0rd")
	assert.ErrorIs(t, err, account.ErrInvalidCredentials)
	_, err = svc.Login("jane@x.com", "NewPassw0rd")
	assert.NoError(t, err)

	// The token was consumed with the rotation.
	err = svc.ResetPassword(reset.Token, "AnotherPassw0rd")
	assert.ErrorIs(t, err, account.ErrTokenNotFound)
}

func TestServiceForgotPasswordReplacesToken(t *testing.T) {
	svc, _, _, db := newService(t)

	_, err := svc.Register(validInput())
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword("jane@x.com"))
	var first models.PasswordResetToken
	require.NoError(t, db.Where("email = ?", "jane@x.com").First(&first).Error)

	require.NoError(t, svc.ForgotPassword("jane@x.com"))
	var second models.PasswordResetToken
	require.NoError(t, db.Where("email = ?", "jane@x.com").First(&second).Error)

	var count int64
	require.NoError(t, db.Model(&models.PasswordResetToken{}).Where("email = ?", "jane@x.com").Count(&count).Error)
	assert.Equal(t, int64(1), count, "at most one live reset token per email")

	if first.Token != second.Token {
		err = svc.ResetPassword(first.Token, "NewPassw0rd")
		assert.ErrorIs(t, err, account.ErrTokenNotFound)
	}
}

func TestServiceVerifyExpiredToken(t *testing.T) {
	svc, _, store, db := newService(t)

	_, err := svc.Register(validInput())
	require.NoError(t, err)

	tok, err := store.FindVerificationToken("jane@x.com")
	require.NoError(t, err)

	// Push the token past its expiry.
	err = db.Model(&models.VerificationToken{}).
		Where("email = ?", "jane@x.com").
		Update("expires_at", time.Now().Add(-time.Minute)).Error
	require.NoError(t, err)

	err = svc.Verify("jane@x.com", tok.Token)
	assert.ErrorIs(t, err, account.ErrTokenExpired)

	// Passive expiry: the row stays in place.
	_, err = store.FindVerificationToken("jane@x.com")
	assert.NoError(t, err)

	// And the account stayed unverified.
	acc, err := store.FindByEmail("jane@x.com")
	require.NoError(t, err)
	assert.False(t, acc.IsVerified)
}
