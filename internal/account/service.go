package account

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/rtodev/sim-admin/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// Dispatcher delivers token emails. Delivery failures never roll back
// committed state; callers fall back to the resend endpoint.
type Dispatcher interface {
	Send(to, subject, body string) error
}

// Service is the account lifecycle controller: registration, email
// verification, login/logout and the password-reset flow. All
// multi-statement transitions run inside store transactions.
type Service struct {
	store Store
	mail  Dispatcher
	now   func() time.Time
}

func NewService(store Store, mail Dispatcher) *Service {
	return &Service{
		store: store,
		mail:  mail,
		now:   time.Now,
	}
}

type RegisterInput struct {
	FullName string `json:"full_name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResult struct {
	AccountID uint
	EmailSent bool
}

func (s *Service) Register(in RegisterInput) (*RegisterResult, error) {
	in.FullName = SanitizeProfile(in.FullName)
	in.Address = SanitizeProfile(in.Address)

	fields := map[string]string{}
	if in.FullName == "" {
		fields["full_name"] = "full_name is required"
	}
	if in.Address == "" {
		fields["address"] = "address is required"
	}
	if in.Phone == "" {
		fields["phone"] = "phone is required"
	} else if !ValidPhone(in.Phone) {
		fields["phone"] = "phone must be 10-20 digits"
	}
	if in.Email == "" {
		fields["email"] = "email is required"
	} else if !ValidEmail(in.Email) {
		fields["email"] = "email format is invalid"
	}
	if in.Password == "" {
		fields["password"] = "password is required"
	} else if msg := CheckPassword(in.Password); msg != "" {
		fields["password"] = msg
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	conflicts, err := s.store.FindConflicts(in.Email, in.Phone, models.RoleUser)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Fields: conflicts}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	code, err := NumericToken()
	if err != nil {
		return nil, err
	}

	now := s.now()
	acc := &models.Account{
		FullName:     in.FullName,
		Address:      in.Address,
		Phone:        in.Phone,
		Email:        in.Email,
		Password:     string(hash),
		Role:         models.RoleUser,
		IsVerified:   false,
		RegisteredOn: datatypes.Date(now),
	}
	token := &models.VerificationToken{
		Email:     in.Email,
		Token:     code,
		ExpiresAt: now.Add(VerificationTokenTTL),
	}

	if err := s.store.CreateAccount(acc, token); err != nil {
		return nil, err
	}

	result := &RegisterResult{AccountID: acc.ID, EmailSent: true}
	if err := s.sendVerificationCode(in.Email, code); err != nil {
		log.Printf("verification email to %s failed: %v", in.Email, err)
		result.EmailSent = false
	}
	return result, nil
}

func (s *Service) Verify(email, token string) error {
	fields := map[string]string{}
	if !ValidEmail(email) {
		fields["email"] = "email format is invalid"
	}
	if !ValidNumericToken(token) {
		fields["token"] = "token must be a 6-digit code"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	rec, err := s.store.FindVerificationToken(email)
	if err != nil {
		return err
	}
	if rec.Token != token {
		return ErrTokenNotFound
	}
	if rec.Expired(s.now()) {
		// Passive expiry: the stale row stays until a resend replaces it.
		return ErrTokenExpired
	}

	return s.store.ConsumeVerification(email)
}

type LoginResult struct {
	Token   string
	Account *models.Account
}

func (s *Service) Login(email, password string) (*LoginResult, error) {
	fields := map[string]string{}
	if email == "" {
		fields["email"] = "email is required"
	}
	if password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	acc, err := s.store.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(acc.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if !acc.IsVerified {
		rec, err := s.store.FindVerificationToken(acc.Email)
		if err != nil {
			if errors.Is(err, ErrTokenNotFound) {
				return nil, ErrVerificationMissing
			}
			return nil, err
		}
		if rec.Expired(s.now()) {
			return nil, ErrVerificationExpired
		}
		return nil, &VerificationRequiredError{AccountID: acc.ID}
	}

	token, err := OpaqueToken()
	if err != nil {
		return nil, err
	}

	sess := &models.Session{
		AccountID: acc.ID,
		TokenHash: HashToken(token),
		ExpiresAt: s.now().Add(SessionTTL),
	}
	if err := s.store.CreateSession(sess); err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, Account: acc}, nil
}

func (s *Service) Logout(token string) error {
	return s.store.DeleteSession(HashToken(token))
}

// ResendToken reissues a verification code. The outcome is identical
// whether the email exists, is already verified, or is pending, so the
// endpoint cannot be used to probe for accounts.
func (s *Service) ResendToken(email string) error {
	if !ValidEmail(email) {
		return &ValidationError{Fields: map[string]string{"email": "email format is invalid"}}
	}

	acc, err := s.store.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if acc.IsVerified {
		return nil
	}

	code, err := NumericToken()
	if err != nil {
		return err
	}

	token := &models.VerificationToken{
		Email:     email,
		Token:     code,
		ExpiresAt: s.now().Add(VerificationTokenTTL),
	}
	if err := s.store.UpsertVerificationToken(token); err != nil {
		return err
	}

	if err := s.sendVerificationCode(email, code); err != nil {
		log.Printf("verification email to %s failed: %v", email, err)
	}
	return nil
}

// ForgotPassword issues a reset code when the email is registered and
// silently does nothing otherwise; the response is the same either way.
func (s *Service) ForgotPassword(email string) error {
	if !ValidEmail(email) {
		return &ValidationError{Fields: map[string]string{"email": "email format is invalid"}}
	}

	if _, err := s.store.FindByEmail(email); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	code, err := NumericToken()
	if err != nil {
		return err
	}

	token := &models.PasswordResetToken{
		Email:     email,
		Token:     code,
		ExpiresAt: s.now().Add(ResetTokenTTL),
	}
	if err := s.store.UpsertResetToken(token); err != nil {
		return err
	}

	body := fmt.Sprintf("Your password reset code is %s. It expires in 15 minutes.", code)
	if err := s.mail.Send(email, "Password reset code", body); err != nil {
		log.Printf("reset email to %s failed: %v", email, err)
	}
	return nil
}

// ResetPassword looks the token up on its own and derives the email
// from the matched row, so a caller cannot pair someone else's token
// with an arbitrary email.
func (s *Service) ResetPassword(token, newPassword string) error {
	fields := map[string]string{}
	if token == "" {
		fields["token"] = "token is required"
	}
	if newPassword == "" {
		fields["new_password"] = "new_password is required"
	} else if msg := CheckPassword(newPassword); msg != "" {
		fields["new_password"] = msg
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	rec, err := s.store.FindResetToken(token)
	if err != nil {
		return err
	}
	if rec.Expired(s.now()) {
		return ErrTokenExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.store.ConsumeReset(rec.Email, string(hash), token)
}

func (s *Service) sendVerificationCode(email, code string) error {
	body := fmt.Sprintf("Your verification code is %s. It expires in 1 hour.", code)
	return s.mail.Send(email, "Verify your email", body)
}
