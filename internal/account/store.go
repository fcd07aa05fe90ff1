package account

import (
	"errors"
	"strings"

	"github.com/rtodev/sim-admin/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence boundary of the lifecycle controller. The
// production implementation is GORM over MySQL; tests run the same
// implementation over an in-memory SQLite database.
type Store interface {
	// CreateAccount inserts the account and upserts its verification
	// token inside one transaction. A uniqueness violation surfaces as
	// *ConflictError.
	CreateAccount(acc *models.Account, token *models.VerificationToken) error
	FindByEmail(email string) (*models.Account, error)
	FindByID(id uint) (*models.Account, error)
	// FindConflicts reports which of email/phone are already taken
	// within the given role.
	FindConflicts(email, phone, role string) ([]string, error)

	FindVerificationToken(email string) (*models.VerificationToken, error)
	UpsertVerificationToken(t *models.VerificationToken) error
	// ConsumeVerification marks the account verified and deletes its
	// token row inside one transaction. Marking is idempotent: an
	// already-verified account is not an error.
	ConsumeVerification(email string) error

	FindResetToken(token string) (*models.PasswordResetToken, error)
	UpsertResetToken(t *models.PasswordResetToken) error
	// ConsumeReset rotates the password and deletes the reset token row
	// inside one transaction.
	ConsumeReset(email, passwordHash, token string) error

	CreateSession(s *models.Session) error
	FindSession(tokenHash string) (*models.Session, error)
	DeleteSession(tokenHash string) error
}

type GormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateAccount(acc *models.Account, token *models.VerificationToken) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(acc).Error; err != nil {
			if isUniqueViolation(err) {
				return &ConflictError{Fields: []string{"email"}}
			}
			return err
		}
		return upsertToken(tx, token)
	})
}

func (s *GormStore) FindByEmail(email string) (*models.Account, error) {
	var acc models.Account
	if err := s.db.Where("email = ?", email).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (s *GormStore) FindByID(id uint) (*models.Account, error) {
	var acc models.Account
	if err := s.db.First(&acc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (s *GormStore) FindConflicts(email, phone, role string) ([]string, error) {
	var rows []models.Account
	err := s.db.Where("role = ? AND (email = ? OR phone = ?)", role, email, phone).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	var fields []string
	for _, row := range rows {
		if row.Email == email && !contains(fields, "email") {
			fields = append(fields, "email")
		}
		if row.Phone == phone && !contains(fields, "phone") {
			fields = append(fields, "phone")
		}
	}
	return fields, nil
}

func (s *GormStore) FindVerificationToken(email string) (*models.VerificationToken, error) {
	var t models.VerificationToken
	if err := s.db.Where("email = ?", email).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) UpsertVerificationToken(t *models.VerificationToken) error {
	return upsertToken(s.db, t)
}

func (s *GormStore) ConsumeVerification(email string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Account{}).
			Where("email = ? AND is_verified = ?", email, false).
			Update("is_verified", true)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// Already verified is fine; a missing account is not.
			var acc models.Account
			if err := tx.Where("email = ?", email).First(&acc).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
		}

		return tx.Where("email = ?", email).Delete(&models.VerificationToken{}).Error
	})
}

func (s *GormStore) FindResetToken(token string) (*models.PasswordResetToken, error) {
	var t models.PasswordResetToken
	if err := s.db.Where("token = ?", token).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) UpsertResetToken(t *models.PasswordResetToken) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "expires_at"}),
	}).Create(t).Error
}

func (s *GormStore) ConsumeReset(email, passwordHash, token string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Account{}).
			Where("email = ?", email).
			Update("password", passwordHash).Error
		if err != nil {
			return err
		}
		return tx.Where("token = ?", token).Delete(&models.PasswordResetToken{}).Error
	})
}

func (s *GormStore) CreateSession(sess *models.Session) error {
	return s.db.Create(sess).Error
}

func (s *GormStore) FindSession(tokenHash string) (*models.Session, error) {
	var sess models.Session
	if err := s.db.Where("token_hash = ?", tokenHash).First(&sess).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}
	return &sess, nil
}

func (s *GormStore) DeleteSession(tokenHash string) error {
	return s.db.Where("token_hash = ?", tokenHash).Delete(&models.Session{}).Error
}

func upsertToken(db *gorm.DB, t *models.VerificationToken) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "expires_at"}),
	}).Create(t).Error
}

// isUniqueViolation catches duplicate-key failures across the MySQL and
// SQLite drivers, with a message fallback for drivers that don't
// translate to gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
