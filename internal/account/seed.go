package account

import (
	"errors"
	"time"

	"github.com/rtodev/sim-admin/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedBootstrapAdmin creates a verified admin account so a fresh
// deployment has someone able to reach the admin routes. No-op when the
// account already exists or no credentials are configured.
func SeedBootstrapAdmin(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var existing models.Account
	err := db.Where("email = ? AND role = ?", email, models.RoleAdmin).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.Account{
		FullName:     "Bootstrap Admin",
		Email:        email,
		Password:     string(hash),
		Role:         models.RoleAdmin,
		IsVerified:   true,
		RegisteredOn: datatypes.Date(time.Now()),
	}
	return db.Create(&admin).Error
}
