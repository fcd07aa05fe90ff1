package user

import (
	"errors"
	"strings"
	"time"

	"github.com/rtodev/sim-admin/internal/account"
	"github.com/rtodev/sim-admin/internal/database"
	"github.com/rtodev/sim-admin/internal/models"
	"github.com/rtodev/sim-admin/internal/response"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Admin-facing account management. Accounts created here are trusted
// and start out verified; self-service registration goes through
// /auth/register instead.

func CreateAccountHandler(c *fiber.Ctx) error {
	var body struct {
		FullName string `json:"full_name"`
		Address  string `json:"address"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	body.FullName = account.SanitizeProfile(body.FullName)
	body.Address = account.SanitizeProfile(body.Address)
	if body.Role == "" {
		body.Role = models.RoleUser
	}

	fields := map[string]string{}
	if body.FullName == "" {
		fields["full_name"] = "full_name is required"
	}
	if body.Email == "" || !account.ValidEmail(body.Email) {
		fields["email"] = "a valid email is required"
	}
	if body.Phone != "" && !account.ValidPhone(body.Phone) {
		fields["phone"] = "phone must be 10-20 digits"
	}
	if msg := account.CheckPassword(body.Password); msg != "" {
		fields["password"] = msg
	}
	if body.Role != models.RoleUser && body.Role != models.RoleAdmin {
		fields["role"] = "role must be user or admin"
	}
	if len(fields) > 0 {
		return response.ValidationError(c, fields)
	}

	var existing models.Account
	if err := database.DB.Where("email = ? AND role = ?", body.Email, body.Role).First(&existing).Error; err == nil {
		return response.Conflict(c, "Account with this email already exists", fiber.Map{"fields": []string{"email"}})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return response.InternalError(c, "Failed to hash password")
	}

	acc := models.Account{
		FullName:     body.FullName,
		Address:      body.Address,
		Phone:        body.Phone,
		Email:        body.Email,
		Password:     string(hash),
		Role:         body.Role,
		IsVerified:   true,
		RegisteredOn: datatypes.Date(time.Now()),
	}

	if err := database.DB.Create(&acc).Error; err != nil {
		if isDuplicate(err) {
			return response.Conflict(c, "Account with this email already exists", fiber.Map{"fields": []string{"email"}})
		}
		return response.InternalError(c, "Failed to create account")
	}

	return response.Created(c, acc, "Account created successfully")
}

func ListAccountsHandler(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := database.DB.Model(&models.Account{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalError(c, "Failed to count accounts")
	}

	var accounts []models.Account
	if err := query.Offset((page - 1) * limit).Limit(limit).Find(&accounts).Error; err != nil {
		return response.InternalError(c, "Failed to fetch accounts")
	}

	meta := response.PageMeta(page, limit, total)
	return response.SuccessWithMeta(c, accounts, meta, "Accounts retrieved successfully")
}

func GetAccountHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid account ID", nil)
	}

	var acc models.Account
	if err := database.DB.First(&acc, id).Error; err != nil {
		return response.NotFound(c, "Account")
	}

	return response.Success(c, acc, "Account retrieved successfully")
}

func UpdateAccountHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid account ID", nil)
	}

	var body struct {
		FullName string `json:"full_name"`
		Address  string `json:"address"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	var acc models.Account
	if err := database.DB.First(&acc, id).Error; err != nil {
		return response.NotFound(c, "Account")
	}

	if body.Email != "" && body.Email != acc.Email {
		if !account.ValidEmail(body.Email) {
			return response.ValidationError(c, map[string]string{"email": "email format is invalid"})
		}
		var existing models.Account
		if err := database.DB.Where("email = ? AND role = ? AND id != ?", body.Email, acc.Role, id).First(&existing).Error; err == nil {
			return response.Conflict(c, "Email already taken", fiber.Map{"fields": []string{"email"}})
		}
		acc.Email = body.Email
	}

	if body.FullName != "" {
		acc.FullName = account.SanitizeProfile(body.FullName)
	}
	if body.Address != "" {
		acc.Address = account.SanitizeProfile(body.Address)
	}
	if body.Phone != "" {
		if !account.ValidPhone(body.Phone) {
			return response.ValidationError(c, map[string]string{"phone": "phone must be 10-20 digits"})
		}
		acc.Phone = body.Phone
	}

	if body.Password != "" {
		if msg := account.CheckPassword(body.Password); msg != "" {
			return response.ValidationError(c, map[string]string{"password": msg})
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return response.InternalError(c, "Failed to hash password")
		}
		acc.Password = string(hash)
	}

	if err := database.DB.Save(&acc).Error; err != nil {
		return response.InternalError(c, "Failed to update account")
	}

	return response.Success(c, acc, "Account updated successfully")
}

func DeleteAccountHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid account ID", nil)
	}

	currentID, _ := c.Locals("account_id").(uint)
	if uint(id) == currentID {
		return response.BadRequest(c, "Cannot delete your own account", nil)
	}

	// Zero rows affected means the account was already gone, which is
	// still a successful outcome for the caller.
	if err := database.DB.Delete(&models.Account{}, id).Error; err != nil {
		return response.InternalError(c, "Failed to delete account")
	}

	return response.NoContent(c)
}

// isDuplicate catches a unique-index hit from a concurrent create that
// slipped past the existence pre-check.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicated key")
}

// SearchAccountsHandler backs the holder picker on the license form:
// match on id, name or phone, capped at 10 rows.
func SearchAccountsHandler(c *fiber.Ctx) error {
	search := c.Query("search")
	if search == "" {
		return response.BadRequest(c, "Search parameter is required", nil)
	}

	var accounts []models.Account
	err := database.DB.
		Where("id = ? OR full_name LIKE ? OR phone LIKE ?", search, "%"+search+"%", "%"+search+"%").
		Limit(10).
		Find(&accounts).Error
	if err != nil {
		return response.InternalError(c, "Failed to search accounts")
	}

	return response.Success(c, accounts, "Accounts retrieved successfully")
}
