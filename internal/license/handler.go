package license

import (
	"strings"
	"time"

	"github.com/rtodev/sim-admin/internal/database"
	"github.com/rtodev/sim-admin/internal/models"
	"github.com/rtodev/sim-admin/internal/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

func CreateLicenseHandler(c *fiber.Ctx) error {
	var body struct {
		Number    string `json:"number"`
		HolderID  uint   `json:"holder_id"`
		Class     string `json:"class"`
		IssuedOn  string `json:"issued_on"`
		ExpiresOn string `json:"expires_on"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	fields := map[string]string{}
	if body.Number == "" {
		fields["number"] = "number is required"
	}
	if body.HolderID == 0 {
		fields["holder_id"] = "holder_id is required"
	}
	if body.Class == "" {
		fields["class"] = "class is required"
	}

	issuedOn, err := time.Parse(dateLayout, body.IssuedOn)
	if err != nil {
		fields["issued_on"] = "issued_on must be a YYYY-MM-DD date"
	}
	expiresOn, err := time.Parse(dateLayout, body.ExpiresOn)
	if err != nil {
		fields["expires_on"] = "expires_on must be a YYYY-MM-DD date"
	}
	if len(fields) == 0 && !issuedOn.Before(expiresOn) {
		fields["expires_on"] = "expires_on must be after issued_on"
	}
	if len(fields) > 0 {
		return response.ValidationError(c, fields)
	}

	var holder models.Account
	if err := database.DB.First(&holder, body.HolderID).Error; err != nil {
		return response.NotFound(c, "Holder account")
	}

	lic := models.License{
		Number:    body.Number,
		HolderID:  body.HolderID,
		Class:     body.Class,
		IssuedOn:  datatypes.Date(issuedOn),
		ExpiresOn: datatypes.Date(expiresOn),
		Status:    models.LicenseStatusActive,
	}

	if err := database.DB.Create(&lic).Error; err != nil {
		if isDuplicate(err) {
			return response.Conflict(c, "License number "+body.Number+" is already registered", fiber.Map{"fields": []string{"number"}})
		}
		return response.InternalError(c, "Failed to create license")
	}

	lic.Holder = &holder
	return response.Created(c, ToResponse(&lic, time.Now()), "License created successfully")
}

func ListLicensesHandler(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := database.DB.Model(&models.License{})
	if holder := c.QueryInt("holder_id", 0); holder > 0 {
		query = query.Where("holder_id = ?", holder)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalError(c, "Failed to count licenses")
	}

	var licenses []models.License
	err := query.Preload("Holder").
		Offset((page - 1) * limit).Limit(limit).
		Find(&licenses).Error
	if err != nil {
		return response.InternalError(c, "Failed to fetch licenses")
	}

	meta := response.PageMeta(page, limit, total)
	return response.SuccessWithMeta(c, ToResponseList(licenses, time.Now()), meta, "Licenses retrieved successfully")
}

func GetLicenseHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid license ID", nil)
	}

	var lic models.License
	if err := database.DB.Preload("Holder").First(&lic, id).Error; err != nil {
		return response.NotFound(c, "License")
	}

	return response.Success(c, ToResponse(&lic, time.Now()), "License retrieved successfully")
}

func UpdateLicenseHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid license ID", nil)
	}

	var body struct {
		Number    string `json:"number"`
		Class     string `json:"class"`
		IssuedOn  string `json:"issued_on"`
		ExpiresOn string `json:"expires_on"`
		Status    string `json:"status"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	var lic models.License
	if err := database.DB.First(&lic, id).Error; err != nil {
		return response.NotFound(c, "License")
	}

	if body.Number != "" && body.Number != lic.Number {
		var existing models.License
		if err := database.DB.Where("number = ? AND id != ?", body.Number, id).First(&existing).Error; err == nil {
			return response.Conflict(c, "License number "+body.Number+" is already registered", fiber.Map{"fields": []string{"number"}})
		}
		lic.Number = body.Number
	}

	if body.Class != "" {
		lic.Class = body.Class
	}
	if body.IssuedOn != "" {
		issuedOn, err := time.Parse(dateLayout, body.IssuedOn)
		if err != nil {
			return response.ValidationError(c, map[string]string{"issued_on": "issued_on must be a YYYY-MM-DD date"})
		}
		lic.IssuedOn = datatypes.Date(issuedOn)
	}
	if body.ExpiresOn != "" {
		expiresOn, err := time.Parse(dateLayout, body.ExpiresOn)
		if err != nil {
			return response.ValidationError(c, map[string]string{"expires_on": "expires_on must be a YYYY-MM-DD date"})
		}
		lic.ExpiresOn = datatypes.Date(expiresOn)
	}
	if body.Status != "" {
		if !ValidStatus(body.Status) {
			return response.ValidationError(c, map[string]string{"status": "status must be active, expired or revoked"})
		}
		lic.Status = body.Status
	}

	if err := database.DB.Save(&lic).Error; err != nil {
		if isDuplicate(err) {
			return response.Conflict(c, "License number "+lic.Number+" is already registered", fiber.Map{"fields": []string{"number"}})
		}
		return response.InternalError(c, "Failed to update license")
	}

	database.DB.Preload("Holder").First(&lic, lic.ID)
	return response.Success(c, ToResponse(&lic, time.Now()), "License updated successfully")
}

func DeleteLicenseHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid license ID", nil)
	}

	if err := database.DB.Delete(&models.License{}, id).Error; err != nil {
		return response.InternalError(c, "Failed to delete license")
	}

	return response.NoContent(c)
}

func isDuplicate(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicated key")
}
