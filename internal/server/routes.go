package server

import (
	"time"

	"github.com/rtodev/sim-admin/internal/account"
	"github.com/rtodev/sim-admin/internal/license"
	"github.com/rtodev/sim-admin/internal/models"
	"github.com/rtodev/sim-admin/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, mail account.Dispatcher) {
	// Middleware
	app.Use(logger.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS, PATCH",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "SIM administration API is running",
		})
	})

	store := account.NewStore(db)
	svc := account.NewService(store, mail)
	h := account.NewHandler(svc)

	// ==========================================
	// ACCOUNT LIFECYCLE (No authentication required)
	// ==========================================
	authGroup := app.Group("/auth")
	authGroup.Post("/register", h.Register)
	authGroup.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), h.Login)
	// The 6-digit codes are brute-forceable without a cap on attempts.
	authGroup.Post("/verify", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
	}), h.Verify)
	authGroup.Post("/resend-token", h.ResendToken)
	authGroup.Post("/forgot-password", h.ForgotPassword)
	authGroup.Post("/reset-password", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
	}), h.ResetPassword)
	authGroup.Post("/logout", account.SessionProtected(store), h.Logout)

	// ==========================================
	// ACCOUNT MANAGEMENT (Admin only)
	// ==========================================
	userGroup := app.Group("/users")
	userGroup.Use(account.SessionProtected(store))
	userGroup.Use(account.RoleProtected(models.RoleAdmin))
	userGroup.Get("/search", user.SearchAccountsHandler)
	userGroup.Post("/", user.CreateAccountHandler)
	userGroup.Get("/", user.ListAccountsHandler)
	userGroup.Get("/:id", user.GetAccountHandler)
	userGroup.Put("/:id", user.UpdateAccountHandler)
	userGroup.Delete("/:id", user.DeleteAccountHandler)

	// ==========================================
	// LICENSE RECORDS (Admin only)
	// ==========================================
	licenseGroup := app.Group("/licenses")
	licenseGroup.Use(account.SessionProtected(store))
	licenseGroup.Use(account.RoleProtected(models.RoleAdmin))
	licenseGroup.Post("/", license.CreateLicenseHandler)
	licenseGroup.Get("/", license.ListLicensesHandler)
	licenseGroup.Get("/:id", license.GetLicenseHandler)
	licenseGroup.Put("/:id", license.UpdateLicenseHandler)
	licenseGroup.Delete("/:id", license.DeleteLicenseHandler)
}
