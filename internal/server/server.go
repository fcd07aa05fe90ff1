package server

import (
	"github.com/rtodev/sim-admin/internal/account"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func New(db *gorm.DB, mail account.Dispatcher) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024,
	})

	SetupRoutes(app, db, mail)

	return app
}
