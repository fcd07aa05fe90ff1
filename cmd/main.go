package main

import (
	"log"
	"os"
	"time"

	"github.com/rtodev/sim-admin/internal/account"
	"github.com/rtodev/sim-admin/internal/config"
	"github.com/rtodev/sim-admin/internal/database"
	"github.com/rtodev/sim-admin/internal/mailer"
	"github.com/rtodev/sim-admin/internal/models"
	"github.com/rtodev/sim-admin/internal/server"
)

func main() {
	cfg := config.Load()

	requiredEnvVars := map[string]string{
		"DB_HOST":     os.Getenv("DB_HOST"),
		"DB_NAME":     os.Getenv("DB_NAME"),
		"DB_USER":     os.Getenv("DB_USER"),
		"DB_PASSWORD": os.Getenv("DB_PASSWORD"),
	}

	for key, value := range requiredEnvVars {
		if value == "" {
			log.Fatalf("❌ Required environment variable %s is not set", key)
		}
	}
	log.Println("✅ Required environment variables validated")

	if cfg.SMTP.Host == "" {
		log.Println("⚠️  SMTP_HOST not set; token emails will fail until it is configured")
	}

	// ========== DATABASE SETUP ==========
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("❌ Database connection failed:", err)
	}
	database.DB = db

	if err := database.Migrate(db); err != nil {
		log.Fatal("❌ Migration failed: ", err)
	}
	log.Println("✅ Database migrated successfully")

	// ========== SEED DEFAULT DATA ==========
	if err := account.SeedBootstrapAdmin(db, os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		log.Println("⚠️  Failed to seed bootstrap admin:", err)
	} else {
		log.Println("✅ Bootstrap admin ensured")
	}

	// ========== BACKGROUND JOBS ==========
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		// Verification and reset tokens expire passively and stay in
		// place until replaced; only dead sessions are swept.
		for range ticker.C {
			result := db.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
			if result.RowsAffected > 0 {
				log.Printf("🧹 Cleaned up %d expired sessions", result.RowsAffected)
			}
		}
	}()

	// ========== START SERVER ==========
	mail := mailer.New(cfg.SMTP)
	app := server.New(db, mail)

	log.Printf("🚀 SIM administration server starting on %s", cfg.ServerAddr)
	log.Printf("📚 Health check: %s/health", cfg.ServerAddr)
	log.Printf("🔐 Session authentication: Enabled")

	if err := app.Listen(cfg.ServerAddr); err != nil {
		log.Fatal("❌ Failed to start server:", err)
	}
}
