package account

import (
	"strings"
	"time"

	"github.com/rtodev/sim-admin/internal/models"
	"github.com/rtodev/sim-admin/internal/response"

	"github.com/gofiber/fiber/v2"
)

// SessionProtected authenticates the bearer session token against the
// sessions table. Expired sessions are rejected and removed.
func SessionProtected(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing authorization token")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return response.Error(c, fiber.StatusUnauthorized, "INVALID_TOKEN_FORMAT", "Invalid token format", nil)
		}
		token := parts[1]

		sess, err := store.FindSession(HashToken(token))
		if err != nil {
			return response.Unauthorized(c, "Invalid or expired session")
		}

		if !time.Now().Before(sess.ExpiresAt) {
			_ = store.DeleteSession(sess.TokenHash)
			return response.Unauthorized(c, "Invalid or expired session")
		}

		acc, err := store.FindByID(sess.AccountID)
		if err != nil {
			return response.Unauthorized(c, "Invalid or expired session")
		}

		c.Locals("account", acc)
		c.Locals("account_id", acc.ID)
		c.Locals("session_token", token)
		return c.Next()
	}
}

func RoleProtected(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		acc, ok := c.Locals("account").(*models.Account)
		if !ok {
			return response.Unauthorized(c, "Account not loaded")
		}

		for _, role := range allowedRoles {
			if acc.Role == role {
				return c.Next()
			}
		}

		return response.Forbidden(c, "FORBIDDEN", "You don't have permission to access this resource", nil)
	}
}
