package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// TokenValidator checks a bearer token and returns the user it belongs to.
type TokenValidator interface {
	ValidateToken(token string) (userID string, role string, err error)
}

// RequireAuth rejects requests without a valid Bearer token and stores the
// caller's identity in the request locals.
func RequireAuth(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Status(401).JSON(fiber.Map{"error": "missing authorization header"})
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			return c.Status(401).JSON(fiber.Map{"error": "invalid authorization header"})
		}

		userID, role, err := validator.ValidateToken(token)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		c.Locals("user_id", userID)
		c.Locals("user_role", role)
		return c.Next()
	}
}
