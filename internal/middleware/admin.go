package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// AdminToken gates mutating and upload endpoints behind a single shared
// secret. The token comes from the X-Admin-Token header, or the
// admin_token form field as a fallback. An unset secret rejects every
// request rather than failing open.
func AdminToken(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("X-Admin-Token")
		if token == "" {
			token = c.FormValue("admin_token")
		}

		if secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized",
			})
		}

		return c.Next()
	}
}
