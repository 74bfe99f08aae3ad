package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AccountContextMiddleware extracts the player account set by the Gateway.
// Secured routes (under /s/) require it; public queries do not.
func AccountContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID := c.Get("X-Account-ID")

		path := c.Path()
		isSecured := strings.HasPrefix(path, "/s/")
		if isSecured && accountID == "" {
			log.Printf("❌ [ACCOUNT_CTX] X-Account-ID required but missing on secured route: %s", path)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-Account-ID — request must come through gateway with auth context",
			})
		}

		c.Locals("account_id", accountID)
		return c.Next()
	}
}
