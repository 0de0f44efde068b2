package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// CORS returns a CORS middleware. The refresh-token cookie rides on
// cross-origin requests, so credentials are allowed and the origin must be
// concrete (a wildcard is not valid with credentials).
func CORS(origin string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if origin != "" {
			c.Set("Access-Control-Allow-Origin", origin)
			c.Set("Access-Control-Allow-Credentials", "true")
		} else {
			c.Set("Access-Control-Allow-Origin", "*")
		}
		c.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Set("Access-Control-Expose-Headers", "Content-Length, Content-Type")
		c.Set("Access-Control-Max-Age", "86400")

		if c.Method() == "OPTIONS" {
			return c.SendStatus(fiber.StatusNoContent)
		}

		return c.Next()
	}
}
