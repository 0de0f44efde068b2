package middleware

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Recovery turns a handler panic into a logged 500 instead of tearing the
// connection down.
func Recovery(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			logger.Error("panic recovered",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				requestIDField(c))

			c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}()

		return c.Next()
	}
}
