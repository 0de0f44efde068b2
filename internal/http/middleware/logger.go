package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Logger writes one structured line per request. Health probes are demoted
// to debug so they do not drown out real traffic.
func Logger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get(fiber.HeaderUserAgent)),
			requestIDField(c),
		}

		switch {
		case err != nil:
			logger.Error("request error", append(fields, zap.Error(err))...)
		case c.Path() == "/health":
			logger.Debug("request", fields...)
		default:
			logger.Info("request", fields...)
		}

		return err
	}
}
