package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the correlation id between services.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID attaches a correlation id to every request, reusing the
// caller's header value when present and minting one otherwise. The id is
// echoed on the response and stored in locals for the other middleware.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(RequestIDHeader, id)
		c.Locals(requestIDKey, id)
		return c.Next()
	}
}

// requestIDField returns the correlation id as a zap field, or a skipped
// field when none is attached.
func requestIDField(c *fiber.Ctx) zap.Field {
	if id, ok := c.Locals(requestIDKey).(string); ok && id != "" {
		return zap.String(requestIDKey, id)
	}
	return zap.Skip()
}
