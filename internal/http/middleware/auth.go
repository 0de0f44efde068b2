package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/cliplink/cliplink/internal/app/repository"
	"github.com/cliplink/cliplink/internal/app/service"
	"github.com/gofiber/fiber/v2"
)

// UserKey is the locals key under which RequireAuth stores the caller.
const UserKey = "user"

// RequireAuth resolves the caller from the bearer access token and stores
// the user in locals. Missing, malformed, or expired tokens end the
// request with 401; a token whose user no longer exists reads as 404.
func RequireAuth(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing authorization header",
			})
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authorization header must be a bearer token",
			})
		}

		ctx := c.UserContext()
		if ctx == nil {
			ctx = context.Background()
		}

		user, err := auth.Authenticate(ctx, parts[1])
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "user not found",
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}
