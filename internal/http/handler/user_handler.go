package handler

import (
	"github.com/cliplink/cliplink/internal/app/model"
	"github.com/cliplink/cliplink/internal/http/middleware"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserDeps groups dependencies required by user handlers.
type UserDeps struct {
	Logger *zap.Logger
}

// UserHandler exposes the authenticated caller's own profile.
type UserHandler struct {
	logger *zap.Logger
}

// NewUserHandler creates a user handler with the provided dependencies.
func NewUserHandler(deps UserDeps) *UserHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserHandler{logger: logger}
}

// Register wires user routes onto the provided router.
func (h *UserHandler) Register(router fiber.Router, requireAuth fiber.Handler) {
	user := router.Group("/api/user")
	{
		user.Get("/profile", requireAuth, h.Profile)
	}
}

// Profile handles GET /api/user/profile
func (h *UserHandler) Profile(c *fiber.Ctx) error {
	user := currentUser(c)
	return c.JSON(fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

// currentUser returns the caller resolved by the auth middleware. Only
// valid on routes behind RequireAuth.
func currentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(middleware.UserKey).(*model.User)
	return user
}
