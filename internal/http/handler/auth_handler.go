package handler

import (
	"context"
	"time"

	"github.com/cliplink/cliplink/internal/app/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	refreshCookieName   = "refresh_token"
	refreshCookieMaxAge = 7 * 24 * time.Hour
)

// AuthDeps groups dependencies required by auth handlers.
type AuthDeps struct {
	Logger       *zap.Logger
	Auth         *service.AuthService
	CookieSecure bool
}

// AuthHandler implements registration, login, refresh rotation, and logout.
// The refresh token travels only in an HTTP-only cookie; the access token
// only in the response body.
type AuthHandler struct {
	logger       *zap.Logger
	auth         *service.AuthService
	cookieSecure bool
}

// NewAuthHandler creates an auth handler with the provided dependencies.
func NewAuthHandler(deps AuthDeps) *AuthHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		logger:       logger,
		auth:         deps.Auth,
		cookieSecure: deps.CookieSecure,
	}
}

// Register wires auth routes onto the provided router.
func (h *AuthHandler) Register(router fiber.Router) {
	auth := router.Group("/api/auth")
	{
		auth.Post("/register", h.RegisterUser)
		auth.Post("/login", h.Login)
		auth.Post("/refresh-token", h.Refresh)
		auth.Post("/logout", h.Logout)
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUser handles POST /api/auth/register
func (h *AuthHandler) RegisterUser(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	_, pair, err := h.auth.Register(requestContext(c), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": pair.AccessToken,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	_, pair, err := h.auth.Login(requestContext(c), req.Email, req.Password)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	return c.JSON(fiber.Map{
		"token": pair.AccessToken,
	})
}

// Refresh handles POST /api/auth/refresh-token. The old refresh token is
// read from the cookie and must match the persisted value exactly.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := c.Cookies(refreshCookieName)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "no refresh token, please login again",
		})
	}

	pair, err := h.auth.Rotate(requestContext(c), token)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	return c.JSON(fiber.Map{
		"token": pair.AccessToken,
	})
}

// Logout handles POST /api/auth/logout. Succeeds even without a cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := c.Cookies(refreshCookieName)
	if token != "" {
		if err := h.auth.Logout(requestContext(c), token); err != nil {
			return respondError(c, h.logger, err)
		}
		h.clearRefreshCookie(c)
	}

	return c.JSON(fiber.Map{
		"message": "logged out successfully",
	})
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(refreshCookieMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// requestContext returns the request-scoped context, falling back to
// context.Background when fiber has none attached.
func requestContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
