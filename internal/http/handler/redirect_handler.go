package handler

import (
	"context"
	"time"

	"github.com/cliplink/cliplink/internal/app/service"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const healthPingTimeout = 2 * time.Second

// RedirectDeps groups dependencies required by the public redirect and
// health handlers.
type RedirectDeps struct {
	Logger   *zap.Logger
	URLs     *service.URLService
	Visits   *service.VisitPublisher
	Postgres *pgxpool.Pool
}

// RedirectHandler implements the browser-facing short-link redirect plus
// the health endpoint.
type RedirectHandler struct {
	logger   *zap.Logger
	urls     *service.URLService
	visits   *service.VisitPublisher
	postgres *pgxpool.Pool
}

// NewRedirectHandler creates a redirect handler with the provided dependencies.
func NewRedirectHandler(deps RedirectDeps) *RedirectHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedirectHandler{
		logger:   logger,
		urls:     deps.URLs,
		visits:   deps.Visits,
		postgres: deps.Postgres,
	}
}

// Register wires the redirect routes onto the provided router. The bare
// ":code" route must be registered after every static route.
func (h *RedirectHandler) Register(router fiber.Router) {
	router.Get("/health", h.Health)
	router.Get("/:code", h.Resolve)
}

// Health reports service liveness and database reachability.
func (h *RedirectHandler) Health(c *fiber.Ctx) error {
	database := "skipped"
	if h.postgres != nil {
		ctx, cancel := context.WithTimeout(requestContext(c), healthPingTimeout)
		defer cancel()
		if err := h.postgres.Ping(ctx); err != nil {
			h.logger.Warn("health check database ping failed", zap.Error(err))
			database = "unreachable"
		} else {
			database = "ok"
		}
	}

	return c.JSON(fiber.Map{
		"service":  "cliplink",
		"status":   "ok",
		"database": database,
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}

// Resolve handles GET /:code with an actual 302 and records the visit
// asynchronously through the event pipeline.
func (h *RedirectHandler) Resolve(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing link code",
		})
	}

	url, err := h.urls.Resolve(requestContext(c), code)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if h.visits != nil {
		// Copy what we need off the fiber context before leaving the handler.
		device := c.Get(fiber.HeaderUserAgent)
		go h.publishVisit(code, device)
	}

	h.logger.Debug("redirecting short link",
		zap.String("code", code),
		zap.String("target", url.OriginalURL))
	return c.Redirect(url.OriginalURL, fiber.StatusFound)
}

func (h *RedirectHandler) publishVisit(code, device string) {
	if err := h.visits.Publish(code, "", "", device); err != nil {
		h.logger.Error("failed to publish visit event",
			zap.Error(err), zap.String("code", code))
	}
}
