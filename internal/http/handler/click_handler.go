package handler

import (
	"github.com/cliplink/cliplink/internal/app/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ClickDeps groups dependencies required by click handlers.
type ClickDeps struct {
	Logger *zap.Logger
	Clicks *service.ClickService
}

// ClickHandler implements click creation (public) and the owner-scoped
// click reads.
type ClickHandler struct {
	logger *zap.Logger
	clicks *service.ClickService
}

// NewClickHandler creates a click handler with the provided dependencies.
func NewClickHandler(deps ClickDeps) *ClickHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClickHandler{logger: logger, clicks: deps.Clicks}
}

// Register wires click routes onto the provided router.
func (h *ClickHandler) Register(router fiber.Router, requireAuth fiber.Handler) {
	clicks := router.Group("/api/click")
	{
		clicks.Post("/", h.Create)
		clicks.Get("/", requireAuth, h.ListForOwner)
		clicks.Get("/:urlId", requireAuth, h.ListForURL)
	}
}

type createClickRequest struct {
	URLID   string `json:"urlId"`
	City    string `json:"city"`
	Country string `json:"country"`
	Device  string `json:"device"`
}

// Create handles POST /api/click
func (h *ClickHandler) Create(c *fiber.Ctx) error {
	var req createClickRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	click, err := h.clicks.Create(requestContext(c), service.CreateClickInput{
		URLID:   req.URLID,
		City:    req.City,
		Country: req.Country,
		Device:  req.Device,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(click)
}

// ListForURL handles GET /api/click/:urlId
func (h *ClickHandler) ListForURL(c *fiber.Ctx) error {
	clicks, err := h.clicks.ListForURL(requestContext(c), currentUser(c), c.Params("urlId"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(clicks)
}

// ListForOwner handles GET /api/click
func (h *ClickHandler) ListForOwner(c *fiber.Ctx) error {
	clicks, err := h.clicks.ListForOwner(requestContext(c), currentUser(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(clicks)
}
