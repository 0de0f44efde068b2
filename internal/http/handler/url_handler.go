package handler

import (
	"github.com/cliplink/cliplink/internal/app/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// URLDeps groups dependencies required by URL handlers.
type URLDeps struct {
	Logger *zap.Logger
	URLs   *service.URLService
}

// URLHandler implements the owner-scoped URL management API plus the
// public redirect lookup.
type URLHandler struct {
	logger *zap.Logger
	urls   *service.URLService
}

// NewURLHandler creates a URL handler with the provided dependencies.
func NewURLHandler(deps URLDeps) *URLHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &URLHandler{logger: logger, urls: deps.URLs}
}

// Register wires URL routes onto the provided router.
func (h *URLHandler) Register(router fiber.Router, requireAuth fiber.Handler) {
	urls := router.Group("/api/url")
	{
		urls.Get("/redirect/:short_url", h.Lookup)
		urls.Post("/create", requireAuth, h.Create)
		urls.Get("/", requireAuth, h.List)
		urls.Get("/:id", requireAuth, h.Get)
		urls.Delete("/:id", requireAuth, h.Delete)
	}
}

type createURLRequest struct {
	Title       string `json:"title"`
	OriginalURL string `json:"original_url"`
	ShortURL    string `json:"short_url"`
}

// Create handles POST /api/url/create
func (h *URLHandler) Create(c *fiber.Ctx) error {
	var req createURLRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	url, err := h.urls.Create(requestContext(c), currentUser(c), service.CreateURLInput{
		Title:       req.Title,
		OriginalURL: req.OriginalURL,
		ShortURL:    req.ShortURL,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(url)
}

// List handles GET /api/url
func (h *URLHandler) List(c *fiber.Ctx) error {
	urls, err := h.urls.List(requestContext(c), currentUser(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(urls)
}

// Get handles GET /api/url/:id
func (h *URLHandler) Get(c *fiber.Ctx) error {
	url, err := h.urls.Get(requestContext(c), currentUser(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(url)
}

// Delete handles DELETE /api/url/:id
func (h *URLHandler) Delete(c *fiber.Ctx) error {
	if err := h.urls.Delete(requestContext(c), currentUser(c), c.Params("id")); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"message": "url and corresponding clicks removed",
	})
}

// Lookup handles GET /api/url/redirect/:short_url. Public: returns the
// record and leaves the actual redirect to the caller.
func (h *URLHandler) Lookup(c *fiber.Ctx) error {
	url, err := h.urls.Resolve(requestContext(c), c.Params("short_url"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(url)
}
