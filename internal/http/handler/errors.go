package handler

import (
	"errors"

	"github.com/cliplink/cliplink/internal/app/repository"
	"github.com/cliplink/cliplink/internal/app/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// statusFromError maps service failure kinds to their fixed HTTP statuses.
// Unknown errors read as internal faults.
func statusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrEmailTaken):
		return fiber.StatusBadRequest, service.ErrEmailTaken.Error()
	case errors.Is(err, service.ErrShortURLTaken):
		return fiber.StatusBadRequest, service.ErrShortURLTaken.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, service.ErrInvalidCredentials.Error()
	case errors.Is(err, service.ErrInvalidToken):
		return fiber.StatusUnauthorized, service.ErrInvalidToken.Error()
	case errors.Is(err, service.ErrNotOwner):
		return fiber.StatusForbidden, service.ErrNotOwner.Error()
	case errors.Is(err, repository.ErrURLNotFound):
		return fiber.StatusNotFound, repository.ErrURLNotFound.Error()
	case errors.Is(err, repository.ErrUserNotFound):
		return fiber.StatusNotFound, repository.ErrUserNotFound.Error()
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}

// respondError writes the mapped error response, logging internal faults.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	status, message := statusFromError(err)
	if status == fiber.StatusInternalServerError && logger != nil {
		logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}
