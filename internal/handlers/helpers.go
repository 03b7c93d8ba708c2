package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"maturity-service/internal/models"

	"github.com/gofiber/fiber/v3"
)

// actorFrom extracts the acting user from the gateway header. An empty value
// means the change is system-originated and audit rows carry NULL changed_by.
func actorFrom(c fiber.Ctx) *string {
	userID := c.Get("X-User-ID")
	if userID == "" {
		return nil
	}
	return &userID
}

// respondError maps service errors onto the shared error envelope.
func respondError(c fiber.Ctx, err error, fallbackCode, fallbackMessage string) error {
	if ve, ok := models.AsValidationError(err); ok {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse(ve.Code, ve.Message))
	}
	if errors.Is(err, models.ErrNotFound) {
		return c.Status(http.StatusNotFound).JSON(
			models.CreateErrorResponse("NOT_FOUND", "requested resource does not exist"))
	}

	slog.Error("Request failed", "path", c.Path(), "error", err)
	return c.Status(http.StatusInternalServerError).JSON(
		models.CreateErrorResponse(fallbackCode, fallbackMessage))
}
