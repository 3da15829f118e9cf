package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"filmorate-api/internal/models"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError maps a service error to an HTTP response: validation
// failures become 400, missing ids become 404, anything else is logged
// and reported as a bare 500 without the underlying detail.
func respondError(c fiber.Ctx, err error) error {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: validationErr.Error()})
	}
	var notFoundErr *models.NotFoundError
	if errors.As(err, &notFoundErr) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: notFoundErr.Error()})
	}
	slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal server error"})
}

// parseID reads a positive integer path parameter.
func parseID(c fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil {
		return 0, models.NewValidationError("invalid %s parameter", name)
	}
	return id, nil
}
