package handler

import (
	"github.com/gofiber/fiber/v3"

	"filmorate-api/internal/models"
	"filmorate-api/internal/service"
)

// DirectorHandler handles HTTP requests for directors.
type DirectorHandler struct {
	svc *service.DirectorService
}

// NewDirectorHandler creates a new DirectorHandler.
func NewDirectorHandler(svc *service.DirectorService) *DirectorHandler {
	return &DirectorHandler{svc: svc}
}

// CreateDirector creates a new director.
func (h *DirectorHandler) CreateDirector(c fiber.Ctx) error {
	var director models.Director
	if err := c.Bind().JSON(&director); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	created, err := h.svc.CreateDirector(&director)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateDirector updates an existing director.
func (h *DirectorHandler) UpdateDirector(c fiber.Ctx) error {
	var director models.Director
	if err := c.Bind().JSON(&director); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	updated, err := h.svc.UpdateDirector(&director)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

// GetAllDirectors returns every director.
func (h *DirectorHandler) GetAllDirectors(c fiber.Ctx) error {
	directors, err := h.svc.GetAllDirectors()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(directors)
}

// GetDirector returns a single director.
func (h *DirectorHandler) GetDirector(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	director, err := h.svc.GetDirector(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(director)
}

// DeleteDirector removes a director.
func (h *DirectorHandler) DeleteDirector(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.DeleteDirector(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
