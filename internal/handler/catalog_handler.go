package handler

import (
	"github.com/gofiber/fiber/v3"

	"filmorate-api/internal/service"
)

// CatalogHandler handles HTTP requests for the genre and MPA catalogs.
type CatalogHandler struct {
	svc *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// Health returns service health status.
func (h *CatalogHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "filmorate-api",
	})
}

// GetAllGenres returns every genre.
func (h *CatalogHandler) GetAllGenres(c fiber.Ctx) error {
	genres, err := h.svc.GetAllGenres()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(genres)
}

// GetGenre returns a single genre.
func (h *CatalogHandler) GetGenre(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	genre, err := h.svc.GetGenre(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(genre)
}

// GetAllMpa returns every MPA rating.
func (h *CatalogHandler) GetAllMpa(c fiber.Ctx) error {
	ratings, err := h.svc.GetAllMpa()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ratings)
}

// GetMpa returns a single MPA rating.
func (h *CatalogHandler) GetMpa(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	mpa, err := h.svc.GetMpa(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(mpa)
}

// RefreshCache drops the catalog cache snapshots.
func (h *CatalogHandler) RefreshCache(c fiber.Ctx) error {
	h.svc.RefreshCache()
	return c.JSON(fiber.Map{"message": "catalog cache refreshed"})
}
