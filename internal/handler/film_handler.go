package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"filmorate-api/internal/models"
	"filmorate-api/internal/service"
)

// FilmHandler handles HTTP requests for films.
type FilmHandler struct {
	svc *service.FilmService
}

// NewFilmHandler creates a new FilmHandler.
func NewFilmHandler(svc *service.FilmService) *FilmHandler {
	return &FilmHandler{svc: svc}
}

// CreateFilm creates a new film.
func (h *FilmHandler) CreateFilm(c fiber.Ctx) error {
	var film models.Film
	if err := c.Bind().JSON(&film); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	created, err := h.svc.CreateFilm(&film)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateFilm updates an existing film.
func (h *FilmHandler) UpdateFilm(c fiber.Ctx) error {
	var film models.Film
	if err := c.Bind().JSON(&film); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	updated, err := h.svc.UpdateFilm(&film)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

// GetAllFilms returns every film.
func (h *FilmHandler) GetAllFilms(c fiber.Ctx) error {
	films, err := h.svc.GetAllFilms()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(films)
}

// GetFilm returns a single film.
func (h *FilmHandler) GetFilm(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	film, err := h.svc.GetFilm(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(film)
}

// DeleteFilm removes a film.
func (h *FilmHandler) DeleteFilm(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.DeleteFilm(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddLike records a user's like on a film.
func (h *FilmHandler) AddLike(c fiber.Ctx) error {
	filmID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	userID, err := parseID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.AddLike(filmID, userID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// RemoveLike deletes a user's like from a film.
func (h *FilmHandler) RemoveLike(c fiber.Ctx) error {
	filmID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	userID, err := parseID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.RemoveLike(filmID, userID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// GetPopularFilms returns the most liked films, optionally filtered by
// genre and release year.
func (h *FilmHandler) GetPopularFilms(c fiber.Ctx) error {
	params := models.PopularParams{
		Count:   fiber.Query(c, "count", 10),
		GenreID: fiber.Query[int64](c, "genreId", 0),
		Year:    fiber.Query(c, "year", 0),
	}

	films, err := h.svc.GetPopularFilms(params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(films)
}

// GetFilmsByDirector returns a director's films sorted by likes or year.
func (h *FilmHandler) GetFilmsByDirector(c fiber.Ctx) error {
	directorID, err := parseID(c, "directorId")
	if err != nil {
		return respondError(c, err)
	}
	films, err := h.svc.GetFilmsByDirector(directorID, c.Query("sortBy", models.SortByLikes))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(films)
}

// SearchFilms returns films matching the query by title and/or
// director name.
func (h *FilmHandler) SearchFilms(c fiber.Ctx) error {
	params := models.SearchParams{Query: c.Query("query")}
	for _, by := range strings.Split(c.Query("by"), ",") {
		switch strings.TrimSpace(by) {
		case "title":
			params.ByTitle = true
		case "director":
			params.ByDirector = true
		case "":
		default:
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "by must be a comma-separated list of 'title' and 'director'",
			})
		}
	}

	films, err := h.svc.SearchFilms(params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(films)
}

// GetCommonFilms returns films liked by both users.
func (h *FilmHandler) GetCommonFilms(c fiber.Ctx) error {
	userID := fiber.Query[int64](c, "userId", 0)
	friendID := fiber.Query[int64](c, "friendId", 0)
	films, err := h.svc.GetCommonFilms(userID, friendID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(films)
}
