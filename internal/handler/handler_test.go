package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmorate-api/internal/models"
	"filmorate-api/internal/repository/memory"
	"filmorate-api/internal/service"
)

func newTestApp() *fiber.App {
	userRepo := memory.NewUserRepository()
	directorRepo := memory.NewDirectorRepository()
	filmRepo := memory.NewFilmRepository(directorRepo)
	eventRepo := memory.NewEventRepository()

	userSvc := service.NewUserService(userRepo, eventRepo)
	filmSvc := service.NewFilmService(
		filmRepo, userRepo,
		memory.NewGenreRepository(), memory.NewMpaRepository(),
		directorRepo, eventRepo, nil,
	)
	reviewSvc := service.NewReviewService(memory.NewReviewRepository(), userRepo, filmRepo, eventRepo)

	userHandler := NewUserHandler(userSvc, filmSvc)
	filmHandler := NewFilmHandler(filmSvc)
	reviewHandler := NewReviewHandler(reviewSvc)
	catalogHandler := NewCatalogHandler(service.NewCatalogService(
		memory.NewGenreRepository(), memory.NewMpaRepository(), nil,
	))

	app := fiber.New()
	app.Get("/health", catalogHandler.Health)
	app.Post("/users", userHandler.CreateUser)
	app.Get("/users/:id", userHandler.GetUser)
	app.Delete("/users/:id", userHandler.DeleteUser)
	app.Post("/films", filmHandler.CreateFilm)
	app.Get("/films/:id", filmHandler.GetFilm)
	app.Put("/films/:id/like/:userId", filmHandler.AddLike)
	app.Post("/reviews", reviewHandler.CreateReview)
	app.Get("/genres", catalogHandler.GetAllGenres)
	app.Get("/mpa/:id", catalogHandler.GetMpa)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp()

	resp := doJSON(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateUserEndpoint(t *testing.T) {
	app := newTestApp()

	resp := doJSON(t, app, http.MethodPost, "/users",
		`{"email":"a@b.c","login":"neo","birthday":"1990-05-01"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	user := decode[models.User](t, resp)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "neo", user.Name)
}

func TestCreateUserEndpointRejectsBadInput(t *testing.T) {
	app := newTestApp()

	resp := doJSON(t, app, http.MethodPost, "/users", `{"email":"no-at","login":"neo","birthday":"1990-05-01"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/users", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetUserEndpointNotFound(t *testing.T) {
	app := newTestApp()

	resp := doJSON(t, app, http.MethodGet, "/users/99", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/users/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteUserEndpoint(t *testing.T) {
	app := newTestApp()

	resp := doJSON(t, app, http.MethodPost, "/users",
		`{"email":"a@b.c","login":"neo","birthday":"1990-05-01"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/users/1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/users/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFilmLikeEndpoint(t *testing.T) {
	app := newTestApp()

	resp := doJSON(t, app, http.MethodPost, "/users",
		`{"email":"a@b.c","login":"neo","birthday":"1990-05-01"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/films",
		`{"name":"Avatar","description":"blue","releaseDate":"2009-12-10","duration":162}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	film := decode[models.Film](t, resp)
	require.NotNil(t, film.Mpa)
	assert.Equal(t, "G", film.Mpa.Name)

	resp = doJSON(t, app, http.MethodPut, "/films/1/like/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/films/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	film = decode[models.Film](t, resp)
	assert.Equal(t, []int64{1}, film.Likes)

	resp = doJSON(t, app, http.MethodPut, "/films/99/like/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateReviewEndpointValidation(t *testing.T) {
	app := newTestApp()

	// isPositive must be present, not defaulted.
	resp := doJSON(t, app, http.MethodPost, "/reviews",
		`{"content":"fine","userId":1,"filmId":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCatalogEndpoints(t *testing.T) {
	app := newTestApp()

	resp := doJSON(t, app, http.MethodGet, "/genres", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	genres := decode[[]models.Genre](t, resp)
	assert.Len(t, genres, 6)

	resp = doJSON(t, app, http.MethodGet, "/mpa/5", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	mpa := decode[models.Mpa](t, resp)
	assert.Equal(t, "NC-17", mpa.Name)

	resp = doJSON(t, app, http.MethodGet, "/mpa/99", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
