package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmorate-api/internal/models"
	"filmorate-api/internal/repository/memory"
)

type filmFixture struct {
	films *FilmService
	users *UserService
}

func newFilmFixture() *filmFixture {
	userRepo := memory.NewUserRepository()
	directorRepo := memory.NewDirectorRepository()
	filmRepo := memory.NewFilmRepository(directorRepo)
	eventRepo := memory.NewEventRepository()

	return &filmFixture{
		films: NewFilmService(
			filmRepo,
			userRepo,
			memory.NewGenreRepository(),
			memory.NewMpaRepository(),
			directorRepo,
			eventRepo,
			nil,
		),
		users: NewUserService(userRepo, eventRepo),
	}
}

func (f *filmFixture) addUser(t *testing.T, login string) int64 {
	t.Helper()
	user, err := f.users.CreateUser(&models.User{
		Email:    login + "@example.com",
		Login:    login,
		Birthday: "1990-05-01",
	})
	require.NoError(t, err)
	return user.ID
}

func (f *filmFixture) addFilm(t *testing.T, name string, mutate ...func(*models.Film)) *models.Film {
	t.Helper()
	film := &models.Film{
		Name:        name,
		Description: "a film",
		ReleaseDate: "2000-01-01",
		Duration:    120,
	}
	for _, m := range mutate {
		m(film)
	}
	created, err := f.films.CreateFilm(film)
	require.NoError(t, err)
	return created
}

func TestCreateFilmValidation(t *testing.T) {
	f := newFilmFixture()

	tests := []struct {
		name string
		film models.Film
	}{
		{"empty name", models.Film{ReleaseDate: "2000-01-01", Duration: 100}},
		{"description too long", models.Film{
			Name:        "x",
			Description: strings.Repeat("a", 201),
			ReleaseDate: "2000-01-01",
			Duration:    100,
		}},
		{"release before first screening", models.Film{
			Name:        "x",
			ReleaseDate: "1895-12-27",
			Duration:    100,
		}},
		{"bad release date format", models.Film{
			Name:        "x",
			ReleaseDate: "01.01.2000",
			Duration:    100,
		}},
		{"zero duration", models.Film{Name: "x", ReleaseDate: "2000-01-01"}},
		{"negative duration", models.Film{Name: "x", ReleaseDate: "2000-01-01", Duration: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.films.CreateFilm(&tt.film)
			var verr *models.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestCreateFilmBoundaries(t *testing.T) {
	f := newFilmFixture()

	// The first public screening date itself is allowed.
	film := f.addFilm(t, "Arrival of a Train", func(fm *models.Film) {
		fm.ReleaseDate = "1895-12-28"
	})
	assert.Equal(t, "1895-12-28", film.ReleaseDate)

	// Exactly 200 characters is allowed.
	film = f.addFilm(t, "Long", func(fm *models.Film) {
		fm.Description = strings.Repeat("a", 200)
	})
	assert.Len(t, film.Description, 200)
}

func TestCreateFilmDefaultsMpa(t *testing.T) {
	f := newFilmFixture()

	film := f.addFilm(t, "No Rating")
	require.NotNil(t, film.Mpa)
	assert.Equal(t, int64(1), film.Mpa.ID)
	assert.Equal(t, "G", film.Mpa.Name)
}

func TestCreateFilmResolvesMpaName(t *testing.T) {
	f := newFilmFixture()

	film := f.addFilm(t, "Rated", func(fm *models.Film) {
		fm.Mpa = &models.Mpa{ID: 3}
	})
	assert.Equal(t, "PG-13", film.Mpa.Name)
}

func TestCreateFilmUnknownMpaAndGenre(t *testing.T) {
	f := newFilmFixture()
	var nferr *models.NotFoundError

	_, err := f.films.CreateFilm(&models.Film{
		Name:        "x",
		ReleaseDate: "2000-01-01",
		Duration:    100,
		Mpa:         &models.Mpa{ID: 99},
	})
	assert.ErrorAs(t, err, &nferr)

	_, err = f.films.CreateFilm(&models.Film{
		Name:        "x",
		ReleaseDate: "2000-01-01",
		Duration:    100,
		Genres:      []models.Genre{{ID: 42}},
	})
	assert.ErrorAs(t, err, &nferr)
}

func TestUpdateFilmNotFound(t *testing.T) {
	f := newFilmFixture()

	_, err := f.films.UpdateFilm(&models.Film{
		ID:          77,
		Name:        "x",
		ReleaseDate: "2000-01-01",
		Duration:    100,
	})
	var nferr *models.NotFoundError
	assert.ErrorAs(t, err, &nferr)
}

func TestAddLikeIsIdempotent(t *testing.T) {
	f := newFilmFixture()
	film := f.addFilm(t, "Avatar")
	userID := f.addUser(t, "alice")

	require.NoError(t, f.films.AddLike(film.ID, userID))
	require.NoError(t, f.films.AddLike(film.ID, userID))

	got, err := f.films.GetFilm(film.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{userID}, got.Likes)

	require.NoError(t, f.films.RemoveLike(film.ID, userID))
	require.NoError(t, f.films.RemoveLike(film.ID, userID))

	got, err = f.films.GetFilm(film.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Likes)
}

func TestAddLikeUnknownFilmOrUser(t *testing.T) {
	f := newFilmFixture()
	film := f.addFilm(t, "Avatar")
	userID := f.addUser(t, "alice")

	var nferr *models.NotFoundError
	assert.ErrorAs(t, f.films.AddLike(999, userID), &nferr)
	assert.ErrorAs(t, f.films.AddLike(film.ID, 999), &nferr)
}

func TestGetPopularFilms(t *testing.T) {
	f := newFilmFixture()
	quiet := f.addFilm(t, "Quiet")
	hit := f.addFilm(t, "Hit", func(fm *models.Film) {
		fm.Genres = []models.Genre{{ID: 1}}
		fm.ReleaseDate = "1999-03-31"
	})
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	require.NoError(t, f.films.AddLike(hit.ID, alice))
	require.NoError(t, f.films.AddLike(hit.ID, bob))
	require.NoError(t, f.films.AddLike(quiet.ID, alice))

	films, err := f.films.GetPopularFilms(models.PopularParams{Count: 10})
	require.NoError(t, err)
	require.Len(t, films, 2)
	assert.Equal(t, hit.ID, films[0].ID)
	assert.Equal(t, quiet.ID, films[1].ID)

	films, err = f.films.GetPopularFilms(models.PopularParams{Count: 1})
	require.NoError(t, err)
	require.Len(t, films, 1)
	assert.Equal(t, hit.ID, films[0].ID)

	films, err = f.films.GetPopularFilms(models.PopularParams{Count: 10, GenreID: 1, Year: 1999})
	require.NoError(t, err)
	require.Len(t, films, 1)
	assert.Equal(t, hit.ID, films[0].ID)

	films, err = f.films.GetPopularFilms(models.PopularParams{Count: 10, Year: 2010})
	require.NoError(t, err)
	assert.Empty(t, films)
}

func TestGetPopularFilmsValidation(t *testing.T) {
	f := newFilmFixture()

	_, err := f.films.GetPopularFilms(models.PopularParams{Count: 0})
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = f.films.GetPopularFilms(models.PopularParams{Count: 10, GenreID: 99})
	var nferr *models.NotFoundError
	assert.ErrorAs(t, err, &nferr)
}

func TestSearchFilmsRequiresQueryAndBy(t *testing.T) {
	f := newFilmFixture()
	var verr *models.ValidationError

	_, err := f.films.SearchFilms(models.SearchParams{Query: "x"})
	assert.ErrorAs(t, err, &verr)

	_, err = f.films.SearchFilms(models.SearchParams{ByTitle: true})
	assert.ErrorAs(t, err, &verr)
}

func TestGetCommonFilms(t *testing.T) {
	f := newFilmFixture()
	shared := f.addFilm(t, "Shared")
	solo := f.addFilm(t, "Solo")
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	require.NoError(t, f.films.AddLike(shared.ID, alice))
	require.NoError(t, f.films.AddLike(shared.ID, bob))
	require.NoError(t, f.films.AddLike(solo.ID, alice))

	films, err := f.films.GetCommonFilms(alice, bob)
	require.NoError(t, err)
	require.Len(t, films, 1)
	assert.Equal(t, shared.ID, films[0].ID)
}

func TestGetRecommendationsEmptyWithoutLikes(t *testing.T) {
	f := newFilmFixture()
	alice := f.addUser(t, "alice")
	f.addFilm(t, "Anything")

	films, err := f.films.GetRecommendations(alice)
	require.NoError(t, err)
	assert.Empty(t, films)
}

func TestGetRecommendations(t *testing.T) {
	f := newFilmFixture()
	common := f.addFilm(t, "Common")
	extra := f.addFilm(t, "Extra")
	other := f.addFilm(t, "Other")
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	carol := f.addUser(t, "carol")

	// Bob shares a like with Alice and has one film she hasn't seen.
	require.NoError(t, f.films.AddLike(common.ID, alice))
	require.NoError(t, f.films.AddLike(common.ID, bob))
	require.NoError(t, f.films.AddLike(extra.ID, bob))
	// Carol shares nothing with Alice.
	require.NoError(t, f.films.AddLike(other.ID, carol))

	films, err := f.films.GetRecommendations(alice)
	require.NoError(t, err)
	require.Len(t, films, 1)
	assert.Equal(t, extra.ID, films[0].ID)
}

func TestMostSimilarUser(t *testing.T) {
	likes := map[int64][]int64{
		1: {10, 20},
		2: {10, 20, 30},
		3: {20, 40},
	}

	similar, ok := mostSimilarUser(1, likes)
	require.True(t, ok)
	assert.Equal(t, int64(2), similar)

	// No likes at all.
	_, ok = mostSimilarUser(5, likes)
	assert.False(t, ok)

	// No overlap with anyone.
	likes[4] = []int64{99}
	_, ok = mostSimilarUser(4, likes)
	assert.False(t, ok)
}

func TestMostSimilarUserTieGoesToLowestID(t *testing.T) {
	likes := map[int64][]int64{
		1: {10},
		7: {10, 50},
		3: {10, 60},
	}

	similar, ok := mostSimilarUser(1, likes)
	require.True(t, ok)
	assert.Equal(t, int64(3), similar)
}

func TestGetFilmsByDirector(t *testing.T) {
	f := newFilmFixture()
	director, err := NewDirectorService(directorRepoOf(f)).CreateDirector(&models.Director{Name: "Nolan"})
	require.NoError(t, err)

	older := f.addFilm(t, "Older", func(fm *models.Film) {
		fm.ReleaseDate = "2000-01-01"
		fm.Directors = []models.Director{{ID: director.ID}}
	})
	newer := f.addFilm(t, "Newer", func(fm *models.Film) {
		fm.ReleaseDate = "2010-01-01"
		fm.Directors = []models.Director{{ID: director.ID}}
	})
	alice := f.addUser(t, "alice")
	require.NoError(t, f.films.AddLike(newer.ID, alice))

	films, err := f.films.GetFilmsByDirector(director.ID, models.SortByYear)
	require.NoError(t, err)
	require.Len(t, films, 2)
	assert.Equal(t, older.ID, films[0].ID)

	films, err = f.films.GetFilmsByDirector(director.ID, models.SortByLikes)
	require.NoError(t, err)
	require.Len(t, films, 2)
	assert.Equal(t, newer.ID, films[0].ID)

	_, err = f.films.GetFilmsByDirector(director.ID, "bogus")
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = f.films.GetFilmsByDirector(999, models.SortByLikes)
	var nferr *models.NotFoundError
	assert.ErrorAs(t, err, &nferr)
}

func directorRepoOf(f *filmFixture) *memory.DirectorRepository {
	return f.films.directors.(*memory.DirectorRepository)
}
