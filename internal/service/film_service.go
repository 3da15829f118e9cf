package service

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/redis/go-redis/v9"

	"filmorate-api/internal/models"
	"filmorate-api/internal/repository"
)

// cinemaBirthday is the earliest allowed release date: the day of the
// first public film screening.
const cinemaBirthday = "1895-12-28"

const (
	maxDescriptionLen = 200

	popularCacheTTL         = 5 * time.Minute
	recommendationsCacheTTL = 10 * time.Minute
)

// FilmService handles business logic for films, likes, popularity
// listings and the recommendation lookup.
type FilmService struct {
	films     repository.FilmRepository
	users     repository.UserRepository
	genres    repository.GenreRepository
	mpa       repository.MpaRepository
	directors repository.DirectorRepository
	events    repository.EventRepository
	cache     cache
}

// NewFilmService creates a new FilmService.
func NewFilmService(
	films repository.FilmRepository,
	users repository.UserRepository,
	genres repository.GenreRepository,
	mpa repository.MpaRepository,
	directors repository.DirectorRepository,
	events repository.EventRepository,
	rdb *redis.Client,
) *FilmService {
	return &FilmService{
		films:     films,
		users:     users,
		genres:    genres,
		mpa:       mpa,
		directors: directors,
		events:    events,
		cache:     cache{rdb: rdb},
	}
}

// CreateFilm validates and stores a new film.
func (s *FilmService) CreateFilm(film *models.Film) (*models.Film, error) {
	if err := s.validateFilm(film); err != nil {
		return nil, err
	}

	created, err := s.films.Create(film)
	if err != nil {
		return nil, fmt.Errorf("failed to create film: %w", err)
	}
	s.invalidateFilmCaches()
	return created, nil
}

// UpdateFilm validates and rewrites an existing film.
func (s *FilmService) UpdateFilm(film *models.Film) (*models.Film, error) {
	if _, err := s.getFilm(film.ID); err != nil {
		return nil, err
	}
	if err := s.validateFilm(film); err != nil {
		return nil, err
	}

	updated, err := s.films.Update(film)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("film with id %d not found", film.ID)
		}
		return nil, fmt.Errorf("failed to update film: %w", err)
	}
	s.invalidateFilmCaches()
	return updated, nil
}

// GetFilm returns a film by id.
func (s *FilmService) GetFilm(id int64) (*models.Film, error) {
	return s.getFilm(id)
}

// GetAllFilms returns every film.
func (s *FilmService) GetAllFilms() ([]models.Film, error) {
	return s.films.GetAll()
}

// DeleteFilm removes a film and its associations.
func (s *FilmService) DeleteFilm(id int64) error {
	if _, err := s.getFilm(id); err != nil {
		return err
	}
	if err := s.films.Delete(id); err != nil {
		return fmt.Errorf("failed to delete film: %w", err)
	}
	s.invalidateFilmCaches()
	return nil
}

// AddLike records a like from the user and logs a LIKE/ADD event.
// Repeating the like is a no-op.
func (s *FilmService) AddLike(filmID, userID int64) error {
	if _, err := s.getFilm(filmID); err != nil {
		return err
	}
	if err := s.checkUserExists(userID); err != nil {
		return err
	}
	if err := s.films.AddLike(filmID, userID); err != nil {
		return fmt.Errorf("failed to add like: %w", err)
	}
	if err := s.events.Add(userID, models.EventTypeLike, models.OperationAdd, filmID); err != nil {
		return fmt.Errorf("failed to log like event: %w", err)
	}
	s.invalidateFilmCaches()
	return nil
}

// RemoveLike deletes the user's like and logs a LIKE/REMOVE event.
// Removing an absent like is a no-op.
func (s *FilmService) RemoveLike(filmID, userID int64) error {
	if _, err := s.getFilm(filmID); err != nil {
		return err
	}
	if err := s.checkUserExists(userID); err != nil {
		return err
	}
	if err := s.films.RemoveLike(filmID, userID); err != nil {
		return fmt.Errorf("failed to remove like: %w", err)
	}
	if err := s.events.Add(userID, models.EventTypeLike, models.OperationRemove, filmID); err != nil {
		return fmt.Errorf("failed to log like event: %w", err)
	}
	s.invalidateFilmCaches()
	return nil
}

// GetPopularFilms returns the most liked films, optionally filtered by
// genre and release year.
func (s *FilmService) GetPopularFilms(params models.PopularParams) ([]models.Film, error) {
	if params.Count <= 0 {
		return nil, models.NewValidationError("count must be a positive number")
	}
	if params.GenreID != 0 {
		if _, err := s.genres.GetByID(params.GenreID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, models.NewNotFoundError("genre with id %d not found", params.GenreID)
			}
			return nil, fmt.Errorf("failed to get genre: %w", err)
		}
	}
	if params.Year != 0 && params.Year < 1895 {
		return nil, models.NewValidationError("year must not be before 1895")
	}

	cacheKey := fmt.Sprintf("films:popular:%d:%d:%d", params.Count, params.GenreID, params.Year)
	if cached, err := s.cache.get(cacheKey); err == nil {
		var films []models.Film
		if json.Unmarshal([]byte(cached), &films) == nil {
			return films, nil
		}
	}

	films, err := s.films.GetPopular(params)
	if err != nil {
		return nil, fmt.Errorf("failed to get popular films: %w", err)
	}

	if data, err := json.Marshal(films); err == nil {
		s.cache.set(cacheKey, string(data), popularCacheTTL)
	}
	return films, nil
}

// GetFilmsByDirector returns a director's films sorted by likes or year.
func (s *FilmService) GetFilmsByDirector(directorID int64, sortBy string) ([]models.Film, error) {
	if sortBy != models.SortByLikes && sortBy != models.SortByYear {
		return nil, models.NewValidationError("sortBy must be 'likes' or 'year'")
	}
	if _, err := s.directors.GetByID(directorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("director with id %d not found", directorID)
		}
		return nil, fmt.Errorf("failed to get director: %w", err)
	}
	return s.films.GetByDirector(directorID, sortBy)
}

// SearchFilms returns films matching the query by title and/or
// director name.
func (s *FilmService) SearchFilms(params models.SearchParams) ([]models.Film, error) {
	if params.Query == "" || (!params.ByTitle && !params.ByDirector) {
		return nil, models.NewValidationError("both query and by parameters are required")
	}
	return s.films.Search(params)
}

// GetCommonFilms returns films liked by both users, most liked first.
func (s *FilmService) GetCommonFilms(userID, friendID int64) ([]models.Film, error) {
	if err := s.checkUserExists(userID); err != nil {
		return nil, err
	}
	if err := s.checkUserExists(friendID); err != nil {
		return nil, err
	}
	return s.films.GetCommon(userID, friendID)
}

// GetRecommendations returns films liked by the most similar user (by
// shared likes) that the given user has not liked yet. A user with no
// likes, or with no overlap with anyone, gets an empty result.
func (s *FilmService) GetRecommendations(userID int64) ([]models.Film, error) {
	if err := s.checkUserExists(userID); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("films:recommendations:%d", userID)
	if cached, err := s.cache.get(cacheKey); err == nil {
		var films []models.Film
		if json.Unmarshal([]byte(cached), &films) == nil {
			return films, nil
		}
	}

	likes, err := s.films.LikesByUser()
	if err != nil {
		return nil, fmt.Errorf("failed to load likes: %w", err)
	}

	similar, ok := mostSimilarUser(userID, likes)
	if !ok {
		return []models.Film{}, nil
	}

	liked := make(map[int64]bool, len(likes[userID]))
	for _, filmID := range likes[userID] {
		liked[filmID] = true
	}
	candidates := make([]int64, 0, len(likes[similar]))
	for _, filmID := range likes[similar] {
		if !liked[filmID] {
			candidates = append(candidates, filmID)
		}
	}

	films, err := s.films.GetByIDs(candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommended films: %w", err)
	}

	if data, err := json.Marshal(films); err == nil {
		s.cache.set(cacheKey, string(data), recommendationsCacheTTL)
	}
	return films, nil
}

// mostSimilarUser finds the other user sharing the most liked films
// with userID. Users are scanned in ascending id order, so ties go to
// the lowest id. ok is false when the user has no likes or nobody
// shares any.
func mostSimilarUser(userID int64, likes map[int64][]int64) (int64, bool) {
	target := make(map[int64]bool, len(likes[userID]))
	for _, filmID := range likes[userID] {
		target[filmID] = true
	}
	if len(target) == 0 {
		return 0, false
	}

	others := make([]int64, 0, len(likes))
	for id := range likes {
		if id != userID {
			others = append(others, id)
		}
	}
	sort.Slice(others, func(i, j int) bool { return others[i] < others[j] })

	var best int64
	bestShared := 0
	for _, id := range others {
		shared := 0
		for _, filmID := range likes[id] {
			if target[filmID] {
				shared++
			}
		}
		if shared > bestShared {
			best, bestShared = id, shared
		}
	}
	return best, bestShared > 0
}

// validateFilm applies the film validation rules and resolves the MPA
// rating (defaulting to G) and genre references.
func (s *FilmService) validateFilm(film *models.Film) error {
	if film.Name == "" {
		return models.NewValidationError("film name must not be empty")
	}
	if utf8.RuneCountInString(film.Description) > maxDescriptionLen {
		return models.NewValidationError("film description must not exceed %d characters", maxDescriptionLen)
	}
	if film.ReleaseDate == "" {
		return models.NewValidationError("film release date must not be empty")
	}
	releaseDate, err := time.Parse("2006-01-02", film.ReleaseDate)
	if err != nil {
		return models.NewValidationError("film release date must be in YYYY-MM-DD format")
	}
	earliest, _ := time.Parse("2006-01-02", cinemaBirthday)
	if releaseDate.Before(earliest) {
		return models.NewValidationError("film release date must not be before %s", cinemaBirthday)
	}
	if film.Duration <= 0 {
		return models.NewValidationError("film duration must be a positive number")
	}

	if film.Mpa == nil || film.Mpa.ID == 0 {
		film.Mpa = &models.Mpa{ID: 1, Name: "G"}
	} else {
		mpa, err := s.mpa.GetByID(film.Mpa.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.NewNotFoundError("mpa rating with id %d not found", film.Mpa.ID)
			}
			return fmt.Errorf("failed to get mpa rating: %w", err)
		}
		film.Mpa = mpa
	}

	for _, genre := range film.Genres {
		if _, err := s.genres.GetByID(genre.ID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.NewNotFoundError("genre with id %d not found", genre.ID)
			}
			return fmt.Errorf("failed to get genre: %w", err)
		}
	}
	return nil
}

func (s *FilmService) getFilm(id int64) (*models.Film, error) {
	film, err := s.films.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("film with id %d not found", id)
		}
		return nil, fmt.Errorf("failed to get film: %w", err)
	}
	return film, nil
}

func (s *FilmService) checkUserExists(id int64) error {
	if _, err := s.users.GetByID(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.NewNotFoundError("user with id %d not found", id)
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	return nil
}

func (s *FilmService) invalidateFilmCaches() {
	s.cache.invalidate("films:*")
}
