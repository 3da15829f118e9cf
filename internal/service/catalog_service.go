package service

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"filmorate-api/internal/models"
	"filmorate-api/internal/repository"
)

const (
	genresCacheKey = "catalog:genres"
	mpaCacheKey    = "catalog:mpa"
)

// CatalogService serves the seeded genre and MPA rating catalogs. The
// list responses are cached in Redis without expiry: the catalogs only
// change when the seed data changes, so the cache is a static snapshot
// refreshed explicitly through RefreshCache.
type CatalogService struct {
	genres repository.GenreRepository
	mpa    repository.MpaRepository
	cache  cache
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(genres repository.GenreRepository, mpa repository.MpaRepository, rdb *redis.Client) *CatalogService {
	return &CatalogService{genres: genres, mpa: mpa, cache: cache{rdb: rdb}}
}

// GetAllGenres returns every genre.
func (s *CatalogService) GetAllGenres() ([]models.Genre, error) {
	if cached, err := s.cache.get(genresCacheKey); err == nil {
		var genres []models.Genre
		if json.Unmarshal([]byte(cached), &genres) == nil {
			return genres, nil
		}
	}

	genres, err := s.genres.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get genres: %w", err)
	}
	if data, err := json.Marshal(genres); err == nil {
		s.cache.set(genresCacheKey, string(data), 0)
	}
	return genres, nil
}

// GetGenre returns a genre by id.
func (s *CatalogService) GetGenre(id int64) (*models.Genre, error) {
	genre, err := s.genres.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("genre with id %d not found", id)
		}
		return nil, fmt.Errorf("failed to get genre: %w", err)
	}
	return genre, nil
}

// GetAllMpa returns every MPA rating.
func (s *CatalogService) GetAllMpa() ([]models.Mpa, error) {
	if cached, err := s.cache.get(mpaCacheKey); err == nil {
		var ratings []models.Mpa
		if json.Unmarshal([]byte(cached), &ratings) == nil {
			return ratings, nil
		}
	}

	ratings, err := s.mpa.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get mpa ratings: %w", err)
	}
	if data, err := json.Marshal(ratings); err == nil {
		s.cache.set(mpaCacheKey, string(data), 0)
	}
	return ratings, nil
}

// GetMpa returns an MPA rating by id.
func (s *CatalogService) GetMpa(id int64) (*models.Mpa, error) {
	mpa, err := s.mpa.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("mpa rating with id %d not found", id)
		}
		return nil, fmt.Errorf("failed to get mpa rating: %w", err)
	}
	return mpa, nil
}

// RefreshCache drops the catalog snapshots so the next read reloads
// them from the store.
func (s *CatalogService) RefreshCache() {
	s.cache.invalidate(genresCacheKey, mpaCacheKey)
}
