package memory

import (
	"database/sql"
	"sync"

	"filmorate-api/internal/models"
)

// GenreRepository is an in-memory repository.GenreRepository holding
// the same seed set as the postgres migrations.
type GenreRepository struct {
	mu     sync.Mutex
	genres []models.Genre
}

// NewGenreRepository creates a genre repository with the seeded catalog.
func NewGenreRepository() *GenreRepository {
	return &GenreRepository{
		genres: []models.Genre{
			{ID: 1, Name: "Комедия"},
			{ID: 2, Name: "Драма"},
			{ID: 3, Name: "Мультфильм"},
			{ID: 4, Name: "Триллер"},
			{ID: 5, Name: "Документальный"},
			{ID: 6, Name: "Боевик"},
		},
	}
}

// GetAll returns every genre ordered by id.
func (r *GenreRepository) GetAll() ([]models.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Genre{}, r.genres...), nil
}

// GetByID returns a genre by id.
func (r *GenreRepository) GetByID(id int64) (*models.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, genre := range r.genres {
		if genre.ID == id {
			return &genre, nil
		}
	}
	return nil, sql.ErrNoRows
}

// MpaRepository is an in-memory repository.MpaRepository holding the
// same seed set as the postgres migrations.
type MpaRepository struct {
	mu      sync.Mutex
	ratings []models.Mpa
}

// NewMpaRepository creates an MPA repository with the seeded catalog.
func NewMpaRepository() *MpaRepository {
	return &MpaRepository{
		ratings: []models.Mpa{
			{ID: 1, Name: "G"},
			{ID: 2, Name: "PG"},
			{ID: 3, Name: "PG-13"},
			{ID: 4, Name: "R"},
			{ID: 5, Name: "NC-17"},
		},
	}
}

// GetAll returns every MPA rating ordered by id.
func (r *MpaRepository) GetAll() ([]models.Mpa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Mpa{}, r.ratings...), nil
}

// GetByID returns an MPA rating by id.
func (r *MpaRepository) GetByID(id int64) (*models.Mpa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, mpa := range r.ratings {
		if mpa.ID == id {
			return &mpa, nil
		}
	}
	return nil, sql.ErrNoRows
}
