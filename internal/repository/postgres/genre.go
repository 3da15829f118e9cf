package postgres

import (
	"database/sql"
	"fmt"

	"filmorate-api/internal/models"
)

// GenreRepository reads the seeded genre catalog.
type GenreRepository struct {
	db *sql.DB
}

// NewGenreRepository creates a new GenreRepository.
func NewGenreRepository(db *sql.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

// GetAll returns every genre ordered by id.
func (r *GenreRepository) GetAll() ([]models.Genre, error) {
	rows, err := r.db.Query(`SELECT id, name FROM genres ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	defer rows.Close()

	genres := make([]models.Genre, 0)
	for rows.Next() {
		var genre models.Genre
		if err := rows.Scan(&genre.ID, &genre.Name); err != nil {
			continue
		}
		genres = append(genres, genre)
	}
	return genres, rows.Err()
}

// GetByID returns a genre by id.
func (r *GenreRepository) GetByID(id int64) (*models.Genre, error) {
	var genre models.Genre
	err := r.db.QueryRow(`SELECT id, name FROM genres WHERE id = $1`, id).
		Scan(&genre.ID, &genre.Name)
	if err != nil {
		return nil, err
	}
	return &genre, nil
}
