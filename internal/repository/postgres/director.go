package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	"filmorate-api/internal/models"
)

// DirectorRepository handles database operations for directors.
type DirectorRepository struct {
	db *sql.DB
}

// NewDirectorRepository creates a new DirectorRepository.
func NewDirectorRepository(db *sql.DB) *DirectorRepository {
	return &DirectorRepository{db: db}
}

// Create inserts a new director.
func (r *DirectorRepository) Create(director *models.Director) (*models.Director, error) {
	err := r.db.QueryRow(`
		INSERT INTO directors (name) VALUES ($1) RETURNING id
	`, strings.TrimSpace(director.Name)).Scan(&director.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create director: %w", err)
	}
	return director, nil
}

// Update rewrites a director's name.
func (r *DirectorRepository) Update(director *models.Director) (*models.Director, error) {
	res, err := r.db.Exec(`
		UPDATE directors SET name = $1 WHERE id = $2
	`, director.Name, director.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update director: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, sql.ErrNoRows
	}
	return director, nil
}

// GetByID returns a director by id.
func (r *DirectorRepository) GetByID(id int64) (*models.Director, error) {
	var director models.Director
	err := r.db.QueryRow(`SELECT id, name FROM directors WHERE id = $1`, id).
		Scan(&director.ID, &director.Name)
	if err != nil {
		return nil, err
	}
	return &director, nil
}

// GetAll returns every director ordered by name.
func (r *DirectorRepository) GetAll() ([]models.Director, error) {
	rows, err := r.db.Query(`SELECT id, name FROM directors ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query directors: %w", err)
	}
	defer rows.Close()

	directors := make([]models.Director, 0)
	for rows.Next() {
		var director models.Director
		if err := rows.Scan(&director.ID, &director.Name); err != nil {
			continue
		}
		directors = append(directors, director)
	}
	return directors, rows.Err()
}

// Delete removes a director; film links cascade.
func (r *DirectorRepository) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM directors WHERE id = $1`, id)
	return err
}
