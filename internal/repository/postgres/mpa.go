package postgres

import (
	"database/sql"
	"fmt"

	"filmorate-api/internal/models"
)

// MpaRepository reads the seeded MPA rating catalog.
type MpaRepository struct {
	db *sql.DB
}

// NewMpaRepository creates a new MpaRepository.
func NewMpaRepository(db *sql.DB) *MpaRepository {
	return &MpaRepository{db: db}
}

// GetAll returns every MPA rating ordered by id.
func (r *MpaRepository) GetAll() ([]models.Mpa, error) {
	rows, err := r.db.Query(`SELECT id, name FROM mpa_ratings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query mpa ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]models.Mpa, 0)
	for rows.Next() {
		var mpa models.Mpa
		if err := rows.Scan(&mpa.ID, &mpa.Name); err != nil {
			continue
		}
		ratings = append(ratings, mpa)
	}
	return ratings, rows.Err()
}

// GetByID returns an MPA rating by id.
func (r *MpaRepository) GetByID(id int64) (*models.Mpa, error) {
	var mpa models.Mpa
	err := r.db.QueryRow(`SELECT id, name FROM mpa_ratings WHERE id = $1`, id).
		Scan(&mpa.ID, &mpa.Name)
	if err != nil {
		return nil, err
	}
	return &mpa, nil
}
