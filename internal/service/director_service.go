package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"filmorate-api/internal/models"
	"filmorate-api/internal/repository"
)

// DirectorService handles business logic for directors.
type DirectorService struct {
	directors repository.DirectorRepository
}

// NewDirectorService creates a new DirectorService.
func NewDirectorService(directors repository.DirectorRepository) *DirectorService {
	return &DirectorService{directors: directors}
}

// CreateDirector validates and stores a new director.
func (s *DirectorService) CreateDirector(director *models.Director) (*models.Director, error) {
	if err := validateDirector(director); err != nil {
		return nil, err
	}
	created, err := s.directors.Create(director)
	if err != nil {
		return nil, fmt.Errorf("failed to create director: %w", err)
	}
	return created, nil
}

// UpdateDirector validates and rewrites an existing director.
func (s *DirectorService) UpdateDirector(director *models.Director) (*models.Director, error) {
	if err := validateDirector(director); err != nil {
		return nil, err
	}
	if _, err := s.getDirector(director.ID); err != nil {
		return nil, err
	}
	updated, err := s.directors.Update(director)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("director with id %d not found", director.ID)
		}
		return nil, fmt.Errorf("failed to update director: %w", err)
	}
	return updated, nil
}

// GetDirector returns a director by id.
func (s *DirectorService) GetDirector(id int64) (*models.Director, error) {
	return s.getDirector(id)
}

// GetAllDirectors returns every director.
func (s *DirectorService) GetAllDirectors() ([]models.Director, error) {
	return s.directors.GetAll()
}

// DeleteDirector removes a director.
func (s *DirectorService) DeleteDirector(id int64) error {
	if _, err := s.getDirector(id); err != nil {
		return err
	}
	if err := s.directors.Delete(id); err != nil {
		return fmt.Errorf("failed to delete director: %w", err)
	}
	return nil
}

func validateDirector(director *models.Director) error {
	if strings.TrimSpace(director.Name) == "" {
		return models.NewValidationError("director name must not be empty")
	}
	return nil
}

func (s *DirectorService) getDirector(id int64) (*models.Director, error) {
	director, err := s.directors.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("director with id %d not found", id)
		}
		return nil, fmt.Errorf("failed to get director: %w", err)
	}
	return director, nil
}
