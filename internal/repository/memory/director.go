package memory

import (
	"database/sql"
	"sort"
	"strings"
	"sync"

	"filmorate-api/internal/models"
)

// DirectorRepository is an in-memory repository.DirectorRepository.
type DirectorRepository struct {
	mu        sync.Mutex
	directors map[int64]models.Director
	nextID    int64
}

// NewDirectorRepository creates an empty in-memory director repository.
func NewDirectorRepository() *DirectorRepository {
	return &DirectorRepository{directors: make(map[int64]models.Director)}
}

// Create inserts a new director.
func (r *DirectorRepository) Create(director *models.Director) (*models.Director, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	director.ID = r.nextID
	director.Name = strings.TrimSpace(director.Name)
	r.directors[director.ID] = *director
	return director, nil
}

// Update rewrites a director's name.
func (r *DirectorRepository) Update(director *models.Director) (*models.Director, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.directors[director.ID]; !ok {
		return nil, sql.ErrNoRows
	}
	r.directors[director.ID] = *director
	return director, nil
}

// GetByID returns a director by id.
func (r *DirectorRepository) GetByID(id int64) (*models.Director, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	director, ok := r.directors[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &director, nil
}

// GetAll returns every director ordered by name.
func (r *DirectorRepository) GetAll() ([]models.Director, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	directors := make([]models.Director, 0, len(r.directors))
	for _, director := range r.directors {
		directors = append(directors, director)
	}
	sort.Slice(directors, func(i, j int) bool {
		if directors[i].Name != directors[j].Name {
			return directors[i].Name < directors[j].Name
		}
		return directors[i].ID < directors[j].ID
	})
	return directors, nil
}

// Delete removes a director.
func (r *DirectorRepository) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.directors, id)
	return nil
}
