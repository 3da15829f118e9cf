package memory

import (
	"database/sql"
	"sort"
	"strconv"
	"strings"
	"sync"

	"filmorate-api/internal/models"
)

// FilmRepository is an in-memory repository.FilmRepository. Directors
// are resolved through the director repository so names stay current.
type FilmRepository struct {
	mu        sync.Mutex
	films     map[int64]models.Film
	likes     map[int64]map[int64]bool
	directors *DirectorRepository
	nextID    int64
}

// NewFilmRepository creates an empty in-memory film repository.
func NewFilmRepository(directors *DirectorRepository) *FilmRepository {
	return &FilmRepository{
		films:     make(map[int64]models.Film),
		likes:     make(map[int64]map[int64]bool),
		directors: directors,
	}
}

// Create inserts a new film.
func (r *FilmRepository) Create(film *models.Film) (*models.Film, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	film.ID = r.nextID
	r.films[film.ID] = copyFilm(*film)
	return r.get(film.ID)
}

// Update rewrites an existing film.
func (r *FilmRepository) Update(film *models.Film) (*models.Film, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.films[film.ID]; !ok {
		return nil, sql.ErrNoRows
	}
	r.films[film.ID] = copyFilm(*film)
	return r.get(film.ID)
}

// GetByID returns a film with its like set attached.
func (r *FilmRepository) GetByID(id int64) (*models.Film, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

// GetByIDs returns the films with the given ids, ordered by id.
func (r *FilmRepository) GetByIDs(ids []int64) ([]models.Film, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	films := make([]models.Film, 0, len(ids))
	for _, id := range ids {
		if film, err := r.get(id); err == nil {
			films = append(films, *film)
		}
	}
	sort.Slice(films, func(i, j int) bool { return films[i].ID < films[j].ID })
	return films, nil
}

// GetAll returns every film ordered by id.
func (r *FilmRepository) GetAll() ([]models.Film, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.sorted(func(a, b *models.Film) bool { return a.ID < b.ID }, 0), nil
}

// Delete removes a film and its likes.
func (r *FilmRepository) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.films, id)
	delete(r.likes, id)
	return nil
}

// AddLike records a like; repeating it is a no-op.
func (r *FilmRepository) AddLike(filmID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.likes[filmID] == nil {
		r.likes[filmID] = make(map[int64]bool)
	}
	r.likes[filmID][userID] = true
	return nil
}

// RemoveLike deletes a like; removing an absent like is a no-op.
func (r *FilmRepository) RemoveLike(filmID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.likes[filmID], userID)
	return nil
}

// GetPopular returns films ordered by like count descending, filtered
// by genre and release year when set.
func (r *FilmRepository) GetPopular(params models.PopularParams) ([]models.Film, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	films := r.sorted(func(a, b *models.Film) bool {
		if len(a.Likes) != len(b.Likes) {
			return len(a.Likes) > len(b.Likes)
		}
		return a.ID < b.ID
	}, 0)

	filtered := make([]models.Film, 0, len(films))
	for _, film := range films {
		if params.GenreID != 0 && !hasGenre(&film, params.GenreID) {
			continue
		}
		if params.Year != 0 && releaseYear(&film) != params.Year {
			continue
		}
		filtered = append(filtered, film)
		if len(filtered) == params.Count {
			break
		}
	}
	return filtered, nil
}

// GetByDirector returns a director's films sorted by like count or by
// release year.
func (r *FilmRepository) GetByDirector(directorID int64, sortBy string) ([]models.Film, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byYear := func(a, b *models.Film) bool {
		if a.ReleaseDate != b.ReleaseDate {
			return a.ReleaseDate < b.ReleaseDate
		}
		return a.ID < b.ID
	}
	byLikes := func(a, b *models.Film) bool {
		if len(a.Likes) != len(b.Likes) {
			return len(a.Likes) > len(b.Likes)
		}
		return a.ID < b.ID
	}

	less := byLikes
	if sortBy == models.SortByYear {
		less = byYear
	}

	films := r.sorted(less, 0)
	result := make([]models.Film, 0)
	for _, film := range films {
		for _, d := range film.Directors {
			if d.ID == directorID {
				result = append(result, film)
				break
			}
		}
	}
	return result, nil
}

// Search returns films whose title or director name contains the
// query, case-insensitively, most liked first.
func (r *FilmRepository) Search(params models.SearchParams) ([]models.Film, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := strings.ToLower(params.Query)
	films := r.sorted(func(a, b *models.Film) bool {
		if len(a.Likes) != len(b.Likes) {
			return len(a.Likes) > len(b.Likes)
		}
		return a.ID > b.ID
	}, 0)

	result := make([]models.Film, 0)
	for _, film := range films {
		if params.ByTitle && strings.Contains(strings.ToLower(film.Name), query) {
			result = append(result, film)
			continue
		}
		if params.ByDirector {
			for _, d := range film.Directors {
				if strings.Contains(strings.ToLower(d.Name), query) {
					result = append(result, film)
					break
				}
			}
		}
	}
	return result, nil
}

// GetCommon returns films liked by both users, most liked first.
func (r *FilmRepository) GetCommon(userID, friendID int64) ([]models.Film, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	films := r.sorted(func(a, b *models.Film) bool {
		if len(a.Likes) != len(b.Likes) {
			return len(a.Likes) > len(b.Likes)
		}
		return a.ID < b.ID
	}, 0)

	result := make([]models.Film, 0)
	for _, film := range films {
		if r.likes[film.ID][userID] && r.likes[film.ID][friendID] {
			result = append(result, film)
		}
	}
	return result, nil
}

// LikesByUser returns every user's liked film ids.
func (r *FilmRepository) LikesByUser() (map[int64][]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byUser := make(map[int64][]int64)
	for filmID, users := range r.likes {
		for userID := range users {
			byUser[userID] = append(byUser[userID], filmID)
		}
	}
	return byUser, nil
}

// get returns a copy of the film with likes and fresh director names
// attached. Callers must hold the lock.
func (r *FilmRepository) get(id int64) (*models.Film, error) {
	stored, ok := r.films[id]
	if !ok {
		return nil, sql.ErrNoRows
	}

	film := copyFilm(stored)
	film.Likes = make([]int64, 0, len(r.likes[id]))
	for userID := range r.likes[id] {
		film.Likes = append(film.Likes, userID)
	}
	sort.Slice(film.Likes, func(i, j int) bool { return film.Likes[i] < film.Likes[j] })

	for i := range film.Directors {
		if d, err := r.directors.GetByID(film.Directors[i].ID); err == nil {
			film.Directors[i].Name = d.Name
		}
	}
	return &film, nil
}

func (r *FilmRepository) sorted(less func(a, b *models.Film) bool, limit int) []models.Film {
	films := make([]models.Film, 0, len(r.films))
	for id := range r.films {
		if film, err := r.get(id); err == nil {
			films = append(films, *film)
		}
	}
	sort.Slice(films, func(i, j int) bool { return less(&films[i], &films[j]) })
	if limit > 0 && len(films) > limit {
		films = films[:limit]
	}
	return films
}

func copyFilm(film models.Film) models.Film {
	if film.Mpa != nil {
		mpa := *film.Mpa
		film.Mpa = &mpa
	}
	film.Genres = append([]models.Genre{}, film.Genres...)
	film.Directors = append([]models.Director{}, film.Directors...)
	film.Likes = append([]int64{}, film.Likes...)
	return film
}

func hasGenre(film *models.Film, genreID int64) bool {
	for _, g := range film.Genres {
		if g.ID == genreID {
			return true
		}
	}
	return false
}

func releaseYear(film *models.Film) int {
	if len(film.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(film.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}
