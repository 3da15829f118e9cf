package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"filmorate-api/internal/models"
)

const filmSelect = `
	SELECT f.id, f.name, COALESCE(f.description, ''),
		TO_CHAR(f.release_date, 'YYYY-MM-DD'), f.duration,
		f.mpa_rating_id, m.name AS mpa_name
	FROM films f
	LEFT JOIN mpa_ratings m ON f.mpa_rating_id = m.id`

// FilmRepository handles database operations for films, their genre
// and director links, and likes.
type FilmRepository struct {
	db *sql.DB
}

// NewFilmRepository creates a new FilmRepository.
func NewFilmRepository(db *sql.DB) *FilmRepository {
	return &FilmRepository{db: db}
}

// Create inserts a film together with its genre and director links in
// a single transaction.
func (r *FilmRepository) Create(film *models.Film) (*models.Film, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRow(`
		INSERT INTO films (name, description, release_date, duration, mpa_rating_id)
		VALUES ($1, $2, $3::date, $4, $5)
		RETURNING id
	`, film.Name, film.Description, film.ReleaseDate, film.Duration, film.Mpa.ID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create film: %w", err)
	}

	if err := replaceFilmLinks(tx, id, film); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit film: %w", err)
	}

	return r.GetByID(id)
}

// Update rewrites a film's fields and replaces its genre and director
// sets in a single transaction.
func (r *FilmRepository) Update(film *models.Film) (*models.Film, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE films SET name = $1, description = $2, release_date = $3::date,
			duration = $4, mpa_rating_id = $5
		WHERE id = $6
	`, film.Name, film.Description, film.ReleaseDate, film.Duration, film.Mpa.ID, film.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update film: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, sql.ErrNoRows
	}

	if _, err := tx.Exec(`DELETE FROM film_genres WHERE film_id = $1`, film.ID); err != nil {
		return nil, fmt.Errorf("failed to clear film genres: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM film_directors WHERE film_id = $1`, film.ID); err != nil {
		return nil, fmt.Errorf("failed to clear film directors: %w", err)
	}
	if err := replaceFilmLinks(tx, film.ID, film); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit film: %w", err)
	}

	return r.GetByID(film.ID)
}

// GetByID returns a film with genres, directors and likes attached.
func (r *FilmRepository) GetByID(id int64) (*models.Film, error) {
	var film models.Film
	film.Mpa = &models.Mpa{}
	err := r.db.QueryRow(filmSelect+` WHERE f.id = $1`, id).Scan(
		&film.ID, &film.Name, &film.Description, &film.ReleaseDate,
		&film.Duration, &film.Mpa.ID, &film.Mpa.Name,
	)
	if err != nil {
		return nil, err
	}

	films := []models.Film{film}
	if err := r.loadAssociations(films); err != nil {
		return nil, err
	}
	return &films[0], nil
}

// GetByIDs returns the films with the given ids, ordered by id.
func (r *FilmRepository) GetByIDs(ids []int64) ([]models.Film, error) {
	if len(ids) == 0 {
		return []models.Film{}, nil
	}
	return r.queryFilms(filmSelect+` WHERE f.id = ANY($1) ORDER BY f.id`, pq.Array(ids))
}

// GetAll returns every film.
func (r *FilmRepository) GetAll() ([]models.Film, error) {
	return r.queryFilms(filmSelect + ` ORDER BY f.id`)
}

// Delete removes a film; genre links, likes and reviews cascade.
func (r *FilmRepository) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM films WHERE id = $1`, id)
	return err
}

// AddLike records a like; repeating it is a no-op.
func (r *FilmRepository) AddLike(filmID, userID int64) error {
	_, err := r.db.Exec(`
		INSERT INTO film_likes (film_id, user_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, filmID, userID)
	return err
}

// RemoveLike deletes a like; removing an absent like is a no-op.
func (r *FilmRepository) RemoveLike(filmID, userID int64) error {
	_, err := r.db.Exec(`
		DELETE FROM film_likes WHERE film_id = $1 AND user_id = $2
	`, filmID, userID)
	return err
}

// GetPopular returns films ordered by like count descending, filtered
// by genre and release year when set.
func (r *FilmRepository) GetPopular(params models.PopularParams) ([]models.Film, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if params.GenreID != 0 {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM film_genres fg WHERE fg.film_id = f.id AND fg.genre_id = $%d)", argIdx))
		args = append(args, params.GenreID)
		argIdx++
	}
	if params.Year != 0 {
		conditions = append(conditions, fmt.Sprintf(
			"EXTRACT(YEAR FROM f.release_date) = $%d", argIdx))
		args = append(args, params.Year)
		argIdx++
	}

	query := fmt.Sprintf(`%s
		LEFT JOIN film_likes fl ON fl.film_id = f.id
		WHERE %s
		GROUP BY f.id, f.name, f.description, f.release_date, f.duration, f.mpa_rating_id, m.name
		ORDER BY COUNT(fl.user_id) DESC, f.id
		LIMIT $%d`, filmSelect, strings.Join(conditions, " AND "), argIdx)
	args = append(args, params.Count)

	return r.queryFilms(query, args...)
}

// GetByDirector returns a director's films sorted by like count or by
// release year.
func (r *FilmRepository) GetByDirector(directorID int64, sortBy string) ([]models.Film, error) {
	order := `ORDER BY (SELECT COUNT(*) FROM film_likes fl WHERE fl.film_id = f.id) DESC, f.id`
	if sortBy == models.SortByYear {
		order = `ORDER BY f.release_date, f.id`
	}

	query := filmSelect + `
		INNER JOIN film_directors fd ON fd.film_id = f.id
		WHERE fd.director_id = $1 ` + order
	return r.queryFilms(query, directorID)
}

// Search returns films whose title or director name contains the query,
// case-insensitively, ordered by like count descending.
func (r *FilmRepository) Search(params models.SearchParams) ([]models.Film, error) {
	pattern := "%" + strings.ToLower(params.Query) + "%"

	conditions := make([]string, 0, 2)
	if params.ByTitle {
		conditions = append(conditions, "LOWER(f.name) LIKE $1")
	}
	if params.ByDirector {
		conditions = append(conditions, `EXISTS (
			SELECT 1 FROM film_directors fd
			JOIN directors d ON d.id = fd.director_id
			WHERE fd.film_id = f.id AND LOWER(d.name) LIKE $1)`)
	}

	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY (SELECT COUNT(*) FROM film_likes fl WHERE fl.film_id = f.id) DESC, f.id DESC`,
		filmSelect, strings.Join(conditions, " OR "))
	return r.queryFilms(query, pattern)
}

// GetCommon returns films liked by both users, most liked first.
func (r *FilmRepository) GetCommon(userID, friendID int64) ([]models.Film, error) {
	query := filmSelect + `
		INNER JOIN film_likes l1 ON l1.film_id = f.id AND l1.user_id = $1
		INNER JOIN film_likes l2 ON l2.film_id = f.id AND l2.user_id = $2
		ORDER BY (SELECT COUNT(*) FROM film_likes fl WHERE fl.film_id = f.id) DESC, f.id`
	return r.queryFilms(query, userID, friendID)
}

// LikesByUser returns every user's liked film ids.
func (r *FilmRepository) LikesByUser() (map[int64][]int64, error) {
	rows, err := r.db.Query(`SELECT user_id, film_id FROM film_likes`)
	if err != nil {
		return nil, fmt.Errorf("failed to query likes: %w", err)
	}
	defer rows.Close()

	likes := make(map[int64][]int64)
	for rows.Next() {
		var userID, filmID int64
		if err := rows.Scan(&userID, &filmID); err != nil {
			continue
		}
		likes[userID] = append(likes[userID], filmID)
	}
	return likes, rows.Err()
}

func (r *FilmRepository) queryFilms(query string, args ...interface{}) ([]models.Film, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query films: %w", err)
	}
	defer rows.Close()

	films := make([]models.Film, 0)
	for rows.Next() {
		var film models.Film
		film.Mpa = &models.Mpa{}
		if err := rows.Scan(&film.ID, &film.Name, &film.Description, &film.ReleaseDate,
			&film.Duration, &film.Mpa.ID, &film.Mpa.Name); err != nil {
			continue
		}
		films = append(films, film)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadAssociations(films); err != nil {
		return nil, err
	}
	return films, nil
}

// loadAssociations attaches genres, directors and likes to the given
// films with one bulk query per association.
func (r *FilmRepository) loadAssociations(films []models.Film) error {
	if len(films) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(films))
	index := make(map[int64]*models.Film, len(films))
	for i := range films {
		films[i].Genres = []models.Genre{}
		films[i].Directors = []models.Director{}
		films[i].Likes = []int64{}
		ids = append(ids, films[i].ID)
		index[films[i].ID] = &films[i]
	}

	rows, err := r.db.Query(`
		SELECT fg.film_id, g.id, g.name
		FROM film_genres fg
		JOIN genres g ON g.id = fg.genre_id
		WHERE fg.film_id = ANY($1)
		ORDER BY fg.film_id, g.id
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query film genres: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var filmID int64
		var genre models.Genre
		if err := rows.Scan(&filmID, &genre.ID, &genre.Name); err != nil {
			continue
		}
		index[filmID].Genres = append(index[filmID].Genres, genre)
	}

	directorRows, err := r.db.Query(`
		SELECT fd.film_id, d.id, d.name
		FROM film_directors fd
		JOIN directors d ON d.id = fd.director_id
		WHERE fd.film_id = ANY($1)
		ORDER BY fd.film_id, d.name
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query film directors: %w", err)
	}
	defer directorRows.Close()
	for directorRows.Next() {
		var filmID int64
		var director models.Director
		if err := directorRows.Scan(&filmID, &director.ID, &director.Name); err != nil {
			continue
		}
		index[filmID].Directors = append(index[filmID].Directors, director)
	}

	likeRows, err := r.db.Query(`
		SELECT film_id, user_id FROM film_likes
		WHERE film_id = ANY($1)
		ORDER BY film_id, user_id
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query film likes: %w", err)
	}
	defer likeRows.Close()
	for likeRows.Next() {
		var filmID, userID int64
		if err := likeRows.Scan(&filmID, &userID); err != nil {
			continue
		}
		index[filmID].Likes = append(index[filmID].Likes, userID)
	}

	return nil
}

func replaceFilmLinks(tx *sql.Tx, filmID int64, film *models.Film) error {
	seenGenres := make(map[int64]bool)
	for _, g := range film.Genres {
		if seenGenres[g.ID] {
			continue
		}
		seenGenres[g.ID] = true
		if _, err := tx.Exec(`
			INSERT INTO film_genres (film_id, genre_id) VALUES ($1, $2)
		`, filmID, g.ID); err != nil {
			return fmt.Errorf("failed to link film genre: %w", err)
		}
	}

	seenDirectors := make(map[int64]bool)
	for _, d := range film.Directors {
		if seenDirectors[d.ID] {
			continue
		}
		seenDirectors[d.ID] = true
		if _, err := tx.Exec(`
			INSERT INTO film_directors (film_id, director_id) VALUES ($1, $2)
		`, filmID, d.ID); err != nil {
			return fmt.Errorf("failed to link film director: %w", err)
		}
	}
	return nil
}
