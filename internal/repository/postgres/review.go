package postgres

import (
	"database/sql"
	"fmt"

	"filmorate-api/internal/models"
)

// ReviewRepository handles database operations for reviews and their
// like/dislike votes.
type ReviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new ReviewRepository.
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review with a zero useful score.
func (r *ReviewRepository) Create(review *models.Review) (*models.Review, error) {
	err := r.db.QueryRow(`
		INSERT INTO reviews (content, is_positive, user_id, film_id, useful)
		VALUES ($1, $2, $3, $4, 0)
		RETURNING id
	`, review.Content, *review.IsPositive, review.UserID, review.FilmID).Scan(&review.ReviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	review.Useful = 0
	return review, nil
}

// Update rewrites a review's content and polarity; author, film and
// useful score are not touched.
func (r *ReviewRepository) Update(review *models.Review) (*models.Review, error) {
	res, err := r.db.Exec(`
		UPDATE reviews SET content = $1, is_positive = $2 WHERE id = $3
	`, review.Content, *review.IsPositive, review.ReviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, sql.ErrNoRows
	}
	return r.GetByID(review.ReviewID)
}

// GetByID returns a review by id.
func (r *ReviewRepository) GetByID(id int64) (*models.Review, error) {
	var review models.Review
	review.IsPositive = new(bool)
	err := r.db.QueryRow(`
		SELECT id, content, is_positive, user_id, film_id, useful
		FROM reviews WHERE id = $1
	`, id).Scan(&review.ReviewID, &review.Content, review.IsPositive,
		&review.UserID, &review.FilmID, &review.Useful)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// GetAll returns reviews ordered by useful descending. filmID zero
// means reviews for all films.
func (r *ReviewRepository) GetAll(filmID int64, count int) ([]models.Review, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if filmID == 0 {
		rows, err = r.db.Query(`
			SELECT id, content, is_positive, user_id, film_id, useful
			FROM reviews ORDER BY useful DESC, id DESC LIMIT $1
		`, count)
	} else {
		rows, err = r.db.Query(`
			SELECT id, content, is_positive, user_id, film_id, useful
			FROM reviews WHERE film_id = $1 ORDER BY useful DESC, id DESC LIMIT $2
		`, filmID, count)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]models.Review, 0)
	for rows.Next() {
		var review models.Review
		review.IsPositive = new(bool)
		if err := rows.Scan(&review.ReviewID, &review.Content, review.IsPositive,
			&review.UserID, &review.FilmID, &review.Useful); err != nil {
			continue
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

// Delete removes a review; its votes cascade.
func (r *ReviewRepository) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM reviews WHERE id = $1`, id)
	return err
}

// SetVote records a like or dislike vote. A repeated vote of the same
// kind is a no-op; an opposite vote is replaced. The useful score is
// recomputed from the vote counts inside the same transaction, so it
// always equals likes minus dislikes.
func (r *ReviewRepository) SetVote(reviewID, userID int64, isLike bool) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO review_likes (review_id, user_id, is_like)
		VALUES ($1, $2, $3)
		ON CONFLICT (review_id, user_id) DO UPDATE SET is_like = EXCLUDED.is_like
	`, reviewID, userID, isLike); err != nil {
		return fmt.Errorf("failed to set review vote: %w", err)
	}

	if err := recomputeUseful(tx, reviewID); err != nil {
		return err
	}
	return tx.Commit()
}

// RemoveVote deletes the user's vote only if it has the given kind.
func (r *ReviewRepository) RemoveVote(reviewID, userID int64, isLike bool) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		DELETE FROM review_likes
		WHERE review_id = $1 AND user_id = $2 AND is_like = $3
	`, reviewID, userID, isLike); err != nil {
		return fmt.Errorf("failed to remove review vote: %w", err)
	}

	if err := recomputeUseful(tx, reviewID); err != nil {
		return err
	}
	return tx.Commit()
}

func recomputeUseful(tx *sql.Tx, reviewID int64) error {
	_, err := tx.Exec(`
		UPDATE reviews SET useful = (
			SELECT COALESCE(SUM(CASE WHEN is_like THEN 1 ELSE -1 END), 0)
			FROM review_likes WHERE review_id = $1
		)
		WHERE id = $1
	`, reviewID)
	if err != nil {
		return fmt.Errorf("failed to recompute useful score: %w", err)
	}
	return nil
}
