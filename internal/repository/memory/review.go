package memory

import (
	"database/sql"
	"sort"
	"sync"

	"filmorate-api/internal/models"
)

// ReviewRepository is an in-memory repository.ReviewRepository.
type ReviewRepository struct {
	mu      sync.Mutex
	reviews map[int64]models.Review
	// votes maps review id -> user id -> vote kind (true = like).
	votes  map[int64]map[int64]bool
	nextID int64
}

// NewReviewRepository creates an empty in-memory review repository.
func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{
		reviews: make(map[int64]models.Review),
		votes:   make(map[int64]map[int64]bool),
	}
}

// Create inserts a review with a zero useful score.
func (r *ReviewRepository) Create(review *models.Review) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	review.ReviewID = r.nextID
	review.Useful = 0
	r.reviews[review.ReviewID] = copyReview(*review)
	out := copyReview(*review)
	return &out, nil
}

// Update rewrites a review's content and polarity.
func (r *ReviewRepository) Update(review *models.Review) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.reviews[review.ReviewID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	stored.Content = review.Content
	stored.IsPositive = copyBool(review.IsPositive)
	r.reviews[review.ReviewID] = stored

	out := copyReview(stored)
	return &out, nil
}

// GetByID returns a review by id.
func (r *ReviewRepository) GetByID(id int64) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	review, ok := r.reviews[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := copyReview(review)
	return &out, nil
}

// GetAll returns reviews ordered by useful descending, newest first on
// ties. filmID zero means reviews for all films.
func (r *ReviewRepository) GetAll(filmID int64, count int) ([]models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reviews := make([]models.Review, 0, len(r.reviews))
	for _, review := range r.reviews {
		if filmID != 0 && review.FilmID != filmID {
			continue
		}
		reviews = append(reviews, copyReview(review))
	}
	sort.Slice(reviews, func(i, j int) bool {
		if reviews[i].Useful != reviews[j].Useful {
			return reviews[i].Useful > reviews[j].Useful
		}
		return reviews[i].ReviewID > reviews[j].ReviewID
	})
	if len(reviews) > count {
		reviews = reviews[:count]
	}
	return reviews, nil
}

// Delete removes a review and its votes.
func (r *ReviewRepository) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.reviews, id)
	delete(r.votes, id)
	return nil
}

// SetVote records a like or dislike vote, replacing the user's
// opposite vote if present.
func (r *ReviewRepository) SetVote(reviewID, userID int64, isLike bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.votes[reviewID] == nil {
		r.votes[reviewID] = make(map[int64]bool)
	}
	r.votes[reviewID][userID] = isLike
	r.recomputeUseful(reviewID)
	return nil
}

// RemoveVote deletes the user's vote only if it has the given kind.
func (r *ReviewRepository) RemoveVote(reviewID, userID int64, isLike bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.votes[reviewID][userID]
	if !ok || current != isLike {
		return nil
	}
	delete(r.votes[reviewID], userID)
	r.recomputeUseful(reviewID)
	return nil
}

// recomputeUseful keeps useful equal to likes minus dislikes. Callers
// must hold the lock.
func (r *ReviewRepository) recomputeUseful(reviewID int64) {
	review, ok := r.reviews[reviewID]
	if !ok {
		return
	}
	useful := 0
	for _, isLike := range r.votes[reviewID] {
		if isLike {
			useful++
		} else {
			useful--
		}
	}
	review.Useful = useful
	r.reviews[reviewID] = review
}

func copyReview(review models.Review) models.Review {
	review.IsPositive = copyBool(review.IsPositive)
	return review
}

func copyBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
