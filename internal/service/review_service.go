package service

import (
	"database/sql"
	"errors"
	"fmt"

	"filmorate-api/internal/models"
	"filmorate-api/internal/repository"
)

const defaultReviewCount = 10

// ReviewService handles business logic for reviews and their
// like/dislike votes.
type ReviewService struct {
	reviews repository.ReviewRepository
	users   repository.UserRepository
	films   repository.FilmRepository
	events  repository.EventRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	reviews repository.ReviewRepository,
	users repository.UserRepository,
	films repository.FilmRepository,
	events repository.EventRepository,
) *ReviewService {
	return &ReviewService{reviews: reviews, users: users, films: films, events: events}
}

// CreateReview validates and stores a review, logging a REVIEW/ADD
// event for its author.
func (s *ReviewService) CreateReview(review *models.Review) (*models.Review, error) {
	if review.Content == "" {
		return nil, models.NewValidationError("review content must not be empty")
	}
	if review.IsPositive == nil {
		return nil, models.NewValidationError("review isPositive flag is required")
	}
	if err := s.checkUserExists(review.UserID); err != nil {
		return nil, err
	}
	if err := s.checkFilmExists(review.FilmID); err != nil {
		return nil, err
	}

	created, err := s.reviews.Create(review)
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	if err := s.events.Add(created.UserID, models.EventTypeReview, models.OperationAdd, created.ReviewID); err != nil {
		return nil, fmt.Errorf("failed to log review event: %w", err)
	}
	return created, nil
}

// UpdateReview rewrites a review's content and polarity, logging a
// REVIEW/UPDATE event for the review's author.
func (s *ReviewService) UpdateReview(review *models.Review) (*models.Review, error) {
	existing, err := s.getReview(review.ReviewID)
	if err != nil {
		return nil, err
	}
	if review.Content == "" {
		return nil, models.NewValidationError("review content must not be empty")
	}
	if review.IsPositive == nil {
		return nil, models.NewValidationError("review isPositive flag is required")
	}

	updated, err := s.reviews.Update(review)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("review with id %d not found", review.ReviewID)
		}
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	if err := s.events.Add(existing.UserID, models.EventTypeReview, models.OperationUpdate, existing.ReviewID); err != nil {
		return nil, fmt.Errorf("failed to log review event: %w", err)
	}
	return updated, nil
}

// DeleteReview removes a review, logging a REVIEW/REMOVE event for the
// review's author.
func (s *ReviewService) DeleteReview(id int64) error {
	existing, err := s.getReview(id)
	if err != nil {
		return err
	}
	if err := s.reviews.Delete(id); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if err := s.events.Add(existing.UserID, models.EventTypeReview, models.OperationRemove, existing.ReviewID); err != nil {
		return fmt.Errorf("failed to log review event: %w", err)
	}
	return nil
}

// GetReview returns a review by id.
func (s *ReviewService) GetReview(id int64) (*models.Review, error) {
	return s.getReview(id)
}

// GetReviews returns reviews ordered by useful descending, for one
// film when filmID is non-zero.
func (s *ReviewService) GetReviews(filmID int64, count int) ([]models.Review, error) {
	if count <= 0 {
		count = defaultReviewCount
	}
	return s.reviews.GetAll(filmID, count)
}

// LikeReview records a like vote from the user.
func (s *ReviewService) LikeReview(reviewID, userID int64) error {
	return s.vote(reviewID, userID, func() error {
		return s.reviews.SetVote(reviewID, userID, true)
	})
}

// DislikeReview records a dislike vote from the user, replacing a like
// if present.
func (s *ReviewService) DislikeReview(reviewID, userID int64) error {
	return s.vote(reviewID, userID, func() error {
		return s.reviews.SetVote(reviewID, userID, false)
	})
}

// RemoveReviewLike deletes the user's like vote if present.
func (s *ReviewService) RemoveReviewLike(reviewID, userID int64) error {
	return s.vote(reviewID, userID, func() error {
		return s.reviews.RemoveVote(reviewID, userID, true)
	})
}

// RemoveReviewDislike deletes the user's dislike vote if present.
func (s *ReviewService) RemoveReviewDislike(reviewID, userID int64) error {
	return s.vote(reviewID, userID, func() error {
		return s.reviews.RemoveVote(reviewID, userID, false)
	})
}

func (s *ReviewService) vote(reviewID, userID int64, apply func() error) error {
	if _, err := s.getReview(reviewID); err != nil {
		return err
	}
	if err := s.checkUserExists(userID); err != nil {
		return err
	}
	if err := apply(); err != nil {
		return fmt.Errorf("failed to apply review vote: %w", err)
	}
	return nil
}

func (s *ReviewService) getReview(id int64) (*models.Review, error) {
	review, err := s.reviews.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("review with id %d not found", id)
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return review, nil
}

func (s *ReviewService) checkUserExists(id int64) error {
	if _, err := s.users.GetByID(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.NewNotFoundError("user with id %d not found", id)
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	return nil
}

func (s *ReviewService) checkFilmExists(id int64) error {
	if _, err := s.films.GetByID(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.NewNotFoundError("film with id %d not found", id)
		}
		return fmt.Errorf("failed to get film: %w", err)
	}
	return nil
}
