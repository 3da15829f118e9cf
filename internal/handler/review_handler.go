package handler

import (
	"github.com/gofiber/fiber/v3"

	"filmorate-api/internal/models"
	"filmorate-api/internal/service"
)

// ReviewHandler handles HTTP requests for reviews and their votes.
type ReviewHandler struct {
	svc *service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(svc *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// CreateReview creates a new review.
func (h *ReviewHandler) CreateReview(c fiber.Ctx) error {
	var review models.Review
	if err := c.Bind().JSON(&review); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	created, err := h.svc.CreateReview(&review)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateReview updates a review's content and polarity.
func (h *ReviewHandler) UpdateReview(c fiber.Ctx) error {
	var review models.Review
	if err := c.Bind().JSON(&review); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	updated, err := h.svc.UpdateReview(&review)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

// GetReview returns a single review.
func (h *ReviewHandler) GetReview(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	review, err := h.svc.GetReview(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(review)
}

// GetReviews returns reviews ordered by usefulness.
func (h *ReviewHandler) GetReviews(c fiber.Ctx) error {
	filmID := fiber.Query[int64](c, "filmId", 0)
	count := fiber.Query(c, "count", 10)

	reviews, err := h.svc.GetReviews(filmID, count)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reviews)
}

// DeleteReview removes a review.
func (h *ReviewHandler) DeleteReview(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.DeleteReview(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikeReview records a like vote on a review.
func (h *ReviewHandler) LikeReview(c fiber.Ctx) error {
	return h.applyVote(c, h.svc.LikeReview)
}

// DislikeReview records a dislike vote on a review.
func (h *ReviewHandler) DislikeReview(c fiber.Ctx) error {
	return h.applyVote(c, h.svc.DislikeReview)
}

// RemoveReviewLike deletes a like vote from a review.
func (h *ReviewHandler) RemoveReviewLike(c fiber.Ctx) error {
	return h.applyVote(c, h.svc.RemoveReviewLike)
}

// RemoveReviewDislike deletes a dislike vote from a review.
func (h *ReviewHandler) RemoveReviewDislike(c fiber.Ctx) error {
	return h.applyVote(c, h.svc.RemoveReviewDislike)
}

func (h *ReviewHandler) applyVote(c fiber.Ctx, vote func(reviewID, userID int64) error) error {
	reviewID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	userID, err := parseID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	if err := vote(reviewID, userID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}
