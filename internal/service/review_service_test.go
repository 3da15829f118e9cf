package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmorate-api/internal/models"
	"filmorate-api/internal/repository/memory"
)

type reviewFixture struct {
	reviews *ReviewService
	users   *UserService
	films   *FilmService

	userID int64
	filmID int64
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()

	userRepo := memory.NewUserRepository()
	directorRepo := memory.NewDirectorRepository()
	filmRepo := memory.NewFilmRepository(directorRepo)
	eventRepo := memory.NewEventRepository()

	f := &reviewFixture{
		reviews: NewReviewService(memory.NewReviewRepository(), userRepo, filmRepo, eventRepo),
		users:   NewUserService(userRepo, eventRepo),
		films: NewFilmService(
			filmRepo,
			userRepo,
			memory.NewGenreRepository(),
			memory.NewMpaRepository(),
			directorRepo,
			eventRepo,
			nil,
		),
	}

	user, err := f.users.CreateUser(&models.User{
		Email:    "author@example.com",
		Login:    "author",
		Birthday: "1990-05-01",
	})
	require.NoError(t, err)
	f.userID = user.ID

	film, err := f.films.CreateFilm(&models.Film{
		Name:        "Reviewed",
		ReleaseDate: "2000-01-01",
		Duration:    100,
	})
	require.NoError(t, err)
	f.filmID = film.ID
	return f
}

func (f *reviewFixture) addVoter(t *testing.T, login string) int64 {
	t.Helper()
	user, err := f.users.CreateUser(&models.User{
		Email:    login + "@example.com",
		Login:    login,
		Birthday: "1990-05-01",
	})
	require.NoError(t, err)
	return user.ID
}

func (f *reviewFixture) addReview(t *testing.T, positive bool) *models.Review {
	t.Helper()
	review, err := f.reviews.CreateReview(&models.Review{
		Content:    "worth watching",
		IsPositive: &positive,
		UserID:     f.userID,
		FilmID:     f.filmID,
	})
	require.NoError(t, err)
	return review
}

func (f *reviewFixture) useful(t *testing.T, reviewID int64) int {
	t.Helper()
	review, err := f.reviews.GetReview(reviewID)
	require.NoError(t, err)
	return review.Useful
}

func TestCreateReviewValidation(t *testing.T) {
	f := newReviewFixture(t)
	positive := true

	_, err := f.reviews.CreateReview(&models.Review{
		IsPositive: &positive, UserID: f.userID, FilmID: f.filmID,
	})
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = f.reviews.CreateReview(&models.Review{
		Content: "x", UserID: f.userID, FilmID: f.filmID,
	})
	assert.ErrorAs(t, err, &verr)

	var nferr *models.NotFoundError
	_, err = f.reviews.CreateReview(&models.Review{
		Content: "x", IsPositive: &positive, UserID: 999, FilmID: f.filmID,
	})
	assert.ErrorAs(t, err, &nferr)

	_, err = f.reviews.CreateReview(&models.Review{
		Content: "x", IsPositive: &positive, UserID: f.userID, FilmID: 999,
	})
	assert.ErrorAs(t, err, &nferr)
}

func TestReviewStartsWithZeroUseful(t *testing.T) {
	f := newReviewFixture(t)
	review := f.addReview(t, true)
	assert.Equal(t, 0, review.Useful)
}

func TestReviewVoteTransitions(t *testing.T) {
	f := newReviewFixture(t)
	review := f.addReview(t, true)
	voter := f.addVoter(t, "voter")

	// Like adds one.
	require.NoError(t, f.reviews.LikeReview(review.ReviewID, voter))
	assert.Equal(t, 1, f.useful(t, review.ReviewID))

	// Repeating the like changes nothing.
	require.NoError(t, f.reviews.LikeReview(review.ReviewID, voter))
	assert.Equal(t, 1, f.useful(t, review.ReviewID))

	// Dislike replaces the like.
	require.NoError(t, f.reviews.DislikeReview(review.ReviewID, voter))
	assert.Equal(t, -1, f.useful(t, review.ReviewID))

	// Removing a like when the vote is a dislike is a no-op.
	require.NoError(t, f.reviews.RemoveReviewLike(review.ReviewID, voter))
	assert.Equal(t, -1, f.useful(t, review.ReviewID))

	// Removing the dislike clears the score.
	require.NoError(t, f.reviews.RemoveReviewDislike(review.ReviewID, voter))
	assert.Equal(t, 0, f.useful(t, review.ReviewID))

	// Removing again is a no-op.
	require.NoError(t, f.reviews.RemoveReviewDislike(review.ReviewID, voter))
	assert.Equal(t, 0, f.useful(t, review.ReviewID))
}

func TestReviewVotesFromSeveralUsers(t *testing.T) {
	f := newReviewFixture(t)
	review := f.addReview(t, true)
	fan := f.addVoter(t, "fan")
	hater := f.addVoter(t, "hater")
	another := f.addVoter(t, "another")

	require.NoError(t, f.reviews.LikeReview(review.ReviewID, fan))
	require.NoError(t, f.reviews.LikeReview(review.ReviewID, another))
	require.NoError(t, f.reviews.DislikeReview(review.ReviewID, hater))

	assert.Equal(t, 1, f.useful(t, review.ReviewID))
}

func TestReviewVoteUnknownReviewOrUser(t *testing.T) {
	f := newReviewFixture(t)
	review := f.addReview(t, true)

	var nferr *models.NotFoundError
	assert.ErrorAs(t, f.reviews.LikeReview(999, f.userID), &nferr)
	assert.ErrorAs(t, f.reviews.LikeReview(review.ReviewID, 999), &nferr)
}

func TestGetReviewsOrderedByUseful(t *testing.T) {
	f := newReviewFixture(t)
	first := f.addReview(t, true)
	second := f.addReview(t, false)
	voter := f.addVoter(t, "voter")

	require.NoError(t, f.reviews.LikeReview(second.ReviewID, voter))

	reviews, err := f.reviews.GetReviews(f.filmID, 10)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, second.ReviewID, reviews[0].ReviewID)
	assert.Equal(t, first.ReviewID, reviews[1].ReviewID)

	// Zero count falls back to the default of ten.
	reviews, err = f.reviews.GetReviews(0, 0)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestUpdateReviewKeepsAuthorAndFilm(t *testing.T) {
	f := newReviewFixture(t)
	review := f.addReview(t, true)

	negative := false
	updated, err := f.reviews.UpdateReview(&models.Review{
		ReviewID:   review.ReviewID,
		Content:    "changed my mind",
		IsPositive: &negative,
		UserID:     999,
		FilmID:     999,
	})
	require.NoError(t, err)
	assert.Equal(t, "changed my mind", updated.Content)
	assert.False(t, *updated.IsPositive)
	assert.Equal(t, f.userID, updated.UserID)
	assert.Equal(t, f.filmID, updated.FilmID)
}

func TestReviewLifecycleFeedEvents(t *testing.T) {
	f := newReviewFixture(t)
	review := f.addReview(t, true)
	voter := f.addVoter(t, "voter")

	positive := true
	_, err := f.reviews.UpdateReview(&models.Review{
		ReviewID:   review.ReviewID,
		Content:    "still good",
		IsPositive: &positive,
	})
	require.NoError(t, err)

	// Votes do not show up in anyone's feed.
	require.NoError(t, f.reviews.LikeReview(review.ReviewID, voter))

	require.NoError(t, f.reviews.DeleteReview(review.ReviewID))

	feed, err := f.users.GetFeed(f.userID)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	for _, event := range feed {
		assert.Equal(t, models.EventTypeReview, event.EventType)
		assert.Equal(t, review.ReviewID, event.EntityID)
	}
	assert.Equal(t, models.OperationAdd, feed[0].Operation)
	assert.Equal(t, models.OperationUpdate, feed[1].Operation)
	assert.Equal(t, models.OperationRemove, feed[2].Operation)

	voterFeed, err := f.users.GetFeed(voter)
	require.NoError(t, err)
	assert.Empty(t, voterFeed)
}

func TestDeleteReviewNotFound(t *testing.T) {
	f := newReviewFixture(t)

	var nferr *models.NotFoundError
	assert.ErrorAs(t, f.reviews.DeleteReview(123), &nferr)
}
