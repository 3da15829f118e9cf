// Package repository defines the storage contracts for the service.
// Two implementations exist: postgres (the production store) and
// memory (used by tests). Implementations surface store errors
// unchanged; a missing row is reported as sql.ErrNoRows and translated
// into a not-found error by the service layer.
package repository

import "filmorate-api/internal/models"

// UserRepository persists users and their directed friendships.
type UserRepository interface {
	Create(user *models.User) (*models.User, error)
	Update(user *models.User) (*models.User, error)
	GetByID(id int64) (*models.User, error)
	GetAll() ([]models.User, error)
	Delete(id int64) error

	// AddFriend records the directed edge userID -> friendID; adding an
	// existing edge is a no-op.
	AddFriend(userID, friendID int64) error
	// RemoveFriend deletes the edge and reports whether it existed.
	RemoveFriend(userID, friendID int64) (bool, error)
	GetFriends(userID int64) ([]models.User, error)
	GetCommonFriends(userID, otherID int64) ([]models.User, error)
}

// FilmRepository persists films with their genre, director and like
// associations.
type FilmRepository interface {
	Create(film *models.Film) (*models.Film, error)
	Update(film *models.Film) (*models.Film, error)
	GetByID(id int64) (*models.Film, error)
	GetByIDs(ids []int64) ([]models.Film, error)
	GetAll() ([]models.Film, error)
	Delete(id int64) error

	// AddLike and RemoveLike are idempotent.
	AddLike(filmID, userID int64) error
	RemoveLike(filmID, userID int64) error

	GetPopular(params models.PopularParams) ([]models.Film, error)
	GetByDirector(directorID int64, sortBy string) ([]models.Film, error)
	Search(params models.SearchParams) ([]models.Film, error)
	GetCommon(userID, friendID int64) ([]models.Film, error)

	// LikesByUser returns every user's set of liked film ids, the input
	// to the similarity pass of the recommendation lookup.
	LikesByUser() (map[int64][]int64, error)
}

// GenreRepository reads the seeded genre catalog.
type GenreRepository interface {
	GetAll() ([]models.Genre, error)
	GetByID(id int64) (*models.Genre, error)
}

// MpaRepository reads the seeded MPA rating catalog.
type MpaRepository interface {
	GetAll() ([]models.Mpa, error)
	GetByID(id int64) (*models.Mpa, error)
}

// DirectorRepository persists directors.
type DirectorRepository interface {
	Create(director *models.Director) (*models.Director, error)
	Update(director *models.Director) (*models.Director, error)
	GetByID(id int64) (*models.Director, error)
	GetAll() ([]models.Director, error)
	Delete(id int64) error
}

// ReviewRepository persists reviews and their like/dislike votes.
// Vote writes keep the review's useful counter equal to the number of
// like votes minus the number of dislike votes.
type ReviewRepository interface {
	Create(review *models.Review) (*models.Review, error)
	Update(review *models.Review) (*models.Review, error)
	GetByID(id int64) (*models.Review, error)
	// GetAll returns reviews ordered by useful descending. filmID zero
	// means all films.
	GetAll(filmID int64, count int) ([]models.Review, error)
	Delete(id int64) error

	// SetVote records a like (isLike true) or dislike vote, replacing
	// the user's opposite vote if present. Repeating the same vote is a
	// no-op.
	SetVote(reviewID, userID int64, isLike bool) error
	// RemoveVote deletes the user's vote only if it has the given kind.
	RemoveVote(reviewID, userID int64, isLike bool) error
}

// EventRepository is the append-only activity log.
type EventRepository interface {
	Add(userID int64, eventType, operation string, entityID int64) error
	// GetFeed returns the user's events ordered by timestamp ascending.
	GetFeed(userID int64) ([]models.Event, error)
}
