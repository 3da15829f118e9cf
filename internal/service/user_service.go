package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"filmorate-api/internal/models"
	"filmorate-api/internal/repository"
)

// UserService handles business logic for users, friendships and the
// activity feed.
type UserService struct {
	users  repository.UserRepository
	events repository.EventRepository
}

// NewUserService creates a new UserService.
func NewUserService(users repository.UserRepository, events repository.EventRepository) *UserService {
	return &UserService{users: users, events: events}
}

// CreateUser validates and stores a new user.
func (s *UserService) CreateUser(user *models.User) (*models.User, error) {
	if err := validateUser(user); err != nil {
		return nil, err
	}
	created, err := s.users.Create(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// UpdateUser validates and rewrites an existing user.
func (s *UserService) UpdateUser(user *models.User) (*models.User, error) {
	if _, err := s.getUser(user.ID); err != nil {
		return nil, err
	}
	if err := validateUser(user); err != nil {
		return nil, err
	}
	updated, err := s.users.Update(user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("user with id %d not found", user.ID)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return updated, nil
}

// GetUser returns a user by id.
func (s *UserService) GetUser(id int64) (*models.User, error) {
	return s.getUser(id)
}

// GetAllUsers returns every user.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	return s.users.GetAll()
}

// DeleteUser removes a user; their likes, friendships, reviews and
// votes go with them.
func (s *UserService) DeleteUser(id int64) error {
	if _, err := s.getUser(id); err != nil {
		return err
	}
	if err := s.users.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// AddFriend records the directed friendship userID -> friendID and
// logs a FRIEND/ADD event. Re-adding is a no-op for the edge but still
// logged.
func (s *UserService) AddFriend(userID, friendID int64) error {
	if _, err := s.getUser(userID); err != nil {
		return err
	}
	if _, err := s.getUser(friendID); err != nil {
		return err
	}
	if err := s.users.AddFriend(userID, friendID); err != nil {
		return fmt.Errorf("failed to add friend: %w", err)
	}
	if err := s.events.Add(userID, models.EventTypeFriend, models.OperationAdd, friendID); err != nil {
		return fmt.Errorf("failed to log friend event: %w", err)
	}
	return nil
}

// RemoveFriend deletes the directed friendship edge. A FRIEND/REMOVE
// event is logged only when an edge was actually removed.
func (s *UserService) RemoveFriend(userID, friendID int64) error {
	if _, err := s.getUser(userID); err != nil {
		return err
	}
	if _, err := s.getUser(friendID); err != nil {
		return err
	}
	removed, err := s.users.RemoveFriend(userID, friendID)
	if err != nil {
		return fmt.Errorf("failed to remove friend: %w", err)
	}
	if removed {
		if err := s.events.Add(userID, models.EventTypeFriend, models.OperationRemove, friendID); err != nil {
			return fmt.Errorf("failed to log friend event: %w", err)
		}
	}
	return nil
}

// GetFriends returns the users this user has added as friends.
func (s *UserService) GetFriends(userID int64) ([]models.User, error) {
	if _, err := s.getUser(userID); err != nil {
		return nil, err
	}
	return s.users.GetFriends(userID)
}

// GetCommonFriends returns users befriended by both userID and otherID.
func (s *UserService) GetCommonFriends(userID, otherID int64) ([]models.User, error) {
	if _, err := s.getUser(userID); err != nil {
		return nil, err
	}
	if _, err := s.getUser(otherID); err != nil {
		return nil, err
	}
	return s.users.GetCommonFriends(userID, otherID)
}

// GetFeed returns the user's activity events, oldest first.
func (s *UserService) GetFeed(userID int64) ([]models.Event, error) {
	if _, err := s.getUser(userID); err != nil {
		return nil, err
	}
	return s.events.GetFeed(userID)
}

// validateUser applies the user validation rules; a blank display name
// defaults to the login.
func validateUser(user *models.User) error {
	if user.Login == "" {
		return models.NewValidationError("login must not be empty")
	}
	if strings.ContainsFunc(user.Login, unicode.IsSpace) {
		return models.NewValidationError("login must not contain whitespace")
	}
	if user.Email == "" || !strings.Contains(user.Email, "@") {
		return models.NewValidationError("email must not be empty and must contain '@'")
	}
	if user.Birthday == "" {
		return models.NewValidationError("birthday must not be empty")
	}
	birthday, err := time.Parse("2006-01-02", user.Birthday)
	if err != nil {
		return models.NewValidationError("birthday must be in YYYY-MM-DD format")
	}
	if birthday.After(time.Now()) {
		return models.NewValidationError("birthday must not be in the future")
	}
	if strings.TrimSpace(user.Name) == "" {
		user.Name = user.Login
	}
	return nil
}

func (s *UserService) getUser(id int64) (*models.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("user with id %d not found", id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
