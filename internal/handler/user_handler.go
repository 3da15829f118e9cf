package handler

import (
	"github.com/gofiber/fiber/v3"

	"filmorate-api/internal/models"
	"filmorate-api/internal/service"
)

// UserHandler handles HTTP requests for users, friendships, the
// activity feed and recommendations.
type UserHandler struct {
	svc   *service.UserService
	films *service.FilmService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, films *service.FilmService) *UserHandler {
	return &UserHandler{svc: svc, films: films}
}

// CreateUser creates a new user.
func (h *UserHandler) CreateUser(c fiber.Ctx) error {
	var user models.User
	if err := c.Bind().JSON(&user); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	created, err := h.svc.CreateUser(&user)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateUser updates an existing user.
func (h *UserHandler) UpdateUser(c fiber.Ctx) error {
	var user models.User
	if err := c.Bind().JSON(&user); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	updated, err := h.svc.UpdateUser(&user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

// GetAllUsers returns every user.
func (h *UserHandler) GetAllUsers(c fiber.Ctx) error {
	users, err := h.svc.GetAllUsers()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// GetUser returns a single user.
func (h *UserHandler) GetUser(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	user, err := h.svc.GetUser(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser removes a user.
func (h *UserHandler) DeleteUser(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.DeleteUser(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddFriend records a directed friendship.
func (h *UserHandler) AddFriend(c fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	friendID, err := parseID(c, "friendId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.AddFriend(userID, friendID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// RemoveFriend deletes a directed friendship.
func (h *UserHandler) RemoveFriend(c fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	friendID, err := parseID(c, "friendId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.RemoveFriend(userID, friendID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// GetFriends returns the user's friends.
func (h *UserHandler) GetFriends(c fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	friends, err := h.svc.GetFriends(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(friends)
}

// GetCommonFriends returns friends shared with another user.
func (h *UserHandler) GetCommonFriends(c fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	otherID, err := parseID(c, "otherId")
	if err != nil {
		return respondError(c, err)
	}
	friends, err := h.svc.GetCommonFriends(userID, otherID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(friends)
}

// GetRecommendations returns recommended films for the user.
func (h *UserHandler) GetRecommendations(c fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	films, err := h.films.GetRecommendations(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(films)
}

// GetFeed returns the user's activity events, oldest first.
func (h *UserHandler) GetFeed(c fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	feed, err := h.svc.GetFeed(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(feed)
}
