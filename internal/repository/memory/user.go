// Package memory provides in-memory implementations of the repository
// interfaces. They back the test suite and mirror the semantics of the
// postgres implementations, including sql.ErrNoRows for missing rows.
package memory

import (
	"database/sql"
	"sort"
	"sync"

	"filmorate-api/internal/models"
)

// UserRepository is an in-memory repository.UserRepository.
type UserRepository struct {
	mu      sync.Mutex
	users   map[int64]models.User
	friends map[int64]map[int64]bool
	nextID  int64
}

// NewUserRepository creates an empty in-memory user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[int64]models.User),
		friends: make(map[int64]map[int64]bool),
	}
}

// Create inserts a new user.
func (r *UserRepository) Create(user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	user.ID = r.nextID
	stored := *user
	stored.Friends = nil
	r.users[user.ID] = stored

	out := *user
	out.Friends = []int64{}
	return &out, nil
}

// Update rewrites an existing user's fields.
func (r *UserRepository) Update(user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return nil, sql.ErrNoRows
	}
	stored := *user
	stored.Friends = nil
	r.users[user.ID] = stored

	out := stored
	out.Friends = r.friendIDs(user.ID)
	return &out, nil
}

// GetByID returns a user with their friend ids.
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	user.Friends = r.friendIDs(id)
	return &user, nil
}

// GetAll returns every user ordered by id.
func (r *UserRepository) GetAll() ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]models.User, 0, len(r.users))
	for id, user := range r.users {
		user.Friends = r.friendIDs(id)
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Delete removes a user and every friendship edge touching them.
func (r *UserRepository) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)
	delete(r.friends, id)
	for _, edges := range r.friends {
		delete(edges, id)
	}
	return nil
}

// AddFriend records the directed edge userID -> friendID.
func (r *UserRepository) AddFriend(userID, friendID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.friends[userID] == nil {
		r.friends[userID] = make(map[int64]bool)
	}
	r.friends[userID][friendID] = true
	return nil
}

// RemoveFriend deletes the edge and reports whether it existed.
func (r *UserRepository) RemoveFriend(userID, friendID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.friends[userID][friendID] {
		return false, nil
	}
	delete(r.friends[userID], friendID)
	return true, nil
}

// GetFriends returns the users this user has added as friends.
func (r *UserRepository) GetFriends(userID int64) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.collect(r.friendIDs(userID)), nil
}

// GetCommonFriends returns users befriended by both userID and otherID.
func (r *UserRepository) GetCommonFriends(userID, otherID int64) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	common := make([]int64, 0)
	for id := range r.friends[userID] {
		if r.friends[otherID][id] {
			common = append(common, id)
		}
	}
	sort.Slice(common, func(i, j int) bool { return common[i] < common[j] })
	return r.collect(common), nil
}

func (r *UserRepository) friendIDs(userID int64) []int64 {
	ids := make([]int64, 0, len(r.friends[userID]))
	for id := range r.friends[userID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *UserRepository) collect(ids []int64) []models.User {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			user.Friends = r.friendIDs(id)
			users = append(users, user)
		}
	}
	return users
}
