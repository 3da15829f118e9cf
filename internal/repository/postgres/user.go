package postgres

import (
	"database/sql"
	"fmt"

	"filmorate-api/internal/models"
)

// UserRepository handles database operations for users and friendships.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(user *models.User) (*models.User, error) {
	err := r.db.QueryRow(`
		INSERT INTO users (email, login, name, birthday)
		VALUES ($1, $2, $3, $4::date)
		RETURNING id
	`, user.Email, user.Login, user.Name, user.Birthday).Scan(&user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.Friends = []int64{}
	return user, nil
}

// Update rewrites an existing user's fields.
func (r *UserRepository) Update(user *models.User) (*models.User, error) {
	res, err := r.db.Exec(`
		UPDATE users SET email = $1, login = $2, name = $3, birthday = $4::date
		WHERE id = $5
	`, user.Email, user.Login, user.Name, user.Birthday, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, sql.ErrNoRows
	}
	return r.GetByID(user.ID)
}

// GetByID returns a user with their friend ids.
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(`
		SELECT id, email, login, name, TO_CHAR(birthday, 'YYYY-MM-DD')
		FROM users WHERE id = $1
	`, id).Scan(&user.ID, &user.Email, &user.Login, &user.Name, &user.Birthday)
	if err != nil {
		return nil, err
	}

	friends, err := r.friendIDs(id)
	if err != nil {
		return nil, err
	}
	user.Friends = friends
	return &user, nil
}

// GetAll returns every user with their friend ids.
func (r *UserRepository) GetAll() ([]models.User, error) {
	rows, err := r.db.Query(`
		SELECT id, email, login, name, TO_CHAR(birthday, 'YYYY-MM-DD')
		FROM users ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users, err := scanUsers(rows)
	if err != nil {
		return nil, err
	}

	friendRows, err := r.db.Query(`SELECT user_id, friend_id FROM friendships`)
	if err != nil {
		return nil, fmt.Errorf("failed to query friendships: %w", err)
	}
	defer friendRows.Close()

	byUser := make(map[int64][]int64)
	for friendRows.Next() {
		var userID, friendID int64
		if err := friendRows.Scan(&userID, &friendID); err != nil {
			continue
		}
		byUser[userID] = append(byUser[userID], friendID)
	}

	for i := range users {
		if ids, ok := byUser[users[i].ID]; ok {
			users[i].Friends = ids
		}
	}
	return users, nil
}

// Delete removes a user; likes, friendships, reviews and votes cascade.
func (r *UserRepository) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	return err
}

// AddFriend records the directed edge userID -> friendID.
func (r *UserRepository) AddFriend(userID, friendID int64) error {
	_, err := r.db.Exec(`
		INSERT INTO friendships (user_id, friend_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, friendID)
	return err
}

// RemoveFriend deletes the edge and reports whether it existed.
func (r *UserRepository) RemoveFriend(userID, friendID int64) (bool, error) {
	res, err := r.db.Exec(`
		DELETE FROM friendships WHERE user_id = $1 AND friend_id = $2
	`, userID, friendID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetFriends returns the users this user has added as friends.
func (r *UserRepository) GetFriends(userID int64) ([]models.User, error) {
	rows, err := r.db.Query(`
		SELECT u.id, u.email, u.login, u.name, TO_CHAR(u.birthday, 'YYYY-MM-DD')
		FROM users u
		INNER JOIN friendships f ON f.friend_id = u.id
		WHERE f.user_id = $1
		ORDER BY u.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query friends: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// GetCommonFriends returns users befriended by both userID and otherID.
func (r *UserRepository) GetCommonFriends(userID, otherID int64) ([]models.User, error) {
	rows, err := r.db.Query(`
		SELECT u.id, u.email, u.login, u.name, TO_CHAR(u.birthday, 'YYYY-MM-DD')
		FROM users u
		INNER JOIN friendships f1 ON f1.friend_id = u.id AND f1.user_id = $1
		INNER JOIN friendships f2 ON f2.friend_id = u.id AND f2.user_id = $2
		ORDER BY u.id
	`, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to query common friends: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

func (r *UserRepository) friendIDs(userID int64) ([]int64, error) {
	rows, err := r.db.Query(`SELECT friend_id FROM friendships WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query friendships: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func scanUsers(rows *sql.Rows) ([]models.User, error) {
	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.Login, &user.Name, &user.Birthday); err != nil {
			continue
		}
		user.Friends = []int64{}
		users = append(users, user)
	}
	return users, rows.Err()
}
