package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"filmorate-api/internal/config"
)

// NewPostgres creates a new PostgreSQL connection and runs migrations.
func NewPostgres(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	slog.Info("connected to PostgreSQL", "db", cfg.DBName)

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS mpa_ratings (
			id SERIAL PRIMARY KEY,
			name VARCHAR(10) NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS genres (
			id SERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email VARCHAR(255) NOT NULL,
			login VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			birthday DATE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS films (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description VARCHAR(200) DEFAULT '',
			release_date DATE NOT NULL,
			duration INTEGER NOT NULL,
			mpa_rating_id INTEGER NOT NULL DEFAULT 1 REFERENCES mpa_ratings(id)
		)`,
		`CREATE TABLE IF NOT EXISTS film_genres (
			film_id INTEGER REFERENCES films(id) ON DELETE CASCADE,
			genre_id INTEGER REFERENCES genres(id) ON DELETE CASCADE,
			PRIMARY KEY (film_id, genre_id)
		)`,
		`CREATE TABLE IF NOT EXISTS film_likes (
			film_id INTEGER REFERENCES films(id) ON DELETE CASCADE,
			user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
			PRIMARY KEY (film_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS friendships (
			user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
			friend_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
			PRIMARY KEY (user_id, friend_id)
		)`,
		`CREATE TABLE IF NOT EXISTS directors (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS film_directors (
			film_id INTEGER REFERENCES films(id) ON DELETE CASCADE,
			director_id INTEGER REFERENCES directors(id) ON DELETE CASCADE,
			PRIMARY KEY (film_id, director_id)
		)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id SERIAL PRIMARY KEY,
			content TEXT NOT NULL,
			is_positive BOOLEAN NOT NULL,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			film_id INTEGER NOT NULL REFERENCES films(id) ON DELETE CASCADE,
			useful INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS review_likes (
			review_id INTEGER REFERENCES reviews(id) ON DELETE CASCADE,
			user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
			is_like BOOLEAN NOT NULL,
			PRIMARY KEY (review_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			event_type VARCHAR(10) NOT NULL,
			operation VARCHAR(10) NOT NULL,
			entity_id INTEGER NOT NULL,
			timestamp BIGINT NOT NULL
		)`,
		// Indexes for common query patterns
		`CREATE INDEX IF NOT EXISTS idx_film_likes_user_id ON film_likes(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_friendships_friend_id ON friendships(friend_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_film_id ON reviews(film_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_user_id ON events(user_id, timestamp)`,
		// Seed the static rating and genre catalogs
		`INSERT INTO mpa_ratings (name) VALUES ('G'), ('PG'), ('PG-13'), ('R'), ('NC-17')
			ON CONFLICT (name) DO NOTHING`,
		`INSERT INTO genres (name) VALUES ('Комедия'), ('Драма'), ('Мультфильм'),
			('Триллер'), ('Документальный'), ('Боевик')
			ON CONFLICT (name) DO NOTHING`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	slog.Info("database migrations completed")
	return nil
}
