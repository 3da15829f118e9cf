package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"filmorate-api/internal/models"
)

// EventRepository is the append-only activity log. Rows are never
// updated or deleted.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Add appends an event with the current timestamp in epoch milliseconds.
func (r *EventRepository) Add(userID int64, eventType, operation string, entityID int64) error {
	_, err := r.db.Exec(`
		INSERT INTO events (user_id, event_type, operation, entity_id, timestamp)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, eventType, operation, entityID, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to add event: %w", err)
	}
	return nil
}

// GetFeed returns the user's events, oldest first.
func (r *EventRepository) GetFeed(userID int64) ([]models.Event, error) {
	rows, err := r.db.Query(`
		SELECT id, timestamp, user_id, event_type, operation, entity_id
		FROM events WHERE user_id = $1
		ORDER BY timestamp, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]models.Event, error) {
	events := make([]models.Event, 0)
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.EventID, &event.Timestamp, &event.UserID,
			&event.EventType, &event.Operation, &event.EntityID); err != nil {
			continue
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
