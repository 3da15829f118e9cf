package memory

import (
	"sync"
	"time"

	"filmorate-api/internal/models"
)

// EventRepository is an in-memory append-only activity log.
type EventRepository struct {
	mu     sync.Mutex
	events []models.Event
	nextID int64
}

// NewEventRepository creates an empty in-memory event repository.
func NewEventRepository() *EventRepository {
	return &EventRepository{events: make([]models.Event, 0)}
}

// Add appends an event with the current timestamp in epoch milliseconds.
func (r *EventRepository) Add(userID int64, eventType, operation string, entityID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.events = append(r.events, models.Event{
		EventID:   r.nextID,
		Timestamp: time.Now().UnixMilli(),
		UserID:    userID,
		EventType: eventType,
		Operation: operation,
		EntityID:  entityID,
	})
	return nil
}

// GetFeed returns the user's events, oldest first. Events are appended
// in timestamp order, so insertion order is feed order.
func (r *EventRepository) GetFeed(userID int64) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	feed := make([]models.Event, 0)
	for _, event := range r.events {
		if event.UserID == userID {
			feed = append(feed, event)
		}
	}
	return feed, nil
}
