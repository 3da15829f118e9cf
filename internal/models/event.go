package models

// Event types and operations recorded in the activity feed.
const (
	EventTypeLike   = "LIKE"
	EventTypeReview = "REVIEW"
	EventTypeFriend = "FRIEND"

	OperationAdd    = "ADD"
	OperationRemove = "REMOVE"
	OperationUpdate = "UPDATE"
)

// Event is an append-only activity log record. Timestamp is epoch
// milliseconds. Events are never mutated or deleted.
type Event struct {
	EventID   int64  `json:"eventId"`
	Timestamp int64  `json:"timestamp"`
	UserID    int64  `json:"userId"`
	EventType string `json:"eventType"`
	Operation string `json:"operation"`
	EntityID  int64  `json:"entityId"`
}
