package models

// User event types published to Kafka.
const (
	EventUserRegistered = "user.registered"
	EventUserLoggedIn   = "user.logged_in"
)

// UserEvent is an audit record of an account action.
type UserEvent struct {
	EventID   string `json:"event_id"`  // Unique identifier of the event
	Type      string `json:"type"`      // One of the Event* constants
	UserID    int64  `json:"user_id"`   // Identifier of the affected user
	Email     string `json:"email"`     // Login email of the affected user
	Timestamp int64  `json:"timestamp"` // Unix timestamp (seconds) of the action
}
