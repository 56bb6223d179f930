// Package events defines the messages emitted after successful writes and a
// best-effort Kafka publisher for them.
package events

import "time"

// Topics carrying tracker events.
const (
	TopicUserEvents     = "user_events"
	TopicExerciseEvents = "exercise_events"
)

// UserCreated represents the message emitted when a new user is registered.
type UserCreated struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// ExerciseLogged represents the message emitted when an exercise is persisted.
type ExerciseLogged struct {
	ExerciseID  string    `json:"exercise_id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Description string    `json:"description"`
	DurationMin int       `json:"duration_min"`
	Date        time.Time `json:"date"`
}
