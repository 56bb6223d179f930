package domain

import (
	"context"
	"time"
)

// Exercise is a single logged workout entry owned by a user.
type Exercise struct {
	ID          string
	UserID      string
	Description string
	DurationMin int
	Date        time.Time
	CreatedAt   time.Time
}

// LogFilter selects exercises for one user, optionally bounded by date.
// Bounds are inclusive; a nil bound means unbounded on that side.
type LogFilter struct {
	UserID string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// ExerciseRepository captures persistence operations for exercises.
type ExerciseRepository interface {
	// Create persists the exercise and returns it with the store-assigned ID.
	Create(ctx context.Context, exercise Exercise) (Exercise, error)
	// FindByFilter returns matching exercises ordered by date ascending,
	// ties broken by ID, capped at filter.Limit.
	FindByFilter(ctx context.Context, filter LogFilter) ([]Exercise, error)
}
