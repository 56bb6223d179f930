// Package domain defines the business logic for the exercise tracker.
package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrUserNotFound is returned when a referenced user cannot be located.
var ErrUserNotFound = errors.New("user not found")

// ValidationError reports client input that failed a presence or type check.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string { return e.Reason }

// DefaultLogLimit caps log queries when the client does not supply a limit.
const DefaultLogLimit = 500

// EventPublisher receives notifications after successful writes. Publishing
// is best-effort and must never fail the originating request.
type EventPublisher interface {
	UserCreated(ctx context.Context, user User)
	ExerciseLogged(ctx context.Context, exercise Exercise, user User)
}

// Service orchestrates user and exercise workflows.
type Service struct {
	users     UserRepository
	exercises ExerciseRepository
	events    EventPublisher
}

// NewService constructs a Service.
func NewService(users UserRepository, exercises ExerciseRepository, events EventPublisher) *Service {
	return &Service{users: users, exercises: exercises, events: events}
}

// CreateUser persists a new user. Duplicate usernames are permitted.
func (s *Service) CreateUser(ctx context.Context, username string) (*User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ValidationError{Reason: "username is required"}
	}

	user, err := s.users.Create(ctx, User{
		Username:  username,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.events.UserCreated(ctx, user)
	return &user, nil
}

// ListUsers returns all users; an empty slice when none exist.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.users.List(ctx)
}

// LogExerciseInput captures the payload from the API layer. A nil Date means
// the exercise is dated at the moment of the call.
type LogExerciseInput struct {
	UserID      string
	Description string
	DurationMin int
	Date        *time.Time
}

// LoggedExercise pairs a persisted exercise with its owning user.
type LoggedExercise struct {
	Exercise Exercise
	User     User
}

// LogExercise validates the owning user exists, resolves the exercise date
// and persists the entry.
func (s *Service) LogExercise(ctx context.Context, input LogExerciseInput) (*LoggedExercise, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, ValidationError{Reason: "description is required"}
	}
	if input.DurationMin == 0 {
		return nil, ValidationError{Reason: "duration is required"}
	}

	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	date := time.Now().UTC()
	if input.Date != nil {
		date = *input.Date
	}

	exercise, err := s.exercises.Create(ctx, Exercise{
		UserID:      user.ID,
		Description: input.Description,
		DurationMin: input.DurationMin,
		Date:        date,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.events.ExerciseLogged(ctx, exercise, *user)
	return &LoggedExercise{Exercise: exercise, User: *user}, nil
}

// LogQuery narrows a user's exercise log. Bounds are inclusive.
type LogQuery struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

// UserLog is the filtered, capped exercise log for one user.
type UserLog struct {
	User    User
	Entries []Exercise
}

// GetLogs builds a filter from the query, executes it and returns the
// matching entries in date order. Zero or negative limits fall back to
// DefaultLogLimit.
func (s *Service) GetLogs(ctx context.Context, userID string, query LogQuery) (*UserLog, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	limit := query.Limit
	if limit <= 0 {
		limit = DefaultLogLimit
	}

	entries, err := s.exercises.FindByFilter(ctx, LogFilter{
		UserID: user.ID,
		From:   query.From,
		To:     query.To,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	return &UserLog{User: *user, Entries: entries}, nil
}
