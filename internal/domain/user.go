package domain

import (
	"context"
	"time"
)

// User is a registered account that exercises are logged against.
type User struct {
	ID        string
	Username  string
	CreatedAt time.Time
}

// UserRepository captures persistence operations for users.
type UserRepository interface {
	// Create persists the user and returns it with the store-assigned ID.
	Create(ctx context.Context, user User) (User, error)
	// FindByID returns nil, nil when no user has the given ID.
	FindByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]User, error)
}
