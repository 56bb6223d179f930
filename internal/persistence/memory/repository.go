// Package memory provides in-memory repositories for local development and
// handler tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"example.com/exercisetracker/internal/domain"
)

// Store holds users and exercises in process memory.
type Store struct {
	mu        sync.RWMutex
	users     map[string]domain.User
	userOrder []string
	exercises map[string][]domain.Exercise
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		users:     make(map[string]domain.User),
		exercises: make(map[string][]domain.Exercise),
	}
}

// Create implements domain.UserRepository.
func (s *Store) Create(ctx context.Context, user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = uuid.NewString()
	s.users[user.ID] = user
	s.userOrder = append(s.userOrder, user.ID)
	return user, nil
}

// FindByID implements domain.UserRepository.
func (s *Store) FindByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// List implements domain.UserRepository. Users come back in creation order.
func (s *Store) List(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		out = append(out, s.users[id])
	}
	return out, nil
}

// Exercises returns the exercise half of the store. Both halves share the
// same underlying data and lock.
func (s *Store) Exercises() *ExerciseStore {
	return &ExerciseStore{store: s}
}

// ExerciseStore adapts Store to domain.ExerciseRepository.
type ExerciseStore struct {
	store *Store
}

// Create implements domain.ExerciseRepository.
func (e *ExerciseStore) Create(ctx context.Context, exercise domain.Exercise) (domain.Exercise, error) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	exercise.ID = uuid.NewString()
	e.store.exercises[exercise.UserID] = append(e.store.exercises[exercise.UserID], exercise)
	return exercise, nil
}

// FindByFilter implements domain.ExerciseRepository.
func (e *ExerciseStore) FindByFilter(ctx context.Context, filter domain.LogFilter) ([]domain.Exercise, error) {
	e.store.mu.RLock()
	defer e.store.mu.RUnlock()

	matched := make([]domain.Exercise, 0, len(e.store.exercises[filter.UserID]))
	for _, ex := range e.store.exercises[filter.UserID] {
		if filter.From != nil && ex.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && ex.Date.After(*filter.To) {
			continue
		}
		matched = append(matched, ex)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.Before(matched[j].Date)
		}
		return matched[i].ID < matched[j].ID
	})

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}
