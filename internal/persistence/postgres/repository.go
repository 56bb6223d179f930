// Package postgres provides relational repositories as an alternative to the
// default document store, selected with DB_DRIVER=postgres.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/exercisetracker/internal/domain"
	"example.com/exercisetracker/internal/observability"
)

// EnsureSchema creates the users and exercises tables when they do not exist
// yet. Statements are idempotent; there is no migration machinery.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const schema = `
        CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            username TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL
        );
        CREATE TABLE IF NOT EXISTS exercises (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            description TEXT NOT NULL,
            duration_min INTEGER NOT NULL,
            exercise_date TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ NOT NULL
        );
        CREATE INDEX IF NOT EXISTS exercises_user_date_idx
            ON exercises (user_id, exercise_date);`

	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// UserRepository persists users in Postgres.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create implements domain.UserRepository.
func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	user.ID = uuid.NewString()

	const stmt = `INSERT INTO users (id, username, created_at) VALUES ($1,$2,$3)`
	if _, err := r.pool.Exec(ctx, stmt, user.ID, user.Username, user.CreatedAt); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// FindByID implements domain.UserRepository.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT id, username, created_at FROM users WHERE id=$1`

	row := r.pool.QueryRow(ctx, query, id)
	var user domain.User
	if err := row.Scan(&user.ID, &user.Username, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// List implements domain.UserRepository.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT id, username, created_at FROM users ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Username, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// ExerciseRepository persists exercises in Postgres.
type ExerciseRepository struct {
	pool *pgxpool.Pool
}

// NewExerciseRepository constructs an ExerciseRepository.
func NewExerciseRepository(pool *pgxpool.Pool) *ExerciseRepository {
	return &ExerciseRepository{pool: pool}
}

// Create implements domain.ExerciseRepository.
func (r *ExerciseRepository) Create(ctx context.Context, exercise domain.Exercise) (domain.Exercise, error) {
	exercise.ID = uuid.NewString()

	const stmt = `INSERT INTO exercises (id, user_id, description, duration_min, exercise_date, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)`

	_, err := r.pool.Exec(ctx, stmt,
		exercise.ID,
		exercise.UserID,
		exercise.Description,
		exercise.DurationMin,
		exercise.Date,
		exercise.CreatedAt,
	)
	if err != nil {
		return domain.Exercise{}, err
	}

	observability.RecordExercisePersisted(exercise.CreatedAt)
	return exercise, nil
}

// FindByFilter implements domain.ExerciseRepository.
func (r *ExerciseRepository) FindByFilter(ctx context.Context, filter domain.LogFilter) ([]domain.Exercise, error) {
	args := []interface{}{filter.UserID}
	query := `SELECT id, user_id, description, duration_min, exercise_date, created_at
        FROM exercises WHERE user_id=$1`

	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(` AND exercise_date >= $%d`, len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(` AND exercise_date <= $%d`, len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(` ORDER BY exercise_date ASC, id ASC LIMIT $%d`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]domain.Exercise, 0, filter.Limit)
	for rows.Next() {
		var ex domain.Exercise
		if err := rows.Scan(&ex.ID, &ex.UserID, &ex.Description, &ex.DurationMin, &ex.Date, &ex.CreatedAt); err != nil {
			return nil, err
		}
		exercises = append(exercises, ex)
	}
	return exercises, rows.Err()
}
