package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	users   map[string]User
	created []User
	findErr error
}

func (s *stubUserRepo) Create(ctx context.Context, user User) (User, error) {
	user.ID = "user-1"
	s.created = append(s.created, user)
	return user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id string) (*User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (s *stubUserRepo) List(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user)
	}
	return out, nil
}

type stubExerciseRepo struct {
	created    []Exercise
	lastFilter LogFilter
	results    []Exercise
}

func (s *stubExerciseRepo) Create(ctx context.Context, exercise Exercise) (Exercise, error) {
	exercise.ID = "ex-1"
	s.created = append(s.created, exercise)
	return exercise, nil
}

func (s *stubExerciseRepo) FindByFilter(ctx context.Context, filter LogFilter) ([]Exercise, error) {
	s.lastFilter = filter
	return s.results, nil
}

type recordingPublisher struct {
	userEvents     []User
	exerciseEvents []Exercise
}

func (p *recordingPublisher) UserCreated(ctx context.Context, user User) {
	p.userEvents = append(p.userEvents, user)
}

func (p *recordingPublisher) ExerciseLogged(ctx context.Context, exercise Exercise, user User) {
	p.exerciseEvents = append(p.exerciseEvents, exercise)
}

func TestCreateUserRequiresUsername(t *testing.T) {
	service := NewService(&stubUserRepo{}, &stubExerciseRepo{}, &recordingPublisher{})

	_, err := service.CreateUser(context.Background(), "  ")
	var validation ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestCreateUserPublishesEvent(t *testing.T) {
	publisher := &recordingPublisher{}
	service := NewService(&stubUserRepo{}, &stubExerciseRepo{}, publisher)

	user, err := service.CreateUser(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, "user-1", user.ID)
	require.Len(t, publisher.userEvents, 1)
	require.Equal(t, "alice", publisher.userEvents[0].Username)
}

func TestLogExerciseValidation(t *testing.T) {
	exercises := &stubExerciseRepo{}
	service := NewService(&stubUserRepo{}, exercises, &recordingPublisher{})

	var validation ValidationError

	_, err := service.LogExercise(context.Background(), LogExerciseInput{
		UserID: "user-1", DurationMin: 30,
	})
	require.ErrorAs(t, err, &validation)

	_, err = service.LogExercise(context.Background(), LogExerciseInput{
		UserID: "user-1", Description: "run",
	})
	require.ErrorAs(t, err, &validation)

	require.Empty(t, exercises.created)
}

func TestLogExerciseUnknownUserPersistsNothing(t *testing.T) {
	exercises := &stubExerciseRepo{}
	service := NewService(&stubUserRepo{}, exercises, &recordingPublisher{})

	_, err := service.LogExercise(context.Background(), LogExerciseInput{
		UserID: "ghost", Description: "run", DurationMin: 30,
	})
	require.ErrorIs(t, err, ErrUserNotFound)
	require.Empty(t, exercises.created)
}

func TestLogExerciseDefaultsDateToNow(t *testing.T) {
	users := &stubUserRepo{users: map[string]User{"user-1": {ID: "user-1", Username: "alice"}}}
	exercises := &stubExerciseRepo{}
	service := NewService(users, exercises, &recordingPublisher{})

	before := time.Now().UTC()
	logged, err := service.LogExercise(context.Background(), LogExerciseInput{
		UserID: "user-1", Description: "run", DurationMin: 30,
	})
	after := time.Now().UTC()

	require.NoError(t, err)
	require.False(t, logged.Exercise.Date.Before(before))
	require.False(t, logged.Exercise.Date.After(after))
}

func TestLogExerciseKeepsGivenDate(t *testing.T) {
	users := &stubUserRepo{users: map[string]User{"user-1": {ID: "user-1", Username: "alice"}}}
	service := NewService(users, &stubExerciseRepo{}, &recordingPublisher{})

	date := time.Date(2023, time.January, 5, 0, 0, 0, 0, time.UTC)
	logged, err := service.LogExercise(context.Background(), LogExerciseInput{
		UserID: "user-1", Description: "run", DurationMin: 30, Date: &date,
	})
	require.NoError(t, err)
	require.True(t, logged.Exercise.Date.Equal(date))
}

func TestGetLogsAppliesDefaultLimit(t *testing.T) {
	users := &stubUserRepo{users: map[string]User{"user-1": {ID: "user-1", Username: "alice"}}}
	exercises := &stubExerciseRepo{}
	service := NewService(users, exercises, &recordingPublisher{})

	_, err := service.GetLogs(context.Background(), "user-1", LogQuery{})
	require.NoError(t, err)
	require.Equal(t, DefaultLogLimit, exercises.lastFilter.Limit)
	require.Nil(t, exercises.lastFilter.From)
	require.Nil(t, exercises.lastFilter.To)
}

func TestGetLogsPassesBoundsAndLimit(t *testing.T) {
	users := &stubUserRepo{users: map[string]User{"user-1": {ID: "user-1", Username: "alice"}}}
	exercises := &stubExerciseRepo{}
	service := NewService(users, exercises, &recordingPublisher{})

	from := time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, time.January, 4, 0, 0, 0, 0, time.UTC)

	_, err := service.GetLogs(context.Background(), "user-1", LogQuery{From: &from, To: &to, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, "user-1", exercises.lastFilter.UserID)
	require.Equal(t, 2, exercises.lastFilter.Limit)
	require.Equal(t, &from, exercises.lastFilter.From)
	require.Equal(t, &to, exercises.lastFilter.To)
}

func TestGetLogsUnknownUser(t *testing.T) {
	service := NewService(&stubUserRepo{}, &stubExerciseRepo{}, &recordingPublisher{})

	_, err := service.GetLogs(context.Background(), "ghost", LogQuery{})
	require.ErrorIs(t, err, ErrUserNotFound)
}
