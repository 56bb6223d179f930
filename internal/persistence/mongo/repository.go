// Package mongo provides document-store repositories backed by MongoDB.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"example.com/exercisetracker/internal/domain"
	"example.com/exercisetracker/internal/observability"
)

const (
	usersCollection     = "users"
	exercisesCollection = "exercises"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	CreatedAt time.Time          `bson:"created_at"`
}

type exerciseDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user_id"`
	Description string             `bson:"description"`
	DurationMin int                `bson:"duration"`
	Date        time.Time          `bson:"date"`
	CreatedAt   time.Time          `bson:"created_at"`
}

// UserRepository persists users in the users collection.
type UserRepository struct {
	collection *mongodriver.Collection
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *mongodriver.Database) *UserRepository {
	return &UserRepository{collection: db.Collection(usersCollection)}
}

// Create implements domain.UserRepository.
func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	doc := userDocument{
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return domain.User{}, err
	}

	user.ID = result.InsertedID.(primitive.ObjectID).Hex()
	return user, nil
}

// FindByID implements domain.UserRepository. IDs that are not valid object
// IDs cannot match any document and resolve to not-found.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc userDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return toUser(doc), nil
}

// List implements domain.UserRepository.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := make([]domain.User, 0)
	for cursor.Next(ctx) {
		var doc userDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		users = append(users, *toUser(doc))
	}
	return users, cursor.Err()
}

func toUser(doc userDocument) *domain.User {
	return &domain.User{
		ID:        doc.ID.Hex(),
		Username:  doc.Username,
		CreatedAt: doc.CreatedAt,
	}
}

// ExerciseRepository persists exercises in the exercises collection.
type ExerciseRepository struct {
	collection *mongodriver.Collection
}

// NewExerciseRepository constructs an ExerciseRepository.
func NewExerciseRepository(db *mongodriver.Database) *ExerciseRepository {
	return &ExerciseRepository{collection: db.Collection(exercisesCollection)}
}

// Create implements domain.ExerciseRepository.
func (r *ExerciseRepository) Create(ctx context.Context, exercise domain.Exercise) (domain.Exercise, error) {
	doc := exerciseDocument{
		UserID:      exercise.UserID,
		Description: exercise.Description,
		DurationMin: exercise.DurationMin,
		Date:        exercise.Date,
		CreatedAt:   exercise.CreatedAt,
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return domain.Exercise{}, err
	}

	exercise.ID = result.InsertedID.(primitive.ObjectID).Hex()
	observability.RecordExercisePersisted(exercise.CreatedAt)
	return exercise, nil
}

// FindByFilter implements domain.ExerciseRepository. The filter always
// constrains user_id; date bounds are added only when present.
func (r *ExerciseRepository) FindByFilter(ctx context.Context, filter domain.LogFilter) ([]domain.Exercise, error) {
	query := bson.M{"user_id": filter.UserID}

	if filter.From != nil || filter.To != nil {
		bounds := bson.M{}
		if filter.From != nil {
			bounds["$gte"] = *filter.From
		}
		if filter.To != nil {
			bounds["$lte"] = *filter.To
		}
		query["date"] = bounds
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(filter.Limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	exercises := make([]domain.Exercise, 0, filter.Limit)
	for cursor.Next(ctx) {
		var doc exerciseDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		exercises = append(exercises, domain.Exercise{
			ID:          doc.ID.Hex(),
			UserID:      doc.UserID,
			Description: doc.Description,
			DurationMin: doc.DurationMin,
			Date:        doc.Date,
			CreatedAt:   doc.CreatedAt,
		})
	}
	return exercises, cursor.Err()
}
