package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"example.com/exercisetracker/internal/domain"
)

const publishTimeout = 5 * time.Second

// KafkaPublisher lazily manages writers per topic and publishes tracker
// events. Failures are logged, never surfaced to the caller: the store write
// is the single atomic operation of every request.
type KafkaPublisher struct {
	brokers []string
	logger  zerolog.Logger
	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

// NewKafkaPublisher creates a KafkaPublisher.
func NewKafkaPublisher(brokers []string, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		brokers: brokers,
		logger:  logger,
		writers: make(map[string]*kafka.Writer),
	}
}

// UserCreated implements domain.EventPublisher.
func (p *KafkaPublisher) UserCreated(ctx context.Context, user domain.User) {
	p.publish(ctx, TopicUserEvents, "user.created", user.ID, UserCreated{
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
}

// ExerciseLogged implements domain.EventPublisher.
func (p *KafkaPublisher) ExerciseLogged(ctx context.Context, exercise domain.Exercise, user domain.User) {
	p.publish(ctx, TopicExerciseEvents, "exercise.logged", user.ID, ExerciseLogged{
		ExerciseID:  exercise.ID,
		UserID:      exercise.UserID,
		Username:    user.Username,
		Description: exercise.Description,
		DurationMin: exercise.DurationMin,
		Date:        exercise.Date,
	})
}

func (p *KafkaPublisher) publish(ctx context.Context, topic, eventType, key string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal event")
		return
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}

	writeCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.writerForTopic(topic).WriteMessages(writeCtx, msg); err != nil {
		p.logger.Error().Err(err).Str("topic", topic).Str("event_type", eventType).Msg("failed to publish event")
	}
}

func (p *KafkaPublisher) writerForTopic(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if writer, ok := p.writers[topic]; ok {
		return writer
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(p.brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		Async:        false,
	}
	p.writers[topic] = writer
	return writer
}

// Close releases all writers.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.writers, topic)
	}
	return firstErr
}

// NoopPublisher drops all events. Used when no brokers are configured.
type NoopPublisher struct{}

// UserCreated implements domain.EventPublisher.
func (NoopPublisher) UserCreated(ctx context.Context, user domain.User) {}

// ExerciseLogged implements domain.EventPublisher.
func (NoopPublisher) ExerciseLogged(ctx context.Context, exercise domain.Exercise, user domain.User) {
}
