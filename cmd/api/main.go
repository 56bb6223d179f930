package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"

	"example.com/exercisetracker/internal/api"
	"example.com/exercisetracker/internal/config"
	"example.com/exercisetracker/internal/domain"
	"example.com/exercisetracker/internal/events"
	memorystore "example.com/exercisetracker/internal/persistence/memory"
	mongostore "example.com/exercisetracker/internal/persistence/mongo"
	postgresstore "example.com/exercisetracker/internal/persistence/postgres"
	httptransport "example.com/exercisetracker/internal/transport/http"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := newLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	users, exercises, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to open store")
	}
	defer closeStore()
	logger.Info().Str("driver", cfg.DBDriver).Msg("store connection established")

	var publisher domain.EventPublisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, logger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	service := domain.NewService(users, exercises, publisher)

	handler := api.NewHandler(service, logger)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}, requestLogger(logger)(mux))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress).Msg("exercise tracker listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).
		Level(parsed).
		With().
		Timestamp().
		Str("service", "exercise-tracker").
		Logger()
}

// openStore connects the configured backend and returns both repositories
// plus a teardown callback.
func openStore(ctx context.Context, cfg config.Config) (domain.UserRepository, domain.ExerciseRepository, func(), error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		client, err := mongodriver.Connect(connectCtx, mongooptions.Client().ApplyURI(cfg.DBURI))
		if err != nil {
			return nil, nil, nil, err
		}
		if err := client.Ping(connectCtx, nil); err != nil {
			return nil, nil, nil, err
		}

		db := client.Database(cfg.DBName)
		teardown := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}
		return mongostore.NewUserRepository(db), mongostore.NewExerciseRepository(db), teardown, nil

	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DBURI)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := postgresstore.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		return postgresstore.NewUserRepository(pool), postgresstore.NewExerciseRepository(pool), pool.Close, nil

	default:
		store := memorystore.NewStore()
		return store, store.Exercises(), func() {}, nil
	}
}

// requestLogger logs one line per request once the response is written.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", recorder.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
