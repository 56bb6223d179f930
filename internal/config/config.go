// Package config centralises configuration parsing for the exercise tracker.
package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// Store drivers selectable with DB_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// ErrMissingDBURI is returned when a database-backed driver has no
// connection string. Startup treats it as fatal.
var ErrMissingDBURI = errors.New("DB_URI is required")

// Config captures runtime configuration values for the exercise tracker.
type Config struct {
	HTTPAddress  string
	DBDriver     string
	DBURI        string
	DBName       string
	KafkaBrokers []string // empty disables event publishing
	LogLevel     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Load reads environment variables into Config, applying defaults for local
// dev. The connection string has no default: its absence is a startup-fatal
// condition for any driver that needs one.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddress:  getEnv("HTTP_ADDRESS", ":3000"),
		DBDriver:     getEnv("DB_DRIVER", DriverMongo),
		DBURI:        getEnv("DB_URI", ""),
		DBName:       getEnv("DB_NAME", "exercise_tracker"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		ReadTimeout:  getDurationEnv("HTTP_READ_TIMEOUT", 5*time.Second),
		WriteTimeout: getDurationEnv("HTTP_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:  getDurationEnv("HTTP_IDLE_TIMEOUT", 60*time.Second),
	}

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = splitAndTrim(brokers)
	}

	if cfg.DBDriver != DriverMemory && cfg.DBURI == "" {
		return Config{}, ErrMissingDBURI
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
