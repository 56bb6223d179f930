package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDBURI(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverMongo)
	t.Setenv("DB_URI", "")

	_, err := Load()
	require.ErrorIs(t, err, ErrMissingDBURI)
}

func TestLoadMemoryDriverNeedsNoURI(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverMemory)
	t.Setenv("DB_URI", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DriverMemory, cfg.DBDriver)
	require.Equal(t, ":3000", cfg.HTTPAddress)
}

func TestLoadSplitsKafkaBrokers(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverMemory)
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092 ,")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}
