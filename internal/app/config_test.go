package app

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrefix = "RASHI_TEST"

func TestNewEnvConfig_Defaults(t *testing.T) {
	t.Setenv("PATH", "/usr/bin:/bin")
	t.Setenv("PORT", "")
	require.NoError(t, os.Unsetenv("PORT"))

	cfg, err := NewEnvConfig(testPrefix)
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, EngineDriverPlugin, cfg.Engine.Driver)
	assert.Equal(t, "server/engine/jyotish.so", cfg.Engine.PluginPath)
	assert.Equal(t, 10*time.Second, cfg.Engine.CalcTimeout)
	assert.Equal(t, "v1", cfg.Engine.Version)
	assert.Equal(t, "server/ephemeris", cfg.Ephemeris.Path)
	assert.Equal(t, "server", cfg.Timezone.Mode)
	assert.Equal(t, 24*time.Hour, cfg.Geocoder.CacheTTL)

	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.S3.Enabled())
	assert.False(t, cfg.Alerter.Enabled())
}

func TestNewEnvConfig_PortFallback(t *testing.T) {
	t.Setenv("PORT", "8080")

	cfg, err := NewEnvConfig(testPrefix)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)

	t.Setenv(testPrefix+"_APISERVER_PORT", "9090")

	cfg, err = NewEnvConfig(testPrefix)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestNewEnvConfig_Overrides(t *testing.T) {
	t.Setenv(testPrefix+"_ENGINE_DRIVER", "remote")
	t.Setenv(testPrefix+"_ENGINE_BASE_URL", "http://engine:8000")
	t.Setenv(testPrefix+"_EPHEMERIS_PATH", "/data/ephe")
	t.Setenv(testPrefix+"_TIMEZONE_MODE", "coordinates")
	t.Setenv(testPrefix+"_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")

	cfg, err := NewEnvConfig(testPrefix)
	require.NoError(t, err)

	assert.Equal(t, EngineDriverRemote, cfg.Engine.Driver)
	assert.Equal(t, "http://engine:8000", cfg.Engine.BaseURL)
	assert.Equal(t, "/data/ephe", cfg.Ephemeris.Path)
	assert.Equal(t, "coordinates", cfg.Timezone.Mode)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.GetBrokers())
}

func TestNewEnvConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"unknown driver", "_ENGINE_DRIVER", "cgo", "unknown engine driver"},
		{"unknown timezone mode", "_TIMEZONE_MODE", "utc", "utc"},
		{"zero calc timeout", "_ENGINE_CALC_TIMEOUT", "0s", "calc timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(testPrefix+tt.key, tt.value)

			_, err := NewEnvConfig(testPrefix)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
