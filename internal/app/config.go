package app

import (
	"fmt"
	"time"

	server "github.com/admin/astro/rashi-api/internal/adapters/primary/http"
	alerterAdapter "github.com/admin/astro/rashi-api/internal/adapters/secondary/alerter"
	"github.com/admin/astro/rashi-api/internal/adapters/secondary/engine/remote"
	"github.com/admin/astro/rashi-api/internal/adapters/secondary/ephemeris"
	"github.com/admin/astro/rashi-api/internal/adapters/secondary/geocoder/nominatim"
	kafkaAdapter "github.com/admin/astro/rashi-api/internal/adapters/secondary/kafka"
	redisAdapter "github.com/admin/astro/rashi-api/internal/adapters/secondary/storage/redis"
	"github.com/admin/astro/rashi-api/internal/adapters/secondary/storage/s3"
	"github.com/admin/astro/rashi-api/internal/pkg/logger"
	"github.com/admin/astro/rashi-api/internal/usecases/rashi"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EngineDriverPlugin = "plugin"
	EngineDriverRemote = "remote"
	EngineDriverNone   = "none"
)

type Config struct {
	Log       *logger.Config         `envconfig:"LOG"`
	Server    *server.Config         `envconfig:"APISERVER"`
	Engine    *EngineConfig          `envconfig:"ENGINE"`
	Ephemeris *ephemeris.Config      `envconfig:"EPHEMERIS"`
	S3        *s3.Config             `envconfig:"S3"`
	Timezone  *TimezoneConfig        `envconfig:"TIMEZONE"`
	Geocoder  *nominatim.Config      `envconfig:"GEOCODER"`
	Redis     *redisAdapter.Config   `envconfig:"REDIS"`
	Kafka     *kafkaAdapter.Config   `envconfig:"KAFKA"`
	Alerter   *alerterAdapter.Config `envconfig:"ALERTER"`
	Jobs      *JobsConfig            `envconfig:"JOBS"`
}

// EngineConfig выбор движка; поля remote.Config читаются с тем же префиксом ENGINE
type EngineConfig struct {
	Driver      string        `envconfig:"DRIVER" default:"plugin"`
	PluginPath  string        `envconfig:"PLUGIN_PATH" default:"server/engine/jyotish.so"`
	CalcTimeout time.Duration `envconfig:"CALC_TIMEOUT" default:"10s"`
	remote.Config
}

type TimezoneConfig struct {
	Mode string `envconfig:"MODE" default:"server"`
}

// JobsConfig интервалы фоновых джоб, 0 отключает джобу
type JobsConfig struct {
	CachePurgeInterval    time.Duration `envconfig:"CACHE_PURGE_INTERVAL" default:"10m"`
	EphemerisSyncInterval time.Duration `envconfig:"EPHEMERIS_SYNC_INTERVAL" default:"6h"`
}

func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate проверяет значения, которые envconfig не может проверить сам
func (c *Config) Validate() error {
	switch c.Engine.Driver {
	case EngineDriverPlugin, EngineDriverRemote, EngineDriverNone:
	default:
		return fmt.Errorf("unknown engine driver %q", c.Engine.Driver)
	}

	if _, err := rashi.ParseTimezoneMode(c.Timezone.Mode); err != nil {
		return err
	}

	if c.Engine.CalcTimeout <= 0 {
		return fmt.Errorf("engine calc timeout must be positive, got %s", c.Engine.CalcTimeout)
	}

	if c.Jobs.CachePurgeInterval < 0 || c.Jobs.EphemerisSyncInterval < 0 {
		return fmt.Errorf("job intervals must not be negative")
	}

	return nil
}
