package nominatim

import (
	"fmt"
	"net/url"
	"time"
)

type Config struct {
	BaseURL   string        `envconfig:"BASE_URL" default:"https://nominatim.openstreetmap.org"`
	UserAgent string        `envconfig:"USER_AGENT" default:"rashi-api/1.0"`
	Email     string        `envconfig:"EMAIL"`
	Language  string        `envconfig:"LANGUAGE" default:"en"`
	Timeout   time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"24h"`
	CacheSize int           `envconfig:"CACHE_SIZE" default:"1000"`
}

// Validate проверяет, что базовый URL пригоден для запросов
func (c *Config) Validate() error {
	if c == nil || c.BaseURL == "" {
		return fmt.Errorf("geocoder base url is not configured")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid geocoder base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid geocoder base url scheme: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid geocoder base url: empty host")
	}
	return nil
}
