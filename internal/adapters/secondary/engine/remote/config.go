package remote

import "time"

// Config HTTP-движка. Version без тега envconfig, чтобы не подхватить VERSION без префикса
type Config struct {
	BaseURL      string        `envconfig:"BASE_URL"`
	Version      string        `default:"v1"`
	ApiKey       string        `envconfig:"API_KEY"`
	SkipSSL      string        `envconfig:"SKIP_SSL"` // Railway требует строки вместо bool
	Timeout      time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	ProbeTimeout time.Duration `envconfig:"PROBE_TIMEOUT" default:"5s"`
}

func (c *Config) ShouldSkipSSL() bool {
	return c.SkipSSL == "true" || c.SkipSSL == "1" || c.SkipSSL == "True"
}
