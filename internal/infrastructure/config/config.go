// Package config loads provisioner configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DefaultBaseURL is the well-known blueprint store address used when no
// override is configured.
const DefaultBaseURL = "https://data.dialogforge.dev/blueprints/"

// Config holds all provisioner configuration.
type Config struct {
	Store   StoreConfig
	Index   IndexConfig
	Cache   CacheConfig
	HTTP    HTTPConfig
	Logging LogConfig
}

// StoreConfig holds remote archive store configuration.
type StoreConfig struct {
	BaseURL string `envconfig:"BLUEPRINT_BASE_URL" default:"https://data.dialogforge.dev/blueprints/"`
}

// IndexConfig holds index host configuration. Host has no default on purpose:
// there is no safe fallback for a remote index endpoint.
type IndexConfig struct {
	Host string `envconfig:"WORKBENCH_INDEX_HOST"`
}

// CacheConfig holds local cache configuration.
type CacheConfig struct {
	Root string `envconfig:"WORKBENCH_CACHE_ROOT"`
}

// HTTPConfig holds HTTP client configuration.
type HTTPConfig struct {
	Timeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	Retries int           `envconfig:"HTTP_RETRIES" default:"0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{BaseURL: DefaultBaseURL},
		HTTP:  HTTPConfig{Timeout: 30 * time.Second},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
