// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

// Package config loads and validates application configuration from
// layered sources: built-in defaults, an optional YAML file, and
// environment variables, in ascending precedence.
package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/basketmine/internal/validation"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Mining   MiningConfig   `koanf:"mining"`
	Storage  StorageConfig  `koanf:"storage"`
	Ingest   IngestConfig   `koanf:"ingest"`
	Training TrainingConfig `koanf:"training"`
	API      APIConfig      `koanf:"api"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Host is the bind address.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port" validate:"min=1,max=65535"`

	// Timeout bounds request read/write and graceful shutdown.
	Timeout time.Duration `koanf:"timeout"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// MiningConfig holds the training thresholds.
type MiningConfig struct {
	// MinSupport is the minimum itemset support ratio, in (0, 1].
	MinSupport float64 `koanf:"min_support"`

	// MinConfidence is the minimum rule confidence, in [0, 1].
	MinConfidence float64 `koanf:"min_confidence"`

	// MinLift is the minimum rule lift. Above 1 reports only positive
	// associations.
	MinLift float64 `koanf:"min_lift"`

	// MaxLen caps mined itemset size. Zero means unlimited.
	MaxLen int `koanf:"max_len" validate:"min=0"`

	// TopN is the default number of recommendations per lookup.
	TopN int `koanf:"top_n" validate:"min=1,max=100"`

	// Workers bounds parallel mining of header items. Zero and one both
	// mine sequentially.
	Workers int `koanf:"workers" validate:"min=0"`
}

// StorageConfig configures the Badger artifact store.
type StorageConfig struct {
	// Path is the Badger directory.
	Path string `koanf:"path" validate:"required"`

	// KeepVersions is how many artifact versions survive pruning.
	KeepVersions int `koanf:"keep_versions" validate:"min=1"`
}

// IngestConfig configures the transaction source.
type IngestConfig struct {
	// CSVPath points at the cleaned transactions export. Empty disables
	// file ingestion (training must then be fed programmatically).
	CSVPath string `koanf:"csv_path"`
}

// TrainingConfig configures the retraining schedule.
type TrainingConfig struct {
	// TrainOnStartup triggers a training run when the service starts.
	TrainOnStartup bool `koanf:"train_on_startup"`

	// TrainInterval is how often to retrain. Zero disables the schedule.
	TrainInterval time.Duration `koanf:"train_interval"`
}

// APIConfig configures API middleware.
type APIConfig struct {
	// RateLimitRequests allows this many requests per window per client
	// IP. Zero disables rate limiting.
	RateLimitRequests int `koanf:"rate_limit_requests" validate:"min=0"`

	// RateLimitWindow is the limiter window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// CORSOrigins lists allowed origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// defaultConfig returns the built-in defaults, applied before config file
// and environment overrides.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8470,
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Mining: MiningConfig{
			MinSupport:    0.02,
			MinConfidence: 0.4,
			MinLift:       1.0,
			MaxLen:        4,
			TopN:          5,
			Workers:       0,
		},
		Storage: StorageConfig{
			Path:         "/data/basketmine",
			KeepVersions: 3,
		},
		Ingest: IngestConfig{
			CSVPath: "",
		},
		Training: TrainingConfig{
			TrainOnStartup: false,
			TrainInterval:  24 * time.Hour,
		},
		API: APIConfig{
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			CORSOrigins:       []string{"*"},
		},
	}
}

// Validate checks the configuration, combining struct-tag validation with
// the range checks tags cannot express.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Mining.MinSupport <= 0 || c.Mining.MinSupport > 1 {
		return fmt.Errorf("mining.min_support must be in (0, 1], got %v", c.Mining.MinSupport)
	}
	if c.Mining.MinConfidence < 0 || c.Mining.MinConfidence > 1 {
		return fmt.Errorf("mining.min_confidence must be in [0, 1], got %v", c.Mining.MinConfidence)
	}
	if c.Mining.MinLift < 0 {
		return fmt.Errorf("mining.min_lift must be non-negative, got %v", c.Mining.MinLift)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}
	if c.API.RateLimitRequests > 0 && c.API.RateLimitWindow <= 0 {
		return fmt.Errorf("api.rate_limit_window must be positive when rate limiting is enabled")
	}
	return nil
}
