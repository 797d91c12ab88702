// Package config loads service configuration from CONCIERGE_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix for every setting.
const Prefix = "CONCIERGE"

// Store backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds all configuration for the concierge service.
type Config struct {
	Port     int    `envconfig:"PORT" default:"8080"`
	Version  string `envconfig:"VERSION" default:"0.1.0"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// SeedFile replaces the embedded seed data when set.
	SeedFile string `envconfig:"SEED_FILE"`

	// PromptTrainingLimit caps the training items folded into a system prompt.
	PromptTrainingLimit int `envconfig:"PROMPT_TRAINING_LIMIT" default:"5"`

	Store     StoreConfig     `envconfig:"STORE"`
	Telemetry TelemetryConfig `envconfig:"TELEMETRY"`
	Auth      AuthConfig      `envconfig:"AUTH"`
}

type StoreConfig struct {
	Backend string `envconfig:"BACKEND" default:"memory"`
	// DataDir holds the memory backend's snapshot file. Empty disables
	// persistence for that backend.
	DataDir string `envconfig:"DATA_DIR"`
	// SQLitePath defaults to DataDir/concierge.db.
	SQLitePath   string        `envconfig:"SQLITE_PATH"`
	SaveDebounce time.Duration `envconfig:"SAVE_DEBOUNCE" default:"500ms"`
	// PostgresURL is the connection string for the postgres backend.
	PostgresURL string `envconfig:"POSTGRES_URL"`
	// Ephemeral keeps the memory backend off disk entirely.
	Ephemeral bool `envconfig:"EPHEMERAL"`
}

type TelemetryConfig struct {
	Enabled      bool    `envconfig:"ENABLED" default:"false"`
	OTLPEndpoint string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
	ServiceName  string  `envconfig:"OTEL_SERVICE_NAME" default:"concierge"`
	SampleRatio  float64 `envconfig:"SAMPLE_RATIO" default:"1"`
}

type AuthConfig struct {
	// APIKeys is a comma-separated list of accepted keys. Empty disables auth.
	APIKeys []string `envconfig:"API_KEYS"`
}

// Load reads configuration from the environment with sensible defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	switch cfg.Store.Backend {
	case BackendMemory, BackendSQLite:
	case BackendPostgres:
		if cfg.Store.PostgresURL == "" {
			return nil, fmt.Errorf("load config: postgres backend needs %s_STORE_POSTGRES_URL", Prefix)
		}
	default:
		return nil, fmt.Errorf("load config: unknown store backend %q", cfg.Store.Backend)
	}

	if cfg.Store.Ephemeral {
		cfg.Store.DataDir = ""
	} else if cfg.Store.DataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Store.DataDir = filepath.Join(home, ".concierge")
		}
	}
	if cfg.Store.Backend == BackendSQLite && cfg.Store.SQLitePath == "" {
		if cfg.Store.DataDir == "" {
			return nil, fmt.Errorf("load config: sqlite backend needs %s_STORE_SQLITE_PATH or a data dir", Prefix)
		}
		cfg.Store.SQLitePath = filepath.Join(cfg.Store.DataDir, "concierge.db")
	}

	if cfg.PromptTrainingLimit < 0 {
		cfg.PromptTrainingLimit = 0
	}
	if cfg.Telemetry.SampleRatio < 0 || cfg.Telemetry.SampleRatio > 1 {
		return nil, fmt.Errorf("load config: sample ratio %v outside [0,1]", cfg.Telemetry.SampleRatio)
	}
	return &cfg, nil
}

// Usage prints the recognised environment variables to stdout.
func Usage() error {
	return envconfig.Usage(Prefix, &Config{})
}
