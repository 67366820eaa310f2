// Package config loads LiteRi's runtime configuration: one database
// file per deployment environment plus logging settings.
//
// Loading order is defaults, then the YAML file, then environment
// variables (a .env file is honored when present). The selected
// environment decides which database entry the application opens.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"
)

// Deployment environments. Each one maps to its own database file so
// development and test data never touch production data.
const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"
)

// Config is the root configuration structure.
type Config struct {
	Environment string                    `yaml:"environment"`
	Databases   map[string]DatabaseConfig `yaml:"databases"`
	Logging     LoggingConfig             `yaml:"logging"`
}

// DatabaseConfig contains the settings for one environment's database.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"` // milliseconds
	ForeignKeys bool   `yaml:"foreign_keys"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	Directory string `yaml:"directory"` // empty = stdout, no rotation
}

// Load reads configuration from a YAML file and applies environment
// variable overrides.
//
// The loading order is:
//  1. Default values
//  2. .env file, if one exists in the working directory
//  3. YAML file values
//  4. Environment variables (LITERI_ENV, LITERI_DATABASE_PATH, LITERI_LOG_LEVEL)
func Load(path string) (*Config, error) {
	// A missing .env file is fine; real env vars still apply.
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with sensible defaults: a file database for
// development and production, an in-memory one for testing.
func Default() *Config {
	return &Config{
		Environment: EnvDevelopment,
		Databases: map[string]DatabaseConfig{
			EnvDevelopment: {
				Path:        "./storage/development.db",
				WALMode:     true,
				BusyTimeout: 5000,
				ForeignKeys: true,
			},
			EnvTesting: {
				Path:        ":memory:",
				BusyTimeout: 5000,
				ForeignKeys: true,
			},
			EnvProduction: {
				Path:        "./storage/production.db",
				WALMode:     true,
				BusyTimeout: 5000,
				ForeignKeys: true,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// applyEnvOverrides applies environment variable overrides.
// Variables follow the pattern LITERI_SECTION_KEY.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LITERI_ENV"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("LITERI_DATABASE_PATH"); v != "" {
		db := cfg.Databases[cfg.Environment]
		db.Path = v
		cfg.Databases[cfg.Environment] = db
	}
	if v := os.Getenv("LITERI_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LITERI_LOG_DIRECTORY"); v != "" {
		cfg.Logging.Directory = v
	}
}

// Validate checks that the selected environment resolves to a usable
// database entry.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment must not be empty")
	}
	db, ok := c.Databases[c.Environment]
	if !ok {
		return fmt.Errorf("no database configured for environment %q", c.Environment)
	}
	if db.Path == "" {
		return fmt.Errorf("database path for environment %q must not be empty", c.Environment)
	}
	return nil
}

// Database returns the database settings for the active environment.
// Validate guarantees the entry exists after a successful Load.
func (c *Config) Database() DatabaseConfig {
	return c.Databases[c.Environment]
}

// DatabasePath returns the database file path for the active environment.
func (c *Config) DatabasePath() string {
	return c.Database().Path
}
