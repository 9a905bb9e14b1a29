// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// the server, the scraping pipeline, the database, and optional features.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Server
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration
	Environment     string

	// Data
	DataDir      string // Directory for the SQLite database
	SalariesPath string // Path to the Indiana compensation CSV

	// Scraper
	ScraperTimeout    time.Duration
	ScraperMaxRetries int

	// Database
	DatabaseMaxConns int // Reader pool size

	// Snapshot storage (optional)
	R2Enabled     bool
	R2Endpoint    string
	R2AccessKeyID string
	R2SecretKey   string
	R2BucketName  string
	R2SnapshotKey string

	// Sentry error tracking (optional)
	SentryEnabled    bool
	SentryDSN        string
	SentrySampleRate float64

	// Better Stack logging (optional)
	BetterStackEnabled  bool
	BetterStackToken    string
	BetterStackEndpoint string
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first, then reads from env vars.
func Load() (*Config, error) {
	// Ignore error if .env doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv(EnvPort, "8080"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, 30*time.Second),
		Environment:     getEnv(EnvEnvironment, "development"),

		DataDir:      getEnv(EnvDataDir, getDefaultDataDir()),
		SalariesPath: getEnv(EnvSalariesPath, "data/indiana_compensation.csv"),

		ScraperTimeout:    getDurationEnv(EnvScraperTimeout, 60*time.Second),
		ScraperMaxRetries: getIntEnv(EnvScraperMaxRetries, 3),

		DatabaseMaxConns: getIntEnv(EnvDatabaseMaxConns, 8),

		R2Enabled:     getBoolEnv(EnvR2Enabled, false),
		R2Endpoint:    getEnv(EnvR2Endpoint, ""),
		R2AccessKeyID: getEnv(EnvR2AccessKeyID, ""),
		R2SecretKey:   getEnv(EnvR2SecretAccessKey, ""),
		R2BucketName:  getEnv(EnvR2BucketName, ""),
		R2SnapshotKey: getEnv(EnvR2SnapshotKey, "snapshots/directory.db.zst"),

		SentryEnabled:    getBoolEnv(EnvSentryEnabled, false),
		SentryDSN:        getEnv(EnvSentryDSN, ""),
		SentrySampleRate: getFloatEnv(EnvSentrySampleRate, 1.0),

		BetterStackEnabled:  getBoolEnv(EnvBetterStackEnabled, false),
		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set and coherent.
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New(EnvPort+" is required"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New(EnvDataDir+" is required"))
	}
	if c.SalariesPath == "" {
		errs = append(errs, errors.New(EnvSalariesPath+" is required"))
	}
	if c.ScraperTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvScraperTimeout, c.ScraperTimeout))
	}
	if c.ScraperMaxRetries < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative, got %d", EnvScraperMaxRetries, c.ScraperMaxRetries))
	}
	if c.DatabaseMaxConns <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvDatabaseMaxConns, c.DatabaseMaxConns))
	}

	if c.IsR2Enabled() {
		if c.R2Endpoint == "" {
			errs = append(errs, errors.New(EnvR2Endpoint+" is required when "+EnvR2Enabled+"=true"))
		}
		if c.R2AccessKeyID == "" {
			errs = append(errs, errors.New(EnvR2AccessKeyID+" is required when "+EnvR2Enabled+"=true"))
		}
		if c.R2SecretKey == "" {
			errs = append(errs, errors.New(EnvR2SecretAccessKey+" is required when "+EnvR2Enabled+"=true"))
		}
		if c.R2BucketName == "" {
			errs = append(errs, errors.New(EnvR2BucketName+" is required when "+EnvR2Enabled+"=true"))
		}
		if c.R2SnapshotKey == "" {
			errs = append(errs, errors.New(EnvR2SnapshotKey+" must not be empty when "+EnvR2Enabled+"=true"))
		}
	}

	if c.IsSentryEnabled() {
		if c.SentryDSN == "" {
			errs = append(errs, errors.New(EnvSentryDSN+" is required when "+EnvSentryEnabled+"=true"))
		}
		if c.SentrySampleRate < 0 || c.SentrySampleRate > 1 {
			errs = append(errs, fmt.Errorf("%s must be between 0 and 1, got %v", EnvSentrySampleRate, c.SentrySampleRate))
		}
	}

	if c.IsBetterStackEnabled() && c.BetterStackToken == "" {
		errs = append(errs, errors.New(EnvBetterStackToken+" is required when "+EnvBetterStackEnabled+"=true"))
	}

	return errors.Join(errs...)
}

// DatabasePath returns the full path to the SQLite database file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "directory.db")
}

// IsR2Enabled reports whether snapshot upload is enabled.
func (c *Config) IsR2Enabled() bool {
	return c.R2Enabled
}

// IsSentryEnabled reports whether Sentry error tracking is enabled.
func (c *Config) IsSentryEnabled() bool {
	return c.SentryEnabled
}

// IsBetterStackEnabled reports whether Better Stack log shipping is enabled.
func (c *Config) IsBetterStackEnabled() bool {
	return c.BetterStackEnabled
}

func getDefaultDataDir() string {
	if dir, err := os.Getwd(); err == nil {
		return filepath.Join(dir, "data")
	}
	return "data"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getIntEnv(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getFloatEnv(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getBoolEnv(key string, fallback bool) bool {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
