package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %q", cfg.LogLevel)
	}
	if cfg.ScraperTimeout != 60*time.Second {
		t.Errorf("expected default scraper timeout 60s, got %v", cfg.ScraperTimeout)
	}
	if cfg.DatabaseMaxConns != 8 {
		t.Errorf("expected default reader pool of 8, got %d", cfg.DatabaseMaxConns)
	}
	if cfg.R2Enabled || cfg.SentryEnabled || cfg.BetterStackEnabled {
		t.Error("expected optional features to default off")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvScraperTimeout, "90s")
	t.Setenv(EnvScraperMaxRetries, "5")
	t.Setenv(EnvSalariesPath, "/tmp/compensation.csv")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.ScraperTimeout != 90*time.Second {
		t.Errorf("expected scraper timeout 90s, got %v", cfg.ScraperTimeout)
	}
	if cfg.ScraperMaxRetries != 5 {
		t.Errorf("expected 5 retries, got %d", cfg.ScraperMaxRetries)
	}
	if cfg.SalariesPath != "/tmp/compensation.csv" {
		t.Errorf("unexpected salaries path: %q", cfg.SalariesPath)
	}
}

func TestValidateRejectsIncompleteR2(t *testing.T) {
	t.Setenv(EnvR2Enabled, "true")

	if _, err := Load(); err == nil {
		t.Error("expected validation to fail without R2 credentials")
	}
}

func TestValidateRejectsSentryWithoutDSN(t *testing.T) {
	t.Setenv(EnvSentryEnabled, "true")

	if _, err := Load(); err == nil {
		t.Error("expected validation to fail without a Sentry DSN")
	}
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv(EnvScraperTimeout, "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ScraperTimeout != 60*time.Second {
		t.Errorf("expected fallback timeout, got %v", cfg.ScraperTimeout)
	}
}
