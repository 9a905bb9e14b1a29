// Package config defines environment variable keys for configuration.
package config

const (
	// Server
	EnvPort            = "PERDUE_PORT"
	EnvLogLevel        = "PERDUE_LOG_LEVEL"
	EnvShutdownTimeout = "PERDUE_SHUTDOWN_TIMEOUT"
	EnvEnvironment     = "PERDUE_ENVIRONMENT"

	// Data
	EnvDataDir      = "PERDUE_DATA_DIR"
	EnvSalariesPath = "PERDUE_SALARIES_PATH"

	// Scraper
	EnvScraperTimeout    = "PERDUE_SCRAPER_TIMEOUT"
	EnvScraperMaxRetries = "PERDUE_SCRAPER_MAX_RETRIES"

	// Database
	EnvDatabaseMaxConns = "PERDUE_DATABASE_MAX_CONNECTIONS"

	// Snapshot storage (S3-compatible, e.g. Cloudflare R2)
	EnvR2Enabled         = "PERDUE_R2_ENABLED"
	EnvR2Endpoint        = "PERDUE_R2_ENDPOINT"
	EnvR2AccessKeyID     = "PERDUE_R2_ACCESS_KEY_ID"
	EnvR2SecretAccessKey = "PERDUE_R2_SECRET_ACCESS_KEY"
	EnvR2BucketName      = "PERDUE_R2_BUCKET_NAME"
	EnvR2SnapshotKey     = "PERDUE_R2_SNAPSHOT_KEY"

	// Sentry error tracking
	EnvSentryEnabled    = "PERDUE_SENTRY_ENABLED"
	EnvSentryDSN        = "PERDUE_SENTRY_DSN"
	EnvSentrySampleRate = "PERDUE_SENTRY_SAMPLE_RATE"

	// Better Stack logging
	EnvBetterStackEnabled  = "PERDUE_BETTERSTACK_ENABLED"
	EnvBetterStackToken    = "PERDUE_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "PERDUE_BETTERSTACK_ENDPOINT"
)
