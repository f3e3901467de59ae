// Package config defines service configuration and how it is loaded.
package config

import (
	"fmt"
	"strings"
)

// Store drivers accepted by StoreDriver.
var knownDrivers = map[string]bool{
	"memory":   true,
	"sqlite":   true,
	"postgres": true,
	"redis":    true,
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreDriver selects the key-value backend: memory, sqlite, postgres, redis.
	StoreDriver string `koanf:"store_driver"`

	// StoreDSN is the sqlite path or postgres connection string.
	StoreDSN string `koanf:"store_dsn"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisPrefix   string `koanf:"redis_prefix"`

	// AdminPasscode unlocks the admin review routes.
	AdminPasscode string `koanf:"admin_passcode"`

	// CORSAllowedOrigins is a comma-separated origin list; empty allows none.
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`

	// DedupeSize bounds the idempotency-key tracker.
	DedupeSize int `koanf:"dedupe_size"`

	// NotifyQueueSize bounds the notification outbox.
	NotifyQueueSize int `koanf:"notify_queue_size"`

	// NotifyWorkerCount sets the number of notification workers.
	NotifyWorkerCount int `koanf:"notify_worker_count"`

	// UploadMaxBytes rejects simulated uploads above this size.
	UploadMaxBytes int64 `koanf:"upload_max_bytes"`

	// UploadStepIntervalMS is the delay between upload progress steps.
	UploadStepIntervalMS int `koanf:"upload_step_interval_ms"`

	// MetricsSchedule is the cron spec for the metrics refresh job.
	MetricsSchedule string `koanf:"metrics_schedule"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		StoreDriver:          "sqlite",
		StoreDSN:             "novhub.db",
		RedisAddr:            "localhost:6379",
		RedisPrefix:          "novhub",
		AdminPasscode:        "novadmin123",
		DedupeSize:           10_000,
		NotifyQueueSize:      1024,
		NotifyWorkerCount:    2,
		UploadMaxBytes:       5 << 20,
		UploadStepIntervalMS: 60,
		MetricsSchedule:      "@every 10s",
	}
}

// AllowedOrigins splits CORSAllowedOrigins.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if !knownDrivers[c.StoreDriver] {
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	if (c.StoreDriver == "sqlite" || c.StoreDriver == "postgres") && c.StoreDSN == "" {
		return fmt.Errorf("%w: store_dsn is required for %s", ErrInvalidConfig, c.StoreDriver)
	}
	if c.AdminPasscode == "" {
		return fmt.Errorf("%w: admin_passcode must not be empty", ErrInvalidConfig)
	}
	return nil
}
