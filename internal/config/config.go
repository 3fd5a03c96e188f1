// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML config file, and environment variables (highest priority).
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Logging   LoggingConfig   `koanf:"logging"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	Recommend RecommendConfig `koanf:"recommend"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds DuckDB configuration.
type DatabaseConfig struct {
	// Path is the database file location. ":memory:" opens an in-memory
	// database (used by tests).
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`

	// Threads caps DuckDB's worker threads. 0 means runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// LoggingConfig holds log output configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// AnalyticsConfig holds analytics engine configuration.
type AnalyticsConfig struct {
	// FreshnessWindow is how recent the latest analytics record must be
	// for an on-demand request to reuse it instead of recomputing.
	FreshnessWindow time.Duration `koanf:"freshness_window"`

	// WindowDays is the default historical window for metric computation.
	WindowDays int `koanf:"window_days"`

	// MaxNotes bounds the textual recommendations embedded in a record.
	MaxNotes int `koanf:"max_notes"`
}

// RecommendConfig holds recommendation engine configuration.
type RecommendConfig struct {
	// CacheTTL is how long a generated recommendation set stays valid.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// ConfidenceThreshold filters out low-confidence recommendations.
	ConfidenceThreshold float64 `koanf:"confidence_threshold"`

	// HistoryLimit caps the recent recommendation history consulted for
	// repetition damping.
	HistoryLimit int `koanf:"history_limit"`
}

// SchedulerConfig holds background scheduler configuration.
type SchedulerConfig struct {
	Enabled bool `koanf:"enabled"`

	// AnalyticsInterval is the cadence of the batch analytics job.
	AnalyticsInterval time.Duration `koanf:"analytics_interval"`

	// AnalyticsFreshness is the freshness window batch runs pass to the
	// engine, tighter than the on-demand default.
	AnalyticsFreshness time.Duration `koanf:"analytics_freshness"`

	// BatchConcurrency caps concurrent per-plant computations in a batch.
	BatchConcurrency int `koanf:"batch_concurrency"`

	// RetentionDays is how long analytics history is kept before the
	// daily sweep prunes it.
	RetentionDays int `koanf:"retention_days"`

	// HealthInterval is the cadence of the health probe job.
	HealthInterval time.Duration `koanf:"health_interval"`
}

// Validate checks configuration invariants across all sections.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateAnalytics(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateScheduler(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive, got %s", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("database threads must not be negative, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateAnalytics() error {
	if c.Analytics.FreshnessWindow <= 0 {
		return fmt.Errorf("analytics freshness window must be positive, got %s", c.Analytics.FreshnessWindow)
	}
	if c.Analytics.WindowDays <= 0 {
		return fmt.Errorf("analytics window days must be positive, got %d", c.Analytics.WindowDays)
	}
	if c.Analytics.MaxNotes < 0 {
		return fmt.Errorf("analytics max notes must not be negative, got %d", c.Analytics.MaxNotes)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.CacheTTL <= 0 {
		return fmt.Errorf("recommend cache TTL must be positive, got %s", c.Recommend.CacheTTL)
	}
	if c.Recommend.ConfidenceThreshold < 0 || c.Recommend.ConfidenceThreshold > 1 {
		return fmt.Errorf("recommend confidence threshold must be in [0,1], got %v", c.Recommend.ConfidenceThreshold)
	}
	if c.Recommend.HistoryLimit < 0 {
		return fmt.Errorf("recommend history limit must not be negative, got %d", c.Recommend.HistoryLimit)
	}
	return nil
}

func (c *Config) validateScheduler() error {
	if c.Scheduler.AnalyticsInterval <= 0 {
		return fmt.Errorf("scheduler analytics interval must be positive, got %s", c.Scheduler.AnalyticsInterval)
	}
	if c.Scheduler.AnalyticsFreshness <= 0 {
		return fmt.Errorf("scheduler analytics freshness must be positive, got %s", c.Scheduler.AnalyticsFreshness)
	}
	if c.Scheduler.BatchConcurrency < 1 {
		return fmt.Errorf("scheduler batch concurrency must be at least 1, got %d", c.Scheduler.BatchConcurrency)
	}
	if c.Scheduler.RetentionDays < 1 {
		return fmt.Errorf("scheduler retention days must be at least 1, got %d", c.Scheduler.RetentionDays)
	}
	if c.Scheduler.HealthInterval <= 0 {
		return fmt.Errorf("scheduler health interval must be positive, got %s", c.Scheduler.HealthInterval)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format %q (must be json or console)", c.Logging.Format)
	}
	return nil
}
