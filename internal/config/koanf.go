// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/verdant/config.yaml",
	"/etc/verdant/config.yml",
}

// ConfigPathEnvVar overrides the config file search when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all defaults applied. These are
// layered first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8420,
			Timeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path:      "/data/verdant.duckdb",
			MaxMemory: "1GB",
			Threads:   0, // 0 = runtime.NumCPU()
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Analytics: AnalyticsConfig{
			FreshnessWindow: 24 * time.Hour,
			WindowDays:      30,
			MaxNotes:        5,
		},
		Recommend: RecommendConfig{
			CacheTTL:            1 * time.Hour,
			ConfidenceThreshold: 0.7,
			HistoryLimit:        30,
		},
		Scheduler: SchedulerConfig{
			Enabled:            true,
			AnalyticsInterval:  6 * time.Hour,
			AnalyticsFreshness: 6 * time.Hour,
			BatchConcurrency:   5,
			RetentionDays:      90,
			HealthInterval:     1 * time.Hour,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in values for every setting
//  2. Config file: optional YAML file (if one exists)
//  3. Environment variables: override any setting
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// VERDANT_SERVER_PORT -> server.port, VERDANT_DATABASE_PATH ->
	// database.path, and so on. Short aliases map common settings.
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches CONFIG_PATH then the default paths, returning the
// first existing file or empty string.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps environment variable names to koanf config paths.
// VERDANT_-prefixed variables map positionally (VERDANT_SERVER_PORT ->
// server.port when the section is single-word); the alias table covers
// multi-word keys and legacy short names. Unknown variables are skipped so
// unrelated environment noise never reaches the config.
func envTransformFunc(key string) string {
	lower := strings.ToLower(key)

	envMappings := map[string]string{
		// Server
		"http_host":    "server.host",
		"http_port":    "server.port",
		"http_timeout": "server.timeout",

		// Database
		"duckdb_path":       "database.path",
		"duckdb_max_memory": "database.max_memory",
		"duckdb_threads":    "database.threads",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		// Analytics engine
		"analytics_freshness_window": "analytics.freshness_window",
		"analytics_window_days":      "analytics.window_days",
		"analytics_max_notes":        "analytics.max_notes",

		// Recommendation engine
		"recommend_cache_ttl":            "recommend.cache_ttl",
		"recommend_confidence_threshold": "recommend.confidence_threshold",
		"recommend_history_limit":        "recommend.history_limit",

		// Scheduler
		"scheduler_enabled":             "scheduler.enabled",
		"scheduler_analytics_interval":  "scheduler.analytics_interval",
		"scheduler_analytics_freshness": "scheduler.analytics_freshness",
		"scheduler_batch_concurrency":   "scheduler.batch_concurrency",
		"scheduler_retention_days":      "scheduler.retention_days",
		"scheduler_health_interval":     "scheduler.health_interval",
	}

	if mapped, ok := envMappings[lower]; ok {
		return mapped
	}

	if trimmed, ok := strings.CutPrefix(lower, "verdant_"); ok {
		if mapped, ok := envMappings[trimmed]; ok {
			return mapped
		}
		// Positional fallback: first segment is the section, the rest is
		// the key (verdant_scheduler_retention_days handled by the alias
		// table above; this covers single-word keys like verdant_server_port).
		if section, rest, found := strings.Cut(trimmed, "_"); found {
			return section + "." + rest
		}
	}

	return ""
}
