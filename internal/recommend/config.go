// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package recommend

import (
	"fmt"
	"time"
)

// Config holds recommendation engine configuration.
type Config struct {
	// CacheTTL is how long a generated set stays valid. Expiry is lazy:
	// entries are evaluated on read and replaced on the next generation.
	CacheTTL time.Duration `json:"cache_ttl"`

	// ConfidenceThreshold is the default minimum confidence a
	// recommendation needs to be surfaced. Callers may override per
	// request.
	ConfidenceThreshold float64 `json:"confidence_threshold"`

	// HistoryLimit caps the history entries consulted per generation.
	HistoryLimit int `json:"history_limit"`

	// SampleWindow bounds the lookback for the "latest" environment
	// sample; older readings are treated as absent.
	SampleWindow time.Duration `json:"sample_window"`

	// ActivityWindow bounds the activity-log lookback for the care rules.
	ActivityWindow time.Duration `json:"activity_window"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		CacheTTL:            1 * time.Hour,
		ConfidenceThreshold: 0.7,
		HistoryLimit:        30,
		SampleWindow:        24 * time.Hour,
		ActivityWindow:      30 * 24 * time.Hour,
	}
}

// Validate checks config invariants.
func (c Config) Validate() error {
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold must be in [0,1]")
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history limit must not be negative")
	}
	if c.SampleWindow <= 0 {
		return fmt.Errorf("sample window must be positive")
	}
	if c.ActivityWindow <= 0 {
		return fmt.Errorf("activity window must be positive")
	}
	return nil
}
