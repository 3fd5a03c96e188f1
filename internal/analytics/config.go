// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package analytics

import (
	"fmt"
	"time"
)

// Config holds analytics engine configuration.
type Config struct {
	// FreshnessWindow is how recent the latest record must be for a
	// non-forced Process call to return it unchanged. Scheduler-driven
	// calls override this per-call with a tighter window.
	FreshnessWindow time.Duration `json:"freshness_window"`

	// WindowDays is the default historical window when the caller gives
	// no explicit date range.
	WindowDays int `json:"window_days"`

	// MaxNotes bounds the embedded textual recommendation list.
	MaxNotes int `json:"max_notes"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		FreshnessWindow: 24 * time.Hour,
		WindowDays:      30,
		MaxNotes:        5,
	}
}

// Validate checks config invariants.
func (c Config) Validate() error {
	if c.FreshnessWindow <= 0 {
		return fmt.Errorf("freshness window must be positive")
	}
	if c.WindowDays <= 0 {
		return fmt.Errorf("window days must be positive")
	}
	if c.MaxNotes < 0 {
		return fmt.Errorf("max notes must not be negative")
	}
	return nil
}
