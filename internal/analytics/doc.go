// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

// Package analytics computes derived cultivation metrics and maintains
// per-plant analytics records.
//
// # Architecture
//
// The package has two layers:
//
//   - Metric library: pure, stateless functions computing a single derived
//     quantity from raw samples (growth rate, stage efficiency, yield
//     prediction, strain/medium classification). No I/O, independently
//     testable, deterministic.
//   - Engine: orchestrates metric calls over a plant's historical window,
//     assembles an AnalyticsRecord, and decides whether recomputation is
//     needed at all (freshness check against the latest stored record).
//
// # Degradation, not errors
//
// Missing samples or measurements never abort a computation. Each affected
// metric falls back to a documented default or zero:
//
//   - No valid height measurements: stage-specific default growth rate
//   - No environment samples: all efficiency sub-scores zero
//   - No activity log: care-quality multiplier floor (0.8)
//
// Only an absent plant is an error (models.ErrPlantNotFound).
//
// # Domain tables
//
// Stage optimal ranges, strain-class offsets, base-yield figures, and
// stage-progression multipliers are encoded as data tables rather than
// branching logic, so extending a class or stage means adding a row.
package analytics
