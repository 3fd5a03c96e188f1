// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

// Package database provides DuckDB-backed persistence for plants,
// environment samples, activity logs, analytics records, and
// recommendation feedback.
//
// The package owns the schema (created at startup, no migrations) and is
// the only layer that speaks SQL. Domain packages depend on narrow
// interfaces that *DB satisfies rather than on this package directly.
//
// The analytics store enforces the record invariants on the write path:
// yield and growth values are range-checked, efficiency sub-scores are
// coerced into the canonical five-key shape and clamped to [0,1], and
// malformed embedded notes are dropped rather than failing the write.
package database
