// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

// Package recommend generates actionable, prioritized cultivation
// recommendations from a plant's analytics state.
//
// The engine runs a fixed, ordered set of deterministic rules over the plant
// profile, its latest analytics record, the most recent environment sample,
// the recent activity log, and the recommendation history. Each rule emits
// zero or more confidence-scored recommendations; the engine filters them
// against the caller's confidence threshold, orders them by priority weight
// times confidence, and caches the resulting set with a TTL.
//
// Determinism is a design requirement: the same inputs always produce the
// same recommendation set, with stable IDs, so feedback submitted against a
// cached set still resolves after a recomputation. Recommendation IDs are
// UUIDv5 digests of (plant, rule type), never random.
//
// Rules degrade like the metric library: a missing analytics record or
// sample disables the rules that need it, it never fails the run.
package recommend
