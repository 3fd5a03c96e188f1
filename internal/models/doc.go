// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

// Package models defines data structures used throughout the Verdant application.
// These models represent plants, environment samples, activity log entries,
// computed analytics records, recommendations, and feedback.
//
// The package is import-leaf: it depends only on the standard library and
// google/uuid so that every other internal package can use it without cycles.
package models
