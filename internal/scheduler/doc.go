// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

// Package scheduler runs the background jobs that keep analytics current:
// a periodic batch recomputation over all active plants, a daily retention
// sweep, and an hourly health probe.
//
// Jobs are interval-driven and skip work that is already fresh. A batch run
// never aborts on a single plant's failure; failures are counted and logged
// and the remaining plants still process. The scheduler integrates with the
// supervisor tree for lifecycle management.
package scheduler
