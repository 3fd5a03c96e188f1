// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

// Package services adapts the process's long-lived components to suture's
// Serve pattern: the HTTP server's blocking ListenAndServe and the
// scheduler's Start/Stop lifecycle both become context-driven services.
package services
