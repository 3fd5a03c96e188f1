// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

// Package api provides the HTTP surface: plant and telemetry ingestion,
// analytics retrieval, recommendation generation, feedback submission, and
// scheduler control, routed with chi.
//
// Every endpoint returns the models.APIResponse envelope. Domain errors map
// to status codes in one place (respondDomainError): not-found sentinels to
// 404, validation errors to 400 with per-field details, everything else to
// 500 without leaking internals.
package api
