// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

// Package supervisor builds the suture supervision tree that runs the
// long-lived parts of the process: the background job scheduler and the
// HTTP server, each under its own child supervisor so a crash loop in one
// layer does not take down the other.
package supervisor
