// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package recommend

import (
	"time"

	"github.com/google/uuid"

	"github.com/verdant-labs/verdant/internal/models"
)

// Rule evaluates one concern against a plant's state and emits zero or more
// recommendations. Rules must be pure: no I/O, no randomness, no clock reads
// outside RuleInput.Now, so the same input always yields the same output.
type Rule interface {
	// Name identifies the rule in logs and recommendation types.
	Name() string

	// Evaluate inspects the input and returns the rule's recommendations.
	// A nil or empty result means the rule has nothing to say.
	Evaluate(in RuleInput) []models.Recommendation
}

// RuleInput is the complete, pre-fetched state a rule may consult. Optional
// fields are nil when the underlying data does not exist; rules that need
// them return nothing.
type RuleInput struct {
	Plant  *models.Plant
	Class  models.StrainClass
	Medium models.GrowMedium

	// DaysInStage is derived from the plant as of Now.
	DaysInStage int

	// Analytics is the plant's latest analytics record, nil when none
	// exists yet.
	Analytics *models.AnalyticsRecord

	// AnalyticsHistory holds the plant's recent analytics records, newest
	// first, for trend-aware rules. May be empty.
	AnalyticsHistory []models.AnalyticsRecord

	// LatestSample is the newest environment sample for the plant's tent
	// within the engine's sample window, nil when the tent is silent.
	LatestSample *models.EnvironmentSample

	// Activities is the plant's activity log over the engine's activity
	// window, oldest first.
	Activities []models.ActivityLogEntry

	// History is the plant's recommendation history, newest first.
	History []models.RecommendationHistoryEntry

	Now time.Time
}

// Options controls a single Generate invocation.
type Options struct {
	// ConfidenceThreshold overrides the configured threshold when
	// non-nil.
	ConfidenceThreshold *float64

	// IncludeHistorical keeps recommendations the user already marked
	// implemented; by default those are suppressed.
	IncludeHistorical bool

	// ForceRefresh bypasses the cache and regenerates.
	ForceRefresh bool
}

// recommendationNamespace scopes the deterministic recommendation IDs.
var recommendationNamespace = uuid.MustParse("8f3c1a52-7d1e-4b6a-9c0d-2e5f8a914b37")

// recommendationID derives the stable ID for a (plant, rule type) pair.
// Regenerating a set never changes the IDs of recommendations that are still
// warranted, so feedback survives cache expiry and recomputation.
func recommendationID(plantID, ruleType string) string {
	return uuid.NewSHA1(recommendationNamespace, []byte(plantID+":"+ruleType)).String()
}

// lastActivity returns the newest entry of the given type, nil when none.
func lastActivity(activities []models.ActivityLogEntry, typ models.ActivityType) *models.ActivityLogEntry {
	for i := len(activities) - 1; i >= 0; i-- {
		if activities[i].Type == typ {
			return &activities[i]
		}
	}
	return nil
}

// daysSince converts an elapsed duration to whole days, zero floor.
func daysSince(from, now time.Time) int {
	if from.IsZero() || now.Before(from) {
		return 0
	}
	return int(now.Sub(from).Hours() / 24)
}
