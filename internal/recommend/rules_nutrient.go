// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package recommend

import (
	"fmt"

	"github.com/verdant-labs/verdant/internal/models"
)

// feedingIntervalDays is the expected days between feedings per medium.
// Hydro systems feed continuously and tolerate the shortest gap; soil
// buffers nutrients the longest.
var feedingIntervalDays = map[models.GrowMedium]int{
	models.MediumSoil:  7,
	models.MediumCoco:  4,
	models.MediumHydro: 2,
}

// feedingScheduleRule fires when the last feeding is overdue for the
// plant's medium.
type feedingScheduleRule struct{}

func (feedingScheduleRule) Name() string { return "feeding_schedule" }

func (feedingScheduleRule) Evaluate(in RuleInput) []models.Recommendation {
	if in.Plant == nil || in.Plant.Stage == models.StageSeedling {
		// Seedlings live off the medium; no feeding schedule yet.
		return nil
	}

	interval := feedingIntervalDays[in.Medium]
	if interval == 0 {
		interval = feedingIntervalDays[models.MediumSoil]
	}

	var sinceFeeding int
	if last := lastActivity(in.Activities, models.ActivityFeeding); last != nil {
		sinceFeeding = daysSince(last.RecordedAt, in.Now)
	} else {
		// Never fed: measure from entering the current stage.
		sinceFeeding = in.DaysInStage
	}

	overdue := sinceFeeding - interval
	if overdue <= 0 {
		return nil
	}

	confidence := 0.72 + 0.05*float64(min(overdue, 4))

	return []models.Recommendation{{
		ID:       recommendationID(in.Plant.ID, "feeding_schedule"),
		Type:     "feeding_schedule",
		Category: models.CategoryNutrient,
		Priority: models.PriorityMedium,
		Title:    "Feeding overdue",
		Description: fmt.Sprintf("Last feeding was %d days ago; %s plants in %s are typically fed every %d days.",
			sinceFeeding, in.Plant.Stage, in.Medium, interval),
		Confidence:      confidence,
		Reasoning:       fmt.Sprintf("Feeding gap exceeds the %s interval by %d days.", in.Medium, overdue),
		ExpectedBenefit: "Consistent nutrient availability through the stage",
	}}
}

// deficiencyPreventionRule fires when overall environmental efficiency is
// depressed during flower, when deficiencies cost the most yield.
type deficiencyPreventionRule struct{}

func (deficiencyPreventionRule) Name() string { return "deficiency_prevention" }

func (deficiencyPreventionRule) Evaluate(in RuleInput) []models.Recommendation {
	if in.Plant == nil || in.Analytics == nil {
		return nil
	}
	stage := in.Plant.Stage
	if stage != models.StageFlowering && stage != models.StageLateFlowering {
		return nil
	}

	overall := in.Analytics.Efficiency.OverallScore
	if overall >= 0.6 {
		return nil
	}

	priority := models.PriorityMedium
	if overall < 0.4 {
		priority = models.PriorityHigh
	}

	// Confidence grows as the score sinks below the 0.6 trigger.
	confidence := 0.7 + (0.6-overall)*0.4

	reasoning := "Low efficiency during flower correlates with lockout and deficiency onset."
	if efficiencyDeclining(in.AnalyticsHistory) {
		confidence += 0.05
		reasoning = "Overall efficiency has declined across consecutive analytics runs; sustained decline in flower correlates with lockout and deficiency onset."
	}
	if confidence > 0.9 {
		confidence = 0.9
	}

	return []models.Recommendation{{
		ID:       recommendationID(in.Plant.ID, "deficiency_prevention"),
		Type:     "deficiency_prevention",
		Category: models.CategoryNutrient,
		Priority: priority,
		Title:    "Check for early deficiency signs",
		Description: fmt.Sprintf("Overall environmental efficiency is %.2f during %s; depressed conditions in flower often mask developing deficiencies.",
			overall, stage),
		Confidence:      confidence,
		Reasoning:       reasoning,
		ExpectedBenefit: "Catching deficiencies before they cost bud development",
	}}
}

// efficiencyDeclining reports whether overall efficiency fell strictly
// across the last three analytics records (newest first).
func efficiencyDeclining(history []models.AnalyticsRecord) bool {
	if len(history) < 3 {
		return false
	}
	// history[0] is newest; declining means each record scores below the
	// one before it.
	for i := 0; i < 2; i++ {
		if history[i].Efficiency.OverallScore >= history[i+1].Efficiency.OverallScore {
			return false
		}
	}
	return true
}

// nutrientRules returns the fixed-order nutrient rule set.
func nutrientRules() []Rule {
	return []Rule{
		feedingScheduleRule{},
		deficiencyPreventionRule{},
	}
}
