// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package recommend

import (
	"fmt"

	"github.com/verdant-labs/verdant/internal/analytics"
	"github.com/verdant-labs/verdant/internal/models"
)

// envParameterRule checks one environmental parameter of the latest sample
// against the strain-adjusted stage range. One rule instance per parameter;
// all three share the deviation and confidence math so they behave
// consistently.
type envParameterRule struct {
	name      string
	parameter string
	unit      string
	pick      func(analytics.StageRanges) analytics.OptimalRange
	read      func(*models.EnvironmentSample) float64
	benefit   string
}

func (r *envParameterRule) Name() string { return r.name }

func (r *envParameterRule) Evaluate(in RuleInput) []models.Recommendation {
	if in.Plant == nil || in.LatestSample == nil {
		return nil
	}

	value := r.read(in.LatestSample)
	if value == 0 {
		// Zero means the sensor dimension is absent, not a reading.
		return nil
	}

	target := r.pick(analytics.RangesForStrain(in.Plant.Stage, in.Class))
	if value >= target.Min && value <= target.Max {
		return nil
	}

	directive := "raise"
	if value > target.Max {
		directive = "lower"
	}

	width := target.Max - target.Min
	deviation := target.Min - value
	if value > target.Max {
		deviation = value - target.Max
	}

	// Severity is the deviation relative to the range width: a reading a
	// full width outside the range is maximally severe.
	severity := deviation / width
	if severity > 1 {
		severity = 1
	}

	priority := models.PriorityMedium
	if severity > 0.5 {
		priority = models.PriorityHigh
	}

	confidence := 0.7 + 0.25*severity

	return []models.Recommendation{{
		ID:       recommendationID(in.Plant.ID, r.name),
		Type:     r.name,
		Category: models.CategoryEnvironmental,
		Priority: priority,
		Title:    fmt.Sprintf("%s %s", titleDirective(directive), r.parameter),
		Description: fmt.Sprintf("%s is %.1f %s, outside the %s-stage target of %.1f-%.1f %s.",
			r.parameter, value, r.unit, in.Plant.Stage, target.Min, target.Max, r.unit),
		Actions: []models.RecommendedAction{{
			Parameter:       r.parameter,
			Directive:       directive,
			Current:         value,
			TargetMin:       target.Min,
			TargetMax:       target.Max,
			ExpectedBenefit: r.benefit,
		}},
		Confidence: confidence,
		Reasoning: fmt.Sprintf("Latest reading deviates from the strain-adjusted optimum of %.1f %s by %.1f %s.",
			target.Optimal, r.unit, deviation, r.unit),
		ExpectedBenefit: r.benefit,
	}}
}

func titleDirective(directive string) string {
	if directive == "raise" {
		return "Raise"
	}
	return "Lower"
}

// environmentalRules returns the fixed-order environmental rule set: VPD
// first (the strongest single signal), then temperature and humidity.
func environmentalRules() []Rule {
	return []Rule{
		&envParameterRule{
			name:      "vpd_adjustment",
			parameter: "vpd",
			unit:      "kPa",
			pick:      func(r analytics.StageRanges) analytics.OptimalRange { return r.VPD },
			read:      func(s *models.EnvironmentSample) float64 { return s.VPD },
			benefit:   "Better transpiration and nutrient uptake",
		},
		&envParameterRule{
			name:      "temperature_adjustment",
			parameter: "temperature",
			unit:      "C",
			pick:      func(r analytics.StageRanges) analytics.OptimalRange { return r.Temperature },
			read:      func(s *models.EnvironmentSample) float64 { return s.Temperature },
			benefit:   "Steadier metabolism and reduced stress",
		},
		&envParameterRule{
			name:      "humidity_adjustment",
			parameter: "humidity",
			unit:      "%RH",
			pick:      func(r analytics.StageRanges) analytics.OptimalRange { return r.Humidity },
			read:      func(s *models.EnvironmentSample) float64 { return s.Humidity },
			benefit:   "Lower mold risk and stable VPD",
		},
	}
}
