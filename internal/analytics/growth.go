// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package analytics

import (
	"github.com/verdant-labs/verdant/internal/models"
)

// growthRateDefaults are the cm/day fallbacks used when a plant has too few
// valid height measurements to compute a rate. Stretch is strongest in veg,
// tapers through flower, and stops at harvest.
var growthRateDefaults = map[models.GrowthStage]float64{
	models.StageSeedling:      0.5,
	models.StageVegetative:    2.0,
	models.StageFlowering:     0.8,
	models.StageLateFlowering: 0.8,
	models.StageHarvest:       0,
}

// growthRateWindow is how many trailing measurements contribute to the rate.
const growthRateWindow = 5

// GrowthRate estimates the plant's growth rate in cm/day from chronologically
// sorted height measurements.
//
// The last 5 measurements are considered. For each consecutive interval with
// non-negative height delta and positive elapsed time, the per-day rate is
// computed; the result is the average of those interval rates, clamped to
// [0,10]. With fewer than 2 valid measurements, or no valid interval, the
// stage-specific default is returned instead — never NaN.
func GrowthRate(stage models.GrowthStage, measurements []models.HeightMeasurement) float64 {
	valid := make([]models.HeightMeasurement, 0, len(measurements))
	for _, m := range measurements {
		if m.HeightCM > 0 && !m.RecordedAt.IsZero() {
			valid = append(valid, m)
		}
	}

	if len(valid) > growthRateWindow {
		valid = valid[len(valid)-growthRateWindow:]
	}
	if len(valid) < 2 {
		return growthRateDefaults[stage]
	}

	var sum float64
	var intervals int
	for i := 1; i < len(valid); i++ {
		deltaH := valid[i].HeightCM - valid[i-1].HeightCM
		deltaDays := valid[i].RecordedAt.Sub(valid[i-1].RecordedAt).Hours() / 24

		// Shrinking or same-instant readings are sensor noise, not growth.
		if deltaH < 0 || deltaDays <= 0 {
			continue
		}
		sum += deltaH / deltaDays
		intervals++
	}

	if intervals == 0 {
		return growthRateDefaults[stage]
	}

	return clamp(sum/float64(intervals), models.GrowthRateMin, models.GrowthRateMax)
}

// DefaultGrowthRate exposes the stage fallback, used by rules comparing an
// observed rate against the stage's expectation.
func DefaultGrowthRate(stage models.GrowthStage) float64 {
	return growthRateDefaults[stage]
}

// ExtractHeightMeasurements pulls (timestamp, height) pairs from measurement
// activity entries, preserving the input order.
func ExtractHeightMeasurements(entries []models.ActivityLogEntry) []models.HeightMeasurement {
	out := make([]models.HeightMeasurement, 0, len(entries))
	for _, e := range entries {
		if e.Type != models.ActivityMeasurement || e.Value == nil {
			continue
		}
		out = append(out, models.HeightMeasurement{
			RecordedAt: e.RecordedAt,
			HeightCM:   *e.Value,
		})
	}
	return out
}
