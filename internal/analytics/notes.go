// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package analytics

import (
	"fmt"

	"github.com/verdant-labs/verdant/internal/models"
)

// noteThreshold is the sub-score below which a dimension earns a textual
// recommendation on the record.
const noteThreshold = 0.5

// buildNotes derives the bounded list of human-readable recommendations
// embedded in an analytics record. Notes are generated in a fixed order
// (environment dimensions, then growth, then stage guidance) and truncated
// at max, so identical inputs always yield the identical list.
func buildNotes(plant *models.Plant, eff models.EnvironmentalEfficiency, growthRate float64, max int) []models.AnalyticsNote {
	var notes []models.AnalyticsNote

	if eff.VPD < noteThreshold {
		notes = append(notes, models.AnalyticsNote{
			Type:    "environment",
			Message: fmt.Sprintf("VPD is outside the optimal range for the %s stage; adjust temperature or humidity to restore transpiration", plant.Stage),
		})
	}
	if eff.Temperature < noteThreshold {
		notes = append(notes, models.AnalyticsNote{
			Type:    "environment",
			Message: fmt.Sprintf("Temperature is drifting from the %s-stage target; check climate control", plant.Stage),
		})
	}
	if eff.Humidity < noteThreshold {
		notes = append(notes, models.AnalyticsNote{
			Type:    "environment",
			Message: fmt.Sprintf("Humidity is off target for the %s stage; adjust dehumidifier or humidifier setpoints", plant.Stage),
		})
	}
	if eff.Light < noteThreshold {
		notes = append(notes, models.AnalyticsNote{
			Type:    "environment",
			Message: fmt.Sprintf("Light intensity is outside the %s-stage PPFD window; adjust fixture height or dimming", plant.Stage),
		})
	}

	if expected := DefaultGrowthRate(plant.Stage); expected > 0 && growthRate < expected*0.5 {
		notes = append(notes, models.AnalyticsNote{
			Type:    "growth",
			Message: "Growth rate is well below the stage expectation; review feeding schedule and root health",
		})
	}

	if plant.Stage == models.StageLateFlowering {
		notes = append(notes, models.AnalyticsNote{
			Type:    "harvest",
			Message: "Harvest window approaching; begin trichome checks and plan the pre-harvest flush",
		})
	}

	if max >= 0 && len(notes) > max {
		notes = notes[:max]
	}
	return notes
}
