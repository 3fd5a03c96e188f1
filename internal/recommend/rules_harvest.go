// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package recommend

import (
	"fmt"

	"github.com/verdant-labs/verdant/internal/models"
)

// floweringDaysToHarvest is the typical total flowering length per strain
// class, measured from the flip.
var floweringDaysToHarvest = map[models.StrainClass]int{
	models.StrainIndica: 49,
	models.StrainSativa: 70,
	models.StrainHybrid: 56,
	models.StrainAuto:   49,
}

// nominalFloweringStageDays is the assumed length of the flowering stage
// when the plant has already moved into late flowering, so total days in
// flower can be estimated from the current stage alone.
const nominalFloweringStageDays = 42

// daysInFlower estimates the total days since the flip for plants in either
// flowering stage; -1 when the plant is not in flower.
func daysInFlower(stage models.GrowthStage, daysInStage int) int {
	switch stage {
	case models.StageFlowering:
		return daysInStage
	case models.StageLateFlowering:
		return nominalFloweringStageDays + daysInStage
	default:
		return -1
	}
}

// harvestTimingRule tracks the per-class flowering clock and fires as the
// harvest window approaches and opens.
type harvestTimingRule struct{}

func (harvestTimingRule) Name() string { return "harvest_timing" }

func (harvestTimingRule) Evaluate(in RuleInput) []models.Recommendation {
	if in.Plant == nil {
		return nil
	}
	flowerDays := daysInFlower(in.Plant.Stage, in.DaysInStage)
	if flowerDays < 0 {
		return nil
	}

	target := floweringDaysToHarvest[in.Class]
	if target == 0 {
		target = floweringDaysToHarvest[models.StrainHybrid]
	}

	remaining := target - flowerDays
	if remaining > 7 {
		return nil
	}

	if remaining > 0 {
		return []models.Recommendation{{
			ID:       recommendationID(in.Plant.ID, "harvest_timing"),
			Type:     "harvest_timing",
			Category: models.CategoryHarvest,
			Priority: models.PriorityMedium,
			Title:    "Harvest window approaching",
			Description: fmt.Sprintf("Day %d of flower; %s strains typically finish around day %d. Start checking trichomes daily.",
				flowerDays, in.Class, target),
			Confidence:      0.8,
			Reasoning:       fmt.Sprintf("Within %d days of the typical %s finish.", remaining, in.Class),
			ExpectedBenefit: "Harvesting at peak trichome maturity",
		}}
	}

	return []models.Recommendation{{
		ID:       recommendationID(in.Plant.ID, "harvest_timing"),
		Type:     "harvest_timing",
		Category: models.CategoryHarvest,
		Priority: models.PriorityHigh,
		Title:    "Harvest window open",
		Description: fmt.Sprintf("Day %d of flower, past the typical %s finish of day %d. Check trichomes and harvest.",
			flowerDays, in.Class, target),
		Confidence:      0.9,
		Reasoning:       fmt.Sprintf("Flowering clock is %d days past the typical %s finish.", -remaining, in.Class),
		ExpectedBenefit: "Avoiding over-ripe, degraded trichomes",
	}}
}

// flushRule recommends switching to plain water in the final stretch before
// harvest.
type flushRule struct{}

func (flushRule) Name() string { return "pre_harvest_flush" }

const flushLeadDays = 10

func (flushRule) Evaluate(in RuleInput) []models.Recommendation {
	if in.Plant == nil || in.Plant.Stage != models.StageLateFlowering {
		return nil
	}
	flowerDays := daysInFlower(in.Plant.Stage, in.DaysInStage)

	target := floweringDaysToHarvest[in.Class]
	if target == 0 {
		target = floweringDaysToHarvest[models.StrainHybrid]
	}

	if target-flowerDays > flushLeadDays {
		return nil
	}

	return []models.Recommendation{{
		ID:       recommendationID(in.Plant.ID, "pre_harvest_flush"),
		Type:     "pre_harvest_flush",
		Category: models.CategoryHarvest,
		Priority: models.PriorityMedium,
		Title:    "Begin pre-harvest flush",
		Description: fmt.Sprintf("Roughly %d days from the typical %s finish; switch to plain water so residual nutrients clear before harvest.",
			max(target-flowerDays, 0), in.Class),
		Confidence:      0.75,
		Reasoning:       "Final stretch of late flowering reached.",
		ExpectedBenefit: "Cleaner-burning, better-tasting flower",
	}}
}

// harvestRules returns the fixed-order harvest rule set.
func harvestRules() []Rule {
	return []Rule{
		harvestTimingRule{},
		flushRule{},
	}
}
