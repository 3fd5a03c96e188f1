// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package recommend

import (
	"fmt"

	"github.com/verdant-labs/verdant/internal/models"
)

// trainingOpportunityRule fires during the mid-vegetative window when no
// recent training has been logged. Training after this window stresses the
// plant too close to flip.
type trainingOpportunityRule struct{}

func (trainingOpportunityRule) Name() string { return "training_opportunity" }

const (
	trainingWindowStartDay = 14
	trainingWindowEndDay   = 35
	trainingRecencyDays    = 14
)

func (trainingOpportunityRule) Evaluate(in RuleInput) []models.Recommendation {
	if in.Plant == nil || in.Plant.Stage != models.StageVegetative {
		return nil
	}
	if in.DaysInStage < trainingWindowStartDay || in.DaysInStage > trainingWindowEndDay {
		return nil
	}
	if last := lastActivity(in.Activities, models.ActivityTraining); last != nil {
		if daysSince(last.RecordedAt, in.Now) < trainingRecencyDays {
			return nil
		}
	}

	return []models.Recommendation{{
		ID:       recommendationID(in.Plant.ID, "training_opportunity"),
		Type:     "training_opportunity",
		Category: models.CategoryCultivation,
		Priority: models.PriorityLow,
		Title:    "Training window open",
		Description: fmt.Sprintf("Day %d of vegetative growth with no recent training; low-stress training now flattens the canopy before flower.",
			in.DaysInStage),
		Confidence:      0.72,
		Reasoning:       "Mid-veg is the lowest-risk window for canopy training.",
		ExpectedBenefit: "More even light distribution across bud sites",
	}}
}

// pruningRule fires early in flower when no pruning has been logged,
// before stretch ends and the lower canopy turns into larf.
type pruningRule struct{}

func (pruningRule) Name() string { return "pruning" }

const (
	pruningWindowStartDay = 7
	pruningWindowEndDay   = 21
	pruningRecencyDays    = 14
)

func (pruningRule) Evaluate(in RuleInput) []models.Recommendation {
	if in.Plant == nil || in.Plant.Stage != models.StageFlowering {
		return nil
	}
	if in.DaysInStage < pruningWindowStartDay || in.DaysInStage > pruningWindowEndDay {
		return nil
	}
	if last := lastActivity(in.Activities, models.ActivityPruning); last != nil {
		if daysSince(last.RecordedAt, in.Now) < pruningRecencyDays {
			return nil
		}
	}

	return []models.Recommendation{{
		ID:       recommendationID(in.Plant.ID, "pruning"),
		Type:     "pruning",
		Category: models.CategoryCultivation,
		Priority: models.PriorityLow,
		Title:    "Prune the lower canopy",
		Description: fmt.Sprintf("Day %d of flower with no pruning logged; clearing shaded growth now redirects energy to the top colas.",
			in.DaysInStage),
		Confidence:      0.7,
		Reasoning:       "Early flower is the last safe point to defoliate below the canopy.",
		ExpectedBenefit: "Denser top buds and better airflow",
	}}
}

// cultivationRules returns the fixed-order cultivation rule set.
func cultivationRules() []Rule {
	return []Rule{
		trainingOpportunityRule{},
		pruningRule{},
	}
}
