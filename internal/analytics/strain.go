// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package analytics

import (
	"strings"

	"github.com/verdant-labs/verdant/internal/models"
)

// Keyword tables for strain and medium classification. Classes are checked
// in a fixed precedence order (auto before indica before sativa; hydro
// before coco before soil) so the result never depends on keyword iteration
// order. Matching is case-insensitive substring search.
var (
	autoKeywords   = []string{"auto", "ruderalis"}
	indicaKeywords = []string{"indica", "kush", "afghan", "northern", "bubba"}
	sativaKeywords = []string{"sativa", "haze", "diesel", "jack", "durban"}

	hydroKeywords = []string{"hydro", "dwc", "nft", "aero"}
	cocoKeywords  = []string{"coco", "coir"}
	soilKeywords  = []string{"soil", "earth", "living"}
)

// ClassifyStrain maps a free-text strain label to its coarse genetic class.
// Labels matching no keyword default to hybrid.
func ClassifyStrain(name string) models.StrainClass {
	n := strings.ToLower(name)

	switch {
	case matchesAny(n, autoKeywords):
		return models.StrainAuto
	case matchesAny(n, indicaKeywords):
		return models.StrainIndica
	case matchesAny(n, sativaKeywords):
		return models.StrainSativa
	default:
		return models.StrainHybrid
	}
}

// NormalizeMedium maps a free-text growing-medium label to its canonical
// value, defaulting to soil.
func NormalizeMedium(name string) models.GrowMedium {
	n := strings.ToLower(name)

	switch {
	case matchesAny(n, hydroKeywords):
		return models.MediumHydro
	case matchesAny(n, cocoKeywords):
		return models.MediumCoco
	case matchesAny(n, soilKeywords):
		return models.MediumSoil
	default:
		return models.MediumSoil
	}
}

func matchesAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
