// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the absent-entity cases. Callers test with errors.Is;
// they are surfaced to API consumers as 404s and never retried.
var (
	ErrPlantNotFound          = errors.New("plant not found")
	ErrAnalyticsNotFound      = errors.New("analytics record not found")
	ErrRecommendationNotFound = errors.New("recommendation not found")
)

// ValidationError reports out-of-range or malformed input. It carries every
// violated field so a caller can fix the whole payload in one pass; nothing
// is partially persisted when one is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, "; "))
}

// NewValidationError builds a ValidationError from field messages.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
