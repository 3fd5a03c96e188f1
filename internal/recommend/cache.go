// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package recommend

import (
	"sync"
	"time"

	"github.com/verdant-labs/verdant/internal/models"
)

// cache is the in-memory recommendation-set cache. Expiry is lazy: entries
// past their deadline are treated as absent on read and overwritten by the
// next store; nothing sweeps in the background. Cached sets are immutable
// once stored.
type cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	set       *models.RecommendationSet
	plantID   string
	expiresAt time.Time
}

func newCache() *cache {
	return &cache{entries: make(map[string]cacheEntry)}
}

// get returns the cached set when present and unexpired.
func (c *cache) get(key string, now time.Time) (*models.RecommendationSet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || now.After(entry.expiresAt) {
		return nil, false
	}
	return entry.set, true
}

// store inserts or replaces an entry.
func (c *cache) store(key, plantID string, set *models.RecommendationSet, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		set:       set,
		plantID:   plantID,
		expiresAt: expiresAt,
	}
}

// findRecommendation searches a plant's cached sets for a recommendation by
// id. Expiry is ignored here: an expired snapshot is still the set the user
// is giving feedback on.
func (c *cache) findRecommendation(plantID, recommendationID string) (*models.Recommendation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, entry := range c.entries {
		if entry.plantID != plantID {
			continue
		}
		for i := range entry.set.Recommendations {
			if entry.set.Recommendations[i].ID == recommendationID {
				return &entry.set.Recommendations[i], true
			}
		}
	}
	return nil, false
}

// invalidatePlant removes all entries for one plant and no others,
// returning how many were dropped.
func (c *cache) invalidatePlant(plantID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if entry.plantID == plantID {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// len reports the entry count, expired entries included until touched.
func (c *cache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
