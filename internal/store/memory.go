package store

import (
	"sync"
	"time"

	"github.com/avelichka/skycast/internal/weather"
)

type cachedReport struct {
	report  weather.Report
	savedAt time.Time
}

// ReportCache is a concurrency-safe in-memory cache of weather reports keyed
// by normalized city name.
type ReportCache struct {
	mu      sync.RWMutex
	entries map[string]cachedReport

	maxEntries int           // max cached cities (<= 0 means unlimited)
	maxAge     time.Duration // report freshness window (<= 0 means no expiry)
}

// NewReportCache creates a ReportCache with optional limits.
func NewReportCache(maxEntries int, maxAge time.Duration) *ReportCache {
	return &ReportCache{
		entries:    make(map[string]cachedReport),
		maxEntries: maxEntries,
		maxAge:     maxAge,
	}
}

// Save stores a fresh report, evicting the stalest entry when full.
func (c *ReportCache) Save(key string, report weather.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		if _, exists := c.entries[key]; !exists {
			c.evictOldestLocked()
		}
	}

	c.entries[key] = cachedReport{report: report, savedAt: time.Now()}
}

// Get returns the cached report for key if one exists and is still fresh.
func (c *ReportCache) Get(key string) (weather.Report, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return weather.Report{}, false
	}
	if c.maxAge > 0 && time.Since(entry.savedAt) > c.maxAge {
		return weather.Report{}, false
	}
	return entry.report, true
}

// Prune drops expired entries and reports how many were removed.
func (c *ReportCache) Prune() int {
	if c.maxAge <= 0 {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().Add(-c.maxAge)
	removed := 0
	for key, entry := range c.entries {
		if entry.savedAt.Before(cutoff) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

func (c *ReportCache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.savedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.savedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
