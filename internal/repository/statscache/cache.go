// Package statscache caches scaled salary statistics per query. Records
// are immutable after the one-shot load, so entries can only go stale
// when the index is rebuilt; the TTL bounds that window.
package statscache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/openlabor/wagedex/internal/db"
	"github.com/openlabor/wagedex/internal/domain/salary"
)

const cacheKeyPrefix = "wagedex:stats:"

// store is the consumer interface for the stats cache.
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache is a best-effort read-through cache: every failure degrades to a
// miss and the engine answers instead.
type Cache struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a stats cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	return &Cache{store: s, ttl: ttl, cacheTotal: cacheTotal, logger: logger}
}

// statsEntry is the wire form of a cached result.
type statsEntry struct {
	DataPoints int64    `json:"data_points"`
	Mean       *float64 `json:"mean"`
	P25        *float64 `json:"p25"`
	P50        *float64 `json:"p50"`
	P75        *float64 `json:"p75"`
}

// Get returns the cached stats for a query key, if present.
func (c *Cache) Get(ctx context.Context, queryKey string) (salary.Stats, bool) {
	data, err := c.store.Get(ctx, c.cacheKey(queryKey))
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to read stats cache", zap.String("query", queryKey), zap.Error(err))
		}
		c.incCache("miss")
		return salary.Stats{}, false
	}

	var entry statsEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Warn("Failed to parse cached stats", zap.String("query", queryKey), zap.Error(err))
		c.incCache("miss")
		return salary.Stats{}, false
	}

	c.incCache("hit")
	return salary.Stats{
		DataPoints: entry.DataPoints,
		Mean:       entry.Mean,
		P25:        entry.P25,
		P50:        entry.P50,
		P75:        entry.P75,
	}, true
}

// Set stores the stats for a query key. Errors are logged, never returned.
func (c *Cache) Set(ctx context.Context, queryKey string, stats salary.Stats) {
	data, err := json.Marshal(statsEntry{
		DataPoints: stats.DataPoints,
		Mean:       stats.Mean,
		P25:        stats.P25,
		P50:        stats.P50,
		P75:        stats.P75,
	})
	if err != nil {
		c.logger.Warn("Failed to encode stats for cache", zap.String("query", queryKey), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, c.cacheKey(queryKey), data, c.ttl); err != nil {
		c.logger.Warn("Failed to write stats cache", zap.String("query", queryKey), zap.Error(err))
	}
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *Cache) cacheKey(queryKey string) string {
	h := sha256.Sum256([]byte(queryKey))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}
