// Package db defines the engine-neutral contract between repositories and
// the search engine driver. Repositories depend on the narrow interfaces;
// the facade exists for the composition root.
package db

import (
	"context"
	"time"
)

// Store is the full engine facade. Consumers should depend on the narrow
// sub-interfaces instead.
type Store interface {
	Pinger
	IndexAdmin
	BulkIndexer
	StatsSearcher
	WaitForReady(ctx context.Context, timeout time.Duration) error
	Close()
}

// Pinger checks engine connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexAdmin manages index lifecycle and occupancy.
type IndexAdmin interface {
	// EnsureIndex creates the index with its field mappings if absent.
	EnsureIndex(ctx context.Context, index string) error
	// Count returns the number of documents in the index.
	Count(ctx context.Context, index string) (int64, error)
}

// Document is one unit of a bulk write.
type Document struct {
	ID     string
	Fields map[string]any
}

// BulkResult summarizes a bulk write.
type BulkResult struct {
	Indexed int
	Failed  int
}

// BulkIndexer writes documents in batches. The engine is the only
// synchronization point of the ingestion pipeline.
type BulkIndexer interface {
	BulkIndex(ctx context.Context, index string, docs []Document) (BulkResult, error)
}

// TermsQuery requires every listed term to match within one analyzed field.
type TermsQuery struct {
	Field string
	Terms []string
}

// StatsQuery filters by the conjunction of its term blocks and asks the
// engine for mean plus percentile aggregations over AggField. No documents
// are returned, only the hit count and the aggregates.
type StatsQuery struct {
	Index    string
	Must     []TermsQuery
	AggField string
	Percents []float64
}

// StatsResult is the raw aggregation output, still storage-scaled. Nil
// pointers mean the aggregation ran over zero documents.
type StatsResult struct {
	Total int64
	Mean  *float64
	P25   *float64
	P50   *float64
	P75   *float64
}

// StatsSearcher executes filtered aggregation queries.
type StatsSearcher interface {
	SearchStats(ctx context.Context, q *StatsQuery) (*StatsResult, error)
}

// CacheStore is the key-value contract backing the optional stats cache.
// Get returns ErrKeyNotFound on a miss.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close()
}
