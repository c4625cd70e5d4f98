// Package wageindex is the ingestion-side view of the wage index:
// lifecycle, occupancy, and bulk writes.
package wageindex

import (
	"context"
	"fmt"

	"github.com/openlabor/wagedex/internal/db"
	"github.com/openlabor/wagedex/internal/domain/wage"
)

// store is the consumer interface for index administration and bulk writes.
type store interface {
	EnsureIndex(ctx context.Context, index string) error
	Count(ctx context.Context, index string) (int64, error)
	BulkIndex(ctx context.Context, index string, docs []db.Document) (db.BulkResult, error)
}

// Repo implements usecase/ingest.IndexRepo.
type Repo struct {
	store store
	index string
}

// New creates a wage index repository.
func New(s store, index string) *Repo {
	return &Repo{store: s, index: index}
}

// Ensure creates the index with its mappings if it does not exist.
func (r *Repo) Ensure(ctx context.Context) error {
	if err := r.store.EnsureIndex(ctx, r.index); err != nil {
		return fmt.Errorf("ensure index %s: %w", r.index, err)
	}
	return nil
}

// Count returns the number of documents currently in the index.
func (r *Repo) Count(ctx context.Context) (int64, error) {
	n, err := r.store.Count(ctx, r.index)
	if err != nil {
		return 0, fmt.Errorf("count index %s: %w", r.index, err)
	}
	return n, nil
}

// BulkIndex writes one batch of wage records.
func (r *Repo) BulkIndex(ctx context.Context, records []wage.Record) (indexed, failed int, err error) {
	docs := make([]db.Document, 0, len(records))
	for _, rec := range records {
		docs = append(docs, db.Document{
			ID: rec.ID,
			Fields: map[string]any{
				"job_title":  rec.JobTitle,
				"city_state": rec.CityState,
				"salary":     rec.Salary,
			},
		})
	}

	res, err := r.store.BulkIndex(ctx, r.index, docs)
	if err != nil {
		return 0, 0, fmt.Errorf("bulk index %s: %w", r.index, err)
	}
	return res.Indexed, res.Failed, nil
}
