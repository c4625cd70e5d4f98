// Package salarystats translates validated query specs into engine
// requests and raw aggregation output into domain stats.
package salarystats

import (
	"context"
	"fmt"

	"github.com/openlabor/wagedex/internal/db"
	"github.com/openlabor/wagedex/internal/domain/query"
	"github.com/openlabor/wagedex/internal/domain/salary"
)

// store is the consumer interface for stats queries.
type store interface {
	SearchStats(ctx context.Context, q *db.StatsQuery) (*db.StatsResult, error)
}

// Field names of the wage index.
const (
	fieldJobTitle  = "job_title"
	fieldCityState = "city_state"
)

// Repo implements usecase/salarystats.Repository.
type Repo struct {
	store store
	index string
}

// New creates a salary stats repository over the given index.
func New(s store, index string) *Repo {
	return &Repo{store: s, index: index}
}

// Stats executes the query: title terms filter job_title, location terms
// filter city_state, both blocks conjunctive, and the fixed aggregations
// run over whatever matches. Returned values are still storage-scaled.
func (r *Repo) Stats(ctx context.Context, spec query.Spec) (salary.Stats, error) {
	agg := query.FixedAggregation()
	q := &db.StatsQuery{
		Index:    r.index,
		AggField: agg.Field,
		Percents: agg.Percents,
	}
	if len(spec.TitleTerms) > 0 {
		q.Must = append(q.Must, db.TermsQuery{Field: fieldJobTitle, Terms: spec.TitleTerms})
	}
	if len(spec.LocationTerms) > 0 {
		q.Must = append(q.Must, db.TermsQuery{Field: fieldCityState, Terms: spec.LocationTerms})
	}

	sr, err := r.store.SearchStats(ctx, q)
	if err != nil {
		return salary.Stats{}, fmt.Errorf("search stats: %w", err)
	}

	return salary.Stats{
		DataPoints: sr.Total,
		Mean:       sr.Mean,
		P25:        sr.P25,
		P50:        sr.P50,
		P75:        sr.P75,
	}, nil
}
