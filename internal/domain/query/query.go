// Package query assembles validated salary queries from user text.
package query

import (
	"strings"

	"github.com/openlabor/wagedex/internal/domain"
	"github.com/openlabor/wagedex/internal/domain/text"
)

// Spec is a validated query: per-field term lists, each conjunctive.
// Every title term must match somewhere in job_title and every location
// term somewhere in city_state; term order never affects the result set.
type Spec struct {
	TitleTerms    []string
	LocationTerms []string
}

// Aggregation is the statistics request attached to every query: the mean
// plus a fixed percentile set over the salary field. Not user-configurable.
type Aggregation struct {
	Field    string
	Percents []float64
}

// FixedAggregation returns the one aggregation this service ever asks for.
func FixedAggregation() Aggregation {
	return Aggregation{Field: "salary", Percents: []float64{25, 50, 75}}
}

// Build validates and normalizes a (title, location) pair. Both inputs are
// trimmed first; if both are empty the query is rejected. Each remaining
// input is canonicalized exactly like ingested text and split into words.
func Build(title, location string) (Spec, error) {
	title = strings.TrimSpace(title)
	location = strings.TrimSpace(location)
	if title == "" && location == "" {
		return Spec{}, domain.ErrInvalidQuery
	}
	return Spec{
		TitleTerms:    terms(title),
		LocationTerms: terms(location),
	}, nil
}

// CacheKey is a stable identity for the query's result set. Term order is
// preserved: reordered words produce the same result set but are cached
// separately, which only costs a duplicate entry.
func (s Spec) CacheKey() string {
	return strings.Join(s.TitleTerms, " ") + "|" + strings.Join(s.LocationTerms, " ")
}

func terms(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Fields(text.Normalize(s))
}
