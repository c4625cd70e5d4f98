package salarystats

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/openlabor/wagedex/internal/db"
	"github.com/openlabor/wagedex/internal/domain/query"
)

func TestStatsBuildsConjunctiveQuery(t *testing.T) {
	repo, ms := newTestRepo(t)

	spec := query.Spec{
		TitleTerms:    []string{"senior", "engineer"},
		LocationTerms: []string{"dallas"},
	}
	if _, err := repo.Stats(context.Background(), spec); err != nil {
		t.Fatalf("Stats: %v", err)
	}

	q := ms.lastQuery
	if q.Index != "wages" {
		t.Errorf("Index = %q, want wages", q.Index)
	}
	if len(q.Must) != 2 {
		t.Fatalf("Must has %d blocks, want 2", len(q.Must))
	}
	if q.Must[0].Field != "job_title" || !reflect.DeepEqual(q.Must[0].Terms, spec.TitleTerms) {
		t.Errorf("title block = %+v", q.Must[0])
	}
	if q.Must[1].Field != "city_state" || !reflect.DeepEqual(q.Must[1].Terms, spec.LocationTerms) {
		t.Errorf("location block = %+v", q.Must[1])
	}
	if q.AggField != "salary" || !reflect.DeepEqual(q.Percents, []float64{25, 50, 75}) {
		t.Errorf("aggregation = %q %v", q.AggField, q.Percents)
	}
}

func TestStatsTitleOnlyOmitsLocationBlock(t *testing.T) {
	repo, ms := newTestRepo(t)

	spec := query.Spec{TitleTerms: []string{"director"}}
	if _, err := repo.Stats(context.Background(), spec); err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(ms.lastQuery.Must) != 1 {
		t.Fatalf("Must has %d blocks, want 1", len(ms.lastQuery.Must))
	}
	if ms.lastQuery.Must[0].Field != "job_title" {
		t.Errorf("block field = %q, want job_title", ms.lastQuery.Must[0].Field)
	}
}

func TestStatsMapsResult(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchStatsFn = func(_ context.Context, _ *db.StatsQuery) (*db.StatsResult, error) {
		return &db.StatsResult{
			Total: 9,
			Mean:  fptr(85.0),
			P25:   fptr(60.0),
			P50:   fptr(80.0),
			P75:   fptr(110.0),
		}, nil
	}

	got, err := repo.Stats(context.Background(), query.Spec{TitleTerms: []string{"java"}})
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if got.DataPoints != 9 {
		t.Errorf("DataPoints = %d, want 9", got.DataPoints)
	}
	if got.Mean == nil || *got.Mean != 85.0 {
		t.Errorf("Mean = %v, want 85", got.Mean)
	}
	if got.P75 == nil || *got.P75 != 110.0 {
		t.Errorf("P75 = %v, want 110", got.P75)
	}
}

func TestStatsPropagatesError(t *testing.T) {
	repo, ms := newTestRepo(t)
	wantErr := errors.New("engine down")
	ms.searchStatsFn = func(_ context.Context, _ *db.StatsQuery) (*db.StatsResult, error) {
		return nil, wantErr
	}

	if _, err := repo.Stats(context.Background(), query.Spec{TitleTerms: []string{"x"}}); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want wrapped %v", err, wantErr)
	}
}
