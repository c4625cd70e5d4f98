package salarystats

import (
	"context"
	"errors"
	"testing"

	"github.com/openlabor/wagedex/internal/domain"
	"github.com/openlabor/wagedex/internal/domain/salary"
)

func TestQueryScalesResults(t *testing.T) {
	repo := &mockRepo{stats: salary.Stats{
		DataPoints: 42,
		Mean:       fptr(150.1234),
		P25:        fptr(100.0),
		P50:        fptr(140.0),
		P75:        fptr(180.0),
	}}
	svc := New(repo, nil)

	stats, err := svc.Query(context.Background(), "software engineer", "dallas")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	if stats.DataPoints != 42 {
		t.Errorf("DataPoints = %d, want 42", stats.DataPoints)
	}
	if *stats.Mean != 150123.4 {
		t.Errorf("Mean = %v, want 150123.4", *stats.Mean)
	}
	if *stats.P50 != 140000.0 {
		t.Errorf("P50 = %v, want 140000.0", *stats.P50)
	}

	if len(repo.lastSpec.TitleTerms) != 2 {
		t.Errorf("TitleTerms = %v, want two terms", repo.lastSpec.TitleTerms)
	}
	if len(repo.lastSpec.LocationTerms) != 1 {
		t.Errorf("LocationTerms = %v, want one term", repo.lastSpec.LocationTerms)
	}
}

func TestQueryNoMatches(t *testing.T) {
	repo := &mockRepo{stats: salary.Stats{DataPoints: 0}}
	svc := New(repo, nil)

	stats, err := svc.Query(context.Background(), "unobtainium wrangler", "")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if stats.DataPoints != 0 {
		t.Errorf("DataPoints = %d, want 0", stats.DataPoints)
	}
	if stats.Mean != nil || stats.P25 != nil || stats.P50 != nil || stats.P75 != nil {
		t.Error("statistics must stay nil when nothing matched")
	}
}

func TestQueryBothEmpty(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, nil)

	_, err := svc.Query(context.Background(), "   ", "")
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("error = %v, want ErrInvalidQuery", err)
	}
	if repo.called != 0 {
		t.Error("repository must not be hit for an invalid query")
	}
}

func TestQueryRepoError(t *testing.T) {
	repoErr := errors.New("engine unavailable")
	svc := New(&mockRepo{err: repoErr}, nil)

	_, err := svc.Query(context.Background(), "engineer", "")
	if !errors.Is(err, repoErr) {
		t.Fatalf("error = %v, want %v", err, repoErr)
	}
}

func TestQueryCacheHitSkipsRepo(t *testing.T) {
	repo := &mockRepo{}
	cache := newMockCache()
	svc := New(repo, cache)

	cached := salary.Stats{DataPoints: 7, Mean: fptr(95000.0)}
	cache.entries["engineer|dallas"] = cached

	stats, err := svc.Query(context.Background(), "Engineer", "Dallas")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if stats.DataPoints != 7 || *stats.Mean != 95000.0 {
		t.Errorf("stats = %+v, want cached entry", stats)
	}
	if repo.called != 0 {
		t.Error("repository must not be hit on a cache hit")
	}
}

func TestQueryCacheMissPopulates(t *testing.T) {
	repo := &mockRepo{stats: salary.Stats{DataPoints: 3, Mean: fptr(100.0)}}
	cache := newMockCache()
	svc := New(repo, cache)

	stats, err := svc.Query(context.Background(), "engineer", "dallas")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if repo.called != 1 {
		t.Fatalf("repo called %d times, want 1", repo.called)
	}
	if cache.sets != 1 {
		t.Fatalf("cache.Set called %d times, want 1", cache.sets)
	}
	// The cached value is the scaled result, not the raw one.
	if got := cache.entries["engineer|dallas"]; *got.Mean != *stats.Mean {
		t.Errorf("cached Mean = %v, want %v", *got.Mean, *stats.Mean)
	}
	if *stats.Mean != 100000.0 {
		t.Errorf("Mean = %v, want 100000.0", *stats.Mean)
	}
}
