// Package elastic implements db.Store on Elasticsearch.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"

	"github.com/openlabor/wagedex/internal/db"
)

// Config holds Elasticsearch connection settings.
type Config struct {
	Addrs      []string
	Username   string
	Password   string
	CACertPath string
}

// Store talks to Elasticsearch through the official client. The client
// pools connections internally; one Store serves the whole process.
type Store struct {
	client *elasticsearch.Client
}

var _ db.Store = (*Store)(nil)

// NewStore creates an Elasticsearch-backed store.
func NewStore(cfg Config) (*Store, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addrs,
		Username:  cfg.Username,
		Password:  cfg.Password,
	}
	if cfg.CACertPath != "" {
		ca, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("read ca cert: %w", err)
		}
		esCfg.CACert = ca
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Store{client: client}, nil
}

// Close releases idle connections.
func (s *Store) Close() {
	if t, ok := s.client.Transport.(interface{ CloseIdleConnections() }); ok {
		t.CloseIdleConnections()
	}
}

// Ping checks cluster reachability.
func (s *Store) Ping(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("ping: %s", res.Status())
	}
	return nil
}

// WaitForReady polls the cluster until it responds or the timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		err := s.Ping(ctx)
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("engine not ready after %s: %w", timeout, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

// wageMappings fixes the index schema: analyzed text for the two match
// fields and half_float for the storage-scaled salary.
const wageMappings = `{
  "mappings": {
    "properties": {
      "job_title": {"type": "text"},
      "city_state": {"type": "text"},
      "salary": {"type": "half_float"}
    }
  }
}`

// EnsureIndex creates the wage index with explicit mappings if absent.
func (s *Store) EnsureIndex(ctx context.Context, index string) error {
	res, err := s.client.Indices.Exists(
		[]string{index},
		s.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index exists %s: %w", index, err)
	}
	res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("index exists %s: %s", index, res.Status())
	}

	cres, err := s.client.Indices.Create(
		index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(bytes.NewReader([]byte(wageMappings))),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", index, err)
	}
	defer cres.Body.Close()
	if cres.IsError() {
		return fmt.Errorf("create index %s: %s", index, cres.Status())
	}
	return nil
}

// Count returns the number of documents in the index.
func (s *Store) Count(ctx context.Context, index string) (int64, error) {
	res, err := s.client.Count(
		s.client.Count.WithContext(ctx),
		s.client.Count.WithIndex(index),
	)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, fmt.Errorf("count %s: %s", index, res.Status())
	}

	var out struct {
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode count response: %w", err)
	}
	return out.Count, nil
}

// BulkIndex writes one batch of documents via the _bulk API.
func (s *Store) BulkIndex(ctx context.Context, index string, docs []db.Document) (db.BulkResult, error) {
	if len(docs) == 0 {
		return db.BulkResult{}, nil
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, doc := range docs {
		action := map[string]any{
			"index": map[string]any{"_index": index, "_id": doc.ID},
		}
		if err := enc.Encode(action); err != nil {
			return db.BulkResult{}, fmt.Errorf("encode bulk action: %w", err)
		}
		if err := enc.Encode(doc.Fields); err != nil {
			return db.BulkResult{}, fmt.Errorf("encode bulk source: %w", err)
		}
	}

	res, err := s.client.Bulk(
		bytes.NewReader(body.Bytes()),
		s.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return db.BulkResult{}, fmt.Errorf("bulk %s: %w", index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return db.BulkResult{}, fmt.Errorf("bulk %s: %s", index, res.Status())
	}

	var out struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return db.BulkResult{}, fmt.Errorf("decode bulk response: %w", err)
	}

	result := db.BulkResult{}
	for _, item := range out.Items {
		for _, op := range item {
			if op.Status >= http.StatusBadRequest {
				result.Failed++
			} else {
				result.Indexed++
			}
		}
	}
	return result, nil
}

// SearchStats runs a filtered aggregation query: no hits returned, only
// the total match count and the salary aggregates.
func (s *Store) SearchStats(ctx context.Context, q *db.StatsQuery) (*db.StatsResult, error) {
	body, err := json.Marshal(buildStatsBody(q))
	if err != nil {
		return nil, fmt.Errorf("marshal stats query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(q.Index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", q.Index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", q.Index, res.Status())
	}

	var out struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
		} `json:"hits"`
		Aggregations struct {
			SalaryMean struct {
				Value *float64 `json:"value"`
			} `json:"salary_mean"`
			SalaryPercentiles struct {
				Values map[string]*float64 `json:"values"`
			} `json:"salary_percentiles"`
		} `json:"aggregations"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	pcts := out.Aggregations.SalaryPercentiles.Values
	return &db.StatsResult{
		Total: out.Hits.Total.Value,
		Mean:  out.Aggregations.SalaryMean.Value,
		P25:   pcts["25.0"],
		P50:   pcts["50.0"],
		P75:   pcts["75.0"],
	}, nil
}

// buildStatsBody renders the engine request: a bool.must of per-field
// blocks, each requiring all of its word matches, plus the fixed
// aggregations. Size 0 with an exact total hit count.
func buildStatsBody(q *db.StatsQuery) map[string]any {
	must := make([]any, 0, len(q.Must))
	for _, tq := range q.Must {
		should := make([]any, 0, len(tq.Terms))
		for _, term := range tq.Terms {
			should = append(should, map[string]any{
				"match": map[string]any{tq.Field: term},
			})
		}
		must = append(must, map[string]any{
			"bool": map[string]any{
				"should":               should,
				"minimum_should_match": "100%",
			},
		})
	}

	percents := make([]any, 0, len(q.Percents))
	for _, p := range q.Percents {
		percents = append(percents, p)
	}

	return map[string]any{
		"size":             0,
		"track_total_hits": true,
		"query": map[string]any{
			"bool": map[string]any{"must": must},
		},
		"aggs": map[string]any{
			"salary_mean": map[string]any{
				"avg": map[string]any{"field": q.AggField},
			},
			"salary_percentiles": map[string]any{
				"percentiles": map[string]any{
					"field":    q.AggField,
					"percents": percents,
				},
			},
		},
	}
}
