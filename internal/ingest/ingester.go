// Package ingest turns the wage-survey spreadsheet into indexed records:
// download, stream rows, normalize, convert, bulk-write.
package ingest

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/openlabor/wagedex/internal/domain/wage"
	"github.com/openlabor/wagedex/internal/metrics"
)

// BulkRepo writes record batches to the wage index.
type BulkRepo interface {
	BulkIndex(ctx context.Context, records []wage.Record) (indexed, failed int, err error)
}

// Config holds pipeline settings.
type Config struct {
	SourceURL       string
	DownloadTimeout time.Duration
	Workers         int
	BatchSize       int
}

// Pipeline streams spreadsheet rows through normalization into bulk
// writes. Row transformation is embarrassingly parallel; the bulk write
// is the only synchronization point and belongs to the engine.
type Pipeline struct {
	repo   BulkRepo
	cfg    Config
	m      *metrics.Ingest
	logger *zap.Logger
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(repo BulkRepo, cfg Config, m *metrics.Ingest, logger *zap.Logger) *Pipeline {
	return &Pipeline{repo: repo, cfg: cfg, m: m, logger: logger}
}

// Run downloads the source spreadsheet and ingests it. The spreadsheet
// lives in a temp dir for the duration of the pass.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	tmpDir, err := os.MkdirTemp("", "wagedex-ingest-")
	if err != nil {
		return Summary{}, fmt.Errorf("create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	path := filepath.Join(tmpDir, "wages.xlsx")
	dl := &downloader{
		client:        &http.Client{Timeout: p.cfg.DownloadTimeout},
		downloadBytes: p.m.DownloadBytes,
	}
	if err := dl.download(ctx, p.cfg.SourceURL, path); err != nil {
		return Summary{}, fmt.Errorf("download source: %w", err)
	}

	src, err := openSheet(path)
	if err != nil {
		return Summary{}, err
	}
	defer func() { _ = src.Close() }()

	return p.run(ctx, src)
}

// Summary are the totals of one ingestion pass.
type Summary struct {
	RowsRead int64
	Indexed  int64
	Skipped  int64
	Failed   int64
	Duration time.Duration
}

// run executes the pipeline over an already-open row source:
// producer → channel of batches → N workers → bulk writes.
func (p *Pipeline) run(ctx context.Context, src rowSource) (Summary, error) {
	start := time.Now()

	batches := make(chan []wage.Record, p.cfg.Workers*2)
	var wg sync.WaitGroup
	var indexed, failed atomic.Int64

	for i := 0; i < p.cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			p.worker(ctx, workerID, batches, &indexed, &failed)
		}(i)
	}

	var rowsRead, skipped int64
	var readErr error
	go func() {
		defer close(batches)
		rowsRead, skipped, readErr = p.produce(ctx, src, batches)
	}()

	wg.Wait()

	sum := Summary{
		RowsRead: rowsRead,
		Indexed:  indexed.Load(),
		Skipped:  skipped,
		Failed:   failed.Load(),
		Duration: time.Since(start),
	}
	if readErr != nil {
		return sum, readErr
	}

	p.logger.Info("Ingestion finished",
		zap.Int64("rows_read", sum.RowsRead),
		zap.Int64("indexed", sum.Indexed),
		zap.Int64("skipped", sum.Skipped),
		zap.Int64("failed", sum.Failed),
		zap.Duration("duration", sum.Duration),
	)
	return sum, nil
}

// produce reads rows, builds records, and fills batches. Malformed rows
// are counted and dropped, never fatal.
func (p *Pipeline) produce(
	ctx context.Context, src rowSource, out chan<- []wage.Record,
) (rowsRead, skipped int64, err error) {
	batch := make([]wage.Record, 0, p.cfg.BatchSize)

	err = src.Read(func(r rawRow) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}

		rowsRead++
		rec, reason, ok := buildRecord(r)
		if !ok {
			skipped++
			if p.m != nil {
				p.m.RowsSkipped.WithLabelValues(reason).Inc()
			}
			p.logger.Debug("Row skipped", zap.String("reason", reason))
			return true
		}

		batch = append(batch, rec)
		if len(batch) >= p.cfg.BatchSize {
			out <- batch
			batch = make([]wage.Record, 0, p.cfg.BatchSize)
		}
		return true
	})

	if len(batch) > 0 {
		out <- batch
	}
	return rowsRead, skipped, err
}

// worker drains the batch channel into bulk writes.
func (p *Pipeline) worker(
	ctx context.Context, id int,
	batches <-chan []wage.Record,
	indexed, failed *atomic.Int64,
) {
	for batch := range batches {
		start := time.Now()
		ok, bad, err := p.repo.BulkIndex(ctx, batch)

		if p.m != nil {
			p.m.BatchDuration.Observe(time.Since(start).Seconds())
			p.m.BatchesTotal.Inc()
		}

		if err != nil {
			p.logger.Error("Bulk write failed",
				zap.Int("worker", id),
				zap.Int("batch_size", len(batch)),
				zap.Error(err),
			)
			failed.Add(int64(len(batch)))
			continue
		}

		indexed.Add(int64(ok))
		failed.Add(int64(bad))
		if p.m != nil {
			p.m.RowsIndexed.Add(float64(ok))
		}
	}
}
