package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingest holds the ingestion pipeline metrics.
type Ingest struct {
	RowsIndexed   prometheus.Counter
	RowsSkipped   *prometheus.CounterVec
	BatchesTotal  prometheus.Counter
	BatchDuration prometheus.Histogram
	DownloadBytes prometheus.Counter
}

// NewIngest creates and registers the ingestion metrics.
func NewIngest(reg prometheus.Registerer) *Ingest {
	m := &Ingest{
		RowsIndexed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wagedex",
			Name:      "ingest_rows_indexed_total",
			Help:      "Rows successfully indexed",
		}),

		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wagedex",
			Name:      "ingest_rows_skipped_total",
			Help:      "Rows dropped during ingestion",
		}, []string{"reason"}),

		BatchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wagedex",
			Name:      "ingest_batches_total",
			Help:      "Bulk batches sent to the engine",
		}),

		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wagedex",
			Name:      "ingest_batch_duration_seconds",
			Help:      "Bulk write duration",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		DownloadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wagedex",
			Name:      "ingest_download_bytes_total",
			Help:      "Bytes downloaded from the wage-survey source",
		}),
	}

	reg.MustRegister(
		m.RowsIndexed, m.RowsSkipped,
		m.BatchesTotal, m.BatchDuration,
		m.DownloadBytes,
	)

	return m
}
