package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

// downloader streams the wage-survey spreadsheet to local disk.
type downloader struct {
	client        *http.Client
	downloadBytes prometheus.Counter
}

// download fetches url into outPath, writing through a temp file so a
// partial download never looks like a finished one.
func (d *downloader) download(ctx context.Context, url, outPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("download request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download: HTTP %d", resp.StatusCode)
	}

	cleanPath := filepath.Clean(outPath)
	tmpPath := cleanPath + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}

	_, err = io.Copy(f, d.countReader(resp.Body))
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	if err := os.Rename(tmpPath, cleanPath); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (d *downloader) countReader(r io.Reader) io.Reader {
	if d.downloadBytes == nil {
		return r
	}
	return &countingReader{reader: r, counter: d.downloadBytes}
}

// countingReader feeds downloaded byte counts into a metric.
type countingReader struct {
	reader  io.Reader
	counter prometheus.Counter
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	cr.counter.Add(float64(n))
	return n, err
}
