package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"

	"tmm/internal/domain"
)

// progressInterval bounds how often download progress callbacks fire, so
// a fast connection cannot saturate the UI channel.
const progressInterval = 200 * time.Millisecond

// DownloadProgressFunc receives rate-limited progress updates with the
// total size (0 if unknown) and bytes downloaded so far.
type DownloadProgressFunc func(total, downloaded int64)

// Downloader streams mod archives over HTTP with progress tracking and
// cooperative cancellation.
type Downloader struct {
	http *resty.Client
}

// NewDownloader creates a Downloader. A nil client gets a default one.
func NewDownloader(client *resty.Client) *Downloader {
	if client == nil {
		client = resty.New().SetTimeout(10 * time.Minute)
	}
	return &Downloader{http: client}
}

// Download streams url to destPath. The file is written to a temporary
// path and renamed on success, so a failed or cancelled download never
// leaves a partial file at destPath. The cancel token is polled between
// chunks; when set, the download aborts with a Cancelled error.
func (d *Downloader) Download(ctx context.Context, url, destPath string, cancel *CancelToken, progressFn DownloadProgressFunc) error {
	resp, err := d.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}

	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != 200 {
		return fmt.Errorf("unexpected status %s for %s", resp.Status(), url)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tempPath := destPath + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer func() {
		file.Close()
		os.Remove(tempPath)
	}()

	reader := &cancelReader{
		reader:     body,
		total:      resp.RawResponse.ContentLength,
		cancel:     cancel,
		progressFn: progressFn,
	}

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("downloading %s: %w", url, err)
	}

	if progressFn != nil {
		progressFn(reader.total, reader.downloaded)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}

	if err := os.Rename(tempPath, destPath); err != nil {
		return fmt.Errorf("renaming file: %w", err)
	}

	return nil
}

// cancelReader wraps the response body to poll the cancel token between
// chunks and emit rate-limited progress callbacks.
type cancelReader struct {
	reader     io.Reader
	total      int64
	downloaded int64
	cancel     *CancelToken
	progressFn DownloadProgressFunc
	lastUpdate time.Time
}

func (r *cancelReader) Read(p []byte) (int, error) {
	if r.cancel != nil && r.cancel.Cancelled() {
		return 0, domain.ErrCancelled
	}

	n, err := r.reader.Read(p)
	if n > 0 {
		r.downloaded += int64(n)
		if r.progressFn != nil && time.Since(r.lastUpdate) >= progressInterval {
			r.progressFn(r.total, r.downloaded)
			r.lastUpdate = time.Now()
		}
	}
	return n, err
}
