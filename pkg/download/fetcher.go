// Package download implements the item download pipeline: a fetcher that
// streams one media item to disk with fixed-delay retries, and a coordinator
// that fans an album's items across a fixed worker pool and aggregates the
// outcomes.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/glorpus-work/photozip/internal/logger"
	pkgerrors "github.com/glorpus-work/photozip/pkg/errors"
	"github.com/glorpus-work/photozip/pkg/model"
)

const userAgent = "photozip/1.0"

// Status classifies the outcome of one item fetch.
type Status int

// Per-item outcomes.
const (
	// StatusSuccess means this run downloaded the item.
	StatusSuccess Status = iota
	// StatusSkippedExisting means the destination file already existed, so
	// no request was made. This is the resume mechanism.
	StatusSkippedExisting
	// StatusFailed means the item could not be fetched. Err carries the last
	// attempt's error.
	StatusFailed
)

// Outcome is the per-item result of a fetch.
type Outcome struct {
	Item   model.MediaItem
	Status Status
	Err    error
}

// Succeeded reports whether the item's bytes are on disk, whether this run
// put them there or an earlier one did.
func (o Outcome) Succeeded() bool {
	return o.Status == StatusSuccess || o.Status == StatusSkippedExisting
}

// Fetcher downloads single media items. Retries use a fixed delay, and only
// for transport or HTTP-status failures; a failure while writing to disk is
// final immediately.
type Fetcher struct {
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
}

// NewFetcher creates a fetcher on top of an HTTP client (whose timeout bounds
// each attempt). maxRetries is the total number of attempts per item.
func NewFetcher(client *http.Client, maxRetries int, retryDelay time.Duration) *Fetcher {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Fetcher{
		client:     client,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// Fetch downloads one item into destDir under the item's effective filename.
// An existing destination file short-circuits to StatusSkippedExisting
// without any network traffic. Every failed attempt removes its partial
// file, so the destination is only ever absent or complete.
func (f *Fetcher) Fetch(ctx context.Context, item model.MediaItem, destDir string) Outcome {
	if item.BaseURL == "" {
		return Outcome{Item: item, Status: StatusFailed, Err: pkgerrors.ErrMissingSource}
	}

	destPath := filepath.Join(destDir, item.EffectiveFilename())
	if _, err := os.Stat(destPath); err == nil {
		return Outcome{Item: item, Status: StatusSkippedExisting}
	}

	downloadURL := item.DownloadURL()
	var lastErr error
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		err := f.fetchOnce(ctx, downloadURL, destPath)
		if err == nil {
			return Outcome{Item: item, Status: StatusSuccess}
		}
		lastErr = err

		var wErr *writeError
		if errors.As(err, &wErr) {
			// Disk-side failure; retrying cannot help.
			break
		}
		if ctx.Err() != nil {
			break
		}
		if attempt < f.maxRetries {
			logger.Debugf("retrying %s (attempt %d/%d): %v", item.EffectiveFilename(), attempt, f.maxRetries, err)
			if err := f.waitForRetry(ctx); err != nil {
				break
			}
		}
	}

	return Outcome{Item: item, Status: StatusFailed, Err: pkgerrors.Wrapf(lastErr, "item %s", item.ID)}
}

// fetchOnce runs a single attempt. On any failure after the destination file
// was created, the partial file is removed before returning.
func (f *Fetcher) fetchOnce(ctx context.Context, downloadURL, destPath string) error {
	resp, err := f.doRequest(ctx, downloadURL)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := writeBody(destPath, resp.Body); err != nil {
		removePartial(destPath)
		return err
	}
	return nil
}

func (f *Fetcher) doRequest(ctx context.Context, downloadURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, http.NoBody)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "request failed")
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d: %w", resp.StatusCode, pkgerrors.ErrDownloadFailed)
	}
	return resp, nil
}

// writeBody streams the response body to destPath without buffering the
// file in memory. Failures on the file side come back as *writeError so the
// caller can tell them apart from a broken stream.
func writeBody(destPath string, body io.Reader) error {
	file, err := os.Create(destPath)
	if err != nil {
		return &writeError{err: err}
	}

	if _, err := io.Copy(file, body); err != nil {
		_ = file.Close()
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return &writeError{err: err}
		}
		return pkgerrors.Wrap(err, "stream interrupted")
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return &writeError{err: err}
	}
	if err := file.Close(); err != nil {
		return &writeError{err: err}
	}
	return nil
}

func (f *Fetcher) waitForRetry(ctx context.Context) error {
	if f.retryDelay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(f.retryDelay):
		return nil
	}
}

func removePartial(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warnf("could not remove partial file %s: %v", path, err)
	}
}

// writeError marks a local filesystem failure during an attempt.
type writeError struct{ err error }

func (e *writeError) Error() string { return e.err.Error() }
func (e *writeError) Unwrap() error { return e.err }
