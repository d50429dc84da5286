package download

import (
	"context"
	"sync"

	"github.com/glorpus-work/photozip/internal/logger"
	"github.com/glorpus-work/photozip/pkg/model"
)

const defaultConcurrency = 5

// Report aggregates the outcomes of one album's downloads. Succeeded counts
// items whose bytes are on disk (downloaded now or skipped as existing).
type Report struct {
	Succeeded int
	Failed    int
	Total     int
}

// AllFailed reports whether the album produced nothing at all.
func (r Report) AllFailed() bool {
	return r.Total > 0 && r.Succeeded == 0 && r.Failed > 0
}

// ProgressFunc receives a tick after each item settles.
type ProgressFunc func(done, total int)

// ItemFetcher is the per-item dependency of the coordinator.
type ItemFetcher interface {
	Fetch(ctx context.Context, item model.MediaItem, destDir string) Outcome
}

// Coordinator runs an album's downloads across a fixed pool of workers and
// waits for every item to settle. A failed item never cancels its siblings.
type Coordinator struct {
	fetcher     ItemFetcher
	concurrency int
	progress    ProgressFunc
}

// NewCoordinator creates a coordinator with the given worker count. progress
// may be nil.
func NewCoordinator(fetcher ItemFetcher, concurrency int, progress ProgressFunc) *Coordinator {
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}
	return &Coordinator{
		fetcher:     fetcher,
		concurrency: concurrency,
		progress:    progress,
	}
}

// Run downloads all items into destDir and blocks until each one has either
// succeeded, been skipped, or exhausted its retries. Items sharing an
// effective filename are dispatched only once; the duplicates count as
// skipped so two workers never race for the same destination file.
func (c *Coordinator) Run(ctx context.Context, items []model.MediaItem, destDir string) Report {
	report := Report{Total: len(items)}
	if len(items) == 0 {
		return report
	}

	tasks := make(chan model.MediaItem)
	results := make(chan Outcome)

	var wg sync.WaitGroup
	for w := 0; w < c.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range tasks {
				results <- c.fetcher.Fetch(ctx, item, destDir)
			}
		}()
	}

	go func() {
		seen := make(map[string]bool, len(items))
		for _, item := range items {
			name := item.EffectiveFilename()
			if seen[name] {
				results <- Outcome{Item: item, Status: StatusSkippedExisting}
				continue
			}
			seen[name] = true
			tasks <- item
		}
		close(tasks)
		wg.Wait()
		close(results)
	}()

	done := 0
	for outcome := range results {
		done++
		if outcome.Succeeded() {
			report.Succeeded++
		} else {
			report.Failed++
			logger.Warnf("download failed for %s: %v", outcome.Item.EffectiveFilename(), outcome.Err)
		}
		if c.progress != nil {
			c.progress(done, report.Total)
		}
	}
	return report
}
