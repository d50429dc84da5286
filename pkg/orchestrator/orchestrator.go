package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glorpus-work/photozip/internal/logger"
	"github.com/glorpus-work/photozip/pkg/archive"
	"github.com/glorpus-work/photozip/pkg/fsutil"
	"github.com/glorpus-work/photozip/pkg/hook"
	"github.com/glorpus-work/photozip/pkg/model"
	"github.com/glorpus-work/photozip/pkg/photos"
)

// Orchestrator ties the catalog, download and archive layers together for
// album runs.
type Orchestrator struct {
	Catalog    Catalog
	Downloader Downloader
	Archiver   Archiver
	Hooks      HookRunner // optional user scripts
	Events     Events     // progress notifications
}

// New constructs a default Orchestrator from existing components. Helper for
// wiring. hooks may be nil and events may be zero.
func New(catalog Catalog, downloader Downloader, archiver Archiver, hooks HookRunner, events Events) *Orchestrator {
	return &Orchestrator{
		Catalog:    catalog,
		Downloader: downloader,
		Archiver:   archiver,
		Hooks:      hooks,
		Events:     events,
	}
}

func emit(ev Events, e Event) {
	if ev.OnEvent != nil {
		ev.OnEvent(e)
	}
}

// ListAllAlbums returns every album in the library. When pagination breaks
// partway through, the albums collected so far are returned and the failure
// is only logged; an immediate failure is returned as an error.
func (o *Orchestrator) ListAllAlbums(ctx context.Context) ([]model.Album, error) {
	if o.Catalog == nil {
		return nil, fmt.Errorf("catalog client is not configured")
	}

	albums, err := photos.Collect(ctx, o.Catalog.Albums())
	if err != nil {
		if len(albums) == 0 {
			return nil, err
		}
		logger.Warnf("album listing incomplete, continuing with %d albums: %v", len(albums), err)
	}
	return albums, nil
}

// DownloadOne fetches a single album by ID and processes it. The returned
// error covers lookup failures only; everything past that point is encoded
// in the outcome.
func (o *Orchestrator) DownloadOne(ctx context.Context, albumID string, opts Options) (AlbumOutcome, error) {
	if o.Catalog == nil {
		return AlbumOutcome{}, fmt.Errorf("catalog client is not configured")
	}

	album, err := o.Catalog.GetAlbum(ctx, albumID)
	if err != nil {
		return AlbumOutcome{}, err
	}
	return o.processAlbum(ctx, album, opts), nil
}

// DownloadAll lists every album and processes them one at a time. A failed
// album is recorded in its outcome and never stops the remaining albums;
// only context cancellation cuts the run short.
func (o *Orchestrator) DownloadAll(ctx context.Context, opts Options) ([]AlbumOutcome, error) {
	albums, err := o.ListAllAlbums(ctx)
	if err != nil {
		return nil, err
	}

	outcomes := make([]AlbumOutcome, 0, len(albums))
	for _, album := range albums {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		outcome := o.processAlbum(ctx, album, opts)
		if outcome.Err != nil {
			logger.Errorf("album %q: %v", album.Title, outcome.Err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// processAlbum drives one album through its full lifecycle: archive
// pre-check, pre-album hook, media listing, downloads, archive build and
// post-archive hook.
func (o *Orchestrator) processAlbum(ctx context.Context, album model.Album, opts Options) AlbumOutcome {
	outcome := AlbumOutcome{Album: album}

	safeTitle := album.SafeTitle()
	stagingDir := filepath.Join(opts.DownloadDir, safeTitle+"_temp")
	archivePath := filepath.Join(opts.DownloadDir, safeTitle+".zip")

	// An existing archive settles the album before any API call is made.
	if _, err := os.Stat(archivePath); err == nil {
		emit(o.Events, Event{Phase: "done", Album: album.ID, Msg: "archive already exists"})
		outcome.Status = StatusArchiveAlreadyExists
		outcome.Archive = archivePath
		return outcome
	}

	if o.Hooks != nil {
		skip, err := o.Hooks.Execute(hook.PreAlbum, hook.Context{
			AlbumID:    album.ID,
			AlbumTitle: album.Title,
		})
		if err != nil {
			outcome.Status = StatusFailed
			outcome.Err = err
			return outcome
		}
		if skip {
			logger.Infof("album %q skipped by pre-album hook", album.Title)
			outcome.Status = StatusSkippedByHook
			return outcome
		}
	}

	emit(o.Events, Event{Phase: "listing", Album: album.ID, Msg: album.Title})
	items, err := photos.Collect(ctx, o.Catalog.MediaItems(album.ID))
	if err != nil {
		if len(items) == 0 {
			outcome.Status = StatusFailed
			outcome.Err = err
			return outcome
		}
		logger.Warnf("media listing for %q incomplete, continuing with %d items: %v", album.Title, len(items), err)
	}
	if len(items) == 0 {
		outcome.Status = StatusNoMediaItems
		return outcome
	}

	if err := fsutil.EnsureDir(stagingDir); err != nil {
		outcome.Status = StatusFailed
		outcome.Err = err
		return outcome
	}
	// The builder removes staging on its own exit paths; this backstop keeps
	// the directory from surviving the paths that never reach it.
	defer removeStaging(stagingDir)

	emit(o.Events, Event{Phase: "downloading", Album: album.ID, Msg: fmt.Sprintf("%d items", len(items))})
	report := o.Downloader.Run(ctx, items, stagingDir)
	outcome.Report = report

	if report.AllFailed() {
		outcome.Status = StatusAllDownloadsFailed
		return outcome
	}

	emit(o.Events, Event{Phase: "archiving", Album: album.ID, Msg: archivePath})
	result := o.Archiver.Build(ctx, stagingDir, archivePath)
	outcome.Archive = result.Path
	switch result.Status {
	case archive.StatusCreated:
		outcome.Status = StatusArchiveCreated
	case archive.StatusSkippedAlreadyExists:
		outcome.Status = StatusArchiveAlreadyExists
	case archive.StatusSkippedNoContent:
		outcome.Status = StatusNoMediaItems
	default:
		outcome.Status = StatusArchiveFailed
		outcome.Err = result.Err
		return outcome
	}

	if o.Hooks != nil && outcome.Status == StatusArchiveCreated {
		// The archive is already on disk, so a failing script only warns.
		if _, err := o.Hooks.Execute(hook.PostArchive, hook.Context{
			AlbumID:     album.ID,
			AlbumTitle:  album.Title,
			ArchivePath: result.Path,
			Succeeded:   report.Succeeded,
			Failed:      report.Failed,
		}); err != nil {
			logger.Warnf("post-archive hook for %q: %v", album.Title, err)
		}
	}

	emit(o.Events, Event{Phase: "done", Album: album.ID, Msg: string(outcome.Status)})
	return outcome
}

func removeStaging(stagingDir string) {
	if err := os.RemoveAll(stagingDir); err != nil {
		logger.Warnf("could not remove staging directory %s: %v", stagingDir, err)
	}
}
