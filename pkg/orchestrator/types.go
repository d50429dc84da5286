//go:generate mockgen -destination=./mocks/orchestrator.go . Catalog,Downloader,Archiver,HookRunner

package orchestrator

import (
	"context"

	"github.com/glorpus-work/photozip/pkg/archive"
	"github.com/glorpus-work/photozip/pkg/download"
	"github.com/glorpus-work/photozip/pkg/hook"
	"github.com/glorpus-work/photozip/pkg/model"
	"github.com/glorpus-work/photozip/pkg/photos"
)

// Catalog is the subset of the photos client used by the orchestrator.
type Catalog interface {
	GetAlbum(ctx context.Context, id string) (model.Album, error)
	Albums() photos.PageFunc[model.Album]
	MediaItems(albumID string) photos.PageFunc[model.MediaItem]
}

// Downloader runs all downloads for one album and reports the counts.
type Downloader interface {
	Run(ctx context.Context, items []model.MediaItem, destDir string) download.Report
}

// Archiver turns a staging directory into the album's archive.
type Archiver interface {
	Build(ctx context.Context, stagingDir, archivePath string) archive.Result
}

// HookRunner executes user scripts around album processing.
type HookRunner interface {
	Execute(hookType hook.Type, hctx hook.Context) (bool, error)
}

// AlbumStatus is the terminal state of one album run.
type AlbumStatus string

// Terminal album states.
const (
	StatusArchiveCreated       AlbumStatus = "archive-created"
	StatusArchiveAlreadyExists AlbumStatus = "archive-already-exists"
	StatusNoMediaItems         AlbumStatus = "no-media-items"
	StatusAllDownloadsFailed   AlbumStatus = "all-downloads-failed"
	StatusArchiveFailed        AlbumStatus = "archive-failed"
	StatusSkippedByHook        AlbumStatus = "skipped-by-hook"
	StatusFailed               AlbumStatus = "failed"
)

// AlbumOutcome is the per-album result of a run. Archive is set whenever an
// archive exists for the album, whether this run wrote it or a prior one did.
type AlbumOutcome struct {
	Album   model.Album
	Status  AlbumStatus
	Archive string
	Report  download.Report
	Err     error
}

// Failed reports whether the album ended in a state the caller should treat
// as an error.
func (o AlbumOutcome) Failed() bool {
	switch o.Status {
	case StatusAllDownloadsFailed, StatusArchiveFailed, StatusFailed:
		return true
	default:
		return false
	}
}

// Event represents a simple progress notification.
type Event struct {
	Phase string // listing|downloading|archiving|done
	Album string // album ID
	Msg   string
}

// Events carries callbacks for progress events.
type Events struct {
	OnEvent func(Event)
}

// Options control orchestrator execution.
type Options struct {
	// DownloadDir is the root under which staging directories and archives
	// are placed.
	DownloadDir string
}
