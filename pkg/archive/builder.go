// Package archive turns a staging directory of downloaded media into a flat
// zip archive.
package archive

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mholt/archives"

	"github.com/glorpus-work/photozip/internal/logger"
	pkgerrors "github.com/glorpus-work/photozip/pkg/errors"
)

// Status classifies the outcome of one archive build.
type Status int

const (
	// StatusCreated means the archive was written.
	StatusCreated Status = iota
	// StatusSkippedAlreadyExists means the target archive already existed.
	// The staging directory is left untouched so the caller can decide what
	// to do with it.
	StatusSkippedAlreadyExists
	// StatusSkippedNoContent means the staging directory held no files, so
	// nothing was written.
	StatusSkippedNoContent
	// StatusFailed means the archive could not be written. No partial
	// archive remains on disk.
	StatusFailed
)

// Result describes one build. Path is set when an archive exists at the
// target, whether this build wrote it or an earlier one did.
type Result struct {
	Status Status
	Path   string
	Err    error
}

// Builder zips staged downloads into their final archive.
type Builder struct{}

// NewBuilder creates a new Builder instance.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build zips the regular files directly under stagingDir into archivePath,
// flattening every entry to its base name. When the target archive already
// exists the build is skipped before anything else happens. On every other
// outcome, success or not, the staging directory is removed before Build
// returns.
func (b *Builder) Build(ctx context.Context, stagingDir, archivePath string) Result {
	if _, err := os.Stat(archivePath); err == nil {
		return Result{Status: StatusSkippedAlreadyExists, Path: archivePath}
	}

	defer removeStaging(stagingDir)

	files, err := stagedFiles(ctx, stagingDir)
	if err != nil {
		return Result{Status: StatusFailed, Err: err}
	}
	if len(files) == 0 {
		return Result{Status: StatusSkippedNoContent}
	}

	if err := writeZip(ctx, archivePath, files); err != nil {
		return Result{Status: StatusFailed, Err: err}
	}
	return Result{Status: StatusCreated, Path: archivePath}
}

// stagedFiles maps each regular file directly under stagingDir to its base
// name inside the archive. Subdirectories and anything irregular are
// ignored.
func stagedFiles(ctx context.Context, stagingDir string) ([]archives.FileInfo, error) {
	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		return nil, pkgerrors.Wrapf(pkgerrors.ErrArchiveCreate, "failed to read staging directory %s: %v", stagingDir, err)
	}

	names := make(map[string]string, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		names[filepath.Join(stagingDir, entry.Name())] = entry.Name()
	}
	if len(names) == 0 {
		return nil, nil
	}

	files, err := archives.FilesFromDisk(ctx, nil, names)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrArchiveCreate, err.Error())
	}
	return files, nil
}

// writeZip writes the archive file. A failure at any stage removes the
// partial archive so the target path is only ever absent or complete.
func writeZip(ctx context.Context, archivePath string, files []archives.FileInfo) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return pkgerrors.Wrapf(pkgerrors.ErrArchiveCreate, "failed to create archive file %s: %v", archivePath, err)
	}

	if err := (archives.Zip{}).Archive(ctx, out, files); err != nil {
		_ = out.Close()
		discardPartial(archivePath)
		return pkgerrors.Wrap(pkgerrors.ErrArchiveCreate, err.Error())
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		discardPartial(archivePath)
		return pkgerrors.Wrap(pkgerrors.ErrArchiveCreate, err.Error())
	}
	if err := out.Close(); err != nil {
		discardPartial(archivePath)
		return pkgerrors.Wrap(pkgerrors.ErrArchiveCreate, err.Error())
	}
	return nil
}

func removeStaging(stagingDir string) {
	if err := os.RemoveAll(stagingDir); err != nil {
		logger.Warnf("could not remove staging directory %s: %v", stagingDir, err)
	}
}

func discardPartial(archivePath string) {
	if err := os.Remove(archivePath); err != nil && !os.IsNotExist(err) {
		logger.Warnf("could not remove partial archive %s: %v", archivePath, err)
	}
}
