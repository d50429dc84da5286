package archive

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	pkgerrors "github.com/glorpus-work/photozip/pkg/errors"
)

func stageFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	stagingDir := filepath.Join(t.TempDir(), "album_temp")
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		t.Fatalf("Failed to create staging directory: %v", err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(stagingDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to stage file %s: %v", name, err)
		}
	}
	return stagingDir
}

func readZip(t *testing.T, archivePath string) map[string]string {
	t.Helper()
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatalf("Failed to open archive: %v", err)
	}
	defer func() { _ = reader.Close() }()

	entries := make(map[string]string)
	for _, entry := range reader.File {
		f, err := entry.Open()
		if err != nil {
			t.Fatalf("Failed to open archive entry %s: %v", entry.Name, err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			t.Fatalf("Failed to read archive entry %s: %v", entry.Name, err)
		}
		entries[entry.Name] = string(data)
	}
	return entries
}

func TestBuild_CreatesFlatZip(t *testing.T) {
	staged := map[string]string{
		"photo1.jpg": "first image",
		"photo2.jpg": "second image",
		"clip.mp4":   "video bytes",
	}
	stagingDir := stageFiles(t, staged)
	archivePath := filepath.Join(t.TempDir(), "Holiday.zip")

	result := NewBuilder().Build(context.Background(), stagingDir, archivePath)

	if result.Status != StatusCreated {
		t.Fatalf("Expected StatusCreated, got %v (err: %v)", result.Status, result.Err)
	}
	if result.Path != archivePath {
		t.Errorf("Expected path %s, got %s", archivePath, result.Path)
	}

	entries := readZip(t, archivePath)
	if len(entries) != len(staged) {
		t.Fatalf("Expected %d entries, got %d", len(staged), len(entries))
	}
	for name, content := range staged {
		if entries[name] != content {
			t.Errorf("Entry %s has wrong content. Expected: %s, Got: %s", name, content, entries[name])
		}
	}

	if _, err := os.Stat(stagingDir); !os.IsNotExist(err) {
		t.Errorf("Staging directory should be removed after a successful build")
	}
}

func TestBuild_IgnoresSubdirectories(t *testing.T) {
	stagingDir := stageFiles(t, map[string]string{"photo1.jpg": "image"})
	if err := os.MkdirAll(filepath.Join(stagingDir, "nested"), 0o755); err != nil {
		t.Fatalf("Failed to create nested directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(stagingDir, "nested", "stray.jpg"), []byte("stray"), 0o644); err != nil {
		t.Fatalf("Failed to write nested file: %v", err)
	}
	archivePath := filepath.Join(t.TempDir(), "Album.zip")

	result := NewBuilder().Build(context.Background(), stagingDir, archivePath)

	if result.Status != StatusCreated {
		t.Fatalf("Expected StatusCreated, got %v (err: %v)", result.Status, result.Err)
	}
	entries := readZip(t, archivePath)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d: %v", len(entries), entries)
	}
	if _, ok := entries["photo1.jpg"]; !ok {
		t.Errorf("Expected photo1.jpg in archive, got %v", entries)
	}
}

func TestBuild_SkipsWhenArchiveExists(t *testing.T) {
	stagingDir := stageFiles(t, map[string]string{"photo1.jpg": "new image"})
	archivePath := filepath.Join(t.TempDir(), "Holiday.zip")
	if err := os.WriteFile(archivePath, []byte("existing archive"), 0o644); err != nil {
		t.Fatalf("Failed to create existing archive: %v", err)
	}

	result := NewBuilder().Build(context.Background(), stagingDir, archivePath)

	if result.Status != StatusSkippedAlreadyExists {
		t.Fatalf("Expected StatusSkippedAlreadyExists, got %v", result.Status)
	}

	data, err := os.ReadFile(archivePath)
	if err != nil {
		t.Fatalf("Failed to read archive: %v", err)
	}
	if string(data) != "existing archive" {
		t.Errorf("Existing archive must not be overwritten")
	}
	if _, err := os.Stat(filepath.Join(stagingDir, "photo1.jpg")); err != nil {
		t.Errorf("Staging directory must be left untouched when the archive exists: %v", err)
	}
}

func TestBuild_SkipsEmptyStaging(t *testing.T) {
	stagingDir := stageFiles(t, nil)
	if err := os.MkdirAll(filepath.Join(stagingDir, "empty"), 0o755); err != nil {
		t.Fatalf("Failed to create nested directory: %v", err)
	}
	archivePath := filepath.Join(t.TempDir(), "Empty.zip")

	result := NewBuilder().Build(context.Background(), stagingDir, archivePath)

	if result.Status != StatusSkippedNoContent {
		t.Fatalf("Expected StatusSkippedNoContent, got %v", result.Status)
	}
	if _, err := os.Stat(archivePath); !os.IsNotExist(err) {
		t.Errorf("No archive should be written for empty staging")
	}
	if _, err := os.Stat(stagingDir); !os.IsNotExist(err) {
		t.Errorf("Staging directory should be removed")
	}
}

func TestBuild_FailedCreateRemovesStaging(t *testing.T) {
	stagingDir := stageFiles(t, map[string]string{"photo1.jpg": "image"})
	archivePath := filepath.Join(t.TempDir(), "missing", "dir", "Album.zip")

	result := NewBuilder().Build(context.Background(), stagingDir, archivePath)

	if result.Status != StatusFailed {
		t.Fatalf("Expected StatusFailed, got %v", result.Status)
	}
	if !errors.Is(result.Err, pkgerrors.ErrArchiveCreate) {
		t.Errorf("Expected ErrArchiveCreate, got %v", result.Err)
	}
	if _, err := os.Stat(stagingDir); !os.IsNotExist(err) {
		t.Errorf("Staging directory should be removed after a failed build")
	}
}

func TestBuild_CancelledContextLeavesNoPartialArchive(t *testing.T) {
	stagingDir := stageFiles(t, map[string]string{"photo1.jpg": "image", "photo2.jpg": "image"})
	archivePath := filepath.Join(t.TempDir(), "Album.zip")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewBuilder().Build(ctx, stagingDir, archivePath)

	if result.Status != StatusFailed {
		t.Fatalf("Expected StatusFailed, got %v", result.Status)
	}
	if _, err := os.Stat(archivePath); !os.IsNotExist(err) {
		t.Errorf("No partial archive may remain after a failed build")
	}
	if _, err := os.Stat(stagingDir); !os.IsNotExist(err) {
		t.Errorf("Staging directory should be removed after a failed build")
	}
}
