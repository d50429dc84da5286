//go:build integration

package main

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/photozip/test/testutil"
)

// setupTestEnv starts the fake library, writes auth files, and writes a
// config pointing everything at the local server. Returns the config path
// and the download directory the config names.
func setupTestEnv(t *testing.T, lib *testutil.FakeLibrary) (string, string) {
	t.Helper()
	server := lib.Start(t)

	tempDir := t.TempDir()
	downloadDir := filepath.Join(tempDir, "downloads")
	credentialsFile := testutil.WriteCredentials(t, tempDir, "")
	tokenFile := testutil.WriteToken(t, tempDir)

	cfgPath := filepath.Join(tempDir, "config.yaml")
	writeTempConfig(t, cfgPath, server.URL, downloadDir, credentialsFile, tokenFile)
	return cfgPath, downloadDir
}

// writeTempConfig writes a config YAML pointing at the given API base URL,
// with short delays so retry paths stay fast.
func writeTempConfig(t *testing.T, path, apiBaseURL, downloadDir, credentialsFile, tokenFile string) {
	t.Helper()

	yamlContent := "log_level: info\n" +
		"auth:\n" +
		"  credentials_file: " + credentialsFile + "\n" +
		"  token_file: " + tokenFile + "\n" +
		"download:\n" +
		"  dir: " + downloadDir + "\n" +
		"  concurrency: 4\n" +
		"  max_retries: 2\n" +
		"  retry_delay: 10ms\n" +
		"  http_timeout: 5s\n" +
		"catalog:\n" +
		"  album_page_size: 10\n" +
		"  media_page_size: 10\n" +
		"  page_delay: 1ms\n" +
		"  api_timeout: 5s\n" +
		"  api_base_url: " + apiBaseURL + "\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o600))
}

// runCLI executes the root command with args and returns everything it wrote
// to stdout. stdin feeds commands that prompt for input.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	cmd := newRootCmd()
	cmd.SetArgs(args)
	if stdin != "" {
		cmd.SetIn(strings.NewReader(stdin))
	}
	execErr := cmd.ExecuteContext(context.Background())

	_ = w.Close()
	os.Stdout = oldStdout
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String(), execErr
}

// readZipNames returns the entry names of the archive at path.
func readZipNames(t *testing.T, path string) []string {
	t.Helper()

	reader, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	names := make([]string, 0, len(reader.File))
	for _, file := range reader.File {
		names = append(names, file.Name)
	}
	return names
}

// readZipEntry returns the content of a single entry of the archive at path.
func readZipEntry(t *testing.T, path, name string) string {
	t.Helper()

	reader, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		require.NoError(t, err)
		return string(data)
	}
	t.Fatalf("entry %s not found in %s", name, path)
	return ""
}
