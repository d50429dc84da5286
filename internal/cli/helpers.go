// Package cli implements the photozip commands.
package cli

import (
	"context"
	"fmt"

	"github.com/glorpus-work/photozip/internal/logger"
	"github.com/glorpus-work/photozip/pkg/archive"
	"github.com/glorpus-work/photozip/pkg/auth"
	"github.com/glorpus-work/photozip/pkg/config"
	"github.com/glorpus-work/photozip/pkg/download"
	"github.com/glorpus-work/photozip/pkg/hook"
	"github.com/glorpus-work/photozip/pkg/orchestrator"
	"github.com/glorpus-work/photozip/pkg/photos"
)

// These variables will be set by the main package
var (
	ConfigPath  *string
	Verbose     *bool
	DownloadDir *string
)

// loadConfig reads the config file named by --config, falling back to the
// per-user default path, and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if Verbose != nil && *Verbose {
		cfg.LogLevel = "debug"
	}
	if DownloadDir != nil && *DownloadDir != "" {
		cfg.Download.Dir = *DownloadDir
	}

	logger.InitLogger(cfg.LogLevel)
	return cfg, nil
}

func getConfigPath() string {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath
	}

	defaultPath, err := config.GetDefaultConfigPath()
	if err != nil {
		logger.Warn("Failed to get default config path, using empty path", logger.Fields{"error": err})
		return ""
	}
	return defaultPath
}

// buildAuthProvider creates the credential provider from the configured
// credentials and token files.
func buildAuthProvider(cfg *config.Config) (*auth.Provider, error) {
	provider, err := auth.New(cfg.Auth.CredentialsFile, cfg.Auth.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to set up authentication: %w", err)
	}
	return provider, nil
}

// buildOrchestrator wires the full album pipeline: one authenticated client
// for catalog calls, one for media downloads (both sharing the provider's
// token source), the download pool, the archive builder and any configured
// hook scripts.
func buildOrchestrator(ctx context.Context, cfg *config.Config) (*orchestrator.Orchestrator, error) {
	provider, err := buildAuthProvider(cfg)
	if err != nil {
		return nil, err
	}

	apiClient, err := provider.Client(ctx, cfg.Catalog.APITimeout)
	if err != nil {
		return nil, err
	}
	catalog := photos.New(apiClient, photos.Options{
		BaseURL:       cfg.Catalog.APIBaseURL,
		AlbumPageSize: cfg.Catalog.AlbumPageSize,
		MediaPageSize: cfg.Catalog.MediaPageSize,
		PageDelay:     cfg.Catalog.PageDelay,
	})

	mediaClient, err := provider.Client(ctx, cfg.Download.HTTPTimeout)
	if err != nil {
		return nil, err
	}
	fetcher := download.NewFetcher(mediaClient, cfg.Download.MaxRetries, cfg.Download.RetryDelay)
	coordinator := download.NewCoordinator(fetcher, cfg.Download.Concurrency, printProgress)

	executor := hook.NewExecutor()
	if err := hook.LoadScripts(executor, map[hook.Type]string{
		hook.PreAlbum:    cfg.Hooks.PreAlbum,
		hook.PostArchive: cfg.Hooks.PostArchive,
	}); err != nil {
		return nil, err
	}

	events := orchestrator.Events{OnEvent: func(e orchestrator.Event) {
		fmt.Printf("%s: %s\n", e.Phase, e.Msg)
	}}

	return orchestrator.New(catalog, coordinator, archive.NewBuilder(), executor, events), nil
}

func printProgress(done, total int) {
	fmt.Printf("\r  %d/%d items", done, total)
	if done == total {
		fmt.Println()
	}
}
