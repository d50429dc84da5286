package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/photozip/internal/logger"
	"github.com/glorpus-work/photozip/pkg/fsutil"
	"github.com/glorpus-work/photozip/pkg/model"
	"github.com/glorpus-work/photozip/pkg/orchestrator"
)

// NewDownloadCmd creates the download command.
func NewDownloadCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "download [ALBUM_ID...]",
		Short: "Download albums and pack each one into a zip archive",
		Long: `Download the media items of one or more albums and pack each completed
album into <title>.zip under the download directory.

Albums whose archive already exists are skipped entirely, and items
already present in the staging directory are not downloaded again, so an
interrupted run can simply be restarted.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return fmt.Errorf("cannot combine --all with album IDs")
			}
			if !all && len(args) == 0 {
				return fmt.Errorf("specify at least one album ID or use --all")
			}
			return runDownload(cmd.Context(), args, all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Download every album in the library")

	return cmd
}

func runDownload(ctx context.Context, albumIDs []string, all bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := fsutil.EnsureDir(cfg.Download.Dir); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	orch, err := buildOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}
	opts := orchestrator.Options{DownloadDir: cfg.Download.Dir}

	var outcomes []orchestrator.AlbumOutcome
	if all {
		outcomes, err = orch.DownloadAll(ctx, opts)
		if err != nil {
			return fmt.Errorf("failed to download albums: %w", err)
		}
	} else {
		for _, id := range albumIDs {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcome, err := orch.DownloadOne(ctx, id, opts)
			if err != nil {
				// A bad ID must not stop the remaining albums.
				logger.Errorf("album %s: %v", id, err)
				outcome = orchestrator.AlbumOutcome{
					Album:  model.Album{ID: id},
					Status: orchestrator.StatusFailed,
					Err:    err,
				}
			}
			outcomes = append(outcomes, outcome)
		}
	}

	return summarize(outcomes)
}

func summarize(outcomes []orchestrator.AlbumOutcome) error {
	archived, skipped, failed := 0, 0, 0
	for _, outcome := range outcomes {
		printOutcome(outcome)
		switch {
		case outcome.Status == orchestrator.StatusArchiveCreated:
			archived++
		case outcome.Failed():
			failed++
		default:
			skipped++
		}
	}

	fmt.Printf("\n%d archived, %d skipped, %d failed\n", archived, skipped, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d albums failed", failed, len(outcomes))
	}
	return nil
}

func printOutcome(outcome orchestrator.AlbumOutcome) {
	title := outcome.Album.Title
	if title == "" {
		title = outcome.Album.ID
	}

	switch outcome.Status {
	case orchestrator.StatusArchiveCreated:
		logger.Successf("Archived %q (%d items, %d failed): %s", title, outcome.Report.Succeeded, outcome.Report.Failed, outcome.Archive)
	case orchestrator.StatusArchiveAlreadyExists:
		logger.Infof("Skipped %q: archive already exists", title)
	case orchestrator.StatusNoMediaItems:
		logger.Infof("Skipped %q: no media items", title)
	case orchestrator.StatusSkippedByHook:
		logger.Infof("Skipped %q: pre-album hook", title)
	case orchestrator.StatusAllDownloadsFailed:
		logger.Errorf("Failed %q: every download failed", title)
	default:
		logger.Errorf("Failed %q: %v", title, outcome.Err)
	}
}
