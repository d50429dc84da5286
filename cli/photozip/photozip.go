package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/photozip/internal/cli"
)

var (
	configPath  string
	verbose     bool
	downloadDir string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photozip",
		Short: "Archive Google Photos albums as zip files",
		Long: `photozip downloads Google Photos albums and packs each one into a flat
zip archive:
- albums: list every album in the library
- download: fetch album media and build <title>.zip per album
- login: run the OAuth consent flow once and cache the token`,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: auto-detect)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&downloadDir, "download-dir", "", "download directory (defaults to config)")

	// Set up CLI pkg variables
	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.DownloadDir = &downloadDir

	// Add subcommands
	cmd.AddCommand(
		cli.NewAlbumsCmd(),
		cli.NewDownloadCmd(),
		cli.NewLoginCmd(),
		cli.NewConfigCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
