package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewAlbumsCmd creates the albums command.
func NewAlbumsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "albums",
		Short: "List all albums in the library",
		Long:  "List every album in the Google Photos library, following pagination.",
		RunE:  runAlbums,
	}

	return cmd
}

func runAlbums(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	orch, err := buildOrchestrator(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	albums, err := orch.ListAllAlbums(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list albums: %w", err)
	}

	if len(albums) == 0 {
		fmt.Println("No albums found.")
		return nil
	}

	fmt.Printf("%-45s %s\n", "TITLE", "ID")
	fmt.Println(strings.Repeat("-", 70))
	for _, album := range albums {
		title := album.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%-45s %s\n", title, album.ID)
	}
	fmt.Printf("\n%d albums\n", len(albums))

	return nil
}
