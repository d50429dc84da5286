package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/photozip/internal/logger"
)

// NewLoginCmd creates the login command.
func NewLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the Google Photos Library API",
		Long: `Run the OAuth consent flow and cache the resulting token.

Open the printed URL in a browser, approve read access to your library,
and paste the authorization code back into the prompt. The token is
stored in the configured token file and refreshed automatically on later
runs.`,
		RunE: runLogin,
	}

	return cmd
}

func runLogin(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	provider, err := buildAuthProvider(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Open the following URL in your browser:\n\n%s\n\n", provider.AuthCodeURL())
	fmt.Fprint(cmd.OutOrStdout(), "Enter the authorization code: ")

	code, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("authorization code cannot be empty")
	}

	if err := provider.Login(cmd.Context(), code); err != nil {
		return err
	}

	logger.Success("Authentication successful", logger.Fields{"token_file": cfg.Auth.TokenFile})
	return nil
}
