package errors

import "fmt"

// Common error types.
var (
	// Config errors.
	ErrEmptyConfigPath  = fmt.Errorf("config file path cannot be empty")
	ErrConfigParse      = fmt.Errorf("failed to parse config")
	ErrConfigValidation = fmt.Errorf("invalid configuration")
	ErrConfigEncode     = fmt.Errorf("failed to encode config")
	ErrConfigDirectory  = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate = fmt.Errorf("failed to create config file")
	ErrConfigFileExists = fmt.Errorf("config file already exists")

	// Auth errors. These abort the whole run.
	ErrCredentialsLoad = fmt.Errorf("failed to load client credentials")
	ErrAuthRequired    = fmt.Errorf("not authenticated (run 'photozip login')")
	ErrTokenExchange   = fmt.Errorf("failed to exchange authorization code")
	ErrTokenSave       = fmt.Errorf("failed to save token")

	// Catalog errors.
	ErrAlbumNotFound = fmt.Errorf("album not found")
	ErrAPIRequest    = fmt.Errorf("catalog API request failed")

	// Download errors.
	ErrMissingSource  = fmt.Errorf("media item has no source URL")
	ErrDownloadFailed = fmt.Errorf("download failed")

	// Archive errors.
	ErrArchiveCreate = fmt.Errorf("failed to create archive")

	// Hook errors.
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
	ErrHookLoad      = fmt.Errorf("failed to load hook")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
