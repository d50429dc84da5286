// Package config provides configuration management for photozip. It handles
// loading, validating, and saving application settings from a YAML file and
// provides sensible defaults so the tool works without any configuration.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glorpus-work/photozip/pkg/errors"
	"github.com/glorpus-work/photozip/pkg/fsutil"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// Auth holds the OAuth client and token file locations.
	Auth AuthConfig `yaml:"auth"`

	// Download controls the per-album download pipeline.
	Download DownloadConfig `yaml:"download"`

	// Catalog controls how the remote album catalog is paged.
	Catalog CatalogConfig `yaml:"catalog"`

	// Hooks names optional scripts run around album processing.
	Hooks HooksConfig `yaml:"hooks,omitempty"`

	LogLevel string `yaml:"log_level"` // error, warn, info, debug
}

// AuthConfig locates the OAuth2 client credentials and the cached token.
type AuthConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
}

// DownloadConfig holds the settings of the download pipeline.
type DownloadConfig struct {
	// Dir is the root under which archives and staging directories are created.
	Dir string `yaml:"dir"`

	// Concurrency is the number of parallel item downloads within one album.
	Concurrency int `yaml:"concurrency"`

	// MaxRetries is the total number of attempts per item.
	MaxRetries int `yaml:"max_retries"`

	// RetryDelay is the fixed wait between attempts.
	RetryDelay time.Duration `yaml:"retry_delay"`

	// HTTPTimeout bounds a single download request.
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// CatalogConfig holds the settings of the catalog API client.
type CatalogConfig struct {
	AlbumPageSize int `yaml:"album_page_size"`
	MediaPageSize int `yaml:"media_page_size"`

	// PageDelay is a courtesy pause between successive page requests.
	PageDelay time.Duration `yaml:"page_delay"`

	// APITimeout bounds a single catalog API request.
	APITimeout time.Duration `yaml:"api_timeout"`

	// APIBaseURL overrides the Library API endpoint. Empty selects the
	// public Google endpoint.
	APIBaseURL string `yaml:"api_base_url,omitempty"`
}

// HooksConfig names optional Tengo scripts. Empty paths disable the hook.
type HooksConfig struct {
	PreAlbum    string `yaml:"pre_album,omitempty"`
	PostArchive string `yaml:"post_archive,omitempty"`
}

// Default configuration values.
const (
	// DefaultCredentialsFile is the OAuth client secret file looked up when
	// the config names none.
	DefaultCredentialsFile = "credentials.json"

	// DefaultTokenFile caches the OAuth token between runs.
	DefaultTokenFile = "token.json"

	// DefaultDownloadDir is the root for archives and staging directories.
	DefaultDownloadDir = "google_photos_downloads"

	// DefaultConcurrency is the default width of the download worker pool.
	DefaultConcurrency = 5

	// DefaultMaxRetries is the default total number of attempts per item.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default fixed wait between attempts.
	DefaultRetryDelay = 5 * time.Second

	// DefaultHTTPTimeout is the default timeout for a single media download.
	DefaultHTTPTimeout = 60 * time.Second

	// DefaultAPITimeout is the default timeout for a catalog API request.
	DefaultAPITimeout = 30 * time.Second

	// DefaultPageDelay is the default courtesy pause between page requests.
	DefaultPageDelay = 500 * time.Millisecond

	// MaxAlbumPageSize and MaxMediaPageSize are the page caps the remote API
	// enforces.
	MaxAlbumPageSize = 50
	MaxMediaPageSize = 100

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Auth: AuthConfig{
			CredentialsFile: DefaultCredentialsFile,
			TokenFile:       DefaultTokenFile,
		},
		Download: DownloadConfig{
			Dir:         DefaultDownloadDir,
			Concurrency: DefaultConcurrency,
			MaxRetries:  DefaultMaxRetries,
			RetryDelay:  DefaultRetryDelay,
			HTTPTimeout: DefaultHTTPTimeout,
		},
		Catalog: CatalogConfig{
			AlbumPageSize: MaxAlbumPageSize,
			MediaPageSize: MaxMediaPageSize,
			PageDelay:     DefaultPageDelay,
			APITimeout:    DefaultAPITimeout,
		},
		LogLevel: "info",
	}
}

// LoadConfig loads configuration from a file. A missing file is not an
// error; it yields the defaults so the tool runs unconfigured.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid config file path %s", path)
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfig saves configuration to a file, replacing it atomically.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "invalid config file path %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeSecure)
	if err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}

	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(err, "failed to replace config file")
	}

	if err := os.Chmod(absPath, fsutil.FileModeSecure); err != nil {
		return errors.Wrap(err, "failed to set config file permissions")
	}

	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if err := c.validateDownload(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return errors.Wrapf(errors.ErrConfigValidation, "unknown log level %q", c.LogLevel)
	}
	return nil
}

func (c *Config) validateDownload() error {
	d := c.Download
	if d.Dir == "" {
		return errors.Wrap(errors.ErrConfigValidation, "download dir cannot be empty")
	}
	if d.Concurrency < 1 {
		return errors.Wrapf(errors.ErrConfigValidation, "concurrency must be at least 1, got %d", d.Concurrency)
	}
	if d.MaxRetries < 1 {
		return errors.Wrapf(errors.ErrConfigValidation, "max_retries must be at least 1, got %d", d.MaxRetries)
	}
	if d.RetryDelay < 0 {
		return errors.Wrap(errors.ErrConfigValidation, "retry_delay cannot be negative")
	}
	if d.HTTPTimeout < 0 {
		return errors.Wrap(errors.ErrConfigValidation, "http_timeout cannot be negative")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	cat := c.Catalog
	if cat.AlbumPageSize < 1 || cat.AlbumPageSize > MaxAlbumPageSize {
		return errors.Wrapf(errors.ErrConfigValidation,
			"album_page_size must be between 1 and %d, got %d", MaxAlbumPageSize, cat.AlbumPageSize)
	}
	if cat.MediaPageSize < 1 || cat.MediaPageSize > MaxMediaPageSize {
		return errors.Wrapf(errors.ErrConfigValidation,
			"media_page_size must be between 1 and %d, got %d", MaxMediaPageSize, cat.MediaPageSize)
	}
	if cat.PageDelay < 0 {
		return errors.Wrap(errors.ErrConfigValidation, "page_delay cannot be negative")
	}
	if cat.APITimeout < 0 {
		return errors.Wrap(errors.ErrConfigValidation, "api_timeout cannot be negative")
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "photozip", "config.yaml"), nil
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Auth.CredentialsFile == "" {
		c.Auth.CredentialsFile = defaults.Auth.CredentialsFile
	}
	if c.Auth.TokenFile == "" {
		c.Auth.TokenFile = defaults.Auth.TokenFile
	}
	if c.Download.Dir == "" {
		c.Download.Dir = defaults.Download.Dir
	}
	if c.Download.Concurrency == 0 {
		c.Download.Concurrency = defaults.Download.Concurrency
	}
	if c.Download.MaxRetries == 0 {
		c.Download.MaxRetries = defaults.Download.MaxRetries
	}
	if c.Download.RetryDelay == 0 {
		c.Download.RetryDelay = defaults.Download.RetryDelay
	}
	if c.Download.HTTPTimeout == 0 {
		c.Download.HTTPTimeout = defaults.Download.HTTPTimeout
	}
	if c.Catalog.AlbumPageSize == 0 {
		c.Catalog.AlbumPageSize = defaults.Catalog.AlbumPageSize
	}
	if c.Catalog.MediaPageSize == 0 {
		c.Catalog.MediaPageSize = defaults.Catalog.MediaPageSize
	}
	if c.Catalog.PageDelay == 0 {
		c.Catalog.PageDelay = defaults.Catalog.PageDelay
	}
	if c.Catalog.APITimeout == 0 {
		c.Catalog.APITimeout = defaults.Catalog.APITimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
}
