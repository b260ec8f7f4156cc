package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Library     LibraryConfig     `toml:"library"`
	Database    DatabaseConfig    `toml:"database"`
}

// CredentialsConfig contains provider-specific credentials.
type CredentialsConfig struct {
	Dropbox DropboxConfig `toml:"dropbox"`
}

// DropboxConfig contains Dropbox API credentials.
//
// APIBaseURL overrides the production API host, primarily for tests.
type DropboxConfig struct {
	AccessToken string `toml:"access_token"`
	APIBaseURL  string `toml:"api_base_url"`
}

// LibraryConfig describes the local audio library and the files the builder
// maintains underneath its root.
type LibraryConfig struct {
	LocalRoot    string   `toml:"local_root"`
	RemoteRoot   string   `toml:"remote_root"`
	Extensions   []string `toml:"extensions"`
	PlaylistFile string   `toml:"playlist_file"`
	CacheFile    string   `toml:"cache_file"`
	PerFolder    bool     `toml:"per_folder"`
}

// DatabaseConfig contains database connection settings for run history.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays the environment variable contract of the original shell
// workflow onto the config. Set variables win over file values.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("DROPBOX_ACCESS_TOKEN"); v != "" {
		c.Credentials.Dropbox.AccessToken = v
	}
	if v := os.Getenv("DROPBOX_ROOT_FOLDER"); v != "" {
		c.Library.RemoteRoot = v
	}
	if v := os.Getenv("LOCAL_ROOT_FOLDER"); v != "" {
		c.Library.LocalRoot = v
	}
}

// Validate checks that every setting a build depends on is present.
// A failure here aborts the run before any file is scanned.
func (c *Config) Validate() error {
	var missing []string
	if c.Credentials.Dropbox.AccessToken == "" {
		missing = append(missing, "credentials.dropbox.access_token")
	}
	if c.Library.LocalRoot == "" {
		missing = append(missing, "library.local_root")
	}
	if c.Library.RemoteRoot == "" {
		missing = append(missing, "library.remote_root")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	if c.Library.PlaylistFile == "" || c.Library.CacheFile == "" {
		return fmt.Errorf("%w: playlist_file and cache_file must not be empty", ErrInvalidConfig)
	}
	return nil
}
