package shared

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Library  LibraryConfig  `toml:"library"`
	Lidarr   LidarrConfig   `toml:"lidarr"`
	Search   SearchConfig   `toml:"search"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// LibraryConfig locates music files and downloaded artwork on disk.
type LibraryConfig struct {
	RootFolder   string `toml:"root_folder"`
	ImagesFolder string `toml:"images_folder"`
}

// LidarrConfig contains connection settings for the Lidarr API.
type LidarrConfig struct {
	BaseURL     string `toml:"base_url"`
	APIKey      string `toml:"api_key"`
	HTTPTimeout int    `toml:"http_timeout"`
}

// Timeout returns the configured HTTP timeout, in seconds, as a [time.Duration].
func (c LidarrConfig) Timeout() time.Duration {
	if c.HTTPTimeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.HTTPTimeout) * time.Second
}

// SearchConfig tunes provider result selection.
type SearchConfig struct {
	MinScore float64 `toml:"min_score"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig controls log verbosity and the optional rotating log file.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Validate reports configuration values the daemon cannot run with.
func (c *Config) Validate() error {
	if c.Library.RootFolder == "" {
		return fmt.Errorf("%w: library.root_folder is empty", ErrInvalidConfig)
	}
	if c.Search.MinScore < 0 || c.Search.MinScore > 1 {
		return fmt.Errorf("%w: search.min_score must be within [0, 1], got %v", ErrInvalidConfig, c.Search.MinScore)
	}
	if c.Lidarr.BaseURL == "" {
		return fmt.Errorf("%w: lidarr.base_url is empty", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads a TOML configuration file from the specified path and overlays it on [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
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
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Settings guards the live configuration.
//
// Readers get a copy through [Settings.Get], so a snapshot taken at the start of a job
// stays stable while an operator edits the file.
type Settings struct {
	mu     sync.RWMutex
	path   string
	config Config
}

// NewSettings wraps config. When path is non-empty, [Settings.Save] persists to it.
func NewSettings(config *Config, path string) *Settings {
	return &Settings{config: *config, path: path}
}

// Get returns a snapshot of the current configuration.
func (s *Settings) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Update applies fn to a copy of the configuration and swaps it in when the result is valid.
func (s *Settings) Update(fn func(*Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.config
	fn(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	s.config = next
	return nil
}

// Save writes the current configuration to its file as TOML.
func (s *Settings) Save() error {
	if s.path == "" {
		return fmt.Errorf("%w: settings have no backing file", ErrMissingConfig)
	}

	config := s.Get()
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(s.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
