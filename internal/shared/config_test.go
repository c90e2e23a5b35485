package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Library.RootFolder != "./" {
			t.Errorf("expected root folder ./, got %s", config.Library.RootFolder)
		}

		if config.Lidarr.BaseURL != "http://localhost:8696/" {
			t.Errorf("expected lidarr base url http://localhost:8696/, got %s", config.Lidarr.BaseURL)
		}

		if config.Lidarr.HTTPTimeout != 60 {
			t.Errorf("expected lidarr timeout 60, got %d", config.Lidarr.HTTPTimeout)
		}

		if config.Search.MinScore != 0.6 {
			t.Errorf("expected min score 0.6, got %v", config.Search.MinScore)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should be valid: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig overlays defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[library]
root_folder = "/music"

[lidarr]
api_key = "secret"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Library.RootFolder != "/music" {
			t.Errorf("expected root folder /music, got %s", config.Library.RootFolder)
		}
		if config.Lidarr.APIKey != "secret" {
			t.Errorf("expected api key secret, got %s", config.Lidarr.APIKey)
		}
		if config.Lidarr.BaseURL != "http://localhost:8696/" {
			t.Errorf("expected default base url to survive overlay, got %s", config.Lidarr.BaseURL)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tests := []struct {
			name    string
			mutate  func(*Config)
			wantErr bool
		}{
			{name: "valid", mutate: func(*Config) {}},
			{name: "empty root", mutate: func(c *Config) { c.Library.RootFolder = "" }, wantErr: true},
			{name: "score above one", mutate: func(c *Config) { c.Search.MinScore = 1.5 }, wantErr: true},
			{name: "negative score", mutate: func(c *Config) { c.Search.MinScore = -0.1 }, wantErr: true},
			{name: "empty lidarr url", mutate: func(c *Config) { c.Lidarr.BaseURL = "" }, wantErr: true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)
				err := config.Validate()
				if tt.wantErr && !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
				if !tt.wantErr && err != nil {
					t.Errorf("expected no error, got %v", err)
				}
			})
		}
	})
}

func TestSettings(t *testing.T) {
	t.Run("Get returns a snapshot", func(t *testing.T) {
		settings := NewSettings(DefaultConfig(), "")

		snapshot := settings.Get()
		snapshot.Library.RootFolder = "/elsewhere"

		if settings.Get().Library.RootFolder != "./" {
			t.Errorf("mutating a snapshot should not change settings")
		}
	})

	t.Run("Update rejects invalid config", func(t *testing.T) {
		settings := NewSettings(DefaultConfig(), "")

		err := settings.Update(func(c *Config) { c.Search.MinScore = 2 })
		if !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig, got %v", err)
		}
		if settings.Get().Search.MinScore != 0.6 {
			t.Errorf("expected min score to stay 0.6, got %v", settings.Get().Search.MinScore)
		}
	})

	t.Run("Save round trips", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		settings := NewSettings(DefaultConfig(), configPath)

		if err := settings.Update(func(c *Config) { c.Library.RootFolder = "/music" }); err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if err := settings.Save(); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}
		if config.Library.RootFolder != "/music" {
			t.Errorf("expected root folder /music, got %s", config.Library.RootFolder)
		}
	})

	t.Run("Save without path", func(t *testing.T) {
		if err := NewSettings(DefaultConfig(), "").Save(); !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})
}
