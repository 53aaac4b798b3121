package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const appName = "pocket_library"

// Search settings
type SearchConfig struct {
	BaseURL           string  `toml:"base_url"`
	QueryParam        string  `toml:"query_param"`
	QuietPeriodMs     int     `toml:"quiet_period_ms"`
	Limit             int     `toml:"limit"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Library settings
type LibraryConfig struct {
	Database    string `toml:"database"`
	PicturesDir string `toml:"pictures_dir"`
}

// UI settings
type UIConfig struct {
	Language string `toml:"language"`
}

// Log settings
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Root config
type Config struct {
	Search  SearchConfig  `toml:"search"`
	Library LibraryConfig `toml:"library"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`
}

// Global variable to hold config
var AppConfig = DefaultConfig()

// configPath remembers where AppConfig was loaded from so SaveConfig writes
// back to the same file.
var configPath string

func DefaultConfig() Config {
	return Config{
		Search: SearchConfig{
			BaseURL:           "https://openlibrary.org",
			QueryParam:        "query",
			QuietPeriodMs:     300,
			Limit:             30,
			TimeoutSeconds:    30,
			RequestsPerSecond: 2,
		},
		Library: LibraryConfig{
			Database:    "~/.config/" + appName + "/library.db",
			PicturesDir: "~/.config/" + appName + "/pictures",
		},
		UI: UIConfig{
			Language: "en",
		},
		Log: LogConfig{
			File:  "~/.config/" + appName + "/" + appName + ".log",
			Level: "info",
		},
	}
}

func (c SearchConfig) QuietPeriod() time.Duration {
	return time.Duration(c.QuietPeriodMs) * time.Millisecond
}

func (c SearchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ConfigDir is ~/.config/pocket_library.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultConfigPath is where the config lives when --config is not given.
func DefaultConfigPath() string {
	dir, err := ConfigDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}

// expandPath replaces leading "~" with user home dir
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// LoadConfig reads config.toml into AppConfig. A missing file leaves the
// defaults in place.
func LoadConfig(path string) error {
	configPath = path
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("failed to read config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.normalize()
	AppConfig = cfg
	return nil
}

// normalize expands ~ in paths and replaces nonsensical values with defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if strings.TrimSpace(c.Search.BaseURL) == "" {
		c.Search.BaseURL = def.Search.BaseURL
	}
	c.Search.BaseURL = strings.TrimRight(c.Search.BaseURL, "/")
	if strings.TrimSpace(c.Search.QueryParam) == "" {
		c.Search.QueryParam = def.Search.QueryParam
	}
	if c.Search.QuietPeriodMs < 0 {
		c.Search.QuietPeriodMs = def.Search.QuietPeriodMs
	}
	if c.Search.Limit <= 0 {
		c.Search.Limit = def.Search.Limit
	}
	if c.Search.TimeoutSeconds <= 0 {
		c.Search.TimeoutSeconds = def.Search.TimeoutSeconds
	}
	if c.Search.RequestsPerSecond < 0 {
		c.Search.RequestsPerSecond = 0
	}
	if c.Library.Database == "" {
		c.Library.Database = def.Library.Database
	}
	if c.Library.PicturesDir == "" {
		c.Library.PicturesDir = def.Library.PicturesDir
	}
	if c.UI.Language == "" {
		c.UI.Language = def.UI.Language
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}

	c.Library.Database = expandPath(c.Library.Database)
	c.Library.PicturesDir = expandPath(c.Library.PicturesDir)
	c.Log.File = expandPath(c.Log.File)
}

// SaveConfig writes AppConfig back to the file it was loaded from.
func SaveConfig() error {
	path := configPath
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := toml.Marshal(AppConfig)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
