package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetConfig(t *testing.T) {
	t.Helper()
	prevCfg, prevPath := AppConfig, configPath
	t.Cleanup(func() {
		AppConfig, configPath = prevCfg, prevPath
	})
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	resetConfig(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, LoadConfig(filepath.Join(home, "nope.toml")))

	assert.Equal(t, "https://openlibrary.org", AppConfig.Search.BaseURL)
	assert.Equal(t, 300*time.Millisecond, AppConfig.Search.QuietPeriod())
	assert.Equal(t, 30, AppConfig.Search.Limit)
	assert.Equal(t, "query", AppConfig.Search.QueryParam)
	assert.Equal(t, 30*time.Second, AppConfig.Search.Timeout())
	assert.Equal(t, "en", AppConfig.UI.Language)
	assert.Equal(t, filepath.Join(home, ".config", "pocket_library", "library.db"), AppConfig.Library.Database)
	assert.Equal(t, filepath.Join(home, ".config", "pocket_library", "pictures"), AppConfig.Library.PicturesDir)
}

func TestLoadConfigPartialFile(t *testing.T) {
	resetConfig(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "config.toml")
	content := `[search]
base_url = "http://localhost:8080/"
quiet_period_ms = 50
limit = -4

[library]
database = "~/books.db"

[ui]
language = "zh"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	require.NoError(t, LoadConfig(path))

	assert.Equal(t, "http://localhost:8080", AppConfig.Search.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, 50*time.Millisecond, AppConfig.Search.QuietPeriod())
	assert.Equal(t, 30, AppConfig.Search.Limit, "invalid limit falls back to default")
	assert.Equal(t, filepath.Join(home, "books.db"), AppConfig.Library.Database)
	assert.Equal(t, "zh", AppConfig.UI.Language)
	assert.Equal(t, "info", AppConfig.Log.Level)
	assert.Equal(t, "query", AppConfig.Search.QueryParam, "missing key takes the default")
}

func TestLoadConfigInvalidToml(t *testing.T) {
	resetConfig(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[search\nlimit = "), 0644))

	err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestSaveConfigRoundTrip(t *testing.T) {
	resetConfig(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "nested", "config.toml")
	require.NoError(t, LoadConfig(path))

	AppConfig.UI.Language = "zh"
	AppConfig.Search.Limit = 10
	require.NoError(t, SaveConfig())

	AppConfig = Config{}
	require.NoError(t, LoadConfig(path))
	assert.Equal(t, "zh", AppConfig.UI.Language)
	assert.Equal(t, 10, AppConfig.Search.Limit)
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, "a", "b"), expandPath("~/a/b"))
	assert.Equal(t, home, expandPath("~"))
	assert.Equal(t, "~other/x", expandPath("~other/x"))
	assert.Equal(t, "/abs/path", expandPath("/abs/path"))
}
