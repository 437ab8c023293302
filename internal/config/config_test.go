package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		APIKeyEnv,
		"MARQUEE_CATALOG_API_KEY",
		"MARQUEE_CATALOG_SORT",
		"MARQUEE_SEARCH_DEFAULT_KEYWORD",
		"MARQUEE_SEARCH_DEDUPE",
		"MARQUEE_STORAGE_DATA_DIR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://app.ticketmaster.com/discovery/v2", cfg.Catalog.BaseURL)
	assert.Equal(t, "date,asc", cfg.Catalog.Sort)
	assert.Equal(t, "music", cfg.Search.DefaultKeyword)
	assert.False(t, cfg.Search.Dedupe)
	assert.Equal(t, 30, cfg.Catalog.TimeoutSec)
	assert.False(t, cfg.IsConfigured())
}

func TestLoadAPIKeyFromConventionalEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(APIKeyEnv, "abc123")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "abc123", cfg.Catalog.APIKey)
	assert.True(t, cfg.IsConfigured())
}

func TestLoadPrefixedEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MARQUEE_SEARCH_DEFAULT_KEYWORD", "jazz")
	t.Setenv("MARQUEE_CATALOG_SORT", "date,desc")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "jazz", cfg.Search.DefaultKeyword)
	assert.Equal(t, "date,desc", cfg.Catalog.Sort)
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	yaml := []byte("catalog:\n  api_key: fromfile\n  city: Chicago\nsearch:\n  dedupe: true\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "fromfile", cfg.Catalog.APIKey)
	assert.Equal(t, "Chicago", cfg.Catalog.City)
	assert.True(t, cfg.Search.Dedupe)
	// Untouched keys keep their defaults
	assert.Equal(t, "music", cfg.Search.DefaultKeyword)
}

func TestLoadRejectsUnknownSort(t *testing.T) {
	clearEnv(t)
	t.Setenv("MARQUEE_CATALOG_SORT", "relevance,desc")

	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Catalog.APIKey = "saved-key"
	cfg.Search.DefaultKeyword = "comedy"
	require.NoError(t, SaveConfig(cfg, dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "saved-key", loaded.Catalog.APIKey)
	assert.Equal(t, "comedy", loaded.Search.DefaultKeyword)
}

func TestLoadExpandsHomeInPaths(t *testing.T) {
	clearEnv(t)
	home, err := homedir.Dir()
	require.NoError(t, err)

	dir := t.TempDir()
	yaml := []byte("storage:\n  data_dir: ~/marquee-data\nlogging:\n  file: ~/logs/marquee.log\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "marquee-data"), cfg.Storage.DataDir)
	assert.Equal(t, filepath.Join(home, "logs", "marquee.log"), cfg.Logging.File)
}

func TestLoadExpandsHomeFromEnv(t *testing.T) {
	clearEnv(t)
	home, err := homedir.Dir()
	require.NoError(t, err)
	t.Setenv("MARQUEE_STORAGE_DATA_DIR", "~/elsewhere")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "elsewhere"), cfg.Storage.DataDir)
}
