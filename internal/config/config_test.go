// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://127.0.0.1:8000", cfg.API.BaseURL)
	assert.Equal(t, "openai", cfg.Defaults.Provider)
	assert.Equal(t, "vector", cfg.Defaults.SearchMode)
	assert.True(t, cfg.Defaults.EnableRerank)
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().API.BaseURL, cfg.API.BaseURL)
}

func TestLoadFromPath_PartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[api]
base_url = "http://backend.internal:9000"

[defaults]
provider = "anthropic"
`), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://backend.internal:9000", cfg.API.BaseURL)
	assert.Equal(t, "anthropic", cfg.Defaults.Provider)
	// Untouched sections keep defaults.
	assert.Equal(t, "vector", cfg.Defaults.SearchMode)
	assert.Equal(t, "dark", cfg.UI.Theme)
}

func TestLoadFromPath_InvalidValuesRejected(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"bad url", "[api]\nbase_url = \"not a url\"\n"},
		{"bad scheme", "[api]\nbase_url = \"ftp://host\"\n"},
		{"bad provider", "[defaults]\nprovider = \"gemini\"\n"},
		{"bad search mode", "[defaults]\nsearch_mode = \"keyword\"\n"},
		{"bad sources", "[defaults]\nsources = \"8-K\"\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tc.body), 0600))
			_, err := LoadFromPath(path)
			assert.Error(t, err)
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("MAGCHAT_API_URL", "http://override:8001")
	t.Setenv("MAGCHAT_DEBUG", "true")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "http://override:8001", cfg.API.BaseURL)
	assert.True(t, cfg.Logging.Debug)
}

func TestEnvOverrideWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api]\nbase_url = \"http://file:8000\"\n"), 0600))

	t.Setenv("MAGCHAT_API_URL", "http://env:8000")
	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env:8000", cfg.API.BaseURL)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.API.BaseURL = "http://saved:1234"
	cfg.Defaults.EnableRerank = false
	require.NoError(t, cfg.SaveToPath(path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://saved:1234", loaded.API.BaseURL)
	assert.False(t, loaded.Defaults.EnableRerank)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api]\nbase_url = \"http://one:8000\"\n"), 0600))

	reloaded := make(chan *Config, 1)
	w, err := Watch(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("[api]\nbase_url = \"http://two:8000\"\n"), 0600))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "http://two:8000", cfg.API.BaseURL)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not deliver reload")
	}
}

func TestWatchSkipsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api]\nbase_url = \"http://one:8000\"\n"), 0600))

	reloaded := make(chan *Config, 4)
	w, err := Watch(path, func(cfg *Config) { reloaded <- cfg })
	require.NoError(t, err)
	defer w.Close()

	// Garbage first: must be skipped.
	require.NoError(t, os.WriteFile(path, []byte("this is not toml = = ="), 0600))
	time.Sleep(2 * debounceWindow)

	// Then a valid change.
	require.NoError(t, os.WriteFile(path, []byte("[api]\nbase_url = \"http://three:8000\"\n"), 0600))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "http://three:8000", cfg.API.BaseURL)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not deliver reload")
	}
}
