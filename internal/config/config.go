// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for magchat.
//
// Supports TOML configuration with sensible defaults, environment variable
// overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.magchat/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/magchat/magchat/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete magchat configuration.
type Config struct {
	Version string `toml:"version"`

	// API is the backend connection configuration.
	API APIConfig `toml:"api"`

	// Defaults seed the retrieval flags and selection for new sessions.
	Defaults DefaultsConfig `toml:"defaults"`

	// UI configuration.
	UI UIConfig `toml:"ui"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging"`
}

// APIConfig contains backend connection configuration.
type APIConfig struct {
	// BaseURL is the base URL of the analysis backend.
	// Overridable with the MAGCHAT_API_URL environment variable.
	BaseURL string `toml:"base_url"`
}

// DefaultsConfig seeds request options and ticker selection for new sessions.
type DefaultsConfig struct {
	// Ticker is the ticker selected at startup (empty = none).
	Ticker string `toml:"ticker"`
	// Provider is the default model provider: "openai", "anthropic", "ollama".
	Provider string `toml:"provider"`
	// SearchMode is the default retrieval mode: "vector" or "hybrid".
	SearchMode string `toml:"search_mode"`
	// Sources restricts retrieval: "10-K", "10-Q", or "both".
	Sources string `toml:"sources"`
	// RerankerModel selects the reranker: "builtin" or a model name.
	RerankerModel string `toml:"reranker_model"`
	// EnableRerank toggles result reranking.
	EnableRerank bool `toml:"enable_rerank"`
	// EnableQueryRewrite toggles LLM query rewriting.
	EnableQueryRewrite bool `toml:"enable_query_rewrite"`
	// EnableRetrievalCache toggles the backend retrieval cache.
	EnableRetrievalCache bool `toml:"enable_retrieval_cache"`
	// EnableSectionBoost toggles filing-section score boosting.
	EnableSectionBoost bool `toml:"enable_section_boost"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto".
	Theme string `toml:"theme"`
	// ShowCitations renders citation lists under answers.
	ShowCitations bool `toml:"show_citations"`
	// CompactMode uses a more compact layout.
	CompactMode bool `toml:"compact_mode"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// File is the log file path (empty = <config dir>/magchat.log).
	File string `toml:"file"`
	// Debug lowers the log level to debug.
	Debug bool `toml:"debug"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		API: APIConfig{
			BaseURL: "http://127.0.0.1:8000",
		},

		Defaults: DefaultsConfig{
			Provider:             "openai",
			SearchMode:           "vector",
			Sources:              "both",
			RerankerModel:        "builtin",
			EnableRerank:         true,
			EnableQueryRewrite:   true,
			EnableRetrievalCache: true,
			EnableSectionBoost:   true,
		},

		UI: UIConfig{
			Theme:         "dark",
			ShowCitations: true,
			CompactMode:   false,
		},

		Logging: LoggingConfig{
			File:  "",
			Debug: false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the magchat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".magchat"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// LogFilePath resolves the effective log file path.
func (c *Config) LogFilePath() (string, error) {
	if c.Logging.File != "" {
		return c.Logging.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "magchat.log"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from ~/.magchat/config.toml, falling back to
// defaults when the file does not exist. Environment overrides are applied
// last, then the result is validated.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path with full
// validation. A missing file is not an error: defaults are used.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
		fillDefaults(cfg)
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing string values with defaults. Booleans
// keep their decoded value: absent keys decode to false, which matches the
// flag semantics of an explicit off.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	if cfg.Defaults.Provider == "" {
		cfg.Defaults.Provider = defaults.Defaults.Provider
	}
	if cfg.Defaults.SearchMode == "" {
		cfg.Defaults.SearchMode = defaults.Defaults.SearchMode
	}
	if cfg.Defaults.Sources == "" {
		cfg.Defaults.Sources = defaults.Defaults.Sources
	}
	if cfg.Defaults.RerankerModel == "" {
		cfg.Defaults.RerankerModel = defaults.Defaults.RerankerModel
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("MAGCHAT_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("MAGCHAT_PROVIDER"); v != "" {
		c.Defaults.Provider = v
	}
	if v := os.Getenv("MAGCHAT_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("MAGCHAT_DEBUG"); v == "1" || strings.EqualFold(v, "true") {
		c.Logging.Debug = true
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q is not a valid URL", c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url scheme must be http or https, got %q", u.Scheme)
	}

	switch c.Defaults.Provider {
	case "openai", "anthropic", "ollama":
	default:
		return fmt.Errorf("defaults.provider %q is not one of openai, anthropic, ollama", c.Defaults.Provider)
	}

	switch c.Defaults.SearchMode {
	case "vector", "hybrid":
	default:
		return fmt.Errorf("defaults.search_mode %q is not one of vector, hybrid", c.Defaults.SearchMode)
	}

	switch c.Defaults.Sources {
	case "10-K", "10-Q", "both":
	default:
		return fmt.Errorf("defaults.sources %q is not one of 10-K, 10-Q, both", c.Defaults.Sources)
	}

	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("ui.theme %q is not one of dark, light, auto", c.UI.Theme)
	}

	return nil
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes the configuration to ~/.magchat/config.toml atomically.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveToPath(path)
}

// SaveToPath writes the configuration to the given path atomically.
func (c *Config) SaveToPath(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
