// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for magchat.
//
// Supports TOML configuration with sensible defaults, environment variable
// overrides, validation, and live reload via a filesystem watcher.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (MAGCHAT_*)
//   - ~/.magchat/config.toml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	baseURL := cfg.API.BaseURL
//	provider := cfg.Defaults.Provider
package config
