// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers: rune- and width-aware string
// truncation for terminal rendering, and crash-safe atomic file writes used
// by the export and config layers.
package util
