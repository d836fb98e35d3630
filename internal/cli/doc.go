// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-TUI command surface: one-shot questions,
// comparisons, ingestion, previews, session management, export, and
// diagnostics. The TUI remains the default when magchat is started without
// a command; everything here is for scripting and quick checks.
package cli
