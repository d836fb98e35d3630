// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes conversation transcripts to Markdown, JSON, and
// HTML files. HTML output highlights fenced code blocks with chroma.
package export
