// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magchat/magchat/internal/model"
	"github.com/magchat/magchat/internal/storage"
)

func sampleSession() *storage.SessionRecord {
	return &storage.SessionRecord{
		ID:        "conv_export",
		Title:     "AAPL revenue drivers",
		Tickers:   []string{"AAPL"},
		Options:   model.DefaultOptions(),
		CreatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 6, 1, 10, 5, 0, 0, time.UTC),
		Messages: []model.Message{
			{
				ID: "m1", Role: model.RoleUser, Kind: model.KindNormal,
				Content:   "What drove revenue growth?",
				Timestamp: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
			},
			{
				ID: "m2", Role: model.RoleAssistant, Kind: model.KindNormal,
				Content: "Services led growth.\n```python\nprint(\"detail\")\n```\nSee filings.",
				Citations: []model.Citation{
					{Ticker: "AAPL", FormType: "10-K", Year: 2024, ChunkIndex: 2},
				},
				FlagsSummary: "rerank=on, rewrite=on, cache=on, section_boost=on, reranker=builtin",
				CacheHit:     true,
				Timestamp:    time.Date(2025, 6, 1, 10, 1, 0, 0, time.UTC),
			},
		},
	}
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(sampleSession())
	require.NoError(t, err)
	text := string(out)

	assert.True(t, strings.HasPrefix(text, "---\n"), "frontmatter first")
	assert.Contains(t, text, "tickers: AAPL")
	assert.Contains(t, text, "# AAPL revenue drivers")
	assert.Contains(t, text, "[You]")
	assert.Contains(t, text, "[Analyst]")
	assert.Contains(t, text, "- AAPL 10-K 2024 (chunk 2)")
	assert.Contains(t, text, "cached answer")
}

func TestMarkdownExportErrorMessageLabeled(t *testing.T) {
	rec := sampleSession()
	rec.Messages = append(rec.Messages, model.Message{
		ID: "m3", Role: model.RoleAssistant, Kind: model.KindError,
		Content: "Error: request timed out.", Timestamp: time.Now(),
	})

	out, err := NewMarkdownExporter(nil).Export(rec)
	require.NoError(t, err)
	assert.Contains(t, string(out), "[Analyst] (error)")
}

func TestJSONExportRoundTrips(t *testing.T) {
	out, err := NewJSONExporter().Export(sampleSession())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "conv_export", doc["id"])
	assert.Equal(t, "magchat", doc["generator"])
	assert.Len(t, doc["messages"], 2)
}

func TestHTMLExport(t *testing.T) {
	out, err := NewHTMLExporter(nil).Export(sampleSession())
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "<!DOCTYPE html>")
	assert.Contains(t, text, "AAPL revenue drivers")
	assert.Contains(t, text, "class=\"message assistant\"")
	assert.Contains(t, text, "AAPL 10-K 2024 (chunk 2)")
	assert.Contains(t, text, "cached")
	// Code fence became a highlighted block, not literal backticks.
	assert.NotContains(t, text, "```")
	assert.Contains(t, text, "<pre")
}

func TestExportRejectsEmptySession(t *testing.T) {
	rec := sampleSession()
	rec.Messages = nil

	_, err := NewMarkdownExporter(nil).Export(rec)
	assert.Error(t, err)
	_, err = NewJSONExporter().Export(rec)
	assert.Error(t, err)
	_, err = NewHTMLExporter(nil).Export(rec)
	assert.Error(t, err)
}

func TestForFormat(t *testing.T) {
	for _, format := range []string{"md", "markdown", "json", "html"} {
		exp, err := ForFormat(format, nil)
		require.NoError(t, err, format)
		assert.NotNil(t, exp)
	}
	_, err := ForFormat("pdf", nil)
	assert.Error(t, err)
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.OutputDir = dir

	path, err := ExportToFile(sampleSession(), NewMarkdownExporter(opts), opts)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".md"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# AAPL revenue drivers")
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a-b_c", sanitizeFilename(`a/b c`))
	assert.Equal(t, "session", sanitizeFilename(""))
	assert.NotContains(t, sanitizeFilename("q: what?"), "?")
}
