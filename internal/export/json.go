// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/magchat/magchat/internal/model"
	"github.com/magchat/magchat/internal/storage"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports sessions as pretty-printed JSON.
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// jsonDocument is the export schema. It is decoupled from the storage record
// so the on-disk database layout can change without breaking consumers.
type jsonDocument struct {
	ID         string               `json:"id"`
	Title      string               `json:"title"`
	Tickers    []string             `json:"tickers,omitempty"`
	Options    model.RequestOptions `json:"options"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
	ExportedAt time.Time            `json:"exported_at"`
	Generator  string               `json:"generator"`
	Messages   []model.Message      `json:"messages"`
}

// Export converts a session to JSON.
func (e *JSONExporter) Export(rec *storage.SessionRecord) ([]byte, error) {
	if rec == nil {
		return nil, fmt.Errorf("session is nil")
	}
	if len(rec.Messages) == 0 {
		return nil, fmt.Errorf("session has no messages")
	}

	doc := jsonDocument{
		ID:         rec.ID,
		Title:      rec.Title,
		Tickers:    rec.Tickers,
		Options:    rec.Options,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
		ExportedAt: time.Now(),
		Generator:  "magchat",
		Messages:   rec.Messages,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
