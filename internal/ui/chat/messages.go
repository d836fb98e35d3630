// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/magchat/magchat/internal/api"
	"github.com/magchat/magchat/internal/config"
	"github.com/magchat/magchat/internal/session"
	"github.com/magchat/magchat/internal/storage"
)

// ConfigReloadedMsg delivers a config freshly reloaded from disk by the
// file watcher.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// =============================================================================
// ASYNC RESULT MESSAGES
// =============================================================================

// ChatResultMsg carries a successful single-ticker answer.
type ChatResultMsg struct {
	Ticker   string
	Question string
	Resp     *api.ChatResponse
}

// CompareResultMsg carries a successful comparison answer.
type CompareResultMsg struct {
	Tickers  []string
	Question string
	Resp     *api.CompareResponse
}

// SendFailedMsg reports a failed chat or compare call.
type SendFailedMsg struct {
	Err error
}

// HealthResultMsg carries the outcome of a backend health check.
type HealthResultMsg struct {
	Resp *api.HealthResponse
	Err  error
}

// FetchResultMsg reports the outcome of a fetch-and-index request.
type FetchResultMsg struct {
	Ticker string
	Err    error
}

// PreviewResultMsg carries a reflowed filing preview.
type PreviewResultMsg struct {
	Ticker  string
	Content string
	Err     error
}

// UploadResultMsg reports the outcome of a document upload.
type UploadResultMsg struct {
	Resp *api.UploadResponse
	Err  error
}

// TickerCatalogMsg carries per-ticker data availability.
type TickerCatalogMsg struct {
	Items []api.DataAvailability
	Err   error
}

// SessionsListedMsg carries stored session metadata.
type SessionsListedMsg struct {
	Metas []storage.SessionMeta
	Err   error
}

// SessionLoadedMsg reports a restored session.
type SessionLoadedMsg struct {
	Session *session.Session
	Err     error
}

// SessionSavedMsg reports a completed save.
type SessionSavedMsg struct {
	Err error
}

// SessionDeletedMsg reports a completed delete.
type SessionDeletedMsg struct {
	ID  string
	Err error
}

// ExportDoneMsg reports a completed transcript export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// =============================================================================
// TIMERS
// =============================================================================

// healthTickMsg fires on the health polling cadence.
type healthTickMsg struct{}

// flushTickMsg fires on the periodic session flush cadence.
type flushTickMsg struct{}
