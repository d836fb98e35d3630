// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

// Messages emitted by command handlers. The chat shell's update loop is the
// single consumer; each message names an intent, not an implementation.

// ShowHelpMsg triggers the help display.
type ShowHelpMsg struct{}

// SelectTickerMsg applies a ticker click via /ticker.
type SelectTickerMsg struct {
	Ticker string
}

// ListTickersMsg requests the ticker catalog with data availability.
type ListTickersMsg struct{}

// ToggleCompareMsg changes multi-select mode. Toggle flips the current
// state; otherwise On is applied directly.
type ToggleCompareMsg struct {
	Toggle bool
	On     bool
}

// ShowFlagsMsg requests the current flags summary.
type ShowFlagsMsg struct{}

// SetFlagMsg changes one retrieval flag: "rerank", "rewrite", "cache", "boost".
type SetFlagMsg struct {
	Flag string
	On   bool
}

// SetRerankerMsg selects the reranker model.
type SetRerankerMsg struct {
	Model string
}

// SetProviderMsg switches the model provider.
type SetProviderMsg struct {
	Provider string
}

// SetSearchModeMsg switches the retrieval search mode.
type SetSearchModeMsg struct {
	Mode string
}

// SetSourcesMsg restricts retrieval to filing types.
type SetSourcesMsg struct {
	Sources string
}

// FetchFilingsMsg requests a fetch-and-index run for the selected ticker.
type FetchFilingsMsg struct {
	Forms []string
}

// PreviewFilingMsg requests the cached filing preview.
type PreviewFilingMsg struct {
	Format string
}

// UploadFileMsg uploads a local document.
type UploadFileMsg struct {
	Path string
}

// NewSessionMsg starts a fresh session.
type NewSessionMsg struct{}

// SaveSessionMsg persists the current session.
type SaveSessionMsg struct{}

// ListSessionsMsg lists saved sessions, optionally filtered.
type ListSessionsMsg struct {
	Query string
}

// ResumeSessionMsg restores a saved session.
type ResumeSessionMsg struct {
	ID string
}

// DeleteSessionMsg deletes a saved session.
type DeleteSessionMsg struct {
	ID string
}

// ExportConversationMsg exports the conversation: "md", "json", or "html".
type ExportConversationMsg struct {
	Format string
}

// CheckHealthMsg requests a backend health check. Force bypasses the
// freshness window.
type CheckHealthMsg struct {
	Force bool
}

// UnknownCommandMsg reports an unrecognized command name.
type UnknownCommandMsg struct {
	Name string
}

// CommandErrorMsg reports a command argument error.
type CommandErrorMsg struct {
	Err error
}
