// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/magchat/magchat/internal/api"
	"github.com/magchat/magchat/internal/export"
	"github.com/magchat/magchat/internal/model"
	"github.com/magchat/magchat/internal/preview"
	"github.com/magchat/magchat/internal/session"
)

// Async work runs in tea.Cmd closures. Each closure captures the values it
// needs up front so the running goroutine never touches the model.

// =============================================================================
// CHAT AND COMPARE
// =============================================================================

// sendChatCmd asks a single-ticker question.
func (m *Model) sendChatCmd(ticker, question string, opts model.RequestOptions) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		resp, err := client.Chat(context.Background(), api.NewChatRequest(ticker, question, opts))
		if err != nil {
			return SendFailedMsg{Err: err}
		}
		return ChatResultMsg{Ticker: ticker, Question: question, Resp: resp}
	}
}

// sendCompareCmd asks one question against all selected tickers.
func (m *Model) sendCompareCmd(tickers []string, question string, opts model.RequestOptions) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		resp, err := client.Compare(context.Background(), api.NewCompareRequest(tickers, question, opts))
		if err != nil {
			return SendFailedMsg{Err: err}
		}
		return CompareResultMsg{Tickers: tickers, Question: question, Resp: resp}
	}
}

// =============================================================================
// HEALTH
// =============================================================================

// checkHealthCmd checks backend health through the deduplicating monitor.
// force drops the cached result first.
func (m *Model) checkHealthCmd(force bool) tea.Cmd {
	monitor := m.health
	return func() tea.Msg {
		if force {
			monitor.Invalidate()
		}
		resp, err := monitor.Check(context.Background())
		return HealthResultMsg{Resp: resp, Err: err}
	}
}

// =============================================================================
// INGESTION AND PREVIEW
// =============================================================================

// fetchCmd triggers fetch-and-index for a ticker.
func (m *Model) fetchCmd(ticker string, forms []string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.FetchFilings(context.Background(), ticker, forms, 0)
		return FetchResultMsg{Ticker: ticker, Err: err}
	}
}

// previewCmd fetches the cached filing preview and reflows it for display.
func (m *Model) previewCmd(ticker string, format api.PreviewFormat) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		resp, err := client.Preview(context.Background(), ticker, format)
		if err != nil {
			return PreviewResultMsg{Ticker: ticker, Err: err}
		}
		return PreviewResultMsg{Ticker: ticker, Content: preview.Reflow(resp.Content)}
	}
}

// uploadCmd uploads a local document for indexing.
func (m *Model) uploadCmd(path, ticker string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return UploadResultMsg{Err: err}
		}
		defer f.Close()
		resp, err := client.Upload(context.Background(), filepath.Base(path), f, ticker)
		return UploadResultMsg{Resp: resp, Err: err}
	}
}

// tickerCatalogCmd checks data availability for the whole catalog.
func (m *Model) tickerCatalogCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		items := make([]api.DataAvailability, 0, len(model.MAG7))
		for _, ticker := range model.MAG7 {
			avail, err := client.DataAvailability(context.Background(), ticker)
			if err != nil {
				return TickerCatalogMsg{Err: err}
			}
			items = append(items, *avail)
		}
		return TickerCatalogMsg{Items: items}
	}
}

// =============================================================================
// SESSIONS AND EXPORT
// =============================================================================

// saveSessionCmd persists the active session.
func (m *Model) saveSessionCmd() tea.Cmd {
	sessions := m.sessions
	return func() tea.Msg {
		return SessionSavedMsg{Err: sessions.Save()}
	}
}

// listSessionsCmd lists stored sessions, optionally filtered.
func (m *Model) listSessionsCmd(query string) tea.Cmd {
	sessions := m.sessions
	return func() tea.Msg {
		metas, err := sessions.Search(query)
		return SessionsListedMsg{Metas: metas, Err: err}
	}
}

// loadSessionCmd restores a stored session, flushing the current one first.
func (m *Model) loadSessionCmd(id string) tea.Cmd {
	sessions := m.sessions
	return func() tea.Msg {
		if err := sessions.FlushIfDirty(); err != nil {
			return SessionLoadedMsg{Err: err}
		}
		s, err := sessions.Load(id)
		return SessionLoadedMsg{Session: s, Err: err}
	}
}

// deleteSessionCmd removes a stored session.
func (m *Model) deleteSessionCmd(id string) tea.Cmd {
	sessions := m.sessions
	return func() tea.Msg {
		return SessionDeletedMsg{ID: id, Err: sessions.Delete(id)}
	}
}

// exportCmd writes the current transcript to a file in the given format.
func (m *Model) exportCmd(s *session.Session, format string) tea.Cmd {
	theme := m.theme
	return func() tea.Msg {
		opts := export.DefaultOptions()
		if !theme.IsDark {
			opts.Theme = "light"
		}
		exporter, err := export.ForFormat(format, opts)
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		path, err := export.ExportToFile(s.Snapshot(), exporter, opts)
		return ExportDoneMsg{Path: path, Err: err}
	}
}
