// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/magchat/magchat/internal/model"
)

// chromeHeight is the number of rows the fixed chrome occupies around the
// transcript viewport: header, ticker bar, notice/thinking reserve, input,
// and the status bar.
const chromeHeight = 7

// View renders the whole shell.
func (m Model) View() string {
	if m.width == 0 {
		return "Starting magchat..."
	}
	m.syncStatus()

	var sb strings.Builder
	sb.WriteString(m.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(m.renderFooterLine())
	sb.WriteString("\n")
	sb.WriteString(m.theme.InputContainer.Width(m.width).Render(
		m.theme.InputPrompt.Render("") + m.input.View()))
	sb.WriteString("\n")
	sb.WriteString(m.statusBar.View())
	return sb.String()
}

// syncStatus pushes live state into the status bar before rendering.
func (m *Model) syncStatus() {
	cur := m.current()
	m.statusBar.Tickers = cur.Selection.Tickers()
	m.statusBar.Compare = cur.Selection.IsCompareMode()
	m.statusBar.Options = cur.Options
	m.statusBar.Health = m.healthState
	m.statusBar.Busy = m.state == StateSending
}

// renderHeader renders the title line and the ticker catalog bar.
func (m *Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("magchat")
	subtitle := m.theme.HeaderSubtitle.Render(" - SEC filings chat")
	if m.previewText != "" {
		subtitle = m.theme.HeaderSubtitle.Render(" - preview: " + m.previewFor + " (Esc to return)")
	} else if m.showHelp {
		subtitle = m.theme.HeaderSubtitle.Render(" - help (Esc to return)")
	}
	return m.theme.Header.Width(m.width).Render(title+subtitle) + "\n" +
		" " + m.tickerBar.View(m.current().Selection)
}

// renderFooterLine renders the notice or the in-flight indicator. One row is
// always reserved so the layout does not jump.
func (m *Model) renderFooterLine() string {
	if m.state == StateSending {
		return " " + m.thinking.View(m.spinner.View(), m.sendingDetail, m.sendingStart)
	}
	if m.notice != "" {
		style := m.theme.Notice
		if m.noticeIsErr {
			style = m.theme.NoticeError
		}
		return " " + style.Render(m.notice)
	}
	return ""
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// refreshTranscript re-renders the conversation into the viewport.
func (m *Model) refreshTranscript() {
	m.viewport.SetContent(m.renderTranscript())
}

func (m *Model) renderTranscript() string {
	conv := m.current().Conversation
	if conv.IsEmpty() {
		return "\n" + m.welcome.View()
	}

	var sb strings.Builder
	for _, msg := range conv.Messages() {
		body := msg.Content
		if msg.Role == model.RoleAssistant && !msg.IsError() {
			body = m.renderMarkdown(msg.Content)
		}
		sb.WriteString(m.messages.Render(msg, body))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderMarkdown renders answer markdown with glamour, falling back to the
// raw text when rendering fails.
func (m *Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		m.rebuildRenderer()
	}
	if m.renderer == nil {
		return content
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}

// rebuildRenderer recreates the glamour renderer for the current width.
func (m *Model) rebuildRenderer() {
	wrap := m.width - 4
	if wrap < 40 {
		wrap = 40
	}
	if wrap > 100 {
		wrap = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.theme.GlamourStyle()),
		glamour.WithWordWrap(wrap),
	)
	if err == nil {
		m.renderer = r
	}
}

// =============================================================================
// PREVIEW AND HELP
// =============================================================================

func (m *Model) renderPreview() string {
	return m.previewText
}

// renderHelp renders the command reference grouped by category.
func (m *Model) renderHelp() string {
	byCat := m.registry.ByCategory()

	categories := make([]string, 0, len(byCat))
	for cat := range byCat {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	var sb strings.Builder
	sb.WriteString(m.theme.HelpTitle.Render("Commands"))
	sb.WriteString("\n\n")
	for _, cat := range categories {
		sb.WriteString(m.theme.HelpTitle.Render(cat))
		sb.WriteString("\n")
		for _, cmd := range byCat[cat] {
			usage := cmd.Usage
			if usage == "" {
				usage = cmd.Name
			}
			sb.WriteString("  ")
			sb.WriteString(m.theme.HelpCommand.Render(padCommand(usage, 26)))
			sb.WriteString(" ")
			sb.WriteString(m.theme.HelpDesc.Render(cmd.Description))
			if len(cmd.Aliases) > 0 {
				sb.WriteString(m.theme.HelpDesc.Render(" (" + strings.Join(cmd.Aliases, ", ") + ")"))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(m.theme.HelpDesc.Render("Anything without a leading / is sent to the backend as a question."))
	return sb.String()
}

func padCommand(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
