// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/magchat/magchat/internal/model"
	"github.com/magchat/magchat/internal/ui/styles"
)

// =============================================================================
// MESSAGE RENDERER
// =============================================================================

// MessageRenderer renders conversation entries for the transcript viewport.
// Assistant bodies are pre-rendered markdown supplied by the caller; the
// renderer only adds the frame: labels, citations, badges, timestamps.
type MessageRenderer struct {
	theme *styles.Theme
	width int
}

// NewMessageRenderer creates a message renderer.
func NewMessageRenderer(theme *styles.Theme) *MessageRenderer {
	return &MessageRenderer{theme: theme, width: 80}
}

// SetWidth updates the available render width.
func (r *MessageRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	r.width = width
}

// Render renders one message. body is the display form of msg.Content
// (markdown-rendered for assistant answers, raw for everything else).
func (r *MessageRenderer) Render(msg model.Message, body string) string {
	var sb strings.Builder

	sb.WriteString(r.renderLabel(msg))
	sb.WriteString("\n")

	switch {
	case msg.IsError():
		sb.WriteString(r.theme.ErrorMessage.Width(r.width - 2).Render(strings.TrimSpace(body)))
	case msg.Role == model.RoleUser:
		sb.WriteString(r.theme.UserMessage.Width(r.width - 2).Render(strings.TrimSpace(body)))
	default:
		sb.WriteString(strings.TrimRight(body, "\n"))
	}
	sb.WriteString("\n")

	if trailer := r.renderTrailer(msg); trailer != "" {
		sb.WriteString(trailer)
		sb.WriteString("\n")
	}

	return sb.String()
}

// renderLabel renders the role line: label, compare note, cache badge, time.
func (r *MessageRenderer) renderLabel(msg model.Message) string {
	var label string
	switch {
	case msg.IsError():
		label = r.theme.ErrorLabel.Render(styles.StatusIndicators.Error + " " + msg.Role.DisplayName())
	case msg.Role == model.RoleUser:
		label = r.theme.UserLabel.Render(msg.Role.DisplayName())
	default:
		label = r.theme.AssistantLabel.Render(msg.Role.DisplayName())
	}

	if msg.IsCompare && len(msg.CompareTickers) > 0 {
		label += " " + r.theme.CompareIndicator.Render(strings.Join(msg.CompareTickers, " vs "))
	}
	if msg.CacheHit {
		label += " " + r.theme.CacheBadge.Render("[cached]")
	}
	if !msg.Timestamp.IsZero() {
		label += " " + r.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))
	}
	return label
}

// renderTrailer renders sources and the flags note under an answer.
func (r *MessageRenderer) renderTrailer(msg model.Message) string {
	if msg.Role != model.RoleAssistant || msg.IsError() {
		return ""
	}

	var sb strings.Builder
	if len(msg.Citations) > 0 {
		sb.WriteString(r.theme.Citation.Render("Sources:"))
		sb.WriteString("\n")
		for _, c := range msg.Citations {
			line := "  - " + c.Label()
			if c.ChunkIndex > 0 {
				line += fmt.Sprintf(" (chunk %d)", c.ChunkIndex)
			}
			sb.WriteString(r.theme.Citation.Render(line))
			sb.WriteString("\n")
		}
	}
	if msg.FlagsSummary != "" {
		sb.WriteString(r.theme.FlagsNote.Render(msg.FlagsSummary))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
