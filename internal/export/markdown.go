// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/magchat/magchat/internal/model"
	"github.com/magchat/magchat/internal/storage"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports sessions to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a session to Markdown.
func (e *MarkdownExporter) Export(rec *storage.SessionRecord) ([]byte, error) {
	if rec == nil {
		return nil, fmt.Errorf("session is nil")
	}
	if len(rec.Messages) == 0 {
		return nil, fmt.Errorf("session has no messages")
	}

	var sb strings.Builder

	// YAML frontmatter with metadata
	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(rec.Title)))
		if len(rec.Tickers) > 0 {
			sb.WriteString(fmt.Sprintf("tickers: %s\n", strings.Join(rec.Tickers, ", ")))
		}
		sb.WriteString(fmt.Sprintf("flags: %s\n", escapeYAML(rec.Options.Summary())))
		sb.WriteString(fmt.Sprintf("date: %s\n", rec.CreatedAt.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("messages: %d\n", len(rec.Messages)))
		sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
		sb.WriteString("generator: magchat\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(rec.Title)))

	if e.options.IncludeMetadata {
		sb.WriteString("## Session Information\n\n")
		if len(rec.Tickers) > 0 {
			sb.WriteString(fmt.Sprintf("- **Tickers**: %s\n", strings.Join(rec.Tickers, ", ")))
		}
		sb.WriteString(fmt.Sprintf("- **Provider**: %s\n", rec.Options.Provider))
		sb.WriteString(fmt.Sprintf("- **Search Mode**: %s\n", rec.Options.SearchMode))
		sb.WriteString(fmt.Sprintf("- **Created**: %s\n", formatTimestamp(rec.CreatedAt)))
		sb.WriteString(fmt.Sprintf("- **Messages**: %d\n", len(rec.Messages)))
		sb.WriteString("\n---\n\n")
	}

	sb.WriteString("## Conversation\n\n")

	for i, msg := range rec.Messages {
		label := e.roleLabel(msg)
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n", label, formatShortTimestamp(msg.Timestamp)))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", label))
		}

		sb.WriteString(strings.TrimSpace(msg.Content))
		sb.WriteString("\n\n")

		if trailer := e.answerTrailer(msg); trailer != "" {
			sb.WriteString(trailer)
			sb.WriteString("\n\n")
		}

		if i < len(rec.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from magchat on %s*\n",
		time.Now().Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

func (e *MarkdownExporter) roleLabel(msg model.Message) string {
	label := "[" + msg.Role.DisplayName() + "]"
	if msg.IsError() {
		label += " (error)"
	}
	if msg.IsCompare && len(msg.CompareTickers) > 0 {
		label += " — compare: " + strings.Join(msg.CompareTickers, " vs ")
	}
	return label
}

// answerTrailer renders citations, flags, and the cache marker for assistant
// answers.
func (e *MarkdownExporter) answerTrailer(msg model.Message) string {
	if msg.Role != model.RoleAssistant || msg.IsError() {
		return ""
	}

	var sb strings.Builder
	if len(msg.Citations) > 0 {
		sb.WriteString("**Sources**:\n")
		for _, c := range msg.Citations {
			sb.WriteString(fmt.Sprintf("- %s", c.Label()))
			if c.ChunkIndex > 0 {
				sb.WriteString(fmt.Sprintf(" (chunk %d)", c.ChunkIndex))
			}
			sb.WriteString("\n")
		}
	}

	var notes []string
	if msg.CacheHit {
		notes = append(notes, "cached answer")
	}
	if e.options.IncludeMetadata && msg.FlagsSummary != "" {
		notes = append(notes, msg.FlagsSummary)
	}
	if len(notes) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("<sub>%s</sub>", strings.Join(notes, " | ")))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes characters that would break formatting in headings.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

// escapeYAML escapes special YAML characters in values.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
