// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/magchat/magchat/internal/model"
	"github.com/magchat/magchat/internal/storage"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports sessions to a standalone HTML page with highlighted
// code blocks.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a session to HTML.
func (e *HTMLExporter) Export(rec *storage.SessionRecord) ([]byte, error) {
	if rec == nil {
		return nil, fmt.Errorf("session is nil")
	}
	if len(rec.Messages) == 0 {
		return nil, fmt.Errorf("session has no messages")
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\">\n")
	sb.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(rec.Title)))
	sb.WriteString("<style>\n")
	sb.WriteString(e.stylesheet())
	sb.WriteString("</style>\n</head>\n<body>\n")

	sb.WriteString(fmt.Sprintf("<h1>%s</h1>\n", html.EscapeString(rec.Title)))

	if e.options.IncludeMetadata {
		sb.WriteString("<div class=\"meta\">\n")
		if len(rec.Tickers) > 0 {
			sb.WriteString(fmt.Sprintf("<span class=\"badge\">%s</span>\n",
				html.EscapeString(strings.Join(rec.Tickers, " · "))))
		}
		sb.WriteString(fmt.Sprintf("<span>%s · %s</span>\n",
			html.EscapeString(string(rec.Options.Provider)),
			html.EscapeString(formatTimestamp(rec.CreatedAt))))
		sb.WriteString("</div>\n")
	}

	for _, msg := range rec.Messages {
		e.writeMessage(&sb, msg)
	}

	sb.WriteString(fmt.Sprintf("<footer>Exported from magchat on %s</footer>\n",
		html.EscapeString(time.Now().Format("January 2, 2006 at 3:04 PM"))))
	sb.WriteString("</body>\n</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// =============================================================================
// MESSAGE RENDERING
// =============================================================================

func (e *HTMLExporter) writeMessage(sb *strings.Builder, msg model.Message) {
	class := "message user"
	if msg.Role == model.RoleAssistant {
		class = "message assistant"
	}
	if msg.IsError() {
		class += " error"
	}

	sb.WriteString(fmt.Sprintf("<div class=\"%s\">\n", class))

	label := msg.Role.DisplayName()
	if msg.IsCompare && len(msg.CompareTickers) > 0 {
		label += " — " + strings.Join(msg.CompareTickers, " vs ")
	}
	sb.WriteString(fmt.Sprintf("<div class=\"role\">%s", html.EscapeString(label)))
	if e.options.IncludeTimestamps {
		sb.WriteString(fmt.Sprintf(" <time>%s</time>", html.EscapeString(formatShortTimestamp(msg.Timestamp))))
	}
	if msg.CacheHit {
		sb.WriteString(" <span class=\"cache\">cached</span>")
	}
	sb.WriteString("</div>\n")

	sb.WriteString("<div class=\"content\">\n")
	sb.WriteString(renderContentHTML(msg.Content))
	sb.WriteString("</div>\n")

	if len(msg.Citations) > 0 {
		sb.WriteString("<ul class=\"citations\">\n")
		for _, c := range msg.Citations {
			label := c.Label()
			if c.ChunkIndex > 0 {
				label += fmt.Sprintf(" (chunk %d)", c.ChunkIndex)
			}
			sb.WriteString(fmt.Sprintf("<li>%s</li>\n", html.EscapeString(label)))
		}
		sb.WriteString("</ul>\n")
	}

	sb.WriteString("</div>\n")
}

// renderContentHTML converts message text to HTML, highlighting fenced code
// blocks with chroma and escaping everything else.
func renderContentHTML(content string) string {
	var sb strings.Builder
	var codeLines []string
	var language string
	inCode := false

	flushParagraph := func(lines []string) {
		text := strings.TrimSpace(strings.Join(lines, "\n"))
		if text != "" {
			sb.WriteString("<p>" + strings.ReplaceAll(html.EscapeString(text), "\n", "<br>\n") + "</p>\n")
		}
	}

	var textLines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "```") {
			if inCode {
				sb.WriteString(highlightHTML(strings.Join(codeLines, "\n"), language))
				codeLines = nil
				language = ""
				inCode = false
			} else {
				flushParagraph(textLines)
				textLines = nil
				language = strings.TrimSpace(strings.TrimPrefix(line, "```"))
				inCode = true
			}
			continue
		}
		if inCode {
			codeLines = append(codeLines, line)
		} else {
			textLines = append(textLines, line)
		}
	}
	if inCode && len(codeLines) > 0 {
		sb.WriteString(highlightHTML(strings.Join(codeLines, "\n"), language))
	}
	flushParagraph(textLines)

	return sb.String()
}

// highlightHTML renders a code block with chroma's HTML formatter. On any
// failure the code is emitted as an escaped <pre> block.
func highlightHTML(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := chromahtml.New(chromahtml.WithClasses(false), chromahtml.Standalone(false))

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "<pre>" + html.EscapeString(code) + "</pre>\n"
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "<pre>" + html.EscapeString(code) + "</pre>\n"
	}
	return buf.String()
}

// =============================================================================
// STYLESHEET
// =============================================================================

func (e *HTMLExporter) stylesheet() string {
	bg, fg, surface := "#ffffff", "#1a1a2e", "#f2f2f7"
	if e.options.Theme != "light" {
		bg, fg, surface = "#16161e", "#c0caf5", "#1f2335"
	}
	return fmt.Sprintf(`body { font-family: -apple-system, "Segoe UI", sans-serif; max-width: 52rem;
  margin: 2rem auto; padding: 0 1rem; background: %s; color: %s; }
h1 { font-size: 1.4rem; }
.meta { color: #888; margin-bottom: 2rem; }
.badge { font-weight: 600; margin-right: 0.75rem; }
.message { background: %s; border-radius: 8px; padding: 0.75rem 1rem; margin: 1rem 0; }
.message.user { border-left: 3px solid #7aa2f7; }
.message.assistant { border-left: 3px solid #9ece6a; }
.message.error { border-left: 3px solid #f7768e; }
.role { font-weight: 600; margin-bottom: 0.5rem; }
.role time { font-weight: 400; color: #888; font-size: 0.85em; }
.cache { font-size: 0.75em; border: 1px solid #888; border-radius: 4px; padding: 0 4px; color: #888; }
.citations { font-size: 0.85em; color: #888; }
pre { overflow-x: auto; border-radius: 6px; padding: 0.75rem; }
footer { color: #888; font-size: 0.8em; margin: 2rem 0; }
`, bg, fg, surface)
}
