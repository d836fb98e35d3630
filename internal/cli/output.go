// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/magchat/magchat/internal/api"
	"github.com/magchat/magchat/internal/model"
)

// printer writes progress lines to stderr so stdout stays clean for the
// actual output (answers, transcripts, JSON).
type printer struct {
	quiet bool
}

func newPrinter(quiet bool) *printer {
	return &printer{quiet: quiet}
}

// Progress prints a progress line unless --quiet.
func (p *printer) Progress(format string, a ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", a...)
}

// stdoutIsTerminal reports whether stdout is an interactive terminal.
func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// =============================================================================
// ANSWER RENDERING
// =============================================================================

// printAnswer renders a chat answer: markdown through glamour on a terminal,
// raw text otherwise, followed by citations and the cache marker.
func printAnswer(resp *api.ChatResponse) {
	fmt.Print(renderMarkdown(resp.Answer))

	if len(resp.Citations) > 0 {
		fmt.Println("\nSources:")
		for _, c := range resp.Citations {
			line := "  - " + c.Label()
			if c.ChunkIndex > 0 {
				line += fmt.Sprintf(" (chunk %d)", c.ChunkIndex)
			}
			fmt.Println(line)
		}
	}
	if resp.CacheHit {
		fmt.Println("\n(cached answer)")
	}
}

// printCompare renders a comparison answer.
func printCompare(tickers []string, resp *api.CompareResponse) {
	fmt.Printf("Comparison: %s\n\n", strings.Join(tickers, " vs "))

	if strings.TrimSpace(resp.CombinedAnswer) != "" {
		fmt.Print(renderMarkdown(resp.CombinedAnswer))
		return
	}
	for _, r := range resp.Results {
		fmt.Printf("== %s ==\n\n", r.Ticker)
		fmt.Print(renderMarkdown(r.Answer))
		fmt.Println()
	}
}

// printBatch renders a batch answer: per-ticker sections in request order,
// then the comparative summary.
func printBatch(tickers []string, resp *api.BatchChatResponse) {
	for i, r := range resp.Responses {
		if i < len(tickers) {
			fmt.Printf("== %s ==\n\n", tickers[i])
		}
		printAnswer(&r)
		fmt.Println()
	}

	if strings.TrimSpace(resp.ComparativeSummary) != "" {
		fmt.Println("Summary:")
		fmt.Print(renderMarkdown(resp.ComparativeSummary))
	}
	if resp.Failed > 0 {
		fmt.Printf("\n(%d of %d requests failed)\n", resp.Failed, resp.Total)
	}
}

// renderMarkdown renders markdown for a terminal, falling back to the raw
// text when stdout is piped or rendering fails.
func renderMarkdown(text string) string {
	if !stdoutIsTerminal() {
		return ensureTrailingNewline(text)
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(terminalWidth()),
	)
	if err != nil {
		return ensureTrailingNewline(text)
	}
	out, err := r.Render(text)
	if err != nil {
		return ensureTrailingNewline(text)
	}
	return out
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	if w > 110 {
		return 110
	}
	return w
}

func ensureTrailingNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// =============================================================================
// JSON OUTPUT
// =============================================================================

// printJSON emits a machine-readable result for --json consumers.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// answerJSON is the --json schema for ask.
type answerJSON struct {
	Ticker    string           `json:"ticker"`
	Question  string           `json:"question"`
	Answer    string           `json:"answer"`
	Citations []model.Citation `json:"citations,omitempty"`
	Flags     string           `json:"flags_summary,omitempty"`
	CacheHit  bool             `json:"cache_hit"`
}
