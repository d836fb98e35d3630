// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/magchat/magchat/internal/model"
	"github.com/magchat/magchat/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// Welcome renders the empty-transcript placeholder with first-step hints.
type Welcome struct {
	theme *styles.Theme
}

// NewWelcome creates a welcome screen.
func NewWelcome(theme *styles.Theme) *Welcome {
	return &Welcome{theme: theme}
}

// View renders the welcome text.
func (w *Welcome) View() string {
	var sb strings.Builder

	sb.WriteString(w.theme.HelpTitle.Render("magchat"))
	sb.WriteString("\n")
	sb.WriteString(w.theme.HelpDesc.Render("Ask questions about SEC filings, grounded in 10-K and 10-Q text."))
	sb.WriteString("\n\n")

	sb.WriteString(w.theme.ListText.Render("Tickers: " + strings.Join(model.MAG7, " ")))
	sb.WriteString("\n\n")

	rows := []struct{ cmd, desc string }{
		{"/ticker AAPL", "select a company"},
		{"/fetch", "index its latest filings"},
		{"/compare on", "multi-select for comparisons"},
		{"/help", "all commands"},
	}
	for _, row := range rows {
		sb.WriteString("  ")
		sb.WriteString(w.theme.HelpCommand.Render(row.cmd))
		sb.WriteString("  ")
		sb.WriteString(w.theme.HelpDesc.Render(row.desc))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(w.theme.HelpDesc.Render("Then just type a question and press Enter."))
	return sb.String()
}
