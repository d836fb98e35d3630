// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/magchat/magchat/internal/model"
	"github.com/magchat/magchat/internal/ui/styles"
)

// =============================================================================
// TICKER BAR COMPONENT
// =============================================================================

// TickerBar renders the fixed ticker catalog with the current selection
// highlighted. The primary ticker is underlined; in multi-select mode every
// selected ticker is highlighted.
type TickerBar struct {
	theme *styles.Theme
}

// NewTickerBar creates a ticker bar.
func NewTickerBar(theme *styles.Theme) *TickerBar {
	return &TickerBar{theme: theme}
}

// View renders the catalog against a selection.
func (b *TickerBar) View(sel *model.Selection) string {
	selected := make(map[string]bool, sel.Len())
	for _, t := range sel.Tickers() {
		selected[t] = true
	}
	primary := sel.Primary()

	parts := make([]string, 0, len(model.MAG7)+1)
	for _, t := range model.MAG7 {
		switch {
		case t == primary:
			parts = append(parts, b.theme.TickerPrimary.Render(t))
		case selected[t]:
			parts = append(parts, b.theme.TickerSelected.Render(t))
		default:
			parts = append(parts, b.theme.TickerIdle.Render(t))
		}
	}

	if sel.MultiSelect() {
		parts = append(parts, b.theme.CompareIndicator.Render("[multi]"))
	}
	return strings.Join(parts, "  ")
}
