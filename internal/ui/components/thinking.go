// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/magchat/magchat/internal/ui/styles"
)

// =============================================================================
// THINKING INDICATOR
// =============================================================================

// ThinkingIndicator renders the in-flight line shown while a question is out
// to the backend. Comparison runs can take minutes, so the elapsed time is
// always shown.
type ThinkingIndicator struct {
	theme *styles.Theme
}

// NewThinkingIndicator creates a thinking indicator.
func NewThinkingIndicator(theme *styles.Theme) *ThinkingIndicator {
	return &ThinkingIndicator{theme: theme}
}

// View renders the indicator. spinnerFrame is the current spinner frame and
// detail describes the operation, e.g. "Comparing AAPL vs MSFT".
func (t *ThinkingIndicator) View(spinnerFrame, detail string, start time.Time) string {
	if detail == "" {
		detail = "Thinking"
	}
	elapsed := formatElapsed(time.Since(start))
	return t.theme.Spinner.Render(spinnerFrame) + " " +
		t.theme.ThinkingText.Render(detail+"... "+elapsed)
}

// formatElapsed renders a compact duration like "4s" or "2m05s".
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int(d.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm%02ds", seconds/60, seconds%60)
}
