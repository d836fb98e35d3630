// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the magchat TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/magchat/magchat/internal/model"
	"github.com/magchat/magchat/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Health represents the last known backend health state.
type Health int

const (
	HealthUnknown Health = iota
	HealthOK
	HealthDown
)

// Indicator returns an accessible shape indicator for the health state.
func (h Health) Indicator() string {
	switch h {
	case HealthOK:
		return styles.StatusIndicators.Success
	case HealthDown:
		return styles.StatusIndicators.Error
	default:
		return styles.StatusIndicators.Pending
	}
}

// String returns the display string for the health state.
func (h Health) String() string {
	switch h {
	case HealthOK:
		return "connected"
	case HealthDown:
		return "unreachable"
	default:
		return "checking"
	}
}

// StatusBar renders the bottom status bar: selection, options, backend health.
type StatusBar struct {
	Width   int
	Tickers []string
	Compare bool
	Options model.RequestOptions
	Health  Health
	Busy    bool

	theme *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width:  80,
		Health: HealthUnknown,
		theme:  theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the status bar.
func (s *StatusBar) View() string {
	if s.Width < 60 {
		return s.viewNarrow()
	}
	return s.viewWide()
}

// viewNarrow renders a compact bar: TICKERS | health
func (s *StatusBar) viewNarrow() string {
	parts := []string{s.renderTickers()}
	if s.Compare {
		parts = append(parts, s.theme.CompareIndicator.Render("CMP"))
	}
	parts = append(parts, s.renderHealth())

	sep := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")
	return s.theme.StatusBar.Width(s.Width).Render(strings.Join(parts, sep))
}

// viewWide renders the full bar:
// TICKERS | compare | provider/mode/sources | flags | health | shortcuts
func (s *StatusBar) viewWide() string {
	sep := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")

	left := []string{s.renderTickers()}
	if s.Compare {
		left = append(left, s.theme.CompareIndicator.Render("COMPARE"))
	}
	left = append(left, s.theme.StatusProvider.Render(
		string(s.Options.Provider)+"/"+string(s.Options.SearchMode)+"/"+s.Options.Sources))
	leftSection := strings.Join(left, sep)

	right := []string{s.renderHealth()}
	if s.Width >= 100 {
		right = append(right, s.renderShortcuts())
	}
	rightSection := strings.Join(right, " ")

	spacing := s.Width - lipgloss.Width(leftSection) - lipgloss.Width(rightSection) - 4
	if spacing < 1 {
		spacing = 1
	}

	return s.theme.StatusBar.Width(s.Width).
		Render(leftSection + strings.Repeat(" ", spacing) + rightSection)
}

// renderTickers renders the current selection, primary ticker first.
func (s *StatusBar) renderTickers() string {
	if len(s.Tickers) == 0 {
		return s.theme.TickerIdle.Render("no ticker")
	}

	parts := make([]string, 0, len(s.Tickers))
	for i, t := range s.Tickers {
		if i == 0 {
			parts = append(parts, s.theme.TickerPrimary.Render(t))
		} else {
			parts = append(parts, s.theme.TickerSelected.Render(t))
		}
	}
	return strings.Join(parts, " ")
}

func (s *StatusBar) renderHealth() string {
	style := s.theme.HealthUnknown
	switch s.Health {
	case HealthOK:
		style = s.theme.HealthOK
	case HealthDown:
		style = s.theme.HealthBad
	}
	text := s.Health.Indicator() + " " + s.Health.String()
	if s.Busy {
		text = styles.StatusIndicators.Pending + " working"
		style = s.theme.HealthUnknown
	}
	return style.Render(text)
}

func (s *StatusBar) renderShortcuts() string {
	shortcuts := []string{
		s.theme.ShortcutKey.Render("/help") + s.theme.ShortcutDesc.Render(" cmds"),
		s.theme.ShortcutKey.Render("^C") + s.theme.ShortcutDesc.Render(" quit"),
	}
	return strings.Join(shortcuts, " ")
}
