// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// TICKER BAR STYLES
	// ==========================================================================

	TickerIdle       lipgloss.Style
	TickerSelected   lipgloss.Style
	TickerPrimary    lipgloss.Style
	CompareIndicator lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	ErrorLabel     lipgloss.Style
	UserMessage    lipgloss.Style
	ErrorMessage   lipgloss.Style
	Citation       lipgloss.Style
	CacheBadge     lipgloss.Style
	FlagsNote      lipgloss.Style
	Timestamp      lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar      lipgloss.Style
	HealthOK       lipgloss.Style
	HealthBad      lipgloss.Style
	HealthUnknown  lipgloss.Style
	StatusMode     lipgloss.Style
	StatusProvider lipgloss.Style
	ShortcutKey    lipgloss.Style
	ShortcutDesc   lipgloss.Style

	// ==========================================================================
	// SPINNER AND NOTICE STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
	Notice       lipgloss.Style
	NoticeError  lipgloss.Style

	// ==========================================================================
	// HELP AND LIST STYLES
	// ==========================================================================

	HelpTitle   lipgloss.Style
	HelpCommand lipgloss.Style
	HelpDesc    lipgloss.Style
	ListText    lipgloss.Style
}

// NewTheme creates a theme matching the terminal's background.
func NewTheme() *Theme {
	return newTheme(termenv.HasDarkBackground(), termenv.ColorProfile())
}

// NewThemeForTest creates a deterministic theme for tests.
func NewThemeForTest() *Theme {
	return newTheme(true, termenv.Ascii)
}

func newTheme(isDark bool, profile termenv.Profile) *Theme {
	t := &Theme{
		IsDark:       isDark,
		ColorProfile: profile,
	}

	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.TickerIdle = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.TickerSelected = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.TickerPrimary = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true).
		Underline(true)
	t.CompareIndicator = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.UserLabel = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Bold(true)
	t.AssistantLabel = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Bold(true)
	t.ErrorLabel = lipgloss.NewStyle().
		Foreground(ErrorBubbleFg).
		Bold(true)
	t.UserMessage = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(UserBubbleBorder).
		PaddingLeft(1)
	t.ErrorMessage = lipgloss.NewStyle().
		Foreground(ErrorBubbleFg).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(ErrorBubbleBorder).
		PaddingLeft(1)
	t.Citation = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.CacheBadge = lipgloss.NewStyle().
		Foreground(Amber)
	t.FlagsNote = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay)
	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)
	t.HealthOK = lipgloss.NewStyle().
		Foreground(SuccessHighContrast).
		Bold(true)
	t.HealthBad = lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true)
	t.HealthUnknown = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.StatusMode = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)
	t.StatusProvider = lipgloss.NewStyle().
		Foreground(TextSecondary)
	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)
	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
	t.Notice = lipgloss.NewStyle().
		Foreground(Amber)
	t.NoticeError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.HelpTitle = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.HelpCommand = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)
	t.HelpDesc = lipgloss.NewStyle().
		Foreground(TextSecondary)
	t.ListText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	return t
}

// GlamourStyle returns the glamour style name matching the theme.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}
