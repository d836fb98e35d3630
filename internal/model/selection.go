// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// =============================================================================
// TICKER CATALOG
// =============================================================================

// MAG7 is the fixed set of tracked large-cap technology tickers.
var MAG7 = []string{"AAPL", "MSFT", "AMZN", "GOOGL", "META", "NVDA", "TSLA"}

// IsMAG7 reports whether the ticker is one of the tracked symbols.
func IsMAG7(ticker string) bool {
	ticker = NormalizeTicker(ticker)
	for _, t := range MAG7 {
		if t == ticker {
			return true
		}
	}
	return false
}

// NormalizeTicker trims whitespace and upper-cases a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// =============================================================================
// SELECTION
// =============================================================================

// Selection tracks the ordered set of selected tickers and the selection mode.
// The first element is the primary ticker used for single-ticker actions.
//
// In single-select mode Select replaces the whole selection; in multi-select
// mode it toggles membership while preserving the order of untouched members.
// Turning multi-select off deliberately leaves an over-populated selection in
// place; Primary picks the first element and the rest are ignored.
type Selection struct {
	tickers     []string
	multiSelect bool
}

// NewSelection creates an empty single-select selection.
func NewSelection() *Selection {
	return &Selection{}
}

// RestoreSelection rebuilds a selection from persisted state.
func RestoreSelection(tickers []string, multiSelect bool) *Selection {
	s := &Selection{multiSelect: multiSelect}
	for _, t := range tickers {
		if n := NormalizeTicker(t); n != "" && !s.contains(n) {
			s.tickers = append(s.tickers, n)
		}
	}
	return s
}

// Select applies a ticker click. Empty input is ignored.
func (s *Selection) Select(ticker string) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return
	}
	if !s.multiSelect {
		s.tickers = []string{ticker}
		return
	}
	for i, t := range s.tickers {
		if t == ticker {
			s.tickers = append(s.tickers[:i], s.tickers[i+1:]...)
			return
		}
	}
	s.tickers = append(s.tickers, ticker)
}

// SetMultiSelect switches the selection mode. Prior selection is kept.
func (s *Selection) SetMultiSelect(on bool) {
	s.multiSelect = on
}

// MultiSelect reports whether multi-select mode is active.
func (s *Selection) MultiSelect() bool {
	return s.multiSelect
}

// IsCompareMode derives the compare mode from the current state. It is
// recomputed on every call and never cached.
func (s *Selection) IsCompareMode() bool {
	return s.multiSelect && len(s.tickers) >= 2
}

// Primary returns the first selected ticker, or "" if none.
func (s *Selection) Primary() string {
	if len(s.tickers) == 0 {
		return ""
	}
	return s.tickers[0]
}

// Tickers returns a copy of the selected tickers in insertion order.
func (s *Selection) Tickers() []string {
	out := make([]string, len(s.tickers))
	copy(out, s.tickers)
	return out
}

// Len returns the number of selected tickers.
func (s *Selection) Len() int {
	return len(s.tickers)
}

// Clear removes all selected tickers. The mode is unchanged.
func (s *Selection) Clear() {
	s.tickers = nil
}

func (s *Selection) contains(ticker string) bool {
	for _, t := range s.tickers {
		if t == ticker {
			return true
		}
	}
	return false
}
