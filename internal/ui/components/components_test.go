// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/magchat/magchat/internal/model"
	"github.com/magchat/magchat/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewThemeForTest()
}

func TestStatusBarShowsSelection(t *testing.T) {
	bar := NewStatusBar(testTheme())
	bar.SetWidth(120)
	bar.Tickers = []string{"AAPL", "MSFT"}
	bar.Compare = true
	bar.Options = model.DefaultOptions()
	bar.Health = HealthOK

	out := bar.View()
	if !strings.Contains(out, "AAPL") || !strings.Contains(out, "MSFT") {
		t.Errorf("status bar missing tickers: %q", out)
	}
	if !strings.Contains(out, "COMPARE") {
		t.Errorf("status bar missing compare indicator: %q", out)
	}
	if !strings.Contains(out, "connected") {
		t.Errorf("status bar missing health: %q", out)
	}
	if !strings.Contains(out, "openai/vector/both") {
		t.Errorf("status bar missing options: %q", out)
	}
}

func TestStatusBarNoTicker(t *testing.T) {
	bar := NewStatusBar(testTheme())
	bar.SetWidth(80)

	out := bar.View()
	if !strings.Contains(out, "no ticker") {
		t.Errorf("expected placeholder for empty selection: %q", out)
	}
}

func TestStatusBarNarrow(t *testing.T) {
	bar := NewStatusBar(testTheme())
	bar.SetWidth(40)
	bar.Tickers = []string{"NVDA"}
	bar.Health = HealthDown

	out := bar.View()
	if !strings.Contains(out, "NVDA") {
		t.Errorf("narrow bar missing ticker: %q", out)
	}
	if !strings.Contains(out, "unreachable") {
		t.Errorf("narrow bar missing health: %q", out)
	}
}

func TestHealthIndicators(t *testing.T) {
	if HealthOK.Indicator() != styles.StatusIndicators.Success {
		t.Error("HealthOK indicator mismatch")
	}
	if HealthDown.Indicator() != styles.StatusIndicators.Error {
		t.Error("HealthDown indicator mismatch")
	}
	if HealthUnknown.String() != "checking" {
		t.Error("HealthUnknown string mismatch")
	}
}

func TestTickerBarHighlightsSelection(t *testing.T) {
	sel := model.NewSelection()
	sel.SetMultiSelect(true)
	sel.Select("AAPL")
	sel.Select("MSFT")

	out := NewTickerBar(testTheme()).View(sel)
	for _, ticker := range model.MAG7 {
		if !strings.Contains(out, ticker) {
			t.Errorf("ticker bar missing %s: %q", ticker, out)
		}
	}
	if !strings.Contains(out, "[multi]") {
		t.Errorf("ticker bar missing multi indicator: %q", out)
	}
}

func TestMessageRendererUserMessage(t *testing.T) {
	r := NewMessageRenderer(testTheme())
	msg := model.NewUserMessage("What drove margins?")

	out := r.Render(msg, msg.Content)
	if !strings.Contains(out, "You") {
		t.Errorf("missing role label: %q", out)
	}
	if !strings.Contains(out, "What drove margins?") {
		t.Errorf("missing content: %q", out)
	}
}

func TestMessageRendererAnswerTrailer(t *testing.T) {
	r := NewMessageRenderer(testTheme())
	msg := model.NewAssistantMessage("Margins expanded.")
	msg.Citations = []model.Citation{{Ticker: "AAPL", FormType: "10-K", Year: 2024, ChunkIndex: 3}}
	msg.FlagsSummary = "rerank=on, rewrite=off"
	msg.CacheHit = true

	out := r.Render(msg, msg.Content)
	if !strings.Contains(out, "AAPL 10-K 2024 (chunk 3)") {
		t.Errorf("missing citation: %q", out)
	}
	if !strings.Contains(out, "[cached]") {
		t.Errorf("missing cache badge: %q", out)
	}
	if !strings.Contains(out, "rerank=on") {
		t.Errorf("missing flags note: %q", out)
	}
}

func TestMessageRendererErrorMessage(t *testing.T) {
	r := NewMessageRenderer(testTheme())
	msg := model.NewErrorMessage("Error: request timed out.")

	out := r.Render(msg, msg.Content)
	if !strings.Contains(out, styles.StatusIndicators.Error) {
		t.Errorf("missing error indicator: %q", out)
	}
	if strings.Contains(out, "Sources") {
		t.Errorf("error message must not render a trailer: %q", out)
	}
}

func TestMessageRendererCompareLabel(t *testing.T) {
	r := NewMessageRenderer(testTheme())
	msg := model.NewAssistantMessage("Both grew.")
	msg.IsCompare = true
	msg.CompareTickers = []string{"AAPL", "MSFT"}

	out := r.Render(msg, msg.Content)
	if !strings.Contains(out, "AAPL vs MSFT") {
		t.Errorf("missing compare label: %q", out)
	}
}

func TestThinkingIndicatorElapsed(t *testing.T) {
	ind := NewThinkingIndicator(testTheme())

	out := ind.View("|", "Comparing AAPL vs MSFT", time.Now().Add(-65*time.Second))
	if !strings.Contains(out, "Comparing AAPL vs MSFT") {
		t.Errorf("missing detail: %q", out)
	}
	if !strings.Contains(out, "1m05s") {
		t.Errorf("missing elapsed time: %q", out)
	}
}

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{4 * time.Second, "4s"},
		{59 * time.Second, "59s"},
		{60 * time.Second, "1m00s"},
		{125 * time.Second, "2m05s"},
	}
	for _, tc := range cases {
		if got := formatElapsed(tc.d); got != tc.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestWelcomeListsTickers(t *testing.T) {
	out := NewWelcome(testTheme()).View()
	if !strings.Contains(out, "AAPL") || !strings.Contains(out, "TSLA") {
		t.Errorf("welcome missing ticker catalog: %q", out)
	}
	if !strings.Contains(out, "/ticker") {
		t.Errorf("welcome missing first-step hint: %q", out)
	}
}
