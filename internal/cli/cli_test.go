// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"reflect"
	"testing"

	"github.com/magchat/magchat/internal/api"
	"github.com/magchat/magchat/internal/config"
	"github.com/magchat/magchat/internal/storage"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Defaults.Ticker = "AAPL"
	return cfg
}

func TestParseArgsDefaultsToTUI(t *testing.T) {
	args, err := ParseArgs(nil)
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if args.Command != CmdTUI {
		t.Errorf("Command = %v, want CmdTUI", args.Command)
	}
}

func TestParseArgsCommands(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want func(t *testing.T, a *Args)
	}{
		{
			name: "ask with ticker and question",
			argv: []string{"ask", "-t", "AAPL", "what", "are", "the", "risks"},
			want: func(t *testing.T, a *Args) {
				if a.Command != CmdAsk {
					t.Errorf("Command = %v, want CmdAsk", a.Command)
				}
				if a.Ticker != "AAPL" {
					t.Errorf("Ticker = %q", a.Ticker)
				}
				if a.Question != "what are the risks" {
					t.Errorf("Question = %q", a.Question)
				}
			},
		},
		{
			name: "ask interactive",
			argv: []string{"ask", "-i", "-t", "MSFT"},
			want: func(t *testing.T, a *Args) {
				if !a.Interactive {
					t.Error("Interactive = false, want true")
				}
			},
		},
		{
			name: "compare splits tickers from question",
			argv: []string{"compare", "aapl", "MSFT", "how", "do", "margins", "differ"},
			want: func(t *testing.T, a *Args) {
				if a.Command != CmdCompare {
					t.Errorf("Command = %v, want CmdCompare", a.Command)
				}
				if !reflect.DeepEqual(a.Tickers, []string{"AAPL", "MSFT"}) {
					t.Errorf("Tickers = %v", a.Tickers)
				}
				if a.Question != "how do margins differ" {
					t.Errorf("Question = %q", a.Question)
				}
			},
		},
		{
			name: "fetch with forms",
			argv: []string{"fetch", "NVDA", "--forms", "10-K, 10-Q"},
			want: func(t *testing.T, a *Args) {
				if a.Command != CmdFetch || a.Ticker != "NVDA" {
					t.Errorf("got %v ticker %q", a.Command, a.Ticker)
				}
				if !reflect.DeepEqual(a.Forms, []string{"10-K", "10-Q"}) {
					t.Errorf("Forms = %v", a.Forms)
				}
			},
		},
		{
			name: "preview with equals-style format",
			argv: []string{"preview", "TSLA", "--format=text"},
			want: func(t *testing.T, a *Args) {
				if a.Command != CmdPreview || a.Ticker != "TSLA" || a.Format != "text" {
					t.Errorf("got %v %q %q", a.Command, a.Ticker, a.Format)
				}
			},
		},
		{
			name: "sessions default subcommand",
			argv: []string{"sessions"},
			want: func(t *testing.T, a *Args) {
				if a.Command != CmdSessions || a.Subcommand != "list" {
					t.Errorf("got %v %q", a.Command, a.Subcommand)
				}
			},
		},
		{
			name: "sessions search query",
			argv: []string{"sessions", "search", "operating", "margins"},
			want: func(t *testing.T, a *Args) {
				if a.Subcommand != "search" || a.Query != "operating margins" {
					t.Errorf("got %q %q", a.Subcommand, a.Query)
				}
			},
		},
		{
			name: "sessions export with id and format",
			argv: []string{"sessions", "export", "abc123", "--format", "html"},
			want: func(t *testing.T, a *Args) {
				if a.Subcommand != "export" || a.ID != "abc123" || a.Format != "html" {
					t.Errorf("got %q %q %q", a.Subcommand, a.ID, a.Format)
				}
			},
		},
		{
			name: "export shorthand",
			argv: []string{"export", "abc123"},
			want: func(t *testing.T, a *Args) {
				if a.Command != CmdExport || a.ID != "abc123" {
					t.Errorf("got %v %q", a.Command, a.ID)
				}
			},
		},
		{
			name: "global flags",
			argv: []string{"--api", "http://localhost:9999", "--json", "-q", "tickers"},
			want: func(t *testing.T, a *Args) {
				if a.BaseURL != "http://localhost:9999" {
					t.Errorf("BaseURL = %q", a.BaseURL)
				}
				if !a.JSON || !a.Quiet {
					t.Errorf("JSON = %v, Quiet = %v", a.JSON, a.Quiet)
				}
				if a.Command != CmdTickers {
					t.Errorf("Command = %v", a.Command)
				}
			},
		},
		{
			name: "health alias",
			argv: []string{"status"},
			want: func(t *testing.T, a *Args) {
				if a.Command != CmdHealth {
					t.Errorf("Command = %v, want CmdHealth", a.Command)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := ParseArgs(tt.argv)
			if err != nil {
				t.Fatalf("ParseArgs(%v): %v", tt.argv, err)
			}
			tt.want(t, args)
		})
	}
}

func TestParseArgsErrors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
	}{
		{"unknown command", []string{"frobnicate"}},
		{"unknown flag", []string{"--frobnicate"}},
		{"flag missing value", []string{"ask", "--ticker"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseArgs(tt.argv); err == nil {
				t.Errorf("ParseArgs(%v) = nil error, want error", tt.argv)
			}
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", NewUsageError("bad args"), ExitUsageError},
		{"config", &ConfigError{Err: errors.New("bad toml")}, ExitConfigError},
		{"timeout", api.ErrTimeout, ExitTimeoutError},
		{"transport", api.ErrCannotConnect, ExitNetworkError},
		{"not found", &api.HTTPError{StatusCode: 404}, ExitNotFoundError},
		{"session not found", storage.ErrSessionNotFound, ExitNotFoundError},
		{"wrapped transport", errors.Join(errors.New("ctx"), api.ErrCannotConnect), ExitNetworkError},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestResolveTicker(t *testing.T) {
	a := &app{args: &Args{Ticker: "goog l"}, cfg: testConfig()}
	if _, err := a.resolveTicker(); err == nil {
		t.Error("expected error for malformed ticker")
	}

	a = &app{args: &Args{Ticker: "meta"}, cfg: testConfig()}
	got, err := a.resolveTicker()
	if err != nil {
		t.Fatalf("resolveTicker: %v", err)
	}
	if got != "META" {
		t.Errorf("resolveTicker = %q, want META", got)
	}

	// Falls back to the config default.
	a = &app{args: &Args{}, cfg: testConfig()}
	got, err = a.resolveTicker()
	if err != nil {
		t.Fatalf("resolveTicker: %v", err)
	}
	if got != "AAPL" {
		t.Errorf("resolveTicker = %q, want AAPL", got)
	}

	// No flag, no default.
	cfg := testConfig()
	cfg.Defaults.Ticker = ""
	a = &app{args: &Args{}, cfg: cfg}
	if _, err := a.resolveTicker(); err == nil {
		t.Error("expected error when no ticker is configured")
	}
}

func TestResolveTickersSplitsCommaList(t *testing.T) {
	a := &app{args: &Args{Ticker: "aapl, MSFT,nvda"}, cfg: testConfig()}
	got, err := a.resolveTickers()
	if err != nil {
		t.Fatalf("resolveTickers: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"AAPL", "MSFT", "NVDA"}) {
		t.Errorf("resolveTickers = %v", got)
	}

	// Any unknown member fails the whole list.
	a = &app{args: &Args{Ticker: "AAPL,IBM"}, cfg: testConfig()}
	if _, err := a.resolveTickers(); err == nil {
		t.Error("expected error for unknown ticker in list")
	}

	// Single-ticker commands reject a list.
	a = &app{args: &Args{Ticker: "AAPL,MSFT"}, cfg: testConfig()}
	if _, err := a.resolveTicker(); err == nil {
		t.Error("expected error for multi-ticker value on a single-ticker command")
	}
}

func TestRequestOptionsFallsBackToDefaults(t *testing.T) {
	cfg := testConfig()
	cfg.Defaults.Provider = "nonsense"
	a := &app{args: &Args{}, cfg: cfg}

	opts := a.requestOptions()
	if err := opts.Validate(); err != nil {
		t.Errorf("fallback options invalid: %v", err)
	}
}
