// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/magchat/magchat/internal/api"
	"github.com/magchat/magchat/internal/config"
	"github.com/magchat/magchat/internal/model"
	"github.com/magchat/magchat/internal/ui/styles"
)

// Version information (can be overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

const usageText = `magchat - chat with SEC filings for the MAG7 tickers

Ask questions about 10-K and 10-Q filings, grounded in the indexed
filing text with citations back to the source chunks.

Tickers: AAPL MSFT AMZN GOOGL META NVDA TSLA

Usage:
  magchat                          Start the chat TUI (default)
  magchat ask "question"           Ask a one-shot question
    -t, --ticker SYM[,SYM...]      Ticker to ask about (default from config);
                                   several tickers fan out as one batch call
    -i, --interactive              Interactive prompt instead of one-shot
  magchat compare SYM SYM "q"      Compare two or more tickers
  magchat fetch [SYM]              Fetch and index SEC filings
    --forms 10-K,10-Q              Filing types to fetch
  magchat preview [SYM]            Print the cached filing preview
    --format markdown|text         Preview format (default: markdown)
  magchat upload FILE              Upload a local document for indexing
    -t, --ticker SYM               Attach the document to a ticker
  magchat tickers                  Show data availability per ticker
  magchat sessions [subcommand]    Manage saved sessions
    list                           List sessions (default)
    search <query>                 Search titles and content
    show <id>                      Print a session transcript
    delete <id>                    Delete a session
    export <id> [--format md|json|html]
  magchat export <id>              Shorthand for sessions export
  magchat health                   Check backend health
  magchat doctor                   Run connectivity and setup diagnostics
  magchat version                  Print version information

Global flags:
  --api URL                        Backend base URL override
  --config PATH                    Config file override
  --json                           Machine-readable output where supported
  -q, --quiet                      Suppress progress output

Configuration is read from ~/.magchat/config.toml; MAGCHAT_API_URL,
MAGCHAT_PROVIDER, MAGCHAT_LOG_FILE, and MAGCHAT_DEBUG override it.
`

// app bundles the shared wiring every command needs.
type app struct {
	args   *Args
	cfg    *config.Config
	client *api.Client
	log    *zap.Logger
	out    *printer
}

// Run executes a non-TUI command and returns the process exit code.
// The TUI command is the caller's responsibility.
func Run(args *Args, cfg *config.Config, log *zap.Logger) int {
	if log == nil {
		log = zap.NewNop()
	}

	baseURL := cfg.API.BaseURL
	if args.BaseURL != "" {
		baseURL = args.BaseURL
	}

	a := &app{
		args:   args,
		cfg:    cfg,
		client: api.NewClient(baseURL).WithLogger(log),
		log:    log,
		out:    newPrinter(args.Quiet),
	}

	var err error
	switch args.Command {
	case CmdAsk:
		err = a.runAsk()
	case CmdCompare:
		err = a.runCompare()
	case CmdFetch:
		err = a.runFetch()
	case CmdPreview:
		err = a.runPreview()
	case CmdUpload:
		err = a.runUpload()
	case CmdTickers:
		err = a.runTickers()
	case CmdSessions:
		err = a.runSessions()
	case CmdExport:
		args.Subcommand = "export"
		err = a.runSessions()
	case CmdHealth:
		err = a.runHealth()
	case CmdDoctor:
		err = a.runDoctor()
	case CmdVersion:
		fmt.Printf("magchat %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	case CmdHelp, CmdTUI:
		fmt.Print(usageText)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
		return ExitCodeFor(err)
	}
	return ExitSuccess
}

// resolveTicker returns the ticker for a single-ticker command: the explicit
// flag wins, then the config default.
func (a *app) resolveTicker() (string, error) {
	tickers, err := a.resolveTickers()
	if err != nil {
		return "", err
	}
	if len(tickers) > 1 {
		return "", NewUsageError("this command takes one ticker, got %v", tickers)
	}
	return tickers[0], nil
}

// resolveTickers splits a comma-separated --ticker value. Most commands take
// exactly one ticker; ask accepts several and fans the question out as a batch.
func (a *app) resolveTickers() ([]string, error) {
	raw := a.args.Ticker
	if raw == "" {
		raw = a.cfg.Defaults.Ticker
	}

	var tickers []string
	for _, part := range strings.Split(raw, ",") {
		t := model.NormalizeTicker(part)
		if t == "" {
			continue
		}
		if !model.IsMAG7(t) {
			return nil, NewUsageError("unknown ticker %s; tracked tickers: %v", t, model.MAG7)
		}
		tickers = append(tickers, t)
	}
	if len(tickers) == 0 {
		return nil, NewUsageError("no ticker selected; pass --ticker or set a default in the config")
	}
	return tickers, nil
}

// requestOptions builds request options from the config defaults.
func (a *app) requestOptions() model.RequestOptions {
	opts := model.RequestOptions{
		Provider:       model.Provider(a.cfg.Defaults.Provider),
		SearchMode:     model.SearchMode(a.cfg.Defaults.SearchMode),
		Sources:        a.cfg.Defaults.Sources,
		Rerank:         a.cfg.Defaults.EnableRerank,
		QueryRewrite:   a.cfg.Defaults.EnableQueryRewrite,
		RetrievalCache: a.cfg.Defaults.EnableRetrievalCache,
		SectionBoost:   a.cfg.Defaults.EnableSectionBoost,
		RerankerModel:  a.cfg.Defaults.RerankerModel,
	}
	if opts.Validate() != nil {
		return model.DefaultOptions()
	}
	return opts
}

// Usage prints the top-level usage text.
func Usage() {
	fmt.Print(usageText)
}
