// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// magchat - chat with SEC filings for the MAG7 tickers.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/magchat/magchat/internal/api"
	"github.com/magchat/magchat/internal/cli"
	"github.com/magchat/magchat/internal/config"
	"github.com/magchat/magchat/internal/logging"
	"github.com/magchat/magchat/internal/session"
	"github.com/magchat/magchat/internal/storage"
	"github.com/magchat/magchat/internal/ui/chat"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	args, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		cli.Usage()
		os.Exit(cli.ExitUsageError)
	}

	cfg, err := loadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitConfigError)
	}

	log := openLogger(cfg)
	defer log.Sync() //nolint:errcheck

	if args.Command != cli.CmdTUI {
		os.Exit(cli.Run(args, cfg, log))
	}

	runTUI(args, cfg, log)
}

// loadConfig loads the config file, applying --config and environment
// overrides. A missing file yields the defaults.
func loadConfig(args *cli.Args) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// configFilePath resolves the config file the watcher should follow.
func configFilePath(args *cli.Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	return config.ConfigPath()
}

// openLogger builds the file-backed logger. Logging failures never stop
// the application.
func openLogger(cfg *config.Config) *zap.Logger {
	path, err := cfg.LogFilePath()
	if err != nil {
		return logging.Nop()
	}
	log, err := logging.New(path, cfg.Logging.Debug)
	if err != nil {
		return logging.Nop()
	}
	return log
}

// runTUI starts the full-screen chat interface.
func runTUI(args *cli.Args, cfg *config.Config, log *zap.Logger) {
	storePath, err := storage.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitGeneralError)
	}
	store, err := storage.Open(storePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open session store: %v\n", err)
		os.Exit(cli.ExitGeneralError)
	}
	defer store.Close()

	sessions := session.NewManager(store, log)

	baseURL := cfg.API.BaseURL
	if args.BaseURL != "" {
		baseURL = args.BaseURL
	}
	client := api.NewClient(baseURL).WithLogger(log)

	m := chat.New(cfg, sessions, client, log)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Live-reload the config file while the TUI runs. Watch failures are
	// not fatal; the session just keeps the startup config.
	if cfgPath, err := configFilePath(args); err == nil {
		if w, err := config.Watch(cfgPath, func(c *config.Config) {
			p.Send(chat.ConfigReloadedMsg{Config: c})
		}); err == nil {
			defer w.Close()
		} else {
			log.Warn("config watch failed", zap.Error(err))
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running magchat: %v\n", err)
		os.Exit(cli.ExitGeneralError)
	}

	// tea.Quit bypasses Update, so the final flush happens here.
	if err := sessions.FlushIfDirty(); err != nil {
		log.Warn("final session flush failed", zap.Error(err))
	}
}
