// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/magchat/magchat/internal/model"
)

// Command identifies the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota // Default: start the chat TUI
	CmdAsk
	CmdCompare
	CmdFetch
	CmdPreview
	CmdUpload
	CmdTickers
	CmdSessions
	CmdExport
	CmdHealth
	CmdDoctor
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	Command Command

	// Global flags
	BaseURL    string // --api override
	ConfigPath string // --config override
	Quiet      bool
	JSON       bool

	// Command-specific
	Ticker      string   // --ticker / -t
	Tickers     []string // compare positional tickers
	Question    string
	File        string // upload path
	Format      string // --format for preview/export
	Forms       []string // --forms for fetch
	Subcommand  string // sessions subcommand
	ID          string // session id
	Query       string // sessions search query
	Interactive bool   // -i: REPL mode for ask
}

// ParseArgs parses os.Args[1:] into an Args. No arguments means the TUI.
func ParseArgs(argv []string) (*Args, error) {
	args := &Args{Command: CmdTUI, Format: ""}

	var positional []string
	for i := 0; i < len(argv); i++ {
		arg := argv[i]

		takeValue := func(name string) (string, error) {
			if eq := strings.IndexByte(arg, '='); eq >= 0 {
				return arg[eq+1:], nil
			}
			i++
			if i >= len(argv) {
				return "", fmt.Errorf("flag %s requires a value", name)
			}
			return argv[i], nil
		}

		switch {
		case arg == "--help" || arg == "-h":
			args.Command = CmdHelp
			return args, nil
		case arg == "--version" || arg == "-v":
			args.Command = CmdVersion
			return args, nil
		case arg == "--quiet" || arg == "-q":
			args.Quiet = true
		case arg == "--json":
			args.JSON = true
		case arg == "--interactive" || arg == "-i":
			args.Interactive = true
		case arg == "--api" || strings.HasPrefix(arg, "--api="):
			v, err := takeValue("--api")
			if err != nil {
				return nil, err
			}
			args.BaseURL = v
		case arg == "--config" || strings.HasPrefix(arg, "--config="):
			v, err := takeValue("--config")
			if err != nil {
				return nil, err
			}
			args.ConfigPath = v
		case arg == "--ticker" || arg == "-t" || strings.HasPrefix(arg, "--ticker="):
			v, err := takeValue("--ticker")
			if err != nil {
				return nil, err
			}
			args.Ticker = v
		case arg == "--format" || strings.HasPrefix(arg, "--format="):
			v, err := takeValue("--format")
			if err != nil {
				return nil, err
			}
			args.Format = v
		case arg == "--forms" || strings.HasPrefix(arg, "--forms="):
			v, err := takeValue("--forms")
			if err != nil {
				return nil, err
			}
			for _, f := range strings.Split(v, ",") {
				if f = strings.TrimSpace(f); f != "" {
					args.Forms = append(args.Forms, f)
				}
			}
		case strings.HasPrefix(arg, "-"):
			return nil, fmt.Errorf("unknown flag: %s", arg)
		default:
			positional = append(positional, arg)
		}
	}

	if len(positional) == 0 {
		return args, nil
	}

	cmd, rest := positional[0], positional[1:]
	switch cmd {
	case "ask":
		args.Command = CmdAsk
		args.Question = strings.Join(rest, " ")
	case "compare":
		args.Command = CmdCompare
		// compare AAPL MSFT "question words..."
		for len(rest) > 0 && model.IsMAG7(rest[0]) {
			args.Tickers = append(args.Tickers, model.NormalizeTicker(rest[0]))
			rest = rest[1:]
		}
		args.Question = strings.Join(rest, " ")
	case "fetch":
		args.Command = CmdFetch
		if len(rest) > 0 {
			args.Ticker = rest[0]
		}
	case "preview":
		args.Command = CmdPreview
		if len(rest) > 0 {
			args.Ticker = rest[0]
		}
	case "upload":
		args.Command = CmdUpload
		if len(rest) > 0 {
			args.File = rest[0]
		}
	case "tickers":
		args.Command = CmdTickers
	case "sessions", "session":
		args.Command = CmdSessions
		if len(rest) > 0 {
			args.Subcommand = rest[0]
			rest = rest[1:]
		} else {
			args.Subcommand = "list"
		}
		switch args.Subcommand {
		case "show", "delete", "export":
			if len(rest) > 0 {
				args.ID = rest[0]
			}
		case "search":
			args.Query = strings.Join(rest, " ")
		}
	case "export":
		args.Command = CmdExport
		if len(rest) > 0 {
			args.ID = rest[0]
		}
	case "health", "status":
		args.Command = CmdHealth
	case "doctor":
		args.Command = CmdDoctor
	case "version":
		args.Command = CmdVersion
	case "help":
		args.Command = CmdHelp
	default:
		return nil, fmt.Errorf("unknown command: %s", cmd)
	}

	return args, nil
}
