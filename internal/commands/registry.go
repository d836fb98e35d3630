// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/magchat/magchat/internal/model"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/ticker <symbol>")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	// Handler is the function that executes the command
	Handler func(args []string) tea.Cmd

	// Category for grouping in help display
	Category string
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	// Name of the argument
	Name string

	// Required indicates if the argument must be provided
	Required bool

	// Description explains the argument
	Description string

	// Values restricts the argument to one of these (case-insensitive)
	Values []string
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands sorted by name.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// ByCategory returns commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.All() {
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// Complete returns command names matching the typed prefix.
func (r *Registry) Complete(prefix string) []string {
	prefix = strings.ToLower(prefix)
	var matches []string
	for name := range r.commands {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, name)
		}
	}
	for alias := range r.aliases {
		if strings.HasPrefix(alias, prefix) {
			matches = append(matches, alias)
		}
	}
	sort.Strings(matches)
	return matches
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	// Navigation
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show help and available commands",
		Category:    "Navigation",
		Handler: func(args []string) tea.Cmd {
			return emit(ShowHelpMsg{})
		},
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit magchat",
		Category:    "Navigation",
		Handler: func(args []string) tea.Cmd {
			return tea.Quit
		},
	})

	// Selection
	r.Register(&Command{
		Name:        "/ticker",
		Aliases:     []string{"/t"},
		Description: "Select a ticker (toggles in compare mode)",
		Usage:       "/ticker <symbol>",
		Args: []ArgDef{
			{Name: "symbol", Required: true, Description: "MAG7 ticker", Values: model.MAG7},
		},
		Category: "Selection",
		Handler: func(args []string) tea.Cmd {
			return emit(SelectTickerMsg{Ticker: model.NormalizeTicker(args[0])})
		},
	})

	r.Register(&Command{
		Name:        "/tickers",
		Description: "List tickers and their data availability",
		Category:    "Selection",
		Handler: func(args []string) tea.Cmd {
			return emit(ListTickersMsg{})
		},
	})

	r.Register(&Command{
		Name:        "/compare",
		Description: "Toggle multi-select compare mode",
		Usage:       "/compare [on|off]",
		Args: []ArgDef{
			{Name: "state", Description: "on or off (omit to toggle)", Values: []string{"on", "off"}},
		},
		Category: "Selection",
		Handler: func(args []string) tea.Cmd {
			msg := ToggleCompareMsg{Toggle: true}
			if len(args) > 0 {
				msg.Toggle = false
				msg.On = strings.EqualFold(args[0], "on")
			}
			return emit(msg)
		},
	})

	// Retrieval flags
	r.Register(&Command{
		Name:        "/flags",
		Description: "Show the current retrieval flags",
		Category:    "Retrieval",
		Handler: func(args []string) tea.Cmd {
			return emit(ShowFlagsMsg{})
		},
	})

	for _, flag := range []struct {
		name, desc string
	}{
		{"/rerank", "Toggle result reranking"},
		{"/rewrite", "Toggle LLM query rewriting"},
		{"/cache", "Toggle the backend retrieval cache"},
		{"/boost", "Toggle filing-section score boosting"},
	} {
		name := strings.TrimPrefix(flag.name, "/")
		r.Register(&Command{
			Name:        flag.name,
			Description: flag.desc,
			Usage:       flag.name + " <on|off>",
			Args: []ArgDef{
				{Name: "state", Required: true, Values: []string{"on", "off"}},
			},
			Category: "Retrieval",
			Handler: func(args []string) tea.Cmd {
				return emit(SetFlagMsg{Flag: name, On: strings.EqualFold(args[0], "on")})
			},
		})
	}

	r.Register(&Command{
		Name:        "/reranker",
		Description: "Select the reranker model",
		Usage:       "/reranker <name>",
		Args: []ArgDef{
			{Name: "name", Required: true, Description: "builtin or a model name"},
		},
		Category: "Retrieval",
		Handler: func(args []string) tea.Cmd {
			return emit(SetRerankerMsg{Model: args[0]})
		},
	})

	r.Register(&Command{
		Name:        "/provider",
		Aliases:     []string{"/model"},
		Description: "Switch the model provider",
		Usage:       "/provider <openai|anthropic|ollama>",
		Args: []ArgDef{
			{Name: "provider", Required: true, Values: []string{"openai", "anthropic", "ollama"}},
		},
		Category: "Retrieval",
		Handler: func(args []string) tea.Cmd {
			return emit(SetProviderMsg{Provider: strings.ToLower(args[0])})
		},
	})

	r.Register(&Command{
		Name:        "/mode",
		Description: "Switch the retrieval search mode",
		Usage:       "/mode <vector|hybrid>",
		Args: []ArgDef{
			{Name: "mode", Required: true, Values: []string{"vector", "hybrid"}},
		},
		Category: "Retrieval",
		Handler: func(args []string) tea.Cmd {
			return emit(SetSearchModeMsg{Mode: strings.ToLower(args[0])})
		},
	})

	r.Register(&Command{
		Name:        "/sources",
		Description: "Restrict retrieval to filing types",
		Usage:       "/sources <10-K|10-Q|both>",
		Args: []ArgDef{
			{Name: "sources", Required: true, Values: []string{"10-K", "10-Q", "both"}},
		},
		Category: "Retrieval",
		Handler: func(args []string) tea.Cmd {
			return emit(SetSourcesMsg{Sources: args[0]})
		},
	})

	// Filings
	r.Register(&Command{
		Name:        "/fetch",
		Description: "Fetch and index filings for the selected ticker",
		Usage:       "/fetch [10-K 10-Q ...]",
		Category:    "Filings",
		Handler: func(args []string) tea.Cmd {
			return emit(FetchFilingsMsg{Forms: args})
		},
	})

	r.Register(&Command{
		Name:        "/preview",
		Description: "Preview the cached filing text for the selected ticker",
		Usage:       "/preview [markdown|text]",
		Args: []ArgDef{
			{Name: "format", Values: []string{"markdown", "text"}},
		},
		Category: "Filings",
		Handler: func(args []string) tea.Cmd {
			format := "markdown"
			if len(args) > 0 {
				format = strings.ToLower(args[0])
			}
			return emit(PreviewFilingMsg{Format: format})
		},
	})

	r.Register(&Command{
		Name:        "/upload",
		Description: "Upload a local filing document",
		Usage:       "/upload <path>",
		Args: []ArgDef{
			{Name: "path", Required: true, Description: "PDF, HTML, or text file"},
		},
		Category: "Filings",
		Handler: func(args []string) tea.Cmd {
			return emit(UploadFileMsg{Path: args[0]})
		},
	})

	// Sessions
	r.Register(&Command{
		Name:        "/new",
		Aliases:     []string{"/n"},
		Description: "Start a new session",
		Category:    "Session",
		Handler: func(args []string) tea.Cmd {
			return emit(NewSessionMsg{})
		},
	})

	r.Register(&Command{
		Name:        "/save",
		Aliases:     []string{"/s"},
		Description: "Save the current session",
		Category:    "Session",
		Handler: func(args []string) tea.Cmd {
			return emit(SaveSessionMsg{})
		},
	})

	r.Register(&Command{
		Name:        "/sessions",
		Aliases:     []string{"/list"},
		Description: "List saved sessions",
		Usage:       "/sessions [query]",
		Category:    "Session",
		Handler: func(args []string) tea.Cmd {
			return emit(ListSessionsMsg{Query: strings.Join(args, " ")})
		},
	})

	r.Register(&Command{
		Name:        "/resume",
		Aliases:     []string{"/load"},
		Description: "Resume a saved session",
		Usage:       "/resume <session_id>",
		Args: []ArgDef{
			{Name: "session_id", Required: true, Description: "ID from /sessions"},
		},
		Category: "Session",
		Handler: func(args []string) tea.Cmd {
			return emit(ResumeSessionMsg{ID: args[0]})
		},
	})

	r.Register(&Command{
		Name:        "/delete",
		Description: "Delete a saved session",
		Usage:       "/delete <session_id>",
		Args: []ArgDef{
			{Name: "session_id", Required: true, Description: "ID from /sessions"},
		},
		Category: "Session",
		Handler: func(args []string) tea.Cmd {
			return emit(DeleteSessionMsg{ID: args[0]})
		},
	})

	r.Register(&Command{
		Name:        "/clear",
		Aliases:     []string{"/c"},
		Description: "Clear the screen and start a new session",
		Category:    "Session",
		Handler: func(args []string) tea.Cmd {
			return emit(NewSessionMsg{})
		},
	})

	r.Register(&Command{
		Name:        "/export",
		Description: "Export the conversation to a file",
		Usage:       "/export [md|json|html]",
		Args: []ArgDef{
			{Name: "format", Values: []string{"md", "json", "html"}},
		},
		Category: "Session",
		Handler: func(args []string) tea.Cmd {
			format := "md"
			if len(args) > 0 {
				format = strings.ToLower(args[0])
			}
			return emit(ExportConversationMsg{Format: format})
		},
	})

	// Status
	r.Register(&Command{
		Name:        "/health",
		Aliases:     []string{"/status"},
		Description: "Check backend health",
		Category:    "Status",
		Handler: func(args []string) tea.Cmd {
			return emit(CheckHealthMsg{Force: true})
		},
	})
}

// emit wraps a message in a tea.Cmd.
func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// Execute parses and dispatches a command line. Unknown commands and invalid
// arguments produce an ErrorMsg for the shell to render.
func Execute(parser *Parser, input string) tea.Cmd {
	result := parser.Parse(input)
	if !result.IsCommand {
		return nil
	}
	if result.Command == nil {
		return emit(UnknownCommandMsg{Name: result.CommandName})
	}
	if err := ValidateArgs(result.Command, result.Args); err != nil {
		return emit(CommandErrorMsg{Err: err})
	}
	return result.Command.Handler(result.Args)
}
