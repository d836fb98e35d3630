// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/magchat/magchat/internal/api"
	"github.com/magchat/magchat/internal/commands"
	"github.com/magchat/magchat/internal/config"
	"github.com/magchat/magchat/internal/model"
	"github.com/magchat/magchat/internal/session"
	"github.com/magchat/magchat/internal/ui/components"
	"github.com/magchat/magchat/internal/ui/styles"
)

// flushInterval is the cadence of the periodic dirty-session flush.
const flushInterval = 30 * time.Second

// =============================================================================
// CHAT STATE
// =============================================================================

// State is the request lifecycle state of the shell.
type State int

const (
	StateIdle    State = iota // Ready for input
	StateSending              // A question is out to the backend
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat shell.
type Model struct {
	// State
	state State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Wiring
	cfg      *config.Config
	sessions *session.Manager
	client   *api.Client
	health   *api.HealthMonitor
	registry *commands.Registry
	parser   *commands.Parser
	log      *zap.Logger

	// UI components
	viewport  viewport.Model
	input     textinput.Model
	spinner   spinner.Model
	renderer  *glamour.TermRenderer
	statusBar *components.StatusBar
	tickerBar *components.TickerBar
	messages  *components.MessageRenderer
	thinking  *components.ThinkingIndicator
	welcome   *components.Welcome

	// In-flight request
	sendingDetail string
	sendingStart  time.Time

	// Transient display state
	healthState     components.Health
	healthRequested bool
	notice          string
	noticeIsErr     bool
	previewText     string
	previewFor      string
	showHelp        bool
}

// New creates the chat shell. A session manager without an active session
// gets a fresh one seeded from the config defaults.
func New(cfg *config.Config, sessions *session.Manager, client *api.Client, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	theme := styles.NewTheme()

	if sessions.Current() == nil {
		sessions.Start(newSessionFromConfig(cfg))
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the filings, or type /help"
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	registry := commands.NewRegistry()

	return Model{
		state:       StateIdle,
		theme:       theme,
		cfg:         cfg,
		sessions:    sessions,
		client:      client,
		health:      api.NewHealthMonitor(client),
		registry:    registry,
		parser:      commands.NewParser(registry),
		log:         log,
		viewport:    vp,
		input:       ti,
		spinner:     sp,
		statusBar:   components.NewStatusBar(theme),
		tickerBar:   components.NewTickerBar(theme),
		messages:    components.NewMessageRenderer(theme),
		thinking:    components.NewThinkingIndicator(theme),
		welcome:     components.NewWelcome(theme),
		healthState: components.HealthUnknown,
	}
}

// newSessionFromConfig builds a fresh session seeded from config defaults.
func newSessionFromConfig(cfg *config.Config) *session.Session {
	opts := model.DefaultOptions()
	if cfg != nil {
		opts = model.RequestOptions{
			Provider:       model.Provider(cfg.Defaults.Provider),
			SearchMode:     model.SearchMode(cfg.Defaults.SearchMode),
			Sources:        cfg.Defaults.Sources,
			Rerank:         cfg.Defaults.EnableRerank,
			QueryRewrite:   cfg.Defaults.EnableQueryRewrite,
			RetrievalCache: cfg.Defaults.EnableRetrievalCache,
			SectionBoost:   cfg.Defaults.EnableSectionBoost,
			RerankerModel:  cfg.Defaults.RerankerModel,
		}
		if opts.Validate() != nil {
			opts = model.DefaultOptions()
		}
	}

	s := session.New(opts)
	if cfg != nil && cfg.Defaults.Ticker != "" {
		s.Selection.Select(cfg.Defaults.Ticker)
	}
	return s
}

// current returns the active session. The shell guarantees one exists.
func (m *Model) current() *session.Session {
	return m.sessions.Current()
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the input cursor, the first health check, and the timers.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.checkHealthCmd(false),
		healthTick(),
		flushTick(),
	)
}

func healthTick() tea.Cmd {
	return tea.Tick(api.HealthPollInterval, func(time.Time) tea.Msg {
		return healthTickMsg{}
	})
}

func flushTick() tea.Cmd {
	return tea.Tick(flushInterval, func(time.Time) tea.Msg {
		return flushTickMsg{}
	})
}
