// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/magchat/magchat/internal/api"
	"github.com/magchat/magchat/internal/commands"
	"github.com/magchat/magchat/internal/model"
	"github.com/magchat/magchat/internal/session"
	"github.com/magchat/magchat/internal/ui/components"
	"github.com/magchat/magchat/internal/ui/styles"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case spinner.TickMsg:
		if m.state != StateSending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case healthTickMsg:
		return m, tea.Batch(m.checkHealthCmd(false), healthTick())

	case flushTickMsg:
		if err := m.sessions.FlushIfDirty(); err != nil {
			m.log.Warn("periodic session flush failed", zap.Error(err))
		}
		return m, flushTick()

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)
	}

	if next, cmd, handled := m.handleIntent(msg); handled {
		return next, cmd
	}
	if next, cmd, handled := m.handleResult(msg); handled {
		return next, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleConfigReloaded installs a config freshly reloaded from disk. The
// active session keeps its options; the new defaults apply to new sessions,
// exports, and the backend URL shown in error guidance.
func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Config == nil {
		return m, nil
	}
	m.cfg = msg.Config
	m.log.Info("config reloaded from disk")
	m.setNotice("Configuration reloaded.")
	return m, nil
}

// =============================================================================
// KEYS AND LAYOUT
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if err := m.sessions.FlushIfDirty(); err != nil {
			m.log.Warn("session flush on quit failed", zap.Error(err))
		}
		return m, tea.Quit

	case tea.KeyEsc:
		// Leave preview/help, or clear the notice line.
		if m.previewText != "" || m.showHelp {
			m.previewText = ""
			m.previewFor = ""
			m.showHelp = false
			m.refreshTranscript()
			m.viewport.GotoBottom()
			return m, nil
		}
		m.clearNotice()
		return m, nil

	case tea.KeyEnter:
		return m.handleSubmit(m.input.Value())

	case tea.KeyPgUp, tea.KeyPgDown, tea.KeyHome, tea.KeyEnd:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	contentHeight := msg.Height - chromeHeight
	if contentHeight < 3 {
		contentHeight = 3
	}
	m.viewport.Width = msg.Width
	m.viewport.Height = contentHeight
	m.input.Width = msg.Width - 4
	m.statusBar.SetWidth(msg.Width)
	m.messages.SetWidth(msg.Width)
	m.rebuildRenderer()
	m.refreshTranscript()
	return m, nil
}

// =============================================================================
// SUBMISSION
// =============================================================================

// handleSubmit routes an input line: slash commands dispatch immediately,
// anything else is a question for the backend.
func (m Model) handleSubmit(value string) (tea.Model, tea.Cmd) {
	value = strings.TrimSpace(value)
	if value == "" {
		return m, nil
	}

	if commands.IsCommand(value) {
		m.input.SetValue("")
		m.clearNotice()
		return m, commands.Execute(m.parser, value)
	}

	if m.state == StateSending {
		m.setErrNotice("Still working on the previous question.")
		return m, nil
	}

	sel := m.current().Selection
	if sel.IsCompareMode() {
		return m.submitCompare(sel.Tickers(), value)
	}

	primary := sel.Primary()
	if primary == "" {
		m.setErrNotice("Select a ticker first - try /ticker AAPL.")
		return m, nil
	}
	return m.submitChat(primary, value)
}

// submitChat optimistically appends the user message and enters Sending.
func (m Model) submitChat(ticker, question string) (tea.Model, tea.Cmd) {
	m.beginSend(question, "Asking about "+ticker)
	return m, tea.Batch(
		m.sendChatCmd(ticker, question, m.current().Options),
		m.spinner.Tick,
	)
}

// submitCompare is the multi-ticker variant of submitChat.
func (m Model) submitCompare(tickers []string, question string) (tea.Model, tea.Cmd) {
	m.beginSend(question, "Comparing "+strings.Join(tickers, " vs "))
	return m, tea.Batch(
		m.sendCompareCmd(tickers, question, m.current().Options),
		m.spinner.Tick,
	)
}

// beginSend records the user message and flips the state machine to Sending.
// The user message stays in the transcript even if the call fails.
func (m *Model) beginSend(question, detail string) {
	m.current().Conversation.AppendUser(question)
	m.sessions.MarkDirty()

	m.state = StateSending
	m.sendingDetail = detail
	m.sendingStart = time.Now()
	m.input.SetValue("")
	m.clearNotice()
	m.previewText = ""
	m.showHelp = false
	m.refreshTranscript()
	m.viewport.GotoBottom()
}

// =============================================================================
// COMMAND INTENTS
// =============================================================================

// handleIntent consumes the intent messages emitted by slash commands.
func (m Model) handleIntent(msg tea.Msg) (Model, tea.Cmd, bool) {
	cur := m.current()

	switch msg := msg.(type) {
	case commands.ShowHelpMsg:
		m.showHelp = true
		m.previewText = ""
		m.viewport.SetContent(m.renderHelp())
		m.viewport.GotoTop()
		return m, nil, true

	case commands.SelectTickerMsg:
		cur.Selection.Select(msg.Ticker)
		m.sessions.MarkDirty()
		if cur.Selection.MultiSelect() {
			m.setNotice("Selection: " + strings.Join(cur.Selection.Tickers(), ", "))
		} else {
			m.setNotice("Selected " + cur.Selection.Primary() + ".")
		}
		return m, nil, true

	case commands.ListTickersMsg:
		m.setNotice("Checking data availability...")
		return m, m.tickerCatalogCmd(), true

	case commands.ToggleCompareMsg:
		on := msg.On
		if msg.Toggle {
			on = !cur.Selection.MultiSelect()
		}
		cur.Selection.SetMultiSelect(on)
		m.sessions.MarkDirty()
		if on {
			m.setNotice("Multi-select on. Pick tickers with /ticker; two or more enables comparison.")
		} else {
			m.setNotice("Multi-select off. Questions go to " + orNone(cur.Selection.Primary()) + ".")
		}
		return m, nil, true

	case commands.ShowFlagsMsg:
		m.setNotice("Flags: " + cur.Options.Summary())
		return m, nil, true

	case commands.SetFlagMsg:
		m.applyFlag(cur, msg.Flag, msg.On)
		return m, nil, true

	case commands.SetRerankerMsg:
		cur.Options.RerankerModel = msg.Model
		m.sessions.MarkDirty()
		m.setNotice("Reranker model set to " + msg.Model + ".")
		return m, nil, true

	case commands.SetProviderMsg:
		p := model.Provider(strings.ToLower(msg.Provider))
		if !p.Valid() {
			m.setErrNotice("Unknown provider " + msg.Provider + ". Use openai, anthropic, or ollama.")
			return m, nil, true
		}
		cur.Options.Provider = p
		m.sessions.MarkDirty()
		m.setNotice("Provider set to " + string(p) + ".")
		return m, nil, true

	case commands.SetSearchModeMsg:
		sm := model.SearchMode(strings.ToLower(msg.Mode))
		if !sm.Valid() {
			m.setErrNotice("Unknown search mode " + msg.Mode + ". Use vector or hybrid.")
			return m, nil, true
		}
		cur.Options.SearchMode = sm
		m.sessions.MarkDirty()
		m.setNotice("Search mode set to " + string(sm) + ".")
		return m, nil, true

	case commands.SetSourcesMsg:
		cur.Options.Sources = normalizeSources(msg.Sources)
		m.sessions.MarkDirty()
		m.setNotice("Sources set to " + cur.Options.Sources + ".")
		return m, nil, true

	case commands.FetchFilingsMsg:
		ticker := cur.Selection.Primary()
		if ticker == "" {
			m.setErrNotice("Select a ticker first - try /ticker AAPL.")
			return m, nil, true
		}
		m.setNotice("Fetching filings for " + ticker + "...")
		return m, m.fetchCmd(ticker, msg.Forms), true

	case commands.PreviewFilingMsg:
		ticker := cur.Selection.Primary()
		if ticker == "" {
			m.setErrNotice("Select a ticker first - try /ticker AAPL.")
			return m, nil, true
		}
		format := api.PreviewMarkdown
		if strings.EqualFold(msg.Format, "text") {
			format = api.PreviewText
		}
		m.setNotice("Loading preview for " + ticker + "...")
		return m, m.previewCmd(ticker, format), true

	case commands.UploadFileMsg:
		m.setNotice("Uploading " + msg.Path + "...")
		return m, m.uploadCmd(msg.Path, cur.Selection.Primary()), true

	case commands.NewSessionMsg:
		return m.startNewSession()

	case commands.SaveSessionMsg:
		if cur.Conversation.IsEmpty() {
			m.setErrNotice("Nothing to save yet.")
			return m, nil, true
		}
		return m, m.saveSessionCmd(), true

	case commands.ListSessionsMsg:
		return m, m.listSessionsCmd(msg.Query), true

	case commands.ResumeSessionMsg:
		return m, m.loadSessionCmd(msg.ID), true

	case commands.DeleteSessionMsg:
		return m, m.deleteSessionCmd(msg.ID), true

	case commands.ExportConversationMsg:
		if cur.Conversation.IsEmpty() {
			m.setErrNotice("Nothing to export yet.")
			return m, nil, true
		}
		return m, m.exportCmd(cur, msg.Format), true

	case commands.CheckHealthMsg:
		m.healthRequested = true
		m.setNotice("Checking backend health...")
		return m, m.checkHealthCmd(msg.Force), true

	case commands.UnknownCommandMsg:
		m.setErrNotice("Unknown command " + msg.Name + " - type /help.")
		return m, nil, true

	case commands.CommandErrorMsg:
		m.setErrNotice(msg.Err.Error())
		return m, nil, true
	}

	return m, nil, false
}

// applyFlag flips one retrieval flag on the session options.
func (m *Model) applyFlag(cur *session.Session, flag string, on bool) {
	switch flag {
	case "rerank":
		cur.Options.Rerank = on
	case "rewrite":
		cur.Options.QueryRewrite = on
	case "cache":
		cur.Options.RetrievalCache = on
	case "boost":
		cur.Options.SectionBoost = on
	default:
		m.setErrNotice("Unknown flag " + flag + ".")
		return
	}
	m.sessions.MarkDirty()
	m.setNotice(flag + " " + onOff(on) + ". Flags: " + cur.Options.Summary())
}

// startNewSession flushes the old session and begins a fresh one. Options and
// the ticker selection carry over; only the transcript resets.
func (m Model) startNewSession() (Model, tea.Cmd, bool) {
	if err := m.sessions.FlushIfDirty(); err != nil {
		m.setErrNotice("Could not save the previous session: " + err.Error())
	}

	old := m.current()
	fresh := session.New(old.Options)
	fresh.Selection = model.RestoreSelection(old.Selection.Tickers(), old.Selection.MultiSelect())
	m.sessions.Start(fresh)

	m.state = StateIdle
	m.previewText = ""
	m.showHelp = false
	m.setNotice("Started a new session.")
	m.refreshTranscript()
	m.viewport.GotoTop()
	return m, nil, true
}

// =============================================================================
// ASYNC RESULTS
// =============================================================================

// handleResult consumes the completion messages from async commands.
func (m Model) handleResult(msg tea.Msg) (Model, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case ChatResultMsg:
		answer := model.NewAssistantMessage(msg.Resp.Answer)
		answer.Citations = msg.Resp.Citations
		answer.FlagsSummary = msg.Resp.FlagsSummary
		answer.CacheHit = msg.Resp.CacheHit
		m.finishSend(answer)
		return m, nil, true

	case CompareResultMsg:
		answer := model.NewAssistantMessage(compareContent(msg.Resp))
		answer.IsCompare = true
		answer.CompareTickers = msg.Tickers
		m.finishSend(answer)
		return m, nil, true

	case SendFailedMsg:
		m.finishSend(model.NewErrorMessage(classifySendFailure(msg.Err, m.client.BaseURL())))
		return m, nil, true

	case HealthResultMsg:
		return m.handleHealthResult(msg)

	case FetchResultMsg:
		if msg.Err != nil {
			m.setErrNotice("Fetch failed: " + shortError(msg.Err, m.client.BaseURL()))
			return m, nil, true
		}
		m.setNotice(styles.StatusIndicators.Success + " Fetch started for " + msg.Ticker +
			". Indexing continues in the background; give it a minute.")
		return m, nil, true

	case PreviewResultMsg:
		if msg.Err != nil {
			if api.IsNotFound(msg.Err) {
				m.setErrNotice(styles.StatusIndicators.Warning + " No cached filing for " +
					msg.Ticker + ". Run /fetch first.")
			} else {
				m.setErrNotice("Preview failed: " + shortError(msg.Err, m.client.BaseURL()))
			}
			return m, nil, true
		}
		m.previewText = msg.Content
		m.previewFor = msg.Ticker
		m.showHelp = false
		m.clearNotice()
		m.viewport.SetContent(m.renderPreview())
		m.viewport.GotoTop()
		return m, nil, true

	case UploadResultMsg:
		if msg.Err != nil {
			m.setErrNotice("Upload failed: " + shortError(msg.Err, m.client.BaseURL()))
			return m, nil, true
		}
		m.setNotice(fmt.Sprintf("%s %s (%d chunks stored)",
			styles.StatusIndicators.Success, msg.Resp.Message, msg.Resp.ChunksStored))
		return m, nil, true

	case TickerCatalogMsg:
		if msg.Err != nil {
			m.setErrNotice("Availability check failed: " + shortError(msg.Err, m.client.BaseURL()))
			return m, nil, true
		}
		m.setNotice(formatCatalog(msg.Items))
		return m, nil, true

	case SessionsListedMsg:
		if msg.Err != nil {
			m.setErrNotice("Could not list sessions: " + msg.Err.Error())
			return m, nil, true
		}
		m.setNotice(session.FormatSessionList(msg.Metas))
		return m, nil, true

	case SessionLoadedMsg:
		if msg.Err != nil {
			m.setErrNotice("Could not resume session: " + msg.Err.Error())
			return m, nil, true
		}
		m.state = StateIdle
		m.previewText = ""
		m.showHelp = false
		m.setNotice("Resumed \"" + msg.Session.Conversation.GetTitle() + "\".")
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil, true

	case SessionSavedMsg:
		if msg.Err != nil {
			m.setErrNotice("Save failed: " + msg.Err.Error())
		} else {
			m.setNotice(styles.StatusIndicators.Success + " Session saved.")
		}
		return m, nil, true

	case SessionDeletedMsg:
		if msg.Err != nil {
			m.setErrNotice("Delete failed: " + msg.Err.Error())
		} else {
			m.setNotice(styles.StatusIndicators.Success + " Deleted session " + msg.ID + ".")
		}
		return m, nil, true

	case ExportDoneMsg:
		if msg.Err != nil {
			m.setErrNotice("Export failed: " + msg.Err.Error())
		} else {
			m.setNotice(styles.StatusIndicators.Success + " Exported to " + msg.Path)
		}
		return m, nil, true
	}

	return m, nil, false
}

// finishSend appends the backend reply and returns the shell to Idle.
func (m *Model) finishSend(answer model.Message) {
	m.current().Conversation.Append(answer)
	m.sessions.MarkDirty()
	m.state = StateIdle
	m.sendingDetail = ""
	m.refreshTranscript()
	m.viewport.GotoBottom()
}

func (m Model) handleHealthResult(msg HealthResultMsg) (Model, tea.Cmd, bool) {
	requested := m.healthRequested
	m.healthRequested = false

	if msg.Err != nil {
		m.healthState = components.HealthDown
		if requested {
			m.setErrNotice("Backend unreachable: " + shortError(msg.Err, m.client.BaseURL()))
		}
		return m, nil, true
	}

	if msg.Resp.Healthy() {
		m.healthState = components.HealthOK
	} else {
		m.healthState = components.HealthDown
	}
	if requested {
		m.setNotice(formatHealth(msg.Resp))
	}
	return m, nil, true
}

// =============================================================================
// CLASSIFICATION AND FORMATTING
// =============================================================================

// classifySendFailure turns a failed chat/compare call into the transcript
// failure report. Transport failures get connectivity guidance; a 404 means
// the ticker has no indexed filings yet.
func classifySendFailure(err error, baseURL string) string {
	switch {
	case api.IsTimeout(err):
		return "Error: the request timed out. The backend may still be working; try again in a moment."
	case api.IsNotFound(err):
		return styles.StatusIndicators.Warning +
			" No filings indexed for this ticker yet. Run /fetch, wait for indexing, then ask again."
	case api.IsTransport(err):
		return "Error: cannot reach the backend at " + baseURL + ". Is the server running?"
	default:
		return "Error: " + err.Error()
	}
}

// shortError renders an error for the notice line.
func shortError(err error, baseURL string) string {
	switch {
	case api.IsTimeout(err):
		return "request timed out"
	case api.IsTransport(err):
		return "cannot reach the backend at " + baseURL
	default:
		return err.Error()
	}
}

// compareContent falls back to stitching per-ticker answers when the backend
// returns no combined answer.
func compareContent(resp *api.CompareResponse) string {
	if strings.TrimSpace(resp.CombinedAnswer) != "" {
		return resp.CombinedAnswer
	}
	var sb strings.Builder
	for i, r := range resp.Results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("## " + r.Ticker + "\n\n" + strings.TrimSpace(r.Answer))
	}
	return sb.String()
}

func formatCatalog(items []api.DataAvailability) string {
	var sb strings.Builder
	sb.WriteString("Tickers:\n")
	for _, item := range items {
		if item.HasData {
			sb.WriteString(fmt.Sprintf("  %-6s indexed (%d chunks)\n", item.Ticker, item.Count))
		} else {
			sb.WriteString(fmt.Sprintf("  %-6s no data - run /fetch\n", item.Ticker))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatHealth(resp *api.HealthResponse) string {
	mark := func(ok bool) string {
		if ok {
			return styles.StatusIndicators.Success
		}
		return styles.StatusIndicators.Error
	}
	return fmt.Sprintf("Backend %s | pinecone %s | openai %s | anthropic %s",
		resp.Status,
		mark(resp.PineconeConnected),
		mark(resp.OpenAIConfigured),
		mark(resp.AnthropicConfigured))
}

func normalizeSources(s string) string {
	if strings.EqualFold(s, "both") {
		return "both"
	}
	return strings.ToUpper(s)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func orNone(s string) string {
	if s == "" {
		return "no ticker"
	}
	return s
}

// =============================================================================
// NOTICES
// =============================================================================

func (m *Model) setNotice(text string) {
	m.notice = text
	m.noticeIsErr = false
}

func (m *Model) setErrNotice(text string) {
	m.notice = text
	m.noticeIsErr = true
}

func (m *Model) clearNotice() {
	m.notice = ""
	m.noticeIsErr = false
}
