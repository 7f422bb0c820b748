// Package main provides the chainchat CLI entry point.
// This file implements the interactive chat interface using bubbletea.
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"chainchat/cmd/chainchat/ui"
	"chainchat/internal/chat"
	"chainchat/internal/config"
)

const (
	inputPlaceholder    = "Message your agents… (Enter to send, Ctrl+C to exit)"
	thinkingPlaceholder = "agent is thinking…"
)

// Messages for tea updates
type (
	// transcriptMsg signals that a poll tick replaced the local transcript.
	transcriptMsg struct{}
	// noticeMsg is a transient status line: either an error or plain text.
	noticeMsg struct {
		err  error
		text string
	}
	sendDoneMsg      struct{ err error }
	decideDoneMsg    struct{ err error }
	directoryDoneMsg struct{ err error }
	sessionReadyMsg  struct{ err error }
)

// chatModel is the main model for the interactive chat interface
type chatModel struct {
	// UI components
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	textarea  textarea.Model
	styles    ui.Styles
	renderer  *glamour.TermRenderer

	// State
	width   int
	height  int
	ready   bool
	sending bool
	notice  string
	err     error

	// Review dialog state
	showDialog  bool
	dialogID    string
	editing     bool
	dismissedID string

	// Backend
	session *chatSession
}

// initChat initializes the interactive chat model
func initChat(cfg *config.Config, s *chatSession) chatModel {
	styles := ui.NewStyles(ui.ThemeByName(cfg.Chat.Theme))

	ti := textinput.New()
	ti.Placeholder = inputPlaceholder
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 4096
	ti.Width = 80
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.UserInput

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(80, 20)
	vp.SetContent("")

	ta := textarea.New()
	ta.CharLimit = 0
	ta.SetWidth(76)
	ta.SetHeight(12)

	var renderer *glamour.TermRenderer
	if styles.Theme.IsDark {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
	} else {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath("light"),
			glamour.WithWordWrap(80),
		)
	}

	return chatModel{
		textinput: ti,
		viewport:  vp,
		spinner:   sp,
		textarea:  ta,
		styles:    styles,
		renderer:  renderer,
		session:   s,
	}
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.startSession(),
		m.loadDirectory(),
	)
}

// startSession begins the session ref watcher and the poller.
func (m chatModel) startSession() tea.Cmd {
	return func() tea.Msg {
		return sessionReadyMsg{err: m.session.start()}
	}
}

// loadDirectory fetches the agent id to name mapping once per session.
func (m chatModel) loadDirectory() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return directoryDoneMsg{err: m.session.directory.Load(ctx)}
	}
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
		taCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showDialog {
			return m.handleDialogKey(msg)
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if !m.sending {
				return m.handleSubmit()
			}
			return m, nil
		}

		if !m.sending {
			m.textinput, tiCmd = m.textinput.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		footerHeight := 2
		inputHeight := 3

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, msg.Height-headerHeight-footerHeight-inputHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = msg.Height - headerHeight - footerHeight - inputHeight
		}

		m.textinput.Width = msg.Width - 4
		m.textarea.SetWidth(min(msg.Width-12, 100))

		if m.renderer != nil {
			m.renderer, _ = glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(msg.Width-8),
			)
		}
		m.viewport.SetContent(m.renderTimeline())

	case spinner.TickMsg:
		// Keep the ticker alive so the spinner resumes without a restart.
		m.spinner, spCmd = m.spinner.Update(msg)
		return m, spCmd

	case transcriptMsg:
		wasAtBottom := m.viewport.AtBottom()
		m.viewport.SetContent(m.renderTimeline())
		if wasAtBottom {
			m.viewport.GotoBottom()
		}
		return m.reconcileDialog()

	case sessionReadyMsg:
		if msg.err != nil {
			m.err = msg.err
		}

	case directoryDoneMsg:
		if msg.err != nil {
			// Degrades to fallback agent labels; worth a notice, not an error.
			m.notice = "agent directory unavailable"
		} else {
			m.viewport.SetContent(m.renderTimeline())
		}

	case sendDoneMsg:
		m.sending = false
		m.textinput.Placeholder = inputPlaceholder
		if msg.err == nil {
			m.viewport.SetContent(m.renderTimeline())
			m.viewport.GotoBottom()
		}
		// Send failures arrive through noticeMsg via the dispatcher's notify.

	case decideDoneMsg:
		if msg.err != nil {
			if chat.IsValidationError(msg.err) {
				m.notice = "payload is not valid JSON — fix it or reject"
				m.editing = true
				return m, nil
			}
			m.notice = msg.err.Error()
			return m, nil
		}
		m.showDialog = false
		m.editing = false
		m.dialogID = ""

	case noticeMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		} else {
			m.notice = msg.text
		}
	}

	m.viewport, vpCmd = m.viewport.Update(msg)
	if m.editing {
		m.textarea, taCmd = m.textarea.Update(msg)
	}

	return m, tea.Batch(tiCmd, vpCmd, spCmd, taCmd)
}

// handleDialogKey routes keys while the review dialog is open.
func (m chatModel) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		if msg.Type == tea.KeyEsc {
			// Editing done: persist the buffer so confirm submits the edit.
			m.session.confirm.SetBuffer(m.dialogID, m.textarea.Value())
			m.editing = false
			return m, nil
		}
		var taCmd tea.Cmd
		m.textarea, taCmd = m.textarea.Update(msg)
		return m, taCmd
	}

	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.session.confirm.InFlight() {
		return m, nil
	}

	switch msg.String() {
	case "y", "Y":
		return m, m.decide(true)
	case "n", "N":
		return m, m.decide(false)
	case "e", "E":
		action, ok := m.session.conv.Action(m.dialogID)
		if !ok {
			return m, nil
		}
		buffer, ok := m.session.confirm.OpenEditor(action)
		if !ok {
			return m, nil
		}
		m.textarea.SetValue(buffer)
		m.textarea.Focus()
		m.editing = true
		return m, textarea.Blink
	case "esc":
		m.session.confirm.CloseEditor()
		m.dismissedID = m.dialogID
		m.showDialog = false
		m.dialogID = ""
		return m, nil
	}
	return m, nil
}

// decide submits a confirm/reject decision for the dialog's action.
func (m chatModel) decide(confirm bool) tea.Cmd {
	actionID := m.dialogID
	s := m.session
	return func() tea.Msg {
		action, ok := s.conv.Action(actionID)
		if !ok {
			return decideDoneMsg{err: fmt.Errorf("action no longer present")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		return decideDoneMsg{err: s.confirm.Decide(ctx, action, confirm)}
	}
}

func (m chatModel) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textinput.Value())
	if input == "" {
		return m, nil
	}

	m.textinput.Reset()
	m.textinput.Placeholder = thinkingPlaceholder
	m.sending = true
	m.notice = ""

	s := m.session
	sendCmd := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
		defer cancel()
		return sendDoneMsg{err: s.dispatcher.Send(ctx, input)}
	}

	// Show the optimistic append as soon as the dispatcher makes it; a short
	// follow-up refresh covers the window before the first sendDoneMsg.
	m.viewport.SetContent(m.renderTimeline())
	m.viewport.GotoBottom()

	return m, tea.Batch(m.spinner.Tick, sendCmd, tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return transcriptMsg{}
	}))
}

// reconcileDialog keeps the review dialog consistent with the freshly fetched
// transcript: it opens for the first action awaiting confirmation and closes
// when the action left the reviewing state behind our back.
func (m chatModel) reconcileDialog() (tea.Model, tea.Cmd) {
	if m.showDialog {
		action, ok := m.session.conv.Action(m.dialogID)
		if !ok || !action.State.Editable() {
			if !m.session.confirm.InFlight() {
				m.session.confirm.CloseEditor()
				m.showDialog = false
				m.editing = false
				m.dialogID = ""
			}
		}
		return m, nil
	}

	action, ok := m.session.conv.Reviewing()
	if !ok || action.ID == m.dismissedID {
		return m, nil
	}
	m.showDialog = true
	m.dialogID = action.ID
	m.editing = false
	return m, nil
}

func (m chatModel) renderTimeline() string {
	var sb strings.Builder
	chainID := m.session.cfg.Wallet.ChainID
	if chainID == 0 {
		chainID = chat.FallbackChainID
	}

	for _, item := range m.session.conv.Timeline() {
		switch item.Kind {
		case chat.ItemMessage:
			sb.WriteString(ui.RenderUserMessage(m.styles, item.Message))
		case chat.ItemAction:
			name := m.session.directory.Name(item.Action.AgentID)
			sb.WriteString(ui.RenderAction(m.styles, item.Action, name, chainID, m.safeRenderMarkdown))
		}
	}
	return sb.String()
}

// safeRenderMarkdown renders markdown with panic recovery
func (m chatModel) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			// If glamour panics, return plain text
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}

func (m chatModel) View() string {
	if !m.ready {
		return "Connecting…"
	}

	header := m.renderHeader()
	chatView := m.styles.Content.Render(m.viewport.View())

	if m.sending {
		chatView += "\n" + m.styles.Spinner.Render(m.spinner.View()) + " " + thinkingPlaceholder
	}

	if m.showDialog {
		editor := ""
		if m.editing {
			editor = m.textarea.View()
		}
		action, ok := m.session.conv.Action(m.dialogID)
		if ok {
			chatView += "\n" + ui.RenderConfirmDialog(m.styles, ui.ConfirmDialog{
				Action:    action,
				AgentName: m.session.directory.Name(action.AgentID),
				Editor:    editor,
				InFlight:  m.session.confirm.InFlight(),
				Width:     min(m.width-6, 100),
			})
		}
	}

	inputStyle := m.styles.Card.BorderForeground(m.styles.Theme.Accent)
	inputArea := inputStyle.Render(m.textinput.View())

	footer := m.renderFooter()

	return strings.Join([]string{header, chatView, inputArea, footer}, "\n")
}

func (m chatModel) renderHeader() string {
	title := m.styles.Header.Render(" chainchat ")

	sessionID := m.session.conv.SessionID()
	sessionLabel := "new session"
	if sessionID != "" {
		sessionLabel = "session " + sessionID
	}

	var status string
	switch {
	case m.sending:
		status = m.styles.Warning.Render("● Sending")
	case m.session.confirm.InFlight():
		status = m.styles.Warning.Render("● Submitting")
	default:
		status = m.styles.Success.Render("● Ready")
	}

	line := title + " " + m.styles.Muted.Render(sessionLabel) + "  " + status
	states := ui.RenderAgentStates(m.styles, m.session.conv.AgentStates(), m.session.directory.Name)

	parts := []string{line}
	if states != "" {
		parts = append(parts, states)
	}
	parts = append(parts, m.styles.RenderDivider(m.width))
	return strings.Join(parts, "\n")
}

func (m chatModel) renderFooter() string {
	help := "Enter: send • Ctrl+C: exit"
	if m.showDialog && !m.editing {
		help = "y: confirm • n: reject • e: edit • esc: dismiss"
	} else if m.editing {
		help = "Esc: done editing"
	}
	line := m.styles.Muted.Render(help)
	if m.notice != "" {
		line = m.styles.Warning.Render(m.notice) + "  " + line
	}
	return m.styles.Footer.Render(line)
}

// runInteractiveChat launches the bubbletea chat for the given session id
// (empty adopts the session ref file or starts fresh).
func runInteractiveChat(cfg *config.Config, sessionID string) error {
	s, err := newChatSession(cfg, sessionID)
	if err != nil {
		return err
	}
	defer s.close()

	model := initChat(cfg, s)
	p := tea.NewProgram(model, tea.WithAltScreen())
	s.attach(p.Send)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat interface failed: %w", err)
	}
	return nil
}
