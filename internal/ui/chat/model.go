// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"

	"github.com/jeranaias/refchat/internal/catalog"
	chatctl "github.com/jeranaias/refchat/internal/chat"
	"github.com/jeranaias/refchat/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady   State = iota // Ready for input
	StateWaiting              // Completion call in flight
)

// =============================================================================
// MESSAGES
// =============================================================================

// replyMsg carries the result of an async send.
type replyMsg struct {
	reply string
	err   error
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view. It is strictly a
// consumer of the chat controller: all transcript mutation happens there.
type Model struct {
	// State
	state State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int
	ready  bool

	// Chat wiring
	controller *chatctl.Controller
	sessionID  string
	provider   catalog.Provider
	modelName  string

	// Pending user turn, shown optimistically while the call is in flight.
	pending string

	// Markdown rendering of assistant replies
	markdown bool
	renderer *glamour.TermRenderer

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Error state
	lastError string
}

// New creates a chat view over the controller. Each view owns one fresh
// session.
func New(controller *chatctl.Controller, provider catalog.Provider, modelName string, markdown bool) Model {
	theme := styles.NewTheme()

	input := textinput.New()
	input.Placeholder = "Ask about your document..."
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.CharLimit = 0
	input.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		state:      StateReady,
		theme:      theme,
		controller: controller,
		sessionID:  uuid.NewString(),
		provider:   provider,
		modelName:  modelName,
		markdown:   markdown,
		input:      input,
		spinner:    sp,
	}
}

// SessionID returns the view's session identifier.
func (m Model) SessionID() string {
	return m.sessionID
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+r":
			if m.state == StateReady {
				m.controller.ResetSession(m.sessionID)
				m.lastError = ""
				m.refreshViewport()
			}

		case "enter":
			if cmd := m.submit(); cmd != nil {
				return m, tea.Batch(cmd, m.spinner.Tick)
			}
		}

	case replyMsg:
		m.state = StateReady
		m.pending = ""
		if msg.err != nil {
			m.lastError = msg.err.Error()
		} else {
			m.lastError = ""
		}
		m.refreshViewport()

	case spinner.TickMsg:
		if m.state == StateWaiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if m.state == StateReady {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit starts a send for the current input, if any.
func (m *Model) submit() tea.Cmd {
	text := m.input.Value()
	if text == "" || m.state != StateReady {
		return nil
	}

	m.input.Reset()
	m.state = StateWaiting
	m.pending = text
	m.lastError = ""
	m.refreshViewport()

	controller := m.controller
	req := chatctl.SendRequest{
		SessionID: m.sessionID,
		Provider:  m.provider,
		Model:     m.modelName,
		Text:      text,
	}
	return func() tea.Msg {
		reply, err := controller.Send(context.Background(), req)
		return replyMsg{reply: reply, err: err}
	}
}

// resize recomputes component dimensions from the window size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	// Header, status line, and input each take one row.
	viewportHeight := height - 3
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = viewportHeight
	}
	m.input.Width = width - 4

	if m.markdown {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(contentWidth(width)),
		)
		if err == nil {
			m.renderer = renderer
		}
	}
}

// refreshViewport re-renders the transcript into the viewport and scrolls
// to the bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// contentWidth leaves a small margin for message bodies.
func contentWidth(width int) int {
	w := width - 2
	if w < 20 {
		w = 20
	}
	return w
}
