// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/jeranaias/refchat/internal/model"
	"github.com/jeranaias/refchat/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}

// headerView renders the single-row title bar.
func (m Model) headerView() string {
	title := m.theme.HeaderTitle.Render("refchat")
	meta := m.theme.HeaderMeta.Render(fmt.Sprintf("%s · %s", m.provider, m.modelName))
	return m.theme.Header.Render(title + "  " + meta)
}

// statusView renders the row between the transcript and the input.
func (m Model) statusView() string {
	if m.state == StateWaiting {
		return m.theme.StatusBar.Render(m.theme.StatusInfo.Render(m.spinner.View() + "thinking..."))
	}
	if m.lastError != "" {
		errText := util.TruncateWidth(util.SingleLine(m.lastError), contentWidth(m.width))
		return m.theme.StatusBar.Render(m.theme.ErrorText.Render(errText))
	}
	return m.theme.StatusBar.Render(m.theme.HelpText.Render("enter send · ctrl+r reset · esc quit"))
}

// renderTranscript formats the session history for the viewport. System
// messages are part of the wire transcript but stay out of the display.
func (m Model) renderTranscript() string {
	history := m.controller.History(m.sessionID)

	var b strings.Builder
	for _, msg := range history {
		if msg.Role == model.RoleSystem {
			continue
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}

	if m.state == StateWaiting && m.pending != "" {
		b.WriteString(m.renderMessage(model.NewUserMessage(m.pending)))
		b.WriteString("\n")
	}

	if b.Len() == 0 {
		return m.theme.ContextNote.Render("No messages yet. Ask something about your document.")
	}
	return b.String()
}

// renderMessage formats one labeled message block.
func (m Model) renderMessage(msg model.Message) string {
	label := m.theme.LabelFor(msg.Role.String(), msg.Role.DisplayName())
	body := msg.Content

	if msg.Role == model.RoleAssistant && m.renderer != nil {
		if rendered, err := m.renderer.Render(body); err == nil {
			body = strings.TrimRight(rendered, "\n")
		}
	}

	return label + "\n" + m.theme.MessageText.Render(body) + "\n"
}
