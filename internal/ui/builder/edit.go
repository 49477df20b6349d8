// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package builder provides the main prompt workbench view for the promptforge TUI.
//
// This file holds the editor modes. One textarea serves both flows: editing
// a message's content re-renders the prompt, editing the prompt text itself
// moves the session to the edited state.
package builder

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// EDITOR MODE TRANSITIONS
// =============================================================================

// enterMessageEdit opens the editor on the content of the message at index.
func (m Model) enterMessageEdit(index int) (tea.Model, tea.Cmd) {
	if m.session == nil {
		return m, nil
	}
	target := m.session.Conversation().Get(index)
	if target == nil {
		return m, nil
	}

	m.mode = modeEditMessage
	m.editIndex = index
	m.editor.SetValue(target.Content)
	m.editor.SetWidth(m.editorWidth())
	m.editor.SetHeight(m.editorHeight())
	return m, m.editor.Focus()
}

// enterPromptEdit opens the editor on the rendered prompt text.
func (m Model) enterPromptEdit() (tea.Model, tea.Cmd) {
	if m.session == nil {
		return m, nil
	}

	m.mode = modeEditPrompt
	m.editIndex = -1
	m.editor.SetValue(m.session.Prompt().Text)
	m.editor.SetWidth(m.editorWidth())
	m.editor.SetHeight(m.editorHeight())
	return m, m.editor.Focus()
}

// =============================================================================
// EDITOR MODE KEYS
// =============================================================================

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editor.Blur()
		m.mode = modeList
		return m, m.setNotice("Edit discarded")

	case "ctrl+s":
		return m.applyEdit()

	default:
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
}

// applyEdit commits the editor buffer to the session.
func (m Model) applyEdit() (tea.Model, tea.Cmd) {
	editingPrompt := m.mode == modeEditPrompt
	text := m.editor.Value()
	m.editor.Blur()
	m.mode = modeList

	if m.session == nil {
		return m, nil
	}

	if editingPrompt {
		if err := m.session.SetEditedText(text); err != nil {
			m.errorBox.ShowError(err)
			return m, nil
		}
		m.refreshFromSession()
		return m, m.setNotice("Prompt edited; /reset regenerates from the conversation")
	}

	target := m.session.Conversation().Get(m.editIndex)
	if target == nil {
		return m, m.setErrorNotice("Message no longer exists")
	}
	if err := m.session.SetMessage(m.editIndex, target.Role, text, target.Reasoning); err != nil {
		m.errorBox.ShowError(err)
		return m, nil
	}
	m.refreshFromSession()
	m.messageList.Select(m.editIndex)
	return m, m.setNotice(fmt.Sprintf("Message #%d updated", m.editIndex))
}

// =============================================================================
// DETAIL MODE
// =============================================================================

// enterDetail opens the full view of the selected message.
func (m Model) enterDetail() (tea.Model, tea.Cmd) {
	if m.messageList.SelectedMessage() == nil {
		return m, nil
	}
	m.mode = modeDetail
	m.refreshDetail()
	m.detailScroll.GotoTop()
	return m, nil
}

// refreshDetail rebuilds the detail viewport content for the selection.
func (m *Model) refreshDetail() {
	msg := m.messageList.SelectedMessage()
	if msg == nil {
		return
	}
	m.detailTitle = fmt.Sprintf("Message #%d - %s",
		m.messageList.SelectedIndex(), strings.ToUpper(msg.Role.DisplayName()))
	m.detailScroll.SetContent(m.renderDetailContent(*msg))
}
