// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package builder provides the main prompt workbench view for the promptforge TUI.
//
// This file contains the layout math and all rendering: the two-pane
// workbench, the full-screen editor and detail modes, and the overlays.
package builder

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/promptforge/internal/model"
	"github.com/jeranaias/promptforge/internal/session"
	"github.com/jeranaias/promptforge/internal/ui/components"
)

// =============================================================================
// LAYOUT CONSTANTS
// =============================================================================

const (
	// Pane chrome: the rounded border costs two columns and two rows, the
	// horizontal padding two more columns, and the title line one more row.
	paneChromeWidth  = 4
	paneChromeHeight = 3

	// Rows reserved outside the panes. The bottom line holds the command
	// input, the transient notice, or the idle hint.
	statusBarRows  = 1
	bottomLineRows = 1

	// Below this width the split does not fit and only the focused pane
	// renders, full width.
	splitMinWidth = 76

	// Terminals at least this tall get the boxed two-line header.
	fullHeaderMinHeight = 30
	fullHeaderRows      = 4
	compactHeaderRows   = 1

	listPaneMinWidth = 30
	listPaneMaxWidth = 44
)

// headerRows estimates the header height for the current terminal size.
// handleResize uses this estimate; renderWorkbench measures the real thing.
func (m Model) headerRows() int {
	if m.height >= fullHeaderMinHeight {
		return fullHeaderRows
	}
	return compactHeaderRows
}

// paneLayout computes the total width of each pane and the rows available
// for the pane area.
func (m Model) paneLayout() (listW, promptW, mainH int) {
	width := m.width
	if width <= 0 {
		width = 80
	}
	height := m.height
	if height <= 0 {
		height = 24
	}

	mainH = height - m.headerRows() - statusBarRows - bottomLineRows
	if mainH < paneChromeHeight+1 {
		mainH = paneChromeHeight + 1
	}

	if width < splitMinWidth {
		// Single pane layout: whichever pane has focus takes everything.
		return width, width, mainH
	}

	listW = width / 3
	if listW < listPaneMinWidth {
		listW = listPaneMinWidth
	}
	if listW > listPaneMaxWidth {
		listW = listPaneMaxWidth
	}
	promptW = width - listW
	return listW, promptW, mainH
}

// editorWidth returns the textarea width for the full-screen editor.
func (m Model) editorWidth() int {
	w := m.width - 10
	if w < 20 {
		w = 20
	}
	if w > 100 {
		w = 100
	}
	return w
}

// editorHeight returns the textarea height for the full-screen editor.
func (m Model) editorHeight() int {
	h := m.height - 10
	if h < 5 {
		h = 5
	}
	if h > 24 {
		h = 24
	}
	return h
}

// detailHeight returns the viewport height for the message detail mode.
func (m Model) detailHeight() int {
	h := m.height - 8
	if h < 5 {
		h = 5
	}
	return h
}

// =============================================================================
// MAIN VIEW
// =============================================================================

// View renders the builder.
// Layout: header + panes (messages | prompt) + bottom line + status bar.
// Overlays replace the whole screen while visible.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Overlays in the same priority order the key dispatch uses
	if m.help.IsVisible() {
		return m.renderOverlayScreen(m.help.View())
	}
	if m.picker.IsVisible() {
		return m.renderOverlayScreen(m.picker.View())
	}
	if m.errorBox.IsVisible() {
		return m.renderOverlayScreen(m.errorBox.View())
	}

	switch m.mode {
	case modeDetail:
		return m.renderDetail()
	case modeEditMessage, modeEditPrompt:
		return m.renderEditor()
	}

	return m.renderWorkbench()
}

// renderOverlayScreen centers a boxed overlay on an otherwise blank screen.
func (m Model) renderOverlayScreen(box string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderWorkbench renders the normal two-pane layout. Fixed components are
// measured with lipgloss.Height so the pane area absorbs whatever is left
// and the status bar stays pinned to the last row.
func (m Model) renderWorkbench() string {
	header := m.renderHeader()
	bottom := m.renderBottomLine()
	status := m.statusBar.View()

	mainH := m.height - lipgloss.Height(header) - lipgloss.Height(bottom) - lipgloss.Height(status)
	if mainH < 1 {
		mainH = 1
	}

	panes := m.renderPanes(mainH)
	if lipgloss.Height(panes) != mainH {
		// Completion popups and wrapped notices change the bottom height;
		// clamp the pane area so the total never drifts off screen.
		panes = lipgloss.NewStyle().
			Height(mainH).
			MaxHeight(mainH).
			Render(panes)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		panes,
		bottom,
		status,
	)
}

// renderHeader picks the boxed header on tall terminals and the single-line
// variant everywhere else.
func (m Model) renderHeader() string {
	if m.height >= fullHeaderMinHeight {
		return m.header.View()
	}
	return m.header.ViewCompact()
}

// =============================================================================
// PANES
// =============================================================================

// renderPanes renders the conversation and prompt panes side by side, or
// just the focused one when the terminal is too narrow for the split.
func (m Model) renderPanes(mainH int) string {
	listW, promptW, _ := m.paneLayout()

	if m.width < splitMinWidth {
		if m.focus == paneMessages {
			return m.renderPane("Conversation", m.messageList.View(), listW, mainH, true)
		}
		return m.renderPane(m.promptPaneTitle(), m.promptScroll.View(), promptW, mainH, true)
	}

	list := m.renderPane("Conversation", m.messageList.View(), listW, mainH, m.focus == paneMessages)
	prompt := m.renderPane(m.promptPaneTitle(), m.promptScroll.View(), promptW, mainH, m.focus == panePrompt)
	return lipgloss.JoinHorizontal(lipgloss.Top, list, prompt)
}

// renderPane draws one bordered pane with its title line. width and totalH
// are outer dimensions including the border.
func (m Model) renderPane(title, content string, width, totalH int, focused bool) string {
	titleStyle := m.theme.PaneTitle
	paneStyle := m.theme.PaneUnfocused
	if focused {
		titleStyle = m.theme.PaneTitleFocused
		paneStyle = m.theme.PaneFocused
	}

	innerW := width - 2
	if innerW < 1 {
		innerW = 1
	}
	innerH := totalH - 2
	if innerH < 1 {
		innerH = 1
	}

	body := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), content)

	return paneStyle.
		Width(innerW).
		Height(innerH).
		MaxHeight(totalH).
		Render(body)
}

// promptPaneTitle labels the prompt pane with the session state and size.
func (m Model) promptPaneTitle() string {
	if m.session == nil {
		return "Prompt"
	}
	state := "generated"
	if m.session.State() == session.StateEdited {
		state = "edited"
	}
	return fmt.Sprintf("Prompt (%s, %d lines)", state, m.promptView.LineCount())
}

// =============================================================================
// BOTTOM LINE
// =============================================================================

// renderBottomLine renders the row between the panes and the status bar:
// the command input while typing a command, the transient notice when one
// is active, and the idle hint otherwise.
func (m Model) renderBottomLine() string {
	if m.mode == modeCommand {
		line := m.theme.InputPrompt.Render(":") + m.cmdInput.View()
		if m.popup.HasCompletions() {
			return lipgloss.JoinVertical(lipgloss.Left, m.popup.View(), line)
		}
		return line
	}

	if m.notice != "" {
		style := m.theme.SuccessStyle
		if m.noticeErr {
			style = m.theme.WarningStyle
		}
		return style.Render(truncateLine(m.notice, m.width-2))
	}

	return m.renderIdleHint()
}

// renderIdleHint names the focused pane and the two keys that open
// everything else.
func (m Model) renderIdleHint() string {
	focusName := "conversation"
	if m.focus == panePrompt {
		focusName = "prompt"
	}

	parts := []string{
		m.theme.ShortcutKey.Render("tab") + m.theme.ShortcutDesc.Render(" pane: "+focusName),
		m.theme.ShortcutKey.Render(":") + m.theme.ShortcutDesc.Render(" commands"),
		m.theme.ShortcutKey.Render("?") + m.theme.ShortcutDesc.Render(" help"),
	}
	return " " + strings.Join(parts, m.theme.ShortcutDesc.Render("  |  "))
}

// truncateLine keeps a single-line string within width characters.
func truncateLine(s string, width int) string {
	if width < 4 {
		width = 4
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// =============================================================================
// EDITOR MODE
// =============================================================================

// renderEditor renders the full-screen content editor.
func (m Model) renderEditor() string {
	title := "Edit Prompt Text"
	hint := "Saving marks the prompt as edited. Use /reset to regenerate."
	if m.mode == modeEditMessage {
		title = fmt.Sprintf("Edit Message #%d", m.editIndex)
		hint = "Saving re-renders the prompt from the conversation."
	}

	footer := m.theme.ShortcutKey.Render("C-s") + m.theme.ShortcutDesc.Render(" apply") +
		m.theme.ShortcutDesc.Render("   ") +
		m.theme.ShortcutKey.Render("esc") + m.theme.ShortcutDesc.Render(" cancel")

	body := lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.PaneTitleFocused.Render(title),
		m.theme.ShortcutDesc.Render(hint),
		"",
		m.editor.View(),
		"",
		footer,
	)

	box := m.theme.PaneFocused.Render(body)
	return m.renderOverlayScreen(box)
}

// =============================================================================
// DETAIL MODE
// =============================================================================

// renderDetail renders the full view of the selected message.
func (m Model) renderDetail() string {
	footer := m.theme.ShortcutKey.Render("j/k") + m.theme.ShortcutDesc.Render(" scroll") +
		m.theme.ShortcutDesc.Render("   ") +
		m.theme.ShortcutKey.Render("esc") + m.theme.ShortcutDesc.Render(" back")

	body := lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.PaneTitleFocused.Render(m.detailTitle),
		"",
		m.detailScroll.View(),
		"",
		footer,
	)

	box := m.theme.PaneFocused.Render(body)
	return m.renderOverlayScreen(box)
}

// renderDetailContent builds the scrollable body for the detail view:
// reasoning first when present, then the content with fenced code blocks
// highlighted, then each tool call with pretty-printed arguments.
func (m Model) renderDetailContent(msg model.Message) string {
	width := m.detailScroll.Width
	if width <= 0 {
		width = 72
	}

	var sections []string

	if msg.Reasoning != "" {
		sections = append(sections,
			m.theme.MessageReasoning.Render("Reasoning"),
			lipgloss.NewStyle().Width(width).Render(msg.Reasoning),
			"")
	}

	if msg.Content != "" {
		sections = append(sections, components.ParseCodeBlocks(msg.Content, width))
	} else if len(msg.ToolCalls) == 0 && msg.Reasoning == "" {
		sections = append(sections, m.theme.MessageMeta.Render("(empty message)"))
	}

	for _, call := range msg.ToolCalls {
		sections = append(sections,
			"",
			m.theme.MessageToolCall.Render("Tool call: "+call.Name),
			components.RenderJSON(call.Arguments, width))
	}

	return strings.Join(sections, "\n")
}
