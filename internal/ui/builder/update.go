// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package builder provides the main prompt workbench view for the promptforge TUI.
//
// This file is the Bubble Tea update loop: window sizing, keyboard dispatch
// by mode, and the handlers for every command outcome message.
package builder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/promptforge/internal/commands"
	"github.com/jeranaias/promptforge/internal/config"
	"github.com/jeranaias/promptforge/internal/model"
	"github.com/jeranaias/promptforge/internal/ui/components"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	// Model picker outcomes
	case components.ModelPickedMsg:
		return m.handleModelPicked(msg)

	case components.ModelPickerClosedMsg:
		return m, nil

	// Command outcomes
	case commands.NoticeMsg:
		return m.handleNotice(msg)

	case commands.ErrorMsg:
		m.errorBox.Show(msg.Title, msg.Message, tipSuggestions(msg.Tip)...)
		return m, nil

	case commands.ShowHelpMsg:
		m.help.Show(m.helpMarkdown(msg.Topic))
		return m, nil

	case commands.ModelSwitchedMsg:
		return m.handleModelSwitched(msg)

	case commands.ShowModelPickerMsg:
		m.refreshPicker()
		m.picker.Show()
		return m, textinput.Blink

	case commands.OptionToggledMsg:
		return m.handleOptionToggled(msg)

	case commands.MessageAddedMsg:
		return m.handleMessageAdded(msg)

	case commands.MessageRemovedMsg:
		return m.handleMessageRemoved(msg)

	case commands.MessageMovedMsg:
		return m.handleMessageMoved(msg)

	case commands.RoleChangedMsg:
		return m.handleRoleChanged(msg)

	case commands.ConversationResetMsg:
		return m.handleConversationReset()

	case commands.PromptResetMsg:
		return m.handlePromptReset(msg)

	case commands.CopyPromptMsg:
		if m.session == nil {
			return m, nil
		}
		return m, copyToClipboardCmd(m.session.Prompt().Text)

	case commands.PromptExportedMsg:
		return m.handlePromptExported(msg)

	case commands.SessionSavedMsg:
		return m.handleSessionSaved(msg)

	case commands.SessionLoadedMsg:
		return m.handleSessionLoaded(msg)

	case commands.SessionListMsg:
		return m.handleSessionList(msg)

	case commands.ShowConfigMsg:
		return m.handleShowConfig(msg)

	case commands.ConfigUpdatedMsg:
		return m.handleConfigUpdated(msg)

	// Builder internals
	case RegistryReloadedMsg:
		return m.handleRegistryReloaded(msg)

	case clipboardResultMsg:
		if msg.err != nil {
			return m, m.setErrorNotice("Clipboard unavailable: " + msg.err.Error())
		}
		return m, m.setNotice(fmt.Sprintf("Copied %d bytes to clipboard", msg.bytes))

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = ""
			m.noticeErr = false
		}
		return m, nil
	}

	return m, nil
}

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	m.header.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)
	m.errorBox.SetWidth(m.width)
	m.help.SetSize(m.width, m.height)

	pickerWidth := m.width - 8
	if pickerWidth > 60 {
		pickerWidth = 60
	}
	m.picker.SetWidth(pickerWidth)

	cmdWidth := m.width - 6
	if cmdWidth < 10 {
		cmdWidth = 10
	}
	m.cmdInput.Width = cmdWidth
	m.popup.SetWidth(cmdWidth)

	m.editor.SetWidth(m.editorWidth())
	m.editor.SetHeight(m.editorHeight())

	listW, promptW, mainH := m.paneLayout()
	m.messageList.SetSize(listW-paneChromeWidth, mainH-paneChromeHeight)
	m.promptView.SetWidth(promptW - paneChromeWidth)
	m.promptScroll.Width = promptW - paneChromeWidth
	m.promptScroll.Height = mainH - paneChromeHeight
	m.detailScroll.Width = m.width - 8
	m.detailScroll.Height = m.detailHeight()

	// Re-render wrapped content for the new widths
	m.refreshFromSession()
	if m.mode == modeDetail {
		m.refreshDetail()
	}
	return m, nil
}

// =============================================================================
// KEYBOARD DISPATCH
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	// Emergency exit works in every mode
	if keyStr == "ctrl+q" {
		m.quitting = true
		return m, tea.Quit
	}

	// Overlays before modes: help, picker, then the error banner
	if m.help.IsVisible() {
		return m.handleHelpKey(keyStr)
	}

	if m.picker.IsVisible() {
		cmd := m.picker.Update(msg)
		return m, cmd
	}

	if m.errorBox.IsVisible() {
		switch keyStr {
		case "esc", "enter", " ":
			m.errorBox.Clear()
		}
		return m, nil
	}

	switch m.mode {
	case modeCommand:
		return m.handleCommandKey(msg)
	case modeEditMessage, modeEditPrompt:
		return m.handleEditorKey(msg)
	case modeDetail:
		return m.handleDetailKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

// handleHelpKey drives the help overlay: scroll keys move, anything that
// looks like dismissal closes.
func (m Model) handleHelpKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "?", "esc", "q", "enter":
		m.help.Hide()
	case "down", "j":
		m.help.ScrollDown()
	case "up", "k":
		m.help.ScrollUp()
	case "pgdown", "ctrl+d", " ":
		m.help.PageDown()
	case "pgup", "ctrl+u":
		m.help.PageUp()
	}
	return m, nil
}

// handleListKey handles navigation and single-key actions in list mode.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.Show(m.helpMarkdown(""))
		return m, nil

	case key.Matches(msg, m.keys.Command):
		return m.enterCommandMode("/")

	case key.Matches(msg, m.keys.FocusNext):
		if m.focus == paneMessages {
			m.focus = panePrompt
		} else {
			m.focus = paneMessages
		}
		m.messageList.SetFocused(m.focus == paneMessages)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.focus == paneMessages {
			m.messageList.SelectPrev()
		} else {
			m.promptScroll.LineUp(1)
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.focus == paneMessages {
			m.messageList.SelectNext()
		} else {
			m.promptScroll.LineDown(1)
		}
		return m, nil

	case key.Matches(msg, m.keys.Detail):
		if m.focus == paneMessages && m.messageList.SelectedMessage() != nil {
			return m.enterDetail()
		}
		return m, nil

	case key.Matches(msg, m.keys.Add):
		return m, m.runCommand("/add", nil)

	case key.Matches(msg, m.keys.Edit):
		return m.enterMessageEdit(m.messageList.SelectedIndex())

	case key.Matches(msg, m.keys.Delete):
		idx := m.messageList.SelectedIndex()
		if idx < 0 {
			return m, nil
		}
		return m, m.runCommand("/remove", []string{strconv.Itoa(idx)})

	case key.Matches(msg, m.keys.MoveUp):
		idx := m.messageList.SelectedIndex()
		if idx < 0 {
			return m, nil
		}
		return m, m.runCommand("/move", []string{strconv.Itoa(idx), "up"})

	case key.Matches(msg, m.keys.MoveDown):
		idx := m.messageList.SelectedIndex()
		if idx < 0 {
			return m, nil
		}
		return m, m.runCommand("/move", []string{strconv.Itoa(idx), "down"})

	case key.Matches(msg, m.keys.Role):
		return m.cycleSelectedRole()

	case key.Matches(msg, m.keys.EditPrompt):
		return m.enterPromptEdit()

	case key.Matches(msg, m.keys.ResetPrompt):
		return m, m.runCommand("/reset", nil)

	case key.Matches(msg, m.keys.Copy):
		return m, m.runCommand("/copy", nil)

	case key.Matches(msg, m.keys.Export):
		return m, m.runCommand("/export", nil)

	case key.Matches(msg, m.keys.Thinking):
		return m, m.runCommand("/thinking", nil)

	case key.Matches(msg, m.keys.GenPrompt):
		return m, m.runCommand("/genprompt", nil)

	case key.Matches(msg, m.keys.Tools):
		return m, m.runCommand("/tools", nil)

	case key.Matches(msg, m.keys.Model):
		return m, m.runCommand("/models", nil)
	}

	// Prompt pane paging regardless of binding table
	if m.focus == panePrompt {
		switch msg.String() {
		case "pgdown":
			m.promptScroll.HalfViewDown()
		case "pgup":
			m.promptScroll.HalfViewUp()
		case "home":
			m.promptScroll.GotoTop()
		case "end":
			m.promptScroll.GotoBottom()
		}
	}
	return m, nil
}

// handleDetailKey drives the full message view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter":
		m.mode = modeList
	case "down", "j":
		m.detailScroll.LineDown(1)
	case "up", "k":
		m.detailScroll.LineUp(1)
	case "pgdown", " ":
		m.detailScroll.HalfViewDown()
	case "pgup":
		m.detailScroll.HalfViewUp()
	}
	return m, nil
}

// cycleSelectedRole advances the selected message to the next role in the
// fixed rotation.
func (m Model) cycleSelectedRole() (tea.Model, tea.Cmd) {
	idx := m.messageList.SelectedIndex()
	if idx < 0 || m.session == nil {
		return m, nil
	}
	current := m.session.Conversation().Get(idx)
	if current == nil {
		return m, nil
	}
	next := current.Role.Next()
	return m, m.runCommand("/role", []string{strconv.Itoa(idx), string(next)})
}

// runCommand executes a registered command handler directly, so keyboard
// shortcuts and the command line share one code path.
func (m *Model) runCommand(name string, args []string) tea.Cmd {
	cmd := m.registry.Get(name)
	if cmd == nil || cmd.Handler == nil {
		return nil
	}
	return cmd.Handler(m.cmdCtx, args)
}

// =============================================================================
// COMMAND OUTCOME HANDLERS
// =============================================================================

// handleNotice routes notices: single lines go to the status notice,
// multi-line listings read better in the markdown overlay.
func (m Model) handleNotice(msg commands.NoticeMsg) (tea.Model, tea.Cmd) {
	if strings.Contains(msg.Text, "\n") {
		m.help.Show("```\n" + msg.Text + "\n```")
		return m, nil
	}
	return m, m.setNotice(msg.Text)
}

func (m Model) handleModelPicked(msg components.ModelPickedMsg) (tea.Model, tea.Cmd) {
	if m.session == nil {
		return m, nil
	}
	sess := m.session
	reg := m.session.Registry()
	id := msg.ID
	return m, func() tea.Msg {
		if err := sess.SetModel(id); err != nil {
			return commands.ModelSwitchedMsg{ID: id, Err: err}
		}
		name := id
		if reg != nil {
			if def, err := reg.Lookup(id); err == nil {
				name = def.DisplayName
			}
		}
		return commands.ModelSwitchedMsg{ID: id, Name: name}
	}
}

func (m Model) handleModelSwitched(msg commands.ModelSwitchedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.errorBox.ShowError(msg.Err)
		return m, nil
	}
	m.refreshFromSession()
	m.picker.SetCurrent(msg.ID)
	name := msg.Name
	if name == "" {
		name = msg.ID
	}
	return m, m.setNotice("Model: " + name)
}

func (m Model) handleOptionToggled(msg commands.OptionToggledMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.errorBox.ShowError(msg.Err)
		return m, nil
	}
	m.refreshFromSession()
	return m, m.setNotice(optionLabel(msg.Option) + " " + onOff(msg.Enabled))
}

func (m Model) handleMessageAdded(msg commands.MessageAddedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.errorBox.ShowError(msg.Err)
		return m, nil
	}
	m.refreshFromSession()
	m.messageList.Select(msg.Index)

	// A bare add drops straight into the editor; /add with content does not.
	if m.session != nil {
		if added := m.session.Conversation().Get(msg.Index); added != nil && added.Content == "" {
			return m.enterMessageEdit(msg.Index)
		}
	}
	return m, m.setNotice(fmt.Sprintf("Added %s message #%d", msg.Role.DisplayName(), msg.Index))
}

func (m Model) handleMessageRemoved(msg commands.MessageRemovedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.errorBox.ShowError(msg.Err)
		return m, nil
	}
	m.refreshFromSession()
	return m, m.setNotice(fmt.Sprintf("Removed message #%d", msg.Index))
}

func (m Model) handleMessageMoved(msg commands.MessageMovedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m, m.setErrorNotice("Cannot move: " + msg.Err.Error())
	}
	m.refreshFromSession()
	m.messageList.Select(msg.NewIndex)
	return m, m.setNotice(fmt.Sprintf("Moved message to #%d", msg.NewIndex))
}

func (m Model) handleRoleChanged(msg commands.RoleChangedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.errorBox.ShowError(msg.Err)
		return m, nil
	}
	m.refreshFromSession()
	return m, m.setNotice(fmt.Sprintf("Message #%d role: %s", msg.Index, msg.Role.DisplayName()))
}

func (m Model) handleConversationReset() (tea.Model, tea.Cmd) {
	if m.session == nil {
		return m, nil
	}
	if err := m.session.SetConversation(model.NewConversation()); err != nil {
		m.errorBox.ShowError(err)
		return m, nil
	}
	m.refreshFromSession()
	m.messageList.Select(0)
	return m, m.setNotice("Started a new conversation")
}

func (m Model) handlePromptReset(msg commands.PromptResetMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.errorBox.ShowError(msg.Err)
		return m, nil
	}
	m.refreshFromSession()
	m.promptScroll.GotoTop()
	return m, m.setNotice("Prompt regenerated from conversation")
}

func (m Model) handlePromptExported(msg commands.PromptExportedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.errorBox.ShowError(msg.Err)
		return m, nil
	}
	return m, m.setNotice(fmt.Sprintf("Exported %s to %s", msg.Format, msg.Path))
}

func (m Model) handleSessionSaved(msg commands.SessionSavedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.errorBox.ShowError(msg.Err)
		return m, nil
	}
	return m, m.setNotice(fmt.Sprintf("Saved %q (%s)", msg.Title, shortID(msg.ID)))
}

// handleSessionLoaded restores a saved render. History keeps the rendered
// text, not the conversation, so a load lands in the edited state with the
// saved model active.
func (m Model) handleSessionLoaded(msg commands.SessionLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.errorBox.ShowError(msg.Err)
		return m, nil
	}
	if msg.Entry == nil || m.session == nil {
		return m, m.setErrorNotice("Nothing to load")
	}

	if err := m.session.SetModel(msg.Entry.ModelID); err != nil {
		// Keep loading the text; highlighting falls back to the active model.
		m.errorBox.ShowError(err)
	}
	if err := m.session.SetEditedText(msg.Entry.Prompt); err != nil {
		m.errorBox.ShowError(err)
		return m, nil
	}
	m.refreshFromSession()
	m.promptScroll.GotoTop()
	return m, m.setNotice(fmt.Sprintf("Loaded %q (edited state)", msg.Entry.Title))
}

func (m Model) handleSessionList(msg commands.SessionListMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.errorBox.ShowError(msg.Err)
		return m, nil
	}
	if len(msg.Sessions) == 0 {
		return m, m.setNotice("No saved prompts; use /save first")
	}
	m.help.Show(sessionsMarkdown(msg.Sessions))
	return m, nil
}

func (m Model) handleShowConfig(msg commands.ShowConfigMsg) (tea.Model, tea.Cmd) {
	if msg.Key == "" {
		m.help.Show(m.configMarkdown())
		return m, nil
	}
	if msg.Value == "" {
		return m, m.setNotice(msg.Key + " is unset")
	}
	return m, m.setNotice(msg.Key + " = " + msg.Value)
}

func (m Model) handleConfigUpdated(msg commands.ConfigUpdatedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.errorBox.Show("Config error", msg.Err.Error(), "Use /config to list available keys")
		return m, nil
	}
	return m, m.setNotice(fmt.Sprintf("%s: %v -> %v", msg.Key, msg.OldValue, msg.Value))
}

func (m Model) handleRegistryReloaded(msg RegistryReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Registry == nil {
		return m, nil
	}
	count := msg.Registry.Len()
	if err := m.applyRegistry(msg.Registry); err != nil {
		m.errorBox.ShowError(err)
		return m, nil
	}
	return m, m.setNotice(fmt.Sprintf("Model definitions reloaded (%d models)", count))
}

// =============================================================================
// SMALL HELPERS
// =============================================================================

// tipSuggestions lifts a one-line tip into the banner's suggestion list.
func tipSuggestions(tip string) []string {
	if tip == "" {
		return nil
	}
	return []string{tip}
}

// optionLabel maps option keys onto display labels.
func optionLabel(option string) string {
	switch option {
	case commands.OptionThinking:
		return "Thinking"
	case commands.OptionGenerationPrompt:
		return "Generation prompt"
	case commands.OptionTools:
		return "Tools block"
	default:
		return option
	}
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

// shortID trims a UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// sessionsMarkdown renders the saved prompt listing for the overlay.
func sessionsMarkdown(sessions []commands.SessionInfo) string {
	var sb strings.Builder
	sb.WriteString("# Saved Prompts\n\n")
	for _, s := range sessions {
		sb.WriteString(fmt.Sprintf("- `%s` **%s** - %s, %s, %d msgs, %s\n",
			shortID(s.ID), s.Title, s.ModelID, s.State, s.Messages, s.SavedAt))
	}
	sb.WriteString("\nLoad one with `/load <id>`.\n")
	return sb.String()
}

// helpMarkdown builds the overlay body: command reference plus, for the
// general listing, the keyboard section.
func (m *Model) helpMarkdown(topic string) string {
	md := commands.HelpMarkdown(m.registry, topic)
	if topic == "" || topic == "all" {
		md += "\n" + m.keys.KeysMarkdown()
	}
	return md
}

// configMarkdown renders every config key and its current value.
func (m *Model) configMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# Configuration\n\n")
	for _, key := range config.GetAllKeys() {
		val, err := m.config.Get(key)
		if err != nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("- `%s` = `%v`\n", key, val))
	}
	sb.WriteString("\nSet a value with `/config <key> <value>`.\n")
	return sb.String()
}
