// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package builder provides the main prompt workbench view for the promptforge TUI.
//
// This file contains tests for the update loop: keyboard flows, editor and
// detail modes, and the handlers for command outcome messages.
package builder

import (
	"errors"
	"strings"
	"testing"

	"github.com/jeranaias/promptforge/internal/commands"
	"github.com/jeranaias/promptforge/internal/history"
	"github.com/jeranaias/promptforge/internal/model"
	"github.com/jeranaias/promptforge/internal/session"
	"github.com/jeranaias/promptforge/internal/template"
	"github.com/jeranaias/promptforge/internal/ui/components"
)

// =============================================================================
// NAVIGATION AND FOCUS
// =============================================================================

func TestFocusToggle(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)

	if m.focus != paneMessages {
		t.Fatal("Expected message pane focused at start")
	}
	m, _ = press(t, m, "tab")
	if m.focus != panePrompt {
		t.Error("Expected prompt pane focused after tab")
	}
	m, _ = press(t, m, "tab")
	if m.focus != paneMessages {
		t.Error("Expected focus to cycle back to the message pane")
	}
}

func TestSelection_MovesWithKeys(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)

	m, _ = press(t, m, "j", "j")
	if m.SelectedIndex() != 2 {
		t.Errorf("Expected selection at 2 after two downs, got %d", m.SelectedIndex())
	}
	m, _ = press(t, m, "k")
	if m.SelectedIndex() != 1 {
		t.Errorf("Expected selection at 1 after up, got %d", m.SelectedIndex())
	}
}

func TestHelpOverlay_ToggleAndDismiss(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)

	m, _ = press(t, m, "?")
	if !m.help.IsVisible() {
		t.Fatal("Expected help overlay after ?")
	}
	if !strings.Contains(m.View(), "Commands") {
		t.Error("Help overlay should render the command reference")
	}

	m, _ = press(t, m, "esc")
	if m.help.IsVisible() {
		t.Error("Expected esc to dismiss the help overlay")
	}
}

func TestCtrlQ_QuitsFromAnyMode(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)
	m, _ = press(t, m, ":")
	if !m.inMode(modeCommand) {
		t.Fatal("Expected command mode")
	}

	_, cmd := press(t, m, "ctrl+q")
	if cmd == nil {
		t.Error("Expected ctrl+q to quit even in command mode")
	}
}

// =============================================================================
// CONVERSATION MUTATIONS VIA SHORTCUTS
// =============================================================================

func TestAddKey_OpensEditorForNewMessage(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)
	before := m.Session().MessageCount()

	m, cmd := press(t, m, "a")
	if cmd == nil {
		t.Fatal("Expected a command from the add key")
	}
	m, _ = step(t, m, cmd)

	if got := m.Session().MessageCount(); got != before+1 {
		t.Fatalf("MessageCount = %d, want %d", got, before+1)
	}
	if !m.inMode(modeEditMessage) {
		t.Error("An empty add should drop into the editor")
	}
	if m.editIndex != before {
		t.Errorf("Editor should target the new message %d, got %d", before, m.editIndex)
	}
}

func TestEditorApply_UpdatesMessageAndRerenders(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)

	m, cmd := press(t, m, "a")
	m, _ = step(t, m, cmd)
	if !m.inMode(modeEditMessage) {
		t.Fatal("Expected editor mode")
	}
	idx := m.editIndex

	m, _ = press(t, m, "tell me a joke", "ctrl+s")

	if !m.inMode(modeList) {
		t.Error("Expected list mode after apply")
	}
	msg := m.Session().Conversation().Get(idx)
	if msg == nil || msg.Content != "tell me a joke" {
		t.Fatalf("Message content not applied: %+v", msg)
	}
	if m.Session().State() != session.StateGenerated {
		t.Error("A message edit should leave the prompt generated")
	}
	if !strings.Contains(m.Session().Prompt().Text, "tell me a joke") {
		t.Error("Prompt should re-render with the new content")
	}
}

func TestEditorEsc_DiscardsEdit(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)

	m, _ = press(t, m, "e")
	if !m.inMode(modeEditMessage) {
		t.Fatal("Expected editor mode for the selected message")
	}
	original := m.Session().Conversation().Get(0).Content

	m, _ = press(t, m, "XXX", "esc")

	if !m.inMode(modeList) {
		t.Error("Expected list mode after esc")
	}
	if got := m.Session().Conversation().Get(0).Content; got != original {
		t.Errorf("Content changed after discard: %q", got)
	}
	if m.Notice() != "Edit discarded" {
		t.Errorf("Notice = %q, want the discard notice", m.Notice())
	}
}

func TestPromptEditKey_MarksSessionEdited(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)

	m, _ = press(t, m, "E")
	if !m.inMode(modeEditPrompt) {
		t.Fatal("Expected prompt edit mode")
	}
	if m.editIndex != -1 {
		t.Errorf("editIndex = %d, want -1 for a prompt edit", m.editIndex)
	}

	m, _ = press(t, m, " trailing", "ctrl+s")

	if m.Session().State() != session.StateEdited {
		t.Error("A prompt edit should mark the session edited")
	}
	if !strings.HasSuffix(m.Session().Prompt().Text, " trailing") {
		t.Error("Edited text should keep the typed suffix")
	}
}

func TestRoleKey_CyclesSelectedRole(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)

	m, cmd := press(t, m, "r")
	if cmd == nil {
		t.Fatal("Expected a command from the role key")
	}
	m, _ = step(t, m, cmd)

	if got := m.Session().Conversation().Get(0).Role; got != model.RoleUser {
		t.Errorf("Role = %q, want %q after cycling from system", got, model.RoleUser)
	}
	if !strings.Contains(m.Notice(), "role: User") {
		t.Errorf("Notice = %q, want a role change notice", m.Notice())
	}
}

func TestDeleteKey_RemovesSelectedMessage(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)
	before := m.Session().MessageCount()

	m, cmd := press(t, m, "d")
	m, _ = step(t, m, cmd)

	if got := m.Session().MessageCount(); got != before-1 {
		t.Errorf("MessageCount = %d, want %d", got, before-1)
	}
	if !strings.Contains(m.Notice(), "Removed message") {
		t.Errorf("Notice = %q, want a removal notice", m.Notice())
	}
}

func TestMoveKey_MovesMessageDown(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)

	m, cmd := press(t, m, "J")
	m, _ = step(t, m, cmd)

	if got := m.Session().Conversation().Get(1).Role; got != model.RoleSystem {
		t.Errorf("Message 1 role = %q, want the moved system message", got)
	}
	if m.SelectedIndex() != 1 {
		t.Errorf("Selection should follow the moved message, got %d", m.SelectedIndex())
	}
}

func TestMoveKey_TopEdgeIsSoftError(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)

	m, cmd := press(t, m, "K")
	m, _ = step(t, m, cmd)

	if m.errorBox.IsVisible() {
		t.Error("Moving past the top should not raise the error banner")
	}
	if !m.noticeErr || !strings.Contains(m.Notice(), "Cannot move") {
		t.Errorf("Notice = %q (err=%v), want a soft cannot-move notice", m.Notice(), m.noticeErr)
	}
}

func TestThinkingKey_TogglesOption(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)
	before := m.Session().EnableThinking()

	m, cmd := press(t, m, "t")
	m, _ = step(t, m, cmd)

	if m.Session().EnableThinking() == before {
		t.Error("Expected the thinking option to flip")
	}
	if !strings.HasPrefix(m.Notice(), "Thinking") {
		t.Errorf("Notice = %q, want a thinking toggle notice", m.Notice())
	}
}

// =============================================================================
// DETAIL MODE
// =============================================================================

func TestDetailMode_ShowsToolCalls(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)

	// Message 2 in the seed conversation is the assistant tool call turn.
	m, _ = press(t, m, "j", "j", "enter")
	if !m.inMode(modeDetail) {
		t.Fatal("Expected detail mode")
	}

	view := m.View()
	if !strings.Contains(view, "Message #2") {
		t.Error("Detail title should name the message index")
	}
	if !strings.Contains(view, "Tool call: search") {
		t.Error("Detail view should list the tool call by name")
	}
	if !strings.Contains(view, "Reasoning") {
		t.Error("Detail view should include the reasoning section")
	}

	m, _ = press(t, m, "esc")
	if !m.inMode(modeList) {
		t.Error("Expected esc to leave detail mode")
	}
}

// =============================================================================
// MODEL PICKER
// =============================================================================

func TestModelPickerFlow_SwitchesModel(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)

	m, cmd := press(t, m, "m")
	m, _ = step(t, m, cmd)
	if !m.picker.IsVisible() {
		t.Fatal("Expected the model picker after m")
	}

	m, cmd = press(t, m, "down", "enter")
	if cmd == nil {
		t.Fatal("Expected a command from picking a model")
	}
	if m.picker.IsVisible() {
		t.Error("Picker should hide once a model is picked")
	}

	msg := cmd()
	picked, ok := msg.(components.ModelPickedMsg)
	if !ok {
		t.Fatalf("Expected ModelPickedMsg, got %T", msg)
	}

	res, cmd2 := m.Update(picked)
	m = res.(Model)
	m, _ = step(t, m, cmd2)

	if got := m.Session().ModelID(); got != picked.ID {
		t.Errorf("ModelID = %q, want the picked %q", got, picked.ID)
	}
	if !strings.HasPrefix(m.Notice(), "Model: ") {
		t.Errorf("Notice = %q, want a model switch notice", m.Notice())
	}
}

func TestModelSwitch_UnknownModelShowsError(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)

	res, cmd := m.Update(components.ModelPickedMsg{ID: "no-such-model"})
	m = res.(Model)
	m, _ = step(t, m, cmd)

	if !m.errorBox.IsVisible() {
		t.Error("Switching to an unknown model should raise the error banner")
	}
	if got := m.Session().ModelID(); got != template.DefaultModelID {
		t.Errorf("ModelID = %q, the active model should be unchanged", got)
	}
}

// =============================================================================
// COMMAND OUTCOME MESSAGES
// =============================================================================

func TestConversationReset_ClearsMessages(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)

	res, _ := m.Update(commands.ConversationResetMsg{})
	m = res.(Model)

	if got := m.Session().MessageCount(); got != 0 {
		t.Errorf("MessageCount = %d, want 0 after reset", got)
	}
	if !strings.Contains(m.Notice(), "new conversation") {
		t.Errorf("Notice = %q, want a reset notice", m.Notice())
	}
}

func TestSessionLoaded_RestoresEditedText(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)

	entry := &history.Entry{
		ModelID: template.DefaultModelID,
		Title:   "saved prompt",
		Prompt:  "the saved render text",
	}
	res, _ := m.Update(commands.SessionLoadedMsg{Entry: entry})
	m = res.(Model)

	if m.Session().State() != session.StateEdited {
		t.Error("A loaded prompt should land in the edited state")
	}
	if got := m.Session().Prompt().Text; got != "the saved render text" {
		t.Errorf("Prompt text = %q, want the saved render", got)
	}
	if !strings.Contains(m.Notice(), "saved prompt") {
		t.Errorf("Notice = %q, want the entry title", m.Notice())
	}
}

func TestSessionLoaded_NilEntryIsSoftError(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)

	res, _ := m.Update(commands.SessionLoadedMsg{})
	m = res.(Model)

	if !m.noticeErr || !strings.Contains(m.Notice(), "Nothing to load") {
		t.Errorf("Notice = %q (err=%v), want the nothing-to-load notice", m.Notice(), m.noticeErr)
	}
}

func TestRegistryReloaded_SwapsRegistry(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)

	fresh := template.NewBuiltinRegistry()
	res, _ := m.Update(RegistryReloadedMsg{Registry: fresh})
	m = res.(Model)

	if m.Session().Registry() != fresh {
		t.Error("Session should use the reloaded registry")
	}
	if !strings.Contains(m.Notice(), "reloaded") {
		t.Errorf("Notice = %q, want a reload notice", m.Notice())
	}
}

func TestClipboardResult_Notices(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)

	res, _ := m.Update(clipboardResultMsg{bytes: 42})
	m = res.(Model)
	if !strings.Contains(m.Notice(), "42 bytes") {
		t.Errorf("Notice = %q, want the copied byte count", m.Notice())
	}

	res, _ = m.Update(clipboardResultMsg{err: errors.New("no display")})
	m = res.(Model)
	if !m.noticeErr || !strings.Contains(m.Notice(), "Clipboard unavailable") {
		t.Errorf("Notice = %q (err=%v), want a clipboard failure notice", m.Notice(), m.noticeErr)
	}
}

func TestNotice_ExpiryIgnoresStaleTimers(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)

	cmd := m.setNotice("first")
	if cmd == nil {
		t.Fatal("setNotice should schedule an expiry")
	}
	staleID := m.noticeID

	m.setNotice("second")

	res, _ := m.Update(noticeExpiredMsg{id: staleID})
	m = res.(Model)
	if m.Notice() != "second" {
		t.Errorf("Notice = %q, a stale timer must not clear the newer notice", m.Notice())
	}

	res, _ = m.Update(noticeExpiredMsg{id: m.noticeID})
	m = res.(Model)
	if m.Notice() != "" {
		t.Errorf("Notice = %q, want cleared after its own timer", m.Notice())
	}
}

func TestErrorBanner_SwallowsKeysUntilDismissed(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)

	res, _ := m.Update(commands.ErrorMsg{Title: "Boom", Message: "it broke", Tip: "try again"})
	m = res.(Model)
	if !m.errorBox.IsVisible() {
		t.Fatal("Expected the error banner")
	}

	before := m.SelectedIndex()
	m, _ = press(t, m, "j")
	if m.SelectedIndex() != before {
		t.Error("Keys should be swallowed while the banner is up")
	}

	m, _ = press(t, m, "enter")
	if m.errorBox.IsVisible() {
		t.Error("Enter should dismiss the banner")
	}
}

func TestMultiLineNotice_OpensOverlay(t *testing.T) {
	m := sized(t, newTestBuilder(t), 100, 30)

	res, _ := m.Update(commands.NoticeMsg{Text: "line one\nline two"})
	m = res.(Model)

	if !m.help.IsVisible() {
		t.Error("Multi-line notices should open the overlay")
	}
	if m.Notice() != "" {
		t.Errorf("Notice = %q, multi-line text should not hit the status line", m.Notice())
	}
}
