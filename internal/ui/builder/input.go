// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package builder provides the main prompt workbench view for the promptforge TUI.
//
// This file drives the command line: opening and closing it, completion as
// the user types, and executing the parsed command on enter.
package builder

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/promptforge/internal/commands"
)

// =============================================================================
// COMMAND MODE TRANSITIONS
// =============================================================================

// enterCommandMode opens the command line seeded with a leading slash.
func (m Model) enterCommandMode(seed string) (tea.Model, tea.Cmd) {
	m.mode = modeCommand
	m.cmdInput.SetValue(seed)
	m.cmdInput.CursorEnd()
	m.cmdInput.Focus()
	m.popup.Clear()
	m.refreshCompletions()
	return m, textinput.Blink
}

// exitCommandMode closes the command line and drops back to list mode.
func (m *Model) exitCommandMode() {
	m.mode = modeList
	m.cmdInput.Blur()
	m.cmdInput.Reset()
	m.popup.Clear()
}

// =============================================================================
// COMMAND MODE KEYS
// =============================================================================

func (m Model) handleCommandKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// First esc clears the popup, second one leaves command mode
		if m.popup.HasCompletions() {
			m.popup.Clear()
			return m, nil
		}
		m.exitCommandMode()
		return m, nil

	case "enter":
		return m.executeCommandLine()

	case "tab":
		return m.applyCompletion()

	case "down", "ctrl+n":
		m.popup.Next()
		return m, nil

	case "up", "ctrl+p", "shift+tab":
		m.popup.Prev()
		return m, nil

	default:
		before := m.cmdInput.Value()
		var cmd tea.Cmd
		m.cmdInput, cmd = m.cmdInput.Update(msg)
		if m.cmdInput.Value() != before {
			m.refreshCompletions()
		}
		return m, cmd
	}
}

// =============================================================================
// COMPLETION
// =============================================================================

// refreshCompletions recomputes the popup candidates for the current input.
// The popup follows the input as the user types; tab materializes the
// highlighted candidate.
func (m *Model) refreshCompletions() {
	input := m.cmdInput.Value()
	if !strings.HasPrefix(strings.TrimSpace(input), "/") {
		m.popup.Clear()
		return
	}
	cursor := m.cmdInput.Position()
	comps := m.completer.Complete(input, cursor)
	m.popup.SetCompletions(comps, currentWord(input, cursor))
}

// applyCompletion writes the highlighted candidate into the input, replacing
// the word under the cursor.
func (m Model) applyCompletion() (tea.Model, tea.Cmd) {
	if !m.popup.HasCompletions() {
		m.refreshCompletions()
	}
	selected := m.popup.GetSelectedCompletion()
	if selected == nil {
		return m, nil
	}

	input := m.cmdInput.Value()
	cursor := m.cmdInput.Position()
	start := completionStart(input, cursor)
	newValue := input[:start] + selected.Value

	// Commands that take arguments get a trailing space so the next tab
	// completes the first argument.
	if strings.HasPrefix(selected.Value, "/") {
		if cmd := m.completer.GetCommand(selected.Value); cmd != nil && len(cmd.Args) > 0 {
			newValue += " "
		}
	}

	m.cmdInput.SetValue(newValue)
	m.cmdInput.CursorEnd()
	m.refreshCompletions()
	return m, nil
}

// completionStart finds where the word under the cursor begins.
func completionStart(input string, cursor int) int {
	if cursor > len(input) {
		cursor = len(input)
	}
	for i := cursor - 1; i >= 0; i-- {
		if input[i] == ' ' {
			return i + 1
		}
	}
	return 0
}

// currentWord returns the partial word being completed, for match
// highlighting in the popup.
func currentWord(input string, cursor int) string {
	if cursor > len(input) {
		cursor = len(input)
	}
	return input[completionStart(input, cursor):cursor]
}

// =============================================================================
// EXECUTION
// =============================================================================

// executeCommandLine parses and runs the typed command, returning to list
// mode first so the outcome message lands on a settled UI.
func (m Model) executeCommandLine() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.cmdInput.Value())
	m.exitCommandMode()

	if input == "" || input == "/" {
		return m, nil
	}

	result := m.parser.Parse(input)
	if !result.IsCommand {
		return m, m.setErrorNotice("Commands start with /")
	}
	if result.Command == nil {
		m.errorBox.Show("Unknown command",
			fmt.Sprintf("%s is not a recognized command", result.CommandName),
			"Use /help to list available commands")
		return m, nil
	}
	if err := commands.ValidateArgs(result.Command, result.Args); err != nil {
		suggestion := "See /help for command usage"
		if result.Command.Usage != "" {
			suggestion = "Usage: " + result.Command.Usage
		}
		m.errorBox.Show("Invalid arguments", err.Error(), suggestion)
		return m, nil
	}
	if result.Command.Handler == nil {
		return m, nil
	}
	return m, result.Command.Handler(m.cmdCtx, result.Args)
}
