// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package builder provides the main prompt workbench view for the promptforge TUI.
//
// This file defines keyboard bindings for the workbench. Bindings carry help
// text so the help overlay and status bar hints stay in sync with the keys
// that are actually wired.
package builder

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the workbench.
type KeyMap struct {
	// Navigation
	Up        key.Binding
	Down      key.Binding
	FocusNext key.Binding
	Detail    key.Binding

	// Conversation editing
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Role     key.Binding

	// Prompt actions
	EditPrompt  key.Binding
	ResetPrompt key.Binding
	Copy        key.Binding
	Export      key.Binding

	// Render options
	Thinking  key.Binding
	GenPrompt key.Binding
	Tools     key.Binding
	Model     key.Binding

	// Application
	Command key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings for the workbench.
// Uppercase variants act on the prompt where the lowercase key acts on the
// selected message (e edits a message, E edits the prompt text).
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "previous message"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next message"),
		),
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "switch pane"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "message detail"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add message"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit message"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete message"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "["),
			key.WithHelp("K/[", "move message up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "]"),
			key.WithHelp("J/]", "move message down"),
		),
		Role: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "cycle role"),
		),
		EditPrompt: key.NewBinding(
			key.WithKeys("E", "ctrl+e"),
			key.WithHelp("E/C-e", "edit prompt text"),
		),
		ResetPrompt: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "regenerate prompt"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy prompt"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "export prompt"),
		),
		Thinking: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle thinking"),
		),
		GenPrompt: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "toggle generation prompt"),
		),
		Tools: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "toggle tools block"),
		),
		Model: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "model picker"),
		),
		Command: key.NewBinding(
			key.WithKeys(":", "/"),
			key.WithHelp(": or /", "command line"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+q"),
			key.WithHelp("q/C-q", "quit"),
		),
	}
}

// =============================================================================
// KEY BINDING HELPERS
// =============================================================================

// ShortHelp returns the bindings shown in the status bar hint area.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.EditPrompt, k.Command, k.Help, k.Quit}
}

// FullHelp returns all bindings grouped for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Navigation
		{k.Up, k.Down, k.FocusNext, k.Detail},
		// Conversation
		{k.Add, k.Edit, k.Delete, k.MoveUp, k.MoveDown, k.Role},
		// Prompt
		{k.EditPrompt, k.ResetPrompt, k.Copy, k.Export},
		// Options
		{k.Thinking, k.GenPrompt, k.Tools, k.Model},
		// Application
		{k.Command, k.Help, k.Quit},
	}
}

// helpGroupTitles names the FullHelp groups, in the same order.
var helpGroupTitles = []string{
	"Navigation",
	"Conversation",
	"Prompt",
	"Options",
	"Application",
}

// KeysMarkdown renders the key map as a markdown section for the help
// overlay, one table row per binding.
func (k KeyMap) KeysMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# Keyboard\n\n")

	for i, group := range k.FullHelp() {
		title := "Other"
		if i < len(helpGroupTitles) {
			title = helpGroupTitles[i]
		}
		sb.WriteString("## " + title + "\n\n")
		for _, binding := range group {
			h := binding.Help()
			sb.WriteString("- `" + h.Key + "` - " + h.Desc + "\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
