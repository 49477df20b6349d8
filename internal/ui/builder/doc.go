// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package builder provides the main prompt workbench view for the promptforge TUI.

The builder package implements a complete terminal interface using the
Bubble Tea framework. It presents a conversation on the left, the rendered
prompt with token highlighting on the right, and drives both through
keyboard shortcuts and slash commands.

# Key Components

## Model (model.go)

The Model struct is the central Bubble Tea model that maintains all
workbench state:
  - The prompt session (conversation, render options, rendered prompt)
  - Pane focus and input mode tracking
  - Component state (message list, prompt pane, status bar, overlays)
  - The slash command registry, parser, and completer

## Update Loop (update.go)

Handles all Bubble Tea messages and user interactions:
  - Keyboard dispatch by mode (list, command line, editors, detail)
  - Command outcome messages (model switched, message added, export done)
  - Window resize and pane layout
  - Clipboard and definition-reload results

## Command Input (input.go)

The command line at the bottom of the screen:
  - Opens on ":" or "/", seeded with a leading slash
  - Tab completion backed by the commands.Completer
  - Parses, validates, and executes on enter

## View Rendering (view.go)

Rendering logic for the complete workbench:
  - Header, message list pane, prompt pane, status bar, command line
  - Message detail view with pretty-printed tool call arguments
  - Overlays: help (markdown), model picker, error banner

# Usage

Create a builder model and run it as a Bubble Tea program:

	reg := template.NewBuiltinRegistry()
	sess, err := session.New(reg)
	if err != nil {
		log.Fatal(err)
	}
	b := builder.New(builder.Options{Session: sess, Config: cfg})
	p := tea.NewProgram(b, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}

Definition-directory reloads arrive from outside the program loop: wire the
template watcher's callback to p.Send with a RegistryReloadedMsg.
*/
package builder
