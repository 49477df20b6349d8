// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
//
// This package handles parsing and executing slash commands in the prompt
// builder, providing autocomplete and command registration. Handlers return
// bubbletea commands whose messages the application translates into session
// mutations and UI updates.
//
// # Key Types
//
//   - Registry: Command registry with all available commands
//   - Command: One command with its arguments and handler
//   - ParseResult: Parsed command with name and arguments
//   - Completer: Tab completion for commands and arguments
//   - Context: Services handlers may use (session, history, config)
//
// # Built-in Commands
//
//   - /model: Switch the active model template
//   - /thinking, /genprompt, /tools: Toggle render options
//   - /add, /remove, /move, /role: Edit the conversation
//   - /reset: Regenerate the prompt after a manual edit
//   - /save, /load, /sessions: Prompt history
//   - /export, /copy: Get the prompt out
//
// # Usage
//
// Parse and execute a command:
//
//	result := parser.Parse(input)
//	if result.IsCommand && result.Command != nil {
//	    return result.Command.Handler(ctx, result.Args)
//	}
//
// Get completions:
//
//	completions := completer.Complete("/mo", 3)
//	// Returns /model, /models, /move
package commands
