// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the promptforge TUI.

This package contains a collection of styled components built on top of the
Bubble Tea and Lip Gloss libraries. Components are plain view structs: they
hold display state, expose small Set* mutators, and render with View(). The
Bubble Tea update loop lives in the builder package; interactive overlays
additionally implement Update and emit messages for the builder to act on.

# Core Components

## Display Components

Header (header.go) - Application header with brand, model name, and state.
MessageList (messagelist.go) - Conversation cards with role accents.
PromptView (promptview.go) - Rendered prompt with per-span token highlighting.
StatusBar (statusbar.go) - Bottom status bar with state, options, and size stats.
CodeBlock (codeblock.go) - Syntax-highlighted code blocks using Chroma.

## Overlays and Popups

CompletionPopup (completion.go) - Tab completion popup for slash commands.
ModelPicker (modelpicker.go) - Fuzzy-searchable model selection overlay.
HelpOverlay (helpoverlay.go) - Glamour-rendered markdown help.
ErrorBanner (errorbox.go) - Command failure display with a recovery tip.

# Key Types

## Theme Integration

All components accept a *styles.Theme for consistent styling:

	theme := styles.NewTheme()
	pv := components.NewPromptView(theme)
	pv.SetWidth(80)
	pv.SetPrompt(prompt.Text, prompt.Spans)
	view := pv.View()

## Message Emission

Overlay components report choices through Bubble Tea messages rather than
callbacks. The model picker, for example, emits ModelPickedMsg when the user
confirms a selection:

	picker, cmd := picker.Update(msg)
	// cmd produces ModelPickedMsg{ID: "qwen3"} on enter

# Helper Functions

The package includes shared helper functions in helpers.go:
  - toStr() - Integer to string conversion without fmt
  - fmtNumber() - Thousand-separated number formatting
  - fmtPercent() - Percentage formatting with one decimal
  - truncateRunes() - Safe string truncation with Unicode support
*/
package components
