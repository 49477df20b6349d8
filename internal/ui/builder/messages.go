// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package builder provides the main prompt workbench view for the promptforge TUI.
//
// This file defines the builder's own Bubble Tea messages and the commands
// that produce them. Command outcome messages (model switched, message
// added, export finished) live in the commands package; everything here is
// workbench plumbing.
package builder

import (
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/promptforge/internal/template"
)

// =============================================================================
// EXTERNAL MESSAGES
// =============================================================================

// RegistryReloadedMsg delivers a rebuilt model registry after the
// definitions directory changed. The watcher runs outside the program loop,
// so main wires its callback to Program.Send with this message.
type RegistryReloadedMsg struct {
	Registry *template.Registry
}

// =============================================================================
// INTERNAL MESSAGES
// =============================================================================

// clipboardResultMsg reports the outcome of a clipboard write.
type clipboardResultMsg struct {
	bytes int
	err   error
}

// noticeExpiredMsg clears the transient status notice. The id guards
// against an old timer wiping a newer notice.
type noticeExpiredMsg struct {
	id int
}

// =============================================================================
// COMMAND CONSTRUCTORS
// =============================================================================

// noticeTTL is how long a transient notice stays on screen.
const noticeTTL = 4 * time.Second

// copyToClipboardCmd writes text to the system clipboard off the update
// loop and reports the result.
func copyToClipboardCmd(text string) tea.Cmd {
	return func() tea.Msg {
		err := clipboard.WriteAll(text)
		return clipboardResultMsg{bytes: len(text), err: err}
	}
}

// expireNoticeCmd schedules the notice with the given id to be cleared.
func expireNoticeCmd(id int) tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}
