// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the prompt-building state machine: one conversation,
// one active model, the render options, and the current prompt text with
// its highlight spans.
//
// The prompt is always in one of two states. Generated text tracks the
// conversation: any mutation of messages, options, or model re-renders and
// re-highlights before the mutating call returns. Edited text is a manual
// override: it is re-highlighted but never regenerated until a mutation or
// an explicit Reset discards it. A failed render (possible only with a
// malformed custom definition) keeps the last good prompt and surfaces the
// error through LastError.
//
// # Key Types
//
//   - Session: Mutex-guarded state machine, one per user session
//   - RenderedPrompt: Prompt text plus highlight spans
//   - State: StateGenerated or StateEdited
//   - Stats, Status: Snapshots for the metrics bar and status bar
//
// # Usage
//
// Create a session and read the first prompt:
//
//	sess, err := session.New(template.NewBuiltinRegistry())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	prompt := sess.Prompt()
//
// Mutate and observe the regenerated text:
//
//	sess.SetModel("glm-4.5")
//	sess.SetThinking(false)
//	prompt = sess.Prompt()
package session
