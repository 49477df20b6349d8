// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the promptforge TUI.
package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/promptforge/internal/session"
	"github.com/jeranaias/promptforge/internal/ui/styles"
)

func TestHeaderView(t *testing.T) {
	h := NewHeader(styles.NewTheme())
	h.SetWidth(80)
	h.SetModel("qwen3", "Qwen3")

	view := h.View()

	if !strings.Contains(view, "promptforge") {
		t.Error("header should contain the product name")
	}
	if !strings.Contains(view, "Qwen3") {
		t.Error("header should show the model display name")
	}
	if !strings.Contains(view, "GENERATED") {
		t.Error("header should show the generated state by default")
	}
}

func TestHeaderStateBadge(t *testing.T) {
	h := NewHeader(styles.NewTheme())
	h.SetWidth(80)
	h.SetState(session.StateEdited)

	view := h.View()
	if !strings.Contains(view, "EDITED") {
		t.Error("header should show EDITED after state change")
	}
	if strings.Contains(view, "GENERATED") {
		t.Error("header should not show GENERATED in edited state")
	}
}

func TestHeaderFallsBackToModelID(t *testing.T) {
	h := NewHeader(styles.NewTheme())
	h.SetWidth(80)
	h.SetModel("glm-4.5", "")

	if !strings.Contains(h.View(), "glm-4.5") {
		t.Error("header should fall back to the model id when no display name is set")
	}
}

func TestHeaderViewCompact(t *testing.T) {
	h := NewHeader(styles.NewTheme())
	h.SetModel("deepseek-v3.1", "DeepSeek V3.1")
	h.SetState(session.StateGenerated)

	compact := h.ViewCompact()

	if strings.Contains(compact, "\n") {
		t.Error("compact header must be a single line")
	}
	if !strings.Contains(compact, "DeepSeek V3.1") {
		t.Error("compact header should show the model name")
	}
	if !strings.Contains(compact, "GENERATED") {
		t.Error("compact header should show the state")
	}
}
