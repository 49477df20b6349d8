// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the promptforge TUI.
package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/promptforge/internal/ui/styles"
)

const testHelpMarkdown = `# Commands

## Prompt

- ` + "`/model`" + ` switches the active model
- ` + "`/export`" + ` writes the prompt to disk
`

func TestHelpOverlayShowHide(t *testing.T) {
	h := NewHelpOverlay(styles.NewTheme())

	if h.IsVisible() {
		t.Error("overlay should start hidden")
	}
	if h.View() != "" {
		t.Error("hidden overlay should render nothing")
	}

	h.Show(testHelpMarkdown)
	if !h.IsVisible() {
		t.Error("overlay should be visible after Show")
	}

	h.Hide()
	if h.IsVisible() {
		t.Error("overlay should hide after Hide")
	}
}

func TestHelpOverlayRendersMarkdown(t *testing.T) {
	h := NewHelpOverlay(styles.NewTheme())
	h.SetSize(100, 40)
	h.Show(testHelpMarkdown)

	view := h.View()

	// Glamour output varies by style, but the words must survive
	for _, want := range []string{"Commands", "/model", "/export"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if !strings.Contains(view, "esc close") {
		t.Error("view should show the dismiss hint")
	}
}

func TestHelpOverlayScrollClamps(t *testing.T) {
	h := NewHelpOverlay(styles.NewTheme())
	h.SetSize(80, 12)

	var b strings.Builder
	b.WriteString("# Long\n\n")
	for i := 0; i < 60; i++ {
		b.WriteString("- entry\n")
	}
	h.Show(b.String())

	h.ScrollUp() // At top already; must stay
	if h.scrollOffset != 0 {
		t.Errorf("scrollOffset after ScrollUp at top = %d, want 0", h.scrollOffset)
	}

	h.ScrollDown()
	if h.scrollOffset != 1 {
		t.Errorf("scrollOffset after ScrollDown = %d, want 1", h.scrollOffset)
	}

	// Scrolling far past the end must clamp
	for i := 0; i < 500; i++ {
		h.ScrollDown()
	}
	maxOffset := len(h.rendered) - h.contentHeight()
	if h.scrollOffset != maxOffset {
		t.Errorf("scrollOffset after overscroll = %d, want %d", h.scrollOffset, maxOffset)
	}

	h.PageUp()
	h.PageUp()
	for i := 0; i < 50; i++ {
		h.PageUp()
	}
	if h.scrollOffset != 0 {
		t.Errorf("scrollOffset after repeated PageUp = %d, want 0", h.scrollOffset)
	}
}

func TestHelpOverlayFallbackWithoutRenderer(t *testing.T) {
	h := NewHelpOverlay(styles.NewTheme())
	h.renderer = nil
	h.Show("# Raw heading")

	if !strings.Contains(h.View(), "# Raw heading") {
		t.Error("overlay should fall back to raw markdown when the renderer is unavailable")
	}
}

func TestHelpOverlayResizeRerenders(t *testing.T) {
	h := NewHelpOverlay(styles.NewTheme())
	h.Show(testHelpMarkdown)
	h.SetSize(60, 20)

	if len(h.rendered) == 0 {
		t.Error("resize should keep rendered content")
	}
	if !strings.Contains(h.View(), "/model") {
		t.Error("content should survive a resize")
	}
}
