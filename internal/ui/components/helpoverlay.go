// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the promptforge TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/promptforge/internal/ui/styles"
)

// =============================================================================
// HELP OVERLAY COMPONENT - Scrollable command reference
// =============================================================================

// HelpOverlay renders command help markdown in a centered, scrollable box.
// Markdown is rendered through glamour; if the renderer is unavailable the
// raw markdown is shown instead.
type HelpOverlay struct {
	visible      bool
	markdown     string
	rendered     []string // Rendered lines, ready to window
	scrollOffset int

	width    int
	height   int
	renderer *glamour.TermRenderer
	theme    *styles.Theme
}

// NewHelpOverlay creates a new help overlay.
func NewHelpOverlay(theme *styles.Theme) *HelpOverlay {
	h := &HelpOverlay{
		width:  80,
		height: 24,
		theme:  theme,
	}
	h.rebuildRenderer()
	return h
}

// SetSize updates the overlay dimensions and re-renders the content at the
// new wrap width.
func (h *HelpOverlay) SetSize(width, height int) {
	if width == h.width && height == h.height {
		return
	}
	h.width = width
	h.height = height
	h.rebuildRenderer()
	if h.markdown != "" {
		h.render()
	}
}

// Show opens the overlay with the given markdown.
func (h *HelpOverlay) Show(markdown string) {
	h.markdown = markdown
	h.scrollOffset = 0
	h.render()
	h.visible = true
}

// Hide dismisses the overlay.
func (h *HelpOverlay) Hide() {
	h.visible = false
}

// IsVisible reports whether the overlay is showing.
func (h *HelpOverlay) IsVisible() bool {
	return h.visible
}

// ScrollDown moves the window down one line.
func (h *HelpOverlay) ScrollDown() {
	maxOffset := len(h.rendered) - h.contentHeight()
	if maxOffset < 0 {
		maxOffset = 0
	}
	if h.scrollOffset < maxOffset {
		h.scrollOffset++
	}
}

// ScrollUp moves the window up one line.
func (h *HelpOverlay) ScrollUp() {
	if h.scrollOffset > 0 {
		h.scrollOffset--
	}
}

// PageDown moves the window down one page.
func (h *HelpOverlay) PageDown() {
	for i := 0; i < h.contentHeight(); i++ {
		h.ScrollDown()
	}
}

// PageUp moves the window up one page.
func (h *HelpOverlay) PageUp() {
	h.scrollOffset -= h.contentHeight()
	if h.scrollOffset < 0 {
		h.scrollOffset = 0
	}
}

// View renders the overlay box. The caller centers it over the main view.
func (h *HelpOverlay) View() string {
	if !h.visible {
		return ""
	}

	contentHeight := h.contentHeight()
	end := h.scrollOffset + contentHeight
	if end > len(h.rendered) {
		end = len(h.rendered)
	}
	start := h.scrollOffset
	if start > end {
		start = end
	}

	body := strings.Join(h.rendered[start:end], "\n")

	footer := "esc close  j/k scroll"
	if len(h.rendered) > contentHeight {
		footer += "  (" + toStr(start+1) + "-" + toStr(end) + "/" + toStr(len(h.rendered)) + ")"
	}

	box := body + "\n" + lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render(footer)

	return h.theme.HelpBox.
		Width(h.boxWidth()).
		Render(box)
}

// rebuildRenderer recreates the glamour renderer for the current width.
func (h *HelpOverlay) rebuildRenderer() {
	wrap := h.boxWidth() - 4
	if wrap < 40 {
		wrap = 40
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		h.renderer = nil
		return
	}
	h.renderer = renderer
}

// render converts the markdown to display lines, falling back to the raw
// text when glamour fails.
func (h *HelpOverlay) render() {
	out := h.markdown
	if h.renderer != nil {
		if rendered, err := h.renderer.Render(h.markdown); err == nil {
			out = rendered
		}
	}
	h.rendered = strings.Split(strings.TrimRight(out, "\n"), "\n")
}

// boxWidth returns the overlay box width for the current terminal size.
func (h *HelpOverlay) boxWidth() int {
	w := h.width - 8
	if w > 84 {
		w = 84
	}
	if w < 44 {
		w = 44
	}
	return w
}

// contentHeight returns how many rendered lines fit in the box.
func (h *HelpOverlay) contentHeight() int {
	ch := h.height - 6
	if ch < 5 {
		ch = 5
	}
	return ch
}
