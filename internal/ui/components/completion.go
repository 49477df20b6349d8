// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the promptforge TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/promptforge/internal/commands"
	"github.com/jeranaias/promptforge/internal/ui/styles"
)

// =============================================================================
// COMPLETION POPUP COMPONENT
// =============================================================================

// CompletionPopup displays a popup with completion suggestions for the
// command line. The portion already typed is highlighted inside each value,
// and the entry marked current (the active model, for instance) gets a star.
type CompletionPopup struct {
	completions []commands.Completion
	prefix      string
	selected    int
	maxVisible  int
	width       int
	theme       *styles.Theme
}

// NewCompletionPopup creates a new completion popup.
func NewCompletionPopup(theme *styles.Theme) *CompletionPopup {
	return &CompletionPopup{
		completions: nil,
		selected:    0,
		maxVisible:  8, // Show up to 8 completions at once
		width:       50,
		theme:       theme,
	}
}

// SetCompletions sets the completions to display. The prefix is the partial
// word being completed.
func (c *CompletionPopup) SetCompletions(completions []commands.Completion, prefix string) {
	c.completions = completions
	c.prefix = prefix
	c.selected = 0
}

// GetCompletions returns the current completions.
func (c *CompletionPopup) GetCompletions() []commands.Completion {
	return c.completions
}

// SetSelected sets the selected index.
func (c *CompletionPopup) SetSelected(index int) {
	if index < 0 || index >= len(c.completions) {
		return
	}
	c.selected = index
}

// GetSelected returns the selected index.
func (c *CompletionPopup) GetSelected() int {
	return c.selected
}

// Next selects the next completion.
func (c *CompletionPopup) Next() {
	if len(c.completions) == 0 {
		return
	}
	c.selected = (c.selected + 1) % len(c.completions)
}

// Prev selects the previous completion.
func (c *CompletionPopup) Prev() {
	if len(c.completions) == 0 {
		return
	}
	c.selected--
	if c.selected < 0 {
		c.selected = len(c.completions) - 1
	}
}

// GetSelectedCompletion returns the currently selected completion, or nil.
func (c *CompletionPopup) GetSelectedCompletion() *commands.Completion {
	if c.selected < 0 || c.selected >= len(c.completions) {
		return nil
	}
	return &c.completions[c.selected]
}

// HasCompletions returns true if there are completions to show.
func (c *CompletionPopup) HasCompletions() bool {
	return len(c.completions) > 0
}

// Clear clears all completions.
func (c *CompletionPopup) Clear() {
	c.completions = nil
	c.prefix = ""
	c.selected = 0
}

// SetWidth sets the popup width.
func (c *CompletionPopup) SetWidth(width int) {
	c.width = width
}

// SetMaxVisible sets the maximum number of visible completions.
func (c *CompletionPopup) SetMaxVisible(max int) {
	c.maxVisible = max
}

// View renders the completion popup.
func (c *CompletionPopup) View() string {
	if len(c.completions) == 0 {
		return ""
	}

	// Calculate visible range (scrolling window)
	start := 0
	end := len(c.completions)

	if len(c.completions) > c.maxVisible {
		// Center the selected item in the window
		start = c.selected - c.maxVisible/2
		if start < 0 {
			start = 0
		}
		end = start + c.maxVisible
		if end > len(c.completions) {
			end = len(c.completions)
			start = end - c.maxVisible
			if start < 0 {
				start = 0
			}
		}
	}

	// Build completion items
	var items []string
	for i := start; i < end; i++ {
		items = append(items, c.renderCompletionItem(c.completions[i], i == c.selected))
	}

	content := strings.Join(items, "\n")

	if start > 0 || end < len(c.completions) {
		content += "\n" + c.renderCounter(start, end)
	}

	boxStyle := c.theme.CompletionPopup.
		Width(c.width).
		MaxWidth(c.width)

	return boxStyle.Render(content)
}

// renderCompletionItem renders a single completion item.
func (c *CompletionPopup) renderCompletionItem(comp commands.Completion, isSelected bool) string {
	value := comp.Display
	if value == "" {
		value = comp.Value
	}

	// Truncate if needed
	valueRunes := []rune(value)
	if len(valueRunes) > 20 {
		value = string(valueRunes[:17]) + "..."
	}

	// Truncate description
	desc := comp.Description
	descRunes := []rune(desc)
	maxDescLen := c.width - 26
	if maxDescLen < 3 {
		maxDescLen = 3
	}
	if len(descRunes) > maxDescLen {
		desc = string(descRunes[:maxDescLen-3]) + "..."
	}

	// Indicator: selection cursor, or a star for the current entry
	indicator := " "
	if isSelected {
		indicator = ">"
	} else if comp.IsCurrent {
		indicator = "*"
	}

	indicatorStyle := lipgloss.NewStyle().
		Width(2).
		Foreground(styles.Cyan)

	valueCell := lipgloss.NewStyle().Width(20)
	descStyle := lipgloss.NewStyle().
		Width(c.width - 26).
		Foreground(styles.TextSecondary)

	var renderedValue string
	if isSelected {
		renderedValue = c.theme.CompletionSelected.Render(value)
		descStyle = descStyle.Foreground(styles.TextPrimary)
	} else {
		renderedValue = c.renderMatched(value)
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		indicatorStyle.Render(indicator),
		valueCell.Render(renderedValue),
		descStyle.Render(desc),
	)
}

// renderMatched highlights the typed prefix inside a completion value.
func (c *CompletionPopup) renderMatched(value string) string {
	base := c.theme.CompletionItem
	if c.prefix == "" || !strings.HasPrefix(strings.ToLower(value), strings.ToLower(c.prefix)) {
		return base.Render(value)
	}
	n := len(c.prefix)
	return c.theme.CompletionMatch.Render(value[:n]) + base.Render(value[n:])
}

// renderCounter renders the position indicator under a scrolled window.
func (c *CompletionPopup) renderCounter(start, end int) string {
	counterStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted)

	return counterStyle.Render(
		toStr(start+1) + "-" + toStr(end) + " of " + toStr(len(c.completions)))
}

// ViewCompact renders a compact single-line completion indicator.
// Shows "Tab: N completions" or "Tab: complete X" for single completion.
func (c *CompletionPopup) ViewCompact() string {
	if len(c.completions) == 0 {
		return ""
	}

	style := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)

	if len(c.completions) == 1 {
		value := c.completions[0].Display
		if value == "" {
			value = c.completions[0].Value
		}
		return style.Render("Tab: complete \"" + value + "\"")
	}

	return style.Render("Tab: " + toStr(len(c.completions)) + " completions")
}

// ViewInline renders completions inline (suitable for bottom of input).
func (c *CompletionPopup) ViewInline() string {
	if len(c.completions) == 0 {
		return ""
	}

	// Show first few completions inline
	maxInline := 3
	if len(c.completions) < maxInline {
		maxInline = len(c.completions)
	}

	var parts []string
	for i := 0; i < maxInline; i++ {
		comp := c.completions[i]
		value := comp.Display
		if value == "" {
			value = comp.Value
		}

		style := lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

		if i == c.selected {
			style = style.
				Foreground(styles.Cyan).
				Bold(true)
		}

		parts = append(parts, style.Render(value))
	}

	if len(c.completions) > maxInline {
		moreStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted)
		parts = append(parts, moreStyle.Render("..."+toStr(len(c.completions)-maxInline)+" more"))
	}

	return strings.Join(parts, " | ")
}
