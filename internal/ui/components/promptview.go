// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the promptforge TUI.
package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/promptforge/internal/highlight"
	"github.com/jeranaias/promptforge/internal/session"
	"github.com/jeranaias/promptforge/internal/ui/styles"
)

// =============================================================================
// PROMPT VIEW COMPONENT - Highlighted prompt text pane
// =============================================================================

// PromptView renders the assembled prompt with token-class coloring. Spans
// carry byte offsets into the text; bytes outside any classified span render
// in the plain prompt style. Styling is applied per line so the output stays
// ANSI-balanced inside a viewport.
type PromptView struct {
	Text       string
	Spans      []highlight.Span
	Width      int
	ShowGutter bool // Line number column on the left
	theme      *styles.Theme
}

// NewPromptView creates a new PromptView component.
func NewPromptView(theme *styles.Theme) *PromptView {
	return &PromptView{
		Width:      80,
		ShowGutter: true,
		theme:      theme,
	}
}

// SetWidth updates the view width.
func (p *PromptView) SetWidth(width int) {
	p.Width = width
}

// SetPrompt replaces the displayed prompt.
func (p *PromptView) SetPrompt(prompt session.RenderedPrompt) {
	p.Text = prompt.Text
	p.Spans = prompt.Spans
}

// View renders the highlighted prompt.
func (p *PromptView) View() string {
	if p.Text == "" {
		return p.emptyView()
	}

	lines := p.styledLines()

	gutterWidth := 0
	if p.ShowGutter {
		gutterWidth = len(strconv.Itoa(len(lines))) + 1
	}

	contentWidth := p.Width - gutterWidth
	if contentWidth < 10 {
		contentWidth = 10
	}

	gutterStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Width(gutterWidth).
		Align(lipgloss.Right)
	wrapStyle := lipgloss.NewStyle().Width(contentWidth)

	rendered := make([]string, 0, len(lines))
	for i, line := range lines {
		wrapped := wrapStyle.Render(line)

		if !p.ShowGutter {
			rendered = append(rendered, wrapped)
			continue
		}

		// Continuation rows of a wrapped line get a blank gutter cell.
		height := lipgloss.Height(wrapped)
		gutterRows := make([]string, height)
		gutterRows[0] = gutterStyle.Render(strconv.Itoa(i+1) + " ")
		for j := 1; j < height; j++ {
			gutterRows[j] = gutterStyle.Render(" ")
		}
		gutter := strings.Join(gutterRows, "\n")

		rendered = append(rendered, lipgloss.JoinHorizontal(lipgloss.Top, gutter, wrapped))
	}

	return strings.Join(rendered, "\n")
}

// LineCount returns the number of logical lines in the prompt.
func (p *PromptView) LineCount() int {
	if p.Text == "" {
		return 0
	}
	return strings.Count(p.Text, "\n") + 1
}

// styledLines splits the prompt into logical lines with per-class styling.
// Each span segment is styled independently and re-split at newlines so no
// escape sequence crosses a line boundary.
func (p *PromptView) styledLines() []string {
	plain := p.theme.TokenStyle("")

	lines := []string{}
	var cur strings.Builder

	emit := func(seg string, style lipgloss.Style) {
		for {
			idx := strings.IndexByte(seg, '\n')
			if idx < 0 {
				if seg != "" {
					cur.WriteString(style.Render(seg))
				}
				return
			}
			if idx > 0 {
				cur.WriteString(style.Render(seg[:idx]))
			}
			lines = append(lines, cur.String())
			cur.Reset()
			seg = seg[idx+1:]
		}
	}

	pos := 0
	for _, sp := range p.Spans {
		if sp.Start < 0 || sp.End > len(p.Text) || sp.Start >= sp.End {
			continue
		}
		if sp.Start > pos {
			emit(p.Text[pos:sp.Start], plain)
		}
		emit(p.Text[sp.Start:sp.End], p.theme.TokenStyle(sp.Class))
		pos = sp.End
	}
	if pos < len(p.Text) {
		emit(p.Text[pos:], plain)
	}

	lines = append(lines, cur.String())
	return lines
}

// emptyView renders the placeholder shown before any prompt exists.
func (p *PromptView) emptyView() string {
	hint := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Render("Prompt is empty. Add a message with /add or press 'a'.")

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(hint)
}
