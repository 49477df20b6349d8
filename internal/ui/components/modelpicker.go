// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the promptforge TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/promptforge/internal/ui/styles"
)

// =============================================================================
// MODEL PICKER COMPONENT - Fuzzy-filtered model selection overlay
// =============================================================================

// ModelPickedMsg is emitted when the user confirms a model in the picker.
type ModelPickedMsg struct {
	ID string
}

// ModelPickerClosedMsg is emitted when the picker is dismissed without a
// selection.
type ModelPickerClosedMsg struct{}

// ModelEntry is one selectable model in the picker.
type ModelEntry struct {
	ID   string // Registry id, the value emitted on selection
	Name string // Display name
	Meta string // Short annotation, such as the BOS token
}

// ModelPicker is a centered overlay for switching the active model. Typing
// filters the list with fuzzy matching; enter confirms, escape dismisses.
type ModelPicker struct {
	input    textinput.Model
	entries  []ModelEntry
	filtered []ScoredMatch
	selected int
	visible  bool

	currentID  string // Active model, marked with a star
	width      int
	maxVisible int
	theme      *styles.Theme
}

// NewModelPicker creates a new model picker.
func NewModelPicker(theme *styles.Theme) *ModelPicker {
	ti := textinput.New()
	ti.Placeholder = "Filter models..."
	ti.Prompt = "> "
	ti.CharLimit = 64

	return &ModelPicker{
		input:      ti,
		width:      56,
		maxVisible: 8,
		theme:      theme,
	}
}

// SetEntries replaces the selectable models.
func (p *ModelPicker) SetEntries(entries []ModelEntry) {
	p.entries = entries
	p.filter(p.input.Value())
}

// SetCurrent marks the active model id.
func (p *ModelPicker) SetCurrent(id string) {
	p.currentID = id
}

// SetWidth updates the picker width.
func (p *ModelPicker) SetWidth(width int) {
	if width < 36 {
		width = 36
	}
	p.width = width
}

// Show opens the picker with an empty filter.
func (p *ModelPicker) Show() {
	p.visible = true
	p.input.SetValue("")
	p.input.Focus()
	p.filter("")
}

// Hide dismisses the picker.
func (p *ModelPicker) Hide() {
	p.visible = false
	p.input.Blur()
}

// IsVisible reports whether the picker is showing.
func (p *ModelPicker) IsVisible() bool {
	return p.visible
}

// Update handles key events while the picker is open.
func (p *ModelPicker) Update(msg tea.Msg) tea.Cmd {
	if !p.visible {
		return nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "esc", "ctrl+c":
		p.Hide()
		return func() tea.Msg { return ModelPickerClosedMsg{} }

	case "enter":
		sel := p.Selected()
		if sel == nil {
			return nil
		}
		id := sel.ID
		p.Hide()
		return func() tea.Msg { return ModelPickedMsg{ID: id} }

	case "up", "ctrl+p":
		if p.selected > 0 {
			p.selected--
		}
		return nil

	case "down", "ctrl+n":
		if p.selected < len(p.filtered)-1 {
			p.selected++
		}
		return nil

	default:
		before := p.input.Value()
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		if p.input.Value() != before {
			p.filter(p.input.Value())
		}
		return cmd
	}
}

// Selected returns the entry under the cursor, or nil when the filter
// matches nothing.
func (p *ModelPicker) Selected() *ModelEntry {
	if p.selected < 0 || p.selected >= len(p.filtered) {
		return nil
	}
	return &p.entries[p.filtered[p.selected].Index]
}

// filter rebuilds the match list for the query. An empty query lists every
// entry in registration order.
func (p *ModelPicker) filter(query string) {
	targets := make([]string, len(p.entries))
	for i, e := range p.entries {
		targets[i] = e.ID + " " + e.Name
	}
	p.filtered = FuzzyFilter(query, targets)
	p.selected = 0
}

// View renders the picker box. The caller centers it over the main view.
func (p *ModelPicker) View() string {
	if !p.visible {
		return ""
	}

	innerWidth := p.width - 4

	title := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true).
		Render("Switch Model")

	rows := []string{title, p.input.View(), ""}

	if len(p.filtered) == 0 {
		rows = append(rows, lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Render("No models match"))
	}

	end := len(p.filtered)
	if end > p.maxVisible {
		end = p.maxVisible
	}
	start := 0
	if p.selected >= end {
		start = p.selected - p.maxVisible + 1
		end = start + p.maxVisible
		if end > len(p.filtered) {
			end = len(p.filtered)
		}
	}

	for i := start; i < end; i++ {
		rows = append(rows, p.renderEntry(i, innerWidth))
	}

	if remaining := len(p.filtered) - end; remaining > 0 {
		rows = append(rows, lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render("  ... "+toStr(remaining)+" more"))
	}

	rows = append(rows, "")
	rows = append(rows, lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render("enter select  esc cancel"))

	return p.theme.ModelList.
		Width(p.width).
		Render(strings.Join(rows, "\n"))
}

// renderEntry renders one model row.
func (p *ModelPicker) renderEntry(index, innerWidth int) string {
	match := p.filtered[index]
	entry := p.entries[match.Index]

	marker := "  "
	if index == p.selected {
		marker = lipgloss.NewStyle().Foreground(styles.Cyan).Render("> ")
	} else if entry.ID == p.currentID {
		marker = lipgloss.NewStyle().Foreground(styles.Purple).Render("* ")
	}

	id := p.renderID(entry.ID)

	name := ""
	if entry.Name != "" && entry.Name != entry.ID {
		name = " " + p.theme.ModelName.Render(entry.Name)
	}

	meta := ""
	if entry.Meta != "" {
		used := len(entry.ID) + len(entry.Name) + 4
		if room := innerWidth - used; room > 8 {
			meta = " " + p.theme.ModelMeta.Render(truncateRunes(entry.Meta, room))
		}
	}

	row := marker + id + name + meta
	if index == p.selected {
		return p.theme.ModelItemSelected.Width(innerWidth).Render(row)
	}
	return p.theme.ModelItem.Render(row)
}

// renderID renders a model id with the fuzzy-matched runes emphasized.
func (p *ModelPicker) renderID(id string) string {
	query := p.input.Value()
	if query == "" {
		return p.theme.ModelID.Render(id)
	}

	positions := HighlightMatch(query, id)
	if len(positions) == 0 {
		return p.theme.ModelID.Render(id)
	}

	posSet := make(map[int]bool, len(positions))
	for _, pos := range positions {
		posSet[pos] = true
	}

	var b strings.Builder
	for i, r := range []rune(id) {
		if posSet[i] {
			b.WriteString(p.theme.CompletionMatch.Render(string(r)))
		} else {
			b.WriteString(p.theme.ModelID.Render(string(r)))
		}
	}
	return b.String()
}
