// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the promptforge TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/promptforge/internal/session"
	"github.com/jeranaias/promptforge/internal/ui/styles"
	"github.com/jeranaias/promptforge/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT - Bottom status bar
// =============================================================================

// Shortcut is a key hint shown on the right side of the wide layout.
type Shortcut struct {
	Key  string
	Desc string
}

// defaultShortcuts are the hints shown until the builder installs its own.
var defaultShortcuts = []Shortcut{
	{Key: "^E", Desc: "edit"},
	{Key: "^X", Desc: "export"},
	{Key: "?", Desc: "help"},
}

// StatusBar represents the bottom status bar. It shows the session state,
// the active model, the render option flags, and prompt size statistics,
// choosing a layout that fits the terminal width.
type StatusBar struct {
	ModelID   string       // Active model id
	ModelName string       // Active model display name
	State     session.State

	// Render options
	Thinking  bool
	GenPrompt bool
	Tools     bool

	// Prompt size
	Stats       session.Stats
	TokenBudget int // Context budget the gauge measures against

	Width         int
	ShowShortcuts bool
	Shortcuts     []Shortcut
	theme         *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		State:         session.StateGenerated,
		Thinking:      true,
		GenPrompt:     true,
		Tools:         false,
		TokenBudget:   4096,
		Width:         80,
		ShowShortcuts: true,
		Shortcuts:     defaultShortcuts,
		theme:         theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetModel updates the active model display.
func (s *StatusBar) SetModel(id, name string) {
	s.ModelID = id
	s.ModelName = name
}

// SetState updates the session state badge.
func (s *StatusBar) SetState(state session.State) {
	s.State = state
}

// SetOptions updates the render option flags.
func (s *StatusBar) SetOptions(thinking, genPrompt, tools bool) {
	s.Thinking = thinking
	s.GenPrompt = genPrompt
	s.Tools = tools
}

// SetStats updates the prompt size statistics.
func (s *StatusBar) SetStats(stats session.Stats) {
	s.Stats = stats
}

// SetTokenBudget sets the context budget the size gauge measures against.
// Zero disables the gauge.
func (s *StatusBar) SetTokenBudget(budget int) {
	s.TokenBudget = budget
}

// SetShortcuts replaces the key hints shown in the wide layout.
func (s *StatusBar) SetShortcuts(shortcuts []Shortcut) {
	s.Shortcuts = shortcuts
}

// View renders the status bar.
func (s *StatusBar) View() string {
	// Choose layout based on width
	if s.Width < 60 {
		return s.viewNarrow()
	}
	if s.Width < 100 {
		return s.viewMedium()
	}
	return s.viewWide()
}

// viewNarrow renders a compact status bar for narrow terminals.
// Format: GEN [TG-] 1,234t
func (s *StatusBar) viewNarrow() string {
	parts := []string{}

	parts = append(parts, s.getStateStyle().Render(s.stateAbbrev()))
	parts = append(parts, s.renderOptionFlagsCompact())
	parts = append(parts, lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render(fmtNumber(s.Stats.Tokens)+"t"))

	separator := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" ")
	result := strings.Join(parts, separator)

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Width(s.Width).
		Render(result)
}

// viewMedium renders a medium-width status bar.
// Format: GENERATED | qwen3 | think:on gen:on tools:off | 1,234 tok
func (s *StatusBar) viewMedium() string {
	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	parts := []string{}

	parts = append(parts, s.getStateStyle().Render(strings.ToUpper(string(s.State))))

	if label := s.modelLabel(); label != "" {
		modelStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
		parts = append(parts, modelStyle.Render(util.TruncateWidth(label, 15)))
	}

	parts = append(parts, s.renderOptionFlags())

	tokenStr := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render(fmtNumber(s.Stats.Tokens) + " tok")
	parts = append(parts, tokenStr)

	result := strings.Join(parts, separator)

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Padding(0, 1).
		Width(s.Width).
		Render(result)
}

// viewWide renders a full-featured status bar for wide terminals.
// Format: GENERATED | qwen3 | think:on gen:on tools:off   Size: [##--------] 1,234/4,096 (30.1%)   ^E edit ^X export ? help
func (s *StatusBar) viewWide() string {
	// Left section: state, model, options
	leftParts := []string{}

	leftParts = append(leftParts, s.getStateStyle().Render(strings.ToUpper(string(s.State))))

	if label := s.modelLabel(); label != "" {
		modelStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
		leftParts = append(leftParts, modelStyle.Render(util.TruncateWidth(label, 24)))
	}

	leftParts = append(leftParts, s.renderOptionFlags())

	msgStr := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render(fmtNumber(s.Stats.Messages) + " msgs")
	leftParts = append(leftParts, msgStr)

	leftSep := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")
	leftSection := strings.Join(leftParts, leftSep)

	// Center section: size gauge with counts
	centerSection := ""
	if s.TokenBudget > 0 {
		sizeLabel := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render("Size: ")
		centerSection = sizeLabel + s.renderSizeGauge() + " " + s.renderSizePercent()
	} else {
		centerSection = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render(fmtNumber(s.Stats.Tokens) + " tok, " + fmtNumber(s.Stats.Lines) + " lines")
	}

	// Right section: shortcuts
	rightSection := ""
	if s.ShowShortcuts {
		rightSection = s.renderShortcuts()
	}

	// Calculate spacing
	leftWidth := lipgloss.Width(leftSection)
	centerWidth := lipgloss.Width(centerSection)
	rightWidth := lipgloss.Width(rightSection)
	totalContent := leftWidth + centerWidth + rightWidth

	spacing := s.Width - totalContent - 4 // Account for padding
	if spacing < 4 {
		spacing = 4
	}

	leftSpace := strings.Repeat(" ", spacing/2)
	rightSpace := strings.Repeat(" ", spacing-spacing/2)

	result := leftSection + leftSpace + centerSection + rightSpace + rightSection

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(styles.Overlay).
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Padding(0, 1).
		Width(s.Width).
		Render(result)
}

// ==========================================================================
// HELPER RENDER METHODS
// ==========================================================================

// renderOptionFlags renders the option flags with labels.
// Format: think:on gen:on tools:off
func (s *StatusBar) renderOptionFlags() string {
	flags := []string{
		s.renderFlag("think", s.Thinking),
		s.renderFlag("gen", s.GenPrompt),
		s.renderFlag("tools", s.Tools),
	}
	return strings.Join(flags, " ")
}

// renderFlag renders one labeled on/off flag.
func (s *StatusBar) renderFlag(label string, on bool) string {
	labelStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	if on {
		return labelStyle.Render(label+":") + s.theme.OptionOn.Render("on")
	}
	return labelStyle.Render(label+":") + s.theme.OptionOff.Render("off")
}

// renderOptionFlagsCompact renders one character per option for narrow view.
// Format: [TG-] (T=thinking, G=generation prompt, F=tools; - when off)
func (s *StatusBar) renderOptionFlagsCompact() string {
	onStyle := s.theme.OptionOn
	offStyle := s.theme.OptionOff

	flag := func(ch string, on bool) string {
		if on {
			return onStyle.Render(ch)
		}
		return offStyle.Render("-")
	}

	return "[" + flag("T", s.Thinking) + flag("G", s.GenPrompt) + flag("F", s.Tools) + "]"
}

// renderSizeGauge renders the prompt size gauge.
// Format: [##--------] (10 blocks against the token budget)
func (s *StatusBar) renderSizeGauge() string {
	percent := s.sizePercent()

	filled := int(percent / 10)
	if filled > 10 {
		filled = 10
	}
	empty := 10 - filled

	// Color shifts as the prompt approaches the budget
	barColor := styles.Cyan
	if percent >= 90 {
		barColor = styles.Rose
	} else if percent >= 75 {
		barColor = styles.Amber
	} else if percent >= 50 {
		barColor = styles.Emerald
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor)
	emptyStyle := lipgloss.NewStyle().Foreground(styles.Overlay)

	filledPart := filledStyle.Render(strings.Repeat("#", filled))
	emptyPart := emptyStyle.Render(strings.Repeat("-", empty))

	return "[" + filledPart + emptyPart + "]"
}

// renderSizePercent renders the token counts with a percentage.
// Format: 1,234/4,096 (30.1%)
func (s *StatusBar) renderSizePercent() string {
	percent := s.sizePercent()

	color := styles.TextMuted
	if percent >= 90 {
		color = styles.Rose
	} else if percent >= 75 {
		color = styles.Amber
	}

	percentStyle := lipgloss.NewStyle().Foreground(color)

	return percentStyle.Render(
		fmtNumber(s.Stats.Tokens) + "/" + fmtNumber(s.TokenBudget) +
			" (" + fmtPercent(percent) + ")",
	)
}

// sizePercent returns how much of the token budget the prompt occupies.
func (s *StatusBar) sizePercent() float64 {
	if s.TokenBudget <= 0 {
		return 0
	}
	return float64(s.Stats.Tokens) / float64(s.TokenBudget) * 100
}

// renderShortcuts renders keyboard shortcut hints.
func (s *StatusBar) renderShortcuts() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted)

	hints := make([]string, 0, len(s.Shortcuts))
	for _, sc := range s.Shortcuts {
		hints = append(hints, keyStyle.Render(sc.Key)+descStyle.Render(sc.Desc))
	}

	return strings.Join(hints, " ")
}

// stateAbbrev returns the short state label for the narrow layout.
func (s *StatusBar) stateAbbrev() string {
	switch s.State {
	case session.StateGenerated:
		return "GEN"
	case session.StateEdited:
		return "EDIT"
	default:
		return "?"
	}
}

// getStateStyle returns the style for the session state badge.
func (s *StatusBar) getStateStyle() lipgloss.Style {
	switch s.State {
	case session.StateGenerated:
		return s.theme.StateGenerated
	case session.StateEdited:
		return s.theme.StateEdited
	default:
		return lipgloss.NewStyle().Foreground(styles.TextMuted)
	}
}

// modelLabel prefers the display name and falls back to the id.
func (s *StatusBar) modelLabel() string {
	if s.ModelName != "" {
		return s.ModelName
	}
	return s.ModelID
}
