// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the promptforge TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/promptforge/internal/session"
	"github.com/jeranaias/promptforge/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT - Title bar with promptforge branding
// =============================================================================

// Header represents the title bar component.
type Header struct {
	Title     string // Main title (default: "promptforge")
	ModelName string // Active model display name
	ModelID   string // Active model id
	State     session.State
	Width     int // Available width
	theme     *styles.Theme
}

// NewHeader creates a new Header component with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "promptforge",
		State: session.StateGenerated,
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetModel updates the active model display.
func (h *Header) SetModel(id, name string) {
	h.ModelID = id
	h.ModelName = name
}

// SetState updates the session state badge.
func (h *Header) SetState(state session.State) {
	h.State = state
}

// View renders the header component.
func (h *Header) View() string {
	// Ensure minimum width
	width := h.Width
	if width < 40 {
		width = 40
	}

	// Inner width accounts for borders and padding
	innerWidth := width - 6

	// Brand title with decorative accents
	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Cyan)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Purple)

	brand := accentStyle.Render("< ") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(" >")

	// Subtitle line with model and state
	subtitleParts := []string{}

	if name := h.modelLabel(); name != "" {
		modelStyle := lipgloss.NewStyle().
			Foreground(styles.TextSecondary)
		subtitleParts = append(subtitleParts, modelStyle.Render(name))
	}

	stateStyle := h.getStateStyle()
	stateBadge := stateStyle.Render("[" + strings.ToUpper(string(h.State)) + "]")
	subtitleParts = append(subtitleParts, stateBadge)

	subtitle := strings.Join(subtitleParts, " ")

	// Center the content
	brandLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Render(brand)

	subtitleLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Foreground(styles.TextMuted).
		Render(subtitle)

	content := lipgloss.JoinVertical(lipgloss.Center, brandLine, subtitleLine)

	headerBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Purple).
		Background(styles.SurfaceDim).
		Padding(0, 2).
		Width(width)

	return headerBox.Render(content)
}

// ViewCompact renders a compact single-line header for narrow terminals.
// Format: <promptforge> | model | [STATE]
func (h *Header) ViewCompact() string {
	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Cyan)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Purple)

	brand := accentStyle.Render("<") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(">")

	parts := []string{brand}

	if name := h.modelLabel(); name != "" {
		modelStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted)
		parts = append(parts, modelStyle.Render(name))
	}

	stateStyle := h.getStateStyle()
	parts = append(parts, stateStyle.Render("["+strings.ToUpper(string(h.State))+"]"))

	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	return strings.Join(parts, separator)
}

// modelLabel prefers the display name and falls back to the id.
func (h *Header) modelLabel() string {
	if h.ModelName != "" {
		return h.ModelName
	}
	return h.ModelID
}

// getStateStyle returns the appropriate style for the session state.
func (h *Header) getStateStyle() lipgloss.Style {
	switch h.State {
	case session.StateGenerated:
		return lipgloss.NewStyle().
			Foreground(styles.StateGeneratedColor).
			Bold(true)
	case session.StateEdited:
		return lipgloss.NewStyle().
			Foreground(styles.StateEditedColor).
			Bold(true)
	default:
		return lipgloss.NewStyle().
			Foreground(styles.TextMuted)
	}
}
