// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the promptforge TUI.
package components

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/jeranaias/promptforge/internal/highlight"
	"github.com/jeranaias/promptforge/internal/session"
	"github.com/jeranaias/promptforge/internal/template"
	"github.com/jeranaias/promptforge/internal/ui/styles"
)

// =============================================================================
// ERROR BANNER COMPONENT - Dismissible error display
// =============================================================================

// ErrorBanner shows the most recent error with actionable suggestions. It
// stays up until dismissed or replaced.
type ErrorBanner struct {
	Title       string
	Message     string
	Suggestions []string
	Width       int
	theme       *styles.Theme
}

// NewErrorBanner creates a new error banner.
func NewErrorBanner(theme *styles.Theme) *ErrorBanner {
	return &ErrorBanner{
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the banner width.
func (e *ErrorBanner) SetWidth(width int) {
	e.Width = width
}

// ShowError displays an error with suggestions derived from its type.
func (e *ErrorBanner) ShowError(err error) {
	if err == nil {
		return
	}
	e.Title = "Error"
	e.Message = err.Error()
	e.Suggestions = SuggestFor(err)
}

// Show displays an explicit title, message, and suggestions.
func (e *ErrorBanner) Show(title, message string, suggestions ...string) {
	e.Title = title
	e.Message = message
	e.Suggestions = suggestions
}

// Clear dismisses the banner.
func (e *ErrorBanner) Clear() {
	e.Title = ""
	e.Message = ""
	e.Suggestions = nil
}

// IsVisible reports whether the banner has content.
func (e *ErrorBanner) IsVisible() bool {
	return e.Message != ""
}

// View renders the banner.
func (e *ErrorBanner) View() string {
	if !e.IsVisible() {
		return ""
	}

	innerWidth := e.Width - 6
	if innerWidth < 20 {
		innerWidth = 20
	}

	lines := []string{
		e.theme.ErrorTitle.Render(styles.StatusIndicators.Error + " " + e.Title),
		e.theme.ErrorMessage.Width(innerWidth).Render(e.Message),
	}

	for _, s := range e.Suggestions {
		lines = append(lines, e.theme.ErrorSuggestion.Render("  - "+s))
	}

	lines = append(lines, e.theme.ErrorTip.Render("esc to dismiss"))

	return e.theme.ErrorBox.Width(e.Width - 2).Render(strings.Join(lines, "\n"))
}

// =============================================================================
// SUGGESTION MAPPING
// =============================================================================

// SuggestFor returns next-step suggestions for known error types.
func SuggestFor(err error) []string {
	var templateErr *template.TemplateError
	var patternErr *highlight.PatternError
	var pathErr *fs.PathError

	switch {
	case errors.Is(err, template.ErrUnknownModel):
		return []string{
			"Run /models to list registered models",
			"Check definition files in the models directory",
		}

	case errors.Is(err, session.ErrNoSuchMessage):
		return []string{
			"Message indexes start at 0; the list shows each one",
		}

	case errors.Is(err, session.ErrLastMessage):
		return []string{
			"Use /new to start an empty conversation instead",
		}

	case errors.As(err, &templateErr):
		return []string{
			"The model definition has a malformed program",
			"Fix the definition file and restart, or switch models with /model",
		}

	case errors.As(err, &patternErr):
		return []string{
			"A highlight pattern failed to compile",
			"Check the patterns table in the definition file",
		}

	case errors.As(err, &pathErr):
		return []string{
			"Check that the path exists and is writable",
		}
	}

	// Unstructured errors get a generic pointer to help. Substring checks
	// catch wrapped errors from the export and history layers.
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "format") {
		return []string{"Supported export formats: text, markdown, json, html"}
	}
	if strings.Contains(msg, "history") || strings.Contains(msg, "database") {
		return []string{"Saved prompts live in the history database; check history.path in config"}
	}

	return []string{"See /help for command usage"}
}
