// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the promptforge TUI.
package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/promptforge/internal/highlight"
)

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewTheme(t *testing.T) {
	theme := NewTheme()

	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}

	// Verify styles are initialized by rendering a test string
	renderedApp := theme.App.Render("test")
	if renderedApp == "" {
		t.Error("NewTheme() should initialize App style")
	}
}

func TestThemeInitStyles(t *testing.T) {
	theme := NewTheme()

	// Test that various style categories are initialized
	// We test by rendering and checking for non-empty output
	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Header", theme.Header},
		{"PaneFocused", theme.PaneFocused},
		{"PaneUnfocused", theme.PaneUnfocused},
		{"MessageCard", theme.MessageCard},
		{"InputContainer", theme.InputContainer},
		{"StatusBar", theme.StatusBar},
		{"ErrorBox", theme.ErrorBox},
		{"CodeBlock", theme.CodeBlock},
	}

	for _, s := range styles {
		// Verify each style is initialized by rendering a test string
		// An uninitialized style would just return the input unchanged
		rendered := s.style.Render("test")
		if rendered == "" {
			t.Errorf("%s style should be initialized", s.name)
		}
	}
}

// =============================================================================
// TOKEN STYLE TESTS
// =============================================================================

func TestThemeTokenStyleKnownClasses(t *testing.T) {
	theme := NewTheme()

	classes := []string{
		highlight.ClassBOSEOS,
		highlight.ClassRole,
		highlight.ClassThink,
		highlight.ClassDSML,
		highlight.ClassFunc,
	}

	for _, class := range classes {
		style := theme.TokenStyle(class)
		if !style.GetBold() {
			t.Errorf("TokenStyle(%q) should be bold", class)
		}
		if rendered := style.Render("<|im_start|>"); rendered == "" {
			t.Errorf("TokenStyle(%q) should render text", class)
		}
	}
}

func TestThemeTokenStylePlainText(t *testing.T) {
	theme := NewTheme()

	style := theme.TokenStyle("")
	if style.GetBold() {
		t.Error("TokenStyle(\"\") should not be bold for plain text")
	}
}

func TestThemeTokenStyleUnknownClassFallsBack(t *testing.T) {
	theme := NewTheme()

	got := theme.TokenStyle("custom_markup")
	want := theme.TokenStyle(highlight.ClassDSML)

	if got.GetForeground() != want.GetForeground() {
		t.Error("TokenStyle(unknown) should fall back to the markup token style")
	}
}

// =============================================================================
// THEME SIZE TESTS
// =============================================================================

func TestThemeSetSize(t *testing.T) {
	theme := NewTheme()

	tests := []struct {
		width  int
		height int
	}{
		{80, 24},
		{120, 40},
		{200, 60},
		{40, 10},
	}

	for _, tc := range tests {
		theme.SetSize(tc.width, tc.height)
		if theme.Width != tc.width {
			t.Errorf("SetSize(%d, %d) Width = %d, want %d", tc.width, tc.height, theme.Width, tc.width)
		}
		if theme.Height != tc.height {
			t.Errorf("SetSize(%d, %d) Height = %d, want %d", tc.width, tc.height, theme.Height, tc.height)
		}
	}
}

func TestThemeGetLayoutMode(t *testing.T) {
	theme := NewTheme()

	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{80, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{150, LayoutWide},
		{200, LayoutWide},
	}

	for _, tc := range tests {
		theme.SetSize(tc.width, 24)
		got := theme.GetLayoutMode()
		if got != tc.want {
			t.Errorf("GetLayoutMode() with width %d = %v, want %v", tc.width, got, tc.want)
		}
	}
}

// =============================================================================
// LAYOUT MODE TESTS
// =============================================================================

func TestLayoutModeConstants(t *testing.T) {
	// Verify layout mode constants have expected values
	if LayoutNarrow != 0 {
		t.Errorf("LayoutNarrow = %d, want 0", LayoutNarrow)
	}
	if LayoutMedium != 1 {
		t.Errorf("LayoutMedium = %d, want 1", LayoutMedium)
	}
	if LayoutWide != 2 {
		t.Errorf("LayoutWide = %d, want 2", LayoutWide)
	}
}

// =============================================================================
// ACCESSIBILITY STYLE TESTS
// =============================================================================

func TestThemeAccessibilityStyles(t *testing.T) {
	theme := NewTheme()

	// Test that accessibility styles are initialized
	accessibilityStyles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"SuccessStyle", theme.SuccessStyle},
		{"ErrorStyle", theme.ErrorStyle},
		{"WarningStyle", theme.WarningStyle},
		{"InfoStyle", theme.InfoStyle},
		{"LinkStyle", theme.LinkStyle},
	}

	for _, s := range accessibilityStyles {
		rendered := s.style.Render("test")
		if rendered == "" {
			t.Errorf("%s should be initialized", s.name)
		}
	}
}

// =============================================================================
// STATUS BAR STYLE TESTS
// =============================================================================

func TestThemeStatusBarStyles(t *testing.T) {
	theme := NewTheme()

	statusStyles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"StatusBar", theme.StatusBar},
		{"StatusBarWide", theme.StatusBarWide},
		{"StateGenerated", theme.StateGenerated},
		{"StateEdited", theme.StateEdited},
		{"OptionOn", theme.OptionOn},
		{"OptionOff", theme.OptionOff},
		{"ShortcutKey", theme.ShortcutKey},
		{"ShortcutDesc", theme.ShortcutDesc},
	}

	for _, s := range statusStyles {
		rendered := s.style.Render("test")
		if rendered == "" {
			t.Errorf("%s should be initialized", s.name)
		}
	}
}

func TestThemeStateBadgeStylesDiffer(t *testing.T) {
	theme := NewTheme()

	gen := theme.StateGenerated.GetForeground()
	edited := theme.StateEdited.GetForeground()

	if gen == edited {
		t.Error("generated and edited badges should use different colors")
	}
}

// =============================================================================
// INPUT STYLE TESTS
// =============================================================================

func TestThemeInputStyles(t *testing.T) {
	theme := NewTheme()

	inputStyles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"InputContainer", theme.InputContainer},
		{"InputPrompt", theme.InputPrompt},
		{"InputText", theme.InputText},
		{"InputPlaceholder", theme.InputPlaceholder},
		{"CharCount", theme.CharCount},
		{"CharCountWarning", theme.CharCountWarning},
		{"CharCountDanger", theme.CharCountDanger},
	}

	for _, s := range inputStyles {
		rendered := s.style.Render("test")
		if rendered == "" {
			t.Errorf("%s should be initialized", s.name)
		}
	}
}

// =============================================================================
// MESSAGE LIST STYLE TESTS
// =============================================================================

func TestThemeMessageStyles(t *testing.T) {
	theme := NewTheme()

	messageStyles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"MessageCard", theme.MessageCard},
		{"MessageCardSelected", theme.MessageCardSelected},
		{"MessageRole", theme.MessageRole},
		{"MessageMeta", theme.MessageMeta},
		{"MessageBody", theme.MessageBody},
		{"MessageReasoning", theme.MessageReasoning},
		{"MessageToolCall", theme.MessageToolCall},
	}

	for _, s := range messageStyles {
		rendered := s.style.Render("test")
		if rendered == "" {
			t.Errorf("%s should be initialized", s.name)
		}
	}
}

// =============================================================================
// MODEL LIST STYLE TESTS
// =============================================================================

func TestThemeModelListStyles(t *testing.T) {
	theme := NewTheme()

	modelStyles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"ModelList", theme.ModelList},
		{"ModelItem", theme.ModelItem},
		{"ModelItemSelected", theme.ModelItemSelected},
		{"ModelID", theme.ModelID},
		{"ModelName", theme.ModelName},
		{"ModelMeta", theme.ModelMeta},
	}

	for _, s := range modelStyles {
		rendered := s.style.Render("test")
		if rendered == "" {
			t.Errorf("%s should be initialized", s.name)
		}
	}
}

// =============================================================================
// ERROR BOX STYLE TESTS
// =============================================================================

func TestThemeErrorBoxStyles(t *testing.T) {
	theme := NewTheme()

	errorStyles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"ErrorBox", theme.ErrorBox},
		{"ErrorTitle", theme.ErrorTitle},
		{"ErrorMessage", theme.ErrorMessage},
		{"ErrorSuggestion", theme.ErrorSuggestion},
		{"ErrorTip", theme.ErrorTip},
	}

	for _, s := range errorStyles {
		rendered := s.style.Render("test")
		if rendered == "" {
			t.Errorf("%s should be initialized", s.name)
		}
	}
}

// =============================================================================
// COMPLETION POPUP STYLE TESTS
// =============================================================================

func TestThemeCompletionStyles(t *testing.T) {
	theme := NewTheme()

	completionStyles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"CompletionPopup", theme.CompletionPopup},
		{"CompletionItem", theme.CompletionItem},
		{"CompletionSelected", theme.CompletionSelected},
		{"CompletionMatch", theme.CompletionMatch},
	}

	for _, s := range completionStyles {
		rendered := s.style.Render("test")
		if rendered == "" {
			t.Errorf("%s should be initialized", s.name)
		}
	}
}

// =============================================================================
// HELP OVERLAY STYLE TESTS
// =============================================================================

func TestThemeHelpStyles(t *testing.T) {
	theme := NewTheme()

	helpStyles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"HelpBox", theme.HelpBox},
		{"HelpTitle", theme.HelpTitle},
		{"HelpCategory", theme.HelpCategory},
		{"HelpKey", theme.HelpKey},
		{"HelpDesc", theme.HelpDesc},
	}

	for _, s := range helpStyles {
		rendered := s.style.Render("test")
		if rendered == "" {
			t.Errorf("%s should be initialized", s.name)
		}
	}
}

// =============================================================================
// STATISTICS STYLE TESTS
// =============================================================================

func TestThemeStatisticsStyles(t *testing.T) {
	theme := NewTheme()

	statsStyles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"StatsBar", theme.StatsBar},
		{"StatsLabel", theme.StatsLabel},
		{"StatsValue", theme.StatsValue},
	}

	for _, s := range statsStyles {
		rendered := s.style.Render("test")
		if rendered == "" {
			t.Errorf("%s should be initialized", s.name)
		}
	}
}

// =============================================================================
// EDGE CASE TESTS
// =============================================================================

func TestThemeZeroSize(t *testing.T) {
	theme := NewTheme()
	theme.SetSize(0, 0)

	if theme.Width != 0 || theme.Height != 0 {
		t.Error("SetSize(0, 0) should set both dimensions to 0")
	}

	// GetLayoutMode should still work
	mode := theme.GetLayoutMode()
	if mode != LayoutNarrow {
		t.Errorf("GetLayoutMode() with width 0 = %v, want %v", mode, LayoutNarrow)
	}
}

func TestThemeMultipleInitialization(t *testing.T) {
	// Create multiple themes to ensure no global state issues
	theme1 := NewTheme()
	theme2 := NewTheme()

	if theme1 == theme2 {
		t.Error("NewTheme() should create distinct theme instances")
	}

	// Modify one theme
	theme1.SetSize(100, 50)
	theme2.SetSize(200, 80)

	if theme1.Width == theme2.Width {
		t.Error("Themes should have independent state")
	}
}
