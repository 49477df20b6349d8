// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the promptforge TUI.
package styles

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// SPINNER CONFIG TESTS
// =============================================================================

func TestSpinnerConfigs(t *testing.T) {
	spinners := []struct {
		name   string
		config SpinnerConfig
	}{
		{"LineSpinner", LineSpinner},
		{"DotsSpinner", DotsSpinner},
		{"PulseSpinner", PulseSpinner},
	}

	for _, s := range spinners {
		t.Run(s.name, func(t *testing.T) {
			if len(s.config.Frames) == 0 {
				t.Errorf("%s should have frames", s.name)
			}
			if s.config.FPS <= 0 {
				t.Errorf("%s FPS should be positive", s.name)
			}
		})
	}
}

func TestSpinnerConfigDuration(t *testing.T) {
	tests := []struct {
		name string
		fps  int
		want time.Duration
	}{
		{"12 FPS", 12, time.Second / 12},
		{"6 FPS", 6, time.Second / 6},
		{"10 FPS", 10, time.Second / 10},
		{"8 FPS", 8, time.Second / 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := SpinnerConfig{FPS: tc.fps}
			got := config.Duration()
			if got != tc.want {
				t.Errorf("Duration() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLineSpinnerFrames(t *testing.T) {
	if len(LineSpinner.Frames) != 4 {
		t.Errorf("LineSpinner should have 4 frames, got %d", len(LineSpinner.Frames))
	}

	// Verify expected frames
	expected := []string{"|", "/", "-", "\\"}
	for i, want := range expected {
		if LineSpinner.Frames[i] != want {
			t.Errorf("LineSpinner frame %d = %q, want %q", i, LineSpinner.Frames[i], want)
		}
	}
}

func TestDotsSpinnerFrames(t *testing.T) {
	if len(DotsSpinner.Frames) != 6 {
		t.Errorf("DotsSpinner should have 6 frames, got %d", len(DotsSpinner.Frames))
	}
}

// =============================================================================
// PROGRESS BAR TESTS
// =============================================================================

func TestProgressBarCharacters(t *testing.T) {
	if ProgressFull == "" {
		t.Error("ProgressFull should be defined")
	}
	if ProgressEmpty == "" {
		t.Error("ProgressEmpty should be defined")
	}
	if len(ProgressPartial) == 0 {
		t.Error("ProgressPartial should have characters")
	}
}

func TestRenderProgressBar(t *testing.T) {
	tests := []struct {
		width   int
		percent float64
	}{
		{10, 0.0},
		{10, 25.0},
		{10, 50.0},
		{10, 75.0},
		{10, 100.0},
		{20, 33.333},
		{30, 66.666},
	}

	for _, tc := range tests {
		result := RenderProgressBar(tc.width, tc.percent)
		// Result should be close to the requested width
		// (may vary slightly due to partial blocks)
		runeCount := len([]rune(result))
		if runeCount < tc.width-1 || runeCount > tc.width+1 {
			t.Errorf("RenderProgressBar(%d, %.1f) length = %d, expected ~%d",
				tc.width, tc.percent, runeCount, tc.width)
		}
	}
}

func TestRenderProgressBarEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		percent float64
	}{
		{"Zero width", 0, 50.0},
		{"Negative percent", 10, -10.0},
		{"Over 100 percent", 10, 150.0},
		{"Small width", 1, 50.0},
		{"Large width", 100, 50.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Should not panic
			result := RenderProgressBar(tc.width, tc.percent)
			_ = result
		})
	}
}

func TestRenderProgressBarBounds(t *testing.T) {
	// Test that negative percents are clamped to 0
	result := RenderProgressBar(10, -50.0)
	if !strings.Contains(result, ProgressEmpty) {
		t.Error("RenderProgressBar with negative percent should show empty bar")
	}

	// Test that >100% is clamped to 100
	result = RenderProgressBar(10, 200.0)
	if !strings.Contains(result, ProgressFull) {
		t.Error("RenderProgressBar with >100% should show full bar")
	}
}

func TestRenderProgressBarZeroWidth(t *testing.T) {
	result := RenderProgressBar(0, 50.0)
	if result != "" {
		t.Error("RenderProgressBar(0, ...) should return empty string")
	}
}

func TestRenderProgressBarNegativeWidth(t *testing.T) {
	// Should handle gracefully (treat as zero or minimal)
	result := RenderProgressBar(-10, 50.0)
	_ = result // Should not panic
}

// =============================================================================
// TREE CHARACTER TESTS
// =============================================================================

func TestTreeChars(t *testing.T) {
	chars := []struct {
		name  string
		value string
	}{
		{"Pipe", TreeChars.Pipe},
		{"Tee", TreeChars.Tee},
		{"Corner", TreeChars.Corner},
		{"Dash", TreeChars.Dash},
	}

	for _, c := range chars {
		if c.value == "" {
			t.Errorf("TreeChars.%s should not be empty", c.name)
		}
	}
}

func TestRenderTreeLine(t *testing.T) {
	// Test last item
	lastLine := RenderTreeLine(true)
	if !strings.Contains(lastLine, TreeChars.Corner) {
		t.Error("RenderTreeLine(true) should contain corner character")
	}

	// Test non-last item
	middleLine := RenderTreeLine(false)
	if !strings.Contains(middleLine, TreeChars.Tee) {
		t.Error("RenderTreeLine(false) should contain tee character")
	}

	// Both should contain dash
	if !strings.Contains(lastLine, TreeChars.Dash) {
		t.Error("RenderTreeLine(true) should contain dash")
	}
	if !strings.Contains(middleLine, TreeChars.Dash) {
		t.Error("RenderTreeLine(false) should contain dash")
	}
}
