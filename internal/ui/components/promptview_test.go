// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the promptforge TUI.
package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/promptforge/internal/highlight"
	"github.com/jeranaias/promptforge/internal/session"
	"github.com/jeranaias/promptforge/internal/ui/styles"
)

func TestPromptViewEmpty(t *testing.T) {
	pv := NewPromptView(styles.NewTheme())

	view := pv.View()
	if !strings.Contains(view, "Prompt is empty") {
		t.Error("empty prompt should show the placeholder hint")
	}
}

func TestPromptViewRendersAllBytes(t *testing.T) {
	pv := NewPromptView(styles.NewTheme())
	pv.SetWidth(80)

	text := "<s>system\nYou are helpful.\nuser\nHello!"
	pv.SetPrompt(session.RenderedPrompt{
		Text: text,
		Spans: []highlight.Span{
			{Start: 0, End: 3, Class: highlight.ClassBOSEOS},
			{Start: 3, End: 9, Class: highlight.ClassRole},
		},
	})

	view := pv.View()

	// Every piece of the text must appear, classified or not
	for _, want := range []string{"<s>", "system", "You are helpful.", "user", "Hello!"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPromptViewStyledLines(t *testing.T) {
	pv := NewPromptView(styles.NewTheme())

	pv.SetPrompt(session.RenderedPrompt{
		Text: "<s>role\nbody text",
		Spans: []highlight.Span{
			{Start: 0, End: 3, Class: highlight.ClassBOSEOS},
			{Start: 3, End: 7, Class: highlight.ClassRole},
			{Start: 7, End: 17},
		},
	})

	lines := pv.styledLines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "role") {
		t.Errorf("first line should hold the role text, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "body text") {
		t.Errorf("second line should hold the body, got %q", lines[1])
	}
}

func TestPromptViewNoSpans(t *testing.T) {
	pv := NewPromptView(styles.NewTheme())
	pv.SetWidth(40)
	pv.SetPrompt(session.RenderedPrompt{Text: "plain prompt text"})

	if !strings.Contains(pv.View(), "plain prompt text") {
		t.Error("unclassified text should still render")
	}
}

func TestPromptViewGutter(t *testing.T) {
	pv := NewPromptView(styles.NewTheme())
	pv.SetWidth(60)
	pv.SetPrompt(session.RenderedPrompt{Text: "one\ntwo\nthree"})

	view := pv.View()
	for _, num := range []string{"1", "2", "3"} {
		if !strings.Contains(view, num) {
			t.Errorf("gutter should contain line number %s", num)
		}
	}
	if strings.HasPrefix(view, "one") {
		t.Error("gutter should precede the first line's text")
	}

	pv.ShowGutter = false
	first := strings.Split(pv.View(), "\n")[0]
	if !strings.HasPrefix(first, "one") {
		t.Errorf("without a gutter the text should start the line, got %q", first)
	}
}

func TestPromptViewLineCount(t *testing.T) {
	pv := NewPromptView(styles.NewTheme())

	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"one line", 1},
		{"two\nlines", 2},
		{"trailing\n", 2},
	}

	for _, c := range cases {
		pv.SetPrompt(session.RenderedPrompt{Text: c.text})
		if got := pv.LineCount(); got != c.want {
			t.Errorf("LineCount(%q) = %d, want %d", c.text, got, c.want)
		}
	}
}
