// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the promptforge TUI.
package components

import (
	"strings"
	"testing"
)

func TestCodeBlockRender(t *testing.T) {
	cb := NewCodeBlock("go", "func main() {\n\tprintln(\"hi\")\n}")
	cb.SetMaxWidth(80)

	out := cb.Render()

	if !strings.Contains(out, "go") {
		t.Error("rendered block should show the language badge")
	}
	if !strings.Contains(out, "main") {
		t.Error("rendered block should contain the code")
	}
	// Line numbers for all three lines
	for _, num := range []string{"1", "2", "3"} {
		if !strings.Contains(out, num) {
			t.Errorf("rendered block missing line number %s", num)
		}
	}
}

func TestRenderJSONKeepsText(t *testing.T) {
	args := `{"location":  "Paris",   "unit": "celsius"}`
	out := RenderJSON(args, 80)

	for _, want := range []string{"location", "Paris", "unit", "celsius"} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON preview missing %q", want)
		}
	}
	if !strings.Contains(out, "json") {
		t.Error("JSON preview should carry the json badge")
	}
}

func TestParseCodeBlocks(t *testing.T) {
	text := "Before the code.\n```python\nprint('hello')\n```\nAfter the code."

	out := ParseCodeBlocks(text, 80)

	if !strings.Contains(out, "Before the code.") {
		t.Error("text before the fence should pass through")
	}
	if !strings.Contains(out, "After the code.") {
		t.Error("text after the fence should pass through")
	}
	if !strings.Contains(out, "hello") {
		t.Error("code content should be rendered")
	}
	if strings.Contains(out, "```") {
		t.Error("fence markers should be consumed")
	}
}

func TestParseCodeBlocksUnclosed(t *testing.T) {
	text := "Intro\n```\nraw code"

	out := ParseCodeBlocks(text, 80)
	if !strings.Contains(out, "raw code") {
		t.Error("unclosed fences should still render their content")
	}
}

func TestParseInlineCode(t *testing.T) {
	out := ParseInlineCode("Use `/export` to save.")
	if !strings.Contains(out, "/export") {
		t.Error("inline code content should be preserved")
	}
	if strings.Contains(out, "`") {
		t.Error("backticks should be consumed")
	}

	unclosed := ParseInlineCode("an odd `tick")
	if !strings.Contains(unclosed, "`tick") {
		t.Error("unclosed backtick should be left as written")
	}
}

func TestDetectLanguage(t *testing.T) {
	// Chroma's analyser is heuristic; it only needs to not panic and to
	// return something sensible for obvious input.
	lang := detectLanguage("#!/usr/bin/env python\nprint('x')\n")
	if lang == "" {
		t.Skip("analyser did not identify the sample; acceptable")
	}
	if !strings.Contains(strings.ToLower(lang), "python") {
		t.Logf("detected %q for python sample", lang)
	}
}
