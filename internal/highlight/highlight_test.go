// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package highlight classifies substrings of a rendered prompt for display.
package highlight

import (
	"errors"
	"reflect"
	"testing"
)

// checkTiling verifies the span sequence tiles text exactly: contiguous,
// non-overlapping, ordered, starting at 0 and ending at len(text).
func checkTiling(t *testing.T, text string, spans []Span) {
	t.Helper()

	if len(text) == 0 {
		if len(spans) != 0 {
			t.Fatalf("empty text produced %d spans, want 0", len(spans))
		}
		return
	}
	if len(spans) == 0 {
		t.Fatalf("non-empty text produced no spans")
	}
	if spans[0].Start != 0 {
		t.Errorf("spans[0].Start = %d, want 0", spans[0].Start)
	}
	if spans[len(spans)-1].End != len(text) {
		t.Errorf("spans[last].End = %d, want %d", spans[len(spans)-1].End, len(text))
	}
	for i, s := range spans {
		if s.End <= s.Start {
			t.Errorf("spans[%d] = %+v: empty or inverted", i, s)
		}
		if i > 0 && s.Start != spans[i-1].End {
			t.Errorf("spans[%d].Start = %d, want %d (contiguous)", i, s.Start, spans[i-1].End)
		}
	}
}

func mustCompile(t *testing.T, specs []Spec) []Pattern {
	t.Helper()
	patterns, err := Compile(specs)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return patterns
}

// =============================================================================
// COMPILE TESTS
// =============================================================================

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name  string
		specs []Spec
	}{
		{"empty list", nil},
		{"invalid regex", []Spec{{Pattern: `(`, Class: "func"}}},
		{"missing class", []Spec{{Pattern: `<think>`, Class: ""}}},
		{"matches empty string", []Spec{{Pattern: `a*`, Class: "func"}}},
		{"alternation matches empty", []Spec{{Pattern: `(?:x|)`, Class: "func"}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile(tc.specs)
			if err == nil {
				t.Fatal("Compile() error = nil, want *PatternError")
			}
			var perr *PatternError
			if !errors.As(err, &perr) {
				t.Errorf("Compile() error type = %T, want *PatternError", err)
			}
		})
	}
}

func TestCompile_ValidPatterns(t *testing.T) {
	patterns := mustCompile(t, []Spec{
		{Pattern: `<\|im_start\|>`, Class: "bos_eos"},
		{Pattern: `<think>`, Class: "think"},
	})
	if len(patterns) != 2 {
		t.Fatalf("Compile() returned %d patterns, want 2", len(patterns))
	}
	if patterns[0].Class != "bos_eos" || patterns[1].Class != "think" {
		t.Errorf("Compile() classes = %q, %q", patterns[0].Class, patterns[1].Class)
	}
	if patterns[0].Source != `<\|im_start\|>` {
		t.Errorf("Compile() Source = %q, want original pattern text", patterns[0].Source)
	}
}

// =============================================================================
// HIGHLIGHT TESTS
// =============================================================================

func TestHighlight_EmptyText(t *testing.T) {
	patterns := mustCompile(t, []Spec{{Pattern: `<think>`, Class: "think"}})
	spans := Highlight("", patterns)
	if len(spans) != 0 {
		t.Errorf("Highlight(\"\") = %v, want empty", spans)
	}
}

func TestHighlight_NoMatches(t *testing.T) {
	patterns := mustCompile(t, []Spec{{Pattern: `<think>`, Class: "think"}})
	text := "plain prose, nothing special"
	spans := Highlight(text, patterns)
	checkTiling(t, text, spans)
	want := []Span{{Start: 0, End: len(text)}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("Highlight() = %v, want %v", spans, want)
	}
}

func TestHighlight_Positions(t *testing.T) {
	patterns := mustCompile(t, []Spec{{Pattern: `<think>`, Class: "think"}})

	tests := []struct {
		name string
		text string
		want []Span
	}{
		{
			name: "match at start",
			text: "<think>after",
			want: []Span{{0, 7, "think"}, {7, 12, ""}},
		},
		{
			name: "match at end",
			text: "before<think>",
			want: []Span{{0, 6, ""}, {6, 13, "think"}},
		},
		{
			name: "match in middle",
			text: "a<think>b",
			want: []Span{{0, 1, ""}, {1, 8, "think"}, {8, 9, ""}},
		},
		{
			name: "adjacent matches without gap",
			text: "<think><think>",
			want: []Span{{0, 7, "think"}, {7, 14, "think"}},
		},
		{
			name: "whole text is one match",
			text: "<think>",
			want: []Span{{0, 7, "think"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spans := Highlight(tc.text, patterns)
			checkTiling(t, tc.text, spans)
			if !reflect.DeepEqual(spans, tc.want) {
				t.Errorf("Highlight(%q) = %v, want %v", tc.text, spans, tc.want)
			}
		})
	}
}

func TestHighlight_TieBreakFirstListedWins(t *testing.T) {
	// Both patterns match at offset 0; the first-listed class must win,
	// regardless of match length.
	text := "<|im_start|>system\nhello"

	generic := Spec{Pattern: `<\|im_start\|>`, Class: "bos_eos"}
	specific := Spec{Pattern: `<\|im_start\|>system`, Class: "role"}

	genericFirst := Highlight(text, mustCompile(t, []Spec{generic, specific}))
	checkTiling(t, text, genericFirst)
	if genericFirst[0].Class != "bos_eos" || genericFirst[0].End != 12 {
		t.Errorf("generic-first span[0] = %+v, want bos_eos [0,12)", genericFirst[0])
	}

	specificFirst := Highlight(text, mustCompile(t, []Spec{specific, generic}))
	checkTiling(t, text, specificFirst)
	if specificFirst[0].Class != "role" || specificFirst[0].End != 18 {
		t.Errorf("specific-first span[0] = %+v, want role [0,18)", specificFirst[0])
	}
}

func TestHighlight_EarliestMatchWins(t *testing.T) {
	// The later-listed pattern matches earlier in the text and must win
	// that position; priority order only breaks same-offset ties.
	patterns := mustCompile(t, []Spec{
		{Pattern: `bbb`, Class: "late"},
		{Pattern: `aaa`, Class: "early"},
	})
	text := "aaa bbb"
	spans := Highlight(text, patterns)
	checkTiling(t, text, spans)
	want := []Span{{0, 3, "early"}, {3, 4, ""}, {4, 7, "late"}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("Highlight() = %v, want %v", spans, want)
	}
}

func TestHighlight_MatchedTextNeverRescanned(t *testing.T) {
	// "think" occurs inside the invoke tag's match; once the tag is
	// consumed the scan resumes after it, so the inner token is invisible.
	patterns := mustCompile(t, []Spec{
		{Pattern: `<invoke[^>]*>`, Class: "func"},
		{Pattern: `think`, Class: "think"},
	})
	text := `<invoke name="think">think`
	spans := Highlight(text, patterns)
	checkTiling(t, text, spans)
	want := []Span{{0, 21, "func"}, {21, 26, "think"}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("Highlight() = %v, want %v", spans, want)
	}
}

func TestHighlight_MultibyteTokens(t *testing.T) {
	// DeepSeek markers use fullwidth characters; offsets are bytes.
	patterns := mustCompile(t, []Spec{
		{Pattern: `<｜User｜>`, Class: "role"},
	})
	text := "<｜User｜>hi"
	spans := Highlight(text, patterns)
	checkTiling(t, text, spans)
	if len(spans) != 2 || spans[0].Class != "role" {
		t.Fatalf("Highlight() = %v, want role span then plain", spans)
	}
	if got := spans[0].Text(text); got != "<｜User｜>" {
		t.Errorf("span text = %q, want marker", got)
	}
	if got := spans[1].Text(text); got != "hi" {
		t.Errorf("gap text = %q, want %q", got, "hi")
	}
}

func TestHighlight_ZeroWidthInteriorMatchTerminates(t *testing.T) {
	// \b does not match the empty string, so it passes Compile, but every
	// match it produces is zero-width; the scan must skip them and finish.
	patterns := mustCompile(t, []Spec{{Pattern: `\b`, Class: "edge"}})
	text := "one two"
	spans := Highlight(text, patterns)
	checkTiling(t, text, spans)
	for _, s := range spans {
		if s.Class != "" {
			t.Errorf("zero-width pattern produced classified span %+v", s)
		}
	}
}

func TestHighlight_Deterministic(t *testing.T) {
	patterns := mustCompile(t, []Spec{
		{Pattern: `<\|im_start\|>`, Class: "bos_eos"},
		{Pattern: `<\|im_end\|>`, Class: "bos_eos"},
		{Pattern: `<think>`, Class: "think"},
		{Pattern: `</think>`, Class: "think"},
	})
	text := "<|im_start|>assistant\n<think>\nhm\n</think>\n\nanswer<|im_end|>\n"

	first := Highlight(text, patterns)
	checkTiling(t, text, first)
	for i := 0; i < 10; i++ {
		again := Highlight(text, patterns)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Highlight() not deterministic: run %d = %v, want %v", i, again, first)
		}
	}
}

func TestHighlight_TilingAcrossInputs(t *testing.T) {
	patterns := mustCompile(t, []Spec{
		{Pattern: `\[gMASK\]`, Class: "bos_eos"},
		{Pattern: `<sop>`, Class: "bos_eos"},
		{Pattern: `<\|user\|>`, Class: "role"},
		{Pattern: `<\|assistant\|>`, Class: "role"},
		{Pattern: `<think>`, Class: "think"},
		{Pattern: `</think>`, Class: "think"},
	})

	inputs := []string{
		"[gMASK]<sop>",
		"[gMASK]<sop><|user|>\nhello<|assistant|>\nworld",
		"no tokens here",
		"<think></think>",
		"truncated <|assi",
		"[gMASK][gMASK][gMASK]",
		"trailing text then <|user|>",
	}

	for _, text := range inputs {
		spans := Highlight(text, patterns)
		checkTiling(t, text, spans)

		// Reassembling the span slices must reproduce the input.
		var rebuilt string
		for _, s := range spans {
			rebuilt += s.Text(text)
		}
		if rebuilt != text {
			t.Errorf("span reassembly = %q, want %q", rebuilt, text)
		}
	}
}
