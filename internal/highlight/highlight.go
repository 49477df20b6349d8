// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package highlight classifies substrings of a rendered prompt for display.
package highlight

// =============================================================================
// HIGHLIGHT CLASSES
// =============================================================================

// Well-known highlight classes used by the built-in model catalog. Class is
// an open vocabulary: definition files may introduce new names, and renderers
// fall back to a default style for classes they do not recognize.
const (
	ClassBOSEOS = "bos_eos"
	ClassRole   = "role"
	ClassThink  = "think"
	ClassDSML   = "dsml"
	ClassFunc   = "func"
)

// =============================================================================
// SPAN TYPE
// =============================================================================

// Span is a classified slice of the highlighted text. Start and End are byte
// offsets, 0-based and half-open. An empty Class marks unclassified plain
// text.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Class string `json:"class,omitempty"`
}

// IsPlain reports whether the span is an unclassified gap.
func (s Span) IsPlain() bool {
	return s.Class == ""
}

// Text returns the slice of text the span covers.
func (s Span) Text(text string) string {
	return text[s.Start:s.End]
}

// =============================================================================
// SCAN
// =============================================================================

// Highlight tiles text with classified spans in a single left-to-right scan.
//
// At each cursor position the earliest-starting match across all patterns
// wins; among matches starting at the same offset, the pattern listed first
// wins. Gaps between matches become plain spans. Matched text is never
// re-scanned, so matches cannot nest or overlap.
//
// The result is contiguous, non-overlapping, ordered by start, and covers
// [0, len(text)) exactly. Empty text yields an empty span list.
//
// Highlight is pure: it takes no locks, touches no globals, and is safe to
// call concurrently with any arguments.
func Highlight(text string, patterns []Pattern) []Span {
	n := len(text)
	if n == 0 {
		return []Span{}
	}

	spans := make([]Span, 0, 16)

	// Cached next match per pattern, as absolute offsets. A start of -1
	// means the pattern has no further matches; -2 means not yet searched.
	// A cached match that still starts at or after the cursor remains the
	// leftmost one, because the earlier search window began before it.
	starts := make([]int, len(patterns))
	ends := make([]int, len(patterns))
	for i := range starts {
		starts[i] = -2
	}

	cursor := 0
	for cursor < n {
		best := -1
		for i := range patterns {
			if starts[i] == -1 {
				continue
			}
			if starts[i] < cursor {
				starts[i], ends[i] = findFrom(text, &patterns[i], cursor)
				if starts[i] == -1 {
					continue
				}
			}
			if best == -1 || starts[i] < starts[best] {
				best = i
			}
		}

		if best == -1 {
			spans = append(spans, Span{Start: cursor, End: n})
			break
		}
		if starts[best] > cursor {
			spans = append(spans, Span{Start: cursor, End: starts[best]})
		}
		spans = append(spans, Span{Start: starts[best], End: ends[best], Class: patterns[best].Class})
		cursor = ends[best]
	}

	return spans
}

// findFrom locates the leftmost non-empty match of p at or after offset from.
// Compile rejects patterns that match the empty string, but constructs like
// \b can still match zero width at interior positions; those are skipped so
// the scan always advances.
func findFrom(text string, p *Pattern, from int) (start, end int) {
	for from <= len(text) {
		m := p.re.FindStringIndex(text[from:])
		if m == nil {
			return -1, -1
		}
		s, e := from+m[0], from+m[1]
		if e > s {
			return s, e
		}
		from = s + 1
	}
	return -1, -1
}
