// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package highlight classifies substrings of a rendered prompt for display.
//
// A model's catalog entry carries an ordered list of token patterns (regular
// expression plus highlight class). Highlight scans a rendered prompt once,
// left to right, and tiles it with spans: every byte of the input is covered
// by exactly one span, classified spans for pattern matches and plain spans
// for the gaps between them.
//
// Pattern order is priority order. When two patterns match at the same
// offset, the one listed first in the catalog wins, so a catalog can list a
// generic marker before a more specific one and the generic class prevails.
//
// # Key Types
//
//   - Spec: Raw pattern text plus class, as found in a catalog or file
//   - Pattern: Compiled classifier; compilation happens at load time
//   - Span: Byte range with a class; empty class means plain text
//   - PatternError: Rejection reason for a pattern, raised at load time
//
// # Usage
//
//	patterns, err := highlight.Compile([]highlight.Spec{
//	    {Pattern: `<\|im_start\|>`, Class: "bos_eos"},
//	    {Pattern: `<think>`, Class: "think"},
//	})
//	if err != nil {
//	    // *highlight.PatternError: bad regex, empty class, or empty match
//	}
//	spans := highlight.Highlight(prompt, patterns)
package highlight
