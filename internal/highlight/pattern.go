// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package highlight classifies substrings of a rendered prompt for display.
package highlight

import (
	"fmt"
	"regexp"
)

// =============================================================================
// PATTERN TYPES
// =============================================================================

// Spec is the raw, uncompiled form of a token pattern as it appears in a
// model catalog entry or a definition file.
type Spec struct {
	Pattern string `toml:"pattern" json:"pattern"`
	Class   string `toml:"class" json:"class"`
}

// Pattern is a compiled token classifier. The list order of patterns is
// their priority: when two patterns match at the same offset, the one
// listed first wins.
type Pattern struct {
	re     *regexp.Regexp
	Source string
	Class  string
}

// =============================================================================
// ERRORS
// =============================================================================

// PatternError reports a token pattern rejected at load time. Invalid
// patterns never reach Highlight: by the time a model is selectable, all of
// its patterns are known-valid.
type PatternError struct {
	Pattern string
	Reason  string
	Err     error
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	if e.Pattern == "" {
		return "token pattern: " + e.Reason
	}
	if e.Err != nil {
		return fmt.Sprintf("token pattern %q: %s: %v", e.Pattern, e.Reason, e.Err)
	}
	return fmt.Sprintf("token pattern %q: %s", e.Pattern, e.Reason)
}

// Unwrap returns the underlying error, if any.
func (e *PatternError) Unwrap() error {
	return e.Err
}

// =============================================================================
// COMPILATION
// =============================================================================

// Compile validates and compiles an ordered pattern list. It fails with a
// *PatternError when the list is empty, a class is missing, a regular
// expression does not compile, or an expression can match the empty string
// (which would stall the scan).
func Compile(specs []Spec) ([]Pattern, error) {
	if len(specs) == 0 {
		return nil, &PatternError{Reason: "at least one token pattern is required"}
	}

	patterns := make([]Pattern, 0, len(specs))
	for _, spec := range specs {
		if spec.Class == "" {
			return nil, &PatternError{Pattern: spec.Pattern, Reason: "missing highlight class"}
		}
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, &PatternError{Pattern: spec.Pattern, Reason: "invalid regular expression", Err: err}
		}
		if re.MatchString("") {
			return nil, &PatternError{Pattern: spec.Pattern, Reason: "matches the empty string"}
		}
		patterns = append(patterns, Pattern{re: re, Source: spec.Pattern, Class: spec.Class})
	}
	return patterns, nil
}

// MustCompile is Compile for static pattern tables that are known valid.
// It panics on error and is only used for the built-in catalog.
func MustCompile(specs []Spec) []Pattern {
	patterns, err := Compile(specs)
	if err != nil {
		panic(err)
	}
	return patterns
}
