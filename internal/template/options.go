// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package template renders conversations into model-specific prompt text.
package template

// Canonical option keys. Definitions may carry model-specific extras beyond
// these; unknown keys are ignored by the engine.
const (
	// OptEnableThinking gates reasoning emission on the final assistant turn.
	OptEnableThinking = "enable_thinking"

	// OptAddGenerationPrompt appends the model's assistant-turn opener.
	OptAddGenerationPrompt = "add_generation_prompt"

	// OptTools carries the tools-definition text, emitted verbatim inside
	// the model's tools block when non-empty.
	OptTools = "tools"
)

// Options is a flat, lenient option mapping. Unknown keys are ignored and
// missing keys read as zero values, so callers only set what they mean.
type Options map[string]any

// Clone returns an independent copy of the options.
func (o Options) Clone() Options {
	if o == nil {
		return Options{}
	}
	clone := make(Options, len(o))
	for k, v := range o {
		clone[k] = v
	}
	return clone
}

// Merge layers over on top of o and returns the result. Keys present in
// over win; neither receiver nor argument is modified.
func (o Options) Merge(over Options) Options {
	merged := o.Clone()
	for k, v := range over {
		merged[k] = v
	}
	return merged
}

// Bool reads a boolean option. Absent keys and non-boolean values read as
// false.
func (o Options) Bool(key string) bool {
	v, ok := o[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// String reads a string option. Absent keys and non-string values read as
// the empty string.
func (o Options) String(key string) string {
	v, ok := o[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Set assigns a key and returns the options for chaining during setup.
func (o Options) Set(key string, value any) Options {
	o[key] = value
	return o
}
