// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Program and Definition types for declarative prompt templates.
package template

import (
	"fmt"

	"github.com/jeranaias/promptforge/internal/highlight"
	"github.com/jeranaias/promptforge/internal/model"
)

// ===== ERRORS =====

// TemplateError reports a malformed template program. It is raised when a
// definition is validated at load time, never by conversation content.
type TemplateError struct {
	Model  string
	Reason string
}

func (e *TemplateError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("template program: %s", e.Reason)
	}
	return fmt.Sprintf("template program %q: %s", e.Model, e.Reason)
}

// ===== PROGRAM =====

// TurnRule frames one conversation turn: Open before the message content,
// Close after it. Either side may be empty for roles a model renders bare.
type TurnRule struct {
	Open  string `toml:"open"`
	Close string `toml:"close"`
}

// ThinkRule wraps assistant reasoning. Emission is gated by the
// enable_thinking option and restricted to the final assistant turn.
type ThinkRule struct {
	Open  string `toml:"open"`
	Close string `toml:"close"`
}

// ToolCallRule frames assistant tool calls. The block delimiters surround
// the whole list; each call is CallOpen, the call name, NameArgsSep, the
// argument text verbatim, then CallClose.
type ToolCallRule struct {
	BlockOpen   string `toml:"block_open"`
	CallOpen    string `toml:"call_open"`
	NameArgsSep string `toml:"name_args_sep"`
	CallClose   string `toml:"call_close"`
	BlockClose  string `toml:"block_close"`
}

// BlockRule frames the leading tools-definition block.
type BlockRule struct {
	Open  string `toml:"open"`
	Close string `toml:"close"`
}

// Program is the declarative rendering recipe for one model family. It is
// pure data: fixed delimiter strings keyed by structural position, with no
// conditionals beyond what the engine hard-codes.
type Program struct {
	// Turns maps each role to its frame. Every role must have an entry,
	// even if both sides are empty.
	Turns map[model.Role]TurnRule `toml:"turns"`

	// Think wraps final-turn assistant reasoning.
	Think ThinkRule `toml:"think"`

	// ToolCalls frames the tool-call list on assistant turns.
	ToolCalls ToolCallRule `toml:"tool_calls"`

	// Tools frames the tools-definition block near the start of the prompt.
	Tools BlockRule `toml:"tools"`

	// GenPrompt is appended when add_generation_prompt is set and thinking
	// is off (or the model has no thinking variant). GenPromptThinking is
	// preferred when thinking is on and it is non-empty.
	GenPrompt         string `toml:"gen_prompt"`
	GenPromptThinking string `toml:"gen_prompt_thinking"`

	// FinalEOS appends the model's EOS token once after the last rendered
	// turn, for families that terminate the whole sequence rather than
	// each assistant turn.
	FinalEOS bool `toml:"final_eos"`
}

// Validate checks the program for structural defects. The model id is only
// used to label the returned TemplateError.
func (p *Program) Validate(modelID string) error {
	if p.Turns == nil {
		return &TemplateError{Model: modelID, Reason: "no turn rules defined"}
	}
	for _, role := range model.Roles {
		if _, ok := p.Turns[role]; !ok {
			return &TemplateError{
				Model:  modelID,
				Reason: fmt.Sprintf("missing turn rule for role %q", role),
			}
		}
	}
	for role := range p.Turns {
		if !role.Valid() {
			return &TemplateError{
				Model:  modelID,
				Reason: fmt.Sprintf("turn rule for unknown role %q", role),
			}
		}
	}
	return nil
}

// ===== DEFINITION =====

// Definition bundles everything the engine and highlighter need for one
// model: identity, sentinel tokens, the rendering program, the highlight
// patterns, and default options.
type Definition struct {
	// ID is the registry key, e.g. "qwen3".
	ID string

	// DisplayName is the human-readable name shown in pickers and listings.
	DisplayName string

	// TokenizerID names the upstream tokenizer this template matches, for
	// display only; rendering never consults it.
	TokenizerID string

	// Source is the definition file this was loaded from, or empty for
	// builtins.
	Source string

	// BOSToken opens every rendered prompt. May be empty.
	BOSToken string

	// EOSToken terminates turns or sequences per the program. May be empty.
	EOSToken string

	// Program is the declarative rendering recipe.
	Program Program

	// Patterns drive prompt highlighting, in priority order.
	Patterns []highlight.Pattern

	// DefaultOptions seed rendering options; caller options layer on top.
	DefaultOptions Options
}

// Validate checks the definition for load-time defects.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return &TemplateError{Reason: "definition has no id"}
	}
	if d.DisplayName == "" {
		return &TemplateError{Model: d.ID, Reason: "definition has no display name"}
	}
	if len(d.Patterns) == 0 {
		return &TemplateError{Model: d.ID, Reason: "definition has no token patterns"}
	}
	return d.Program.Validate(d.ID)
}
