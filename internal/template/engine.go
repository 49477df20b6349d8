// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Rendering engine: conversation + definition + options -> prompt text.
package template

import (
	"strings"

	"github.com/jeranaias/promptforge/internal/model"
)

// Render produces the exact prompt text for conv under def. It is a pure
// function of its inputs: same arguments, same output, no hidden state.
//
// Structure of the output:
//
//	BOS token (once, always first)
//	tools block (when the tools option is non-empty; placed after the
//	  leading system turn when the conversation opens with one, otherwise
//	  directly after BOS)
//	one framed turn per message, in conversation order
//	EOS token (only for programs with FinalEOS set)
//	generation prompt (only when add_generation_prompt is set)
//
// Reasoning is emitted only on the final assistant turn and only when
// enable_thinking is set. Tool-call arguments pass through verbatim.
// Render fails only for a malformed program, never for conversation
// content.
func Render(conv *model.Conversation, def *Definition, opts Options) (string, error) {
	if err := def.Program.Validate(def.ID); err != nil {
		return "", err
	}

	merged := def.DefaultOptions.Merge(opts)
	thinking := merged.Bool(OptEnableThinking)
	tools := merged.String(OptTools)

	var b strings.Builder
	b.WriteString(def.BOSToken)

	var messages []*model.Message
	lastAssistant := -1
	if conv != nil {
		messages = conv.Messages
		lastAssistant = conv.LastAssistantIndex()
	}

	// The tools block trails the opening system turn when there is one, so
	// tool signatures read as part of the system preamble.
	toolsPending := tools != ""
	toolsAfterFirst := toolsPending && len(messages) > 0 && messages[0].Role == model.RoleSystem
	if toolsPending && !toolsAfterFirst {
		writeToolsBlock(&b, def, tools)
		toolsPending = false
	}

	for i, msg := range messages {
		rule, ok := def.Program.Turns[msg.Role]
		if !ok {
			// Unknown roles never fail a render; frame them as user turns.
			rule = def.Program.Turns[model.RoleUser]
		}

		b.WriteString(rule.Open)
		if msg.Role == model.RoleAssistant {
			if thinking && i == lastAssistant && msg.Reasoning != "" {
				b.WriteString(def.Program.Think.Open)
				b.WriteString(msg.Reasoning)
				b.WriteString(def.Program.Think.Close)
			}
			b.WriteString(msg.Content)
			if msg.HasToolCalls() {
				writeToolCalls(&b, def, msg.ToolCalls)
			}
		} else {
			b.WriteString(msg.Content)
		}
		b.WriteString(rule.Close)

		if toolsPending && i == 0 {
			writeToolsBlock(&b, def, tools)
			toolsPending = false
		}
	}

	if def.Program.FinalEOS {
		b.WriteString(def.EOSToken)
	}

	if merged.Bool(OptAddGenerationPrompt) {
		if thinking && def.Program.GenPromptThinking != "" {
			b.WriteString(def.Program.GenPromptThinking)
		} else {
			b.WriteString(def.Program.GenPrompt)
		}
	}

	return b.String(), nil
}

func writeToolsBlock(b *strings.Builder, def *Definition, tools string) {
	b.WriteString(def.Program.Tools.Open)
	b.WriteString(tools)
	b.WriteString(def.Program.Tools.Close)
}

func writeToolCalls(b *strings.Builder, def *Definition, calls []model.ToolCall) {
	rule := def.Program.ToolCalls
	b.WriteString(rule.BlockOpen)
	for _, call := range calls {
		b.WriteString(rule.CallOpen)
		b.WriteString(call.Name)
		b.WriteString(rule.NameArgsSep)
		b.WriteString(call.Arguments)
		b.WriteString(rule.CallClose)
	}
	b.WriteString(rule.BlockClose)
}
