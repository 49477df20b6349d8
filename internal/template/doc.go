// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package template renders conversations into the exact prompt text a model
// family consumes, using declarative per-model programs instead of a
// general template language.
//
// A Definition bundles a model's identity, BOS/EOS tokens, rendering
// Program, highlight patterns, and default options. Definitions live in a
// Registry: the builtin catalog ships four families (DeepSeek V3.1, Qwen3,
// GLM-4.5, MiniMax-M2) and TOML files can add or override more.
//
// # Key Types
//
//   - Definition: One model's tokens, program, patterns, and defaults
//   - Program: Declarative rendering recipe (turn frames, think wrapper,
//     tool-call frames, generation prompts)
//   - Registry: Ordered, immutable definition lookup
//   - Options: Flat render options (enable_thinking, add_generation_prompt,
//     tools)
//
// # Rendering
//
// Render is a pure function: the same conversation, definition, and options
// always produce the same prompt text. The BOS token appears exactly once,
// reasoning is emitted only on the final assistant turn when thinking is
// enabled, and tool-call arguments pass through byte-for-byte.
//
// # Usage
//
// Render with a builtin model:
//
//	reg := template.NewBuiltinRegistry()
//	def, err := reg.Lookup("qwen3")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	text, err := template.Render(conv, def, template.Options{
//	    template.OptAddGenerationPrompt: true,
//	})
//
// Load custom definitions alongside the builtins:
//
//	reg, err := template.BuildRegistry("~/.promptforge/definitions")
package template
