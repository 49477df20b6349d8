// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Builtin model catalog: the four template families shipped with the tool.
package template

import (
	"github.com/jeranaias/promptforge/internal/highlight"
	"github.com/jeranaias/promptforge/internal/model"
)

// DefaultModelID is the model selected when nothing else is configured.
const DefaultModelID = "qwen3"

// ===== DEEPSEEK V3.1 =====

var deepseekV31 = &Definition{
	ID:          "deepseek-v3.1",
	DisplayName: "DeepSeek V3.1",
	TokenizerID: "deepseek-ai/DeepSeek-V3.1",
	BOSToken:    "<｜begin▁of▁sentence｜>",
	EOSToken:    "<｜end▁of▁sentence｜>",
	Program: Program{
		Turns: map[model.Role]TurnRule{
			// System and developer text renders bare; the vocabulary has
			// no delimiter tokens for them.
			model.RoleSystem:    {},
			model.RoleDeveloper: {},
			model.RoleUser:      {Open: "<｜User｜>"},
			model.RoleAssistant: {Open: "<｜Assistant｜>", Close: "<｜end▁of▁sentence｜>"},
			model.RoleTool:      {Open: "<｜tool▁output▁begin｜>", Close: "<｜tool▁output▁end｜>"},
		},
		Think: ThinkRule{Open: "<think>", Close: "</think>"},
		ToolCalls: ToolCallRule{
			BlockOpen:   "<｜tool▁calls▁begin｜>",
			CallOpen:    "<｜tool▁call▁begin｜>",
			NameArgsSep: "<｜tool▁sep｜>",
			CallClose:   "<｜tool▁call▁end｜>",
			BlockClose:  "<｜tool▁calls▁end｜>",
		},
		Tools: BlockRule{
			Open:  "\n\n## Tools\nYou have access to the following tools:\n\n",
			Close: "\n",
		},
		GenPrompt:         "<｜Assistant｜></think>",
		GenPromptThinking: "<｜Assistant｜><think>",
	},
	Patterns: highlight.MustCompile([]highlight.Spec{
		{Pattern: `<｜begin▁of▁sentence｜>`, Class: highlight.ClassBOSEOS},
		{Pattern: `<｜end▁of▁sentence｜>`, Class: highlight.ClassBOSEOS},
		{Pattern: `<｜User｜>`, Class: highlight.ClassRole},
		{Pattern: `<｜Assistant｜>`, Class: highlight.ClassRole},
		{Pattern: `<think>`, Class: highlight.ClassThink},
		{Pattern: `</think>`, Class: highlight.ClassThink},
		{Pattern: `<｜tool▁calls▁begin｜>`, Class: highlight.ClassFunc},
		{Pattern: `<｜tool▁calls▁end｜>`, Class: highlight.ClassFunc},
		{Pattern: `<｜tool▁call▁begin｜>`, Class: highlight.ClassFunc},
		{Pattern: `<｜tool▁call▁end｜>`, Class: highlight.ClassFunc},
		{Pattern: `<｜tool▁sep｜>`, Class: highlight.ClassFunc},
		{Pattern: `<｜tool▁output▁begin｜>`, Class: highlight.ClassFunc},
		{Pattern: `<｜tool▁output▁end｜>`, Class: highlight.ClassFunc},
	}),
	DefaultOptions: Options{OptEnableThinking: true},
}

// ===== QWEN3 =====

var qwen3 = &Definition{
	ID:          "qwen3",
	DisplayName: "Qwen3",
	TokenizerID: "Qwen/Qwen3-235B-A22B",
	BOSToken:    "",
	EOSToken:    "<|im_end|>",
	Program: Program{
		Turns: map[model.Role]TurnRule{
			model.RoleSystem:    {Open: "<|im_start|>system\n", Close: "<|im_end|>\n"},
			model.RoleDeveloper: {Open: "<|im_start|>developer\n", Close: "<|im_end|>\n"},
			model.RoleUser:      {Open: "<|im_start|>user\n", Close: "<|im_end|>\n"},
			model.RoleAssistant: {Open: "<|im_start|>assistant\n", Close: "<|im_end|>\n"},
			model.RoleTool: {
				Open:  "<|im_start|>user\n<tool_response>\n",
				Close: "\n</tool_response><|im_end|>\n",
			},
		},
		Think: ThinkRule{Open: "<think>\n", Close: "\n</think>\n\n"},
		ToolCalls: ToolCallRule{
			CallOpen:    "\n<tool_call>\n{\"name\": \"",
			NameArgsSep: "\", \"arguments\": ",
			CallClose:   "}\n</tool_call>",
		},
		Tools: BlockRule{
			Open: "<|im_start|>system\n# Tools\n\nYou may call one or more functions " +
				"to assist with the user query.\n\nYou are provided with function " +
				"signatures within <tools></tools> XML tags:\n<tools>\n",
			Close: "\n</tools><|im_end|>\n",
		},
		GenPrompt:         "<|im_start|>assistant\n<think>\n\n</think>\n\n",
		GenPromptThinking: "<|im_start|>assistant\n",
	},
	Patterns: highlight.MustCompile([]highlight.Spec{
		{Pattern: `<\|im_start\|>`, Class: highlight.ClassBOSEOS},
		{Pattern: `<\|im_end\|>`, Class: highlight.ClassBOSEOS},
		{Pattern: `<\|im_start\|>system`, Class: highlight.ClassRole},
		{Pattern: `<\|im_start\|>user`, Class: highlight.ClassRole},
		{Pattern: `<\|im_start\|>assistant`, Class: highlight.ClassRole},
		{Pattern: `<think>`, Class: highlight.ClassThink},
		{Pattern: `</think>`, Class: highlight.ClassThink},
		{Pattern: `<tools>`, Class: highlight.ClassFunc},
		{Pattern: `</tools>`, Class: highlight.ClassFunc},
		{Pattern: `<tool_call>`, Class: highlight.ClassFunc},
		{Pattern: `</tool_call>`, Class: highlight.ClassFunc},
		{Pattern: `<tool_response>`, Class: highlight.ClassFunc},
		{Pattern: `</tool_response>`, Class: highlight.ClassFunc},
	}),
	DefaultOptions: Options{OptEnableThinking: true},
}

// ===== GLM-4.5 =====

var glm45 = &Definition{
	ID:          "glm-4.5",
	DisplayName: "GLM-4.5",
	TokenizerID: "zai-org/GLM-4.5",
	BOSToken:    "[gMASK]<sop>",
	EOSToken:    "",
	Program: Program{
		Turns: map[model.Role]TurnRule{
			model.RoleSystem:    {Open: "<|system|>\n"},
			model.RoleDeveloper: {Open: "<|system|>\n"},
			model.RoleUser:      {Open: "<|user|>\n"},
			model.RoleAssistant: {Open: "<|assistant|>\n"},
			model.RoleTool:      {Open: "<|observation|>\n"},
		},
		Think: ThinkRule{Open: "<think>", Close: "</think>\n"},
		ToolCalls: ToolCallRule{
			CallOpen:    "\n<tool_call>",
			NameArgsSep: "\n",
			CallClose:   "\n</tool_call>",
		},
		Tools: BlockRule{
			Open: "<|system|>\n# Tools\n\nYou may call one or more functions " +
				"to assist with the user query.\n\nYou are provided with function " +
				"signatures within <tools></tools> XML tags:\n<tools>\n",
			Close: "\n</tools>",
		},
		GenPrompt:         "<|assistant|>\n<think></think>",
		GenPromptThinking: "<|assistant|>",
	},
	Patterns: highlight.MustCompile([]highlight.Spec{
		{Pattern: `\[gMASK\]`, Class: highlight.ClassBOSEOS},
		{Pattern: `<sop>`, Class: highlight.ClassBOSEOS},
		{Pattern: `<\|system\|>`, Class: highlight.ClassRole},
		{Pattern: `<\|user\|>`, Class: highlight.ClassRole},
		{Pattern: `<\|assistant\|>`, Class: highlight.ClassRole},
		{Pattern: `<\|observation\|>`, Class: highlight.ClassRole},
		{Pattern: `<think>`, Class: highlight.ClassThink},
		{Pattern: `</think>`, Class: highlight.ClassThink},
		{Pattern: `<tools>`, Class: highlight.ClassFunc},
		{Pattern: `</tools>`, Class: highlight.ClassFunc},
		{Pattern: `<tool_call>`, Class: highlight.ClassFunc},
		{Pattern: `</tool_call>`, Class: highlight.ClassFunc},
		{Pattern: `<tool_response>`, Class: highlight.ClassFunc},
		{Pattern: `</tool_response>`, Class: highlight.ClassFunc},
		{Pattern: `<arg_key>`, Class: highlight.ClassDSML},
		{Pattern: `</arg_key>`, Class: highlight.ClassDSML},
		{Pattern: `<arg_value>`, Class: highlight.ClassDSML},
		{Pattern: `</arg_value>`, Class: highlight.ClassDSML},
	}),
	DefaultOptions: Options{OptEnableThinking: true},
}

// ===== MINIMAX-M2 =====

var minimaxM2 = &Definition{
	ID:          "minimax-m2",
	DisplayName: "MiniMax-M2",
	TokenizerID: "MiniMaxAI/MiniMax-M2.1",
	BOSToken:    "]~!b[",
	EOSToken:    "[e~[",
	Program: Program{
		Turns: map[model.Role]TurnRule{
			model.RoleSystem:    {Open: "]~b]system\n", Close: "[e~["},
			model.RoleDeveloper: {Open: "]~b]system\n", Close: "[e~["},
			model.RoleUser:      {Open: "]~b]user\n", Close: "[e~["},
			model.RoleAssistant: {Open: "]~b]ai\n", Close: "[e~["},
			model.RoleTool:      {Open: "]~b]tool\n<response>", Close: "</response>[e~["},
		},
		Think: ThinkRule{Open: "<think>\n", Close: "\n</think>\n\n"},
		ToolCalls: ToolCallRule{
			BlockOpen:   "\n<minimax:tool_call>\n",
			CallOpen:    "<invoke name=\"",
			NameArgsSep: "\">\n",
			CallClose:   "\n</invoke>\n",
			BlockClose:  "</minimax:tool_call>",
		},
		Tools: BlockRule{
			Open:  "]~b]system\n<tools>\n",
			Close: "\n</tools>[e~[",
		},
		GenPrompt:         "]~b]ai\n",
		GenPromptThinking: "]~b]ai\n<think>\n",
	},
	Patterns: highlight.MustCompile([]highlight.Spec{
		{Pattern: `\]~!b\[`, Class: highlight.ClassBOSEOS},
		{Pattern: `\]~b\]`, Class: highlight.ClassBOSEOS},
		{Pattern: `\[e~\[`, Class: highlight.ClassBOSEOS},
		{Pattern: `\]~b\]system`, Class: highlight.ClassRole},
		{Pattern: `\]~b\]user`, Class: highlight.ClassRole},
		{Pattern: `\]~b\]ai`, Class: highlight.ClassRole},
		{Pattern: `\]~b\]tool`, Class: highlight.ClassRole},
		{Pattern: `<think>`, Class: highlight.ClassThink},
		{Pattern: `</think>`, Class: highlight.ClassThink},
		{Pattern: `<tools>`, Class: highlight.ClassFunc},
		{Pattern: `</tools>`, Class: highlight.ClassFunc},
		{Pattern: `<tool>`, Class: highlight.ClassFunc},
		{Pattern: `</tool>`, Class: highlight.ClassFunc},
		{Pattern: `<minimax:tool_call>`, Class: highlight.ClassFunc},
		{Pattern: `</minimax:tool_call>`, Class: highlight.ClassFunc},
		{Pattern: `<invoke[^>]*>`, Class: highlight.ClassFunc},
		{Pattern: `</invoke>`, Class: highlight.ClassFunc},
		{Pattern: `<parameter[^>]*>`, Class: highlight.ClassDSML},
		{Pattern: `</parameter>`, Class: highlight.ClassDSML},
		{Pattern: `<response>`, Class: highlight.ClassFunc},
		{Pattern: `</response>`, Class: highlight.ClassFunc},
	}),
	DefaultOptions: Options{OptEnableThinking: true},
}

// ===== CATALOG =====

// Builtins returns the shipped definitions in catalog order. The returned
// slice is fresh but the definitions are shared; treat them as read-only.
func Builtins() []*Definition {
	return []*Definition{deepseekV31, qwen3, glm45, minimaxM2}
}

// NewBuiltinRegistry builds a registry holding exactly the builtin catalog.
// The catalog is static and known-valid, so construction cannot fail.
func NewBuiltinRegistry() *Registry {
	r, err := NewRegistry(Builtins()...)
	if err != nil {
		panic("template: builtin catalog invalid: " + err.Error())
	}
	return r
}
