// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package template

import (
	"errors"
	"strings"
	"testing"

	"github.com/jeranaias/promptforge/internal/model"
)

// skyConversation builds the five-message demo exchange used across the
// render tests: system, user question, assistant tool call with reasoning,
// tool result, final assistant answer with reasoning.
func skyConversation() *model.Conversation {
	conv := model.NewConversation()
	conv.Append(model.NewSystemMessage("You are a helpful assistant."))
	conv.Append(model.NewUserMessage("Why is the sky blue?"))

	call := model.NewAssistantMessage("")
	call.Reasoning = "The user asked why the sky is blue. I can use the search tool to find relevant information."
	call.AddToolCall("search", `{"query": "Why is the sky blue?"}`)
	conv.Append(call)

	conv.Append(model.NewToolMessage("The sky appears blue due to a phenomenon called Rayleigh scattering, which is the scattering of sunlight by the molecules and tiny particles in Earth's atmosphere."))

	answer := model.NewAssistantMessage("The sky appears blue due to a phenomenon called Rayleigh scattering, which is the scattering of sunlight by the molecules and tiny particles in Earth's atmosphere.")
	answer.Reasoning = "The search tool returned the following information: The sky appears blue due to a phenomenon called Rayleigh scattering."
	conv.Append(answer)

	return conv
}

func mustRender(t *testing.T, conv *model.Conversation, def *Definition, opts Options) string {
	t.Helper()
	out, err := Render(conv, def, opts)
	if err != nil {
		t.Fatalf("Render(%s) failed: %v", def.ID, err)
	}
	return out
}

func TestRender_EmptyConversationIsExactlyBOS(t *testing.T) {
	for _, def := range Builtins() {
		t.Run(def.ID, func(t *testing.T) {
			out := mustRender(t, model.NewConversation(), def, Options{})
			if out != def.BOSToken {
				t.Errorf("empty conversation rendered %q, want bare BOS %q", out, def.BOSToken)
			}
		})
	}
}

func TestRender_NilConversationIsExactlyBOS(t *testing.T) {
	for _, def := range Builtins() {
		t.Run(def.ID, func(t *testing.T) {
			out := mustRender(t, nil, def, Options{})
			if out != def.BOSToken {
				t.Errorf("nil conversation rendered %q, want bare BOS %q", out, def.BOSToken)
			}
		})
	}
}

func TestRender_SystemUserGoldens(t *testing.T) {
	conv := model.NewConversation()
	conv.Append(model.NewSystemMessage("You are a helpful assistant."))
	conv.Append(model.NewUserMessage("Why is the sky blue?"))
	opts := Options{OptAddGenerationPrompt: true}

	tests := []struct {
		modelID string
		want    string
	}{
		{
			modelID: "deepseek-v3.1",
			want: "<｜begin▁of▁sentence｜>You are a helpful assistant." +
				"<｜User｜>Why is the sky blue?<｜Assistant｜><think>",
		},
		{
			modelID: "qwen3",
			want: "<|im_start|>system\nYou are a helpful assistant.<|im_end|>\n" +
				"<|im_start|>user\nWhy is the sky blue?<|im_end|>\n" +
				"<|im_start|>assistant\n",
		},
		{
			modelID: "glm-4.5",
			want: "[gMASK]<sop><|system|>\nYou are a helpful assistant." +
				"<|user|>\nWhy is the sky blue?<|assistant|>",
		},
		{
			modelID: "minimax-m2",
			want: "]~!b[]~b]system\nYou are a helpful assistant.[e~[" +
				"]~b]user\nWhy is the sky blue?[e~[]~b]ai\n<think>\n",
		},
	}

	reg := NewBuiltinRegistry()
	for _, tt := range tests {
		t.Run(tt.modelID, func(t *testing.T) {
			def, err := reg.Lookup(tt.modelID)
			if err != nil {
				t.Fatalf("Lookup(%q) failed: %v", tt.modelID, err)
			}
			got := mustRender(t, conv, def, opts)
			if got != tt.want {
				t.Errorf("render mismatch\ngot:  %q\nwant: %q", got, tt.want)
			}
		})
	}
}

func TestRender_SystemUserGoldens_ThinkingOff(t *testing.T) {
	conv := model.NewConversation()
	conv.Append(model.NewUserMessage("Hello"))
	opts := Options{OptAddGenerationPrompt: true, OptEnableThinking: false}

	tests := []struct {
		modelID string
		want    string
	}{
		{"deepseek-v3.1", "<｜begin▁of▁sentence｜><｜User｜>Hello<｜Assistant｜></think>"},
		{"qwen3", "<|im_start|>user\nHello<|im_end|>\n<|im_start|>assistant\n<think>\n\n</think>\n\n"},
		{"glm-4.5", "[gMASK]<sop><|user|>\nHello<|assistant|>\n<think></think>"},
		{"minimax-m2", "]~!b[]~b]user\nHello[e~[]~b]ai\n"},
	}

	reg := NewBuiltinRegistry()
	for _, tt := range tests {
		t.Run(tt.modelID, func(t *testing.T) {
			def, err := reg.Lookup(tt.modelID)
			if err != nil {
				t.Fatalf("Lookup(%q) failed: %v", tt.modelID, err)
			}
			got := mustRender(t, conv, def, opts)
			if got != tt.want {
				t.Errorf("render mismatch\ngot:  %q\nwant: %q", got, tt.want)
			}
		})
	}
}

func TestRender_BOSAppearsExactlyOnce(t *testing.T) {
	conv := skyConversation()
	for _, def := range Builtins() {
		if def.BOSToken == "" {
			continue
		}
		t.Run(def.ID, func(t *testing.T) {
			out := mustRender(t, conv, def, Options{OptAddGenerationPrompt: true})
			if n := strings.Count(out, def.BOSToken); n != 1 {
				t.Errorf("BOS token %q appears %d times, want 1", def.BOSToken, n)
			}
			if !strings.HasPrefix(out, def.BOSToken) {
				t.Errorf("output does not start with BOS token %q", def.BOSToken)
			}
		})
	}
}

func TestRender_GenerationPromptIsStrictSuffixAppend(t *testing.T) {
	conv := skyConversation()
	for _, def := range Builtins() {
		t.Run(def.ID, func(t *testing.T) {
			base := mustRender(t, conv, def, Options{OptAddGenerationPrompt: false})
			withGen := mustRender(t, conv, def, Options{OptAddGenerationPrompt: true})
			if !strings.HasPrefix(withGen, base) {
				t.Fatalf("generation-prompt output is not an extension of the base render")
			}
			if len(withGen) <= len(base) {
				t.Errorf("generation prompt added nothing: %d vs %d bytes", len(withGen), len(base))
			}
		})
	}
}

func TestRender_ReasoningOnlyOnFinalAssistantTurn(t *testing.T) {
	conv := skyConversation()
	intermediate := "The user asked why the sky is blue. I can use the search tool"
	final := "The search tool returned the following information"

	for _, def := range Builtins() {
		t.Run(def.ID, func(t *testing.T) {
			out := mustRender(t, conv, def, Options{OptEnableThinking: true})
			if strings.Contains(out, intermediate) {
				t.Errorf("non-final assistant reasoning leaked into the render")
			}
			if n := strings.Count(out, final); n != 1 {
				t.Errorf("final assistant reasoning appears %d times, want exactly 1", n)
			}
			wrapped := def.Program.Think.Open + "The search tool returned"
			if !strings.Contains(out, wrapped) {
				t.Errorf("final reasoning is not wrapped in think delimiters: missing %q", wrapped)
			}
		})
	}
}

func TestRender_ReasoningSuppressedWhenThinkingDisabled(t *testing.T) {
	conv := skyConversation()
	for _, def := range Builtins() {
		t.Run(def.ID, func(t *testing.T) {
			out := mustRender(t, conv, def, Options{OptEnableThinking: false})
			if strings.Contains(out, "The user asked why the sky is blue") {
				t.Errorf("intermediate reasoning emitted with thinking disabled")
			}
			if strings.Contains(out, "The search tool returned the following information") {
				t.Errorf("final reasoning emitted with thinking disabled")
			}
		})
	}
}

func TestRender_ToolCallArgumentsVerbatim(t *testing.T) {
	const args = `{"a": 1,   "b":2}`
	conv := model.NewConversation()
	conv.Append(model.NewUserMessage("go"))
	msg := model.NewAssistantMessage("")
	msg.AddToolCall("search", args)
	conv.Append(msg)

	for _, def := range Builtins() {
		t.Run(def.ID, func(t *testing.T) {
			out := mustRender(t, conv, def, Options{})
			if !strings.Contains(out, args) {
				t.Errorf("tool-call arguments were not passed through verbatim\noutput: %q", out)
			}
		})
	}
}

func TestRender_ToolCallsKeepListOrder(t *testing.T) {
	conv := model.NewConversation()
	msg := model.NewAssistantMessage("")
	msg.AddToolCall("alpha", `{"n":1}`)
	msg.AddToolCall("beta", `{"n":2}`)
	msg.AddToolCall("gamma", `{"n":3}`)
	conv.Append(msg)

	for _, def := range Builtins() {
		t.Run(def.ID, func(t *testing.T) {
			out := mustRender(t, conv, def, Options{})
			ia := strings.Index(out, "alpha")
			ib := strings.Index(out, "beta")
			ig := strings.Index(out, "gamma")
			if ia < 0 || ib < 0 || ig < 0 {
				t.Fatalf("missing call names in output %q", out)
			}
			if !(ia < ib && ib < ig) {
				t.Errorf("call order not preserved: alpha=%d beta=%d gamma=%d", ia, ib, ig)
			}
		})
	}
}

func TestRender_ToolsBlockAfterLeadingSystemTurn(t *testing.T) {
	const tools = `{"name": "search"}`
	conv := model.NewConversation()
	conv.Append(model.NewSystemMessage("Be helpful."))
	conv.Append(model.NewUserMessage("hi"))

	for _, def := range Builtins() {
		t.Run(def.ID, func(t *testing.T) {
			out := mustRender(t, conv, def, Options{OptTools: tools})
			sys := strings.Index(out, "Be helpful.")
			tl := strings.Index(out, tools)
			usr := strings.Index(out, "hi")
			if sys < 0 || tl < 0 || usr < 0 {
				t.Fatalf("expected content missing from %q", out)
			}
			if !(sys < tl && tl < usr) {
				t.Errorf("tools block misplaced: system=%d tools=%d user=%d", sys, tl, usr)
			}
		})
	}
}

func TestRender_ToolsBlockAfterBOSWithoutSystemTurn(t *testing.T) {
	const tools = `{"name": "search"}`
	conv := model.NewConversation()
	conv.Append(model.NewUserMessage("hi"))

	for _, def := range Builtins() {
		t.Run(def.ID, func(t *testing.T) {
			out := mustRender(t, conv, def, Options{OptTools: tools})
			tl := strings.Index(out, tools)
			usr := strings.Index(out, "hi")
			if tl < 0 || usr < 0 {
				t.Fatalf("expected content missing from %q", out)
			}
			if tl > usr {
				t.Errorf("tools block should precede the first turn: tools=%d user=%d", tl, usr)
			}
			if def.BOSToken != "" && !strings.HasPrefix(out, def.BOSToken) {
				t.Errorf("BOS token no longer leads the output")
			}
		})
	}
}

func TestRender_NoToolsOptionMeansNoToolsBlock(t *testing.T) {
	conv := model.NewConversation()
	conv.Append(model.NewUserMessage("hi"))

	for _, def := range Builtins() {
		t.Run(def.ID, func(t *testing.T) {
			out := mustRender(t, conv, def, Options{})
			if def.Program.Tools.Open != "" && strings.Contains(out, def.Program.Tools.Open) {
				t.Errorf("tools block emitted without a tools option")
			}
		})
	}
}

func TestRender_DeveloperRoleRenders(t *testing.T) {
	conv := model.NewConversation()
	conv.Append(model.NewMessage(model.RoleDeveloper, "Prefer concise answers."))
	conv.Append(model.NewUserMessage("hi"))

	tests := []struct {
		modelID string
		marker  string
	}{
		{"qwen3", "<|im_start|>developer\nPrefer concise answers.<|im_end|>\n"},
		{"glm-4.5", "<|system|>\nPrefer concise answers."},
		{"minimax-m2", "]~b]system\nPrefer concise answers.[e~["},
		{"deepseek-v3.1", "Prefer concise answers."},
	}

	reg := NewBuiltinRegistry()
	for _, tt := range tests {
		t.Run(tt.modelID, func(t *testing.T) {
			def, err := reg.Lookup(tt.modelID)
			if err != nil {
				t.Fatalf("Lookup(%q) failed: %v", tt.modelID, err)
			}
			out := mustRender(t, conv, def, Options{})
			if !strings.Contains(out, tt.marker) {
				t.Errorf("developer turn missing %q in %q", tt.marker, out)
			}
		})
	}
}

func TestRender_ReasoningIgnoredOutsideAssistantTurns(t *testing.T) {
	conv := model.NewConversation()
	msg := model.NewUserMessage("hello")
	msg.Reasoning = "should never appear"
	msg.AddToolCall("search", `{"q":"x"}`)
	conv.Append(msg)

	for _, def := range Builtins() {
		t.Run(def.ID, func(t *testing.T) {
			out := mustRender(t, conv, def, Options{OptEnableThinking: true})
			if strings.Contains(out, "should never appear") {
				t.Errorf("user-turn reasoning leaked into the render")
			}
			if strings.Contains(out, `{"q":"x"}`) {
				t.Errorf("user-turn tool calls leaked into the render")
			}
		})
	}
}

func TestRender_UnknownRoleFallsBackToUserFrame(t *testing.T) {
	conv := model.NewConversation()
	conv.Append(model.NewMessage(model.Role("moderator"), "keep it civil"))

	def := qwen3
	out := mustRender(t, conv, def, Options{})
	if !strings.Contains(out, "<|im_start|>user\nkeep it civil<|im_end|>\n") {
		t.Errorf("unknown role did not fall back to the user frame: %q", out)
	}
}

func TestRender_Deterministic(t *testing.T) {
	conv := skyConversation()
	opts := Options{OptAddGenerationPrompt: true, OptTools: `{"name": "search"}`}
	for _, def := range Builtins() {
		t.Run(def.ID, func(t *testing.T) {
			first := mustRender(t, conv, def, opts)
			for i := 0; i < 10; i++ {
				if got := mustRender(t, conv, def, opts); got != first {
					t.Fatalf("render %d differed from the first", i)
				}
			}
		})
	}
}

func TestRender_CallerOptionsOverrideDefaults(t *testing.T) {
	// Builtins default enable_thinking=true; an explicit false must win.
	conv := model.NewConversation()
	msg := model.NewAssistantMessage("fine")
	msg.Reasoning = "hidden"
	conv.Append(msg)

	out := mustRender(t, conv, qwen3, Options{OptEnableThinking: false})
	if strings.Contains(out, "hidden") {
		t.Errorf("caller enable_thinking=false did not override the default")
	}

	out = mustRender(t, conv, qwen3, Options{})
	if !strings.Contains(out, "hidden") {
		t.Errorf("default enable_thinking=true was not applied")
	}
}

func TestRender_MalformedProgramFails(t *testing.T) {
	def := &Definition{
		ID:          "broken",
		DisplayName: "Broken",
		Program: Program{
			Turns: map[model.Role]TurnRule{
				model.RoleUser: {Open: "u:"},
			},
		},
	}

	_, err := Render(model.NewConversation(), def, Options{})
	if err == nil {
		t.Fatal("expected a program validation error")
	}
	var terr *TemplateError
	if !errors.As(err, &terr) {
		t.Fatalf("error type = %T, want *TemplateError", err)
	}
	if terr.Model != "broken" {
		t.Errorf("TemplateError.Model = %q, want %q", terr.Model, "broken")
	}
}

func TestRender_FinalEOSAppendsOnce(t *testing.T) {
	def := &Definition{
		ID:          "seq-eos",
		DisplayName: "Sequence EOS",
		EOSToken:    "<eos>",
		Program: Program{
			Turns: map[model.Role]TurnRule{
				model.RoleSystem:    {Open: "s:", Close: "\n"},
				model.RoleDeveloper: {Open: "d:", Close: "\n"},
				model.RoleUser:      {Open: "u:", Close: "\n"},
				model.RoleAssistant: {Open: "a:", Close: "\n"},
				model.RoleTool:      {Open: "t:", Close: "\n"},
			},
			FinalEOS: true,
		},
	}

	conv := model.NewConversation()
	conv.Append(model.NewUserMessage("x"))
	conv.Append(model.NewAssistantMessage("y"))

	out := mustRender(t, conv, def, Options{})
	if got, want := out, "u:x\na:y\n<eos>"; got != want {
		t.Errorf("FinalEOS render = %q, want %q", got, want)
	}
}
