// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package template

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jeranaias/promptforge/internal/highlight"
	"github.com/jeranaias/promptforge/internal/model"
)

const llamaDefinition = `
id = "llama3"
display_name = "Llama 3"
tokenizer_id = "meta-llama/Meta-Llama-3-8B-Instruct"
bos_token = "<|begin_of_text|>"
eos_token = "<|eot_id|>"

[program]
gen_prompt = "<|start_header_id|>assistant<|end_header_id|>\n\n"

[program.turns.system]
open = "<|start_header_id|>system<|end_header_id|>\n\n"
close = "<|eot_id|>"

[program.turns.developer]
open = "<|start_header_id|>system<|end_header_id|>\n\n"
close = "<|eot_id|>"

[program.turns.user]
open = "<|start_header_id|>user<|end_header_id|>\n\n"
close = "<|eot_id|>"

[program.turns.assistant]
open = "<|start_header_id|>assistant<|end_header_id|>\n\n"
close = "<|eot_id|>"

[program.turns.tool]
open = "<|start_header_id|>ipython<|end_header_id|>\n\n"
close = "<|eot_id|>"

[[patterns]]
pattern = '<\|begin_of_text\|>'
class = "bos_eos"

[[patterns]]
pattern = '<\|eot_id\|>'
class = "bos_eos"

[[patterns]]
pattern = '<\|start_header_id\|>'
class = "role"

[default_options]
enable_thinking = false
`

func writeDefinition(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadDefinition_FullFile(t *testing.T) {
	path := writeDefinition(t, t.TempDir(), "llama3.toml", llamaDefinition)

	def, err := LoadDefinition(path)
	if err != nil {
		t.Fatalf("LoadDefinition failed: %v", err)
	}

	if def.ID != "llama3" {
		t.Errorf("ID = %q, want %q", def.ID, "llama3")
	}
	if def.DisplayName != "Llama 3" {
		t.Errorf("DisplayName = %q, want %q", def.DisplayName, "Llama 3")
	}
	if def.BOSToken != "<|begin_of_text|>" {
		t.Errorf("BOSToken = %q", def.BOSToken)
	}
	if def.Source != path {
		t.Errorf("Source = %q, want %q", def.Source, path)
	}
	if got := def.Program.Turns[model.RoleUser].Open; got != "<|start_header_id|>user<|end_header_id|>\n\n" {
		t.Errorf("user turn open = %q", got)
	}
	if len(def.Patterns) != 3 {
		t.Errorf("compiled %d patterns, want 3", len(def.Patterns))
	}
	if def.DefaultOptions.Bool(OptEnableThinking) {
		t.Errorf("default_options enable_thinking should be false")
	}
}

func TestLoadDefinition_RendersLikeABuiltin(t *testing.T) {
	path := writeDefinition(t, t.TempDir(), "llama3.toml", llamaDefinition)
	def, err := LoadDefinition(path)
	if err != nil {
		t.Fatalf("LoadDefinition failed: %v", err)
	}

	conv := model.NewConversation()
	conv.Append(model.NewUserMessage("hello"))

	out, err := Render(conv, def, Options{OptAddGenerationPrompt: true})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	want := "<|begin_of_text|>" +
		"<|start_header_id|>user<|end_header_id|>\n\nhello<|eot_id|>" +
		"<|start_header_id|>assistant<|end_header_id|>\n\n"
	if out != want {
		t.Errorf("render mismatch\ngot:  %q\nwant: %q", out, want)
	}
}

func TestLoadDefinition_IDFallsBackToFileStem(t *testing.T) {
	content := `
display_name = "Nameless"

[program.turns.system]
[program.turns.developer]
[program.turns.user]
open = "u:"
[program.turns.assistant]
open = "a:"
[program.turns.tool]
`
	path := writeDefinition(t, t.TempDir(), "custom-model.toml", content)

	def, err := LoadDefinition(path)
	if err != nil {
		t.Fatalf("LoadDefinition failed: %v", err)
	}
	if def.ID != "custom-model" {
		t.Errorf("ID = %q, want the file stem %q", def.ID, "custom-model")
	}
}

func TestLoadDefinition_BadPatternFailsAtLoad(t *testing.T) {
	content := `
id = "bad"
display_name = "Bad"

[program.turns.system]
[program.turns.developer]
[program.turns.user]
[program.turns.assistant]
[program.turns.tool]

[[patterns]]
pattern = '('
class = "func"
`
	path := writeDefinition(t, t.TempDir(), "bad.toml", content)

	_, err := LoadDefinition(path)
	if err == nil {
		t.Fatal("expected a pattern compilation error")
	}
	var perr *highlight.PatternError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T, want *highlight.PatternError", err)
	}
}

func TestLoadDefinition_NoPatternsFailsAtLoad(t *testing.T) {
	content := `
id = "plain"
display_name = "Plain"

[program.turns.system]
open = "s:"
[program.turns.developer]
open = "d:"
[program.turns.user]
open = "u:"
[program.turns.assistant]
open = "a:"
[program.turns.tool]
open = "t:"
`
	path := writeDefinition(t, t.TempDir(), "plain.toml", content)

	_, err := LoadDefinition(path)
	if err == nil {
		t.Fatal("a definition without token patterns should fail to load")
	}
	var perr *highlight.PatternError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T, want *highlight.PatternError", err)
	}
}

func TestLoadDefinition_MissingTurnRuleFailsAtLoad(t *testing.T) {
	content := `
id = "partial"
display_name = "Partial"

[program.turns.user]
open = "u:"
`
	path := writeDefinition(t, t.TempDir(), "partial.toml", content)

	_, err := LoadDefinition(path)
	if err == nil {
		t.Fatal("expected a program validation error")
	}
	var terr *TemplateError
	if !errors.As(err, &terr) {
		t.Fatalf("error type = %T, want *TemplateError", err)
	}
}

func TestLoadDir_SkipsBrokenFilesAndIgnoresOthers(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "llama3.toml", llamaDefinition)
	writeDefinition(t, dir, "broken.toml", "id = [not toml")
	writeDefinition(t, dir, "notes.txt", "ignored")

	defs, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if len(defs) != 1 {
		t.Fatalf("loaded %d definitions, want 1", len(defs))
	}
	if defs[0].ID != "llama3" {
		t.Errorf("loaded %q, want llama3", defs[0].ID)
	}
}

func TestLoadDir_MissingDirectoryIsEmpty(t *testing.T) {
	defs, err := LoadDir(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("LoadDir on a missing dir should not fail: %v", err)
	}
	if len(defs) != 0 {
		t.Errorf("loaded %d definitions from a missing dir", len(defs))
	}
}

func TestBuildRegistry_CustomDefinitionOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	override := `
id = "qwen3"
display_name = "Qwen3 Patched"

[program.turns.system]
open = "s:"
[program.turns.developer]
open = "d:"
[program.turns.user]
open = "u:"
[program.turns.assistant]
open = "a:"
[program.turns.tool]
open = "t:"
`
	writeDefinition(t, dir, "qwen3.toml", override)

	reg, err := BuildRegistry(dir)
	if err != nil {
		t.Fatalf("BuildRegistry failed: %v", err)
	}
	if reg.Len() != 4 {
		t.Fatalf("Len() = %d, want 4 (override replaces, not appends)", reg.Len())
	}
	if ids := reg.IDs(); ids[1] != "qwen3" {
		t.Errorf("qwen3 lost its catalog slot: %v", ids)
	}
	def, err := reg.Lookup("qwen3")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if def.DisplayName != "Qwen3 Patched" {
		t.Errorf("DisplayName = %q, want the override", def.DisplayName)
	}
}

func TestBuildRegistry_EmptyDirGivesBuiltinsOnly(t *testing.T) {
	reg, err := BuildRegistry("")
	if err != nil {
		t.Fatalf("BuildRegistry failed: %v", err)
	}
	if reg.Len() != len(Builtins()) {
		t.Errorf("Len() = %d, want %d", reg.Len(), len(Builtins()))
	}
}
