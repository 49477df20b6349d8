// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
package commands

import (
	"strings"
	"testing"
)

// =============================================================================
// PARSER TESTS
// =============================================================================

func TestIsCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"/help", true},
		{"/model qwen3", true},
		{"  /help", true},
		{"hello", false},
		{"hello /help", false},
		{"", false},
		{"/", true},
	}

	for _, tc := range tests {
		got := IsCommand(tc.input)
		if got != tc.want {
			t.Errorf("IsCommand(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestExtractCommandName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/help", "/help"},
		{"/model qwen3", "/model"},
		{"/save my-prompt", "/save"},
		{"  /help  ", "/help"},
		{"hello", ""},
		{"/", "/"},
	}

	for _, tc := range tests {
		got := ExtractCommandName(tc.input)
		if got != tc.want {
			t.Errorf("ExtractCommandName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"/help", []string{"/help"}},
		{"/model qwen3", []string{"/model", "qwen3"}},
		{`/save "my prompt"`, []string{"/save", "my prompt"}},
		{`/save 'my prompt'`, []string{"/save", "my prompt"}},
		{"/config key value", []string{"/config", "key", "value"}},
		{`/export html "dir with spaces"`, []string{"/export", "html", "dir with spaces"}},
		{`/save "escaped \" quote"`, []string{"/save", `escaped " quote`}},
		{"/add user 你好 世界", []string{"/add", "user", "你好", "世界"}},
	}

	for _, tc := range tests {
		got := ParseArgs(tc.input)
		if len(got) != len(tc.want) {
			t.Errorf("ParseArgs(%q) = %v, want %v", tc.input, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("ParseArgs(%q)[%d] = %q, want %q", tc.input, i, got[i], tc.want[i])
			}
		}
	}
}

func TestParser_Parse(t *testing.T) {
	r := NewRegistry()
	p := NewParser(r)

	tests := []struct {
		input     string
		isCommand bool
		cmdName   string
		argsLen   int
	}{
		{"/help", true, "/help", 0},
		{"/model qwen3", true, "/model", 1},
		{"hello world", false, "", 0},
		{"/nonexistent", true, "/nonexistent", 0},
		{`/save "my prompt"`, true, "/save", 1},
		{"/move 2 up", true, "/move", 2},
	}

	for _, tc := range tests {
		result := p.Parse(tc.input)

		if result.IsCommand != tc.isCommand {
			t.Errorf("Parse(%q).IsCommand = %v, want %v", tc.input, result.IsCommand, tc.isCommand)
		}

		if result.CommandName != tc.cmdName {
			t.Errorf("Parse(%q).CommandName = %q, want %q", tc.input, result.CommandName, tc.cmdName)
		}

		if len(result.Args) != tc.argsLen {
			t.Errorf("Parse(%q) args length = %d, want %d", tc.input, len(result.Args), tc.argsLen)
		}
	}
}

func TestParser_Parse_CommandLookup(t *testing.T) {
	r := NewRegistry()
	p := NewParser(r)

	// Existing command
	result := p.Parse("/help")
	if result.Command == nil {
		t.Error("Parse(/help).Command should not be nil")
	}

	// Alias lookup
	result = p.Parse("/m qwen3")
	if result.Command == nil {
		t.Error("Parse(/m).Command should not be nil (alias)")
	}
	if result.Command != nil && result.Command.Name != "/model" {
		t.Errorf("Parse(/m).Command.Name = %q, want /model", result.Command.Name)
	}

	// Non-existent command
	result = p.Parse("/nonexistent")
	if result.Command != nil {
		t.Error("Parse(/nonexistent).Command should be nil")
	}
}

func TestParser_Parse_RawArgs(t *testing.T) {
	r := NewRegistry()
	p := NewParser(r)

	result := p.Parse(`/save  my long title`)
	if result.RawArgs != "my long title" {
		t.Errorf("RawArgs = %q, want %q", result.RawArgs, "my long title")
	}
}

// =============================================================================
// REGISTRY TESTS
// =============================================================================

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	// Should have built-in commands
	if len(r.commands) == 0 {
		t.Error("Registry should have built-in commands")
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	cmd := &Command{
		Name:        "/test",
		Aliases:     []string{"/t"},
		Description: "Test command",
	}

	r.Register(cmd)

	if r.Get("/test") == nil {
		t.Error("Should get command by name")
	}

	if r.Get("/t") == nil {
		t.Error("Should get command by alias")
	}
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()

	// Built-in commands
	if r.Get("/help") == nil {
		t.Error("/help command should exist")
	}

	if r.Get("/h") == nil {
		t.Error("/h alias should resolve to /help")
	}

	if r.Get("/?") == nil {
		t.Error("/? alias should resolve to /help")
	}

	if r.Get("/clear") == nil {
		t.Error("/clear alias should resolve to /new")
	}

	if r.Get("/nonexistent") != nil {
		t.Error("/nonexistent should return nil")
	}
}

func TestRegistry_All(t *testing.T) {
	r := NewRegistry()
	all := r.All()

	if len(all) == 0 {
		t.Error("All() should return commands")
	}

	found := make(map[string]bool)
	for _, cmd := range all {
		found[cmd.Name] = true
	}

	essentials := []string{
		"/help", "/quit", "/model", "/thinking", "/genprompt", "/tools",
		"/reset", "/export", "/add", "/remove", "/save", "/load",
	}
	for _, name := range essentials {
		if !found[name] {
			t.Errorf("Essential command %s not found in All()", name)
		}
	}
}

func TestRegistry_ByCategory(t *testing.T) {
	r := NewRegistry()
	byCategory := r.ByCategory()

	if len(byCategory) == 0 {
		t.Error("ByCategory() should return categories")
	}

	for _, cat := range CategoryOrder {
		if _, ok := byCategory[cat]; !ok {
			t.Errorf("Expected category %q not found", cat)
		}
	}

	// Hidden commands should not appear
	r.Register(&Command{Name: "/secret", Hidden: true, Category: "Navigation"})
	for _, cmds := range r.ByCategory() {
		for _, cmd := range cmds {
			if cmd.Hidden {
				t.Errorf("Hidden command %s should not appear in ByCategory()", cmd.Name)
			}
		}
	}
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidateArgs(t *testing.T) {
	cmdWithRequired := &Command{
		Name: "/test",
		Args: []ArgDef{
			{Name: "required_arg", Required: true, Description: "A required argument"},
		},
	}

	// Missing required argument
	if err := ValidateArgs(cmdWithRequired, []string{}); err == nil {
		t.Error("ValidateArgs should return error for missing required argument")
	}

	// Provided required argument
	if err := ValidateArgs(cmdWithRequired, []string{"value"}); err != nil {
		t.Errorf("ValidateArgs should not error when required argument provided: %v", err)
	}

	cmdWithEnum := &Command{
		Name: "/move",
		Args: []ArgDef{
			{Name: "direction", Required: true, Type: ArgTypeEnum, Values: []string{"up", "down"}},
		},
	}

	// Valid enum value
	if err := ValidateArgs(cmdWithEnum, []string{"up"}); err != nil {
		t.Errorf("ValidateArgs should accept valid enum value: %v", err)
	}

	// Invalid enum value
	if err := ValidateArgs(cmdWithEnum, []string{"sideways"}); err == nil {
		t.Error("ValidateArgs should reject invalid enum value")
	}

	// Case insensitive enum
	if err := ValidateArgs(cmdWithEnum, []string{"UP"}); err != nil {
		t.Errorf("ValidateArgs should accept case-insensitive enum: %v", err)
	}

	// Nil command should not error
	if err := ValidateArgs(nil, []string{"anything"}); err != nil {
		t.Errorf("ValidateArgs(nil) should not error: %v", err)
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Command:  "/test",
		Arg:      "arg1",
		Message:  "invalid value",
		Got:      "bad",
		Expected: "good1, good2",
	}

	errStr := err.Error()
	if errStr == "" {
		t.Fatal("Error() should return non-empty string")
	}

	for _, s := range []string{"/test", "arg1", "invalid value", "bad", "good1, good2"} {
		if !strings.Contains(errStr, s) {
			t.Errorf("Error() should contain %q, got: %s", s, errStr)
		}
	}
}

// =============================================================================
// CONTEXT TESTS
// =============================================================================

func TestNewContext(t *testing.T) {
	ctx := NewContext(nil, nil, nil, nil)
	if ctx == nil {
		t.Fatal("NewContext() returned nil")
	}
}

func TestContext_RegistryFallback(t *testing.T) {
	// Nil context and empty context both resolve to nil
	var nilCtx *Context
	if nilCtx.registry() != nil {
		t.Error("nil context should have nil registry")
	}

	ctx := NewContext(nil, nil, nil, nil)
	if ctx.registry() != nil {
		t.Error("empty context should have nil registry")
	}
}

// =============================================================================
// ARGTYPE TESTS
// =============================================================================

func TestArgType_Values(t *testing.T) {
	types := []ArgType{
		ArgTypeString,
		ArgTypeModel,
		ArgTypeSession,
		ArgTypeMessage,
		ArgTypeRole,
		ArgTypeEnum,
		ArgTypeFile,
		ArgTypeConfig,
	}

	for i, at := range types {
		if int(at) != i {
			t.Errorf("ArgType constant %d has unexpected value %d", i, at)
		}
	}
}

// =============================================================================
// COMMAND DEFINITION TESTS
// =============================================================================

func TestCommand_Fields(t *testing.T) {
	cmd := &Command{
		Name:        "/test",
		Aliases:     []string{"/t", "/tst"},
		Description: "Test command",
		Usage:       "/test <arg>",
		Category:    "Testing",
		Hidden:      false,
		Args: []ArgDef{
			{Name: "arg", Required: true, Type: ArgTypeString, Description: "Test argument"},
		},
	}

	if cmd.Name != "/test" {
		t.Error("Command.Name not set correctly")
	}

	if len(cmd.Aliases) != 2 {
		t.Error("Command.Aliases not set correctly")
	}

	if cmd.Category != "Testing" {
		t.Error("Command.Category not set correctly")
	}

	if len(cmd.Args) != 1 {
		t.Error("Command.Args not set correctly")
	}
}

func TestBuiltinCommandsHaveHandlers(t *testing.T) {
	r := NewRegistry()
	for _, cmd := range r.All() {
		if cmd.Handler == nil {
			t.Errorf("builtin %s has no handler", cmd.Name)
		}
		if cmd.Category == "" {
			t.Errorf("builtin %s has no category", cmd.Name)
		}
	}
}

func TestCompletion_Fields(t *testing.T) {
	c := Completion{
		Value:       "/help",
		Display:     "/help",
		Description: "Show help and available commands",
		Score:       100,
		IsCurrent:   true,
	}

	if c.Value != "/help" {
		t.Error("Completion.Value not set correctly")
	}

	if c.Score != 100 {
		t.Error("Completion.Score not set correctly")
	}

	if !c.IsCurrent {
		t.Error("Completion.IsCurrent not set correctly")
	}
}
