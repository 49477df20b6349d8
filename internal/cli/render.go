// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// render.go - Batch render command handler for the promptforge CLI.
//
// Handles the "promptforge render" command which reads a conversation from
// a JSON file or stdin, renders it through a model template, and writes the
// exact prompt string the model would receive.
//
// Command: render
// Short:   Render a conversation to a prompt string
// Aliases: (none)
//
// Examples:
//   promptforge render --input conv.json -m qwen3   Render for Qwen3
//   cat conv.json | promptforge render -m llama3    Read from stdin
//   promptforge render --input conv.json --spans    Emit span JSON
//   promptforge render --input conv.json --save     Record in history
//
// Flags:
//   --input FILE            Conversation JSON file (default: stdin)
//   --thinking              Enable reasoning segments
//   --no-thinking           Disable reasoning segments
//   --generation-prompt     Append the assistant generation header
//   --no-generation-prompt  Do not append the generation header
//   --tools FILE            Tool definitions JSON to include
//   --spans                 Emit JSON with highlight spans
//   --output FILE           Write the prompt to a file
//   --save                  Record the render in history
//
// Input format (array or {"messages": [...]} wrapper):
//   [
//     {"role": "system", "content": "You are helpful."},
//     {"role": "user", "content": "Hi"},
//     {"role": "assistant", "content": "", "tool_calls": [
//       {"name": "search", "arguments": {"query": "weather"}}
//     ]}
//   ]
package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/promptforge/internal/config"
	"github.com/jeranaias/promptforge/internal/export"
	"github.com/jeranaias/promptforge/internal/highlight"
	"github.com/jeranaias/promptforge/internal/history"
	"github.com/jeranaias/promptforge/internal/model"
	"github.com/jeranaias/promptforge/internal/session"
	"github.com/jeranaias/promptforge/internal/template"
	"github.com/jeranaias/promptforge/internal/util"
)

// =============================================================================
// RENDER HANDLER
// =============================================================================

// HandleRenderCommand handles the "render" command.
// This replaces the thin wrapper in cli.go.
func HandleRenderCommand(args Args) error {
	parser := NewArgParser(args.Raw)
	cfg := config.Global()

	// Builtins plus any custom definitions from the configured directory
	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	def, err := resolveModel(reg, cfg, args.Model)
	if err != nil {
		return err
	}

	data, err := readConversationInput(parser.Flag("input"))
	if err != nil {
		return err
	}
	conv, err := decodeConversation(data)
	if err != nil {
		return err
	}

	opts := buildRenderOptions(cfg, parser)
	if toolsPath := parser.Flag("tools"); toolsPath != "" {
		toolsJSON, err := readToolsFile(toolsPath)
		if err != nil {
			return err
		}
		opts[template.OptTools] = toolsJSON
	}

	prompt, err := template.Render(conv, def, opts)
	if err != nil {
		return err
	}

	wantSpans := parser.BoolFlag("spans")
	var spans []highlight.Span
	if wantSpans {
		spans = highlight.Highlight(prompt, def.Patterns)
	}

	// Record before writing output so a failed save is loud, not buried
	// under a page of prompt text.
	if parser.BoolFlag("save") {
		if err := recordRender(cfg, def, conv, prompt); err != nil {
			return err
		}
	}

	if outPath := parser.Flag("output"); outPath != "" {
		abs, err := ValidateOutputPath(outPath)
		if err != nil {
			return err
		}
		if err := util.AtomicWriteFile(abs, []byte(prompt), 0644); err != nil {
			return NewCommandError("render", "write output", "cannot write prompt file", err)
		}
		if args.JSON || wantSpans {
			return printRenderJSON(def, conv, prompt, opts, spans)
		}
		if !args.Quiet {
			StderrPrint("Wrote %s to %s\n", formatBytes(int64(len(prompt))), abs)
		}
		return nil
	}

	if args.JSON || wantSpans {
		return printRenderJSON(def, conv, prompt, opts, spans)
	}

	// Byte-exact prompt on stdout; only cosmetic newline on a terminal
	fmt.Print(prompt)
	if IsStdoutTTY() && !strings.HasSuffix(prompt, "\n") {
		fmt.Println()
	}
	return nil
}

// resolveModel picks the model definition: explicit flag, then config
// default, then the built-in default.
func resolveModel(reg *template.Registry, cfg *config.Config, flag string) (*template.Definition, error) {
	modelID := flag
	if modelID == "" {
		modelID = cfg.DefaultModel
	}
	if modelID == "" {
		modelID = template.DefaultModelID
	}
	return reg.Resolve(modelID)
}

// buildRenderOptions assembles render options from config defaults, then
// lets explicit flags override in either direction.
func buildRenderOptions(cfg *config.Config, parser *ArgParser) template.Options {
	opts := template.Options{
		template.OptEnableThinking:      cfg.Render.EnableThinking,
		template.OptAddGenerationPrompt: cfg.Render.AddGenerationPrompt,
	}

	if parser.BoolFlag("thinking") {
		opts[template.OptEnableThinking] = true
	}
	if parser.BoolFlag("no-thinking") {
		opts[template.OptEnableThinking] = false
	}
	if parser.BoolFlag("generation-prompt") {
		opts[template.OptAddGenerationPrompt] = true
	}
	if parser.BoolFlag("no-generation-prompt") {
		opts[template.OptAddGenerationPrompt] = false
	}

	return opts
}

// printRenderJSON emits the standard JSON envelope for a completed render.
func printRenderJSON(def *template.Definition, conv *model.Conversation, prompt string, opts template.Options, spans []highlight.Span) error {
	data := RenderData{
		ModelID:             def.ID,
		ModelName:           def.DisplayName,
		Prompt:              prompt,
		ByteCount:           len(prompt),
		TokenCount:          (len(prompt) + 3) / 4,
		MessageCount:        conv.Len(),
		EnableThinking:      opts.Bool(template.OptEnableThinking),
		AddGenerationPrompt: opts.Bool(template.OptAddGenerationPrompt),
		IncludeTools:        opts.String(template.OptTools) != "",
		Spans:               spans,
	}
	resp := NewJSONResponse("render", data)
	return resp.Print()
}

// =============================================================================
// CONVERSATION INPUT
// =============================================================================

// readConversationInput reads the conversation JSON from a file, or from
// stdin when no file is given and input is piped.
func readConversationInput(path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, NewCommandError("render", "read input", "cannot read conversation file", err)
		}
		return data, nil
	}

	// No file given - require piped stdin, never block on a terminal
	if IsTTY() {
		return nil, ErrMissingArgument("input",
			"promptforge render --input conv.json (or pipe JSON via stdin)")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, NewCommandError("render", "read input", "cannot read stdin", err)
	}
	return data, nil
}

// decodeConversation parses conversation JSON into a conversation. It
// accepts either a bare message array or an object with a "messages" key.
// Tool call arguments keep their raw JSON text exactly as written.
func decodeConversation(data []byte) (*model.Conversation, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, NewValidationError("input", "", "conversation JSON is empty")
	}

	var msgs []*model.Message
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &msgs); err != nil {
			return nil, NewValidationError("input", "", fmt.Sprintf("malformed conversation JSON: %v", err))
		}
	} else {
		var wrapper struct {
			Messages []*model.Message `json:"messages"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, NewValidationError("input", "", fmt.Sprintf("malformed conversation JSON: %v", err))
		}
		msgs = wrapper.Messages
	}

	conv := model.NewConversation()
	for i, m := range msgs {
		if m == nil {
			return nil, NewValidationError("message", fmt.Sprintf("#%d", i), "message must be a JSON object")
		}

		role := model.Role(strings.ToLower(strings.TrimSpace(string(m.Role))))
		if !role.Valid() {
			return nil, NewValidationErrorWithExample(
				"role",
				string(m.Role),
				fmt.Sprintf("message #%d has an unknown role", i),
				"system, user, assistant, tool, developer",
			)
		}
		m.Role = role

		for _, tc := range m.ToolCalls {
			if tc.Name == "" {
				return nil, NewValidationError(
					"tool_call",
					fmt.Sprintf("message #%d", i),
					"tool call is missing its function name",
				)
			}
		}

		conv.Append(m)
	}

	return conv, nil
}

// readToolsFile reads a tool definitions file. The text is spliced into the
// prompt verbatim, so it only has to be valid JSON, not any fixed schema.
func readToolsFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", NewCommandError("render", "read tools", "cannot read tools file", err)
	}
	if !json.Valid(data) {
		return "", NewValidationError("tools", path, "tools file is not valid JSON")
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// =============================================================================
// HISTORY RECORDING
// =============================================================================

// recordRender stores a completed render in the history database.
func recordRender(cfg *config.Config, def *template.Definition, conv *model.Conversation, prompt string) error {
	if !cfg.History.Enabled {
		return NewCommandError("render", "save",
			"history recording is disabled in config (set history.enabled = true)", nil)
	}

	store, err := openHistoryStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	entry := &history.Entry{
		UUID:         uuid.NewString(),
		CreatedAt:    time.Now(),
		ModelID:      def.ID,
		ModelName:    def.DisplayName,
		Title:        export.DeriveTitle(conv),
		State:        string(session.StateGenerated),
		MessageCount: conv.Len(),
		ByteCount:    len(prompt),
		TokenCount:   (len(prompt) + 3) / 4,
		Prompt:       prompt,
	}

	if err := store.Record(entry); err != nil {
		return WrapError(err, "failed to record render")
	}
	return nil
}
