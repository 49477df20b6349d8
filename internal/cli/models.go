// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command: models
//
// Lists registered model templates and inspects a single definition:
// sentinel tokens, per-role turn framing, reasoning and tool-call rules,
// default render options, and the highlight pattern count.
//
// Aliases: model, templates
//
// Subcommands:
//   (none), list      List models in registration order
//   info MODEL        Show the full template definition for MODEL
//
// Examples:
//   promptforge models
//   promptforge models info qwen3
//   promptforge models info llama3 --json
//
// Flags:
//   --json            Machine-readable output

package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/promptforge/internal/config"
	"github.com/jeranaias/promptforge/internal/model"
	"github.com/jeranaias/promptforge/internal/template"
	"github.com/jeranaias/promptforge/internal/util"
)

// markdownRenderer is shared by commands that print markdown documents.
// A nil renderer means rendering failed at startup; output falls back
// to raw markdown text.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content for terminal display.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// HandleModels handles the models command and its subcommands.
func HandleModels(args Args) error {
	parser := NewArgParser(args.Raw)

	cfg := config.Global()
	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	switch parser.Subcommand() {
	case "", "list":
		return listModels(args, cfg, reg)

	case "info", "show":
		id := parser.Positional(1)
		if id == "" {
			return ErrMissingArgument("model", "promptforge models info qwen3")
		}
		return showModelInfo(args, cfg, reg, id)

	default:
		return NewValidationErrorWithExample(
			"subcommand",
			parser.Subcommand(),
			"unknown models subcommand",
			"list, info MODEL",
		)
	}
}

// listModels prints every registered definition in registration order.
func listModels(args Args, cfg *config.Config, reg *template.Registry) error {
	defs := reg.List()

	defaultID := cfg.DefaultModel
	if defaultID == "" {
		defaultID = template.DefaultModelID
	}

	if args.JSON {
		data := ModelListData{
			Models: make([]ModelEntry, 0, len(defs)),
			Count:  len(defs),
		}
		for _, def := range defs {
			data.Models = append(data.Models, ModelEntry{
				ID:          def.ID,
				DisplayName: def.DisplayName,
				TokenizerID: def.TokenizerID,
				Source:      sourceLabel(def),
				Default:     def.ID == defaultID,
			})
		}
		NewJSONResponse("models", data).Print()
		return nil
	}

	if len(defs) == 0 {
		fmt.Println()
		fmt.Println("No model templates registered.")
		fmt.Println()
		if dir, err := cfg.DefinitionsDir(); err == nil {
			fmt.Printf("Add definition files under %s or run 'promptforge setup'.\n", dir)
		} else {
			fmt.Println("Run 'promptforge setup' to create the config layout.")
		}
		fmt.Println()
		return nil
	}

	fmt.Println()
	fmt.Println("Registered Models")
	fmt.Println(strings.Repeat("=", 64))
	fmt.Println()

	fmt.Printf("  %-16s %-24s %s\n", "ID", "Name", "Source")
	fmt.Println(strings.Repeat("-", 64))

	for _, def := range defs {
		marker := " "
		if def.ID == defaultID {
			marker = "*"
		}

		// UNICODE: Rune-aware truncation preserves multi-byte characters
		id := util.TruncateRunes(def.ID, 14)
		name := util.TruncateRunes(def.DisplayName, 22)

		fmt.Printf("%s %-16s %-24s %s\n", marker, id, name, sourceLabel(def))
	}

	fmt.Println()
	fmt.Printf("Total: %d model(s), * marks the default\n", len(defs))
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  promptforge models info <id>    Show template details")
	fmt.Println("  promptforge render -m <id>      Render a conversation")
	fmt.Println()

	return nil
}

// showModelInfo prints the full definition for one model.
func showModelInfo(args Args, cfg *config.Config, reg *template.Registry, nameOrID string) error {
	def, err := reg.Resolve(nameOrID)
	if err != nil {
		return err
	}

	if args.JSON {
		data := ModelInfoData{
			ID:             def.ID,
			DisplayName:    def.DisplayName,
			TokenizerID:    def.TokenizerID,
			Source:         sourceLabel(def),
			BOSToken:       def.BOSToken,
			EOSToken:       def.EOSToken,
			DefaultOptions: make(map[string]interface{}, len(def.DefaultOptions)),
			PatternCount:   len(def.Patterns),
		}
		for k, v := range def.DefaultOptions {
			data.DefaultOptions[k] = v
		}
		NewJSONResponse("models", data).Print()
		return nil
	}

	doc := buildModelDoc(def, cfg)
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(doc))
	} else {
		fmt.Print(doc)
	}
	return nil
}

// buildModelDoc assembles the markdown document describing a definition.
func buildModelDoc(def *template.Definition, cfg *config.Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", def.DisplayName)
	fmt.Fprintf(&b, "- ID: `%s`\n", def.ID)
	if def.TokenizerID != "" {
		fmt.Fprintf(&b, "- Tokenizer: `%s`\n", def.TokenizerID)
	}
	fmt.Fprintf(&b, "- Source: %s\n", sourceLabel(def))
	fmt.Fprintf(&b, "- Highlight patterns: %d\n", len(def.Patterns))
	if def.ID == cfg.DefaultModel || (cfg.DefaultModel == "" && def.ID == template.DefaultModelID) {
		b.WriteString("- Default model\n")
	}
	b.WriteString("\n")

	b.WriteString("## Sentinel Tokens\n\n")
	b.WriteString("| Token | Value |\n|-------|-------|\n")
	fmt.Fprintf(&b, "| BOS | %s |\n", tokenCell(def.BOSToken))
	fmt.Fprintf(&b, "| EOS | %s |\n", tokenCell(def.EOSToken))
	b.WriteString("\n")

	b.WriteString("## Turn Frames\n\n")
	b.WriteString("| Role | Open | Close |\n|------|------|-------|\n")
	for _, role := range model.Roles {
		rule, ok := def.Program.Turns[role]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", role, tokenCell(rule.Open), tokenCell(rule.Close))
	}
	b.WriteString("\n")

	think := def.Program.Think
	if think.Open != "" || think.Close != "" {
		b.WriteString("## Reasoning\n\n")
		fmt.Fprintf(&b, "- Open: %s\n", tokenCell(think.Open))
		fmt.Fprintf(&b, "- Close: %s\n", tokenCell(think.Close))
		b.WriteString("\n")
	}

	tc := def.Program.ToolCalls
	if tc.BlockOpen != "" || tc.CallOpen != "" || tc.CallClose != "" {
		b.WriteString("## Tool Calls\n\n")
		fmt.Fprintf(&b, "- Block open: %s\n", tokenCell(tc.BlockOpen))
		fmt.Fprintf(&b, "- Call open: %s\n", tokenCell(tc.CallOpen))
		fmt.Fprintf(&b, "- Name/args separator: %s\n", tokenCell(tc.NameArgsSep))
		fmt.Fprintf(&b, "- Call close: %s\n", tokenCell(tc.CallClose))
		fmt.Fprintf(&b, "- Block close: %s\n", tokenCell(tc.BlockClose))
		b.WriteString("\n")
	}

	tools := def.Program.Tools
	if tools.Open != "" || tools.Close != "" {
		b.WriteString("## Tools Block\n\n")
		fmt.Fprintf(&b, "- Open: %s\n", tokenCell(tools.Open))
		fmt.Fprintf(&b, "- Close: %s\n", tokenCell(tools.Close))
		b.WriteString("\n")
	}

	b.WriteString("## Generation Prompt\n\n")
	fmt.Fprintf(&b, "- Standard: %s\n", tokenCell(def.Program.GenPrompt))
	if def.Program.GenPromptThinking != "" {
		fmt.Fprintf(&b, "- Thinking: %s\n", tokenCell(def.Program.GenPromptThinking))
	}
	fmt.Fprintf(&b, "- Final EOS: %t\n", def.Program.FinalEOS)
	b.WriteString("\n")

	if len(def.DefaultOptions) > 0 {
		b.WriteString("## Default Options\n\n")
		keys := make([]string, 0, len(def.DefaultOptions))
		for k := range def.DefaultOptions {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- `%s`: %v\n", k, def.DefaultOptions[k])
		}
		b.WriteString("\n")
	}

	return b.String()
}

// sourceLabel describes where a definition came from.
func sourceLabel(def *template.Definition) string {
	if def.Source == "" {
		return "builtin"
	}
	return def.Source
}

// tokenCell formats a delimiter string for markdown output. Values are
// quoted so embedded newlines stay visible on one line.
func tokenCell(s string) string {
	if s == "" {
		return "(none)"
	}
	return "`" + strconv.Quote(s) + "`"
}
