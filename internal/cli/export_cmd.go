// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command: export
//
// Renders a conversation (or loads a recorded history entry) and writes
// the prompt to a file as text, markdown, JSON, or a standalone HTML page
// with highlighted structural tokens.
//
// Examples:
//   promptforge export --input conv.json                  Export with config defaults
//   promptforge export --input conv.json --format html    HTML with highlighting
//   promptforge export --history a1b2c3d4 --format md     Export a recorded render
//   promptforge export --input conv.json --stdout         Write content to stdout
//   cat conv.json | promptforge export --format text
//
// Flags:
//   --input FILE      Conversation JSON file (stdin when piped)
//   --history ID      Export a history entry instead of rendering
//   --format FMT      text | markdown | json | html (default from config)
//   --output DIR      Output directory (default from config)
//   --theme NAME      HTML theme: dark | light
//   --tools FILE      Tools JSON for the tools block
//   --thinking        Enable reasoning emission for this render
//   --no-thinking     Disable reasoning emission for this render
//   --open            Open the exported file when done
//   --stdout          Print the exported content instead of writing a file
//   -m, --model ID    Model template for --input rendering

package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jeranaias/promptforge/internal/config"
	"github.com/jeranaias/promptforge/internal/export"
	"github.com/jeranaias/promptforge/internal/highlight"
	"github.com/jeranaias/promptforge/internal/session"
	"github.com/jeranaias/promptforge/internal/template"
)

// exportFormats lists the accepted --format values.
var exportFormats = []string{"text", "markdown", "json", "html"}

// HandleExport handles the export command.
func HandleExport(args Args) error {
	parser := NewArgParser(args.Raw)
	cfg := config.Global()

	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	// Build the snapshot from either a history entry or a conversation
	var snap *export.Snapshot
	if id := parser.Flag("history"); id != "" {
		snap, err = snapshotFromHistory(cfg, reg, id)
	} else {
		snap, err = snapshotFromConversation(args, parser, cfg, reg)
	}
	if err != nil {
		return err
	}

	// Export options
	format := strings.ToLower(parser.FlagOrDefault("format", cfg.Export.Format))
	outDir := parser.FlagOrDefault("output", cfg.ExportDir())
	theme := parser.FlagOrDefault("theme", "dark")

	opts := &export.Options{
		OutputDir:       outDir,
		OpenAfterExport: parser.BoolFlag("open"),
		IncludeMetadata: !parser.BoolFlag("no-metadata"),
		Theme:           theme,
	}

	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		return ErrUnsupportedFormat(format, exportFormats)
	}

	// --stdout bypasses the file path entirely
	if parser.BoolFlag("stdout") {
		content, err := exporter.Export(snap)
		if err != nil {
			return WrapError(err, "exporting prompt")
		}
		fmt.Print(string(content))
		return nil
	}

	path, err := export.ExportToFile(snap, exporter, opts)
	if err != nil {
		return WrapError(err, "exporting prompt")
	}

	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	if args.JSON {
		NewJSONResponse("export", ExportData{
			Path:      path,
			Format:    format,
			ModelID:   snap.ModelID,
			ByteCount: int(size),
		}).Print()
		return nil
	}

	fmt.Printf("%s Exported prompt to %s (%s)\n",
		RenderStatus("ok"),
		path,
		formatBytes(size))
	return nil
}

// snapshotFromConversation renders a conversation file (or stdin) into a
// fresh snapshot.
func snapshotFromConversation(args Args, parser *ArgParser, cfg *config.Config, reg *template.Registry) (*export.Snapshot, error) {
	data, err := readConversationInput(parser.Flag("input"))
	if err != nil {
		return nil, err
	}

	conv, err := decodeConversation(data)
	if err != nil {
		return nil, err
	}

	def, err := resolveModel(reg, cfg, args.Model)
	if err != nil {
		return nil, err
	}

	opts := buildRenderOptions(cfg, parser)
	if toolsPath := parser.Flag("tools"); toolsPath != "" {
		toolsJSON, err := readToolsFile(toolsPath)
		if err != nil {
			return nil, err
		}
		opts[template.OptTools] = toolsJSON
	}

	prompt, err := template.Render(conv, def, opts)
	if err != nil {
		return nil, err
	}

	return &export.Snapshot{
		Title:     export.DeriveTitle(conv),
		ModelID:   def.ID,
		ModelName: def.DisplayName,
		State:     string(session.StateGenerated),
		CreatedAt: time.Now(),

		EnableThinking:      opts.Bool(template.OptEnableThinking),
		AddGenerationPrompt: opts.Bool(template.OptAddGenerationPrompt),
		IncludeTools:        opts.String(template.OptTools) != "",

		Messages: conv.Messages,
		Prompt:   prompt,
		Spans:    highlight.Highlight(prompt, def.Patterns),
	}, nil
}

// snapshotFromHistory loads a recorded render. The prompt is re-highlighted
// when the entry's model is still registered; the conversation itself is not
// stored in history, so exports carry the prompt text only.
func snapshotFromHistory(cfg *config.Config, reg *template.Registry, id string) (*export.Snapshot, error) {
	store, err := openHistoryStore(cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	entry, err := resolveHistoryEntry(store, id)
	if err != nil {
		return nil, err
	}

	snap := &export.Snapshot{
		Title:     entry.Title,
		ModelID:   entry.ModelID,
		ModelName: entry.ModelName,
		State:     entry.State,
		CreatedAt: entry.CreatedAt,
		Prompt:    entry.Prompt,
	}

	if def, err := reg.Lookup(entry.ModelID); err == nil {
		snap.Spans = highlight.Highlight(entry.Prompt, def.Patterns)
	}

	return snap, nil
}
