// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export_test

import (
	"fmt"
	"time"

	"github.com/jeranaias/promptforge/internal/export"
	"github.com/jeranaias/promptforge/internal/model"
)

// ExampleExportSnapshot demonstrates exporting a session snapshot to Markdown.
func ExampleExportSnapshot() {
	snap := &export.Snapshot{
		Title:               "Weather Question",
		ModelID:             "qwen3",
		ModelName:           "Qwen3",
		State:               "generated",
		CreatedAt:           time.Now(),
		EnableThinking:      true,
		AddGenerationPrompt: true,
		Messages: []*model.Message{
			{Role: model.RoleUser, Content: "What's the weather like in Paris?"},
		},
		Prompt: "<|im_start|>user\nWhat's the weather like in Paris?<|im_end|>\n<|im_start|>assistant\n",
	}

	opts := export.DefaultOptions()
	opts.OutputDir = "./exports"

	path, err := export.ExportSnapshot(snap, "markdown", opts)
	if err != nil {
		fmt.Printf("Export failed: %v\n", err)
		return
	}

	fmt.Printf("Exported to: %s\n", path)
	// Output would be something like:
	// Exported to: exports/prompt_Weather_Question_20260314_093052.md
}

// ExampleExportToFile demonstrates using a specific exporter directly.
func ExampleExportToFile() {
	snap := &export.Snapshot{
		Title:     "Quick Prompt",
		ModelID:   "deepseek-v3.1",
		State:     "edited",
		CreatedAt: time.Now(),
		Prompt:    "<｜begin▁of▁sentence｜><｜User｜>Hello<｜Assistant｜>",
	}

	opts := &export.Options{
		OutputDir:       "./exports",
		OpenAfterExport: false,
		IncludeMetadata: true,
		Theme:           "dark",
	}

	// The text exporter writes the prompt bytes verbatim.
	exporter := export.NewTextExporter(opts)

	path, err := export.ExportToFile(snap, exporter, opts)
	if err != nil {
		fmt.Printf("Export failed: %v\n", err)
		return
	}

	fmt.Printf("Exported to: %s\n", path)
	// Output would be something like:
	// Exported to: exports/prompt_Quick_Prompt_20260314_093052.txt
}
