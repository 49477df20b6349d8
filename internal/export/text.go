// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes rendered prompts to files in various formats.
package export

import "fmt"

// =============================================================================
// TEXT EXPORTER
// =============================================================================

// TextExporter writes the rendered prompt as plain text.
//
// The output is the exact prompt byte sequence with nothing added or
// removed, so the file can be fed directly to a tokenizer or inference
// endpoint. Metadata and conversation structure are deliberately omitted;
// use the markdown or JSON exporters for annotated output.
type TextExporter struct {
	options *Options
}

// NewTextExporter creates a new plain text exporter.
func NewTextExporter(opts *Options) *TextExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &TextExporter{options: opts}
}

// Export returns the rendered prompt bytes unchanged.
func (e *TextExporter) Export(snap *Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot is nil")
	}
	return []byte(snap.Prompt), nil
}

// FileExtension returns ".txt".
func (e *TextExporter) FileExtension() string {
	return ".txt"
}

// MimeType returns the plain text MIME type.
func (e *TextExporter) MimeType() string {
	return "text/plain; charset=utf-8"
}
