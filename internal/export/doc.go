// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes prompt session snapshots to files in various formats.
//
// This package supports exporting the rendered prompt together with the
// conversation that produced it, with metadata and optional opening in
// external applications.
//
// # Key Types
//
//   - Snapshot: Point-in-time view of a session (conversation, prompt, spans)
//   - Exporter: Main export interface
//   - Options: Export configuration options
//
// # Supported Formats
//
//   - Text: The exact rendered prompt bytes, nothing else
//   - Markdown: Human-readable with session metadata and a fenced prompt
//   - JSON: Machine-readable with the full snapshot structure
//   - HTML: Styled for browsers, with token highlighting in the prompt pane
//
// # Usage
//
// Export a snapshot:
//
//	exporter, err := export.ForFormat("html", nil)
//	if err != nil {
//	    return err
//	}
//	path, err := export.ExportToFile(snap, exporter, nil)
//
// Or in one call:
//
//	path, err := export.ExportSnapshot(snap, "markdown", opts)
package export
