// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"strings"

	"github.com/jeranaias/promptforge/internal/model"
	"github.com/jeranaias/promptforge/internal/util"
)

// =============================================================================
// CONVERSION UTILITIES
// =============================================================================

// titleRuneLimit caps derived titles at a filename-friendly length.
const titleRuneLimit = 48

// DeriveTitle returns a human-readable title for a conversation: the explicit
// title when set, otherwise the first line of the first user message,
// otherwise a generic fallback.
func DeriveTitle(conv *model.Conversation) string {
	if conv == nil {
		return "Prompt Session"
	}
	if conv.Title != "" {
		return conv.Title
	}

	for _, msg := range conv.Messages {
		if msg.Role != model.RoleUser {
			continue
		}
		line := firstLine(msg.Content)
		if line != "" {
			return util.TruncateRunes(line, titleRuneLimit)
		}
	}

	return "Prompt Session"
}

// ExportSnapshot exports a snapshot in the named format. This is a
// convenience function that combines format lookup and file export.
func ExportSnapshot(snap *Snapshot, format string, opts *Options) (string, error) {
	exporter, err := ForFormat(format, opts)
	if err != nil {
		return "", err
	}
	return ExportToFile(snap, exporter, opts)
}

// firstLine returns the first non-empty line of s, trimmed.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
