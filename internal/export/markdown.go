// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/promptforge/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports prompt snapshots to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a snapshot to Markdown format.
func (e *MarkdownExporter) Export(snap *Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot is nil")
	}

	var sb strings.Builder

	// YAML frontmatter with metadata
	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(e.title(snap))))
		sb.WriteString(fmt.Sprintf("model: %s\n", escapeYAML(snap.ModelID)))
		sb.WriteString(fmt.Sprintf("state: %s\n", snap.State))
		if !snap.CreatedAt.IsZero() {
			sb.WriteString(fmt.Sprintf("date: %s\n", snap.CreatedAt.Format(time.RFC3339)))
		}
		sb.WriteString(fmt.Sprintf("messages: %d\n", snap.MessageCount()))
		sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
		sb.WriteString("generator: promptforge\n")
		sb.WriteString("---\n\n")
	}

	// Title
	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(e.title(snap))))

	// Metadata section
	if e.options.IncludeMetadata {
		sb.WriteString("## Session Information\n\n")
		sb.WriteString(fmt.Sprintf("- **Model**: %s\n", e.modelLabel(snap)))
		sb.WriteString(fmt.Sprintf("- **State**: %s\n", snap.State))
		if !snap.CreatedAt.IsZero() {
			sb.WriteString(fmt.Sprintf("- **Created**: %s\n", formatTimestamp(snap.CreatedAt)))
		}
		sb.WriteString(fmt.Sprintf("- **Messages**: %d\n", snap.MessageCount()))
		sb.WriteString(fmt.Sprintf("- **Thinking**: %s\n", onOff(snap.EnableThinking)))
		sb.WriteString(fmt.Sprintf("- **Generation Prompt**: %s\n", onOff(snap.AddGenerationPrompt)))
		sb.WriteString(fmt.Sprintf("- **Tools**: %s\n", onOff(snap.IncludeTools)))
		sb.WriteString("\n---\n\n")
	}

	// Conversation messages
	if len(snap.Messages) > 0 {
		sb.WriteString("## Conversation\n\n")

		for i, msg := range snap.Messages {
			sb.WriteString(fmt.Sprintf("### %s\n\n", roleLabel(msg.Role)))

			if msg.Reasoning != "" {
				sb.WriteString("**Reasoning**:\n\n")
				sb.WriteString(blockquote(msg.Reasoning))
				sb.WriteString("\n\n")
			}

			content := strings.TrimSpace(msg.Content)
			if content != "" {
				sb.WriteString(content)
				sb.WriteString("\n\n")
			}

			for _, tc := range msg.ToolCalls {
				sb.WriteString(e.formatToolCall(tc))
			}

			// Add separator between messages (except last)
			if i < len(snap.Messages)-1 {
				sb.WriteString("---\n\n")
			}
		}
	}

	// Rendered prompt, fenced so delimiter tokens survive verbatim
	sb.WriteString("## Rendered Prompt\n\n")
	fence := promptFence(snap.Prompt)
	sb.WriteString(fence)
	sb.WriteString("text\n")
	sb.WriteString(snap.Prompt)
	if !strings.HasSuffix(snap.Prompt, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString(fence)
	sb.WriteString("\n")

	// Footer
	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from promptforge on %s*\n",
		time.Now().Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// title returns the snapshot title or a fallback.
func (e *MarkdownExporter) title(snap *Snapshot) string {
	if snap.Title != "" {
		return snap.Title
	}
	return "Prompt Session"
}

// modelLabel returns the display name with the id, or just the id.
func (e *MarkdownExporter) modelLabel(snap *Snapshot) string {
	if snap.ModelName != "" && snap.ModelName != snap.ModelID {
		return fmt.Sprintf("%s (`%s`)", snap.ModelName, snap.ModelID)
	}
	return fmt.Sprintf("`%s`", snap.ModelID)
}

// formatToolCall formats a tool call with its JSON arguments.
func (e *MarkdownExporter) formatToolCall(tc model.ToolCall) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("**Tool Call**: `%s`\n\n", tc.Name))

	if len(tc.Arguments) > 0 {
		sb.WriteString("**Arguments**:\n```json\n")
		sb.WriteString(string(tc.Arguments))
		sb.WriteString("\n```\n\n")
	}

	return sb.String()
}

// blockquote prefixes every line with a Markdown quote marker.
func blockquote(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}

// promptFence returns a backtick fence long enough to contain the prompt,
// growing past any backtick runs in the text itself.
func promptFence(prompt string) string {
	fence := "```"
	for strings.Contains(prompt, fence) {
		fence += "`"
	}
	return fence
}

// onOff formats a boolean option for display.
func onOff(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	// Only escape characters that would break formatting in titles/headings
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

// escapeYAML escapes special YAML characters in values.
func escapeYAML(s string) string {
	// Quote if contains special characters (including backslash)
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		// Escape special characters including newlines and backslashes
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
