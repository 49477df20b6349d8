// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jeranaias/promptforge/internal/highlight"
	"github.com/jeranaias/promptforge/internal/model"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports prompt snapshots to HTML format with embedded CSS.
//
// The rendered prompt is emitted as a <pre> block whose special-token
// regions are wrapped in colored spans, reproducing the in-app highlight
// view. Token colors are fixed regardless of page theme so the prompt pane
// always looks like the editor it came from.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a snapshot to HTML format.
func (e *HTMLExporter) Export(snap *Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot is nil")
	}

	var sb strings.Builder

	// HTML header
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(e.title(snap))))
	sb.WriteString("    <meta name=\"generator\" content=\"promptforge\">\n")
	if !snap.CreatedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("    <meta name=\"date\" content=\"%s\">\n", snap.CreatedAt.Format(time.RFC3339)))
	}

	// Embedded CSS
	sb.WriteString(e.getCSS())

	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", e.options.Theme))

	// Container
	sb.WriteString("    <div class=\"container\">\n")

	// Header with metadata
	if e.options.IncludeMetadata {
		sb.WriteString(e.renderHeader(snap))
	}

	// Conversation messages
	if len(snap.Messages) > 0 {
		sb.WriteString("        <main class=\"conversation\">\n")
		for _, msg := range snap.Messages {
			sb.WriteString(e.renderMessage(msg))
		}
		sb.WriteString("        </main>\n")
	}

	// Highlighted prompt pane
	sb.WriteString(e.renderPrompt(snap))

	// Footer
	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Exported from <strong>promptforge</strong> on %s</p>\n",
		time.Now().Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString("        </footer>\n")

	sb.WriteString("    </div>\n")

	// Theme toggle script
	sb.WriteString(e.getScript())

	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

// title returns the snapshot title or a fallback.
func (e *HTMLExporter) title(snap *Snapshot) string {
	if snap.Title != "" {
		return snap.Title
	}
	return "Prompt Session"
}

// renderHeader renders the header section with metadata.
func (e *HTMLExporter) renderHeader(snap *Snapshot) string {
	var sb strings.Builder

	modelLabel := snap.ModelID
	if snap.ModelName != "" && snap.ModelName != snap.ModelID {
		modelLabel = fmt.Sprintf("%s (%s)", snap.ModelName, snap.ModelID)
	}

	sb.WriteString("        <header class=\"header\">\n")
	sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", html.EscapeString(e.title(snap))))
	sb.WriteString("            <div class=\"metadata\">\n")
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Model:</strong> %s</span>\n", html.EscapeString(modelLabel)))
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>State:</strong> %s</span>\n", html.EscapeString(snap.State)))
	if !snap.CreatedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Created:</strong> %s</span>\n", formatTimestamp(snap.CreatedAt)))
	}
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Messages:</strong> %d</span>\n", snap.MessageCount()))
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Thinking:</strong> %s</span>\n", onOff(snap.EnableThinking)))
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Generation Prompt:</strong> %s</span>\n", onOff(snap.AddGenerationPrompt)))
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Tools:</strong> %s</span>\n", onOff(snap.IncludeTools)))
	sb.WriteString("                <button class=\"theme-toggle\" onclick=\"toggleTheme()\" title=\"Toggle theme\">[Theme]</button>\n")
	sb.WriteString("            </div>\n")
	sb.WriteString("        </header>\n")

	return sb.String()
}

// renderMessage renders a single conversation message.
func (e *HTMLExporter) renderMessage(msg *model.Message) string {
	var sb strings.Builder

	roleClass := strings.ToLower(string(msg.Role))
	sb.WriteString(fmt.Sprintf("            <div class=\"message %s-message\">\n", roleClass))

	// Message header
	sb.WriteString("                <div class=\"message-header\">\n")
	sb.WriteString(fmt.Sprintf("                    <span class=\"role-label\">%s</span>\n", roleLabel(msg.Role)))
	sb.WriteString("                </div>\n")

	// Message content
	sb.WriteString("                <div class=\"message-content\">\n")

	if msg.Reasoning != "" {
		sb.WriteString("<div class=\"reasoning\">\n")
		sb.WriteString("<div class=\"reasoning-label\">Reasoning</div>\n")
		sb.WriteString(e.formatContent(msg.Reasoning))
		sb.WriteString("\n</div>\n")
	}

	if msg.Content != "" {
		sb.WriteString(e.formatContent(msg.Content))
		sb.WriteString("\n")
	}

	for _, tc := range msg.ToolCalls {
		sb.WriteString(e.formatToolCall(tc))
	}

	sb.WriteString("                </div>\n")
	sb.WriteString("            </div>\n")

	return sb.String()
}

// renderPrompt renders the prompt pane with highlight spans.
func (e *HTMLExporter) renderPrompt(snap *Snapshot) string {
	var sb strings.Builder

	sb.WriteString("        <section class=\"prompt-pane\">\n")
	sb.WriteString("            <h2>Rendered Prompt</h2>\n")
	sb.WriteString("            <pre class=\"highlighted-prompt\">")
	sb.WriteString(e.highlightedPrompt(snap))
	sb.WriteString("</pre>\n")
	sb.WriteString("        </section>\n")

	return sb.String()
}

// highlightedPrompt converts prompt text plus spans into escaped HTML.
// Spans tile the text, so concatenating them reproduces the prompt exactly;
// classified regions get a <span> wrapper and gaps pass through as-is.
func (e *HTMLExporter) highlightedPrompt(snap *Snapshot) string {
	if len(snap.Spans) == 0 {
		return html.EscapeString(snap.Prompt)
	}

	var sb strings.Builder
	for _, span := range snap.Spans {
		text := html.EscapeString(span.Text(snap.Prompt))
		if span.IsPlain() {
			sb.WriteString(text)
			continue
		}
		sb.WriteString(fmt.Sprintf("<span class=\"%s\">%s</span>", tokenClass(span.Class), text))
	}
	return sb.String()
}

// tokenClass maps a highlight class name to its CSS class.
func tokenClass(class string) string {
	switch class {
	case highlight.ClassBOSEOS:
		return "token-bos"
	case highlight.ClassRole:
		return "token-role"
	case highlight.ClassThink:
		return "token-think"
	case highlight.ClassDSML:
		return "token-dsml"
	case highlight.ClassFunc:
		return "token-func"
	default:
		return "token-dsml"
	}
}

// =============================================================================
// CONTENT FORMATTING
// =============================================================================

// formatContent escapes message text and converts blank-line breaks into
// paragraphs. Message content is plain prompt text, not markdown, so no
// markup conversion happens here.
func (e *HTMLExporter) formatContent(content string) string {
	content = html.EscapeString(strings.TrimSpace(content))
	if content == "" {
		return ""
	}

	paragraphs := strings.Split(content, "\n\n")
	var formatted []string
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = strings.ReplaceAll(p, "\n", "<br>\n")
		formatted = append(formatted, "<p>"+p+"</p>")
	}

	return strings.Join(formatted, "\n")
}

// formatToolCall formats a tool call with its JSON arguments.
func (e *HTMLExporter) formatToolCall(tc model.ToolCall) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<p><strong>Tool Call:</strong> <code class=\"inline-code\">%s</code></p>\n", html.EscapeString(tc.Name)))

	if len(tc.Arguments) > 0 {
		sb.WriteString("<div class=\"code-block\"><div class=\"code-lang\">json</div><pre><code>")
		sb.WriteString(html.EscapeString(string(tc.Arguments)))
		sb.WriteString("</code></pre></div>\n")
	}

	return sb.String()
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

// getCSS returns the embedded CSS for the HTML export.
func (e *HTMLExporter) getCSS() string {
	return `    <style>
        /* Reset and base styles */
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            --font-mono: "Monaco", "Menlo", "Ubuntu Mono", "SF Mono", "Source Code Pro", monospace;
        }

        /* Dark theme (default) */
        .dark-theme {
            --bg-primary: #1a1b26;
            --bg-secondary: #24283b;
            --bg-tertiary: #414868;
            --text-primary: #c0caf5;
            --text-secondary: #a9b1d6;
            --text-muted: #565f89;
            --border-color: #414868;
            --user-bg: #1f2335;
            --assistant-bg: #24283b;
            --code-bg: #1a1b26;
            --accent-blue: #7aa2f7;
            --accent-green: #9ece6a;
            --accent-purple: #bb9af7;
            --accent-red: #f7768e;
        }

        /* Light theme */
        .light-theme {
            --bg-primary: #ffffff;
            --bg-secondary: #f7f8fa;
            --bg-tertiary: #e1e4e8;
            --text-primary: #24292e;
            --text-secondary: #586069;
            --text-muted: #6a737d;
            --border-color: #e1e4e8;
            --user-bg: #f6f8fa;
            --assistant-bg: #ffffff;
            --code-bg: #f6f8fa;
            --accent-blue: #0366d6;
            --accent-green: #22863a;
            --accent-purple: #6f42c1;
            --accent-red: #d73a49;
        }

        body {
            font-family: var(--font-sans);
            font-size: 16px;
            line-height: 1.6;
            color: var(--text-primary);
            background: var(--bg-primary);
            padding: 20px;
            transition: background 0.3s ease, color 0.3s ease;
        }

        .container {
            max-width: 900px;
            margin: 0 auto;
            background: var(--bg-secondary);
            border-radius: 12px;
            box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);
            overflow: hidden;
        }

        /* Header */
        .header {
            padding: 32px;
            background: var(--bg-tertiary);
            border-bottom: 2px solid var(--border-color);
        }

        .header h1 {
            font-size: 28px;
            font-weight: 700;
            margin-bottom: 16px;
            color: var(--text-primary);
        }

        .metadata {
            display: flex;
            flex-wrap: wrap;
            gap: 16px;
            font-size: 14px;
            color: var(--text-secondary);
            align-items: center;
        }

        .meta-item {
            display: inline-flex;
            align-items: center;
            gap: 4px;
        }

        .theme-toggle {
            margin-left: auto;
            background: var(--bg-secondary);
            border: 1px solid var(--border-color);
            border-radius: 6px;
            padding: 6px 12px;
            cursor: pointer;
            font-size: 14px;
            transition: all 0.2s ease;
        }

        .theme-toggle:hover {
            background: var(--bg-primary);
            transform: scale(1.05);
        }

        /* Conversation */
        .conversation {
            padding: 24px 32px;
        }

        .message {
            margin-bottom: 24px;
            padding: 20px;
            border-radius: 8px;
            border-left: 4px solid transparent;
            transition: all 0.2s ease;
        }

        .message:hover {
            transform: translateX(4px);
        }

        .user-message {
            background: var(--user-bg);
            border-left-color: var(--accent-blue);
        }

        .assistant-message {
            background: var(--assistant-bg);
            border-left-color: var(--accent-green);
        }

        .system-message {
            background: var(--bg-tertiary);
            border-left-color: var(--accent-purple);
        }

        .developer-message {
            background: var(--bg-tertiary);
            border-left-color: var(--accent-purple);
        }

        .tool-message {
            background: var(--bg-tertiary);
            border-left-color: var(--accent-red);
        }

        .message-header {
            display: flex;
            justify-content: space-between;
            align-items: center;
            margin-bottom: 12px;
            font-size: 14px;
        }

        .role-label {
            font-weight: 600;
            color: var(--text-primary);
        }

        .message-content {
            color: var(--text-primary);
            line-height: 1.7;
        }

        .message-content p {
            margin-bottom: 12px;
        }

        .message-content p:last-child {
            margin-bottom: 0;
        }

        /* Reasoning block */
        .reasoning {
            margin-bottom: 12px;
            padding: 12px 16px;
            border-left: 3px solid var(--accent-purple);
            background: var(--code-bg);
            border-radius: 4px;
            font-style: italic;
            color: var(--text-secondary);
        }

        .reasoning-label {
            font-weight: 600;
            font-style: normal;
            font-size: 12px;
            text-transform: uppercase;
            letter-spacing: 0.5px;
            margin-bottom: 8px;
            color: var(--accent-purple);
        }

        /* Code blocks */
        .code-block {
            margin: 16px 0;
            border-radius: 8px;
            overflow: hidden;
            background: var(--code-bg);
            border: 1px solid var(--border-color);
        }

        .code-lang {
            padding: 8px 16px;
            background: var(--bg-tertiary);
            font-size: 12px;
            font-weight: 600;
            color: var(--text-secondary);
            text-transform: uppercase;
            letter-spacing: 0.5px;
        }

        .code-block pre {
            margin: 0;
            padding: 16px;
            overflow-x: auto;
        }

        .code-block code {
            font-family: var(--font-mono);
            font-size: 14px;
            line-height: 1.5;
            color: var(--text-primary);
        }

        .inline-code {
            font-family: var(--font-mono);
            font-size: 14px;
            padding: 2px 6px;
            background: var(--code-bg);
            border: 1px solid var(--border-color);
            border-radius: 4px;
            color: var(--accent-purple);
        }

        /* Prompt pane */
        .prompt-pane {
            padding: 24px 32px;
        }

        .prompt-pane h2 {
            font-size: 20px;
            font-weight: 600;
            margin-bottom: 16px;
            color: var(--text-primary);
        }

        /* The prompt keeps editor colors in both page themes. */
        .highlighted-prompt {
            font-family: var(--font-mono);
            font-size: 13px;
            line-height: 1.5;
            background: #1e1e1e;
            color: #d4d4d4;
            padding: 16px;
            border-radius: 8px;
            white-space: pre-wrap;
            word-wrap: break-word;
            overflow-x: auto;
        }

        .token-bos {
            color: #c586c0;
            font-weight: bold;
        }

        .token-role {
            color: #ce9178;
            font-weight: bold;
        }

        .token-think {
            color: #d16d9e;
            font-weight: bold;
        }

        .token-dsml {
            color: #569cd6;
            font-weight: bold;
        }

        .token-func {
            color: #6a9955;
            font-weight: bold;
        }

        /* Footer */
        .footer {
            padding: 20px 32px;
            text-align: center;
            font-size: 14px;
            color: var(--text-muted);
            border-top: 1px solid var(--border-color);
        }

        /* Print styles */
        @media print {
            body {
                padding: 0;
            }

            .container {
                box-shadow: none;
                border-radius: 0;
            }

            .theme-toggle {
                display: none;
            }

            .message {
                page-break-inside: avoid;
            }
        }

        /* Responsive */
        @media (max-width: 768px) {
            body {
                padding: 10px;
            }

            .header, .conversation, .prompt-pane, .footer {
                padding: 16px;
            }

            .message {
                padding: 16px;
            }
        }
    </style>
`
}

// =============================================================================
// EMBEDDED JAVASCRIPT
// =============================================================================

// getScript returns the embedded JavaScript for theme toggling.
func (e *HTMLExporter) getScript() string {
	return `    <script>
        function toggleTheme() {
            const body = document.body;
            if (body.classList.contains('dark-theme')) {
                body.classList.remove('dark-theme');
                body.classList.add('light-theme');
                localStorage.setItem('theme', 'light');
            } else {
                body.classList.remove('light-theme');
                body.classList.add('dark-theme');
                localStorage.setItem('theme', 'dark');
            }
        }

        // Load saved theme preference
        document.addEventListener('DOMContentLoaded', function() {
            const savedTheme = localStorage.getItem('theme');
            if (savedTheme) {
                document.body.classList.remove('dark-theme', 'light-theme');
                document.body.classList.add(savedTheme + '-theme');
            }
        });
    </script>
`
}
