// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the promptforge TUI.

This package defines the complete color palette, theme, and animation system
used throughout the application. All colors use Lip Gloss AdaptiveColor for
automatic light/dark terminal detection.

# Color System (colors.go)

## Primary Accent Colors

  - Purple - Primary accent for the assistant role and selections
  - Cyan - Brand color for info, commands, and focus rings
  - Emerald - Success states and the generated-state badge
  - Amber - Warnings and the edited-state badge
  - Rose - Errors and critical warnings

## Role Colors

Each conversation role has a distinct accent, looked up with RoleColor:

	RoleUserColor      - Blue
	RoleAssistantColor - Purple
	RoleSystemColor    - Amber
	RoleToolColor      - Emerald
	RoleDeveloperColor - Rose

## Token Highlight Colors

Colors for the highlighted prompt pane, keyed by highlight class. The dark
variants match the HTML export palette so the prompt looks identical in the
terminal and in exported documents:

	TokenBOSEOS - Sequence delimiters (#C586C0 dark)
	TokenRole   - Role markers (#CE9178 dark)
	TokenThink  - Reasoning delimiters (#D16D9E dark)
	TokenDSML   - Structured markup tokens (#569CD6 dark)
	TokenFunc   - Function call delimiters (#6A9955 dark)
	TokenPlain  - Prompt text between tokens (#D4D4D4 dark)

## Text Colors

Hierarchical text color system:

	TextPrimary   - Main content text
	TextSecondary - Supporting text
	TextMuted     - De-emphasized text
	TextInverse   - Text on colored backgrounds

# Theme System (theme.go)

The Theme struct provides runtime color adaptation and per-component styles:

	theme := styles.NewTheme()
	if theme.IsDark {
		// Dark terminal detected
	}

	// Style a highlight span for the prompt pane
	styled := theme.TokenStyle("bos_eos").Render("<|im_end|>")

# Animation System (animations.go)

Pre-defined spinner styles and tree connectors:

	LineSpinner - Simple line rotation, the default busy indicator
	DotsSpinner - Classic three-dot animation

	styles.RenderTreeLine(isLast) // "+- " or "`- " prefixes for tool calls

# Usage Example

	import "github.com/jeranaias/promptforge/internal/ui/styles"

	// Use adaptive colors
	headerStyle := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextPrimary)

	// Use accessible status helpers
	fmt.Println(styles.RenderSuccess("prompt exported"))
*/
package styles
