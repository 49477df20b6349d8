// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the promptforge TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/promptforge/internal/model"
	"github.com/jeranaias/promptforge/internal/ui/styles"
	"github.com/jeranaias/promptforge/internal/util"
)

// =============================================================================
// MESSAGE LIST COMPONENT - Conversation pane
// =============================================================================

// MessageList renders the conversation as a stack of cards, one per message,
// with a movable selection cursor. The list windows itself to the available
// height, keeping the selected card visible.
type MessageList struct {
	Messages []model.Message
	Selected int
	Width    int
	Height   int
	Focused  bool

	offset int // Index of the first visible card
	theme  *styles.Theme
}

// NewMessageList creates a new MessageList component.
func NewMessageList(theme *styles.Theme) *MessageList {
	return &MessageList{
		Width:  40,
		Height: 20,
		theme:  theme,
	}
}

// SetSize updates the list dimensions.
func (l *MessageList) SetSize(width, height int) {
	l.Width = width
	l.Height = height
}

// SetFocused marks whether the list has keyboard focus.
func (l *MessageList) SetFocused(focused bool) {
	l.Focused = focused
}

// SetMessages replaces the displayed conversation and clamps the cursor.
func (l *MessageList) SetMessages(messages []model.Message) {
	l.Messages = messages
	if l.Selected >= len(messages) {
		l.Selected = len(messages) - 1
	}
	if l.Selected < 0 {
		l.Selected = 0
	}
	if l.offset > l.Selected {
		l.offset = l.Selected
	}
}

// Select moves the cursor to the given index, clamping to valid range.
func (l *MessageList) Select(index int) {
	if len(l.Messages) == 0 {
		l.Selected = 0
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= len(l.Messages) {
		index = len(l.Messages) - 1
	}
	l.Selected = index
	if l.offset > l.Selected {
		l.offset = l.Selected
	}
}

// SelectNext moves the cursor down one message.
func (l *MessageList) SelectNext() {
	l.Select(l.Selected + 1)
}

// SelectPrev moves the cursor up one message.
func (l *MessageList) SelectPrev() {
	l.Select(l.Selected - 1)
}

// SelectedIndex returns the cursor position.
func (l *MessageList) SelectedIndex() int {
	return l.Selected
}

// SelectedMessage returns the message under the cursor, or nil when the
// conversation is empty.
func (l *MessageList) SelectedMessage() *model.Message {
	if l.Selected < 0 || l.Selected >= len(l.Messages) {
		return nil
	}
	return &l.Messages[l.Selected]
}

// View renders the visible window of message cards.
func (l *MessageList) View() string {
	if len(l.Messages) == 0 {
		return l.emptyView()
	}

	cards := make([]string, len(l.Messages))
	heights := make([]int, len(l.Messages))
	for i, msg := range l.Messages {
		cards[i] = l.renderCard(i, msg)
		heights[i] = lipgloss.Height(cards[i]) + 1 // Blank line between cards
	}

	// Slide the window until the selected card fits inside it.
	for {
		used := 0
		last := l.offset - 1
		for i := l.offset; i < len(cards); i++ {
			if used+heights[i] > l.Height && i > l.offset {
				break
			}
			used += heights[i]
			last = i
		}
		if l.Selected <= last || l.offset >= l.Selected {
			break
		}
		l.offset++
	}

	var b strings.Builder
	used := 0
	for i := l.offset; i < len(cards); i++ {
		if used+heights[i] > l.Height && i > l.offset {
			more := len(cards) - i
			b.WriteString(lipgloss.NewStyle().
				Foreground(styles.TextMuted).
				Render("  ... " + toStr(more) + " more"))
			break
		}
		if i > l.offset {
			b.WriteString("\n")
		}
		b.WriteString(cards[i])
		b.WriteString("\n")
		used += heights[i]
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderCard renders one message as a bordered card.
func (l *MessageList) renderCard(index int, msg model.Message) string {
	innerWidth := l.Width - 4 // Border, padding, slack
	if innerWidth < 16 {
		innerWidth = 16
	}

	lines := []string{}

	// Header: role name plus position and size metadata
	roleStyle := l.theme.MessageRole.Foreground(styles.RoleColor(string(msg.Role)))
	meta := l.theme.MessageMeta.Render(
		"#" + toStr(index) + " " + toStr(msg.EstimateTokens()) + " tok")
	lines = append(lines, roleStyle.Render(strings.ToUpper(msg.Role.DisplayName()))+" "+meta)

	// Body preview, first two lines
	if msg.Content != "" {
		for i, line := range strings.SplitN(msg.Content, "\n", 3) {
			if i >= 2 {
				lines = append(lines, l.theme.MessageMeta.Render("..."))
				break
			}
			lines = append(lines, l.theme.MessageBody.Render(util.TruncateWidth(line, innerWidth)))
		}
	} else if !msg.HasToolCalls() {
		lines = append(lines, l.theme.MessageMeta.Render("(empty)"))
	}

	// Reasoning indicator
	if msg.HasReasoning() {
		reasoning := util.TruncateWidth(firstLine(msg.Reasoning), innerWidth-6)
		lines = append(lines, l.theme.MessageReasoning.Render("think "+reasoning))
	}

	// Tool calls as a tree
	for i, tc := range msg.ToolCalls {
		prefix := styles.RenderTreeLine(i == len(msg.ToolCalls)-1)
		name := l.theme.MessageToolCall.Render(tc.Name)
		args := l.theme.MessageMeta.Render(
			util.TruncateWidth(firstLine(tc.Arguments), innerWidth-len(prefix)-runeLen(tc.Name)-1))
		lines = append(lines, prefix+name+" "+args)
	}

	card := strings.Join(lines, "\n")

	style := l.theme.MessageCard
	if index == l.Selected && l.Focused {
		style = l.theme.MessageCardSelected
	}
	return style.Width(l.Width - 2).Render(card)
}

// emptyView renders the placeholder for an empty conversation.
func (l *MessageList) emptyView() string {
	hint := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Render("No messages. Press 'a' or use /add to start.")

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(hint)
}

// firstLine returns the text up to the first newline.
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
