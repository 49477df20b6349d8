// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and tool calls fed to the template engine.
package model

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
	RoleDeveloper Role = "developer"
)

// Roles lists every valid role in presentation order.
var Roles = []Role{RoleSystem, RoleUser, RoleAssistant, RoleTool, RoleDeveloper}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether the role is one of the five supported roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool, RoleDeveloper:
		return true
	}
	return false
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleSystem:
		return "System"
	case RoleUser:
		return "User"
	case RoleAssistant:
		return "Assistant"
	case RoleTool:
		return "Tool"
	case RoleDeveloper:
		return "Developer"
	default:
		return string(r)
	}
}

// Next cycles to the following role in presentation order. Used by the
// conversation list's role-cycle shortcut.
func (r Role) Next() Role {
	for i, role := range Roles {
		if role == r {
			return Roles[(i+1)%len(Roles)]
		}
	}
	return RoleUser
}

// =============================================================================
// TOOL CALL TYPE
// =============================================================================

// ToolCall is a function invocation embedded in an assistant turn. Arguments
// holds the argument JSON as opaque text: the engine emits it verbatim and
// never re-serializes it, so whatever spacing the user supplied survives into
// the rendered prompt. A tool call has no identity beyond its position in the
// owning message.
type ToolCall struct {
	Name      string
	Arguments string
}

// MarshalJSON writes Arguments through byte-for-byte when it is valid JSON,
// falling back to a quoted string otherwise. encoding/json would compact a
// RawMessage, which loses the user's spacing.
func (t ToolCall) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"name":`)
	name, err := json.Marshal(t.Name)
	if err != nil {
		return nil, err
	}
	buf.Write(name)
	buf.WriteString(`,"arguments":`)
	if json.Valid([]byte(t.Arguments)) {
		buf.WriteString(t.Arguments)
	} else {
		quoted, err := json.Marshal(t.Arguments)
		if err != nil {
			return nil, err
		}
		buf.Write(quoted)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON keeps the raw argument bytes. A JSON string value is unquoted
// (the string is the argument text); any other value is kept as written.
func (t *ToolCall) UnmarshalJSON(data []byte) error {
	var wire struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	t.Name = wire.Name
	raw := bytes.TrimSpace(wire.Arguments)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		t.Arguments = s
		return nil
	}
	t.Arguments = string(raw)
	return nil
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single chat turn. Reasoning and ToolCalls are only
// meaningful on assistant turns; the engine tolerates them on other roles and
// ignores them there (never an error).
type Message struct {
	// Identity
	ID   string `json:"id,omitempty"`
	Role Role   `json:"role"`

	// Content
	Content string `json:"content"`

	// Assistant-only fields
	Reasoning string     `json:"reasoning,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:      generateID(),
		Role:    role,
		Content: content,
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) *Message {
	return NewMessage(RoleAssistant, content)
}

// NewToolMessage creates a new tool result message.
func NewToolMessage(content string) *Message {
	return NewMessage(RoleTool, content)
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// HasToolCalls reports whether the message carries tool calls. An empty
// slice is treated the same as an absent field.
func (m *Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

// HasReasoning reports whether the message carries reasoning text.
func (m *Message) HasReasoning() bool {
	return m.Reasoning != ""
}

// AddToolCall appends a tool call to the message.
func (m *Message) AddToolCall(name, arguments string) {
	m.ToolCalls = append(m.ToolCalls, ToolCall{Name: name, Arguments: arguments})
}

// Clone creates a deep copy of the message.
func (m *Message) Clone() *Message {
	clone := *m
	if len(m.ToolCalls) > 0 {
		clone.ToolCalls = make([]ToolCall, len(m.ToolCalls))
		copy(clone.ToolCalls, m.ToolCalls)
	}
	return &clone
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	content := m.Content
	if content == "" && m.HasToolCalls() {
		names := make([]string, len(m.ToolCalls))
		for i, tc := range m.ToolCalls {
			names[i] = tc.Name
		}
		content = "[tool call: " + strings.Join(names, ", ") + "]"
	}
	content = strings.ReplaceAll(content, "\n", " ")
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content, reasoning, or calls.
func (m *Message) IsEmpty() bool {
	return m.Content == "" && m.Reasoning == "" && !m.HasToolCalls()
}

// EstimateTokens gives a rough estimate of token count.
// Uses the approximation of ~4 characters per token; exact counting belongs
// to an external tokenizer.
func (m *Message) EstimateTokens() int {
	total := (len(m.Content) + 3) / 4
	if m.Reasoning != "" {
		total += (len(m.Reasoning) + 3) / 4
	}
	for _, tc := range m.ToolCalls {
		total += (len(tc.Name) + len(tc.Arguments) + 3) / 4
	}
	return total
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
