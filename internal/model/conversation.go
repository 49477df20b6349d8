// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and tool calls fed to the template engine.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds an ordered sequence of messages. Insertion order is the
// turn order and is semantically significant: templates reason about "is this
// the last assistant turn" and "does the conversation open with a system
// turn". Messages are owned by the conversation; removing one destroys it.
type Conversation struct {
	// Identity
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Messages, in turn order
	Messages []*Message `json:"messages"`
}

// NewConversation creates a new empty conversation with a generated ID.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        generateConversationID(),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message to the end of the conversation.
func (c *Conversation) Append(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.touch()
}

// Insert places a message at the given index, shifting later turns down.
// Out-of-range indexes clamp to the nearest end.
func (c *Conversation) Insert(index int, msg *Message) {
	if index < 0 {
		index = 0
	}
	if index >= len(c.Messages) {
		c.Append(msg)
		return
	}
	c.Messages = append(c.Messages, nil)
	copy(c.Messages[index+1:], c.Messages[index:])
	c.Messages[index] = msg
	c.touch()
}

// Remove deletes the message at the given index. Returns false when the
// index is out of range.
func (c *Conversation) Remove(index int) bool {
	if index < 0 || index >= len(c.Messages) {
		return false
	}
	c.Messages = append(c.Messages[:index], c.Messages[index+1:]...)
	c.touch()
	return true
}

// Move shifts the message at index by delta positions (negative is up).
// Returns false when either position is out of range.
func (c *Conversation) Move(index, delta int) bool {
	target := index + delta
	if index < 0 || index >= len(c.Messages) || target < 0 || target >= len(c.Messages) {
		return false
	}
	c.Messages[index], c.Messages[target] = c.Messages[target], c.Messages[index]
	c.touch()
	return true
}

// Get returns the message at the given index, or nil when out of range.
func (c *Conversation) Get(index int) *Message {
	if index < 0 || index >= len(c.Messages) {
		return nil
	}
	return c.Messages[index]
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// Clear removes all messages from the conversation.
func (c *Conversation) Clear() {
	c.Messages = make([]*Message, 0)
	c.touch()
}

// =============================================================================
// TURN QUERIES
// =============================================================================

// LastAssistantIndex returns the index of the final assistant turn, or -1.
// Only that turn's reasoning is ever surfaced by the engine.
func (c *Conversation) LastAssistantIndex() int {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return i
		}
	}
	return -1
}

// FirstSystemIndex returns the index of the first system turn, or -1.
func (c *Conversation) FirstSystemIndex() int {
	for i, msg := range c.Messages {
		if msg.Role == RoleSystem {
			return i
		}
	}
	return -1
}

// OpensWithSystem reports whether the first turn is a system message.
// Templates special-case only this placement; later system turns render as
// ordinary turns.
func (c *Conversation) OpensWithSystem() bool {
	return len(c.Messages) > 0 && c.Messages[0].Role == RoleSystem
}

// =============================================================================
// DERIVED DATA
// =============================================================================

// EstimateTokens estimates the total token count of the conversation,
// including a small per-message structural overhead.
func (c *Conversation) EstimateTokens() int {
	total := 0
	for _, msg := range c.Messages {
		total += msg.EstimateTokens()
		total += 4
	}
	return total
}

// Preview returns a short preview of the conversation for listings.
func (c *Conversation) Preview() string {
	if len(c.Messages) == 0 {
		return "Empty conversation"
	}
	for _, msg := range c.Messages {
		if msg.Role == RoleUser {
			return msg.Preview(80)
		}
	}
	return c.Messages[0].Preview(80)
}

// GetTitle returns the conversation title or a default derived from the
// first user turn.
func (c *Conversation) GetTitle() string {
	if c.Title != "" {
		return c.Title
	}
	for _, msg := range c.Messages {
		if msg.Role == RoleUser {
			return msg.Preview(50)
		}
	}
	return "New Conversation"
}

// SetTitle manually sets the conversation title.
func (c *Conversation) SetTitle(title string) {
	c.Title = title
	c.touch()
}

// Clone creates a deep copy of the conversation.
func (c *Conversation) Clone() *Conversation {
	clone := &Conversation{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Messages:  make([]*Message, len(c.Messages)),
	}
	for i, msg := range c.Messages {
		clone.Messages[i] = msg.Clone()
	}
	return clone
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func (c *Conversation) touch() {
	c.UpdatedAt = time.Now()
}

// generateConversationID creates a unique conversation ID.
func generateConversationID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "conv_" + hex.EncodeToString(bytes)
}
