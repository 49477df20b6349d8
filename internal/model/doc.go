// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and tool calls.
//
// This package defines the core domain types the template engine consumes:
// an ordered conversation of typed chat turns, where assistant turns may
// carry reasoning text and tool calls. Tool-call arguments are opaque JSON
// text and are preserved byte-for-byte through serialization and rendering.
//
// # Key Types
//
//   - Conversation: Ordered container of messages; turn order is significant
//   - Message: Single turn with role, content, optional reasoning and tool calls
//   - ToolCall: Function name plus verbatim argument JSON text
//   - Role: Message role enumeration (system, user, assistant, tool, developer)
//
// # Usage
//
// Build a conversation:
//
//	conv := model.NewConversation()
//	conv.Append(model.NewSystemMessage("You are a helpful assistant."))
//	conv.Append(model.NewUserMessage("Why is the sky blue?"))
//
// Attach a tool call to an assistant turn:
//
//	msg := model.NewAssistantMessage("")
//	msg.AddToolCall("search", `{"query": "Why is the sky blue?"}`)
//	conv.Append(msg)
package model
