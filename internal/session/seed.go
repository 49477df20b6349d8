// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Seed data for fresh sessions: a worked tool-call exchange and the demo
// tool signature.
package session

import "github.com/jeranaias/promptforge/internal/model"

// DefaultToolsJSON is the tools signature seeded into new sessions. It is
// kept as formatted text, not a parsed structure, because the renderer
// splices tools verbatim.
const DefaultToolsJSON = `[
  {
    "type": "function",
    "function": {
      "name": "search",
      "description": "Use this tool to search the web for relevant information.",
      "parameters": {
        "type": "object",
        "properties": {
          "query": {
            "type": "string",
            "description": "The search query string."
          }
        },
        "required": ["query"]
      }
    }
  }
]`

// SeedConversation builds the demo exchange shown on first launch: a system
// preamble, a user question, an assistant tool call with reasoning, the tool
// result, and the final answer. It exercises every message shape the
// renderer supports.
func SeedConversation() *model.Conversation {
	conv := model.NewConversation()
	conv.SetTitle("Why is the sky blue?")

	conv.Append(model.NewSystemMessage("You are a helpful assistant."))
	conv.Append(model.NewUserMessage("Why is the sky blue?"))

	call := model.NewAssistantMessage("")
	call.Reasoning = "The user asked why the sky is blue. I can use the search tool to find relevant information."
	call.AddToolCall("search", `{"query": "Why is the sky blue?"}`)
	conv.Append(call)

	conv.Append(model.NewToolMessage("The sky appears blue due to a phenomenon called Rayleigh scattering, which is the scattering of sunlight by the molecules and tiny particles in Earth's atmosphere."))

	answer := model.NewAssistantMessage("The sky appears blue due to a phenomenon called Rayleigh scattering, which is the scattering of sunlight by the molecules and tiny particles in Earth's atmosphere.")
	answer.Reasoning = "The search tool returned the following information: The sky appears blue due to a phenomenon called Rayleigh scattering."
	conv.Append(answer)

	return conv
}
