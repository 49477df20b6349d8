// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the prompt-building state machine.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jeranaias/promptforge/internal/highlight"
	"github.com/jeranaias/promptforge/internal/model"
	"github.com/jeranaias/promptforge/internal/template"
)

// ===== ERRORS =====

var (
	// ErrNoSuchMessage is returned for out-of-range message indexes.
	ErrNoSuchMessage = errors.New("no such message")

	// ErrLastMessage is returned when removal would empty the conversation.
	ErrLastMessage = errors.New("cannot remove the last message")
)

// ===== STATE =====

// State tracks whose text the prompt pane shows.
type State string

const (
	// StateGenerated means the prompt text came from the renderer.
	StateGenerated State = "generated"

	// StateEdited means the user hand-edited the prompt text; it no longer
	// tracks the conversation until a mutation or reset regenerates it.
	StateEdited State = "edited"
)

// RenderedPrompt pairs prompt text with its highlight spans.
type RenderedPrompt struct {
	Text  string
	Spans []highlight.Span
}

// Stats summarizes the current prompt for the metrics bar.
type Stats struct {
	Bytes    int
	Runes    int
	Lines    int
	Tokens   int // rough 4-chars-per-token estimate
	Messages int
}

// Status is a point-in-time snapshot for status bars and listings.
type Status struct {
	SessionID           string
	ModelID             string
	ModelName           string
	State               State
	EnableThinking      bool
	AddGenerationPrompt bool
	IncludeTools        bool
	Messages            int
	StartTime           time.Time
}

// ===== SESSION =====

// Session holds one user's conversation, rendering options, and the current
// prompt. All methods are safe for concurrent use; every mutation
// re-renders (or re-highlights) before returning, so readers always see a
// prompt that matches the state.
type Session struct {
	mu      sync.Mutex
	id      string
	started time.Time

	registry *template.Registry
	conv     *model.Conversation
	modelID  string

	enableThinking      bool
	addGenerationPrompt bool
	includeTools        bool
	toolsJSON           string

	state   State
	prompt  RenderedPrompt
	lastErr error
}

// New builds a session seeded with the demo conversation and default
// options, rendered against the registry's default model.
func New(reg *template.Registry) (*Session, error) {
	s := &Session{
		id:                  uuid.NewString(),
		started:             time.Now(),
		registry:            reg,
		conv:                SeedConversation(),
		modelID:             template.DefaultModelID,
		enableThinking:      true,
		addGenerationPrompt: true,
		toolsJSON:           DefaultToolsJSON,
		state:               StateGenerated,
	}
	if err := s.rerenderLocked(); err != nil {
		return nil, fmt.Errorf("initial render failed: %w", err)
	}
	return s, nil
}

// ===== RENDERING CORE =====

// rerenderLocked regenerates prompt text and spans from the conversation.
// On failure the previous prompt and state stay in place and the error is
// retained for LastError. Callers must hold s.mu.
func (s *Session) rerenderLocked() error {
	def, err := s.registry.Lookup(s.modelID)
	if err != nil {
		s.lastErr = err
		return err
	}

	opts := template.Options{
		template.OptEnableThinking:      s.enableThinking,
		template.OptAddGenerationPrompt: s.addGenerationPrompt,
	}
	if s.includeTools && s.toolsJSON != "" {
		opts[template.OptTools] = s.toolsJSON
	}

	text, err := template.Render(s.conv, def, opts)
	if err != nil {
		s.lastErr = err
		return err
	}

	s.prompt = RenderedPrompt{
		Text:  text,
		Spans: highlight.Highlight(text, def.Patterns),
	}
	s.state = StateGenerated
	s.lastErr = nil
	return nil
}

// rehighlightLocked recomputes spans for the current text without touching
// it, for edited prompts and model switches while edited.
func (s *Session) rehighlightLocked() error {
	def, err := s.registry.Lookup(s.modelID)
	if err != nil {
		s.lastErr = err
		return err
	}
	s.prompt.Spans = highlight.Highlight(s.prompt.Text, def.Patterns)
	s.lastErr = nil
	return nil
}

// ===== CONVERSATION MUTATIONS =====

// AddMessage appends an empty user message and returns its index.
func (s *Session) AddMessage() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conv.Append(model.NewUserMessage(""))
	return s.conv.Len() - 1, s.rerenderLocked()
}

// AppendMessage appends a fully-formed message.
func (s *Session) AppendMessage(msg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conv.Append(msg)
	return s.rerenderLocked()
}

// RemoveMessage deletes the message at index. The last remaining message
// cannot be removed; the conversation never goes empty through the UI.
func (s *Session) RemoveMessage(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conv.Len() <= 1 {
		return ErrLastMessage
	}
	if !s.conv.Remove(index) {
		return ErrNoSuchMessage
	}
	return s.rerenderLocked()
}

// MoveMessage shifts the message at index by delta positions. A move whose
// target falls outside the conversation is a no-op, matching up/down
// buttons at the list edges.
func (s *Session) MoveMessage(index, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conv.Get(index) == nil {
		return ErrNoSuchMessage
	}
	if !s.conv.Move(index, delta) {
		return nil
	}
	return s.rerenderLocked()
}

// SetMessage replaces the role, content, and reasoning of the message at
// index, keeping its tool calls.
func (s *Session) SetMessage(index int, role model.Role, content, reasoning string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.conv.Get(index)
	if msg == nil {
		return ErrNoSuchMessage
	}
	msg.Role = role
	msg.Content = content
	msg.Reasoning = reasoning
	return s.rerenderLocked()
}

// SetMessageToolCalls replaces the tool calls of the message at index.
func (s *Session) SetMessageToolCalls(index int, calls []model.ToolCall) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.conv.Get(index)
	if msg == nil {
		return ErrNoSuchMessage
	}
	msg.ToolCalls = append([]model.ToolCall(nil), calls...)
	return s.rerenderLocked()
}

// SetConversation swaps in a whole conversation, e.g. one restored from
// history or piped in on the command line.
func (s *Session) SetConversation(conv *model.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv == nil {
		conv = model.NewConversation()
	}
	s.conv = conv
	return s.rerenderLocked()
}

// ===== OPTION MUTATIONS =====

// SetThinking toggles reasoning emission and regenerates the prompt.
func (s *Session) SetThinking(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enableThinking = enabled
	return s.rerenderLocked()
}

// SetGenerationPrompt toggles the trailing assistant opener.
func (s *Session) SetGenerationPrompt(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addGenerationPrompt = enabled
	return s.rerenderLocked()
}

// SetIncludeTools toggles the tools block.
func (s *Session) SetIncludeTools(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.includeTools = enabled
	return s.rerenderLocked()
}

// SetToolsJSON replaces the tools signature text. The text is spliced
// verbatim when tools are included, so no validation happens here.
func (s *Session) SetToolsJSON(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toolsJSON = text
	return s.rerenderLocked()
}

// SetModel switches the active model. With a generated prompt this
// re-renders; with an edited prompt the text is preserved and only the
// highlighting is redone with the new model's patterns.
func (s *Session) SetModel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.registry.Lookup(id); err != nil {
		return err
	}
	s.modelID = id
	if s.state == StateEdited {
		return s.rehighlightLocked()
	}
	return s.rerenderLocked()
}

// SetRegistry swaps the definition registry, e.g. after the definitions
// directory changed on disk. The current prompt is refreshed against the
// new registry the same way SetModel refreshes it.
func (s *Session) SetRegistry(reg *template.Registry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry = reg
	if s.state == StateEdited {
		return s.rehighlightLocked()
	}
	return s.rerenderLocked()
}

// ===== EDIT / RESET =====

// SetEditedText replaces the prompt text with a manual edit. The session
// enters the edited state: conversation and options stop driving the text
// until the next mutation or Reset regenerates it.
func (s *Session) SetEditedText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompt.Text = text
	s.state = StateEdited
	return s.rehighlightLocked()
}

// Reset discards any manual edit and regenerates the prompt from the
// conversation.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rerenderLocked()
}

// ===== ACCESSORS =====

// ID returns the session identifier.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// ModelID returns the active model id.
func (s *Session) ModelID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modelID
}

// State returns whether the prompt is generated or hand-edited.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Prompt returns the current prompt text and spans. The spans slice is
// copied so callers can hold it across further mutations.
func (s *Session) Prompt() RenderedPrompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	spans := make([]highlight.Span, len(s.prompt.Spans))
	copy(spans, s.prompt.Spans)
	return RenderedPrompt{Text: s.prompt.Text, Spans: spans}
}

// Conversation returns a deep copy of the conversation for display or
// export. Mutations must go through the session methods.
func (s *Session) Conversation() *model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Clone()
}

// MessageCount returns the number of messages without copying.
func (s *Session) MessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Len()
}

// EnableThinking reports the thinking toggle.
func (s *Session) EnableThinking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enableThinking
}

// AddGenerationPrompt reports the generation-prompt toggle.
func (s *Session) AddGenerationPrompt() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addGenerationPrompt
}

// IncludeTools reports the tools toggle.
func (s *Session) IncludeTools() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.includeTools
}

// ToolsJSON returns the tools signature text.
func (s *Session) ToolsJSON() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toolsJSON
}

// Registry returns the active definition registry.
func (s *Session) Registry() *template.Registry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry
}

// LastError returns the most recent render failure, or nil after a
// successful render. The prompt always holds the last good text.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Stats returns size metrics for the current prompt.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.prompt.Text
	return Stats{
		Bytes:    len(text),
		Runes:    utf8.RuneCountInString(text),
		Lines:    strings.Count(text, "\n") + 1,
		Tokens:   (len(text) + 3) / 4,
		Messages: s.conv.Len(),
	}
}

// GetStatus returns a snapshot for status bars.
func (s *Session) GetStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.modelID
	if def, err := s.registry.Lookup(s.modelID); err == nil {
		name = def.DisplayName
	}

	return Status{
		SessionID:           s.id,
		ModelID:             s.modelID,
		ModelName:           name,
		State:               s.state,
		EnableThinking:      s.enableThinking,
		AddGenerationPrompt: s.addGenerationPrompt,
		IncludeTools:        s.includeTools,
		Messages:            s.conv.Len(),
		StartTime:           s.started,
	}
}
