// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jeranaias/promptforge/internal/config"
	"github.com/jeranaias/promptforge/internal/export"
	"github.com/jeranaias/promptforge/internal/history"
	"github.com/jeranaias/promptforge/internal/model"
	"github.com/jeranaias/promptforge/internal/session"
)

// =============================================================================
// OPTION NAMES
// =============================================================================

// Render option names carried by OptionToggledMsg.
const (
	OptionThinking         = "thinking"
	OptionGenerationPrompt = "generation_prompt"
	OptionTools            = "tools"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// These messages are sent by command handlers to update the application state.

// NoticeMsg shows a transient informational message in the status line.
type NoticeMsg struct {
	Text string
}

// ErrorMsg reports a command failure with an optional recovery tip.
type ErrorMsg struct {
	Title   string
	Message string
	Tip     string
}

// ShowHelpMsg triggers the help overlay.
type ShowHelpMsg struct {
	Topic string // Optional topic for specific help
}

// ModelSwitchedMsg reports the outcome of a model switch.
type ModelSwitchedMsg struct {
	ID   string
	Name string
	Err  error
}

// ShowModelPickerMsg opens the model picker overlay.
type ShowModelPickerMsg struct{}

// OptionToggledMsg reports a render option change.
type OptionToggledMsg struct {
	Option  string // OptionThinking, OptionGenerationPrompt, or OptionTools
	Enabled bool
	Err     error
}

// MessageAddedMsg reports a message appended to the conversation.
type MessageAddedMsg struct {
	Index int
	Role  model.Role
	Err   error
}

// MessageRemovedMsg reports a message removal.
type MessageRemovedMsg struct {
	Index int
	Err   error
}

// MessageMovedMsg reports a message reorder.
type MessageMovedMsg struct {
	Index    int
	NewIndex int
	Err      error
}

// RoleChangedMsg reports a message role change.
type RoleChangedMsg struct {
	Index int
	Role  model.Role
	Err   error
}

// ConversationResetMsg asks the application to start a fresh conversation.
type ConversationResetMsg struct{}

// PromptResetMsg reports a regenerate-from-conversation request.
type PromptResetMsg struct {
	Err error
}

// CopyPromptMsg asks the application to copy the rendered prompt.
type CopyPromptMsg struct{}

// PromptExportedMsg reports the outcome of an export.
type PromptExportedMsg struct {
	Path   string
	Format string
	Err    error
}

// SessionSavedMsg reports a history save.
type SessionSavedMsg struct {
	ID    string
	Title string
	Err   error
}

// SessionLoadedMsg carries a history entry to restore.
type SessionLoadedMsg struct {
	Entry *history.Entry
	Err   error
}

// SessionInfo is a display-friendly summary of a saved prompt.
type SessionInfo struct {
	ID       string
	Title    string
	ModelID  string
	State    string
	SavedAt  string
	Messages int
}

// SessionListMsg carries the saved prompt listing.
type SessionListMsg struct {
	Sessions []SessionInfo
	Err      error
}

// ShowConfigMsg triggers showing configuration.
type ShowConfigMsg struct {
	Key   string // Optional specific key
	Value string
}

// ConfigUpdatedMsg reports a config value change.
type ConfigUpdatedMsg struct {
	Key      string
	Value    interface{}
	OldValue interface{}
	Err      error
}

// =============================================================================
// NAVIGATION HANDLERS
// =============================================================================

func handleHelp(ctx *Context, args []string) tea.Cmd {
	topic := ""
	if len(args) > 0 {
		topic = strings.ToLower(args[0])
	}
	return func() tea.Msg {
		return ShowHelpMsg{Topic: topic}
	}
}

func handleQuit(ctx *Context, args []string) tea.Cmd {
	return tea.Quit
}

// =============================================================================
// CONVERSATION HANDLERS
// =============================================================================

func handleAdd(ctx *Context, args []string) tea.Cmd {
	role := model.RoleUser
	content := ""

	if len(args) > 0 {
		if r := model.Role(strings.ToLower(args[0])); r.Valid() {
			role = r
			content = strings.Join(args[1:], " ")
		} else {
			// First word is not a role, treat everything as content
			content = strings.Join(args, " ")
		}
	}

	sess := sessionOf(ctx)
	return func() tea.Msg {
		if sess == nil {
			return MessageAddedMsg{Err: errNoSession()}
		}
		if err := sess.AppendMessage(model.NewMessage(role, content)); err != nil {
			return MessageAddedMsg{Err: err}
		}
		return MessageAddedMsg{Index: sess.MessageCount() - 1, Role: role}
	}
}

func handleRemove(ctx *Context, args []string) tea.Cmd {
	index, err := parseIndex(args)
	if err != nil {
		return errorCmd("Invalid index", err.Error(), "Usage: /remove <index>")
	}

	sess := sessionOf(ctx)
	return func() tea.Msg {
		if sess == nil {
			return MessageRemovedMsg{Index: index, Err: errNoSession()}
		}
		return MessageRemovedMsg{Index: index, Err: sess.RemoveMessage(index)}
	}
}

func handleMove(ctx *Context, args []string) tea.Cmd {
	index, err := parseIndex(args)
	if err != nil {
		return errorCmd("Invalid index", err.Error(), "Usage: /move <index> <up|down>")
	}
	if len(args) < 2 {
		return errorCmd("Missing direction", "/move requires a direction", "Usage: /move <index> <up|down>")
	}

	delta := 0
	switch strings.ToLower(args[1]) {
	case "up":
		delta = -1
	case "down":
		delta = 1
	default:
		return errorCmd("Invalid direction",
			fmt.Sprintf("unknown direction: %s", args[1]),
			"Valid directions: up, down")
	}

	sess := sessionOf(ctx)
	return func() tea.Msg {
		if sess == nil {
			return MessageMovedMsg{Index: index, Err: errNoSession()}
		}
		return MessageMovedMsg{
			Index:    index,
			NewIndex: index + delta,
			Err:      sess.MoveMessage(index, delta),
		}
	}
}

func handleRole(ctx *Context, args []string) tea.Cmd {
	index, err := parseIndex(args)
	if err != nil {
		return errorCmd("Invalid index", err.Error(), "Usage: /role <index> <role>")
	}
	if len(args) < 2 {
		return errorCmd("Missing role", "/role requires a role argument", "Usage: /role <index> <role>")
	}

	role := model.Role(strings.ToLower(args[1]))
	if !role.Valid() {
		return errorCmd("Invalid role",
			fmt.Sprintf("unknown role: %s", args[1]),
			"Valid roles: system, user, assistant, tool, developer")
	}

	sess := sessionOf(ctx)
	return func() tea.Msg {
		if sess == nil {
			return RoleChangedMsg{Index: index, Role: role, Err: errNoSession()}
		}
		msg := sess.Conversation().Get(index)
		if msg == nil {
			return RoleChangedMsg{Index: index, Role: role, Err: session.ErrNoSuchMessage}
		}
		err := sess.SetMessage(index, role, msg.Content, msg.Reasoning)
		return RoleChangedMsg{Index: index, Role: role, Err: err}
	}
}

func handleNew(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return ConversationResetMsg{}
	}
}

// =============================================================================
// PROMPT HANDLERS
// =============================================================================

func handleReset(ctx *Context, args []string) tea.Cmd {
	sess := sessionOf(ctx)
	return func() tea.Msg {
		if sess == nil {
			return PromptResetMsg{Err: errNoSession()}
		}
		return PromptResetMsg{Err: sess.Reset()}
	}
}

func handleThinking(ctx *Context, args []string) tea.Cmd {
	sess := sessionOf(ctx)
	return toggleCmd(OptionThinking, args, sess,
		func() bool { return sess.EnableThinking() },
		func(v bool) error { return sess.SetThinking(v) })
}

func handleGenPrompt(ctx *Context, args []string) tea.Cmd {
	sess := sessionOf(ctx)
	return toggleCmd(OptionGenerationPrompt, args, sess,
		func() bool { return sess.AddGenerationPrompt() },
		func(v bool) error { return sess.SetGenerationPrompt(v) })
}

func handleTools(ctx *Context, args []string) tea.Cmd {
	sess := sessionOf(ctx)
	return toggleCmd(OptionTools, args, sess,
		func() bool { return sess.IncludeTools() },
		func(v bool) error { return sess.SetIncludeTools(v) })
}

// toggleCmd builds the shared on/off/flip behavior of the option commands.
// With no argument the option flips; "on" and "off" set it explicitly.
func toggleCmd(option string, args []string, sess *session.Session, get func() bool, set func(bool) error) tea.Cmd {
	if sess == nil {
		return func() tea.Msg {
			return OptionToggledMsg{Option: option, Err: errNoSession()}
		}
	}

	var target bool
	explicit := false
	if len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case "on", "true", "1":
			target, explicit = true, true
		case "off", "false", "0":
			target, explicit = false, true
		default:
			return errorCmd("Invalid state",
				fmt.Sprintf("unknown state: %s", args[0]),
				"Valid states: on, off")
		}
	}

	return func() tea.Msg {
		if !explicit {
			target = !get()
		}
		return OptionToggledMsg{Option: option, Enabled: target, Err: set(target)}
	}
}

func handleCopy(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return CopyPromptMsg{}
	}
}

func handleExport(ctx *Context, args []string) tea.Cmd {
	format := ""
	if ctx != nil && ctx.Config != nil {
		format = ctx.Config.Export.Format
	}
	if format == "" {
		format = "text"
	}
	if len(args) > 0 {
		format = normalizeFormat(args[0])
	}

	switch format {
	case "text", "markdown", "json", "html":
	default:
		return errorCmd("Invalid export format",
			fmt.Sprintf("unknown format: %s", format),
			"Supported formats: text, markdown, json, html")
	}

	opts := export.DefaultOptions()
	if ctx != nil && ctx.Config != nil {
		opts.OutputDir = ctx.Config.ExportDir()
		opts.Theme = ctx.Config.UI.Theme
	}
	if len(args) > 1 {
		opts.OutputDir = args[1]
	}

	sess := sessionOf(ctx)
	return func() tea.Msg {
		if sess == nil {
			return PromptExportedMsg{Format: format, Err: errNoSession()}
		}
		path, err := export.ExportSnapshot(SnapshotFromSession(sess), format, opts)
		return PromptExportedMsg{Path: path, Format: format, Err: err}
	}
}

// normalizeFormat maps format aliases onto canonical exporter names.
func normalizeFormat(format string) string {
	switch strings.ToLower(format) {
	case "txt":
		return "text"
	case "md":
		return "markdown"
	case "htm":
		return "html"
	default:
		return strings.ToLower(format)
	}
}

// =============================================================================
// MODEL HANDLERS
// =============================================================================

func handleModel(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		reg := ctx.registry()
		current := ""
		if sess := sessionOf(ctx); sess != nil {
			current = sess.ModelID()
		}
		return func() tea.Msg {
			if reg == nil {
				return NoticeMsg{Text: "No models registered"}
			}
			var sb strings.Builder
			sb.WriteString("Available models:\n")
			for _, def := range reg.List() {
				marker := "  "
				if def.ID == current {
					marker = "* "
				}
				sb.WriteString(fmt.Sprintf("%s%-14s %s\n", marker, def.ID, def.DisplayName))
			}
			sb.WriteString("\nUse /model <id> to switch")
			return NoticeMsg{Text: sb.String()}
		}
	}

	id := args[0]
	sess := sessionOf(ctx)
	reg := ctx.registry()
	return func() tea.Msg {
		if sess == nil {
			return ModelSwitchedMsg{ID: id, Err: errNoSession()}
		}
		if err := sess.SetModel(id); err != nil {
			return ModelSwitchedMsg{ID: id, Err: err}
		}
		name := id
		if reg != nil {
			if def, err := reg.Lookup(id); err == nil {
				name = def.DisplayName
			}
		}
		return ModelSwitchedMsg{ID: id, Name: name}
	}
}

func handleModels(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return ShowModelPickerMsg{}
	}
}

// =============================================================================
// SESSION HANDLERS
// =============================================================================

func handleSave(ctx *Context, args []string) tea.Cmd {
	title := strings.TrimSpace(strings.Join(args, " "))

	sess := sessionOf(ctx)
	store := historyOf(ctx)
	return func() tea.Msg {
		if sess == nil {
			return SessionSavedMsg{Err: errNoSession()}
		}
		if store == nil {
			return SessionSavedMsg{Err: fmt.Errorf("history is disabled")}
		}

		entry := EntryFromSession(sess, title)
		if err := store.Record(entry); err != nil {
			return SessionSavedMsg{Err: err}
		}
		return SessionSavedMsg{ID: entry.UUID, Title: entry.Title}
	}
}

func handleLoad(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		// No id given, show the listing instead
		return handleSessions(ctx, args)
	}

	id := args[0]
	store := historyOf(ctx)
	return func() tea.Msg {
		if store == nil {
			return SessionLoadedMsg{Err: fmt.Errorf("history is disabled")}
		}
		entry, err := store.Get(id)
		return SessionLoadedMsg{Entry: entry, Err: err}
	}
}

func handleSessions(ctx *Context, args []string) tea.Cmd {
	store := historyOf(ctx)
	return func() tea.Msg {
		if store == nil {
			return SessionListMsg{Err: fmt.Errorf("history is disabled")}
		}
		entries, err := store.List(50)
		if err != nil {
			return SessionListMsg{Err: err}
		}

		sessions := make([]SessionInfo, len(entries))
		for i, e := range entries {
			sessions[i] = SessionInfo{
				ID:       e.UUID,
				Title:    e.Title,
				ModelID:  e.ModelID,
				State:    e.State,
				SavedAt:  e.CreatedAt.Format("2006-01-02 15:04"),
				Messages: e.MessageCount,
			}
		}
		return SessionListMsg{Sessions: sessions}
	}
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

func handleConfig(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		return func() tea.Msg {
			return ShowConfigMsg{}
		}
	}

	key := args[0]

	if len(args) == 1 {
		cfg := configOf(ctx)
		return func() tea.Msg {
			if cfg == nil {
				return ShowConfigMsg{Key: key}
			}
			val, err := cfg.Get(key)
			if err != nil {
				return ErrorMsg{
					Title:   "Config error",
					Message: err.Error(),
					Tip:     "Use /config to see all available keys",
				}
			}
			return ShowConfigMsg{Key: key, Value: fmt.Sprintf("%v", val)}
		}
	}

	value := strings.Join(args[1:], " ")
	cfg := configOf(ctx)
	return func() tea.Msg {
		if cfg == nil {
			return ShowConfigMsg{Key: key, Value: value}
		}
		oldVal, _ := cfg.Get(key)
		if err := cfg.Set(key, value); err != nil {
			return ConfigUpdatedMsg{Key: key, Err: err}
		}
		newVal, _ := cfg.Get(key)
		return ConfigUpdatedMsg{Key: key, Value: newVal, OldValue: oldVal}
	}
}

// =============================================================================
// SNAPSHOT HELPERS
// =============================================================================

// SnapshotFromSession captures the session's current state for export.
func SnapshotFromSession(sess *session.Session) *export.Snapshot {
	conv := sess.Conversation()
	status := sess.GetStatus()
	prompt := sess.Prompt()

	return &export.Snapshot{
		Title:               export.DeriveTitle(conv),
		ModelID:             status.ModelID,
		ModelName:           status.ModelName,
		State:               string(status.State),
		CreatedAt:           time.Now(),
		EnableThinking:      status.EnableThinking,
		AddGenerationPrompt: status.AddGenerationPrompt,
		IncludeTools:        status.IncludeTools,
		Messages:            conv.Messages,
		Prompt:              prompt.Text,
		Spans:               prompt.Spans,
	}
}

// EntryFromSession builds a history entry from the session's current state.
// An empty title is derived from the conversation.
func EntryFromSession(sess *session.Session, title string) *history.Entry {
	status := sess.GetStatus()
	stats := sess.Stats()

	if title == "" {
		title = export.DeriveTitle(sess.Conversation())
	}

	return &history.Entry{
		UUID:         uuid.NewString(),
		CreatedAt:    time.Now(),
		ModelID:      status.ModelID,
		ModelName:    status.ModelName,
		Title:        title,
		State:        string(status.State),
		MessageCount: stats.Messages,
		ByteCount:    stats.Bytes,
		TokenCount:   stats.Tokens,
		Prompt:       sess.Prompt().Text,
	}
}

// =============================================================================
// HANDLER UTILITIES
// =============================================================================

func sessionOf(ctx *Context) *session.Session {
	if ctx == nil {
		return nil
	}
	return ctx.Session
}

func historyOf(ctx *Context) *history.Store {
	if ctx == nil {
		return nil
	}
	return ctx.History
}

func configOf(ctx *Context) *config.Config {
	if ctx == nil {
		return nil
	}
	return ctx.Config
}

func errNoSession() error {
	return fmt.Errorf("no active session")
}

// errorCmd wraps an ErrorMsg in a command.
func errorCmd(title, message, tip string) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Title: title, Message: message, Tip: tip}
	}
}

// parseIndex reads the leading message-index argument.
func parseIndex(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing message index")
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("not a message index: %s", args[0])
	}
	if index < 0 {
		return 0, fmt.Errorf("message index cannot be negative")
	}
	return index, nil
}

// =============================================================================
// HELP TEXT GENERATION
// =============================================================================

// HelpMarkdown renders command help as markdown for the glamour overlay.
// topic may be empty or "all" for the full listing, or a category name.
func HelpMarkdown(r *Registry, topic string) string {
	topic = strings.ToLower(strings.TrimSpace(topic))

	categories := r.ByCategory()

	var order []string
	if topic == "" || topic == "all" {
		order = CategoryOrder
	} else {
		for _, cat := range CategoryOrder {
			if strings.ToLower(cat) == topic {
				order = []string{cat}
				break
			}
		}
		if order == nil {
			return fmt.Sprintf("No commands found for topic %q.\n\nTry `/help all`.", topic)
		}
	}

	var sb strings.Builder
	sb.WriteString("# Commands\n\n")

	for _, category := range order {
		cmds, ok := categories[category]
		if !ok || len(cmds) == 0 {
			continue
		}
		sortCommands(cmds)

		sb.WriteString("## " + category + "\n\n")
		for _, cmd := range cmds {
			sb.WriteString("- `" + cmd.Name + "`")
			if len(cmd.Aliases) > 0 {
				sb.WriteString(" (" + strings.Join(cmd.Aliases, ", ") + ")")
			}
			sb.WriteString(" - " + cmd.Description + "\n")
			if cmd.Usage != "" {
				sb.WriteString("  - Usage: `" + cmd.Usage + "`\n")
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Use `/help <category>` for one section: ")
	sb.WriteString(strings.ToLower(strings.Join(CategoryOrder, ", ")))
	sb.WriteString(".\n")

	return sb.String()
}
