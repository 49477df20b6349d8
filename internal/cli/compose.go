// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// compose.go - Interactive composition command handler for promptforge CLI.
//
// CLI: Comprehensive help and examples for all commands
// USABILITY: Line editing and history for better CLI experience
//
// Handles the "promptforge compose" command which provides an interactive
// REPL for building a conversation message by message and watching the
// rendered prompt grow.
//
// Command: compose
// Short:   Build a conversation interactively
// Aliases: (none)
//
// Examples:
//   promptforge compose                   Compose against the default model
//   promptforge compose -m llama3         Use a specific model
//   promptforge compose --role system     Start composing as the system role
//
// Flags:
//   -m, --model NAME    Use specific model (overrides config)
//   --role ROLE         Initial role for typed messages (default: user)
//   -q, --quiet         Minimal output
//
// Interactive Commands (during compose):
//   /help, /h           Show available commands
//   /role [name]        Show or switch the composing role
//   /model [id]         Show or switch model
//   /render, /r         Print the full rendered prompt
//   /messages           List conversation messages
//   /undo, /u           Remove the last message
//   /clear, /c          Clear the conversation
//   /thinking [on|off]  Show or set reasoning emission
//   /genprompt [on|off] Show or set the generation prompt
//   /tools [on|off]     Show or set the tools block
//   /status, /s         Show session status
//   /save               Save the rendered prompt to history
//   /quit, /q           Exit compose
//   Ctrl+C, Ctrl+D      Exit compose
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/promptforge/internal/commands"
	"github.com/jeranaias/promptforge/internal/config"
	"github.com/jeranaias/promptforge/internal/model"
	"github.com/jeranaias/promptforge/internal/session"
	"github.com/jeranaias/promptforge/internal/template"
	"github.com/jeranaias/promptforge/internal/ui/styles"
	"github.com/jeranaias/promptforge/internal/util"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	// Prompt style
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	// Welcome banner style
	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	// Info style
	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	// Command style
	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	// Warning style
	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	// Session summary header
	summaryHeaderStyle = lipgloss.NewStyle().
				Foreground(styles.Cyan).
				Bold(true)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ComposeCLI provides input history and line editing for interactive compose.
// USABILITY: Supports arrow keys for history navigation and line editing.
type ComposeCLI struct {
	line        *liner.State
	historyFile string
}

// NewComposeCLI creates a new ComposeCLI with input history support.
func NewComposeCLI() *ComposeCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	// Get history file path in config directory
	configDir, err := config.ConfigDir()
	if err != nil {
		// Fallback to temp directory if config dir unavailable
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "compose_history")

	cli := &ComposeCLI{
		line:        line,
		historyFile: historyFile,
	}

	// Load existing history
	cli.LoadHistory()

	return cli
}

// LoadHistory loads input history from file.
func (c *ComposeCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
// Supports history navigation with arrow keys.
func (c *ComposeCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}

	// Add non-empty input to history
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}

	return input, nil
}

// SaveHistory persists input history to file with secure permissions.
func (c *ComposeCLI) SaveHistory() {
	// Ensure config directory exists
	if err := config.EnsureConfigDir(); err != nil {
		return
	}

	// Create file with secure permissions (0600 - owner read/write only)
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ComposeCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// ComposeSession holds the state for an interactive compose session.
type ComposeSession struct {
	// Prompt session driving render and highlight
	Session *session.Session

	// Configuration
	Config *config.Config
	Quiet  bool

	// Role applied to typed messages
	Role model.Role

	// Tracking
	StartTime time.Time
	Saved     bool

	// Input history handler
	// USABILITY: Provides readline-like input with history
	InputCLI *ComposeCLI
}

// NewConfiguredSession builds a prompt session that honors the configured
// default model and render options.
func NewConfiguredSession(cfg *config.Config, reg *template.Registry) (*session.Session, error) {
	sess, err := session.New(reg)
	if err != nil {
		return nil, err
	}
	if cfg.DefaultModel != "" && cfg.DefaultModel != sess.ModelID() {
		if err := sess.SetModel(cfg.DefaultModel); err != nil {
			return nil, fmt.Errorf("configured default model: %w", err)
		}
	}
	if err := sess.SetThinking(cfg.Render.EnableThinking); err != nil {
		return nil, err
	}
	if err := sess.SetGenerationPrompt(cfg.Render.AddGenerationPrompt); err != nil {
		return nil, err
	}
	if err := sess.SetIncludeTools(cfg.Render.IncludeTools); err != nil {
		return nil, err
	}
	return sess, nil
}

// NewComposeSession creates a new compose session.
func NewComposeSession(args Args) (*ComposeSession, error) {
	// Load configuration
	cfg := config.Global()

	reg, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	sess, err := NewConfiguredSession(cfg, reg)
	if err != nil {
		return nil, err
	}

	// Compose starts from an empty conversation
	if err := sess.SetConversation(model.NewConversation()); err != nil {
		return nil, err
	}

	// Model priority: CLI arg > config > registry default
	if args.Model != "" {
		if err := sess.SetModel(args.Model); err != nil {
			return nil, err
		}
	}

	// Initial role from --role, defaulting to user
	role := model.RoleUser
	parser := NewArgParser(args.Raw)
	if flag := parser.Flag("role"); flag != "" {
		role = model.Role(strings.ToLower(strings.TrimSpace(flag)))
		if !role.Valid() {
			return nil, NewValidationErrorWithExample(
				"role",
				flag,
				"unknown role",
				strings.Join(roleNames(), ", "),
			)
		}
	}

	return &ComposeSession{
		Session:   sess,
		Config:    cfg,
		Quiet:     args.Quiet,
		Role:      role,
		StartTime: time.Now(),
		InputCLI:  NewComposeCLI(),
	}, nil
}

// =============================================================================
// COMPOSE HANDLER
// =============================================================================

// HandleComposeCommand handles the "compose" command with full interactive
// support.
func HandleComposeCommand(args Args) error {
	cs, err := NewComposeSession(args)
	if err != nil {
		return err
	}

	// Show welcome message
	if !cs.Quiet {
		printComposeWelcome(cs)
	}

	// Ensure input history is saved on exit
	// USABILITY: Save history for future sessions
	defer cs.InputCLI.Close()

	// Main REPL loop using liner for input history
	// USABILITY: Provides readline-like line editing and history navigation
	for {
		// Read input with history support
		input, err := cs.InputCLI.ReadInput(promptStyle.Render(string(cs.Role) + "> "))
		if err != nil {
			if err == liner.ErrPromptAborted {
				// Ctrl+C pressed - exit gracefully
				fmt.Println()
				finishCompose(cs)
				return nil
			}
			// EOF (Ctrl+D) or other error - exit gracefully
			fmt.Println()
			finishCompose(cs)
			return nil
		}

		input = strings.TrimSpace(input)

		// Skip empty input
		if input == "" {
			continue
		}

		// Handle slash commands
		if strings.HasPrefix(input, "/") {
			shouldContinue, err := handleComposeCommand(input, cs)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n",
					ErrorStyle.Render("[Error]"),
					err)
			}
			if !shouldContinue {
				finishCompose(cs)
				return nil
			}
			continue
		}

		// Handle exit/quit without slash
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			finishCompose(cs)
			return nil
		}

		// Append the message
		if err := appendComposedMessage(cs, input); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n",
				ErrorStyle.Render("[Error]"),
				err)
		}
	}
}

// =============================================================================
// MESSAGE HANDLING
// =============================================================================

// appendComposedMessage appends a typed line as a message with the current
// role and reports the updated prompt size.
func appendComposedMessage(cs *ComposeSession, input string) error {
	msg := model.NewMessage(cs.Role, input)
	if err := cs.Session.AppendMessage(msg); err != nil {
		return fmt.Errorf("append failed: %w", err)
	}
	cs.Saved = false

	// Show brief stats (unless quiet)
	if !cs.Quiet {
		showComposeStats(cs)
	}
	return nil
}

// showComposeStats shows the prompt size after a mutation.
func showComposeStats(cs *ComposeSession) {
	stats := cs.Session.Stats()
	fmt.Fprintf(os.Stderr, "%s %d message(s) | %s | ~%d tokens\n",
		infoStyle.Render("[Prompt]"),
		stats.Messages,
		formatBytes(int64(stats.Bytes)),
		stats.Tokens)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleComposeCommand processes slash commands.
// Returns (shouldContinue, error) where shouldContinue=false means exit.
func handleComposeCommand(cmd string, cs *ComposeSession) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return true, nil
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "/help", "/h", "/?":
		printComposeHelp()
		return true, nil

	case "/role":
		return handleRoleCommand(cs, args)

	case "/model", "/m":
		return handleComposeModelCommand(cs, args)

	case "/render", "/r":
		printRenderedPrompt(cs)
		return true, nil

	case "/messages", "/history":
		printComposeMessages(cs)
		return true, nil

	case "/undo", "/u":
		return handleUndoCommand(cs)

	case "/clear", "/c":
		if err := cs.Session.SetConversation(model.NewConversation()); err != nil {
			return true, err
		}
		cs.Saved = false
		fmt.Println(commandStyle.Render("[Conversation cleared]"))
		return true, nil

	case "/thinking":
		return handleToggleCommand(cs, args, "thinking",
			cs.Session.EnableThinking, cs.Session.SetThinking)

	case "/genprompt":
		return handleToggleCommand(cs, args, "generation prompt",
			cs.Session.AddGenerationPrompt, cs.Session.SetGenerationPrompt)

	case "/tools":
		return handleToggleCommand(cs, args, "tools block",
			cs.Session.IncludeTools, cs.Session.SetIncludeTools)

	case "/status", "/s":
		printComposeStatus(cs)
		return true, nil

	case "/save":
		return true, saveComposeToHistory(cs)

	case "/quit", "/q", "/exit":
		return false, nil

	case "/":
		// Just "/" shows help
		printComposeHelp()
		return true, nil

	default:
		return true, fmt.Errorf("unknown command: %s (type /help for commands)", command)
	}
}

// handleRoleCommand handles the /role command.
func handleRoleCommand(cs *ComposeSession, args []string) (bool, error) {
	if len(args) == 0 {
		fmt.Printf("%s Composing as: %s (valid: %s)\n",
			infoStyle.Render("[Role]"),
			commandStyle.Render(string(cs.Role)),
			strings.Join(roleNames(), ", "))
		return true, nil
	}

	role := model.Role(strings.ToLower(args[0]))
	if !role.Valid() {
		return true, fmt.Errorf("unknown role: %s (valid: %s)", args[0], strings.Join(roleNames(), ", "))
	}

	cs.Role = role
	fmt.Printf("%s Composing as: %s\n",
		commandStyle.Render("[OK]"),
		string(role))
	return true, nil
}

// handleComposeModelCommand handles the /model command.
func handleComposeModelCommand(cs *ComposeSession, args []string) (bool, error) {
	if len(args) == 0 {
		status := cs.Session.GetStatus()
		fmt.Printf("%s Current model: %s (%s)\n",
			infoStyle.Render("[Model]"),
			commandStyle.Render(status.ModelID),
			status.ModelName)
		return true, nil
	}

	id := args[0]
	if err := cs.Session.SetModel(id); err != nil {
		return true, err
	}

	cs.Saved = false
	fmt.Printf("%s Switched to model: %s\n",
		commandStyle.Render("[OK]"),
		id)
	return true, nil
}

// handleUndoCommand removes the last message from the conversation.
func handleUndoCommand(cs *ComposeSession) (bool, error) {
	n := cs.Session.MessageCount()
	if n == 0 {
		fmt.Println(infoStyle.Render("[No messages to remove]"))
		return true, nil
	}

	if err := cs.Session.RemoveMessage(n - 1); err != nil {
		return true, err
	}

	cs.Saved = false
	fmt.Printf("%s Removed message #%d\n",
		commandStyle.Render("[OK]"),
		n)
	if !cs.Quiet {
		showComposeStats(cs)
	}
	return true, nil
}

// handleToggleCommand shows or sets a boolean render option.
func handleToggleCommand(cs *ComposeSession, args []string, name string, get func() bool, set func(bool) error) (bool, error) {
	if len(args) == 0 {
		fmt.Printf("%s %s: %s\n",
			infoStyle.Render("[Option]"),
			name,
			commandStyle.Render(onOff(get())))
		return true, nil
	}

	val, err := ParseBoolString(args[0])
	if err != nil {
		return true, err
	}
	if err := set(val); err != nil {
		return true, err
	}

	cs.Saved = false
	fmt.Printf("%s %s: %s\n",
		commandStyle.Render("[OK]"),
		name,
		onOff(val))
	return true, nil
}

// saveComposeToHistory records the current rendered prompt.
func saveComposeToHistory(cs *ComposeSession) error {
	if !cs.Config.History.Enabled {
		return fmt.Errorf("history recording is disabled in config (set history.enabled = true)")
	}
	if cs.Session.MessageCount() == 0 {
		return fmt.Errorf("nothing to save: the conversation is empty")
	}

	store, err := openHistoryStore(cs.Config)
	if err != nil {
		return err
	}
	defer store.Close()

	entry := commands.EntryFromSession(cs.Session, "")
	if err := store.Record(entry); err != nil {
		return WrapError(err, "recording history entry")
	}

	cs.Saved = true
	fmt.Printf("%s Saved to history: %s\n",
		commandStyle.Render("[OK]"),
		entry.UUID)
	return nil
}

// =============================================================================
// DISPLAY FUNCTIONS
// =============================================================================

// printComposeWelcome prints the welcome banner.
func printComposeWelcome(cs *ComposeSession) {
	status := cs.Session.GetStatus()

	fmt.Println()
	fmt.Println(welcomeStyle.Render("promptforge compose"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 30)))
	fmt.Printf("%s %s (%s)\n",
		infoStyle.Render("Model:"),
		commandStyle.Render(status.ModelID),
		status.ModelName)
	fmt.Printf("%s %s\n",
		infoStyle.Render("Role:"),
		commandStyle.Render(string(cs.Role)))
	fmt.Printf("%s thinking %s, generation prompt %s, tools %s\n",
		infoStyle.Render("Render:"),
		onOff(status.EnableThinking),
		onOff(status.AddGenerationPrompt),
		onOff(status.IncludeTools))

	fmt.Println()
	fmt.Println(infoStyle.Render("Type a message to append it as the current role."))
	fmt.Println(infoStyle.Render("Commands: /role, /model, /render, /save, /help, /quit"))
	fmt.Println()
}

// printComposeHelp prints available commands.
func printComposeHelp() {
	fmt.Println()
	fmt.Println(summaryHeaderStyle.Render("Available Commands"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 20)))
	fmt.Println()

	commands := []struct {
		cmd  string
		desc string
	}{
		{"/help, /h", "Show this help"},
		{"/role [name]", "Show or switch the composing role"},
		{"/model [id]", "Show or switch model"},
		{"/render, /r", "Print the full rendered prompt"},
		{"/messages", "List conversation messages"},
		{"/undo, /u", "Remove the last message"},
		{"/clear, /c", "Clear the conversation"},
		{"/thinking [on|off]", "Show or set reasoning emission"},
		{"/genprompt [on|off]", "Show or set the generation prompt"},
		{"/tools [on|off]", "Show or set the tools block"},
		{"/status, /s", "Show session status"},
		{"/save", "Save the rendered prompt to history"},
		{"/quit, /q", "Exit compose"},
	}

	for _, c := range commands {
		fmt.Printf("  %s  %s\n",
			commandStyle.Render(fmt.Sprintf("%-20s", c.cmd)),
			infoStyle.Render(c.desc))
	}

	fmt.Println()
	fmt.Println(infoStyle.Render("Tip: Ctrl+D exits, arrow keys navigate input history"))
	fmt.Println()
}

// printRenderedPrompt prints the current prompt text between separators.
func printRenderedPrompt(cs *ComposeSession) {
	if err := cs.Session.LastError(); err != nil {
		fmt.Fprintf(os.Stderr, "%s last render failed: %v (showing last good prompt)\n",
			warningStyle.Render("[Warn]"),
			err)
	}

	prompt := cs.Session.Prompt()

	fmt.Println()
	fmt.Println(infoStyle.Render(strings.Repeat("─", 60)))
	fmt.Print(prompt.Text)
	if !strings.HasSuffix(prompt.Text, "\n") {
		fmt.Println()
	}
	fmt.Println(infoStyle.Render(strings.Repeat("─", 60)))
	fmt.Println()
}

// printComposeMessages prints the conversation messages.
func printComposeMessages(cs *ComposeSession) {
	conv := cs.Session.Conversation()
	if conv.Len() == 0 {
		fmt.Println(infoStyle.Render("[No messages yet]"))
		return
	}

	fmt.Println()
	fmt.Println(summaryHeaderStyle.Render("Conversation"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 25)))
	fmt.Println()

	for i, msg := range conv.Messages {
		label := string(msg.Role)
		switch msg.Role {
		case model.RoleUser:
			label = lipgloss.NewStyle().Foreground(styles.Cyan).Render(label)
		case model.RoleAssistant:
			label = lipgloss.NewStyle().Foreground(styles.Purple).Render(label)
		case model.RoleSystem:
			label = lipgloss.NewStyle().Foreground(styles.Amber).Render(label)
		}

		// UNICODE: Rune-aware truncation preserves multi-byte characters
		content := util.TruncateRunes(msg.Content, 100)
		content = strings.ReplaceAll(content, "\n", " ")

		extra := ""
		if len(msg.ToolCalls) > 0 {
			extra = fmt.Sprintf(" [%d tool call(s)]", len(msg.ToolCalls))
		}

		fmt.Printf("  %d. %s: %s%s\n", i+1, label, content, extra)
	}

	fmt.Println()
}

// printComposeStatus prints session status.
func printComposeStatus(cs *ComposeSession) {
	status := cs.Session.GetStatus()
	stats := cs.Session.Stats()
	elapsed := time.Since(cs.StartTime).Round(time.Second)

	fmt.Println()
	fmt.Println(summaryHeaderStyle.Render("Session Status"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 20)))
	fmt.Println()

	fmt.Printf("  %s %s (%s)\n",
		infoStyle.Render("Model:"),
		commandStyle.Render(status.ModelID),
		status.ModelName)
	fmt.Printf("  %s %s\n",
		infoStyle.Render("State:"),
		string(status.State))
	fmt.Printf("  %s %s\n",
		infoStyle.Render("Role:"),
		string(cs.Role))
	fmt.Printf("  %s %d\n",
		infoStyle.Render("Messages:"),
		stats.Messages)
	fmt.Printf("  %s %s, %d lines, ~%d tokens\n",
		infoStyle.Render("Prompt:"),
		formatBytes(int64(stats.Bytes)),
		stats.Lines,
		stats.Tokens)
	fmt.Printf("  %s thinking %s, generation prompt %s, tools %s\n",
		infoStyle.Render("Options:"),
		onOff(status.EnableThinking),
		onOff(status.AddGenerationPrompt),
		onOff(status.IncludeTools))
	fmt.Printf("  %s %s\n",
		infoStyle.Render("Duration:"),
		elapsed.String())

	if err := cs.Session.LastError(); err != nil {
		fmt.Printf("  %s %v\n",
			warningStyle.Render("Last error:"),
			err)
	}

	fmt.Println()
}

// finishCompose offers to save unsaved work, then prints the summary.
func finishCompose(cs *ComposeSession) {
	if !cs.Saved && cs.Session.MessageCount() > 0 && cs.Config.History.Enabled {
		if PromptYesNo("Save this conversation to history?") {
			if err := saveComposeToHistory(cs); err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n",
					ErrorStyle.Render("[Error]"),
					err)
			}
		}
	}
	printComposeSummary(cs)
}

// printComposeSummary prints the session summary on exit.
func printComposeSummary(cs *ComposeSession) {
	stats := cs.Session.Stats()

	// Skip if nothing was composed
	if stats.Messages == 0 {
		fmt.Println(infoStyle.Render("Goodbye!"))
		return
	}

	status := cs.Session.GetStatus()
	elapsed := time.Since(cs.StartTime).Round(time.Second)

	fmt.Println()
	fmt.Println(summaryHeaderStyle.Render("Session Summary"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 15)))

	fmt.Printf("  %s %d\n",
		infoStyle.Render("Messages:"),
		stats.Messages)
	fmt.Printf("  %s %s (~%d tokens)\n",
		infoStyle.Render("Prompt:"),
		formatBytes(int64(stats.Bytes)),
		stats.Tokens)
	fmt.Printf("  %s %s\n",
		infoStyle.Render("Model:"),
		status.ModelID)
	fmt.Printf("  %s %s\n",
		infoStyle.Render("Duration:"),
		elapsed.String())

	fmt.Println()
	fmt.Println(infoStyle.Render("Goodbye!"))
}

// roleNames returns the valid role names in display order.
func roleNames() []string {
	names := make([]string, len(model.Roles))
	for i, r := range model.Roles {
		names[i] = string(r)
	}
	return names
}

// onOff formats a boolean render option for display.
func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
