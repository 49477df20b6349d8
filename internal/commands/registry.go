// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
package commands

import (
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/promptforge/internal/config"
	"github.com/jeranaias/promptforge/internal/history"
	"github.com/jeranaias/promptforge/internal/session"
	"github.com/jeranaias/promptforge/internal/template"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/model")
	Name string

	// Aliases are alternative names (e.g., "/m")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/model <id>")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	// Handler is the function that executes the command
	Handler func(ctx *Context, args []string) tea.Cmd

	// Hidden commands don't appear in help
	Hidden bool

	// Category for grouping in help display
	Category string
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	// Name of the argument
	Name string

	// Required indicates if the argument must be provided
	Required bool

	// Type determines completion behavior
	Type ArgType

	// Description explains the argument
	Description string

	// Values for enum types
	Values []string
}

// ArgType indicates what kind of completion to provide.
type ArgType int

const (
	ArgTypeString  ArgType = iota // Free-form string
	ArgTypeModel                  // Model id from the template registry
	ArgTypeSession                // Saved render id from history
	ArgTypeMessage                // Message index in the conversation
	ArgTypeRole                   // Conversation role
	ArgTypeEnum                   // One of predefined values
	ArgTypeFile                   // File or directory path
	ArgTypeConfig                 // Config key
)

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	return cmds
}

// ByCategory returns visible commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.commands {
		if cmd.Hidden {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// CategoryOrder is the display order for command categories in help.
var CategoryOrder = []string{
	"Navigation", "Conversation", "Prompt", "Model", "Session", "Settings",
}

// sortCommands orders commands by name for stable help output.
func sortCommands(cmds []*Command) {
	sort.Slice(cmds, func(i, j int) bool {
		return cmds[i].Name < cmds[j].Name
	})
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	// Navigation commands
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show help and available commands",
		Usage:       "/help [topic]",
		Args: []ArgDef{
			{
				Name:        "topic",
				Required:    false,
				Type:        ArgTypeEnum,
				Values:      []string{"all", "navigation", "conversation", "prompt", "model", "session", "settings"},
				Description: "Help topic or category",
			},
		},
		Category: "Navigation",
		Handler:  handleHelp,
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit promptforge",
		Category:    "Navigation",
		Handler:     handleQuit,
	})

	// Conversation commands
	r.Register(&Command{
		Name:        "/add",
		Aliases:     []string{"/a"},
		Description: "Append a message to the conversation",
		Usage:       "/add [role] [content]",
		Args: []ArgDef{
			{Name: "role", Required: false, Type: ArgTypeRole, Description: "Message role (default: user)"},
			{Name: "content", Required: false, Type: ArgTypeString, Description: "Message content"},
		},
		Category: "Conversation",
		Handler:  handleAdd,
	})

	r.Register(&Command{
		Name:        "/remove",
		Aliases:     []string{"/rm"},
		Description: "Remove a message by index",
		Usage:       "/remove <index>",
		Args: []ArgDef{
			{Name: "index", Required: true, Type: ArgTypeMessage, Description: "Message index to remove"},
		},
		Category: "Conversation",
		Handler:  handleRemove,
	})

	r.Register(&Command{
		Name:        "/move",
		Description: "Move a message up or down",
		Usage:       "/move <index> <up|down>",
		Args: []ArgDef{
			{Name: "index", Required: true, Type: ArgTypeMessage, Description: "Message index to move"},
			{Name: "direction", Required: true, Type: ArgTypeEnum, Values: []string{"up", "down"}, Description: "Move direction"},
		},
		Category: "Conversation",
		Handler:  handleMove,
	})

	r.Register(&Command{
		Name:        "/role",
		Description: "Change the role of a message",
		Usage:       "/role <index> <role>",
		Args: []ArgDef{
			{Name: "index", Required: true, Type: ArgTypeMessage, Description: "Message index"},
			{Name: "role", Required: true, Type: ArgTypeRole, Description: "New role"},
		},
		Category: "Conversation",
		Handler:  handleRole,
	})

	r.Register(&Command{
		Name:        "/new",
		Aliases:     []string{"/n", "/clear"},
		Description: "Start a fresh conversation",
		Category:    "Conversation",
		Handler:     handleNew,
	})

	// Prompt commands
	r.Register(&Command{
		Name:        "/reset",
		Aliases:     []string{"/r"},
		Description: "Discard manual edits and regenerate the prompt",
		Category:    "Prompt",
		Handler:     handleReset,
	})

	r.Register(&Command{
		Name:        "/thinking",
		Aliases:     []string{"/think"},
		Description: "Toggle reasoning output in the prompt",
		Usage:       "/thinking [on|off]",
		Args: []ArgDef{
			{Name: "state", Required: false, Type: ArgTypeEnum, Values: []string{"on", "off"}, Description: "Enable or disable"},
		},
		Category: "Prompt",
		Handler:  handleThinking,
	})

	r.Register(&Command{
		Name:        "/genprompt",
		Aliases:     []string{"/gen"},
		Description: "Toggle the trailing generation prompt",
		Usage:       "/genprompt [on|off]",
		Args: []ArgDef{
			{Name: "state", Required: false, Type: ArgTypeEnum, Values: []string{"on", "off"}, Description: "Enable or disable"},
		},
		Category: "Prompt",
		Handler:  handleGenPrompt,
	})

	r.Register(&Command{
		Name:        "/tools",
		Description: "Toggle the tools block in the prompt",
		Usage:       "/tools [on|off]",
		Args: []ArgDef{
			{Name: "state", Required: false, Type: ArgTypeEnum, Values: []string{"on", "off"}, Description: "Enable or disable"},
		},
		Category: "Prompt",
		Handler:  handleTools,
	})

	r.Register(&Command{
		Name:        "/copy",
		Description: "Copy the rendered prompt to the clipboard",
		Category:    "Prompt",
		Handler:     handleCopy,
	})

	r.Register(&Command{
		Name:        "/export",
		Aliases:     []string{"/x"},
		Description: "Export the prompt to a file",
		Usage:       "/export [format] [dir]",
		Args: []ArgDef{
			{Name: "format", Required: false, Type: ArgTypeEnum, Values: []string{"text", "markdown", "json", "html"}, Description: "Export format"},
			{Name: "dir", Required: false, Type: ArgTypeFile, Description: "Output directory"},
		},
		Category: "Prompt",
		Handler:  handleExport,
	})

	// Model commands
	r.Register(&Command{
		Name:        "/model",
		Aliases:     []string{"/m"},
		Description: "Switch or show the active model",
		Usage:       "/model [id]",
		Args: []ArgDef{
			{Name: "id", Required: false, Type: ArgTypeModel, Description: "Model to switch to"},
		},
		Category: "Model",
		Handler:  handleModel,
	})

	r.Register(&Command{
		Name:        "/models",
		Description: "Open the model picker",
		Category:    "Model",
		Handler:     handleModels,
	})

	// Session commands
	r.Register(&Command{
		Name:        "/save",
		Aliases:     []string{"/s"},
		Description: "Save the rendered prompt to history",
		Usage:       "/save [title]",
		Args: []ArgDef{
			{Name: "title", Required: false, Type: ArgTypeString, Description: "Optional title for the entry"},
		},
		Category: "Session",
		Handler:  handleSave,
	})

	r.Register(&Command{
		Name:        "/load",
		Aliases:     []string{"/l"},
		Description: "Load a saved prompt from history",
		Usage:       "/load <id>",
		Args: []ArgDef{
			{Name: "id", Required: true, Type: ArgTypeSession, Description: "History entry id"},
		},
		Category: "Session",
		Handler:  handleLoad,
	})

	r.Register(&Command{
		Name:        "/sessions",
		Aliases:     []string{"/list"},
		Description: "List saved prompts",
		Category:    "Session",
		Handler:     handleSessions,
	})

	// Settings commands
	r.Register(&Command{
		Name:        "/config",
		Description: "Show or edit configuration",
		Usage:       "/config [key] [value]",
		Args: []ArgDef{
			{Name: "key", Required: false, Type: ArgTypeConfig, Description: "Config key to show/set"},
			{Name: "value", Required: false, Type: ArgTypeString, Description: "New value"},
		},
		Category: "Settings",
		Handler:  handleConfig,
	})
}

// =============================================================================
// CONTEXT TYPE
// =============================================================================

// Context provides access to application state for command handlers.
// It follows the dependency injection pattern, allowing handlers to access
// services without direct coupling to the application structure.
//
// All fields are optional and may be nil - handlers should check before use.
type Context struct {
	// Config provides access to application configuration
	Config *config.Config

	// Session is the active prompt session
	Session *session.Session

	// Templates is the model definition registry
	Templates *template.Registry

	// History records rendered prompts
	History *history.Store
}

// NewContext creates a new command context with the given dependencies.
// All parameters are optional and can be nil.
func NewContext(cfg *config.Config, sess *session.Session, templates *template.Registry, hist *history.Store) *Context {
	return &Context{
		Config:    cfg,
		Session:   sess,
		Templates: templates,
		History:   hist,
	}
}

// registry returns the template registry, falling back to the session's own
// registry when none was injected directly.
func (c *Context) registry() *template.Registry {
	if c == nil {
		return nil
	}
	if c.Templates != nil {
		return c.Templates
	}
	if c.Session != nil {
		return c.Session.Registry()
	}
	return nil
}

// =============================================================================
// COMPLETION TYPE
// =============================================================================

// Completion represents a completion suggestion.
type Completion struct {
	// Value to insert
	Value string

	// Display text (may include formatting)
	Display string

	// Description shown alongside
	Description string

	// Score for ranking (higher = better match)
	Score int

	// IsCurrent indicates this is the current selection
	IsCurrent bool
}
