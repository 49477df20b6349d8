// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package builder provides the main prompt workbench view for the promptforge TUI.
package builder

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/promptforge/internal/commands"
	"github.com/jeranaias/promptforge/internal/config"
	"github.com/jeranaias/promptforge/internal/history"
	"github.com/jeranaias/promptforge/internal/model"
	"github.com/jeranaias/promptforge/internal/session"
	"github.com/jeranaias/promptforge/internal/template"
	"github.com/jeranaias/promptforge/internal/ui/components"
	"github.com/jeranaias/promptforge/internal/ui/styles"
)

// =============================================================================
// WORKBENCH MODES
// =============================================================================

// mode tracks what the keyboard is currently driving.
type mode int

const (
	modeList        mode = iota // navigating the panes
	modeCommand                 // typing in the command line
	modeEditMessage             // editing the selected message's content
	modeEditPrompt              // editing the rendered prompt text
	modeDetail                  // full view of the selected message
)

// pane identifies which pane has focus in list mode.
type pane int

const (
	paneMessages pane = iota
	panePrompt
)

// =============================================================================
// WORKBENCH MODEL
// =============================================================================

// Model is the Bubble Tea model for the prompt workbench.
type Model struct {
	// Styling
	theme *styles.Theme
	keys  KeyMap

	// Dimensions
	width  int
	height int

	// Domain state
	session *session.Session
	config  *config.Config
	history *history.Store

	// Command system
	registry  *commands.Registry
	parser    *commands.Parser
	completer *commands.Completer
	cmdCtx    *commands.Context

	// Mode and focus
	mode  mode
	focus pane

	// Components
	header      *components.Header
	messageList *components.MessageList
	promptView  *components.PromptView
	statusBar   *components.StatusBar
	popup       *components.CompletionPopup
	picker      *components.ModelPicker
	help        *components.HelpOverlay
	errorBox    *components.ErrorBanner

	// Prompt pane scrolling
	promptScroll viewport.Model

	// Message detail view
	detailScroll viewport.Model
	detailTitle  string

	// Command line input
	cmdInput textinput.Model

	// Shared editor for message content and prompt text
	editor    textarea.Model
	editIndex int // message index under edit; -1 when editing the prompt

	// Transient status notice
	notice    string
	noticeErr bool
	noticeID  int

	quitting bool
}

// Options configures a new workbench model. Session is required; the rest
// may be nil and the matching features degrade (no history, defaults).
type Options struct {
	Session *session.Session
	Config  *config.Config
	History *history.Store
	Theme   *styles.Theme
}

// New creates a workbench model around an existing session.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	sess := opts.Session

	// Command line input, hidden until ":" or "/" opens it
	ci := textinput.New()
	ci.Prompt = ""
	ci.Placeholder = "/command"
	ci.CharLimit = 512

	// Shared editor for message content and manual prompt edits
	ed := textarea.New()
	ed.Placeholder = "Type content..."
	ed.ShowLineNumbers = false
	ed.CharLimit = 0
	ed.SetWidth(78)
	ed.SetHeight(8)

	// Prompt pane viewport; content is set on every refresh
	vp := viewport.New(60, 20)
	dv := viewport.New(72, 18)

	registry := commands.NewRegistry()
	completer := commands.NewCompleter(registry)
	wireCompleter(completer, sess, opts.History)

	m := Model{
		theme:        theme,
		keys:         DefaultKeyMap(),
		session:      sess,
		config:       cfg,
		history:      opts.History,
		registry:     registry,
		parser:       commands.NewParser(registry),
		completer:    completer,
		cmdCtx:       commands.NewContext(cfg, sess, nil, opts.History),
		mode:         modeList,
		focus:        paneMessages,
		header:       components.NewHeader(theme),
		messageList:  components.NewMessageList(theme),
		promptView:   components.NewPromptView(theme),
		statusBar:    components.NewStatusBar(theme),
		popup:        components.NewCompletionPopup(theme),
		picker:       components.NewModelPicker(theme),
		help:         components.NewHelpOverlay(theme),
		errorBox:     components.NewErrorBanner(theme),
		promptScroll: vp,
		detailScroll: dv,
		cmdInput:     ci,
		editor:       ed,
		editIndex:    -1,
	}

	m.messageList.SetFocused(true)
	m.statusBar.SetShortcuts(statusShortcuts(m.keys))
	m.refreshPicker()
	m.refreshFromSession()
	return m
}

// Init starts the cursor blink for the command line.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// SESSION SYNCHRONIZATION
// =============================================================================

// refreshFromSession pulls the session's current state into every component
// that displays it. Called after any mutation.
func (m *Model) refreshFromSession() {
	if m.session == nil {
		return
	}

	status := m.session.GetStatus()
	m.header.SetModel(status.ModelID, status.ModelName)
	m.header.SetState(status.State)
	m.statusBar.SetModel(status.ModelID, status.ModelName)
	m.statusBar.SetState(status.State)
	m.statusBar.SetOptions(status.EnableThinking, status.AddGenerationPrompt, status.IncludeTools)
	m.statusBar.SetStats(m.session.Stats())

	m.messageList.SetMessages(snapshotMessages(m.session.Conversation()))

	m.promptView.SetPrompt(m.session.Prompt())
	m.promptScroll.SetContent(m.promptView.View())
}

// refreshPicker rebuilds the model picker entries from the registry.
func (m *Model) refreshPicker() {
	if m.session == nil {
		return
	}
	reg := m.session.Registry()
	if reg == nil {
		return
	}

	defs := reg.List()
	entries := make([]components.ModelEntry, 0, len(defs))
	for _, def := range defs {
		meta := def.TokenizerID
		if def.Source != "" {
			meta = "custom"
		}
		entries = append(entries, components.ModelEntry{
			ID:   def.ID,
			Name: def.DisplayName,
			Meta: meta,
		})
	}
	m.picker.SetEntries(entries)
	m.picker.SetCurrent(m.session.ModelID())
}

// snapshotMessages copies the conversation for display. The list component
// holds values so later session mutations cannot race the renderer.
func snapshotMessages(conv *model.Conversation) []model.Message {
	if conv == nil {
		return nil
	}
	out := make([]model.Message, 0, conv.Len())
	for _, msg := range conv.Messages {
		if msg != nil {
			out = append(out, *msg)
		}
	}
	return out
}

// wireCompleter connects the completer's dynamic sources to live state.
// The callbacks capture stable pointers, never the Bubble Tea model value.
func wireCompleter(c *commands.Completer, sess *session.Session, store *history.Store) {
	if sess != nil {
		c.ModelsFn = func() []string {
			if reg := sess.Registry(); reg != nil {
				return reg.IDs()
			}
			return nil
		}
		c.MessagesFn = func() []commands.MessageInfo {
			conv := sess.Conversation()
			if conv == nil {
				return nil
			}
			infos := make([]commands.MessageInfo, 0, conv.Len())
			for i, msg := range conv.Messages {
				if msg == nil {
					continue
				}
				infos = append(infos, commands.MessageInfo{
					Index:   i,
					Role:    string(msg.Role),
					Preview: msg.Preview(32),
				})
			}
			return infos
		}
	}

	if store != nil {
		c.SessionsFn = func() []commands.SessionInfo {
			entries, err := store.List(20)
			if err != nil {
				return nil
			}
			infos := make([]commands.SessionInfo, 0, len(entries))
			for _, e := range entries {
				infos = append(infos, commands.SessionInfo{
					ID:       e.UUID,
					Title:    e.Title,
					ModelID:  e.ModelID,
					State:    e.State,
					SavedAt:  e.CreatedAt.Format("2006-01-02 15:04"),
					Messages: e.MessageCount,
				})
			}
			return infos
		}
	}

	c.ConfigFn = config.GetAllKeys
}

// statusShortcuts converts the short help bindings into status bar hints.
func statusShortcuts(keys KeyMap) []components.Shortcut {
	bindings := keys.ShortHelp()
	shortcuts := make([]components.Shortcut, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		shortcuts = append(shortcuts, components.Shortcut{Key: h.Key, Desc: h.Desc})
	}
	return shortcuts
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Session returns the underlying prompt session.
func (m *Model) Session() *session.Session {
	return m.session
}

// inMode reports whether the workbench is currently in the given mode.
func (m *Model) inMode(target mode) bool {
	return m.mode == target
}

// SelectedIndex returns the message list selection.
func (m *Model) SelectedIndex() int {
	return m.messageList.SelectedIndex()
}

// Notice returns the transient status notice, empty when cleared.
func (m *Model) Notice() string {
	return m.notice
}

// setNotice installs a transient notice and returns the expiry command.
func (m *Model) setNotice(text string) tea.Cmd {
	m.notice = text
	m.noticeErr = false
	m.noticeID++
	return expireNoticeCmd(m.noticeID)
}

// setErrorNotice is setNotice with warning styling for soft failures that
// do not warrant the full error banner.
func (m *Model) setErrorNotice(text string) tea.Cmd {
	cmd := m.setNotice(text)
	m.noticeErr = true
	return cmd
}

// modelDisplayName resolves an id through the registry, falling back to the
// id itself for unknown models.
func (m *Model) modelDisplayName(id string) string {
	if m.session == nil {
		return id
	}
	reg := m.session.Registry()
	if reg == nil {
		return id
	}
	if def, err := reg.Lookup(id); err == nil {
		return def.DisplayName
	}
	return id
}

// applyRegistry swaps in a rebuilt registry, keeping the current model when
// it still exists and falling back to the default otherwise.
func (m *Model) applyRegistry(reg *template.Registry) error {
	if m.session == nil || reg == nil {
		return nil
	}
	err := m.session.SetRegistry(reg)
	if m.cmdCtx != nil {
		m.cmdCtx.Templates = reg
	}
	m.refreshPicker()
	m.refreshFromSession()
	return err
}
