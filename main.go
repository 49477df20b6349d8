// promptforge - A prompt template workbench for chat models.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/promptforge/internal/cli"
	"github.com/jeranaias/promptforge/internal/config"
	"github.com/jeranaias/promptforge/internal/history"
	"github.com/jeranaias/promptforge/internal/session"
	"github.com/jeranaias/promptforge/internal/template"
	"github.com/jeranaias/promptforge/internal/ui/builder"
	"github.com/jeranaias/promptforge/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdRender:
		cli.HandleRender(args)
	case cli.CmdModels:
		if err := cli.HandleModels(args); err != nil {
			cli.HandleErrorAndExit(err, args.JSON)
		}
	case cli.CmdCompose:
		cli.HandleCompose(args)
	case cli.CmdHistory:
		if err := cli.HandleHistory(args); err != nil {
			cli.HandleErrorAndExit(err, args.JSON)
		}
	case cli.CmdExport:
		if err := cli.HandleExport(args); err != nil {
			cli.HandleErrorAndExit(err, args.JSON)
		}
	case cli.CmdConfig:
		if err := cli.HandleConfig(args); err != nil {
			cli.HandleErrorAndExit(err, args.JSON)
		}
	case cli.CmdSetup:
		if err := cli.HandleSetup(args); err != nil {
			cli.HandleErrorAndExit(err, args.JSON)
		}
	case cli.CmdDoctor:
		if err := cli.HandleDoctor(args); err != nil {
			cli.HandleErrorAndExit(err, args.JSON)
		}
	case cli.CmdVersion:
		cli.HandleVersionWithJSON(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	case cli.CmdUnknown:
		cli.HandleUnknown(args)
		os.Exit(1)
	default:
		runTUI(args)
	}
}

// runTUI starts the workbench TUI.
func runTUI(args cli.Args) {
	// Load configuration at startup
	cfg := config.Global()

	// Model catalog: builtins plus any TOML definitions in the configured
	// directory. A broken definitions dir still leaves the builtins usable.
	reg := template.NewBuiltinRegistry()
	defsDir, err := cfg.DefinitionsDir()
	if err == nil {
		if loaded, lerr := template.BuildRegistry(defsDir); lerr == nil {
			reg = loaded
		} else {
			fmt.Fprintf(os.Stderr, "Warning: could not load model definitions: %v\n", lerr)
		}
	}

	sess, err := session.New(reg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	applyConfig(sess, cfg)

	// CLI args override config
	if args.Model != "" {
		if err := sess.SetModel(args.Model); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// Render history is optional; the workbench works without it
	var store *history.Store
	if cfg.History.Enabled {
		path, perr := cfg.HistoryPath()
		if perr == nil {
			store, perr = history.Open(&history.Config{
				Path:       path,
				MaxEntries: cfg.History.MaxEntries,
			})
		}
		if perr != nil {
			fmt.Fprintf(os.Stderr, "Warning: history disabled: %v\n", perr)
		}
	}
	if store != nil {
		defer store.Close()
	}

	theme := styles.NewTheme()
	b := builder.New(builder.Options{
		Session: sess,
		Config:  cfg,
		History: store,
		Theme:   theme,
	})

	p := tea.NewProgram(
		b,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Live-reload the model catalog when definition files change. The
	// watcher runs outside the program loop, so reloads are delivered
	// through Program.Send.
	if cfg.Definitions.Watch && defsDir != "" {
		watcher, werr := template.NewWatcher(defsDir, func(fresh *template.Registry) {
			p.Send(builder.RegistryReloadedMsg{Registry: fresh})
		})
		if werr == nil {
			if werr = watcher.Watch(); werr == nil {
				defer watcher.Close()
			}
		}
		if werr != nil {
			fmt.Fprintf(os.Stderr, "Warning: definitions watcher unavailable: %v\n", werr)
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running promptforge: %v\n", err)
		os.Exit(1)
	}
}

// applyConfig carries the configured defaults into a fresh session.
// Configuration problems degrade to the seed defaults with a warning; the
// workbench still starts.
func applyConfig(sess *session.Session, cfg *config.Config) {
	if cfg.DefaultModel != "" && cfg.DefaultModel != sess.ModelID() {
		if err := sess.SetModel(cfg.DefaultModel); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: configured default model: %v\n", err)
		}
	}
	if sess.EnableThinking() != cfg.Render.EnableThinking {
		if err := sess.SetThinking(cfg.Render.EnableThinking); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	if sess.AddGenerationPrompt() != cfg.Render.AddGenerationPrompt {
		if err := sess.SetGenerationPrompt(cfg.Render.AddGenerationPrompt); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	if sess.IncludeTools() != cfg.Render.IncludeTools {
		if err := sess.SetIncludeTools(cfg.Render.IncludeTools); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
}
