// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface parsing and execution for
// promptforge.
//
// This package implements all non-TUI commands for the promptforge prompt
// workbench: one-shot rendering, model catalog inspection, an interactive
// composer REPL, render history management, and file export.
//
// # Key Types
//
//   - Command: Enumeration of all available CLI commands
//   - Args: Parsed command-line arguments with global and command-specific flags
//   - ArgParser: Unified flag/subcommand parsing for command handlers
//   - JSONResponse: Machine-readable output envelope for --json mode
//
// # Usage
//
// Parse and dispatch commands:
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdRender:
//	    cli.HandleRender(args)
//	case cli.CmdModels:
//	    cli.HandleModels(args)
//	// ... other commands
//	}
//
// # Commands Overview
//
// Core Commands:
//   - render: Render a conversation JSON file to prompt text
//   - models: List registered model templates or inspect one
//   - compose: Interactive conversation composer with live re-rendering
//   - history: Browse, search, and manage recorded renders
//   - export: Render and write a prompt to a text/markdown/JSON/HTML file
//
// Maintenance Commands:
//   - config: View and modify configuration
//   - setup: Create the config directory layout with starter files
//   - doctor: Run environment health checks
//
// All commands support --json for machine-readable output.
package cli
