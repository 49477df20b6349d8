// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for promptforge.
//
// CLI: Comprehensive help and examples for all commands
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdRender
	CmdModels
	CmdCompose
	CmdHistory
	CmdExport
	CmdConfig
	CmdSetup
	CmdDoctor
	CmdVersion
	CmdHelp
	CmdUnknown
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	Model   string
	JSON    bool // Output in JSON format

	// Command-specific
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `promptforge - Prompt template workbench for chat models

Promptforge renders conversations through model chat templates and shows
the exact prompt string each model receives.

It provides:
  - Built-in chat templates for popular open-weight models
  - Deterministic rendering with per-segment highlighting
  - A terminal UI for composing and inspecting conversations
  - A scriptable CLI for batch rendering and automation
  - SQLite-backed prompt history with search

Usage:
  promptforge                       Start TUI (default)
  promptforge render                Render a conversation to a prompt
  promptforge models                List registered model templates
  promptforge models info MODEL     Show template details for a model
  promptforge compose               Interactive conversation composer
  promptforge history [subcommand]  Browse stored prompt history
  promptforge export                Export a conversation or history entry
  promptforge config [show|set]     Configuration
  promptforge setup                 First-run wizard
  promptforge doctor [--fix]        Run health checks
  promptforge version               Show version
  promptforge help                  Show this help

Render Command:
  promptforge render --input conv.json --model qwen3
  promptforge render --input conv.json --spans
  cat conv.json | promptforge render --model llama3

  Flags:
    --input FILE            Conversation JSON file (default: stdin)
    --thinking              Enable reasoning segments
    --no-thinking           Disable reasoning segments
    --generation-prompt     Append the assistant generation header
    --no-generation-prompt  Do not append the generation header
    --tools FILE            Tool definitions JSON to include
    --spans                 Emit JSON with highlight spans
    --output FILE           Write the prompt to a file
    --save                  Record the render in history

Models Commands:
  promptforge models               List models in registration order
  promptforge models info qwen3    Show template program and tokens

History Commands:
  promptforge history              List recent entries
  promptforge history list --limit 20
  promptforge history list --model qwen3
  promptforge history search TEXT  Search stored prompts
  promptforge history show ID      Show a stored prompt
  promptforge history delete ID    Delete an entry (requires --confirm)
  promptforge history clear        Delete all entries (requires --confirm)
  promptforge history stats        Storage statistics

Export Command:
  promptforge export --input conv.json --format markdown
  promptforge export --history ID --format html

  Flags:
    --input FILE     Conversation JSON file
    --history ID     Export a stored history entry
    --format NAME    text, markdown, json, or html (default from config)
    --output DIR     Output directory
    --theme NAME     Highlight theme for HTML export

Config Commands:
  promptforge config               Show current configuration
  promptforge config show          Show current configuration
  promptforge config get KEY       Print a single configuration value
  promptforge config set KEY VAL   Set a configuration value
  promptforge config reset         Reset configuration to defaults
  promptforge config path          Show config file path

Global Flags:
  -q, --quiet       Minimal output
  -v, --verbose     Verbose output
  --json            Output in JSON format (for scripting)
  -m, --model NAME  Model template to use (overrides config)

Examples:
  # Render a conversation for Qwen3 with thinking enabled
  promptforge render --input conv.json -m qwen3 --thinking

  # Pipe a conversation through and capture the prompt
  cat conv.json | promptforge render -m llama3 > prompt.txt

  # Compare what two models receive for the same conversation
  promptforge render --input conv.json -m qwen3 --output qwen3.txt
  promptforge render --input conv.json -m mistral --output mistral.txt
  diff qwen3.txt mistral.txt

  # Search past renders
  promptforge history search "weather tool"

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("promptforge version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	args := os.Args[1:]

	// Parse global flags first
	remaining, parsedArgs := parseGlobalFlags(args)

	// If no remaining args, default to TUI
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	// Check first argument for command
	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "render":
		// Argument parsing is done in render.go HandleRenderCommand
		return CmdRender, parsedArgs

	case "models", "model", "templates":
		// Argument parsing is done in models.go HandleModels
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdModels, parsedArgs

	case "compose":
		return CmdCompose, parsedArgs

	case "history", "hist":
		// Argument parsing is done in history_cmd.go HandleHistory
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdHistory, parsedArgs

	case "export":
		// Argument parsing is done in export_cmd.go HandleExport
		return CmdExport, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "setup":
		parseSetupArgs(&parsedArgs, remaining)
		return CmdSetup, parsedArgs

	case "doctor":
		parseDoctorArgs(&parsedArgs, remaining)
		return CmdDoctor, parsedArgs

	case "version", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown command - keep the token so the handler can suggest
		// a close match
		parsedArgs.Raw = append([]string{cmd}, remaining...)
		return CmdUnknown, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "-m", "--model":
			if i+1 < len(args) {
				i++
				parsedArgs.Model = args[i]
			}
		default:
			// Check for --model=value format
			if strings.HasPrefix(arg, "--model=") {
				parsedArgs.Model = strings.TrimPrefix(arg, "--model=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = remaining[2]
		}
	}
}

// parseSetupArgs parses setup command specific arguments.
func parseSetupArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
	}
}

// parseDoctorArgs parses doctor command specific arguments.
func parseDoctorArgs(args *Args, remaining []string) {
	for _, arg := range remaining {
		if arg == "fix" || arg == "--fix" {
			args.Subcommand = "fix"
		}
	}
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// ERROR HANDLING: Errors must not be silently ignored

// HandleRender handles the "render" command.
// This delegates to the full implementation in render.go.
func HandleRender(args Args) {
	if err := HandleRenderCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleCompose handles the "compose" command.
// This delegates to the full implementation in compose.go.
func HandleCompose(args Args) {
	if err := HandleComposeCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// NOTE: HandleModels is implemented in models.go
// NOTE: HandleHistory is implemented in history_cmd.go
// NOTE: HandleExport is implemented in export_cmd.go
// NOTE: HandleConfig is implemented in config.go
// NOTE: HandleSetup is implemented in setup.go
// NOTE: HandleDoctor is implemented in doctor.go

// HandleUnknown handles an unrecognized command. It prints the closest
// known command when one is within edit distance.
func HandleUnknown(args Args) {
	cmd := ""
	if len(args.Raw) > 0 {
		cmd = args.Raw[0]
	}

	if args.JSON {
		resp := NewJSONErrorResponseStr("unknown", fmt.Sprintf("unknown command: %s", cmd))
		resp.Print()
		return
	}

	fmt.Fprintf(os.Stderr, "Error: unknown command: %q\n", cmd)
	if suggestion := SuggestCommand(cmd); suggestion != "" {
		fmt.Fprintf(os.Stderr, "Did you mean 'promptforge %s'?\n", suggestion)
	}
	fmt.Fprintln(os.Stderr, "Run 'promptforge help' for usage.")
}

// HandleVersion handles the "version" command.
func HandleVersion() {
	PrintVersion()
}

// HandleVersionWithJSON handles the "version" command with JSON output support.
func HandleVersionWithJSON(args Args) {
	if args.JSON {
		data := VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}
		resp := NewJSONResponse("version", data)
		resp.Print()
		return
	}
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}
