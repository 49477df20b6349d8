// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// setup.go - First-run wizard and setup commands for promptforge.
//
// CLI: Comprehensive help and examples for all commands
//
// Command: setup
// Short:   First-run setup wizard
//
// Subcommands:
//   (default)           Run the interactive setup wizard
//   quick               Minimal setup keeping current settings
//   dirs                Create the workspace directories only
//   model               Pick the default model interactively
//   wizard              Run the interactive setup wizard
//
// Examples:
//   promptforge setup             Run interactive setup wizard
//   promptforge setup --quick     Minimal setup with defaults
//   promptforge setup dirs        Create the ~/.promptforge layout
//   promptforge setup model       Choose the default model
//
// The setup wizard walks through:
//   1. Workspace detection (config, definitions, history, exports)
//   2. Default model selection
//   3. Rendering defaults (thinking, generation prompt, tools)
//   4. History settings
//   5. Export preferences
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/promptforge/internal/config"
	"github.com/jeranaias/promptforge/internal/template"
)

// =============================================================================
// SETUP COMMAND HANDLER
// =============================================================================

// HandleSetup handles the "setup" command with various subcommands.
// Modes:
//   - setup: Full interactive wizard
//   - setup --quick: Minimal setup keeping current settings
//   - setup dirs: Workspace directory creation only
//   - setup model: Default model selection only
func HandleSetup(args Args) error {
	switch args.Subcommand {
	case "":
		return runFullWizard()
	case "quick", "--quick", "-q":
		return runQuickSetup()
	case "dirs", "--dirs":
		return runDirsSetup()
	case "model":
		return runModelSetup()
	case "wizard":
		return runFullWizard()
	default:
		return NewValidationErrorWithExample(
			"subcommand", args.Subcommand,
			"unknown setup subcommand",
			"quick, dirs, model, wizard")
	}
}

// =============================================================================
// FULL WIZARD
// =============================================================================

// runFullWizard runs the complete interactive setup wizard.
func runFullWizard() error {
	// Existing settings become the wizard defaults, so rerunning setup
	// never silently discards a tuned config.
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not read existing config, starting from defaults: %v\n", err)
		cfg = DefaultConfig()
	}

	// Header
	fmt.Println()
	fmt.Println("promptforge Setup Wizard")
	fmt.Println(strings.Repeat("=", 24))
	fmt.Println()

	// Step 1: Workspace Detection
	fmt.Println("Step 1: Workspace Detection")
	fmt.Println(strings.Repeat("-", 27))

	if _, err := inspectWorkspaceWithSpinner(cfg); err != nil {
		fmt.Printf("  Inspecting workspace... X Error: %v\n", err)
	}
	fmt.Println()

	// Step 2: Model Selection
	fmt.Println("Step 2: Model Selection")
	fmt.Println(strings.Repeat("-", 23))

	reg, err := buildRegistry(cfg)
	if err != nil {
		fmt.Printf("  Warning: definitions failed to load, offering builtins only: %v\n", err)
		reg = template.NewBuiltinRegistry()
	}

	defs := reg.List()
	defaultIdx := 0
	for i, def := range defs {
		if def.ID == cfg.DefaultModel {
			defaultIdx = i
		}
	}

	fmt.Println("Available models:")
	options := make([]string, len(defs))
	for i, def := range defs {
		marker := "  "
		if i == defaultIdx {
			marker = "* "
		}
		fmt.Printf("%s[%d] %-16s %s\n", marker, i+1, def.ID, def.DisplayName)
		options[i] = strconv.Itoa(i + 1)
	}
	fmt.Println()
	fmt.Println("  * = current default")
	fmt.Println()

	choice := promptChoice("Select model", options, defaultIdx)
	cfg.DefaultModel = defs[choice].ID
	fmt.Println()

	// Step 3: Rendering Defaults
	fmt.Println("Step 3: Rendering Defaults")
	fmt.Println(strings.Repeat("-", 26))
	cfg.Render.EnableThinking = promptYesNo("Render reasoning blocks when the model supports them?", cfg.Render.EnableThinking)
	cfg.Render.AddGenerationPrompt = promptYesNo("Append the generation prompt?", cfg.Render.AddGenerationPrompt)
	cfg.Render.IncludeTools = promptYesNo("Include the tools block?", cfg.Render.IncludeTools)
	fmt.Println()

	// Step 4: History
	fmt.Println("Step 4: History")
	fmt.Println(strings.Repeat("-", 15))
	cfg.History.Enabled = promptYesNo("Record rendered prompts to history?", cfg.History.Enabled)
	if cfg.History.Enabled {
		maxStr := promptString("Max history entries", strconv.Itoa(cfg.History.MaxEntries))
		if n, err := strconv.Atoi(maxStr); err == nil && n > 0 {
			cfg.History.MaxEntries = n
		} else {
			fmt.Printf("  Keeping %d\n", cfg.History.MaxEntries)
		}
	}
	fmt.Println()

	// Step 5: Export Preferences
	fmt.Println("Step 5: Export Preferences")
	fmt.Println(strings.Repeat("-", 26))
	fmt.Println("Default export format:")
	for i, format := range exportFormats {
		fmt.Printf("  [%d] %s\n", i+1, format)
	}
	fmt.Println()

	formatIdx := 0
	formatOptions := make([]string, len(exportFormats))
	for i, format := range exportFormats {
		if format == cfg.Export.Format {
			formatIdx = i
		}
		formatOptions[i] = strconv.Itoa(i + 1)
	}
	cfg.Export.Format = exportFormats[promptChoice("Select format", formatOptions, formatIdx)]
	cfg.Export.Dir = promptString("Export directory (blank = current directory)", cfg.Export.Dir)
	fmt.Println()

	// Save configuration and create the workspace
	configPath, err := saveWizardConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	// Completion
	fmt.Println()
	fmt.Println("Setup Complete!")
	fmt.Println(strings.Repeat("=", 15))
	fmt.Printf("Config saved to %s\n", configPath)
	fmt.Println("Run 'promptforge' to start composing!")
	fmt.Println()

	return nil
}

// =============================================================================
// QUICK SETUP
// =============================================================================

// runQuickSetup creates the workspace with current settings and defaults,
// asking nothing.
func runQuickSetup() error {
	fmt.Println()
	fmt.Println("promptforge Quick Setup")
	fmt.Println(strings.Repeat("=", 23))
	fmt.Println()

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not read existing config, starting from defaults: %v\n", err)
		cfg = DefaultConfig()
	}

	if _, err := inspectWorkspaceWithSpinner(cfg); err != nil {
		return err
	}

	configPath, err := saveWizardConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	defsDir, _ := cfg.DefinitionsDir()

	fmt.Println()
	fmt.Println("Quick Setup Complete!")
	fmt.Println(strings.Repeat("=", 21))
	fmt.Printf("  Model:       %s\n", cfg.DefaultModel)
	fmt.Printf("  Definitions: %s\n", defsDir)
	fmt.Printf("  History:     %s\n", historySummary(cfg))
	fmt.Printf("  Config:      %s\n", configPath)
	fmt.Println()
	fmt.Println("Run 'promptforge' to start!")
	fmt.Println()

	return nil
}

// historySummary returns a one-line description of the history settings.
func historySummary(cfg *Config) string {
	if !cfg.History.Enabled {
		return "disabled"
	}
	return fmt.Sprintf("enabled (%d entries max)", cfg.History.MaxEntries)
}

// =============================================================================
// DIRS SETUP
// =============================================================================

// runDirsSetup creates the workspace directory layout without touching the
// config file.
func runDirsSetup() error {
	fmt.Println()
	fmt.Println("promptforge Workspace Setup")
	fmt.Println(strings.Repeat("=", 27))
	fmt.Println()

	cfg, err := LoadConfig()
	if err != nil {
		cfg = DefaultConfig()
	}

	if err := createWorkspace(cfg); err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}

	configDir, _ := config.ConfigDir()
	defsDir, _ := cfg.DefinitionsDir()

	fmt.Println("Workspace Directories:")
	fmt.Println(strings.Repeat("-", 22))
	fmt.Printf("  Config dir:   %s\n", configDir)
	fmt.Printf("  Definitions:  %s\n", defsDir)
	fmt.Printf("  Export dir:   %s\n", cfg.ExportDir())

	fmt.Println()
	fmt.Printf("Example definition: %s\n", filepath.Join(defsDir, exampleDefinitionName))
	fmt.Println("Rename it (drop the .sample suffix) to register the model.")
	fmt.Println()

	return nil
}

// =============================================================================
// MODEL SETUP
// =============================================================================

// runModelSetup runs interactive default model selection.
func runModelSetup() error {
	fmt.Println()
	fmt.Println("promptforge Model Setup")
	fmt.Println(strings.Repeat("=", 23))
	fmt.Println()

	cfg, err := LoadConfig()
	if err != nil {
		cfg = DefaultConfig()
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	defs := reg.List()

	fmt.Println("Registered models:")
	fmt.Println()
	for i, def := range defs {
		marker := "  "
		if def.ID == cfg.DefaultModel {
			marker = "* "
		}
		fmt.Printf("%s[%d] %-16s %s (%s)\n",
			marker, i+1, def.ID, def.DisplayName, sourceLabel(def))
	}
	fmt.Println()
	fmt.Println("  * = current default")
	fmt.Println()

	fmt.Println("Enter number to select, or 'c' to cancel:")
	choice := setupPromptInput("> ")
	choice = strings.TrimSpace(strings.ToLower(choice))

	if choice == "c" || choice == "" {
		fmt.Println("Cancelled.")
		return nil
	}

	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(defs) {
		fmt.Println("Invalid selection.")
		return nil
	}

	cfg.DefaultModel = defs[idx-1].ID
	if err := SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	config.SetGlobal(cfg)

	fmt.Println()
	fmt.Printf("Default model set to %s\n", cfg.DefaultModel)
	fmt.Println()

	return nil
}

// =============================================================================
// INPUT HELPERS
// =============================================================================

var inputReader = bufio.NewReader(os.Stdin)
var inputMutex sync.Mutex

// setupPromptInput reads a line from stdin (for setup wizard).
func setupPromptInput(prompt string) string {
	inputMutex.Lock()
	defer inputMutex.Unlock()

	fmt.Print(prompt)
	line, err := inputReader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

// promptInputWithDefault reads with a default value shown.
func promptInputWithDefault(prompt, defaultVal string) string {
	if defaultVal != "" {
		prompt = fmt.Sprintf("%s [%s]: ", prompt, defaultVal)
	} else {
		prompt = prompt + ": "
	}

	input := setupPromptInput(prompt)
	if input == "" {
		return defaultVal
	}
	return input
}

// promptString prompts for a string input with optional default.
func promptString(prompt string, defaultVal string) string {
	return promptInputWithDefault(prompt, defaultVal)
}

// promptYesNo prompts for a yes/no answer.
func promptYesNo(prompt string, defaultYes bool) bool {
	suffix := "[Y/n]"
	if !defaultYes {
		suffix = "[y/N]"
	}

	input := setupPromptInput(fmt.Sprintf("%s %s: ", prompt, suffix))
	input = strings.ToLower(strings.TrimSpace(input))

	if input == "" {
		return defaultYes
	}

	return input == "y" || input == "yes"
}

// promptChoice prompts user to select from numbered options.
// Returns the index of the selected option (0-based).
func promptChoice(prompt string, options []string, defaultIdx int) int {
	suffix := fmt.Sprintf("[%s]", options[defaultIdx])
	input := setupPromptInput(fmt.Sprintf("%s %s: ", prompt, suffix))
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultIdx
	}

	// Try to find matching option
	for i, opt := range options {
		if input == opt || input == strconv.Itoa(i+1) {
			return i
		}
	}

	return defaultIdx
}

// =============================================================================
// SPINNER HELPERS
// =============================================================================

// spinner shows a spinner while running a function.
func spinner(msg string, fn func() error) error {
	done := make(chan struct{})
	errChan := make(chan error, 1)
	spinChars := []rune{'|', '/', '-', '\\'}

	go func() {
		errChan <- fn()
		close(done)
	}()

	i := 0
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	fmt.Printf("  %s... ", msg)

	for {
		select {
		case <-done:
			err := <-errChan
			if err != nil {
				fmt.Println("X")
			} else {
				fmt.Println("Done")
			}
			return err
		case <-ticker.C:
			fmt.Printf("\r  %s... %c", msg, spinChars[i%len(spinChars)])
			i++
		}
	}
}

// runWithSpinner runs a function with a spinner display.
func runWithSpinner(msg string, fn func() error) error {
	return spinner(msg, fn)
}

// =============================================================================
// WORKSPACE HELPERS
// =============================================================================

// workspaceStatus captures the on-disk state of the promptforge workspace.
type workspaceStatus struct {
	ConfigPath    string
	ConfigExists  bool
	DefsDir       string
	DefsExists    bool
	CustomCount   int
	HistoryPath   string
	HistoryExists bool
	ExportDir     string
}

// inspectWorkspace gathers the on-disk state of the workspace.
func inspectWorkspace(cfg *Config) (*workspaceStatus, error) {
	ws := &workspaceStatus{ExportDir: cfg.ExportDir()}

	ws.ConfigPath = ConfigPath()
	if ws.ConfigPath != "" {
		_, err := os.Stat(ws.ConfigPath)
		ws.ConfigExists = err == nil
	}

	defsDir, err := cfg.DefinitionsDir()
	if err != nil {
		return nil, err
	}
	ws.DefsDir = defsDir
	if _, err := os.Stat(defsDir); err == nil {
		ws.DefsExists = true
		if defs, err := template.LoadDir(defsDir); err == nil {
			ws.CustomCount = len(defs)
		}
	}

	historyPath, err := cfg.HistoryPath()
	if err != nil {
		return nil, err
	}
	ws.HistoryPath = historyPath
	_, statErr := os.Stat(historyPath)
	ws.HistoryExists = statErr == nil

	return ws, nil
}

// inspectWorkspaceWithSpinner inspects the workspace with spinner feedback.
func inspectWorkspaceWithSpinner(cfg *Config) (*workspaceStatus, error) {
	var ws *workspaceStatus

	spinErr := runWithSpinner("Inspecting workspace", func() error {
		var err error
		ws, err = inspectWorkspace(cfg)
		return err
	})
	if spinErr != nil {
		return nil, spinErr
	}

	fmt.Printf("  Config file:  %s (%s)\n", ws.ConfigPath, existsWord(ws.ConfigExists))
	fmt.Printf("  Definitions:  %s (%s)\n", ws.DefsDir, definitionsWord(ws))
	fmt.Printf("  History DB:   %s (%s)\n", ws.HistoryPath, existsWord(ws.HistoryExists))
	fmt.Printf("  Export dir:   %s\n", ws.ExportDir)

	return ws, nil
}

// existsWord describes a stat result.
func existsWord(exists bool) string {
	if exists {
		return "found"
	}
	return "missing"
}

// definitionsWord describes the definitions directory contents.
func definitionsWord(ws *workspaceStatus) string {
	if !ws.DefsExists {
		return "missing"
	}
	if ws.CustomCount == 0 {
		return "no custom definitions"
	}
	return fmt.Sprintf("%d custom definition(s)", ws.CustomCount)
}

// createWorkspace creates the directory layout and drops the example
// definition next to any custom ones.
func createWorkspace(cfg *Config) error {
	if err := config.EnsureConfigDir(); err != nil {
		return err
	}

	defsDir, err := cfg.DefinitionsDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(defsDir, 0755); err != nil {
		return err
	}

	if dir := cfg.ExportDir(); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	// The .sample suffix keeps the file out of the registry until the
	// user renames it.
	samplePath := filepath.Join(defsDir, exampleDefinitionName)
	if _, err := os.Stat(samplePath); os.IsNotExist(err) {
		if err := os.WriteFile(samplePath, []byte(exampleDefinition), 0644); err != nil {
			return err
		}
	}

	return nil
}

// saveWizardConfig validates and persists cfg, creating the workspace
// directories and the example definition alongside.
func saveWizardConfig(cfg *Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	if err := createWorkspace(cfg); err != nil {
		return "", err
	}

	if err := SaveConfig(cfg); err != nil {
		return "", err
	}
	config.SetGlobal(cfg)

	MarkWizardComplete()

	return ConfigPath(), nil
}

// =============================================================================
// FIRST RUN
// =============================================================================

// IsFirstRun checks if this is the first run (no config and no wizard
// complete marker).
func IsFirstRun() bool {
	dir, err := config.ConfigDir()
	if err != nil {
		return true
	}

	configFile := filepath.Join(dir, "config.toml")
	wizardMarker := filepath.Join(dir, ".wizard_complete")

	_, configErr := os.Stat(configFile)
	_, markerErr := os.Stat(wizardMarker)

	return os.IsNotExist(configErr) && os.IsNotExist(markerErr)
}

// MarkWizardComplete marks the wizard as completed.
func MarkWizardComplete() error {
	if err := config.EnsureConfigDir(); err != nil {
		return err
	}

	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	markerPath := filepath.Join(dir, ".wizard_complete")
	return os.WriteFile(markerPath, []byte(time.Now().Format(time.RFC3339)), 0644)
}

// =============================================================================
// EXAMPLE DEFINITION
// =============================================================================

// exampleDefinitionName is the file the wizard drops into the definitions
// directory as a starting point for custom templates.
const exampleDefinitionName = "llama3.toml.sample"

// exampleDefinition is a complete, valid definition for the Llama 3 chat
// format. Shipped with a .sample suffix so it never registers by accident.
const exampleDefinition = `# Example model definition for promptforge.
# Rename this file to llama3.toml (drop the .sample suffix) to register it.
#
# Every role needs a [program.turns.*] entry, even an empty one. Roles with
# empty open/close render their content bare.

id = "llama3"
display_name = "Llama 3"
tokenizer_id = "meta-llama/Meta-Llama-3-8B-Instruct"
bos_token = "<|begin_of_text|>"
eos_token = "<|eot_id|>"

[program]
# Appended when add_generation_prompt is on.
gen_prompt = "<|start_header_id|>assistant<|end_header_id|>\n\n"

# Llama 3 has no reasoning tokens; leave [program.think] out. Models with a
# thinking variant add:
#
#   [program.think]
#   open = "<think>"
#   close = "</think>"

[program.turns.system]
open = "<|start_header_id|>system<|end_header_id|>\n\n"
close = "<|eot_id|>"

[program.turns.developer]
open = "<|start_header_id|>developer<|end_header_id|>\n\n"
close = "<|eot_id|>"

[program.turns.user]
open = "<|start_header_id|>user<|end_header_id|>\n\n"
close = "<|eot_id|>"

[program.turns.assistant]
open = "<|start_header_id|>assistant<|end_header_id|>\n\n"
close = "<|eot_id|>"

[program.turns.tool]
open = "<|start_header_id|>ipython<|end_header_id|>\n\n"
close = "<|eot_id|>"

# Patterns drive prompt highlighting. First match wins on ties.
[[patterns]]
pattern = '<\|begin_of_text\|>'
class = "bos_eos"

[[patterns]]
pattern = '<\|eot_id\|>'
class = "bos_eos"

[[patterns]]
pattern = '<\|start_header_id\|>[a-z]+<\|end_header_id\|>'
class = "role"

[default_options]
enable_thinking = false
`
