// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation for promptforge.
//
// CLI: Comprehensive help and examples for all commands
//
// Command: config [subcommand]
// Short:   View and modify configuration
// Aliases: (none)
//
// Subcommands:
//   show (default)      Display current configuration
//   get <key>           Print a single configuration value
//   set <key> <value>   Set a configuration value
//   reset               Reset to default configuration
//   path                Show configuration file path
//
// Examples:
//   promptforge config                          Show current config (default)
//   promptforge config show --json              Config in JSON format
//   promptforge config get ui.theme
//   promptforge config set default_model llama3
//   promptforge config set render.enable_thinking false
//   promptforge config set definitions.watch true
//   promptforge config set history.max_entries 500
//   promptforge config set export.format html
//   promptforge config reset                    Reset to defaults
//   promptforge config path                     Show config file location
//
// Configuration Keys:
//   default_model                Model rendered by default
//   render.enable_thinking       Emit reasoning segments (true/false)
//   render.add_generation_prompt Append the generation header (true/false)
//   render.include_tools         Include the tools block (true/false)
//   definitions.dir              Directory scanned for custom definitions
//   definitions.watch            Reload definitions on file changes (true/false)
//   history.enabled              Record renders to history (true/false)
//   history.path                 History database file
//   history.max_entries          History rows kept before pruning (0 = unlimited)
//   export.dir                   Directory exports are written to
//   export.format                Default export format (text/markdown/json/html)
//   ui.theme                     TUI theme (dark/light/auto)
//   ui.show_tokens               Show token estimate in the status bar
//   ui.compact_mode              Compact TUI layout (true/false)
//
// Flags:
//   --json              Output in JSON format
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/promptforge/internal/config"
)

// =============================================================================
// CONFIG STYLES
// =============================================================================

var (
	// Config title style
	configTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")). // Cyan
				MarginBottom(1)

	// Config section style
	configSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("255")). // White
				MarginTop(1)

	// Config key style
	configKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // Light gray
			Width(24)

	// Config value style
	configValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")) // Green

	// Success style
	configSuccessStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)

	// Path style
	configPathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)
)

// =============================================================================
// CONFIG WRAPPER FUNCTIONS (for backward compatibility)
// =============================================================================

// Config is an alias to the main config type for backward compatibility.
type Config = config.Config

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return config.Default()
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return ""
	}
	return path
}

// LoadConfig loads the configuration from the config file.
// Returns default config if file doesn't exist.
func LoadConfig() (*Config, error) {
	return config.Load()
}

// SaveConfig saves the configuration to the config file.
func SaveConfig(cfg *Config) error {
	return config.Save(cfg)
}

// =============================================================================
// HANDLE CONFIG
// =============================================================================

// HandleConfig handles the "config" command.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		if args.JSON {
			return handleConfigShowJSON()
		}
		return handleConfigShow()

	case "get":
		return handleConfigGet(args)

	case "set":
		return handleConfigSet(args.ConfigKey, args.ConfigVal)

	case "reset":
		return handleConfigReset()

	case "path":
		if args.JSON {
			return handleConfigPathJSON()
		}
		return handleConfigPath()

	default:
		return NewValidationErrorWithExample(
			"subcommand",
			args.Subcommand,
			"unknown config subcommand",
			"show, get, set, reset, path",
		)
	}
}

// handleConfigShowJSON outputs configuration in JSON format.
func handleConfigShowJSON() error {
	cfg, err := LoadConfig()
	if err != nil {
		// Still show defaults when the file is unreadable
		cfg = DefaultConfig()
	}

	data := ConfigData{
		General: ConfigGeneralInfo{
			Version:      cfg.Version,
			DefaultModel: cfg.DefaultModel,
		},
		Render: ConfigRenderInfo{
			EnableThinking:      cfg.Render.EnableThinking,
			AddGenerationPrompt: cfg.Render.AddGenerationPrompt,
			IncludeTools:        cfg.Render.IncludeTools,
		},
		Definitions: ConfigDefinitionsInfo{
			Dir:   resolvedDefinitionsDir(cfg),
			Watch: cfg.Definitions.Watch,
		},
		History: ConfigHistoryInfo{
			Enabled:    cfg.History.Enabled,
			Path:       resolvedHistoryPath(cfg),
			MaxEntries: cfg.History.MaxEntries,
		},
		Export: ConfigExportInfo{
			Dir:    cfg.ExportDir(),
			Format: cfg.Export.Format,
		},
		UI: ConfigUIInfo{
			Theme:       cfg.UI.Theme,
			ShowTokens:  cfg.UI.ShowTokens,
			CompactMode: cfg.UI.CompactMode,
		},
		Path: ConfigPath(),
	}

	resp := NewJSONResponse("config show", data)
	return resp.Print()
}

// handleConfigPathJSON outputs config path in JSON format.
func handleConfigPathJSON() error {
	path := ConfigPath()
	_, err := os.Stat(path)
	exists := !os.IsNotExist(err)

	data := map[string]interface{}{
		"path":   path,
		"exists": exists,
	}

	resp := NewJSONResponse("config path", data)
	return resp.Print()
}

// handleConfigShow displays the current configuration.
func handleConfigShow() error {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s (using defaults)\n", err)
		cfg = DefaultConfig()
	}

	separator := strings.Repeat("=", 48)
	fmt.Println()
	fmt.Println(configTitleStyle.Render("promptforge Configuration"))
	fmt.Println(SeparatorStyle.Render(separator))
	fmt.Println()

	// General section
	fmt.Println(configSectionStyle.Render("[general]"))
	printConfigLine("default_model:", cfg.DefaultModel)
	fmt.Println()

	// Render section
	fmt.Println(configSectionStyle.Render("[render]"))
	printConfigLine("enable_thinking:", formatConfigBool(cfg.Render.EnableThinking))
	printConfigLine("add_generation_prompt:", formatConfigBool(cfg.Render.AddGenerationPrompt))
	printConfigLine("include_tools:", formatConfigBool(cfg.Render.IncludeTools))
	fmt.Println()

	// Definitions section
	fmt.Println(configSectionStyle.Render("[definitions]"))
	printConfigLine("dir:", resolvedDefinitionsDir(cfg))
	printConfigLine("watch:", formatConfigBool(cfg.Definitions.Watch))
	fmt.Println()

	// History section
	fmt.Println(configSectionStyle.Render("[history]"))
	printConfigLine("enabled:", formatConfigBool(cfg.History.Enabled))
	printConfigLine("path:", resolvedHistoryPath(cfg))
	printConfigLine("max_entries:", fmt.Sprintf("%d", cfg.History.MaxEntries))
	fmt.Println()

	// Export section
	fmt.Println(configSectionStyle.Render("[export]"))
	printConfigLine("dir:", cfg.ExportDir())
	printConfigLine("format:", cfg.Export.Format)
	fmt.Println()

	// UI section
	fmt.Println(configSectionStyle.Render("[ui]"))
	printConfigLine("theme:", cfg.UI.Theme)
	printConfigLine("show_tokens:", formatConfigBool(cfg.UI.ShowTokens))
	printConfigLine("compact_mode:", formatConfigBool(cfg.UI.CompactMode))
	fmt.Println()

	// Config file path
	fmt.Println(SeparatorStyle.Render(strings.Repeat("-", 48)))
	fmt.Printf("Config file: %s\n", configPathStyle.Render(ConfigPath()))
	fmt.Println()

	return nil
}

// handleConfigGet prints a single configuration value.
func handleConfigGet(args Args) error {
	key := strings.ToLower(strings.TrimSpace(args.ConfigKey))
	if key == "" {
		return ErrMissingArgument("key", "promptforge config get ui.theme")
	}

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s (using defaults)\n", err)
		cfg = DefaultConfig()
	}

	val, err := cfg.Get(key)
	if err != nil {
		return NewValidationErrorWithExample(
			"key",
			key,
			"unknown config key",
			strings.Join(config.GetAllKeys(), ", "),
		)
	}

	if args.JSON {
		resp := NewJSONResponse("config get", map[string]interface{}{
			"key":   key,
			"value": val,
		})
		return resp.Print()
	}

	fmt.Printf("%s = %v\n", key, val)
	return nil
}

// handleConfigSet sets a configuration value.
func handleConfigSet(key, value string) error {
	if key == "" {
		return fmt.Errorf("no config key provided\nUsage: promptforge config set <key> <value>")
	}
	if value == "" {
		return fmt.Errorf("no config value provided\nUsage: promptforge config set %s <value>", key)
	}

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s (using defaults)\n", err)
		cfg = DefaultConfig()
	}

	// Keys use dot notation: section.field, snake_case within fields
	key = strings.ToLower(strings.TrimSpace(key))

	if err := cfg.Set(key, value); err != nil {
		return fmt.Errorf("unknown config key: %s\n\nValid keys:\n  %s",
			key, strings.Join(config.GetAllKeys(), "\n  "))
	}

	// Validate the updated config before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration value: %w", err)
	}

	// Save the updated config
	if err := SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	// Refresh the in-process config so later commands in the same run see it
	config.SetGlobal(cfg)

	fmt.Printf("%s %s = %s\n",
		configSuccessStyle.Render("[OK]"),
		key,
		value)

	return nil
}

// handleConfigReset resets configuration to defaults.
func handleConfigReset() error {
	cfg := DefaultConfig()

	if err := SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	config.SetGlobal(cfg)

	fmt.Printf("%s Configuration reset to defaults\n", configSuccessStyle.Render("[OK]"))
	fmt.Printf("Config file: %s\n", configPathStyle.Render(ConfigPath()))

	return nil
}

// handleConfigPath shows the config file path.
func handleConfigPath() error {
	path := ConfigPath()
	fmt.Println(path)

	// Also show if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "%s (file does not exist - will be created on first use)\n",
			DimStyle.Render("Note"))
	}

	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// printConfigLine prints one aligned key/value line.
func printConfigLine(key, value string) {
	fmt.Printf("  %s%s\n",
		configKeyStyle.Render(key),
		configValueStyle.Render(value))
}

// formatConfigBool renders a bool the way it appears in the TOML file.
func formatConfigBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// resolvedDefinitionsDir shows the effective definitions directory.
func resolvedDefinitionsDir(cfg *Config) string {
	dir, err := cfg.DefinitionsDir()
	if err != nil {
		return cfg.Definitions.Dir
	}
	return dir
}

// resolvedHistoryPath shows the effective history database path.
func resolvedHistoryPath(cfg *Config) string {
	path, err := cfg.HistoryPath()
	if err != nil {
		return cfg.History.Path
	}
	return path
}
