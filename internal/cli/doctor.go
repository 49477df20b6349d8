// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// doctor.go - Doctor command implementation for promptforge.
//
// CLI: Comprehensive help and examples for all commands
//
// Command: doctor [subcommand]
// Short:   Run workspace health checks and diagnostics
//
// Subcommands:
//   (default)           Run all health checks
//   fix                 Run checks and attempt auto-fixes
//
// Examples:
//   promptforge doctor                Run all health checks
//   promptforge doctor --json         Health check results in JSON
//   promptforge doctor fix            Run checks and attempt auto-fixes
//
// Health Checks Performed:
//   1. Config Valid        - Validates the configuration file
//   2. Config Dir Writable - Checks config directory permissions
//   3. Definitions Loaded  - Loads builtin and custom model definitions
//   4. Default Model       - Resolves the configured default model
//   5. History Database    - Opens the prompt history database
//   6. Export Dir Writable - Checks export directory permissions
//   7. Render Pipeline     - Renders the seed conversation end to end
//
// Status Symbols:
//   [green OK]      Pass  - Check successful
//   [yellow !!]     Warn  - Non-critical issue detected
//   [red FAIL]      Fail  - Critical issue detected
//
// Flags:
//   --json              Output in JSON format
//   --fix               Same as the fix subcommand
//
// Auto-Fix Behavior:
//   Fixes run in-process only (creating missing directories). Anything
//   that needs a shell command or a config edit is printed as a manual
//   step and never executed.
//
// Exit Codes:
//   0   All checks passed
//   1   One or more checks failed
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/promptforge/internal/config"
	"github.com/jeranaias/promptforge/internal/session"
	"github.com/jeranaias/promptforge/internal/template"
	"github.com/jeranaias/promptforge/internal/ui/styles"
)

// =============================================================================
// DOCTOR STYLES
// =============================================================================

var (
	// Doctor title style
	doctorTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(styles.Cyan).
				MarginBottom(1)

	// Check pass style
	checkPassStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	// Check warn style
	checkWarnStyle = lipgloss.NewStyle().
			Foreground(styles.Amber).
			Bold(true)

	// Check fail style
	checkFailStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	// Check message style
	checkMsgStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	// Fix suggestion style
	fixStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			PaddingLeft(2)

	// Summary style
	summaryStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)
)

// =============================================================================
// HEALTH CHECK TYPES
// =============================================================================

// CheckStatus represents the status of a health check.
type CheckStatus int

const (
	// CheckPass indicates the check passed successfully.
	CheckPass CheckStatus = iota
	// CheckWarn indicates the check passed with warnings.
	CheckWarn
	// CheckFail indicates the check failed.
	CheckFail
)

// String returns the string representation of the check status.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "Pass"
	case CheckWarn:
		return "Warn"
	case CheckFail:
		return "Fail"
	default:
		return "Unknown"
	}
}

// Symbol returns the styled symbol for the check status.
func (s CheckStatus) Symbol() string {
	switch s {
	case CheckPass:
		return checkPassStyle.Render("[OK]")
	case CheckWarn:
		return checkWarnStyle.Render("[!!]")
	case CheckFail:
		return checkFailStyle.Render("[FAIL]")
	default:
		return "?"
	}
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	Name    string
	Status  CheckStatus
	Message string
	Fix     string       // Suggested fix command or instruction
	Repair  func() error // Optional in-process fix, run by "doctor fix"
}

// Render returns a formatted string representation of the health check.
func (c *HealthCheck) Render() string {
	result := fmt.Sprintf("%s %s", c.Status.Symbol(), checkMsgStyle.Render(c.Message))
	if c.Status != CheckPass && c.Fix != "" {
		result += "\n" + fixStyle.Render("-> "+c.Fix)
	}
	return result
}

// TryFix attempts to repair the issue. Repairs are in-process filesystem
// operations only; checks without a Repair hook stay manual.
func (c *HealthCheck) TryFix() error {
	if c.Status == CheckPass {
		return nil
	}

	if c.Repair == nil {
		if c.Fix != "" {
			return fmt.Errorf("manual fix required: %s", c.Fix)
		}
		return fmt.Errorf("no automatic fix available")
	}

	fmt.Printf("  Attempting fix: %s\n", c.Name)

	if err := c.Repair(); err != nil {
		return fmt.Errorf("fix failed: %w", err)
	}

	return nil
}

// =============================================================================
// HANDLE DOCTOR
// =============================================================================

// HandleDoctor handles the "doctor" command.
// Runs workspace health checks and optionally attempts auto-fixes.
func HandleDoctor(args Args) error {
	// Run all checks
	checks := runAllChecks()

	// Count results
	passed := 0
	warned := 0
	failed := 0
	for _, check := range checks {
		switch check.Status {
		case CheckPass:
			passed++
		case CheckWarn:
			warned++
		case CheckFail:
			failed++
		}
	}

	// JSON output mode
	if args.JSON {
		return handleDoctorJSON(checks, passed, warned, failed)
	}

	// Human-readable output
	separator := strings.Repeat("=", 41)
	fmt.Println()
	fmt.Println(doctorTitleStyle.Render("promptforge Doctor"))
	fmt.Println(SeparatorStyle.Render(separator))
	fmt.Println()

	// Display results
	for _, check := range checks {
		fmt.Println(check.Render())
	}

	// Summary line
	fmt.Println()
	fmt.Println(SeparatorStyle.Render(strings.Repeat("-", 41)))

	summaryParts := []string{
		fmt.Sprintf("%d passed", passed),
	}
	if warned > 0 {
		summaryParts = append(summaryParts, checkWarnStyle.Render(fmt.Sprintf("%d warning", warned)))
	}
	if failed > 0 {
		summaryParts = append(summaryParts, checkFailStyle.Render(fmt.Sprintf("%d failed", failed)))
	}

	fmt.Println(summaryStyle.Render(strings.Join(summaryParts, ", ")))
	fmt.Println()

	// Auto-fix if requested
	if args.Subcommand == "fix" && (warned > 0 || failed > 0) {
		fmt.Println(doctorTitleStyle.Render("Attempting Auto-Fix..."))
		fmt.Println()

		for _, check := range checks {
			if check.Status != CheckPass && (check.Repair != nil || check.Fix != "") {
				if err := check.TryFix(); err != nil {
					fmt.Printf("  %s Could not fix %s: %s\n",
						checkWarnStyle.Render("[!!]"),
						check.Name,
						err)
				} else {
					fmt.Printf("  %s Fixed %s\n",
						checkPassStyle.Render("[OK]"),
						check.Name)
				}
			}
		}
		fmt.Println()
	}

	// Return error if there are failures
	if failed > 0 {
		return fmt.Errorf("%d health check(s) failed", failed)
	}

	return nil
}

// handleDoctorJSON outputs doctor results in JSON format.
func handleDoctorJSON(checks []*HealthCheck, passed, warned, failed int) error {
	// Convert checks to JSON-friendly format
	jsonChecks := make([]DoctorCheck, 0, len(checks))
	for _, check := range checks {
		status := "pass"
		switch check.Status {
		case CheckWarn:
			status = "warn"
		case CheckFail:
			status = "fail"
		}

		jsonChecks = append(jsonChecks, DoctorCheck{
			Name:    check.Name,
			Status:  status,
			Message: check.Message,
			Fix:     check.Fix,
		})
	}

	data := DoctorData{
		Checks: jsonChecks,
		Summary: DoctorSummary{
			Passed:  passed,
			Warned:  warned,
			Failed:  failed,
			Healthy: failed == 0,
		},
	}

	resp := NewJSONResponse("doctor", data)

	// If there are failures, mark as unsuccessful but still output data
	if failed > 0 {
		errMsg := fmt.Sprintf("%d health check(s) failed", failed)
		resp.Success = false
		resp.Error = &errMsg
	}

	return resp.Print()
}

// =============================================================================
// HEALTH CHECK FUNCTIONS
// =============================================================================

// runAllChecks runs all health checks and returns the results.
func runAllChecks() []*HealthCheck {
	var checks []*HealthCheck

	// 1. Check config file valid
	checks = append(checks, checkConfigValid())

	// 2. Check config directory writable
	checks = append(checks, checkConfigDirWritable())

	// 3. Check model definitions load
	checks = append(checks, checkDefinitionsLoaded())

	// 4. Check default model resolves
	checks = append(checks, checkDefaultModel())

	// 5. Check history database opens
	checks = append(checks, checkHistoryDatabase())

	// 6. Check export directory writable
	checks = append(checks, checkExportDirWritable())

	// 7. Check the render pipeline end to end
	checks = append(checks, checkRenderPipeline())

	return checks
}

// checkConfigValid checks if the configuration file is valid.
func checkConfigValid() *HealthCheck {
	check := &HealthCheck{
		Name: "Config Valid",
	}

	configPath := ConfigPath()
	if configPath == "" {
		check.Status = CheckWarn
		check.Message = "Could not determine config path"
		return check
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		check.Status = CheckPass
		check.Message = "Config valid (using defaults)"
		return check
	}

	// Load already validates field values
	_, err := LoadConfig()
	if err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Config invalid: %s", err)
		check.Fix = "Run: promptforge config reset"
		return check
	}

	check.Status = CheckPass
	check.Message = "Config valid"
	return check
}

// checkConfigDirWritable checks if the config directory is writable.
func checkConfigDirWritable() *HealthCheck {
	check := &HealthCheck{
		Name: "Config Dir Writable",
	}

	dir, err := config.ConfigDir()
	if err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Could not determine config directory: %s", err)
		return check
	}

	// Ensure directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Could not create config directory: %s", err)
		check.Fix = fmt.Sprintf("Create manually: mkdir -p %s", dir)
		return check
	}

	// Try to write a test file
	testFile := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Config directory not writable: %s", err)
		check.Fix = fmt.Sprintf("Check permissions: chmod 755 %s", dir)
		return check
	}

	// Clean up test file
	os.Remove(testFile)

	check.Status = CheckPass
	check.Message = "Config directory writable"
	return check
}

// checkDefinitionsLoaded checks that model definitions load cleanly.
func checkDefinitionsLoaded() *HealthCheck {
	check := &HealthCheck{
		Name: "Definitions Loaded",
	}

	cfg, err := LoadConfig()
	if err != nil {
		cfg = DefaultConfig()
	}

	dir, err := cfg.DefinitionsDir()
	if err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Could not resolve definitions directory: %s", err)
		return check
	}

	reg, err := template.BuildRegistry(dir)
	if err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Definitions failed to load: %s", err)
		check.Fix = fmt.Sprintf("Check the TOML files in %s", dir)
		return check
	}

	// A missing directory still yields a working registry of builtins
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		check.Status = CheckWarn
		check.Message = fmt.Sprintf("%d builtin model(s), definitions directory missing", reg.Len())
		check.Fix = fmt.Sprintf("Create it: mkdir -p %s", dir)
		check.Repair = func() error {
			return os.MkdirAll(dir, 0755)
		}
		return check
	}

	custom := reg.Len() - len(template.Builtins())

	check.Status = CheckPass
	check.Message = fmt.Sprintf("%d model(s) registered (%d custom)", reg.Len(), custom)
	return check
}

// checkDefaultModel checks that the configured default model resolves.
func checkDefaultModel() *HealthCheck {
	check := &HealthCheck{
		Name: "Default Model",
	}

	cfg, err := LoadConfig()
	if err != nil {
		cfg = DefaultConfig()
	}

	modelID := cfg.DefaultModel
	if modelID == "" {
		modelID = template.DefaultModelID
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		check.Status = CheckWarn
		check.Message = fmt.Sprintf("Could not check model: %s", err)
		return check
	}

	def, err := reg.Resolve(modelID)
	if err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Default model not registered: %s", modelID)
		check.Fix = fmt.Sprintf("Run: promptforge config set default_model %s", template.DefaultModelID)
		return check
	}

	check.Status = CheckPass
	check.Message = fmt.Sprintf("Default model available: %s", def.ID)
	return check
}

// checkHistoryDatabase checks that the history database opens.
func checkHistoryDatabase() *HealthCheck {
	check := &HealthCheck{
		Name: "History Database",
	}

	cfg, err := LoadConfig()
	if err != nil {
		cfg = DefaultConfig()
	}

	if !cfg.History.Enabled {
		check.Status = CheckPass
		check.Message = "History disabled in config"
		return check
	}

	store, err := openHistoryStore(cfg)
	if err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("History database error: %s", err)
		if path, perr := cfg.HistoryPath(); perr == nil {
			check.Fix = fmt.Sprintf("Remove the database and retry: rm %s", path)
		}
		return check
	}
	defer store.Close()

	count, err := store.Count()
	if err != nil {
		check.Status = CheckWarn
		check.Message = fmt.Sprintf("History database opened but query failed: %s", err)
		return check
	}

	check.Status = CheckPass
	check.Message = fmt.Sprintf("History database OK (%d entr%s)", count, pluralY(count))
	return check
}

// checkExportDirWritable checks if the export directory is writable.
func checkExportDirWritable() *HealthCheck {
	check := &HealthCheck{
		Name: "Export Dir Writable",
	}

	cfg, err := LoadConfig()
	if err != nil {
		cfg = DefaultConfig()
	}

	dir := cfg.ExportDir()

	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		check.Status = CheckWarn
		check.Message = fmt.Sprintf("Export directory missing: %s", dir)
		check.Fix = fmt.Sprintf("Create it: mkdir -p %s", dir)
		check.Repair = func() error {
			return os.MkdirAll(dir, 0755)
		}
		return check
	case err != nil:
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Could not stat export directory: %s", err)
		return check
	case !info.IsDir():
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Export path is not a directory: %s", dir)
		return check
	}

	// Try to write a test file
	testFile := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Export directory not writable: %s", err)
		check.Fix = fmt.Sprintf("Check permissions: chmod 755 %s", dir)
		return check
	}

	// Clean up test file
	os.Remove(testFile)

	check.Status = CheckPass
	check.Message = "Export directory writable"
	return check
}

// checkRenderPipeline renders the seed conversation through the builtin
// default model, exercising the template engine end to end.
func checkRenderPipeline() *HealthCheck {
	check := &HealthCheck{
		Name: "Render Pipeline",
	}

	reg := template.NewBuiltinRegistry()
	def, err := reg.Lookup(template.DefaultModelID)
	if err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Builtin registry broken: %s", err)
		return check
	}

	prompt, err := template.Render(session.SeedConversation(), def, def.DefaultOptions.Clone())
	if err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Render failed: %s", err)
		return check
	}

	check.Status = CheckPass
	check.Message = fmt.Sprintf("Render pipeline OK (%d bytes via %s)", len(prompt), def.ID)
	return check
}
