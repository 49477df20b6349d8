// json_output.go - JSON output support for scripting and automation.
//
// Provides a standardized JSON output format for all CLI commands so
// renders and history queries can feed pipelines and test harnesses.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/promptforge/internal/highlight"
)

// JSONResponse is the standardized response format for all CLI commands.
// Every command that supports --json wraps its payload in this envelope
// so callers can switch on success and command without per-command logic.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is the ISO8601 timestamp when the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Error:     nil,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Data:      nil,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponseStr creates a new error JSON response from a string.
func NewJSONErrorResponseStr(command string, errMsg string) *JSONResponse {
	return &JSONResponse{
		Success:   false,
		Data:      nil,
		Error:     &errMsg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print outputs the JSON response to stdout.
// Human-readable messages should go to stderr when JSON mode is enabled.
func (r *JSONResponse) Print() error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// PrintCompact outputs the JSON response without indentation.
// Useful for piping to other tools or log aggregation.
func (r *JSONResponse) PrintCompact() error {
	return json.NewEncoder(os.Stdout).Encode(r)
}

// String returns the JSON response as a string.
func (r *JSONResponse) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"failed to marshal response: %s","timestamp":"%s"}`,
			err.Error(), time.Now().UTC().Format(time.RFC3339))
	}
	return string(data)
}

// OutputJSON is a helper function that outputs either JSON or runs a normal handler.
// If jsonMode is true, it outputs JSON and handles errors. Otherwise it runs the handler.
func OutputJSON(jsonMode bool, command string, handler func() (interface{}, error)) error {
	if !jsonMode {
		_, err := handler()
		return err
	}

	data, err := handler()
	if err != nil {
		resp := NewJSONErrorResponse(command, err)
		resp.Print()
		return err
	}

	resp := NewJSONResponse(command, data)
	return resp.Print()
}

// StderrPrint prints a message to stderr (for human-readable output in JSON mode).
func StderrPrint(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}

// StderrPrintln prints a line to stderr (for human-readable output in JSON mode).
func StderrPrintln(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// RenderData represents the data returned by the render command.
type RenderData struct {
	ModelID             string           `json:"model_id"`
	ModelName           string           `json:"model_name"`
	Prompt              string           `json:"prompt"`
	ByteCount           int              `json:"byte_count"`
	TokenCount          int              `json:"token_count"`
	MessageCount        int              `json:"message_count"`
	EnableThinking      bool             `json:"enable_thinking"`
	AddGenerationPrompt bool             `json:"add_generation_prompt"`
	IncludeTools        bool             `json:"include_tools"`
	Spans               []highlight.Span `json:"spans,omitempty"`
}

// ModelListData represents the data returned by the models command.
type ModelListData struct {
	Models []ModelEntry `json:"models"`
	Count  int          `json:"count"`
}

// ModelEntry represents a single registered model template.
type ModelEntry struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	TokenizerID string `json:"tokenizer_id,omitempty"`
	Source      string `json:"source"`
	Default     bool   `json:"default,omitempty"`
}

// ModelInfoData represents the data returned by the models info command.
type ModelInfoData struct {
	ID             string                 `json:"id"`
	DisplayName    string                 `json:"display_name"`
	TokenizerID    string                 `json:"tokenizer_id,omitempty"`
	Source         string                 `json:"source"`
	BOSToken       string                 `json:"bos_token,omitempty"`
	EOSToken       string                 `json:"eos_token,omitempty"`
	DefaultOptions map[string]interface{} `json:"default_options,omitempty"`
	PatternCount   int                    `json:"pattern_count"`
}

// HistoryListData represents the data returned by history list and search.
type HistoryListData struct {
	Entries []HistoryEntryData `json:"entries"`
	Count   int                `json:"count"`
}

// HistoryEntryData represents a single stored prompt render.
// Prompt is populated only by history show.
type HistoryEntryData struct {
	UUID         string `json:"uuid"`
	CreatedAt    string `json:"created_at"`
	ModelID      string `json:"model_id"`
	ModelName    string `json:"model_name"`
	Title        string `json:"title"`
	State        string `json:"state"`
	MessageCount int    `json:"message_count"`
	ByteCount    int    `json:"byte_count"`
	TokenCount   int    `json:"token_count"`
	Prompt       string `json:"prompt,omitempty"`
}

// HistoryStatsData represents the data returned by the history stats command.
type HistoryStatsData struct {
	EntryCount   int    `json:"entry_count"`
	DatabaseSize int64  `json:"database_size_bytes"`
	Path         string `json:"path"`
}

// ExportData represents the data returned by the export command.
type ExportData struct {
	Path      string `json:"path"`
	Format    string `json:"format"`
	ModelID   string `json:"model_id"`
	ByteCount int    `json:"byte_count"`
}

// ConfigData represents the data returned by the config show command.
type ConfigData struct {
	General     ConfigGeneralInfo     `json:"general"`
	Render      ConfigRenderInfo      `json:"render"`
	Definitions ConfigDefinitionsInfo `json:"definitions"`
	History     ConfigHistoryInfo     `json:"history"`
	Export      ConfigExportInfo      `json:"export"`
	UI          ConfigUIInfo          `json:"ui"`
	Path        string                `json:"config_path"`
}

// ConfigGeneralInfo contains general configuration.
type ConfigGeneralInfo struct {
	Version      string `json:"version"`
	DefaultModel string `json:"default_model"`
}

// ConfigRenderInfo contains render option defaults.
type ConfigRenderInfo struct {
	EnableThinking      bool `json:"enable_thinking"`
	AddGenerationPrompt bool `json:"add_generation_prompt"`
	IncludeTools        bool `json:"include_tools"`
}

// ConfigDefinitionsInfo contains definition loading configuration.
type ConfigDefinitionsInfo struct {
	Dir   string `json:"dir"`
	Watch bool   `json:"watch"`
}

// ConfigHistoryInfo contains history storage configuration.
type ConfigHistoryInfo struct {
	Enabled    bool   `json:"enabled"`
	Path       string `json:"path"`
	MaxEntries int    `json:"max_entries"`
}

// ConfigExportInfo contains export configuration.
type ConfigExportInfo struct {
	Dir    string `json:"dir"`
	Format string `json:"format"`
}

// ConfigUIInfo contains terminal UI configuration.
type ConfigUIInfo struct {
	Theme       string `json:"theme"`
	ShowTokens  bool   `json:"show_tokens"`
	CompactMode bool   `json:"compact_mode"`
}

// DoctorData represents the data returned by the doctor command.
type DoctorData struct {
	Checks  []DoctorCheck `json:"checks"`
	Summary DoctorSummary `json:"summary"`
}

// DoctorCheck represents a single health check result.
type DoctorCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "pass", "warn", "fail"
	Message string `json:"message"`
	Fix     string `json:"fix,omitempty"`
}

// DoctorSummary contains the summary of health checks.
type DoctorSummary struct {
	Passed  int  `json:"passed"`
	Warned  int  `json:"warned"`
	Failed  int  `json:"failed"`
	Healthy bool `json:"healthy"`
}

// VersionData represents the data returned by the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version,omitempty"`
}
