// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// TestConfig_ConcurrentAccess tests that Global(), SetGlobal(), and ReloadGlobal()
// can be safely called concurrently without race conditions.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	// Reset state before test
	ResetGlobalForTesting()

	var wg sync.WaitGroup

	// 50 writers using SetGlobal, 50 readers using Global
	for i := 0; i < 50; i++ {
		wg.Add(2)

		// Writer goroutine
		go func(id int) {
			defer wg.Done()
			c := &Config{
				Version:      "test",
				DefaultModel: "test-model",
				Render: RenderConfig{
					EnableThinking:      true,
					AddGenerationPrompt: true,
				},
			}
			SetGlobal(c)
		}(i)

		// Reader goroutine
		go func(id int) {
			defer wg.Done()
			cfg := Global()
			if cfg == nil {
				t.Error("Global() returned nil")
			}
		}(i)
	}

	wg.Wait()
}

// TestConfig_ConcurrentReload tests concurrent ReloadGlobal and Global calls.
func TestConfig_ConcurrentReload(t *testing.T) {
	// Reset state before test
	ResetGlobalForTesting()

	// Initialize config first
	_ = Global()

	var wg sync.WaitGroup

	// 20 reloaders, 80 readers
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// ReloadGlobal may fail if config file doesn't exist, that's ok
			_ = ReloadGlobal()
		}()
	}

	for i := 0; i < 80; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cfg := Global()
			if cfg == nil {
				t.Error("Global() returned nil")
			}
		}()
	}

	wg.Wait()
}

// TestConfig_GlobalInitialization tests that Global() properly initializes
// the config on first access.
func TestConfig_GlobalInitialization(t *testing.T) {
	// Reset state before test
	ResetGlobalForTesting()

	cfg := Global()
	if cfg == nil {
		t.Fatal("Global() returned nil")
	}

	// Verify defaults are applied
	if cfg.Version == "" {
		t.Error("Config version should not be empty")
	}
	if cfg.UI.Theme == "" {
		t.Error("UI theme should not be empty")
	}
}

// TestConfig_SetGlobalOverwrites tests that SetGlobal properly overwrites
// the existing global config.
func TestConfig_SetGlobalOverwrites(t *testing.T) {
	// Reset state before test
	ResetGlobalForTesting()

	// Initialize with defaults
	_ = Global()

	// Set custom config
	customCfg := &Config{
		Version:      "custom-version",
		DefaultModel: "custom-model",
	}
	SetGlobal(customCfg)

	// Verify the custom config is returned
	result := Global()
	if result.Version != "custom-version" {
		t.Errorf("Expected version 'custom-version', got '%s'", result.Version)
	}
	if result.DefaultModel != "custom-model" {
		t.Errorf("Expected model 'custom-model', got '%s'", result.DefaultModel)
	}
}

// TestConfig_ConcurrentMixedOperations tests a mix of all global operations
// happening concurrently.
func TestConfig_ConcurrentMixedOperations(t *testing.T) {
	// Reset state before test
	ResetGlobalForTesting()

	var wg sync.WaitGroup

	// Mix of operations: Global, SetGlobal, ReloadGlobal
	for i := 0; i < 100; i++ {
		wg.Add(1)
		switch i % 3 {
		case 0:
			// Reader
			go func() {
				defer wg.Done()
				cfg := Global()
				if cfg == nil {
					t.Error("Global() returned nil")
				}
			}()
		case 1:
			// SetGlobal writer
			go func() {
				defer wg.Done()
				c := Default()
				c.Version = "concurrent-test"
				SetGlobal(c)
			}()
		case 2:
			// ReloadGlobal
			go func() {
				defer wg.Done()
				_ = ReloadGlobal()
			}()
		}
	}

	wg.Wait()
}

// TestConfig_Default tests that Default() returns a valid config with defaults.
func TestConfig_Default(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.Version == "" {
		t.Error("Default config should have a version")
	}

	if cfg.DefaultModel != "qwen3" {
		t.Errorf("Expected default model 'qwen3', got '%s'", cfg.DefaultModel)
	}

	if !cfg.Render.EnableThinking {
		t.Error("Default config should enable thinking")
	}

	if !cfg.Render.AddGenerationPrompt {
		t.Error("Default config should add the generation prompt")
	}

	if cfg.Render.IncludeTools {
		t.Error("Default config should not include tools")
	}

	if !cfg.Definitions.Watch {
		t.Error("Default config should watch the definitions directory")
	}

	if cfg.History.MaxEntries == 0 {
		t.Error("Default config should bound history size")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

// TestConfig_Validate tests configuration validation.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "valid default config",
			config:  Default(),
			wantErr: false,
		},
		{
			name: "invalid theme",
			config: func() *Config {
				c := Default()
				c.UI.Theme = "invalid"
				return c
			}(),
			wantErr: true,
		},
		{
			name: "invalid export format",
			config: func() *Config {
				c := Default()
				c.Export.Format = "pdf"
				return c
			}(),
			wantErr: true,
		},
		{
			name: "negative history max_entries",
			config: func() *Config {
				c := Default()
				c.History.MaxEntries = -1
				return c
			}(),
			wantErr: true,
		},
		{
			name: "history max_entries above limit",
			config: func() *Config {
				c := Default()
				c.History.MaxEntries = 200000
				return c
			}(),
			wantErr: true,
		},
		{
			name: "unlimited history (zero)",
			config: func() *Config {
				c := Default()
				c.History.MaxEntries = 0
				return c
			}(),
			wantErr: false,
		},
		{
			name: "light theme",
			config: func() *Config {
				c := Default()
				c.UI.Theme = "light"
				return c
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestConfig_Migrate tests normalization of legacy export format aliases.
func TestConfig_Migrate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"txt", "text"},
		{"plain", "text"},
		{"md", "markdown"},
		{"htm", "html"},
		{"markdown", "markdown"},
		{"html", "html"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c := Default()
			c.Export.Format = tt.in
			if err := c.Migrate(); err != nil {
				t.Fatalf("Migrate() error = %v", err)
			}
			if c.Export.Format != tt.want {
				t.Errorf("Migrate() format = %s, want %s", c.Export.Format, tt.want)
			}
		})
	}
}

// TestConfig_ApplyEnvOverrides tests environment variable overrides.
func TestConfig_ApplyEnvOverrides(t *testing.T) {
	t.Setenv("PROMPTFORGE_MODEL", "glm-4.5")
	t.Setenv("PROMPTFORGE_NO_THINKING", "1")
	t.Setenv("PROMPTFORGE_NO_HISTORY", "true")
	t.Setenv("PROMPTFORGE_THEME", "light")
	t.Setenv("PROMPTFORGE_DEFINITIONS_DIR", "/tmp/defs")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.DefaultModel != "glm-4.5" {
		t.Errorf("DefaultModel = %s, want glm-4.5", cfg.DefaultModel)
	}
	if cfg.Render.EnableThinking {
		t.Error("PROMPTFORGE_NO_THINKING should disable thinking")
	}
	if cfg.History.Enabled {
		t.Error("PROMPTFORGE_NO_HISTORY should disable history")
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %s, want light", cfg.UI.Theme)
	}
	if cfg.Definitions.Dir != "/tmp/defs" {
		t.Errorf("Definitions.Dir = %s, want /tmp/defs", cfg.Definitions.Dir)
	}
}

// TestConfig_GetSet tests Get and Set methods with dot notation.
func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	// Test Get
	val, err := cfg.Get("render.enable_thinking")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if val != true {
		t.Errorf("Get('render.enable_thinking') = %v, want true", val)
	}

	// Test Set
	err = cfg.Set("ui.theme", "light")
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	val, _ = cfg.Get("ui.theme")
	if val != "light" {
		t.Errorf("Get('ui.theme') after Set = %v, want 'light'", val)
	}

	// Test Set with string-to-bool conversion
	err = cfg.Set("render.include_tools", "true")
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !cfg.Render.IncludeTools {
		t.Error("Set('render.include_tools', 'true') should enable tools")
	}

	// Test Set with string-to-int conversion
	err = cfg.Set("history.max_entries", "250")
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if cfg.History.MaxEntries != 250 {
		t.Errorf("History.MaxEntries = %d, want 250", cfg.History.MaxEntries)
	}

	// Test Get with invalid key
	_, err = cfg.Get("invalid.key")
	if err == nil {
		t.Error("Get() with invalid key should return error")
	}
}

// TestConfig_GetAllKeys tests that every published key resolves via Get.
func TestConfig_GetAllKeys(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%q) error = %v", key, err)
		}
	}
}

// TestConfig_Clone tests that Clone creates an independent copy.
func TestConfig_Clone(t *testing.T) {
	original := Default()
	original.Version = "original"

	clone := original.Clone()

	// Modify clone
	clone.Version = "cloned"
	clone.Render.EnableThinking = false

	// Verify original unchanged
	if original.Version != "original" {
		t.Error("Clone should create an independent copy")
	}
	if !original.Render.EnableThinking {
		t.Error("Clone should not share render options")
	}
	if clone.Version != "cloned" {
		t.Error("Clone version should be modified")
	}
}

// TestConfig_Merge tests merging two configs.
func TestConfig_Merge(t *testing.T) {
	base := Default()
	base.Version = "base"

	other := &Config{
		Version:      "merged",
		DefaultModel: "merged-model",
	}

	base.Merge(other)

	if base.Version != "merged" {
		t.Errorf("Merge should overwrite Version, got '%s'", base.Version)
	}
	if base.DefaultModel != "merged-model" {
		t.Errorf("Merge should overwrite DefaultModel, got '%s'", base.DefaultModel)
	}
	// Verify non-overwritten values remain
	if base.UI.Theme != "dark" {
		t.Error("Merge should not overwrite unset fields")
	}
}

// TestConfig_LoadTOMLKeepsAbsentDefaults tests that keys missing from the
// file keep the defaults the caller seeded.
func TestConfig_LoadTOMLKeepsAbsentDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "default_model = \"minimax-m2\"\n\n[history]\nmax_entries = 50\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		t.Fatalf("LoadTOML() error = %v", err)
	}

	if cfg.DefaultModel != "minimax-m2" {
		t.Errorf("DefaultModel = %s, want minimax-m2", cfg.DefaultModel)
	}
	if cfg.History.MaxEntries != 50 {
		t.Errorf("History.MaxEntries = %d, want 50", cfg.History.MaxEntries)
	}
	if !cfg.Render.EnableThinking {
		t.Error("absent render.enable_thinking should keep the true default")
	}
	if !cfg.Definitions.Watch {
		t.Error("absent definitions.watch should keep the true default")
	}
}

// TestConfig_SaveLoadRoundTrip tests that a saved config loads back with the
// same values.
func TestConfig_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.DefaultModel = "deepseek-v3.1"
	cfg.Render.EnableThinking = false
	cfg.Export.Format = "html"
	cfg.History.MaxEntries = 42

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML() error = %v", err)
	}

	loaded := Default()
	if err := LoadTOML(loaded, path); err != nil {
		t.Fatalf("LoadTOML() error = %v", err)
	}

	if loaded.DefaultModel != "deepseek-v3.1" {
		t.Errorf("DefaultModel = %s, want deepseek-v3.1", loaded.DefaultModel)
	}
	if loaded.Render.EnableThinking {
		t.Error("EnableThinking should round-trip as false")
	}
	if loaded.Export.Format != "html" {
		t.Errorf("Export.Format = %s, want html", loaded.Export.Format)
	}
	if loaded.History.MaxEntries != 42 {
		t.Errorf("History.MaxEntries = %d, want 42", loaded.History.MaxEntries)
	}
}

// TestConfig_LoadFromPath tests loading and validating an explicit file.
func TestConfig_LoadFromPath(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.toml")
	if err := os.WriteFile(good, []byte("default_model = \"qwen3\"\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := LoadFromPath(good)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.DefaultModel != "qwen3" {
		t.Errorf("DefaultModel = %s, want qwen3", cfg.DefaultModel)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[ui]\ntheme = \"neon\"\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadFromPath(bad); err == nil {
		t.Error("LoadFromPath() with invalid theme should return error")
	}
}
