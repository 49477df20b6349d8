// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// TOML definition loader: user-supplied model templates from disk.
package template

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/promptforge/internal/highlight"
)

// definitionFile is the on-disk TOML shape of a model definition.
//
//	id = "llama3-custom"
//	display_name = "Llama 3 Custom"
//	bos_token = "<|begin_of_text|>"
//
//	[program.turns.user]
//	open = "<|start_header_id|>user<|end_header_id|>\n\n"
//	close = "<|eot_id|>"
//
//	[[patterns]]
//	pattern = '<\|eot_id\|>'
//	class = "bos_eos"
type definitionFile struct {
	ID             string           `toml:"id"`
	DisplayName    string           `toml:"display_name"`
	TokenizerID    string           `toml:"tokenizer_id"`
	BOSToken       string           `toml:"bos_token"`
	EOSToken       string           `toml:"eos_token"`
	Program        Program          `toml:"program"`
	Patterns       []highlight.Spec `toml:"patterns"`
	DefaultOptions map[string]any   `toml:"default_options"`
}

// LoadDefinition reads and validates one TOML definition file. Pattern and
// program defects surface here, at load time, so a broken file can never
// reach the render path.
func LoadDefinition(path string) (*Definition, error) {
	var df definitionFile
	if _, err := toml.DecodeFile(path, &df); err != nil {
		return nil, fmt.Errorf("failed to decode definition %s: %w", path, err)
	}

	// Compile rejects an empty pattern list, so a definition without
	// [[patterns]] tables fails here rather than registering unhighlightable.
	patterns, err := highlight.Compile(df.Patterns)
	if err != nil {
		return nil, fmt.Errorf("definition %s: %w", path, err)
	}

	def := &Definition{
		ID:             df.ID,
		DisplayName:    df.DisplayName,
		TokenizerID:    df.TokenizerID,
		BOSToken:       df.BOSToken,
		EOSToken:       df.EOSToken,
		Program:        df.Program,
		Patterns:       patterns,
		DefaultOptions: Options(df.DefaultOptions),
		Source:         path,
	}
	if def.ID == "" {
		// Fall back to the file stem so a minimal file still registers.
		def.ID = strings.TrimSuffix(filepath.Base(path), ".toml")
	}
	if def.DisplayName == "" {
		def.DisplayName = def.ID
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("definition %s: %w", path, err)
	}
	return def, nil
}

// LoadDir loads every *.toml definition in dir, in filename order. A missing
// directory is not an error; a broken file is skipped with a warning so one
// bad edit cannot take down the rest of the catalog.
func LoadDir(dir string) ([]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read definitions dir: %w", err)
	}

	var defs []*Definition
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		def, err := LoadDefinition(filepath.Join(dir, entry.Name()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping definition: %v\n", err)
			continue
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// BuildRegistry assembles the working registry: builtins first, then the
// definitions from dir layered on top. A custom definition reusing a builtin
// id replaces it while keeping its place in listings. An empty dir argument
// yields the builtin catalog alone.
func BuildRegistry(dir string) (*Registry, error) {
	defs := Builtins()
	if dir != "" {
		custom, err := LoadDir(dir)
		if err != nil {
			return nil, err
		}
		defs = append(defs, custom...)
	}
	return NewRegistry(defs...)
}
