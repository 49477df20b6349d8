// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package builder provides the main prompt workbench view for the promptforge TUI.
//
// This file contains tests for the key map and its help output.
package builder

import (
	"strings"
	"testing"
)

func TestDefaultKeyMap_HelpGroups(t *testing.T) {
	keys := DefaultKeyMap()

	groups := keys.FullHelp()
	if len(groups) != len(helpGroupTitles) {
		t.Fatalf("FullHelp has %d groups, want %d titled groups", len(groups), len(helpGroupTitles))
	}
	for i, group := range groups {
		if len(group) == 0 {
			t.Errorf("Help group %q is empty", helpGroupTitles[i])
		}
	}

	if len(keys.ShortHelp()) == 0 {
		t.Error("ShortHelp should list the core bindings")
	}
}

func TestDefaultKeyMap_HelpLabelsAreASCII(t *testing.T) {
	keys := DefaultKeyMap()

	for _, group := range keys.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			for _, r := range h.Key + h.Desc {
				if r > 127 {
					t.Errorf("Help label %q %q contains a non-ASCII rune", h.Key, h.Desc)
				}
			}
		}
	}
}

func TestKeysMarkdown_ListsEveryGroup(t *testing.T) {
	keys := DefaultKeyMap()
	md := keys.KeysMarkdown()

	if !strings.Contains(md, "# Keyboard") {
		t.Error("Markdown should open with the keyboard heading")
	}
	for _, title := range helpGroupTitles {
		if !strings.Contains(md, "## "+title) {
			t.Errorf("Markdown is missing the %q group", title)
		}
	}
	for _, want := range []string{"`Tab`", "`?`", "`C-y`"} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown is missing the %s binding", want)
		}
	}
}
