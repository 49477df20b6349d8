// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package template

import "testing"

func TestOptions_MergeLayersWithoutMutation(t *testing.T) {
	base := Options{OptEnableThinking: true, OptTools: "sig"}
	over := Options{OptEnableThinking: false, OptAddGenerationPrompt: true}

	merged := base.Merge(over)

	if merged.Bool(OptEnableThinking) {
		t.Errorf("override value lost: enable_thinking should be false")
	}
	if !merged.Bool(OptAddGenerationPrompt) {
		t.Errorf("new key lost: add_generation_prompt should be true")
	}
	if merged.String(OptTools) != "sig" {
		t.Errorf("base-only key lost: tools = %q", merged.String(OptTools))
	}

	if !base.Bool(OptEnableThinking) {
		t.Errorf("Merge mutated the receiver")
	}
	if over.String(OptTools) != "" {
		t.Errorf("Merge mutated the argument")
	}
}

func TestOptions_NilReceiverIsSafe(t *testing.T) {
	var o Options

	if o.Bool(OptEnableThinking) {
		t.Errorf("nil options should read false")
	}
	if o.String(OptTools) != "" {
		t.Errorf("nil options should read empty")
	}
	merged := o.Merge(Options{OptEnableThinking: true})
	if !merged.Bool(OptEnableThinking) {
		t.Errorf("merging onto nil options lost the value")
	}
}

func TestOptions_TypeMismatchesReadAsZero(t *testing.T) {
	o := Options{
		OptEnableThinking: "yes", // wrong type on purpose
		OptTools:          42,
	}

	if o.Bool(OptEnableThinking) {
		t.Errorf("non-bool value should read as false")
	}
	if o.String(OptTools) != "" {
		t.Errorf("non-string value should read as empty")
	}
}
