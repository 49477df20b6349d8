// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the promptforge TUI.
package components

import "testing"

func TestToStr(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{7, "7"},
		{42, "42"},
		{-3, "-3"},
		{1000, "1000"},
	}

	for _, c := range cases {
		if got := toStr(c.in); got != c.want {
			t.Errorf("toStr(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFmtNumber(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}

	for _, c := range cases {
		if got := fmtNumber(c.in); got != c.want {
			t.Errorf("fmtNumber(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFmtPercent(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.0%"},
		{30.15, "30.1%"},
		{100, "100.0%"},
	}

	for _, c := range cases {
		if got := fmtPercent(c.in); got != c.want {
			t.Errorf("fmtPercent(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"truncated", "hello world", 8, "hello..."},
		{"tiny max", "hello", 3, "hel"},
		{"multibyte", "héllo wörld", 8, "héllo..."},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := truncateRunes(c.in, c.max); got != c.want {
				t.Errorf("truncateRunes(%q, %d) = %q, want %q", c.in, c.max, got, c.want)
			}
		})
	}
}

func TestRuneLen(t *testing.T) {
	if got := runeLen("abc"); got != 3 {
		t.Errorf("runeLen(abc) = %d, want 3", got)
	}
	if got := runeLen("héllo"); got != 5 {
		t.Errorf("runeLen(héllo) = %d, want 5", got)
	}
	if got := runeLen(""); got != 0 {
		t.Errorf("runeLen(empty) = %d, want 0", got)
	}
}

func TestMinInt(t *testing.T) {
	if got := minInt(3, 5); got != 3 {
		t.Errorf("minInt(3, 5) = %d", got)
	}
	if got := minInt(5, 3); got != 3 {
		t.Errorf("minInt(5, 3) = %d", got)
	}
}
