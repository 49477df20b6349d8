// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history provides a persistent store of rendered prompts.
//
// Every render worth keeping (saves, exports, explicit snapshots) can be
// recorded as an Entry in a SQLite database. Entries carry the model id,
// the session state at the time, size counters, and the full prompt text.
// An FTS5 index over titles and prompt text powers the search command.
//
// # Key Types
//
//   - Store: SQLite-backed entry store with a bounded row count
//   - Entry: one recorded render
//   - Config: database path and retention bound
//
// # Unicode
//
// Titles, prompt text, and search input are NFC-normalized so that lookups
// do not depend on how the input was composed.
//
// # Usage
//
//	store, err := history.Open(&history.Config{Path: path, MaxEntries: 500})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	store.Record(&history.Entry{ModelID: "qwen3", Title: "greeting", Prompt: text})
//	hits, _ := store.Search("greeting", 10)
package history
