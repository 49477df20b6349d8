// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command: history
//
// Browses the render history database: recorded prompts from
// render --save, compose /save, and the TUI.
//
// Aliases: hist
//
// Subcommands:
//   (none), list      List recent entries, newest first
//   search QUERY      Full-text search over titles and prompts
//   show ID           Show one entry including the prompt text
//   delete ID         Delete one entry
//   clear             Delete every entry
//   prune --keep N    Keep the newest N entries, delete the rest
//   stats             Show database statistics
//
// Examples:
//   promptforge history                       List recent renders
//   promptforge history list --limit 50
//   promptforge history list --model qwen3
//   promptforge history search missing bos token
//   promptforge history show a1b2c3d4
//   promptforge history delete a1b2c3d4 --confirm
//   promptforge history prune --keep 100
//
// Flags:
//   --limit N         Maximum entries to list (default 20)
//   --model ID        Filter by model id
//   --keep N          Entries to keep when pruning
//   --confirm         Skip the confirmation prompt
//   --json            Machine-readable output

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/promptforge/internal/config"
	"github.com/jeranaias/promptforge/internal/history"
	"github.com/jeranaias/promptforge/internal/util"
)

// HandleHistory handles the history command and its subcommands.
func HandleHistory(args Args) error {
	parser := NewArgParser(args.Raw)

	cfg := config.Global()
	store, err := openHistoryStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	switch parser.Subcommand() {
	case "", "list":
		return listHistory(args, parser, store)

	case "search":
		return searchHistory(args, parser, store)

	case "show", "get":
		return showHistoryEntry(args, parser, store)

	case "delete", "rm":
		return deleteHistoryEntry(args, parser, store)

	case "clear":
		return clearHistory(args, parser, store)

	case "prune":
		return pruneHistory(args, parser, store)

	case "stats":
		return historyStats(args, store)

	default:
		return NewValidationErrorWithExample(
			"subcommand",
			parser.Subcommand(),
			"unknown history subcommand",
			"list, search, show, delete, clear, prune, stats",
		)
	}
}

// =============================================================================
// LIST / SEARCH
// =============================================================================

// listHistory lists recent entries, optionally filtered by model.
func listHistory(args Args, parser *ArgParser, store *history.Store) error {
	limit := parser.FlagIntOrDefault("limit", 20)

	modelID := parser.Flag("model")
	if modelID == "" {
		modelID = args.Model
	}

	var entries []history.Entry
	var err error
	if modelID != "" {
		entries, err = store.ListByModel(modelID, limit)
	} else {
		entries, err = store.List(limit)
	}
	if err != nil {
		return WrapError(err, "listing history")
	}

	if args.JSON {
		NewJSONResponse("history", historyListData(entries, false)).Print()
		return nil
	}

	return printHistoryTable(entries, "Render History")
}

// searchHistory runs a full-text search over titles and prompt text.
func searchHistory(args Args, parser *ArgParser, store *history.Store) error {
	query := JoinPositionalArgs(parser, 1)
	if query == "" {
		return ErrMissingArgument("query", "promptforge history search missing bos token")
	}

	limit := parser.FlagIntOrDefault("limit", 20)

	entries, err := store.Search(query, limit)
	if err != nil {
		return WrapError(err, "searching history")
	}

	if args.JSON {
		NewJSONResponse("history", historyListData(entries, false)).Print()
		return nil
	}

	return printHistoryTable(entries, fmt.Sprintf("Search Results for %q", query))
}

// printHistoryTable prints entries in human-readable format.
func printHistoryTable(entries []history.Entry, title string) error {
	if len(entries) == 0 {
		fmt.Println()
		fmt.Println("No history entries found.")
		fmt.Println()
		fmt.Println("Entries are recorded by 'promptforge render --save' and /save in compose.")
		fmt.Println()
		return nil
	}

	fmt.Println()
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", 78))
	fmt.Println()

	// Table header
	fmt.Printf("%-10s %-14s %-16s %-10s %-5s %-7s %s\n",
		"ID", "Age", "Model", "State", "Msgs", "Tokens", "Title")
	fmt.Println(strings.Repeat("-", 78))

	for _, e := range entries {
		// UNICODE: Rune-aware truncation preserves multi-byte characters
		modelID := util.TruncateRunes(e.ModelID, 14)
		entryTitle := util.TruncateRunes(e.Title, 24)

		fmt.Printf("%-10s %-14s %-16s %-10s %-5d %-7d %s\n",
			shortUUID(e.UUID),
			formatRelativeTime(e.CreatedAt),
			modelID,
			e.State,
			e.MessageCount,
			e.TokenCount,
			entryTitle,
		)
	}

	fmt.Println()
	fmt.Printf("Total: %d entr%s\n", len(entries), pluralY(len(entries)))
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  promptforge history show <id>              View entry and prompt text")
	fmt.Println("  promptforge export --history <id>          Export the prompt to a file")
	fmt.Println("  promptforge history delete <id> --confirm  Delete the entry")
	fmt.Println()

	return nil
}

// =============================================================================
// SHOW
// =============================================================================

// showHistoryEntry prints one entry with its prompt text.
func showHistoryEntry(args Args, parser *ArgParser, store *history.Store) error {
	id := parser.Positional(1)
	if id == "" {
		return ErrMissingArgument("id", "promptforge history show a1b2c3d4")
	}

	entry, err := resolveHistoryEntry(store, id)
	if err != nil {
		return err
	}

	if args.JSON {
		NewJSONResponse("history", historyEntryData(entry, true)).Print()
		return nil
	}

	fmt.Println()
	fmt.Println("History Entry")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()
	fmt.Printf("  %s %s\n", RenderLabel("ID:"), entry.UUID)
	fmt.Printf("  %s %s (%s)\n", RenderLabel("Created:"), entry.CreatedAt.Format(time.RFC3339), formatRelativeTime(entry.CreatedAt))
	fmt.Printf("  %s %s (%s)\n", RenderLabel("Model:"), entry.ModelID, entry.ModelName)
	fmt.Printf("  %s %s\n", RenderLabel("Title:"), entry.Title)
	fmt.Printf("  %s %s\n", RenderLabel("State:"), entry.State)
	fmt.Printf("  %s %d\n", RenderLabel("Messages:"), entry.MessageCount)
	fmt.Printf("  %s %s (~%d tokens)\n", RenderLabel("Size:"), formatBytes(int64(entry.ByteCount)), entry.TokenCount)
	fmt.Println()
	fmt.Println("Prompt")
	fmt.Println(strings.Repeat("-", 60))
	fmt.Print(entry.Prompt)
	if !strings.HasSuffix(entry.Prompt, "\n") {
		fmt.Println()
	}
	fmt.Println(strings.Repeat("-", 60))
	fmt.Println()

	return nil
}

// =============================================================================
// DELETE / CLEAR / PRUNE
// =============================================================================

// deleteHistoryEntry deletes one entry after confirmation.
func deleteHistoryEntry(args Args, parser *ArgParser, store *history.Store) error {
	id := parser.Positional(1)
	if id == "" {
		return ErrMissingArgument("id", "promptforge history delete a1b2c3d4 --confirm")
	}

	entry, err := resolveHistoryEntry(store, id)
	if err != nil {
		return err
	}

	details := map[string]string{
		"Entry":   entry.UUID,
		"Model":   entry.ModelID,
		"Title":   entry.Title,
		"Created": entry.CreatedAt.Format(time.RFC3339),
	}
	confirmed, err := RequireConfirmationWithDetails(
		parser.BoolFlag("confirm"), "delete this history entry", details, args.JSON)
	if err != nil {
		return err
	}
	if !confirmed {
		ShowCancellationMessage()
		return nil
	}

	if err := store.Delete(entry.UUID); err != nil {
		return WrapError(err, "deleting history entry")
	}

	if args.JSON {
		NewJSONResponse("history", struct {
			Deleted string `json:"deleted"`
		}{entry.UUID}).Print()
		return nil
	}

	fmt.Printf("%s Deleted history entry %s\n", RenderStatus("ok"), shortUUID(entry.UUID))
	return nil
}

// clearHistory deletes every entry after confirmation.
func clearHistory(args Args, parser *ArgParser, store *history.Store) error {
	count, err := store.Count()
	if err != nil {
		return WrapError(err, "counting history entries")
	}

	if count == 0 {
		fmt.Println()
		fmt.Println("No history entries to clear.")
		fmt.Println()
		return nil
	}

	confirmed, err := RequireConfirmation(
		parser.BoolFlag("confirm"),
		fmt.Sprintf("clear %d history entr%s", count, pluralY(count)),
		args.JSON)
	if err != nil {
		return err
	}
	if !confirmed {
		ShowCancellationMessage()
		return nil
	}

	if err := store.Clear(); err != nil {
		return WrapError(err, "clearing history")
	}

	if args.JSON {
		NewJSONResponse("history", struct {
			Cleared int `json:"cleared"`
		}{count}).Print()
		return nil
	}

	fmt.Printf("%s Cleared %d history entr%s\n", RenderStatus("ok"), count, pluralY(count))
	return nil
}

// pruneHistory keeps the newest N entries and deletes the rest.
func pruneHistory(args Args, parser *ArgParser, store *history.Store) error {
	keep, err := ParseIntWithValidation(parser.Flag("keep"), "--keep")
	if err != nil {
		return NewValidationErrorWithExample(
			"keep",
			parser.Flag("keep"),
			err.Error(),
			"promptforge history prune --keep 100",
		)
	}

	removed, err := store.Prune(keep)
	if err != nil {
		return WrapError(err, "pruning history")
	}

	if args.JSON {
		NewJSONResponse("history", struct {
			Removed int `json:"removed"`
			Kept    int `json:"kept"`
		}{removed, keep}).Print()
		return nil
	}

	if removed == 0 {
		fmt.Printf("%s Nothing to prune (%d or fewer entries)\n", RenderStatus("ok"), keep)
		return nil
	}
	fmt.Printf("%s Pruned %d entr%s, kept the newest %d\n", RenderStatus("ok"), removed, pluralY(removed), keep)
	return nil
}

// =============================================================================
// STATS
// =============================================================================

// historyStats shows database statistics.
func historyStats(args Args, store *history.Store) error {
	stats, err := store.Stats()
	if err != nil {
		return WrapError(err, "reading history stats")
	}

	if args.JSON {
		NewJSONResponse("history", HistoryStatsData{
			EntryCount:   stats.EntryCount,
			DatabaseSize: stats.DatabaseSize,
			Path:         stats.Path,
		}).Print()
		return nil
	}

	fmt.Println()
	fmt.Println("History Statistics")
	fmt.Println(strings.Repeat("=", 40))
	fmt.Println()
	fmt.Printf("  Entries:  %d\n", stats.EntryCount)
	fmt.Printf("  Size:     %s\n", formatBytes(stats.DatabaseSize))
	fmt.Printf("  Location: %s\n", stats.Path)
	fmt.Println()

	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// resolveHistoryEntry looks up an entry by full UUID or unique prefix.
func resolveHistoryEntry(store *history.Store, id string) (*history.Entry, error) {
	// Exact match first
	if entry, err := store.Get(id); err == nil {
		return entry, nil
	}

	// Prefix match over all entries
	entries, err := store.List(0)
	if err != nil {
		return nil, WrapError(err, "listing history")
	}

	var matches []history.Entry
	for _, e := range entries {
		if strings.HasPrefix(e.UUID, id) {
			matches = append(matches, e)
		}
	}

	switch len(matches) {
	case 0:
		return nil, ErrNotFound("history entry", id)
	case 1:
		entry := matches[0]
		return &entry, nil
	default:
		return nil, NewValidationError(
			"id",
			id,
			fmt.Sprintf("prefix matches %d entries, use more characters", len(matches)),
		)
	}
}

// historyListData converts entries to the JSON list shape.
func historyListData(entries []history.Entry, includePrompt bool) HistoryListData {
	data := HistoryListData{
		Entries: make([]HistoryEntryData, 0, len(entries)),
		Count:   len(entries),
	}
	for i := range entries {
		data.Entries = append(data.Entries, historyEntryData(&entries[i], includePrompt))
	}
	return data
}

// historyEntryData converts one entry to the JSON shape.
func historyEntryData(e *history.Entry, includePrompt bool) HistoryEntryData {
	data := HistoryEntryData{
		UUID:         e.UUID,
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		ModelID:      e.ModelID,
		ModelName:    e.ModelName,
		Title:        e.Title,
		State:        e.State,
		MessageCount: e.MessageCount,
		ByteCount:    e.ByteCount,
		TokenCount:   e.TokenCount,
	}
	if includePrompt {
		data.Prompt = e.Prompt
	}
	return data
}

// shortUUID returns the leading segment of a UUID for display.
func shortUUID(id string) string {
	return util.SafeSubstring(id, 0, 8)
}

// pluralY picks the right suffix for "entry"/"entries".
func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
