// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T, maxEntries int) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(&Config{Path: path, MaxEntries: maxEntries})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testEntry(title, prompt string, at time.Time) *Entry {
	return &Entry{
		CreatedAt:    at,
		ModelID:      "qwen3",
		ModelName:    "Qwen3",
		Title:        title,
		State:        "generated",
		MessageCount: 2,
		ByteCount:    len(prompt),
		TokenCount:   (len(prompt) + 3) / 4,
		Prompt:       prompt,
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open(&Config{}); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Open() with empty path error = %v, want ErrInvalidPath", err)
	}
	if _, err := Open(nil); err == nil {
		t.Error("Open(nil) should return error")
	}
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "history.db")
	store, err := Open(&Config{Path: path})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	if store.Path() != path {
		t.Errorf("Path() = %s, want %s", store.Path(), path)
	}
}

func TestStore_RecordAndGet(t *testing.T) {
	store := newTestStore(t, 0)

	e := testEntry("sky question", "<|im_start|>user\nWhy is the sky blue?<|im_end|>\n", time.Time{})
	if err := store.Record(e); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	// Record fills in identity fields
	if e.UUID == "" {
		t.Fatal("Record() should assign a UUID")
	}
	if e.CreatedAt.IsZero() {
		t.Fatal("Record() should assign CreatedAt")
	}

	got, err := store.Get(e.UUID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "sky question" {
		t.Errorf("Title = %q, want %q", got.Title, "sky question")
	}
	if got.ModelID != "qwen3" || got.ModelName != "Qwen3" {
		t.Errorf("model = %s/%s, want qwen3/Qwen3", got.ModelID, got.ModelName)
	}
	if got.State != "generated" {
		t.Errorf("State = %q, want generated", got.State)
	}
	if got.Prompt != e.Prompt {
		t.Errorf("Prompt round trip mismatch:\ngot  %q\nwant %q", got.Prompt, e.Prompt)
	}
	if got.MessageCount != 2 || got.ByteCount != e.ByteCount || got.TokenCount != e.TokenCount {
		t.Errorf("counters mismatch: %+v", got)
	}
}

func TestStore_GetUnknown(t *testing.T) {
	store := newTestStore(t, 0)

	if _, err := store.Get("no-such-uuid"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t, 0)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		e := testEntry(title, "prompt "+title, base.Add(time.Duration(i)*time.Minute))
		if err := store.Record(e); err != nil {
			t.Fatalf("Record(%s) error = %v", title, err)
		}
	}

	entries, err := store.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("List() returned %d entries, want 3", len(entries))
	}
	want := []string{"third", "second", "first"}
	for i, e := range entries {
		if e.Title != want[i] {
			t.Errorf("entries[%d].Title = %q, want %q", i, e.Title, want[i])
		}
	}

	limited, err := store.List(2)
	if err != nil {
		t.Fatalf("List(2) error = %v", err)
	}
	if len(limited) != 2 || limited[0].Title != "third" {
		t.Errorf("List(2) = %v, want newest two", limited)
	}
}

func TestStore_ListByModel(t *testing.T) {
	store := newTestStore(t, 0)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := testEntry("a", "prompt a", base)
	a.ModelID = "qwen3"
	b := testEntry("b", "prompt b", base.Add(time.Minute))
	b.ModelID = "glm-4.5"
	for _, e := range []*Entry{a, b} {
		if err := store.Record(e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	entries, err := store.ListByModel("glm-4.5", 0)
	if err != nil {
		t.Fatalf("ListByModel() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "b" {
		t.Errorf("ListByModel(glm-4.5) = %v, want single entry b", entries)
	}
}

func TestStore_Search(t *testing.T) {
	store := newTestStore(t, 0)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := []*Entry{
		testEntry("sky question", "Why is the sky blue? Rayleigh scattering.", base),
		testEntry("tool demo", "Calling the search tool with arguments.", base.Add(time.Minute)),
		testEntry("greeting", "hello there", base.Add(2*time.Minute)),
	}
	for _, e := range entries {
		if err := store.Record(e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	hits, err := store.Search("rayleigh", 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 || hits[0].Title != "sky question" {
		t.Errorf("Search(rayleigh) = %v, want the sky entry", hits)
	}

	// Last term matches as a prefix
	hits, err = store.Search("scatter", 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("Search(scatter) returned %d hits, want prefix match", len(hits))
	}

	// Empty queries return nothing rather than erroring
	hits, err = store.Search("   ", 0)
	if err != nil {
		t.Fatalf("Search(blank) error = %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("Search(blank) = %v, want none", hits)
	}

	// FTS5 syntax characters are treated as literals, not operators
	if _, err := store.Search(`"hello (there*`, 0); err != nil {
		t.Errorf("Search with FTS5 metacharacters error = %v", err)
	}
}

func TestStore_SearchNormalizesUnicode(t *testing.T) {
	store := newTestStore(t, 0)

	// Stored composed, queried decomposed
	e := testEntry("café notes", "the café prompt", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	if err := store.Record(e); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	hits, err := store.Search("café", 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("Search(decomposed) returned %d hits, want 1", len(hits))
	}
}

func TestStore_RecordPrunesPastMax(t *testing.T) {
	store := newTestStore(t, 3)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		e := testEntry("entry", "prompt", base.Add(time.Duration(i)*time.Minute))
		e.Title = e.Title + string(rune('a'+i))
		if err := store.Record(e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3 after pruning", count)
	}

	entries, err := store.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if entries[0].Title != "entrye" || entries[len(entries)-1].Title != "entryc" {
		t.Errorf("pruning should keep the newest rows, got %v", entries)
	}
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t, 0)

	e := testEntry("doomed", "prompt", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	if err := store.Record(e); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if err := store.Delete(e.UUID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(e.UUID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
	if err := store.Delete(e.UUID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrNotFound", err)
	}

	// Deleted rows drop out of search results too
	hits, err := store.Search("doomed", 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("Search() after Delete = %v, want none", hits)
	}
}

func TestStore_ClearAndPrune(t *testing.T) {
	store := newTestStore(t, 0)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		if err := store.Record(testEntry("e", "p", base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	removed, err := store.Prune(2)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("Prune(2) removed %d rows, want 2", removed)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() after Clear = %d, want 0", count)
	}
}

func TestStore_Stats(t *testing.T) {
	store := newTestStore(t, 0)

	if err := store.Record(testEntry("s", "p", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.EntryCount != 1 {
		t.Errorf("EntryCount = %d, want 1", stats.EntryCount)
	}
	if stats.Path != store.Path() {
		t.Errorf("Path = %s, want %s", stats.Path, store.Path())
	}
	if stats.DatabaseSize == 0 {
		t.Error("DatabaseSize should be non-zero after a write")
	}
}
