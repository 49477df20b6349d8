// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history provides a persistent store of rendered prompts.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotFound      = errors.New("history entry not found")
	ErrDatabaseError = errors.New("database error")
	ErrInvalidPath   = errors.New("invalid path")
)

// =============================================================================
// ENTRY
// =============================================================================

// Entry is one recorded render.
type Entry struct {
	UUID         string
	CreatedAt    time.Time
	ModelID      string
	ModelName    string
	Title        string
	State        string
	MessageCount int
	ByteCount    int
	TokenCount   int
	Prompt       string
}

// =============================================================================
// STORE
// =============================================================================

// Store records rendered prompts in a SQLite database.
type Store struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string

	// MaxEntries bounds the table size; Record prunes the oldest rows past
	// this count. Zero means unlimited.
	maxEntries int
}

// Config holds store configuration.
type Config struct {
	// Path is where to store the SQLite database
	Path string

	// MaxEntries bounds the number of rows kept (0 = unlimited)
	MaxEntries int
}

// Open opens (creating if needed) the history database at config.Path.
func Open(config *Config) (*Store, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}
	if config.Path == "" {
		return nil, fmt.Errorf("%w: empty database path", ErrInvalidPath)
	}

	// Create database directory if needed
	dbDir := filepath.Dir(config.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for SQLite
	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Configure SQLite for better performance
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{
		db:         db,
		path:       config.Path,
		maxEntries: config.MaxEntries,
	}

	// Initialize schema
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// initSchema creates the database schema.
func (s *Store) initSchema() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return err
	}
	_, err := s.db.Exec(InitMetadata)
	return err
}

// Close closes the store and releases resources.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// =============================================================================
// RECORDING
// =============================================================================

// Record inserts an entry and prunes the oldest rows past MaxEntries.
// A missing UUID or CreatedAt is filled in. Title and prompt text are
// NFC-normalized so search matches are insensitive to the Unicode
// composition of the input.
func (s *Store) Record(e *Entry) error {
	if e == nil {
		return errors.New("entry cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e.UUID == "" {
		e.UUID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	title := norm.NFC.String(e.Title)
	prompt := norm.NFC.String(e.Prompt)

	_, err := s.db.Exec(`
		INSERT INTO entries (uuid, created_at, model_id, model_name, title, state, message_count, byte_count, token_count, prompt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.UUID, e.CreatedAt.Unix(), e.ModelID, e.ModelName, title, e.State, e.MessageCount, e.ByteCount, e.TokenCount, prompt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	if s.maxEntries > 0 {
		if err := s.pruneLocked(s.maxEntries); err != nil {
			return err
		}
	}

	return nil
}

// Get returns the entry with the given UUID.
func (s *Store) Get(id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT uuid, created_at, model_id, model_name, title, state, message_count, byte_count, token_count, prompt
		FROM entries
		WHERE uuid = ?
	`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return e, nil
}

// Delete removes the entry with the given UUID.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec("DELETE FROM entries WHERE uuid = ?", id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}

// Clear removes every entry.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM entries"); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// Prune deletes the oldest rows past keep and reports how many were removed.
func (s *Store) Prune(keep int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, err := s.countLocked()
	if err != nil {
		return 0, err
	}
	if err := s.pruneLocked(keep); err != nil {
		return 0, err
	}
	after, err := s.countLocked()
	if err != nil {
		return 0, err
	}
	return before - after, nil
}

// pruneLocked deletes all but the newest keep rows. Caller holds s.mu.
func (s *Store) pruneLocked(keep int) error {
	if keep <= 0 {
		return nil
	}
	_, err := s.db.Exec(`
		DELETE FROM entries
		WHERE id NOT IN (
			SELECT id FROM entries
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// Count returns the number of stored entries.
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countLocked()
}

func (s *Store) countLocked() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return n, nil
}

// =============================================================================
// STATISTICS
// =============================================================================

// Stats summarizes the store.
type Stats struct {
	EntryCount   int
	DatabaseSize int64
	Path         string
}

// Stats returns current store statistics.
func (s *Store) Stats() (Stats, error) {
	count, err := s.Count()
	if err != nil {
		return Stats{}, err
	}

	var dbSize int64
	if info, err := os.Stat(s.path); err == nil {
		dbSize = info.Size()
	}

	return Stats{
		EntryCount:   count,
		DatabaseSize: dbSize,
		Path:         s.path,
	}, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanEntry.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanEntry reads one entry row in SELECT column order.
func scanEntry(row scanner) (*Entry, error) {
	var e Entry
	var createdAt int64
	var modelName, title sql.NullString

	err := row.Scan(
		&e.UUID,
		&createdAt,
		&e.ModelID,
		&modelName,
		&title,
		&e.State,
		&e.MessageCount,
		&e.ByteCount,
		&e.TokenCount,
		&e.Prompt,
	)
	if err != nil {
		return nil, err
	}

	e.CreatedAt = time.Unix(createdAt, 0)
	if modelName.Valid {
		e.ModelName = modelName.String
	}
	if title.Valid {
		e.Title = title.String
	}
	return &e, nil
}
