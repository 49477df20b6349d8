// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history provides a persistent store of rendered prompts.
package history

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// LISTING
// =============================================================================

// List returns the newest entries first. A limit of 0 returns everything.
func (s *Store) List(limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT uuid, created_at, model_id, model_name, title, state, message_count, byte_count, token_count, prompt
		FROM entries
		ORDER BY created_at DESC, id DESC
	`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			continue
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// ListByModel returns the newest entries for one model id.
func (s *Store) ListByModel(modelID string, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT uuid, created_at, model_id, model_name, title, state, message_count, byte_count, token_count, prompt
		FROM entries
		WHERE model_id = ?
		ORDER BY created_at DESC, id DESC
	`
	args := []interface{}{modelID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			continue
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// =============================================================================
// FULL-TEXT SEARCH
// =============================================================================

// Search finds entries whose title or prompt matches the query using
// full-text search, best matches first. A limit of 0 returns everything.
func (s *Store) Search(query string, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ftsQuery := buildFTSQuery(query)
	if ftsQuery == "" {
		// Empty query not allowed for FTS search
		return []Entry{}, nil
	}

	sqlQuery := `
		SELECT e.uuid, e.created_at, e.model_id, e.model_name, e.title, e.state, e.message_count, e.byte_count, e.token_count, e.prompt
		FROM entries_fts fts
		JOIN entries e ON e.id = fts.rowid
		WHERE entries_fts MATCH ?
		ORDER BY fts.rank
	`
	args := []interface{}{ftsQuery}
	if limit > 0 {
		sqlQuery += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			continue
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// buildFTSQuery builds an FTS5 query from user input. Input is NFC-normalized
// to match the stored text, then quoted per-term to prevent FTS5 syntax
// injection; the final term gets a prefix match.
func buildFTSQuery(query string) string {
	query = strings.TrimSpace(norm.NFC.String(query))
	if query == "" {
		return ""
	}

	terms := strings.Fields(query)
	parts := make([]string, 0, len(terms))
	for i, term := range terms {
		term = sanitizeFTSTerm(term)
		if term == "" {
			continue
		}
		if i == len(terms)-1 {
			parts = append(parts, "\""+term+"\"*")
		} else {
			parts = append(parts, "\""+term+"\"")
		}
	}
	return strings.Join(parts, " ")
}

// sanitizeFTSTerm strips the FTS5 string delimiter from a term.
func sanitizeFTSTerm(term string) string {
	return strings.ReplaceAll(term, "\"", "")
}
