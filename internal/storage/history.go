// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/coze-chat/coze-tui/internal/history"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrEntryNotFound is returned when an entry doesn't exist.
// Use errors.Is(err, ErrEntryNotFound) to check for this error.
var ErrEntryNotFound = &HistoryError{Message: "history entry not found"}

// HistoryError represents a history-store error.
type HistoryError struct {
	Message string
}

func (e *HistoryError) Error() string {
	return e.Message
}

// Is implements errors.Is support.
func (e *HistoryError) Is(target error) bool {
	t, ok := target.(*HistoryError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// HISTORY STORE
// =============================================================================

// Entry is a persisted prompt/reply pair with its identity and timing.
type Entry struct {
	ID        string
	Prompt    string
	Reply     string
	Mode      string
	CreatedAt time.Time
}

// HistoryStore persists prompt/reply pairs in a local SQLite database.
type HistoryStore struct {
	db         *sql.DB
	maxEntries int
}

// DefaultPath returns the default history database location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".coze", "history.db"), nil
}

// Open opens (creating if needed) the history database at path. maxEntries
// caps stored entries; 0 means unlimited.
func Open(path string, maxEntries int) (*HistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

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

	store := &HistoryStore{db: db, maxEntries: maxEntries}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// createSchema creates the entries table if it does not exist.
func (s *HistoryStore) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id         TEXT PRIMARY KEY,
		prompt     TEXT NOT NULL,
		reply      TEXT NOT NULL DEFAULT '',
		mode       TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entries_created ON entries(created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// =============================================================================
// WRITE OPERATIONS
// =============================================================================

// Append stores a new prompt (with an empty reply) and returns the entry ID.
// The reply is filled in by SetReply once generation completes.
func (s *HistoryStore) Append(prompt, mode string) (string, error) {
	id := uuid.NewString()

	_, err := s.db.Exec(
		"INSERT INTO entries (id, prompt, reply, mode, created_at) VALUES (?, ?, '', ?, ?)",
		id, prompt, mode, time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert entry: %w", err)
	}

	if s.maxEntries > 0 {
		if err := s.enforceLimit(); err != nil {
			return "", fmt.Errorf("failed to trim history: %w", err)
		}
	}

	return id, nil
}

// SetReply records the completed reply for an entry.
func (s *HistoryStore) SetReply(id, reply string) error {
	res, err := s.db.Exec("UPDATE entries SET reply = ? WHERE id = ?", reply, id)
	if err != nil {
		return fmt.Errorf("failed to update reply: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// Delete removes one entry by ID.
func (s *HistoryStore) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// Clear removes all stored entries.
func (s *HistoryStore) Clear() error {
	_, err := s.db.Exec("DELETE FROM entries")
	return err
}

// enforceLimit deletes the oldest entries beyond the configured cap.
func (s *HistoryStore) enforceLimit() error {
	_, err := s.db.Exec(`
		DELETE FROM entries WHERE id IN (
			SELECT id FROM entries
			ORDER BY created_at DESC, rowid DESC
			LIMIT -1 OFFSET ?
		)`, s.maxEntries)
	return err
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// List returns all entries, oldest first. That ordering matches what the
// history navigator expects: index 0 is the earliest prompt.
func (s *HistoryStore) List() ([]Entry, error) {
	rows, err := s.db.Query(
		"SELECT id, prompt, reply, mode, created_at FROM entries ORDER BY created_at ASC, rowid ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.Prompt, &e.Reply, &e.Mode, &created); err != nil {
			return nil, err
		}
		e.CreatedAt = time.Unix(created, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// NavigatorEntries returns the stored pairs in the shape the history
// navigator consumes, oldest first.
func (s *HistoryStore) NavigatorEntries() ([]history.Entry, error) {
	stored, err := s.List()
	if err != nil {
		return nil, err
	}
	entries := make([]history.Entry, len(stored))
	for i, e := range stored {
		entries[i] = history.Entry{Prompt: e.Prompt, Reply: e.Reply}
	}
	return entries, nil
}

// Count returns the number of stored entries.
func (s *HistoryStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&n)
	return n, err
}

// Close releases the database handle.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}
