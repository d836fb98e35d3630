// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/magchat/magchat/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrSessionNotFound is returned when a session ID does not exist.
	ErrSessionNotFound = errors.New("session not found")
)

// =============================================================================
// RECORD TYPES
// =============================================================================

// SessionRecord is the serialized form of a chat session.
type SessionRecord struct {
	ID          string
	Title       string
	Tickers     []string
	MultiSelect bool
	Options     model.RequestOptions
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Messages    []model.Message
}

// SessionMeta is the listing view of a stored session.
type SessionMeta struct {
	ID           string
	Title        string
	Tickers      []string
	MessageCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// =============================================================================
// STORE
// =============================================================================

// Store is a SQLite-backed session store.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the default database location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".magchat", "sessions.db"), nil
}

// Open opens (creating if necessary) the session database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
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
			return nil, fmt.Errorf("failed to set %s: %w", pragma, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
CREATE TABLE IF NOT EXISTS sessions (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	tickers      TEXT NOT NULL,
	multi_select INTEGER NOT NULL DEFAULT 0,
	options      TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id              TEXT NOT NULL,
	session_id      TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	seq             INTEGER NOT NULL,
	role            TEXT NOT NULL,
	kind            TEXT NOT NULL,
	content         TEXT NOT NULL,
	citations       TEXT,
	flags_summary   TEXT,
	cache_hit       INTEGER NOT NULL DEFAULT 0,
	is_compare      INTEGER NOT NULL DEFAULT 0,
	compare_tickers TEXT,
	timestamp       TEXT NOT NULL,
	PRIMARY KEY (session_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, seq);
CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at DESC);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE
// =============================================================================

// Save upserts a session and rewrites its message log. Messages are
// append-only in memory, so rewriting keeps the database an exact mirror
// without tracking which suffix is new.
func (s *Store) Save(rec *SessionRecord) error {
	if rec.ID == "" {
		return errors.New("session record has no ID")
	}

	optionsJSON, err := json.Marshal(rec.Options)
	if err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
INSERT INTO sessions (id, title, tickers, multi_select, options, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	title = excluded.title,
	tickers = excluded.tickers,
	multi_select = excluded.multi_select,
	options = excluded.options,
	updated_at = excluded.updated_at`,
		rec.ID, rec.Title, strings.Join(rec.Tickers, ","), boolToInt(rec.MultiSelect),
		string(optionsJSON), rec.CreatedAt.Format(time.RFC3339Nano), rec.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM messages WHERE session_id = ?`, rec.ID); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}

	stmt, err := tx.Prepare(`
INSERT INTO messages (id, session_id, seq, role, kind, content, citations, flags_summary,
	cache_hit, is_compare, compare_tickers, timestamp)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, msg := range rec.Messages {
		var citationsJSON sql.NullString
		if len(msg.Citations) > 0 {
			data, err := json.Marshal(msg.Citations)
			if err != nil {
				return fmt.Errorf("failed to encode citations: %w", err)
			}
			citationsJSON = sql.NullString{String: string(data), Valid: true}
		}

		_, err = stmt.Exec(
			msg.ID, rec.ID, i, string(msg.Role), string(msg.Kind), msg.Content,
			citationsJSON, msg.FlagsSummary, boolToInt(msg.CacheHit),
			boolToInt(msg.IsCompare), strings.Join(msg.CompareTickers, ","),
			msg.Timestamp.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("failed to insert message %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// =============================================================================
// LOAD
// =============================================================================

// Load retrieves a full session by ID.
func (s *Store) Load(id string) (*SessionRecord, error) {
	row := s.db.QueryRow(`
SELECT id, title, tickers, multi_select, options, created_at, updated_at
FROM sessions WHERE id = ?`, id)

	var rec SessionRecord
	var tickers, optionsJSON, createdAt, updatedAt string
	var multiSelect int
	err := row.Scan(&rec.ID, &rec.Title, &tickers, &multiSelect, &optionsJSON, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	rec.Tickers = splitNonEmpty(tickers)
	rec.MultiSelect = multiSelect != 0
	if err := json.Unmarshal([]byte(optionsJSON), &rec.Options); err != nil {
		return nil, fmt.Errorf("failed to decode options: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)

	rows, err := s.db.Query(`
SELECT id, role, kind, content, citations, flags_summary, cache_hit, is_compare, compare_tickers, timestamp
FROM messages WHERE session_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var msg model.Message
		var role, kind, timestamp, compareTickers string
		var citations sql.NullString
		var cacheHit, isCompare int
		err := rows.Scan(&msg.ID, &role, &kind, &msg.Content, &citations,
			&msg.FlagsSummary, &cacheHit, &isCompare, &compareTickers, &timestamp)
		if err != nil {
			return nil, err
		}

		msg.Role = model.Role(role)
		msg.Kind = model.Kind(kind)
		msg.CacheHit = cacheHit != 0
		msg.IsCompare = isCompare != 0
		msg.CompareTickers = splitNonEmpty(compareTickers)
		msg.Timestamp, _ = time.Parse(time.RFC3339Nano, timestamp)
		if citations.Valid {
			if err := json.Unmarshal([]byte(citations.String), &msg.Citations); err != nil {
				return nil, fmt.Errorf("failed to decode citations: %w", err)
			}
		}
		rec.Messages = append(rec.Messages, msg)
	}
	return &rec, rows.Err()
}

// =============================================================================
// LIST / SEARCH
// =============================================================================

// List returns metadata for all sessions, most recently updated first.
func (s *Store) List() ([]SessionMeta, error) {
	rows, err := s.db.Query(`
SELECT s.id, s.title, s.tickers, s.created_at, s.updated_at,
	(SELECT COUNT(*) FROM messages m WHERE m.session_id = s.id)
FROM sessions s ORDER BY s.updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMetas(rows)
}

// Search returns sessions whose title or message content contains the query,
// case-insensitive, most recently updated first.
func (s *Store) Search(query string) ([]SessionMeta, error) {
	if strings.TrimSpace(query) == "" {
		return s.List()
	}
	pattern := "%" + strings.ToLower(query) + "%"

	rows, err := s.db.Query(`
SELECT s.id, s.title, s.tickers, s.created_at, s.updated_at,
	(SELECT COUNT(*) FROM messages m WHERE m.session_id = s.id)
FROM sessions s
WHERE LOWER(s.title) LIKE ?
   OR EXISTS (SELECT 1 FROM messages m WHERE m.session_id = s.id AND LOWER(m.content) LIKE ?)
ORDER BY s.updated_at DESC`, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMetas(rows)
}

func scanMetas(rows *sql.Rows) ([]SessionMeta, error) {
	var metas []SessionMeta
	for rows.Next() {
		var meta SessionMeta
		var tickers, createdAt, updatedAt string
		if err := rows.Scan(&meta.ID, &meta.Title, &tickers, &createdAt, &updatedAt, &meta.MessageCount); err != nil {
			return nil, err
		}
		meta.Tickers = splitNonEmpty(tickers)
		meta.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		meta.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

// =============================================================================
// DELETE
// =============================================================================

// Delete removes a session and its messages.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Clear removes all sessions.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM sessions`)
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
