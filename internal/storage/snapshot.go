// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the conversation state.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/morganforge/aiconsole/internal/state"
)

// SnapshotKey is the fixed durable key the full conversation state lives
// under. Bump the suffix when the serialization format changes shape.
const SnapshotKey = "conversation_state_v1"

// ErrCorruptSnapshot wraps a snapshot that exists but cannot be decoded.
// Callers recover by bootstrapping fresh state; the snapshot is overwritten
// on the next committed transition.
var ErrCorruptSnapshot = errors.New("corrupt state snapshot")

// =============================================================================
// SNAPSHOT STORE
// =============================================================================

// SnapshotStore reads and writes the conversation state snapshot.
type SnapshotStore struct {
	db *sql.DB
}

// Open opens (creating if necessary) the snapshot database at path.
func Open(path string) (*SnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	// Single writer, single connection. Avoids SQLITE_BUSY between the
	// persistence subscriber and reads at startup.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS app_state (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize state schema: %w", err)
	}

	return &SnapshotStore{db: db}, nil
}

// Close releases the underlying database.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the persisted snapshot. Returns (nil, nil) when no snapshot has
// been written yet; returns an error wrapping ErrCorruptSnapshot when the
// stored value does not decode.
func (s *SnapshotStore) Load() (*state.State, error) {
	var raw string
	err := s.db.QueryRow(
		`SELECT value FROM app_state WHERE key = ?`, SnapshotKey,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot state.State
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	return &snapshot, nil
}

// Save serializes the full state and overwrites the previous snapshot.
func (s *SnapshotStore) Save(snapshot state.State) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, SnapshotKey, string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
