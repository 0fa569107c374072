// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Business-state errors. These are expected outcomes, routinely hit under
// races, and handlers map them to user-facing conflict responses rather
// than failures.
var (
	ErrNotFound              = errors.New("store: not found")
	ErrRoomFull              = errors.New("store: room has reached the participant limit")
	ErrRoomShuffled          = errors.New("store: room is already shuffled, registration closed")
	ErrAlreadyShuffled       = errors.New("store: shuffle already performed")
	ErrNotEnoughParticipants = errors.New("store: not enough participants to shuffle")
	ErrNotificationLimit     = errors.New("store: notification limit reached")
)

// Store wraps the database handle with all room, participant, and
// assignment operations. The database is the only synchronization point:
// every cross-request invariant (participant cap, one-shot shuffle) is a
// conditional write checked by affected-row count, never application
// locks, so multiple server processes can share one database safely.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens a database connection for the configured backend.
// Supported types are "postgres" (lib/pq) and "sqlite" (modernc, pure Go).
func Open(databaseType, databaseURL string) (*sql.DB, error) {
	switch databaseType {
	case "postgres":
		db, err := sql.Open("postgres", databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		return db, nil
	case "sqlite":
		db, err := sql.Open("sqlite", databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite allows a single writer; one pooled connection avoids
		// SQLITE_BUSY under concurrent handlers.
		db.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database type %q (want sqlite or postgres)", databaseType)
	}
}
