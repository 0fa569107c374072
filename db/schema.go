// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// The SQL is kept portable between Postgres and SQLite: no server-side
// defaults for timestamps (always written from Go), no SERIAL, no JSONB.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Rooms
CREATE TABLE IF NOT EXISTS room (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    invite_token TEXT NOT NULL UNIQUE,
    admin_token TEXT NOT NULL,
    allow_wishlist BOOLEAN NOT NULL,
    require_email BOOLEAN NOT NULL,
    locale TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    shuffled_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_room_invite_token ON room(invite_token);
CREATE INDEX IF NOT EXISTS idx_room_admin_token ON room(admin_token);

-- Participants
CREATE TABLE IF NOT EXISTS participant (
    id TEXT PRIMARY KEY,
    room_id TEXT NOT NULL REFERENCES room(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    email TEXT,
    wishlist TEXT,
    identity_token TEXT,
    notifications_sent INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (room_id, identity_token)
);

CREATE INDEX IF NOT EXISTS idx_participant_room_id ON participant(room_id);
CREATE INDEX IF NOT EXISTS idx_participant_identity ON participant(identity_token);

-- Assignments
CREATE TABLE IF NOT EXISTS assignment (
    id TEXT PRIMARY KEY,
    room_id TEXT NOT NULL REFERENCES room(id) ON DELETE CASCADE,
    santa_id TEXT NOT NULL UNIQUE REFERENCES participant(id) ON DELETE CASCADE,
    target_id TEXT NOT NULL REFERENCES participant(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_assignment_room_id ON assignment(room_id);
`
