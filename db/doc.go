// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns the database schema.

Three tables: room, participant, assignment. The invariants the schema
itself enforces:

  - room.invite_token is globally unique
  - at most one participant per (room_id, identity_token) - rejoining
    with the same browser token is an update, never a second row
    (NULL identity_token rows, added manually by the organizer, are
    exempt as SQL UNIQUE ignores NULLs)
  - at most one assignment per santa

Everything stricter - the participant cap, the one-shot shuffle - is
enforced by conditional writes in the store package, not here.
*/
package db
