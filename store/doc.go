// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the persistence layer over database/sql, shared by the
Postgres and SQLite backends.

# Concurrency primitives

The operations that carry the correctness of the whole service are
conditional writes judged by affected-row count:

  - TryAddParticipant: a transaction that first write-locks the room row
    via a no-op update conditional on the room being open, then counts
    and inserts. Joins and the shuffle claim all write the room row, so
    they serialize; with K free slots and any number of concurrent
    joins, exactly K rows commit on either backend.
  - ShuffleRoom: UPDATE room SET shuffled_at WHERE shuffled_at IS NULL,
    then assignment inserts, all in one transaction. At most one caller
    ever wins the claim; losers perform no writes.
  - TryReserveNotification: conditional increment of a participant's
    notification counter, so concurrent resends cannot overshoot the
    per-participant ceiling.

Everything else is ordinary single-row reads and writes.

# Errors

Expected business outcomes (room full, registration closed, already
shuffled, too few participants, not found) are sentinel errors; callers
match them with errors.Is and translate them to conflict responses.
Anything else is an infrastructure failure.
*/
package store
