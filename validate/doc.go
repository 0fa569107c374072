// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package validate checks room-creation and join submissions.

Validation never rejects with an error value in the Go sense: bad input
produces a FieldErrors set keyed by field name so the caller can render
per-field messages, and good input produces a typed, trimmed record.
The rules a submission is checked against depend on the room's
configuration (require_email, allow_wishlist), so the room flags are
passed in alongside the raw fields.
*/
package validate
