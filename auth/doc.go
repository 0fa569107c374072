// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides opaque token generation and the per-browser
identity scheme.

There are no user accounts. Each browser gets a long-lived random token
on first contact (cookie, or X-Identity-Token header for API clients).
That single token serves two roles:

  - participant identity: joining a room twice with the same token
    updates the existing participant instead of creating a duplicate
  - admin secret: the token of the browser that created a room is stored
    as the room's admin token, and organizer actions are authorized by
    comparing the caller's token against it

Comparisons go through TokensMatch (constant time). IDs for rooms and
invite links come from GenerateID; both are unguessable random strings
with different lengths for their different exposure levels.
*/
package auth
