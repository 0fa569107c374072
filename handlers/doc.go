// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP endpoints for the Secret Santa
service.

Handlers are grouped by actor:

  - RoomHandler: anyone - create a room, view a room, list your rooms
  - JoinHandler: participants - join via invite link, view your assignment
  - AdminHandler: organizers - roster management, the shuffle, resends
  - QuickShuffleHandler: the standalone draw tool, no persistence at all

Authorization is capability-based rather than account-based. Every
browser carries an opaque identity token (auth.Identity); the token that
created a room is that room's admin secret, and the token that joined a
room identifies that participant. There are no sessions or users to look
up - possession of the token is the whole credential.

Error shape is uniform: models.ErrorResponse with an optional
field_errors map for validation failures. Lookups that the caller is not
entitled to know about (wrong invite token, stranger fetching a room)
return 404 rather than 403, so probing cannot confirm a room exists.
State conflicts - joining a shuffled room, shuffling twice, exceeding
the participant cap or the notification limit - are 409.
*/
package handlers
