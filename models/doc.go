// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the request, response, and domain types shared
across the WeSanta API.

# Domain Types

Three persisted entities:

  - Room: a gift-exchange event. Open while shuffled_at is null; once
    the shuffle runs, shuffled_at is set permanently.
  - Participant: a person in a room, either self-joined (carries an
    identity token) or added manually by the organizer (no token).
  - Assignment: one santa→target pairing, created all at once at
    shuffle time.

# Limits

MaxParticipants caps room size, MinShuffleParticipants is the smallest
room that can be shuffled, and MaxNotifications bounds how many times a
single participant can be emailed their assignment.

Tokens and secrets (AdminToken, IdentityToken) are tagged `json:"-"` so
they can never leak through a response body.
*/
package models
