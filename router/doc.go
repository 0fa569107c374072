// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the WeSanta API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(st, cfg, mailer)

# Endpoints

Health and observability:

	GET /health
	GET /metrics

Standalone shuffle (no persistence):

	POST /shuffle - Names in, pairings out

Room lifecycle:

	POST /rooms       - Create room (caller becomes organizer)
	GET  /rooms/count - Total rooms created
	GET  /rooms/mine  - Rooms this identity organizes or joined
	GET  /rooms/{id}  - Public room view (admin, member, or invite holder)

Participant operations (invite token required to join):

	POST /rooms/{id}/join       - Join or rejoin via invite
	GET  /rooms/{id}/assignment - View who you drew

Organizer operations (identity must match the room's admin token):

	GET  /rooms/{id}/admin                              - Full roster and invite link
	POST /rooms/{id}/participants                       - Add participant manually
	POST /rooms/{id}/shuffle                            - Run the draw
	POST /rooms/{id}/participants/{participantID}/resend - Re-send assignment email

# Handler Initialization

The router creates handler instances with dependency injection:

	roomHandler := handlers.NewRoomHandler(st, cfg)
	joinHandler := handlers.NewJoinHandler(st, cfg)
	adminHandler := handlers.NewAdminHandler(st, cfg, mailer)
	quickShuffleHandler := handlers.NewQuickShuffleHandler()

Handlers receive the store and configuration; the admin handler also
gets the mailer for post-shuffle notification dispatch.
*/
package router
