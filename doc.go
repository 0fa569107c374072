// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the WeSanta API server.

WeSanta is a Secret Santa service: organizers create rooms, participants
join via an invite link, and a one-shot shuffle assigns everyone a gift
recipient in a single secret ring. Assignments are revealed privately
and optionally emailed.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=santa.db go run main.go

Or with flags:

	go run main.go -p 3319 -t sqlite -d santa.db

# Configuration

Required settings:

  - DATABASE_URL (-d): Postgres connection string or SQLite file path

Optional settings:

  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - PORT (-p): Server port (default: 3319)
  - BASE_URL (--base-url): Public base URL for invite links and emails
  - RESEND_API_KEY (--resend-key): Resend API key; notifications are
    disabled without it
  - EMAIL_FROM (--email-from): From address for notification emails
  - LOG_LEVEL: debug, info, warn, or error

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (rooms, joining, admin, quick shuffle)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response and domain types
  - auth: Identity token generation and comparison
  - store: All database access; conditional writes enforce the
    participant cap and the one-shot shuffle
  - shuffle: The ring-derangement algorithm
  - mailer: Assignment notification emails via Resend
  - db: Schema creation
  - cliparse: Configuration parsing
  - logging: slog setup
  - metrics: Prometheus counters

See package documentation for each component.
*/
package main
