// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the rankstuff API server.

rankstuff runs ranked-choice polls. Voters rank options, results are
computed with Borda counting, and charts merge several polls into one
ranking that remembers each item's previous position.

# Starting the Server

The server reads a .env file, environment variables or CLI flags:

	DATABASE_URL=postgres://... JWT_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t sqlite -d rankstuff.db -jwt-secret dev-secret

# Configuration

Required settings:

  - DATABASE_URL (-d): connection string, not needed for memory storage
  - JWT_SECRET (-jwt-secret): HMAC secret for bearer tokens

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_TYPE (-t): postgres, sqlite or memory (default: sqlite)
  - TOKEN_TTL (-token-ttl): bearer token lifetime (default: 60m)
  - CORS_ORIGINS (-cors-origins): comma-separated allowed origins
  - STRICT_BALLOTS (-strict-ballots): ranks within 1..n, no repeated ranks or options
  - CLOSE_INTERVAL (-close-interval): auto-close sweep interval, 0 disables

# Architecture

  - ranking: poll lifecycle, ballot validation, Borda scoring, charts
  - store: PostgreSQL/SQLite and in-memory persistence
  - auth: accounts, bcrypt passwords, JWT bearer tokens
  - handlers: HTTP request handlers
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, auth, JSON helpers
  - scheduler: closes polls whose closes_at has passed
  - metrics: Prometheus collectors served at /metrics
  - db: connection and schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
