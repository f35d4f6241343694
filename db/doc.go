// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens database connections and creates the schema.

# Drivers

Open selects the driver from the configured database type:

	conn, err := db.Open(db.TypePostgres, "postgres://...")  // github.com/lib/pq
	conn, err := db.Open(db.TypeSQLite, "file:rankstuff.db") // modernc.org/sqlite

SQLite connections are capped at one so in-memory databases work.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - app_user: accounts (email and username unique)
  - poll: poll metadata, options (JSON) and lifecycle state
  - ballot: one ballot per voter per poll, rankings (JSON)
  - chart: referenced poll ids and the latest entry snapshot (JSON)

# Relationships

	poll 1──* ballot

UNIQUE (poll_id, voter_id) on ballot is what enforces one vote per voter.
*/
package db
