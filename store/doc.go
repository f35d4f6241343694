// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists polls, ballots, charts and users.

Two implementations satisfy the same Store interface:

  - SQL: PostgreSQL (github.com/lib/pq) or SQLite (modernc.org/sqlite)
    over a *sql.DB opened by package db
  - Memory: maps guarded by a sync.RWMutex, for the "memory" database type
    and for tests

# Uniqueness

Both implementations report a second ballot from the same voter on the same
poll as ranking.ErrDuplicate, and a clashing email or username as
auth.ErrDuplicateUser. For SQL this comes from the UNIQUE constraints in the
schema, so it holds across concurrent requests and processes.

# Status Updates

UpdatePollStatus only writes when the stored status still equals the
expected one:

	ok, err := st.UpdatePollStatus(ctx, id, models.StatusOpen, models.StatusClosed)
	// ok == false means another request changed the poll first

# Ordering

Polls and charts list in creation order and ballots in submission order.
ListPolls and ListCharts apply skip and limit after filtering.
*/
package store
