// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/rankstuff/auth"
	"github.com/danielhkuo/rankstuff/models"
	"github.com/danielhkuo/rankstuff/ranking"
)

// Store is every persistence port the application needs.
type Store interface {
	ranking.PollStore
	ranking.BallotStore
	ranking.ChartStore
	auth.UserStore
}

var (
	_ Store = (*SQL)(nil)
	_ Store = (*Memory)(nil)
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a uniqueness constraint failure
// from either supported driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
		}
	}
	return false
}

func cloneOptions(in []models.Option) []models.Option {
	if in == nil {
		return nil
	}
	out := make([]models.Option, len(in))
	for i, opt := range in {
		out[i] = opt
		if opt.Description != nil {
			d := *opt.Description
			out[i].Description = &d
		}
	}
	return out
}

func clonePoll(p models.Poll) models.Poll {
	p.Options = cloneOptions(p.Options)
	if p.Description != nil {
		d := *p.Description
		p.Description = &d
	}
	if p.ClosesAt != nil {
		t := *p.ClosesAt
		p.ClosesAt = &t
	}
	return p
}

func cloneBallot(b models.Ballot) models.Ballot {
	b.Rankings = append([]models.RankedChoice(nil), b.Rankings...)
	return b
}

func cloneChart(c models.Chart) models.Chart {
	if c.Description != nil {
		d := *c.Description
		c.Description = &d
	}
	c.PollIDs = append([]string(nil), c.PollIDs...)
	entries := make([]models.ChartEntry, len(c.Entries))
	for i, e := range c.Entries {
		entries[i] = e
		if e.PreviousRank != nil {
			r := *e.PreviousRank
			entries[i].PreviousRank = &r
		}
	}
	c.Entries = entries
	return c
}

func pageBounds(total, skip, limit int) (int, int) {
	if limit <= 0 {
		limit = ranking.MaxLimit
	}
	if skip > total {
		skip = total
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return skip, end
}
