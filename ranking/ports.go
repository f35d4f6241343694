// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ranking

import (
	"context"
	"time"

	"github.com/danielhkuo/rankstuff/models"
)

// Paging limits shared by every list operation.
const (
	DefaultLimit = 100
	MaxLimit     = 100
)

type PollFilter struct {
	OwnerID string
	Status  models.PollStatus
	// ClosesBefore selects polls whose closes_at is set and not after it.
	ClosesBefore *time.Time
	Skip         int
	Limit        int
}

type ChartFilter struct {
	OwnerID string
	Skip    int
	Limit   int
}

// PollStore persists polls. Lookups report absence with ok == false.
type PollStore interface {
	InsertPoll(ctx context.Context, p models.Poll) error
	GetPoll(ctx context.Context, id string) (p models.Poll, ok bool, err error)
	ListPolls(ctx context.Context, f PollFilter) ([]models.Poll, error)
	// UpdatePollStatus moves the poll from one status to another only if it
	// is still in from. updated is false when the poll is missing or has
	// already left that status.
	UpdatePollStatus(ctx context.Context, id string, from, to models.PollStatus) (updated bool, err error)
}

// BallotStore persists ballots. InsertBallot must be an atomic
// insert-if-absent on (PollID, VoterID) and return an error wrapping
// ErrDuplicate when a ballot already exists.
type BallotStore interface {
	InsertBallot(ctx context.Context, b models.Ballot) error
	GetBallot(ctx context.Context, pollID, voterID string) (b models.Ballot, ok bool, err error)
	ListBallots(ctx context.Context, pollID string) ([]models.Ballot, error)
	CountBallots(ctx context.Context, pollID string) (int, error)
}

// ChartStore persists charts.
type ChartStore interface {
	InsertChart(ctx context.Context, c models.Chart) error
	GetChart(ctx context.Context, id string) (c models.Chart, ok bool, err error)
	ListCharts(ctx context.Context, f ChartFilter) ([]models.Chart, error)
	ReplaceChart(ctx context.Context, c models.Chart) (replaced bool, err error)
	DeleteChart(ctx context.Context, id string) (deleted bool, err error)
}

// PollLookup resolves a poll id to the poll and its current ballots.
type PollLookup interface {
	LookupPoll(ctx context.Context, pollID string) (p models.Poll, ballots []models.Ballot, ok bool, err error)
}
