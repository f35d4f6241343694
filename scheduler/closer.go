// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/danielhkuo/rankstuff/metrics"
	"github.com/danielhkuo/rankstuff/models"
	"github.com/danielhkuo/rankstuff/ranking"
)

// PollCloser is the part of ranking.Service the sweeper needs.
type PollCloser interface {
	DuePolls(ctx context.Context, now time.Time) ([]models.Poll, error)
	ClosePoll(ctx context.Context, pollID, caller string) (models.Poll, error)
}

// Closer periodically closes Open polls whose closes_at has passed.
type Closer struct {
	polls    PollCloser
	interval time.Duration
	now      func() time.Time
}

type Option func(*Closer)

// WithClock replaces the wall clock used to decide which polls are due.
func WithClock(now func() time.Time) Option {
	return func(c *Closer) { c.now = now }
}

func NewCloser(polls PollCloser, interval time.Duration, opts ...Option) *Closer {
	c := &Closer{
		polls:    polls,
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run sweeps once immediately and then every interval until ctx is
// cancelled.
func (c *Closer) Run(ctx context.Context) {
	slog.Info("poll closer started", "interval", c.interval)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		if _, err := c.Sweep(ctx); err != nil && ctx.Err() == nil {
			slog.Error("poll sweep failed", "error", err)
		}

		select {
		case <-ctx.Done():
			slog.Info("poll closer stopped")
			return
		case <-ticker.C:
		}
	}
}

// Sweep closes every poll due at the current time and returns how many it
// closed. Polls closed concurrently by their owner are skipped. A failure
// on one poll does not stop the others; the first such error is returned.
func (c *Closer) Sweep(ctx context.Context) (int, error) {
	due, err := c.polls.DuePolls(ctx, c.now())
	if err != nil {
		return 0, err
	}

	var firstErr error
	closed := 0
	for _, p := range due {
		if ctx.Err() != nil {
			return closed, ctx.Err()
		}

		if _, err := c.polls.ClosePoll(ctx, p.ID, p.OwnerID); err != nil {
			if errors.Is(err, ranking.ErrInvalidState) {
				slog.Debug("poll already closed", "poll_id", p.ID)
				continue
			}
			slog.Error("failed to close due poll", "poll_id", p.ID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		metrics.PollTransitions.WithLabelValues(string(models.StatusClosed), metrics.TriggerSchedule).Inc()
		closed++
	}

	if closed > 0 {
		slog.Info("closed due polls", "count", closed)
	}
	return closed, firstErr
}
