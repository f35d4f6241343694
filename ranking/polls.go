// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ranking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/rankstuff/models"
)

// CreatePoll stores a new Draft poll owned by owner.
func (s *Service) CreatePoll(ctx context.Context, req models.CreatePollRequest, owner string) (models.Poll, error) {
	if strings.TrimSpace(owner) == "" {
		return models.Poll{}, validationErr("owner is required")
	}
	if err := ValidatePoll(req.Title, req.Options); err != nil {
		return models.Poll{}, err
	}

	p := models.Poll{
		ID:          s.newID(),
		Title:       req.Title,
		Description: req.Description,
		Options:     append([]models.Option(nil), req.Options...),
		Status:      models.StatusDraft,
		OwnerID:     owner,
		CreatedAt:   s.now(),
	}
	if req.ClosesAt != nil {
		closesAt := req.ClosesAt.UTC()
		p.ClosesAt = &closesAt
	}

	if err := s.polls.InsertPoll(ctx, p); err != nil {
		return models.Poll{}, fmt.Errorf("failed to insert poll: %w", err)
	}

	slog.Info("poll created", "poll_id", p.ID, "owner_id", owner, "options", len(p.Options))
	return p, nil
}

// GetPoll is a public read.
func (s *Service) GetPoll(ctx context.Context, pollID string) (models.Poll, error) {
	p, ok, err := s.polls.GetPoll(ctx, pollID)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to get poll: %w", err)
	}
	if !ok {
		return models.Poll{}, newError(ErrNotFound, "Poll not found")
	}
	return p, nil
}

// OpenPoll moves a Draft poll to Open. Owner only.
func (s *Service) OpenPoll(ctx context.Context, pollID, caller string) (models.Poll, error) {
	return s.transition(ctx, pollID, caller, models.StatusOpen)
}

// ClosePoll moves an Open poll to Closed. Owner only.
func (s *Service) ClosePoll(ctx context.Context, pollID, caller string) (models.Poll, error) {
	return s.transition(ctx, pollID, caller, models.StatusClosed)
}

func (s *Service) transition(ctx context.Context, pollID, caller string, to models.PollStatus) (models.Poll, error) {
	p, err := s.GetPoll(ctx, pollID)
	if err != nil {
		return models.Poll{}, err
	}

	if !CanModify(p.OwnerID, caller) {
		return models.Poll{}, newError(ErrForbidden, "You do not have permission to modify this poll")
	}

	next, err := Transition(p, to)
	if err != nil {
		return models.Poll{}, err
	}

	updated, err := s.polls.UpdatePollStatus(ctx, p.ID, p.Status, to)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to update poll status: %w", err)
	}
	if !updated {
		// Another request moved the poll between our read and write.
		return models.Poll{}, newError(ErrInvalidState, "%s", transitionErrors[to])
	}

	slog.Info("poll status changed", "poll_id", p.ID, "from", p.Status, "to", to)
	return next, nil
}

// ListPolls returns polls matching f, oldest first.
func (s *Service) ListPolls(ctx context.Context, f PollFilter) ([]models.Poll, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, validationErr("unknown status: %s", f.Status)
	}
	skip, limit, err := normalizePage(f.Skip, f.Limit)
	if err != nil {
		return nil, err
	}
	f.Skip, f.Limit = skip, limit

	polls, err := s.polls.ListPolls(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	return polls, nil
}

// DuePolls returns every Open poll whose closes_at is at or before now.
func (s *Service) DuePolls(ctx context.Context, now time.Time) ([]models.Poll, error) {
	var due []models.Poll
	for skip := 0; ; skip += MaxLimit {
		page, err := s.ListPolls(ctx, PollFilter{
			Status:       models.StatusOpen,
			ClosesBefore: &now,
			Skip:         skip,
			Limit:        MaxLimit,
		})
		if err != nil {
			return nil, err
		}
		due = append(due, page...)
		if len(page) < MaxLimit {
			return due, nil
		}
	}
}
