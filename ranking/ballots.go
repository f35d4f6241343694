// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ranking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/rankstuff/models"
)

// SubmitBallot records voterID's ranked ballot on an Open poll.
//
// Preconditions are checked in order: the poll exists, it is Open, the
// voter has not voted yet, and every ranked option belongs to the poll.
// The existence check is only a fast path; the store's insert-if-absent
// is what guarantees one ballot per voter.
func (s *Service) SubmitBallot(ctx context.Context, pollID, voterID string, rankings []models.RankedChoice) (models.Ballot, error) {
	p, err := s.GetPoll(ctx, pollID)
	if err != nil {
		return models.Ballot{}, err
	}

	if !AcceptsBallots(p) {
		return models.Ballot{}, newError(ErrInvalidState, "Poll is not open for voting")
	}

	_, voted, err := s.ballots.GetBallot(ctx, p.ID, voterID)
	if err != nil {
		return models.Ballot{}, fmt.Errorf("failed to check existing ballot: %w", err)
	}
	if voted {
		return models.Ballot{}, alreadyVoted()
	}

	if err := ValidateRankings(p, rankings, s.policy); err != nil {
		return models.Ballot{}, err
	}

	b := models.Ballot{
		ID:          s.newID(),
		PollID:      p.ID,
		VoterID:     voterID,
		Rankings:    append([]models.RankedChoice(nil), rankings...),
		SubmittedAt: s.now(),
	}

	if err := s.ballots.InsertBallot(ctx, b); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return models.Ballot{}, alreadyVoted()
		}
		return models.Ballot{}, fmt.Errorf("failed to insert ballot: %w", err)
	}

	slog.Info("ballot submitted", "poll_id", p.ID, "ballot_id", b.ID, "rankings", len(b.Rankings))
	return b, nil
}

func alreadyVoted() error {
	return newError(ErrConflict, "You have already voted in this poll")
}

// GetBallot returns voterID's ballot for pollID, if any.
func (s *Service) GetBallot(ctx context.Context, pollID, voterID string) (models.Ballot, bool, error) {
	b, ok, err := s.ballots.GetBallot(ctx, pollID, voterID)
	if err != nil {
		return models.Ballot{}, false, fmt.Errorf("failed to get ballot: %w", err)
	}
	return b, ok, nil
}

// BallotsForPoll returns every ballot recorded for pollID.
func (s *Service) BallotsForPoll(ctx context.Context, pollID string) ([]models.Ballot, error) {
	ballots, err := s.ballots.ListBallots(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ballots: %w", err)
	}
	return ballots, nil
}

// CountBallots returns the number of ballots recorded for pollID.
func (s *Service) CountBallots(ctx context.Context, pollID string) (int, error) {
	n, err := s.ballots.CountBallots(ctx, pollID)
	if err != nil {
		return 0, fmt.Errorf("failed to count ballots: %w", err)
	}
	return n, nil
}

// LookupPoll resolves a poll and its ballots for chart aggregation.
func (s *Service) LookupPoll(ctx context.Context, pollID string) (models.Poll, []models.Ballot, bool, error) {
	p, ok, err := s.polls.GetPoll(ctx, pollID)
	if err != nil || !ok {
		return models.Poll{}, nil, ok, err
	}
	ballots, err := s.BallotsForPoll(ctx, pollID)
	if err != nil {
		return models.Poll{}, nil, false, err
	}
	return p, ballots, true, nil
}

// Results scores the poll from its current ballots. Nothing is stored.
func (s *Service) Results(ctx context.Context, pollID string) (models.PollResults, error) {
	p, err := s.GetPoll(ctx, pollID)
	if err != nil {
		return models.PollResults{}, err
	}

	ballots, err := s.BallotsForPoll(ctx, p.ID)
	if err != nil {
		return models.PollResults{}, err
	}

	return models.PollResults{
		PollID:       p.ID,
		Title:        p.Title,
		TotalVotes:   len(ballots),
		Results:      ScorePoll(p, ballots),
		CalculatedAt: s.now(),
	}, nil
}
