// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ranking

import (
	"time"

	"github.com/google/uuid"
)

// Service runs the poll registry, ballot validator, scoring engine and
// chart aggregator on top of the storage ports. It holds no locks; every
// method performs its own storage calls and returns.
type Service struct {
	polls   PollStore
	ballots BallotStore
	charts  ChartStore

	policy BallotPolicy
	now    func() time.Time
	newID  func() string
}

type ServiceOption func(*Service)

func WithBallotPolicy(policy BallotPolicy) ServiceOption {
	return func(s *Service) { s.policy = policy }
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *Service) { s.newID = newID }
}

func NewService(polls PollStore, ballots BallotStore, charts ChartStore, opts ...ServiceOption) *Service {
	s := &Service{
		polls:   polls,
		ballots: ballots,
		charts:  charts,
		policy:  PolicyPermissive,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the ballot policy in force.
func (s *Service) Policy() BallotPolicy {
	return s.policy
}
