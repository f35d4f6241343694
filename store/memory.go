// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/danielhkuo/rankstuff/auth"
	"github.com/danielhkuo/rankstuff/models"
	"github.com/danielhkuo/rankstuff/ranking"
)

type ballotKey struct {
	pollID  string
	voterID string
}

// Memory implements Store in process memory. Values are copied on the way
// in and out so callers never share slices with the store.
type Memory struct {
	mu sync.RWMutex

	polls     map[string]models.Poll
	pollOrder []string

	ballots     map[ballotKey]models.Ballot
	ballotOrder map[string][]ballotKey

	charts     map[string]models.Chart
	chartOrder []string

	users map[string]models.User
}

func NewMemory() *Memory {
	return &Memory{
		polls:       make(map[string]models.Poll),
		ballots:     make(map[ballotKey]models.Ballot),
		ballotOrder: make(map[string][]ballotKey),
		charts:      make(map[string]models.Chart),
		users:       make(map[string]models.User),
	}
}

// Polls

func (m *Memory) InsertPoll(_ context.Context, p models.Poll) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.polls[p.ID]; exists {
		return fmt.Errorf("poll %s: %w", p.ID, ranking.ErrDuplicate)
	}
	m.polls[p.ID] = clonePoll(p)
	m.pollOrder = append(m.pollOrder, p.ID)
	return nil
}

func (m *Memory) GetPoll(_ context.Context, id string) (models.Poll, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.polls[id]
	if !ok {
		return models.Poll{}, false, nil
	}
	return clonePoll(p), true, nil
}

func (m *Memory) ListPolls(_ context.Context, f ranking.PollFilter) ([]models.Poll, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := []models.Poll{}
	for _, id := range m.pollOrder {
		p := m.polls[id]
		if f.OwnerID != "" && p.OwnerID != f.OwnerID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.ClosesBefore != nil && (p.ClosesAt == nil || p.ClosesAt.After(*f.ClosesBefore)) {
			continue
		}
		matched = append(matched, p)
	}

	start, end := pageBounds(len(matched), f.Skip, f.Limit)
	out := make([]models.Poll, 0, end-start)
	for _, p := range matched[start:end] {
		out = append(out, clonePoll(p))
	}
	return out, nil
}

func (m *Memory) UpdatePollStatus(_ context.Context, id string, from, to models.PollStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.polls[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	m.polls[id] = p
	return true, nil
}

// Ballots

// InsertBallot checks and inserts under one lock, which is what keeps a
// voter to a single ballot per poll.
func (m *Memory) InsertBallot(_ context.Context, b models.Ballot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := ballotKey{pollID: b.PollID, voterID: b.VoterID}
	if _, exists := m.ballots[key]; exists {
		return fmt.Errorf("ballot for poll %s: %w", b.PollID, ranking.ErrDuplicate)
	}
	m.ballots[key] = cloneBallot(b)
	m.ballotOrder[b.PollID] = append(m.ballotOrder[b.PollID], key)
	return nil
}

func (m *Memory) GetBallot(_ context.Context, pollID, voterID string) (models.Ballot, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.ballots[ballotKey{pollID: pollID, voterID: voterID}]
	if !ok {
		return models.Ballot{}, false, nil
	}
	return cloneBallot(b), true, nil
}

func (m *Memory) ListBallots(_ context.Context, pollID string) ([]models.Ballot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := m.ballotOrder[pollID]
	out := make([]models.Ballot, 0, len(keys))
	for _, key := range keys {
		out = append(out, cloneBallot(m.ballots[key]))
	}
	return out, nil
}

func (m *Memory) CountBallots(_ context.Context, pollID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.ballotOrder[pollID]), nil
}

// Charts

func (m *Memory) InsertChart(_ context.Context, c models.Chart) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.charts[c.ID]; exists {
		return fmt.Errorf("chart %s: %w", c.ID, ranking.ErrDuplicate)
	}
	m.charts[c.ID] = cloneChart(c)
	m.chartOrder = append(m.chartOrder, c.ID)
	return nil
}

func (m *Memory) GetChart(_ context.Context, id string) (models.Chart, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.charts[id]
	if !ok {
		return models.Chart{}, false, nil
	}
	return cloneChart(c), true, nil
}

func (m *Memory) ListCharts(_ context.Context, f ranking.ChartFilter) ([]models.Chart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := []models.Chart{}
	for _, id := range m.chartOrder {
		c := m.charts[id]
		if f.OwnerID != "" && c.OwnerID != f.OwnerID {
			continue
		}
		matched = append(matched, c)
	}

	start, end := pageBounds(len(matched), f.Skip, f.Limit)
	out := make([]models.Chart, 0, end-start)
	for _, c := range matched[start:end] {
		out = append(out, cloneChart(c))
	}
	return out, nil
}

func (m *Memory) ReplaceChart(_ context.Context, c models.Chart) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.charts[c.ID]
	if !ok {
		return false, nil
	}
	next := cloneChart(c)
	next.OwnerID = existing.OwnerID
	next.CreatedAt = existing.CreatedAt
	m.charts[c.ID] = next
	return true, nil
}

func (m *Memory) DeleteChart(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.charts[id]; !ok {
		return false, nil
	}
	delete(m.charts, id)
	for i, cid := range m.chartOrder {
		if cid == id {
			m.chartOrder = append(m.chartOrder[:i], m.chartOrder[i+1:]...)
			break
		}
	}
	return true, nil
}

// Users

func (m *Memory) InsertUser(_ context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.ID == u.ID || existing.Email == u.Email || existing.Username == u.Username {
			return fmt.Errorf("user %s: %w", u.Username, auth.ErrDuplicateUser)
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *Memory) GetUser(_ context.Context, id string) (models.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	return u, ok, nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (models.User, bool, error) {
	return m.findUser(func(u models.User) bool { return u.Email == email })
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (models.User, bool, error) {
	return m.findUser(func(u models.User) bool { return u.Username == username })
}

func (m *Memory) findUser(match func(models.User) bool) (models.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if match(u) {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}
