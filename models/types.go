// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// PollStatus is the lifecycle state of a poll.
type PollStatus string

// Poll status constants
const (
	StatusDraft  PollStatus = "draft"
	StatusOpen   PollStatus = "open"
	StatusClosed PollStatus = "closed"
)

// Valid reports whether s is one of the three lifecycle states.
func (s PollStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusOpen, StatusClosed:
		return true
	}
	return false
}

// Token type returned by the login endpoint
const TokenTypeBearer = "bearer"

// Request types

type CreatePollRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Options     []Option   `json:"options"`
	ClosesAt    *time.Time `json:"closes_at,omitempty"`
}

type SubmitBallotRequest struct {
	Rankings []RankedChoice `json:"rankings"`
}

type CreateChartRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	PollIDs     []string `json:"poll_ids"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Email may also carry a username; login tries both.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Response types

type PollResponse struct {
	Poll
	VoteCount int `json:"vote_count"`
}

type BallotResponse struct {
	ID          string    `json:"id"`
	PollID      string    `json:"poll_id"`
	UserID      string    `json:"user_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type HasVotedResponse struct {
	HasVoted bool `json:"has_voted"`
}

type BallotCountResponse struct {
	BallotCount int `json:"ballot_count"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}

// Domain types

type Option struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Description *string `json:"description,omitempty"`
}

type Poll struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Options     []Option   `json:"options"`
	Status      PollStatus `json:"status"`
	OwnerID     string     `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	ClosesAt    *time.Time `json:"closes_at,omitempty"`
}

// HasOption reports whether optionID is declared on the poll.
func (p Poll) HasOption(optionID string) bool {
	for _, opt := range p.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

type RankedChoice struct {
	OptionID string `json:"option_id"`
	Rank     int    `json:"rank"`
}

type Ballot struct {
	ID          string         `json:"id"`
	PollID      string         `json:"poll_id"`
	VoterID     string         `json:"voter_id"`
	Rankings    []RankedChoice `json:"rankings"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"` // Never expose in JSON
	CreatedAt      time.Time `json:"created_at"`
	IsActive       bool      `json:"is_active"`
}

// Borda Result Types

type OptionResult struct {
	OptionID string `json:"option_id"`
	Label    string `json:"label"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"` // 1-indexed ranking
}

type PollResults struct {
	PollID       string         `json:"poll_id"`
	Title        string         `json:"title"`
	TotalVotes   int            `json:"total_votes"`
	Results      []OptionResult `json:"results"`
	CalculatedAt time.Time      `json:"calculated_at"`
}

// Chart Types

type ChartEntry struct {
	Rank         int    `json:"rank"`
	ItemID       string `json:"item_id"`
	Label        string `json:"label"`
	Score        int    `json:"score"`
	PreviousRank *int   `json:"previous_rank,omitempty"` // nil when new to the chart
}

// Movement returns how many places the entry climbed since the previous
// snapshot (negative when it dropped). ok is false for entries that were
// not on the chart before.
func (e ChartEntry) Movement() (delta int, ok bool) {
	if e.PreviousRank == nil {
		return 0, false
	}
	return *e.PreviousRank - e.Rank, true
}

type Chart struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description,omitempty"`
	PollIDs     []string     `json:"poll_ids"`
	Entries     []ChartEntry `json:"entries"`
	OwnerID     string       `json:"owner_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
