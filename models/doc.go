// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: title, description, options, closes_at
  - SubmitBallotRequest: rankings ([]RankedChoice)
  - CreateChartRequest: title, description, poll_ids
  - RegisterRequest: email, username, password
  - LoginRequest: email (or username), password

# Response Types

Types for JSON responses:

  - PollResponse: poll fields plus vote_count
  - BallotResponse: id, poll_id, user_id, submitted_at
  - HasVotedResponse: has_voted
  - BallotCountResponse: ballot_count
  - TokenResponse: access_token, token_type
  - UserResponse: id, email, username, created_at, is_active
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Poll: poll metadata, ordered options and lifecycle state
  - Option: voting option with label
  - Ballot: one voter's ranked choices for a poll
  - OptionResult: Borda score and rank for an option
  - PollResults: computed results, never stored
  - Chart: aggregated leaderboard over several polls
  - ChartEntry: ranked item with optional previous rank
  - User: registered account

# Constants

Status values:

	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusClosed = "closed"
*/
package models
