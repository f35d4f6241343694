// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the rankstuff API.

# Handler Types

Each handler is a struct wrapping a service:

  - AuthHandler: registration, login and the current account
  - PollHandler: poll lifecycle (create, list, open, close)
  - VotingHandler: ballot submission and has-voted checks
  - ResultsHandler: Borda results and ballot counts
  - ChartHandler: multi-poll charts and their refresh

Handlers are created via constructor functions:

	pollHandler := handlers.NewPollHandler(svc)

# Poll Lifecycle

Polls progress through three states: draft → open → closed

	POST /polls              → CreatePoll
	POST /polls/{id}/open    → OpenPoll (owner, draft only)
	POST /polls/{id}/close   → ClosePoll (owner, open only)

# Voting

	POST /polls/{id}/vote    → SubmitBallot (one per voter, open polls only)
	GET  /polls/{id}/voted   → HasVoted

Authenticated routes read the caller from the request context set by
middleware.RequireAuth.

# Errors

Service errors are mapped to status codes by writeError. Anything that is
not a known kind is logged and returned as a 500 without details.
*/
package handlers
