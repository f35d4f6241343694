// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ranking is the ranking and aggregation engine: poll lifecycle,
ballot validation, Borda scoring and multi-poll charts.

# Poll Lifecycle

Polls progress through three states, strictly forward:

	draft --open--> open --close--> closed

Transition returns the moved poll or an ErrInvalidState error. Only the
owner may move a poll (CanModify). closes_at is advisory; the scheduler
package closes due polls.

# Ballots

SubmitBallot checks, in order: poll exists, poll is open, voter has not
voted, every option id belongs to the poll. Rank checking depends on the
BallotPolicy:

  - PolicyPermissive: any rank in 1..MaxRank
  - PolicyStrict: ranks within 1..n, unique, one rank per option

# Borda Count

For a poll with n options a ballot ranking an option at rank r adds
n - r + 1 points to it:

	results := ranking.ScorePoll(poll, ballots)

Results are sorted by score descending; ties keep declaration order.
Ranks are dense and distinct. Sums clamp at the int bounds.

# Charts

A chart sums Borda scores by option id across its polls, re-ranks, and
records each entry's previous rank:

	chart, err := ranking.RefreshChart(ctx, chart, lookup, now)

Refresh is all-or-nothing: one unresolvable poll fails it. Entries are
replaced wholesale.

# Errors

Every failure wraps one of ErrValidation, ErrNotFound, ErrConflict,
ErrInvalidState or ErrForbidden:

	if errors.Is(err, ranking.ErrConflict) { ... }

Message(err) returns the text that is safe to show to users.
*/
package ranking
