// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ranking

import "github.com/danielhkuo/rankstuff/models"

// transitions lists the only edges of the poll state machine.
// Closed has no outgoing edge.
var transitions = map[models.PollStatus]models.PollStatus{
	models.StatusDraft: models.StatusOpen,
	models.StatusOpen:  models.StatusClosed,
}

var transitionErrors = map[models.PollStatus]string{
	models.StatusOpen:   "Only draft polls can be opened",
	models.StatusClosed: "Only open polls can be closed",
}

// Transition returns p moved to status to, or an InvalidState error when
// the edge does not exist.
func Transition(p models.Poll, to models.PollStatus) (models.Poll, error) {
	if next, ok := transitions[p.Status]; !ok || next != to {
		msg, known := transitionErrors[to]
		if !known {
			msg = "Poll cannot move from " + string(p.Status) + " to " + string(to)
		}
		return p, newError(ErrInvalidState, "%s", msg)
	}
	p.Status = to
	return p, nil
}

// AcceptsBallots reports whether ballots may be submitted to p.
func AcceptsBallots(p models.Poll) bool {
	return p.Status == models.StatusOpen
}

// CanModify is the owner capability check used by every owner-restricted
// operation.
func CanModify(ownerID, callerID string) bool {
	return ownerID != "" && ownerID == callerID
}
