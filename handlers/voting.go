// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/rankstuff/metrics"
	"github.com/danielhkuo/rankstuff/middleware"
	"github.com/danielhkuo/rankstuff/models"
	"github.com/danielhkuo/rankstuff/ranking"
)

type VotingHandler struct {
	svc *ranking.Service
}

func NewVotingHandler(svc *ranking.Service) *VotingHandler {
	return &VotingHandler{svc: svc}
}

// SubmitBallot handles POST /polls/{id}/vote
// One ballot per voter; a second attempt is a 409.
func (h *VotingHandler) SubmitBallot(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ballot, err := h.svc.SubmitBallot(r.Context(), r.PathValue("id"), middleware.CallerID(r), req.Rankings)
	if err != nil {
		writeError(w, r, err)
		return
	}

	metrics.BallotsSubmitted.Inc()
	middleware.JSONResponse(w, http.StatusCreated, models.BallotResponse{
		ID:          ballot.ID,
		PollID:      ballot.PollID,
		UserID:      ballot.VoterID,
		SubmittedAt: ballot.SubmittedAt,
	})
}

// HasVoted handles GET /polls/{id}/voted
func (h *VotingHandler) HasVoted(w http.ResponseWriter, r *http.Request) {
	poll, err := h.svc.GetPoll(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, voted, err := h.svc.GetBallot(r.Context(), poll.ID, middleware.CallerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.HasVotedResponse{HasVoted: voted})
}
