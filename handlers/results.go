// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/rankstuff/middleware"
	"github.com/danielhkuo/rankstuff/models"
	"github.com/danielhkuo/rankstuff/ranking"
)

type ResultsHandler struct {
	svc *ranking.Service
}

func NewResultsHandler(svc *ranking.Service) *ResultsHandler {
	return &ResultsHandler{svc: svc}
}

// GetResults handles GET /polls/{id}/results
// Scores are computed from the ballots on every request, in any status.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.Results(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

// GetBallotCount handles GET /polls/{id}/ballot-count
func (h *ResultsHandler) GetBallotCount(w http.ResponseWriter, r *http.Request) {
	poll, err := h.svc.GetPoll(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	count, err := h.svc.CountBallots(r.Context(), poll.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.BallotCountResponse{BallotCount: count})
}
