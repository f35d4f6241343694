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

type PollHandler struct {
	svc *ranking.Service
}

func NewPollHandler(svc *ranking.Service) *PollHandler {
	return &PollHandler{svc: svc}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poll, err := h.svc.CreatePoll(r.Context(), req, middleware.CallerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.PollResponse{Poll: poll})
}

// ListPolls handles GET /polls?owner_id=&status=&skip=&limit=
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := pageParams(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	polls, err := h.svc.ListPolls(r.Context(), ranking.PollFilter{
		OwnerID: q.Get("owner_id"),
		Status:  models.PollStatus(q.Get("status")),
		Skip:    skip,
		Limit:   limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]models.PollResponse, 0, len(polls))
	for _, p := range polls {
		count, err := h.svc.CountBallots(r.Context(), p.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp = append(resp, models.PollResponse{Poll: p, VoteCount: count})
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetPoll handles GET /polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.svc.GetPoll(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.respondWithCount(w, r, http.StatusOK, poll)
}

// OpenPoll handles POST /polls/{id}/open
func (h *PollHandler) OpenPoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.svc.OpenPoll(r.Context(), r.PathValue("id"), middleware.CallerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	metrics.PollTransitions.WithLabelValues(string(models.StatusOpen), metrics.TriggerOwner).Inc()
	h.respondWithCount(w, r, http.StatusOK, poll)
}

// ClosePoll handles POST /polls/{id}/close
func (h *PollHandler) ClosePoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.svc.ClosePoll(r.Context(), r.PathValue("id"), middleware.CallerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	metrics.PollTransitions.WithLabelValues(string(models.StatusClosed), metrics.TriggerOwner).Inc()
	h.respondWithCount(w, r, http.StatusOK, poll)
}

func (h *PollHandler) respondWithCount(w http.ResponseWriter, r *http.Request, status int, poll models.Poll) {
	count, err := h.svc.CountBallots(r.Context(), poll.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, status, models.PollResponse{Poll: poll, VoteCount: count})
}
