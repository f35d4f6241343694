// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/danielhkuo/rankstuff/metrics"
	"github.com/danielhkuo/rankstuff/middleware"
	"github.com/danielhkuo/rankstuff/models"
	"github.com/danielhkuo/rankstuff/ranking"
)

type ChartHandler struct {
	svc *ranking.Service
}

func NewChartHandler(svc *ranking.Service) *ChartHandler {
	return &ChartHandler{svc: svc}
}

// CreateChart handles POST /charts
// The chart is populated from its polls before it is returned.
func (h *ChartHandler) CreateChart(w http.ResponseWriter, r *http.Request) {
	var req models.CreateChartRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	start := time.Now()
	chart, err := h.svc.CreateChart(r.Context(), req, middleware.CallerID(r))
	metrics.ObserveChartRefresh(err, time.Since(start))
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, chart)
}

// ListCharts handles GET /charts?owner_id=&skip=&limit=
func (h *ChartHandler) ListCharts(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := pageParams(w, r)
	if !ok {
		return
	}

	charts, err := h.svc.ListCharts(r.Context(), ranking.ChartFilter{
		OwnerID: r.URL.Query().Get("owner_id"),
		Skip:    skip,
		Limit:   limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, charts)
}

// GetChart handles GET /charts/{id}
func (h *ChartHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	chart, err := h.svc.GetChart(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, chart)
}

// RefreshChart handles POST /charts/{id}/refresh
func (h *ChartHandler) RefreshChart(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	chart, err := h.svc.RefreshChart(r.Context(), r.PathValue("id"), middleware.CallerID(r))
	metrics.ObserveChartRefresh(err, time.Since(start))
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, chart)
}

// DeleteChart handles DELETE /charts/{id}
func (h *ChartHandler) DeleteChart(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteChart(r.Context(), r.PathValue("id"), middleware.CallerID(r)); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
