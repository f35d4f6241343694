// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/danielhkuo/rankstuff/metrics"
	"github.com/danielhkuo/rankstuff/models"
	"github.com/danielhkuo/rankstuff/ranking"
	"github.com/danielhkuo/rankstuff/testutil"
)

func createChart(t *testing.T, handler *ChartHandler, owner string, pollIDs ...string) models.Chart {
	t.Helper()

	req := testutil.MakeRequest("POST", "/charts", models.CreateChartRequest{
		Title:   "Weekly Chart",
		PollIDs: pollIDs,
	}, nil)
	w := serve(handler.CreateChart, req, owner)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var chart models.Chart
	testutil.AssertJSON(t, w, &chart)
	return chart
}

// chartRefreshErrors reads the failed chart refresh count from /metrics.
func chartRefreshErrors(t *testing.T) float64 {
	t.Helper()

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	const prefix = `rankstuff_chart_refreshes_total{outcome="error"} `
	scanner := bufio.NewScanner(w.Body)
	for scanner.Scan() {
		if v, ok := strings.CutPrefix(scanner.Text(), prefix); ok {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				t.Fatalf("Bad counter value %q", v)
			}
			return n
		}
	}
	return 0
}

func TestCreateChart(t *testing.T) {
	env := newTestEnv(t)
	handler := NewChartHandler(env.svc)

	p1 := testutil.CreateTestPoll(t, env.svc, "owner-1", models.StatusOpen, "Red", "Blue")
	p2 := testutil.CreateTestPoll(t, env.svc, "owner-2", models.StatusOpen, "Red", "Blue", "Green")
	testutil.SubmitTestBallot(t, env.svc, p1.ID, "v1", "opt-2", "opt-1")
	testutil.SubmitTestBallot(t, env.svc, p2.ID, "v1", "opt-3", "opt-1", "opt-2")

	t.Run("populated on creation", func(t *testing.T) {
		chart := createChart(t, handler, "owner-1", p1.ID, p2.ID)

		// p1: Blue 2, Red 1. p2: Green 3, Red 2, Blue 1.
		expected := []struct {
			id    string
			score int
		}{
			{"opt-2", 3}, // Blue, first to appear among the tied
			{"opt-1", 3}, // Red
			{"opt-3", 3}, // Green
		}
		if len(chart.Entries) != len(expected) {
			t.Fatalf("Expected %d entries, got %+v", len(expected), chart.Entries)
		}
		for i, want := range expected {
			e := chart.Entries[i]
			if e.ItemID != want.id || e.Score != want.score || e.Rank != i+1 {
				t.Errorf("Entry %d: expected %s/%d/rank %d, got %+v", i, want.id, want.score, i+1, e)
			}
			if e.PreviousRank != nil {
				t.Errorf("Entry %d should be new to the chart", i)
			}
		}
		if chart.OwnerID != "owner-1" {
			t.Errorf("Expected owner-1, got %s", chart.OwnerID)
		}
	})

	t.Run("unknown poll", func(t *testing.T) {
		before := chartRefreshErrors(t)
		req := testutil.MakeRequest("POST", "/charts", models.CreateChartRequest{
			Title:   "Broken",
			PollIDs: []string{p1.ID, "missing"},
		}, nil)
		w := serve(handler.CreateChart, req, "owner-1")
		testutil.AssertStatus(t, w, http.StatusBadRequest)

		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Message != "Poll not found: missing" {
			t.Errorf("Unexpected message %q", resp.Message)
		}

		if after := chartRefreshErrors(t); after != before+1 {
			t.Errorf("Expected failed refresh to be counted, got %v -> %v", before, after)
		}
		charts, err := env.store.ListCharts(context.Background(), ranking.ChartFilter{OwnerID: "owner-1"})
		if err != nil || len(charts) != 1 {
			t.Errorf("Expected only the earlier chart stored, got %d (%v)", len(charts), err)
		}
	})

	t.Run("no polls", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/charts", models.CreateChartRequest{Title: "Empty"}, nil)
		w := serve(handler.CreateChart, req, "owner-1")
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestRefreshChart_Movement(t *testing.T) {
	env := newTestEnv(t)
	handler := NewChartHandler(env.svc)

	poll := testutil.CreateTestPoll(t, env.svc, "owner-1", models.StatusOpen, "X", "Y")
	testutil.SubmitTestBallot(t, env.svc, poll.ID, "v1", "opt-1", "opt-2")

	chart := createChart(t, handler, "owner-1", poll.ID)
	if chart.Entries[0].ItemID != "opt-1" {
		t.Fatalf("Expected X to lead, got %+v", chart.Entries)
	}

	refresh := func(caller string) *models.Chart {
		req := testutil.MakeRequest("POST", "/charts/"+chart.ID+"/refresh", nil, nil)
		w := serve(handler.RefreshChart, req, caller, "id", chart.ID)
		if w.Code != http.StatusOK {
			testutil.AssertStatus(t, w, http.StatusOK)
			return nil
		}
		var c models.Chart
		testutil.AssertJSON(t, w, &c)
		return &c
	}

	t.Run("unchanged ballots keep ranks", func(t *testing.T) {
		c := refresh("owner-1")
		if c == nil {
			return
		}
		for _, e := range c.Entries {
			if e.PreviousRank == nil || *e.PreviousRank != e.Rank {
				t.Errorf("Expected previous rank %d for %s, got %v", e.Rank, e.ItemID, e.PreviousRank)
			}
			if delta, ok := e.Movement(); !ok || delta != 0 {
				t.Errorf("Expected no movement for %s, got %d", e.ItemID, delta)
			}
		}
	})

	t.Run("flipped order swaps ranks", func(t *testing.T) {
		testutil.SubmitTestBallot(t, env.svc, poll.ID, "v2", "opt-2", "opt-1")
		testutil.SubmitTestBallot(t, env.svc, poll.ID, "v3", "opt-2", "opt-1")

		c := refresh("owner-1")
		if c == nil {
			return
		}
		if c.Entries[0].ItemID != "opt-2" || c.Entries[1].ItemID != "opt-1" {
			t.Fatalf("Expected Y then X, got %+v", c.Entries)
		}
		if delta, ok := c.Entries[0].Movement(); !ok || delta != 1 {
			t.Errorf("Expected Y to climb one place, got %d", delta)
		}
		if delta, ok := c.Entries[1].Movement(); !ok || delta != -1 {
			t.Errorf("Expected X to drop one place, got %d", delta)
		}
		if !c.UpdatedAt.After(chart.UpdatedAt) {
			t.Error("Expected updated_at to advance")
		}
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/charts/"+chart.ID+"/refresh", nil, nil)
		w := serve(handler.RefreshChart, req, "intruder", "id", chart.ID)
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("unknown chart", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/charts/missing/refresh", nil, nil)
		w := serve(handler.RefreshChart, req, "owner-1", "id", "missing")
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestGetAndDeleteChart(t *testing.T) {
	env := newTestEnv(t)
	handler := NewChartHandler(env.svc)

	poll := testutil.CreateTestPoll(t, env.svc, "owner-1", models.StatusOpen)
	chart := createChart(t, handler, "owner-1", poll.ID)

	get := func() int {
		w := serve(handler.GetChart, testutil.MakeRequest("GET", "/charts/"+chart.ID, nil, nil), "", "id", chart.ID)
		return w.Code
	}

	if code := get(); code != http.StatusOK {
		t.Fatalf("Expected 200 before delete, got %d", code)
	}

	w := serve(handler.DeleteChart, testutil.MakeRequest("DELETE", "/charts/"+chart.ID, nil, nil), "intruder", "id", chart.ID)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	w = serve(handler.DeleteChart, testutil.MakeRequest("DELETE", "/charts/"+chart.ID, nil, nil), "owner-1", "id", chart.ID)
	testutil.AssertStatus(t, w, http.StatusNoContent)
	if w.Body.Len() != 0 {
		t.Errorf("Expected empty body, got %q", w.Body.String())
	}

	if code := get(); code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", code)
	}

	w = serve(handler.DeleteChart, testutil.MakeRequest("DELETE", "/charts/"+chart.ID, nil, nil), "owner-1", "id", chart.ID)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestListCharts(t *testing.T) {
	env := newTestEnv(t)
	handler := NewChartHandler(env.svc)

	poll := testutil.CreateTestPoll(t, env.svc, "owner-1", models.StatusOpen)
	createChart(t, handler, "owner-1", poll.ID)
	createChart(t, handler, "owner-1", poll.ID)
	createChart(t, handler, "owner-2", poll.ID)

	testCases := []struct {
		name           string
		query          string
		expectedStatus int
		expectedCount  int
	}{
		{"all", "", http.StatusOK, 3},
		{"by owner", "?owner_id=owner-1", http.StatusOK, 2},
		{"paged", "?skip=1&limit=1", http.StatusOK, 1},
		{"bad limit", "?limit=0x10", http.StatusBadRequest, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(handler.ListCharts, testutil.MakeRequest("GET", "/charts"+tc.query, nil, nil), "")
			testutil.AssertStatus(t, w, tc.expectedStatus)
			if tc.expectedStatus != http.StatusOK {
				return
			}

			var resp []models.Chart
			testutil.AssertJSON(t, w, &resp)
			if len(resp) != tc.expectedCount {
				t.Errorf("Expected %d charts, got %d", tc.expectedCount, len(resp))
			}
		})
	}
}
