// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielhkuo/rankstuff/models"
	"github.com/danielhkuo/rankstuff/testutil"
)

func ballotBody(pairs ...interface{}) models.SubmitBallotRequest {
	var req models.SubmitBallotRequest
	for i := 0; i+1 < len(pairs); i += 2 {
		req.Rankings = append(req.Rankings, models.RankedChoice{
			OptionID: pairs[i].(string),
			Rank:     pairs[i+1].(int),
		})
	}
	return req
}

func TestSubmitBallot(t *testing.T) {
	env := newTestEnv(t)
	handler := NewVotingHandler(env.svc)

	open := testutil.CreateTestPoll(t, env.svc, "owner-1", models.StatusOpen)
	draft := testutil.CreateTestPoll(t, env.svc, "owner-1", models.StatusDraft)
	closed := testutil.CreateTestPoll(t, env.svc, "owner-1", models.StatusClosed)

	testCases := []struct {
		name           string
		pollID         string
		voter          string
		body           models.SubmitBallotRequest
		expectedStatus int
		expectedMsg    string
	}{
		{"valid ballot", open.ID, "voter-1", ballotBody("opt-1", 1, "opt-2", 2, "opt-3", 3), http.StatusCreated, ""},
		{"partial ballot accepted", open.ID, "voter-2", ballotBody("opt-2", 1), http.StatusCreated, ""},
		{"repeated ranks accepted", open.ID, "voter-3", ballotBody("opt-1", 1, "opt-2", 1), http.StatusCreated, ""},
		{"second ballot rejected", open.ID, "voter-1", ballotBody("opt-3", 1), http.StatusConflict, "You have already voted in this poll"},
		{"unknown poll", "missing", "voter-4", ballotBody("opt-1", 1), http.StatusNotFound, "Poll not found"},
		{"draft poll", draft.ID, "voter-4", ballotBody("opt-1", 1), http.StatusConflict, "Poll is not open for voting"},
		{"closed poll", closed.ID, "voter-4", ballotBody("opt-1", 1), http.StatusConflict, "Poll is not open for voting"},
		{"unknown option", open.ID, "voter-4", ballotBody("opt-1", 1, "opt-9", 2), http.StatusBadRequest, "Invalid option ID: opt-9"},
		{"empty rankings", open.ID, "voter-4", ballotBody(), http.StatusBadRequest, "rankings cannot be empty"},
		{"zero rank", open.ID, "voter-4", ballotBody("opt-1", 0), http.StatusBadRequest, "rank for opt-1 must be a positive integer"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/polls/"+tc.pollID+"/vote", tc.body, nil)
			w := serve(handler.SubmitBallot, req, tc.voter, "id", tc.pollID)

			testutil.AssertStatus(t, w, tc.expectedStatus)

			if tc.expectedStatus == http.StatusCreated {
				var resp models.BallotResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.ID == "" || resp.PollID != tc.pollID || resp.UserID != tc.voter {
					t.Errorf("Unexpected ballot response: %+v", resp)
				}
				return
			}

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Message != tc.expectedMsg {
				t.Errorf("Expected message %q, got %q", tc.expectedMsg, resp.Message)
			}
		})
	}

	t.Run("first ballot unchanged after rejected second", func(t *testing.T) {
		b, ok, err := env.svc.GetBallot(context.Background(), open.ID, "voter-1")
		if err != nil || !ok {
			t.Fatalf("Expected stored ballot, got ok=%v err=%v", ok, err)
		}
		if len(b.Rankings) != 3 || b.Rankings[0].OptionID != "opt-1" {
			t.Errorf("First ballot was modified: %+v", b.Rankings)
		}
	})
}

func TestSubmitBallot_StrictPolicy(t *testing.T) {
	env := newTestEnv(t)
	cfg := testutil.GetTestConfig()
	cfg.StrictBallots = true
	svc, _ := testutil.Services(env.store, cfg)
	handler := NewVotingHandler(svc)

	poll := testutil.CreateTestPoll(t, svc, "owner-1", models.StatusOpen)

	testCases := []struct {
		name           string
		body           models.SubmitBallotRequest
		expectedStatus int
	}{
		{"rank beyond option count", ballotBody("opt-1", 4), http.StatusBadRequest},
		{"duplicate rank", ballotBody("opt-1", 1, "opt-2", 1), http.StatusBadRequest},
		{"option ranked twice", ballotBody("opt-1", 1, "opt-1", 2), http.StatusBadRequest},
		{"valid permutation", ballotBody("opt-3", 1, "opt-1", 2, "opt-2", 3), http.StatusCreated},
	}

	for i, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			voter := "strict-voter-" + string(rune('a'+i))
			req := testutil.MakeRequest("POST", "/polls/"+poll.ID+"/vote", tc.body, nil)
			w := serve(handler.SubmitBallot, req, voter, "id", poll.ID)

			testutil.AssertStatus(t, w, tc.expectedStatus)
		})
	}
}

func TestSubmitBallot_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)
	handler := NewVotingHandler(env.svc)
	poll := testutil.CreateTestPoll(t, env.svc, "owner-1", models.StatusOpen)

	req := testutil.MakeRequest("POST", "/polls/"+poll.ID+"/vote", "not an object", nil)
	w := serve(handler.SubmitBallot, req, "voter-1", "id", poll.ID)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestHasVoted(t *testing.T) {
	env := newTestEnv(t)
	handler := NewVotingHandler(env.svc)

	poll := testutil.CreateTestPoll(t, env.svc, "owner-1", models.StatusOpen)
	testutil.SubmitTestBallot(t, env.svc, poll.ID, "voter-1", "opt-1")

	testCases := []struct {
		name           string
		pollID         string
		caller         string
		expectedStatus int
		expectedVoted  bool
	}{
		{"voter who voted", poll.ID, "voter-1", http.StatusOK, true},
		{"voter who did not", poll.ID, "voter-2", http.StatusOK, false},
		{"unknown poll", "missing", "voter-1", http.StatusNotFound, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/polls/"+tc.pollID+"/voted", nil, nil)
			w := serve(handler.HasVoted, req, tc.caller, "id", tc.pollID)

			testutil.AssertStatus(t, w, tc.expectedStatus)
			if tc.expectedStatus != http.StatusOK {
				return
			}

			var resp models.HasVotedResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.HasVoted != tc.expectedVoted {
				t.Errorf("Expected has_voted %v, got %v", tc.expectedVoted, resp.HasVoted)
			}
		})
	}
}
