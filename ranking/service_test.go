// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ranking_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/danielhkuo/rankstuff/models"
	"github.com/danielhkuo/rankstuff/ranking"
	"github.com/danielhkuo/rankstuff/store"
	"github.com/danielhkuo/rankstuff/testutil"
)

// newService returns a service over an empty in-memory store with a clock
// that advances one second per call and sequential ids.
func newService(opts ...ranking.ServiceOption) *ranking.Service {
	st := store.NewMemory()

	clock := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	seq := 0
	base := []ranking.ServiceOption{
		ranking.WithClock(func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}),
		ranking.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	}
	return ranking.NewService(st, st, st, append(base, opts...)...)
}

func expectKind(t *testing.T, err, kind error, message string) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("Expected %v, got %v", kind, err)
	}
	if message != "" && ranking.Message(err) != message {
		t.Errorf("Expected message %q, got %q", message, ranking.Message(err))
	}
}

func TestCreatePoll(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	p, err := svc.CreatePoll(ctx, models.CreatePollRequest{
		Title:   "Best fruit",
		Options: testutil.TestOptions("Apple", "Pear"),
	}, "owner-1")
	if err != nil {
		t.Fatalf("CreatePoll failed: %v", err)
	}
	if p.ID != "id-1" || p.Status != models.StatusDraft || p.OwnerID != "owner-1" {
		t.Errorf("Unexpected poll: %+v", p)
	}

	got, err := svc.GetPoll(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPoll failed: %v", err)
	}
	if got.Title != p.Title || len(got.Options) != 2 {
		t.Errorf("Stored poll differs: %+v", got)
	}

	_, err = svc.CreatePoll(ctx, models.CreatePollRequest{Title: "x", Options: testutil.TestOptions("A")}, "owner-1")
	expectKind(t, err, ranking.ErrValidation, "poll must have at least 2 options")

	_, err = svc.CreatePoll(ctx, models.CreatePollRequest{Title: "x", Options: testutil.TestOptions("A", "B")}, "")
	expectKind(t, err, ranking.ErrValidation, "owner is required")

	_, err = svc.GetPoll(ctx, "missing")
	expectKind(t, err, ranking.ErrNotFound, "Poll not found")
}

func TestPollTransitions(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	p := testutil.CreateTestPoll(t, svc, "owner-1", models.StatusDraft)

	_, err := svc.OpenPoll(ctx, p.ID, "stranger")
	expectKind(t, err, ranking.ErrForbidden, "You do not have permission to modify this poll")

	_, err = svc.ClosePoll(ctx, p.ID, "owner-1")
	expectKind(t, err, ranking.ErrInvalidState, "Only open polls can be closed")

	opened, err := svc.OpenPoll(ctx, p.ID, "owner-1")
	if err != nil || opened.Status != models.StatusOpen {
		t.Fatalf("OpenPoll: %+v, %v", opened, err)
	}

	_, err = svc.OpenPoll(ctx, p.ID, "owner-1")
	expectKind(t, err, ranking.ErrInvalidState, "Only draft polls can be opened")

	closed, err := svc.ClosePoll(ctx, p.ID, "owner-1")
	if err != nil || closed.Status != models.StatusClosed {
		t.Fatalf("ClosePoll: %+v, %v", closed, err)
	}

	_, err = svc.ClosePoll(ctx, p.ID, "owner-1")
	expectKind(t, err, ranking.ErrInvalidState, "")
	_, err = svc.OpenPoll(ctx, p.ID, "owner-1")
	expectKind(t, err, ranking.ErrInvalidState, "")

	_, err = svc.OpenPoll(ctx, "missing", "owner-1")
	expectKind(t, err, ranking.ErrNotFound, "")
}

func TestSubmitBallot_Preconditions(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	draft := testutil.CreateTestPoll(t, svc, "owner-1", models.StatusDraft)
	open := testutil.CreateTestPoll(t, svc, "owner-1", models.StatusOpen)
	closed := testutil.CreateTestPoll(t, svc, "owner-1", models.StatusClosed)

	valid := []models.RankedChoice{{OptionID: "opt-1", Rank: 1}}
	invalid := []models.RankedChoice{{OptionID: "opt-9", Rank: 1}}

	_, err := svc.SubmitBallot(ctx, "missing", "v1", valid)
	expectKind(t, err, ranking.ErrNotFound, "Poll not found")

	_, err = svc.SubmitBallot(ctx, draft.ID, "v1", valid)
	expectKind(t, err, ranking.ErrInvalidState, "Poll is not open for voting")

	_, err = svc.SubmitBallot(ctx, closed.ID, "v1", invalid)
	expectKind(t, err, ranking.ErrInvalidState, "Poll is not open for voting")

	_, err = svc.SubmitBallot(ctx, open.ID, "v1", invalid)
	expectKind(t, err, ranking.ErrValidation, "Invalid option ID: opt-9")

	b, err := svc.SubmitBallot(ctx, open.ID, "v1", valid)
	if err != nil {
		t.Fatalf("SubmitBallot failed: %v", err)
	}
	if b.PollID != open.ID || b.VoterID != "v1" || b.SubmittedAt.IsZero() {
		t.Errorf("Unexpected ballot: %+v", b)
	}

	// Duplicate check runs before option validation
	_, err = svc.SubmitBallot(ctx, open.ID, "v1", invalid)
	expectKind(t, err, ranking.ErrConflict, "You have already voted in this poll")

	stored, ok, err := svc.GetBallot(ctx, open.ID, "v1")
	if err != nil || !ok || stored.ID != b.ID {
		t.Errorf("GetBallot: %+v, %v, %v", stored, ok, err)
	}
	if _, ok, _ := svc.GetBallot(ctx, open.ID, "v2"); ok {
		t.Error("Expected no ballot for v2")
	}
}

func TestSubmitBallot_StrictPolicy(t *testing.T) {
	svc := newService(ranking.WithBallotPolicy(ranking.PolicyStrict))
	ctx := context.Background()
	p := testutil.CreateTestPoll(t, svc, "owner-1", models.StatusOpen)

	if svc.Policy() != ranking.PolicyStrict {
		t.Fatalf("Expected strict policy, got %s", svc.Policy())
	}

	_, err := svc.SubmitBallot(ctx, p.ID, "v1", []models.RankedChoice{
		{OptionID: "opt-1", Rank: 1},
		{OptionID: "opt-2", Rank: 1},
	})
	expectKind(t, err, ranking.ErrValidation, "rank 1 is used more than once")

	count, _ := svc.CountBallots(ctx, p.ID)
	if count != 0 {
		t.Errorf("Rejected ballot was stored")
	}
}

func TestResults(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	p := testutil.CreateTestPoll(t, svc, "owner-1", models.StatusOpen, "A", "B", "C")

	testutil.SubmitTestBallot(t, svc, p.ID, "v1", "opt-3", "opt-1")

	results, err := svc.Results(ctx, p.ID)
	if err != nil {
		t.Fatalf("Results failed: %v", err)
	}
	if results.TotalVotes != 1 || results.Title != p.Title {
		t.Errorf("Unexpected summary: %+v", results)
	}
	// C 3, A 2, B 0
	order := []string{"opt-3", "opt-1", "opt-2"}
	for i, id := range order {
		if results.Results[i].OptionID != id {
			t.Errorf("Position %d: expected %s, got %s", i+1, id, results.Results[i].OptionID)
		}
	}

	// Results stay available after close
	if _, err := svc.ClosePoll(ctx, p.ID, "owner-1"); err != nil {
		t.Fatalf("ClosePoll failed: %v", err)
	}
	after, err := svc.Results(ctx, p.ID)
	if err != nil || after.TotalVotes != 1 {
		t.Errorf("Results after close: %+v, %v", after, err)
	}

	_, err = svc.Results(ctx, "missing")
	expectKind(t, err, ranking.ErrNotFound, "")
}

func TestListPolls(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	testutil.CreateTestPoll(t, svc, "alice", models.StatusDraft)
	testutil.CreateTestPoll(t, svc, "alice", models.StatusOpen)
	testutil.CreateTestPoll(t, svc, "bob", models.StatusOpen)

	testCases := []struct {
		name     string
		filter   ranking.PollFilter
		expected int
		errMsg   string
	}{
		{"all", ranking.PollFilter{}, 3, ""},
		{"owner", ranking.PollFilter{OwnerID: "alice"}, 2, ""},
		{"status", ranking.PollFilter{Status: models.StatusOpen}, 2, ""},
		{"owner and status", ranking.PollFilter{OwnerID: "bob", Status: models.StatusDraft}, 0, ""},
		{"skip", ranking.PollFilter{Skip: 2}, 1, ""},
		{"limit", ranking.PollFilter{Limit: 1}, 1, ""},
		{"unknown status", ranking.PollFilter{Status: "archived"}, 0, "unknown status: archived"},
		{"negative skip", ranking.PollFilter{Skip: -1}, 0, "skip must not be negative"},
		{"limit too large", ranking.PollFilter{Limit: ranking.MaxLimit + 1}, 0, "limit must be between 1 and 100"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			polls, err := svc.ListPolls(ctx, tc.filter)
			if tc.errMsg != "" {
				expectKind(t, err, ranking.ErrValidation, tc.errMsg)
				return
			}
			if err != nil {
				t.Fatalf("ListPolls failed: %v", err)
			}
			if len(polls) != tc.expected {
				t.Errorf("Expected %d polls, got %d", tc.expected, len(polls))
			}
		})
	}
}

func TestDuePolls(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	now := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	// More due polls than one page holds
	for i := 0; i < ranking.MaxLimit+5; i++ {
		closesAt := now.Add(-time.Minute)
		p, err := svc.CreatePoll(ctx, models.CreatePollRequest{
			Title:    "Due",
			Options:  testutil.TestOptions("A", "B"),
			ClosesAt: &closesAt,
		}, "owner-1")
		if err != nil {
			t.Fatalf("CreatePoll failed: %v", err)
		}
		if _, err := svc.OpenPoll(ctx, p.ID, "owner-1"); err != nil {
			t.Fatalf("OpenPoll failed: %v", err)
		}
	}

	future := now.Add(time.Hour)
	p, err := svc.CreatePoll(ctx, models.CreatePollRequest{
		Title:    "Later",
		Options:  testutil.TestOptions("A", "B"),
		ClosesAt: &future,
	}, "owner-1")
	if err != nil {
		t.Fatalf("CreatePoll failed: %v", err)
	}
	if _, err := svc.OpenPoll(ctx, p.ID, "owner-1"); err != nil {
		t.Fatalf("OpenPoll failed: %v", err)
	}

	due, err := svc.DuePolls(ctx, now)
	if err != nil {
		t.Fatalf("DuePolls failed: %v", err)
	}
	if len(due) != ranking.MaxLimit+5 {
		t.Errorf("Expected %d due polls, got %d", ranking.MaxLimit+5, len(due))
	}
	for _, d := range due {
		if d.ID == p.ID {
			t.Error("Future poll reported as due")
		}
	}
}

func TestCharts(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	p := testutil.CreateTestPoll(t, svc, "owner-1", models.StatusOpen, "X", "Y")
	testutil.SubmitTestBallot(t, svc, p.ID, "v1", "opt-1", "opt-2")

	chart, err := svc.CreateChart(ctx, models.CreateChartRequest{Title: "Top", PollIDs: []string{p.ID}}, "owner-1")
	if err != nil {
		t.Fatalf("CreateChart failed: %v", err)
	}
	if len(chart.Entries) != 2 || chart.Entries[0].ItemID != "opt-1" || chart.Entries[0].PreviousRank != nil {
		t.Fatalf("Unexpected entries: %+v", chart.Entries)
	}
	if !chart.UpdatedAt.After(chart.CreatedAt) {
		t.Errorf("Expected refresh to stamp a later updated_at")
	}

	stored, err := svc.GetChart(ctx, chart.ID)
	if err != nil || len(stored.Entries) != 2 {
		t.Fatalf("GetChart: %+v, %v", stored, err)
	}

	_, err = svc.RefreshChart(ctx, chart.ID, "stranger")
	expectKind(t, err, ranking.ErrForbidden, "You do not have permission to modify this chart")

	testutil.SubmitTestBallot(t, svc, p.ID, "v2", "opt-2", "opt-1")
	testutil.SubmitTestBallot(t, svc, p.ID, "v3", "opt-2", "opt-1")

	refreshed, err := svc.RefreshChart(ctx, chart.ID, "owner-1")
	if err != nil {
		t.Fatalf("RefreshChart failed: %v", err)
	}
	if refreshed.Entries[0].ItemID != "opt-2" {
		t.Fatalf("Expected opt-2 to lead, got %+v", refreshed.Entries)
	}
	if delta, ok := refreshed.Entries[0].Movement(); !ok || delta != 1 {
		t.Errorf("Expected opt-2 to climb one place, got %d", delta)
	}
	if refreshed.OwnerID != "owner-1" || !refreshed.CreatedAt.Equal(chart.CreatedAt) {
		t.Errorf("Refresh changed identity fields: %+v", refreshed)
	}

	charts, err := svc.ListCharts(ctx, ranking.ChartFilter{OwnerID: "owner-1"})
	if err != nil || len(charts) != 1 {
		t.Errorf("ListCharts: %d, %v", len(charts), err)
	}

	err = svc.DeleteChart(ctx, chart.ID, "stranger")
	expectKind(t, err, ranking.ErrForbidden, "")
	if err := svc.DeleteChart(ctx, chart.ID, "owner-1"); err != nil {
		t.Fatalf("DeleteChart failed: %v", err)
	}
	_, err = svc.GetChart(ctx, chart.ID)
	expectKind(t, err, ranking.ErrNotFound, "Chart not found")
	_, err = svc.RefreshChart(ctx, chart.ID, "owner-1")
	expectKind(t, err, ranking.ErrNotFound, "")

	_, err = svc.CreateChart(ctx, models.CreateChartRequest{Title: "Bad", PollIDs: []string{"missing"}}, "owner-1")
	expectKind(t, err, ranking.ErrValidation, "Poll not found: missing")
}

// brokenBallots fails every ballot listing.
type brokenBallots struct {
	*store.Memory
}

var errBallotsDown = errors.New("ballot store unavailable")

func (brokenBallots) ListBallots(context.Context, string) ([]models.Ballot, error) {
	return nil, errBallotsDown
}

func TestCreateChart_NothingStoredOnFailure(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	healthy := ranking.NewService(st, st, st)
	p := testutil.CreateTestPoll(t, healthy, "owner-1", models.StatusOpen, "X", "Y")

	svc := ranking.NewService(st, brokenBallots{st}, st)
	_, err := svc.CreateChart(ctx, models.CreateChartRequest{Title: "Top", PollIDs: []string{p.ID}}, "owner-1")
	if !errors.Is(err, errBallotsDown) {
		t.Fatalf("Expected storage error, got %v", err)
	}

	charts, err := svc.ListCharts(ctx, ranking.ChartFilter{OwnerID: "owner-1"})
	if err != nil || len(charts) != 0 {
		t.Errorf("Expected no stored chart, got %d (%v)", len(charts), err)
	}
}
