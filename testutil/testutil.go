// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/rankstuff/auth"
	"github.com/danielhkuo/rankstuff/cliparse"
	"github.com/danielhkuo/rankstuff/db"
	"github.com/danielhkuo/rankstuff/middleware"
	"github.com/danielhkuo/rankstuff/models"
	"github.com/danielhkuo/rankstuff/ranking"
	"github.com/danielhkuo/rankstuff/store"
)

// TestDBURL is an in-memory SQLite database private to one connection
const TestDBURL = ":memory:"

// TestPassword is the password of every user created by CreateTestUser
const TestPassword = "correct-horse-battery"

// SetupTestDB creates a fresh in-memory database with the full schema.
// The database is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          cliparse.DefaultPort,
		DatabaseURL:   TestDBURL,
		DatabaseType:  db.TypeSQLite,
		JWTSecret:     "test-jwt-secret",
		TokenTTL:      time.Hour,
		CORSOrigins:   []string{"http://localhost:3000"},
		CloseInterval: 0,
	}
}

// Services builds the ranking and identity services over st the way the
// router does.
func Services(st store.Store, cfg cliparse.Config) (*ranking.Service, *auth.Service) {
	return ranking.NewService(st, st, st, ranking.WithBallotPolicy(cfg.BallotPolicy())),
		auth.NewService(st, auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL))
}

// CreateTestUser registers a user and returns its id and a bearer token
func CreateTestUser(t *testing.T, users *auth.Service, username string) (userID, token string) {
	t.Helper()

	ctx := context.Background()
	u, err := users.Register(ctx, models.RegisterRequest{
		Email:    username + "@example.com",
		Username: username,
		Password: TestPassword,
	})
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	token, err = users.Login(ctx, u.Email, TestPassword)
	if err != nil {
		t.Fatalf("Failed to log in test user: %v", err)
	}

	return u.ID, token
}

// AuthHeader returns request headers carrying a bearer token
func AuthHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// TestOptions returns options with ids opt-1..opt-n labelled by labels
func TestOptions(labels ...string) []models.Option {
	options := make([]models.Option, len(labels))
	for i, label := range labels {
		options[i] = models.Option{ID: fmt.Sprintf("opt-%d", i+1), Label: label}
	}
	return options
}

// CreateTestPoll creates a poll owned by owner and moves it to status.
// status should be "draft", "open", or "closed"
func CreateTestPoll(t *testing.T, svc *ranking.Service, owner string, status models.PollStatus, labels ...string) models.Poll {
	t.Helper()

	if len(labels) == 0 {
		labels = []string{"Option A", "Option B", "Option C"}
	}

	ctx := context.Background()
	p, err := svc.CreatePoll(ctx, models.CreatePollRequest{
		Title:   "Test Poll",
		Options: TestOptions(labels...),
	}, owner)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	if status == models.StatusOpen || status == models.StatusClosed {
		if p, err = svc.OpenPoll(ctx, p.ID, owner); err != nil {
			t.Fatalf("Failed to open test poll: %v", err)
		}
	}
	if status == models.StatusClosed {
		if p, err = svc.ClosePoll(ctx, p.ID, owner); err != nil {
			t.Fatalf("Failed to close test poll: %v", err)
		}
	}

	return p
}

// SubmitTestBallot records a ballot ranking optionIDs 1..n in order
func SubmitTestBallot(t *testing.T, svc *ranking.Service, pollID, voterID string, optionIDs ...string) models.Ballot {
	t.Helper()

	rankings := make([]models.RankedChoice, len(optionIDs))
	for i, id := range optionIDs {
		rankings[i] = models.RankedChoice{OptionID: id, Rank: i + 1}
	}

	b, err := svc.SubmitBallot(context.Background(), pollID, voterID, rankings)
	if err != nil {
		t.Fatalf("Failed to submit test ballot: %v", err)
	}
	return b
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AsCaller returns req authenticated as userID, as RequireAuth would
// leave it
func AsCaller(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithCaller(req.Context(), userID))
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
