// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/rankstuff/auth"
	"github.com/danielhkuo/rankstuff/ranking"
	"github.com/danielhkuo/rankstuff/store"
	"github.com/danielhkuo/rankstuff/testutil"
)

// testEnv wires services over a fresh in-memory SQLite database.
type testEnv struct {
	svc   *ranking.Service
	users *auth.Service
	store *store.SQL
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := store.NewSQL(testutil.SetupTestDB(t))
	svc, users := testutil.Services(st, testutil.GetTestConfig())
	return &testEnv{svc: svc, users: users, store: st}
}

// serve runs handler for req with path values and, when caller is not
// empty, an authenticated caller.
func serve(handler http.HandlerFunc, req *http.Request, caller string, pathValues ...string) *httptest.ResponseRecorder {
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	if caller != "" {
		req = testutil.AsCaller(req, caller)
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}
