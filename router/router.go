// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/rankstuff/auth"
	"github.com/danielhkuo/rankstuff/cliparse"
	"github.com/danielhkuo/rankstuff/handlers"
	"github.com/danielhkuo/rankstuff/metrics"
	"github.com/danielhkuo/rankstuff/middleware"
	"github.com/danielhkuo/rankstuff/ranking"
	"github.com/danielhkuo/rankstuff/store"
)

// Banner is the body of GET /.
const Banner = "rankstuff API v1"

// NewServices builds the ranking and identity services over st.
func NewServices(st store.Store, cfg cliparse.Config) (*ranking.Service, *auth.Service) {
	polls := ranking.NewService(st, st, st, ranking.WithBallotPolicy(cfg.BallotPolicy()))
	users := auth.NewService(st, auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL))
	return polls, users
}

// NewRouter serves the API from a SQL database.
func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	return New(NewServices(store.NewSQL(db), cfg))
}

func New(svc *ranking.Service, users *auth.Service) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(users)
	pollHandler := handlers.NewPollHandler(svc)
	votingHandler := handlers.NewVotingHandler(svc)
	resultsHandler := handlers.NewResultsHandler(svc)
	chartHandler := handlers.NewChartHandler(svc)

	tokens := users.Tokens()
	public := middleware.WithLogging
	private := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAuth(tokens, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Accounts
	mux.HandleFunc("POST /auth/register", public(authHandler.Register))
	mux.HandleFunc("POST /auth/login", public(authHandler.Login))
	mux.HandleFunc("GET /auth/me", private(authHandler.Me))

	// Poll lifecycle (owner operations)
	mux.HandleFunc("POST /polls", private(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls", public(pollHandler.ListPolls))
	mux.HandleFunc("GET /polls/{id}", public(pollHandler.GetPoll))
	mux.HandleFunc("POST /polls/{id}/open", private(pollHandler.OpenPoll))
	mux.HandleFunc("POST /polls/{id}/close", private(pollHandler.ClosePoll))

	// Voting
	mux.HandleFunc("POST /polls/{id}/vote", private(votingHandler.SubmitBallot))
	mux.HandleFunc("GET /polls/{id}/voted", private(votingHandler.HasVoted))

	// Results (public, computed on demand)
	mux.HandleFunc("GET /polls/{id}/results", public(resultsHandler.GetResults))
	mux.HandleFunc("GET /polls/{id}/ballot-count", public(resultsHandler.GetBallotCount))

	// Charts
	mux.HandleFunc("POST /charts", private(chartHandler.CreateChart))
	mux.HandleFunc("GET /charts", public(chartHandler.ListCharts))
	mux.HandleFunc("GET /charts/{id}", public(chartHandler.GetChart))
	mux.HandleFunc("POST /charts/{id}/refresh", private(chartHandler.RefreshChart))
	mux.HandleFunc("DELETE /charts/{id}", private(chartHandler.DeleteChart))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(Banner))
	})

	return mux
}
