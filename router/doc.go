// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the rankstuff API.

# Route Registration

NewRouter creates a configured http.ServeMux backed by a SQL database:

	mux := router.NewRouter(db, cfg)

For any other store, build the services first:

	svc, users := router.NewServices(store.NewMemory(), cfg)
	mux := router.New(svc, users)

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Accounts:

	POST /auth/register - Create account
	POST /auth/login    - Exchange credentials for a bearer token
	GET  /auth/me       - Current account (bearer)

Polls (mutations require a bearer token; open and close are owner only):

	POST /polls            - Create draft poll
	GET  /polls            - List (owner_id, status, skip, limit)
	GET  /polls/{id}       - Poll with vote_count
	POST /polls/{id}/open  - Draft → open
	POST /polls/{id}/close - Open → closed

Voting (bearer):

	POST /polls/{id}/vote  - Submit ranked ballot (once per voter)
	GET  /polls/{id}/voted - Whether the caller has voted

Results (public):

	GET /polls/{id}/results      - Borda scores
	GET /polls/{id}/ballot-count - Vote count

Charts (mutations are owner only):

	POST   /charts              - Create and populate chart
	GET    /charts              - List (owner_id, skip, limit)
	GET    /charts/{id}         - Chart snapshot
	POST   /charts/{id}/refresh - Recompute entries
	DELETE /charts/{id}         - Delete chart

Every API route is wrapped with middleware.WithLogging; bearer routes also
pass through middleware.RequireAuth.
*/
package router
