// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms), and records the request in the
rankstuff_http_request_duration_seconds histogram under its route pattern.

# Authentication

RequireAuth checks the "Authorization: Bearer <token>" header:

	mux.HandleFunc("POST /polls", middleware.WithLogging(
		middleware.RequireAuth(tokens, pollHandler.CreatePoll)))

Missing or invalid tokens get 401 with a WWW-Authenticate header. On
success the caller's user id is available to the handler:

	owner := middleware.CallerID(r)

# CORS Middleware

Enable cross-origin requests for the configured frontend origins:

	server := http.Server{
		Handler: middleware.CORS(cfg.CORSOrigins)(mux),
	}

Origins outside the list get no CORS headers. Preflight OPTIONS requests
are answered directly.

# Responses and Bodies

JSONResponse encodes any value with the given status. ErrorResponse wraps
a message in models.ErrorResponse with the status text as "error". Handlers
decode bodies with ParseJSONBody and answer decode failures with 400.

# Client Address

GetClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then
the host part of RemoteAddr. The logging middleware reports it as "remote".
*/
package middleware
