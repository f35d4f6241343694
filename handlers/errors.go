// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/rankstuff/auth"
	"github.com/danielhkuo/rankstuff/middleware"
	"github.com/danielhkuo/rankstuff/ranking"
)

// statusFor maps a core or identity error to its HTTP status. ok is false
// for errors that are not part of the API contract.
func statusFor(err error) (status int, ok bool) {
	switch {
	case errors.Is(err, ranking.ErrValidation):
		return http.StatusBadRequest, true
	case errors.Is(err, ranking.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, ranking.ErrConflict), errors.Is(err, ranking.ErrInvalidState):
		return http.StatusConflict, true
	case errors.Is(err, ranking.ErrForbidden):
		return http.StatusForbidden, true
	case errors.Is(err, auth.ErrInvalidUser):
		return http.StatusBadRequest, true
	case errors.Is(err, auth.ErrEmailTaken), errors.Is(err, auth.ErrUsernameTaken):
		return http.StatusConflict, true
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, true
	case errors.Is(err, auth.ErrInactiveUser):
		return http.StatusForbidden, true
	}
	return 0, false
}

// writeError writes err as a JSON error response. Unexpected errors are
// logged and hidden behind a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, ok := statusFor(err)
	if !ok {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	message := ranking.Message(err)
	if message == "" {
		message = err.Error()
	}
	middleware.ErrorResponse(w, status, message)
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// pageParams reads skip and limit, writing a 400 when either is malformed.
func pageParams(w http.ResponseWriter, r *http.Request) (skip, limit int, ok bool) {
	if skip, ok = queryInt(r, "skip"); !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "skip must be an integer")
		return 0, 0, false
	}
	if limit, ok = queryInt(r, "limit"); !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be an integer")
		return 0, 0, false
	}
	return skip, limit, true
}
