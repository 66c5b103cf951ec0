package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"studynotes/internal/httputil"
	"studynotes/internal/middleware"
	"studynotes/internal/service/workspace"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	middleware.HandleError(w, r, logger, err)
}

// PathParam reads a required path value. It writes a 400 and returns false
// when the value is empty.
func PathParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	v := strings.TrimSpace(r.PathValue(name))
	if v == "" {
		httputil.RespondError(w, http.StatusBadRequest, label+" is required")
		return "", false
	}
	return v, true
}

// requireSession returns the caller's workspace session, writing a 401 when
// the request carries none.
func requireSession(w http.ResponseWriter, r *http.Request) (*workspace.Session, bool) {
	s := httputil.GetSession(r)
	if s == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "no workspace session")
		return nil, false
	}
	return s, true
}
