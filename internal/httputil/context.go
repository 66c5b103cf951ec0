package httputil

import (
	"context"
	"net/http"

	"studynotes/internal/domain/models"
	"studynotes/internal/service/workspace"
)

// Context key type to avoid collisions
type contextKey string

const (
	userKey    contextKey = "user"
	sessionKey contextKey = "session"
)

// WithUser adds the authenticated user to the request context
func WithUser(r *http.Request, user *models.User) *http.Request {
	ctx := context.WithValue(r.Context(), userKey, user)
	return r.WithContext(ctx)
}

// GetUser retrieves the authenticated user, nil if the request is anonymous
func GetUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userKey).(*models.User)
	return user
}

// GetUserID returns the authenticated user's id or ""
func GetUserID(r *http.Request) string {
	if user := GetUser(r); user != nil {
		return user.UID
	}
	return ""
}

// WithSession adds the user's workspace session to the request context
func WithSession(r *http.Request, s *workspace.Session) *http.Request {
	ctx := context.WithValue(r.Context(), sessionKey, s)
	return r.WithContext(ctx)
}

// GetSession retrieves the workspace session, nil if none was resolved
func GetSession(r *http.Request) *workspace.Session {
	s, _ := r.Context().Value(sessionKey).(*workspace.Session)
	return s
}
