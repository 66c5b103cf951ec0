package middleware

import (
	"log/slog"
	"net/http"

	"studynotes/internal/domain/models"
	"studynotes/internal/httputil"
	"studynotes/internal/service/workspace"
)

// SessionProvider hands out the attached workspace session of a user
type SessionProvider interface {
	Session(user *models.User) (*workspace.Session, error)
}

// SessionMiddleware resolves the workspace session of the authenticated
// user and stores it in the request context. Requests without a user pass
// through untouched.
func SessionMiddleware(sessions SessionProvider, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := httputil.GetUser(r)
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			s, err := sessions.Session(user)
			if err != nil {
				HandleError(w, r, logger, err)
				return
			}
			next.ServeHTTP(w, httputil.WithSession(r, s))
		})
	}
}
