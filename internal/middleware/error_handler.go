package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"studynotes/internal/domain"
	"studynotes/internal/httputil"
)

// HandleError maps a domain error to an RFC 7807 response. Unexpected
// errors are logged and reported as 500 without detail.
func HandleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var transient *domain.TransientError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrConfiguration):
		logger.Error("backend not configured",
			"error", err,
			"path", r.URL.Path,
		)
		httputil.RespondError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &transient):
		logger.Warn("upstream failure",
			"op", transient.Op,
			"error", transient.Err,
			"path", r.URL.Path,
			"method", r.Method,
		)
		httputil.RespondErrorWithExtras(w, http.StatusBadGateway, transient.Op+" failed",
			map[string]interface{}{"operation": transient.Op})
	default:
		logger.Error("unexpected error",
			"error", err,
			"path", r.URL.Path,
			"method", r.Method,
		)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
