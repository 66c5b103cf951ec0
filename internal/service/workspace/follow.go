package workspace

import (
	"context"

	"studynotes/internal/domain/models"
)

// AuthState reports sign-in changes; *auth.StateTracker implements it.
type AuthState interface {
	User() *models.User
	OnChange(fn func(*models.User)) (remove func())
}

// Follow keeps the session attached to the current user of state: it
// attaches on sign-in, switches users on a different sign-in and detaches on
// sign-out. The returned function stops following without detaching.
func (s *Session) Follow(ctx context.Context, state AuthState) (stop func()) {
	apply := func(user *models.User) {
		if user == nil {
			s.Detach()
			return
		}
		if err := s.Attach(ctx, user); err != nil {
			s.logger.Error("failed to attach workspace after sign-in", "user_id", user.UID, "error", err)
		}
	}
	stop = state.OnChange(apply)
	if user := state.User(); user != nil {
		apply(user)
	}
	return stop
}
