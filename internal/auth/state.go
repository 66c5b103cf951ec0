package auth

import (
	"context"
	"log/slog"
	"sync"

	"studynotes/internal/domain/models"
)

// StateTracker holds the signed-in user of one client and tells listeners
// when it changes. Signing in again as the same user is not a change.
type StateTracker struct {
	verifier JWTVerifier
	logger   *slog.Logger

	mu        sync.Mutex
	user      *models.User
	next      uint64
	listeners map[uint64]func(*models.User)
}

// NewStateTracker creates a signed-out tracker. verifier may be nil when
// users are only set through SetUser.
func NewStateTracker(verifier JWTVerifier, logger *slog.Logger) *StateTracker {
	return &StateTracker{
		verifier:  verifier,
		logger:    logger,
		listeners: make(map[uint64]func(*models.User)),
	}
}

// SignIn verifies token and makes its user current.
func (t *StateTracker) SignIn(ctx context.Context, token string) (*models.User, error) {
	user, err := t.verifier.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}
	t.SetUser(user)
	return user, nil
}

// SetUser makes an already verified user current.
func (t *StateTracker) SetUser(user *models.User) {
	if user == nil {
		t.SignOut()
		return
	}
	u := *user
	t.mu.Lock()
	if t.user != nil && t.user.UID == u.UID {
		t.user = &u
		t.mu.Unlock()
		return
	}
	t.user = &u
	fns := t.listenersLocked()
	t.mu.Unlock()

	t.logger.Info("signed in", "user_id", u.UID)
	for _, fn := range fns {
		fn(&u)
	}
}

// SignOut clears the current user.
func (t *StateTracker) SignOut() {
	t.mu.Lock()
	if t.user == nil {
		t.mu.Unlock()
		return
	}
	uid := t.user.UID
	t.user = nil
	fns := t.listenersLocked()
	t.mu.Unlock()

	t.logger.Info("signed out", "user_id", uid)
	for _, fn := range fns {
		fn(nil)
	}
}

// User returns a copy of the current user, or nil.
func (t *StateTracker) User() *models.User {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.user == nil {
		return nil
	}
	u := *t.user
	return &u
}

// OnChange registers fn to run with the new user (nil on sign-out) after
// every change. The returned function removes it.
func (t *StateTracker) OnChange(fn func(*models.User)) (remove func()) {
	t.mu.Lock()
	id := t.next
	t.next++
	t.listeners[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.listeners, id)
		t.mu.Unlock()
	}
}

func (t *StateTracker) listenersLocked() []func(*models.User) {
	fns := make([]func(*models.User), 0, len(t.listeners))
	for _, fn := range t.listeners {
		fns = append(fns, fn)
	}
	return fns
}
