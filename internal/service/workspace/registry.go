package workspace

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"studynotes/internal/auth"
	"studynotes/internal/domain"
	"studynotes/internal/domain/models"
)

var errAttachFailed = errors.New("workspace subscriptions could not be opened")

// Registry keeps one attached Session per signed-in user. Each session
// follows its own auth.StateTracker, so signing out detaches it.
type Registry struct {
	ctx        context.Context
	newSession func() *Session
	logger     *slog.Logger

	mu      sync.Mutex
	entries map[string]*registryEntry
	opening singleflight.Group
}

type registryEntry struct {
	session *Session
	tracker *auth.StateTracker
	stop    func()
}

// NewRegistry creates an empty registry. Subscriptions opened by its
// sessions live until ctx is cancelled or the user signs out.
func NewRegistry(ctx context.Context, newSession func() *Session, logger *slog.Logger) *Registry {
	return &Registry{
		ctx:        ctx,
		newSession: newSession,
		logger:     logger,
		entries:    make(map[string]*registryEntry),
	}
}

// Session returns the attached session of user, creating and attaching one
// on first use. Attaching runs outside the registry lock; concurrent first
// requests of the same user share one attach.
func (r *Registry) Session(user *models.User) (*Session, error) {
	if user == nil || user.UID == "" {
		return nil, &domain.UnauthorizedError{Message: "no authenticated user"}
	}
	if s := r.lookup(user.UID); s != nil {
		return s, nil
	}

	v, err, _ := r.opening.Do(user.UID, func() (any, error) {
		if s := r.lookup(user.UID); s != nil {
			return s, nil
		}
		return r.open(user)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

func (r *Registry) lookup(userID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[userID]; ok && e.session.User() != nil {
		return e.session
	}
	return nil
}

func (r *Registry) open(user *models.User) (*Session, error) {
	session := r.newSession()
	tracker := auth.NewStateTracker(nil, r.logger)
	e := &registryEntry{
		session: session,
		tracker: tracker,
		stop:    session.Follow(r.ctx, tracker),
	}
	tracker.SetUser(user)

	if session.User() == nil {
		e.stop()
		return nil, domain.Transient("open workspace", errAttachFailed)
	}

	r.mu.Lock()
	r.entries[user.UID] = e
	n := len(r.entries)
	r.mu.Unlock()

	r.logger.Debug("workspace session opened", "user_id", user.UID, "sessions", n)
	return session, nil
}

// SignOut detaches and forgets the session of userID. Unknown users are
// ignored.
func (r *Registry) SignOut(userID string) {
	r.mu.Lock()
	e, ok := r.entries[userID]
	delete(r.entries, userID)
	r.mu.Unlock()
	if !ok {
		return
	}

	e.tracker.SignOut()
	e.stop()
	r.logger.Info("workspace session closed", "user_id", userID)
}

// Len reports how many sessions are open.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Close signs every user out.
func (r *Registry) Close() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		r.SignOut(id)
	}
}
