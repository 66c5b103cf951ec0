package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"studynotes/internal/domain"
	"studynotes/internal/domain/models"
	wsmodels "studynotes/internal/domain/models/workspace"
	wsrepo "studynotes/internal/domain/repositories/workspace"
)

// Session holds one signed-in user's workspace: the three realtime
// collections, the current selection, the full-note cache and pending
// visibility writes. All state transitions happen under mu; change
// listeners run after it is released.
type Session struct {
	folderRepo wsrepo.FolderRepository
	noteRepo   wsrepo.NoteRepository
	planRepo   wsrepo.PlanRepository
	blobs      wsrepo.BlobStore // nil = attachments disabled
	logger     *slog.Logger
	now        func() time.Time

	mu         sync.Mutex
	user       *models.User
	generation uint64
	unsubs     []wsrepo.Unsubscribe

	folders []wsmodels.Folder
	notes   []wsmodels.Note
	plans   []wsmodels.Plan
	loaded  loadState

	sel    selection
	reveal map[string]*revealState
	cache  *noteCache

	listenersMu  sync.Mutex
	listeners    map[uint64]func()
	nextListener uint64
}

type loadState struct {
	folders, notes, plans bool
}

func (l loadState) complete() bool {
	return l.folders && l.notes && l.plans
}

// NewSession creates a detached workspace session. blobs may be nil, in
// which case attachment uploads are skipped.
func NewSession(
	folderRepo wsrepo.FolderRepository,
	noteRepo wsrepo.NoteRepository,
	planRepo wsrepo.PlanRepository,
	blobs wsrepo.BlobStore,
	logger *slog.Logger,
) *Session {
	return &Session{
		folderRepo: folderRepo,
		noteRepo:   noteRepo,
		planRepo:   planRepo,
		blobs:      blobs,
		logger:     logger,
		now:        time.Now,
		sel:        newSelection(),
		reveal:     make(map[string]*revealState),
		cache:      newNoteCache(),
		listeners:  make(map[uint64]func()),
	}
}

// Attach opens the folder, note and plan subscriptions for user. Attaching
// the user that is already attached is a no-op; attaching a different user
// detaches the previous one first.
func (s *Session) Attach(ctx context.Context, user *models.User) error {
	if user == nil || user.UID == "" {
		return &domain.UnauthorizedError{Message: "no authenticated user"}
	}

	s.mu.Lock()
	if s.user != nil && s.user.UID == user.UID {
		s.mu.Unlock()
		return nil
	}
	stale := s.resetLocked()
	s.generation++
	gen := s.generation
	u := *user
	s.user = &u
	s.mu.Unlock()

	for _, unsub := range stale {
		unsub()
	}
	s.notify()

	s.logger.Info("attaching workspace session", "user_id", user.UID)

	unsubs, err := s.subscribe(ctx, gen, user.UID)
	if err != nil {
		for _, unsub := range unsubs {
			unsub()
		}
		s.mu.Lock()
		if s.generation == gen {
			s.resetLocked()
			s.generation++
		}
		s.mu.Unlock()
		s.notify()
		s.logger.Error("workspace subscription failed", "user_id", user.UID, "error", err)
		return err
	}

	s.mu.Lock()
	if s.generation != gen {
		// Detached or re-attached while subscribing.
		s.mu.Unlock()
		for _, unsub := range unsubs {
			unsub()
		}
		return nil
	}
	s.unsubs = unsubs
	s.mu.Unlock()
	return nil
}

func (s *Session) subscribe(ctx context.Context, gen uint64, userID string) ([]wsrepo.Unsubscribe, error) {
	unsubs := make([]wsrepo.Unsubscribe, 0, 3)

	unsub, err := s.folderRepo.Subscribe(ctx, userID, func(folders []wsmodels.Folder) {
		s.applyFolders(gen, folders)
	})
	if err != nil {
		return unsubs, domain.Transient("subscribe folders", err)
	}
	unsubs = append(unsubs, unsub)

	unsub, err = s.noteRepo.Subscribe(ctx, userID, func(notes []wsmodels.Note) {
		s.applyNotes(gen, notes)
	})
	if err != nil {
		return unsubs, domain.Transient("subscribe notes", err)
	}
	unsubs = append(unsubs, unsub)

	unsub, err = s.planRepo.Subscribe(ctx, userID, func(plans []wsmodels.Plan) {
		s.applyPlans(gen, plans)
	})
	if err != nil {
		return unsubs, domain.Transient("subscribe plans", err)
	}
	unsubs = append(unsubs, unsub)

	return unsubs, nil
}

// Detach tears down the subscriptions and clears every piece of per-user
// state. Snapshots still in flight for the old user are dropped.
func (s *Session) Detach() {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return
	}
	uid := s.user.UID
	stale := s.resetLocked()
	s.generation++
	s.mu.Unlock()

	for _, unsub := range stale {
		unsub()
	}
	s.logger.Info("workspace session detached", "user_id", uid)
	s.notify()
}

// resetLocked clears all per-user state and returns the subscriptions the
// caller must cancel after releasing the lock.
func (s *Session) resetLocked() []wsrepo.Unsubscribe {
	stale := s.unsubs
	s.unsubs = nil
	s.user = nil
	s.folders = nil
	s.notes = nil
	s.plans = nil
	s.loaded = loadState{}
	s.sel = newSelection()
	s.reveal = make(map[string]*revealState)
	s.cache.reset()
	return stale
}

// User returns the attached user, or nil when detached.
func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// attached returns the current user and generation, or ErrUnauthorized.
func (s *Session) attached() (string, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return "", 0, &domain.UnauthorizedError{Message: "workspace session is not attached"}
	}
	return s.user.UID, s.generation, nil
}

// currentLocked reports whether gen is still the live generation.
func (s *Session) currentLocked(gen uint64) bool {
	return s.user != nil && s.generation == gen
}

func (s *Session) applyFolders(gen uint64, folders []wsmodels.Folder) {
	next := append([]wsmodels.Folder(nil), folders...)
	sortByCreated(next, func(f wsmodels.Folder) wsmodels.Timestamp { return f.CreatedAt })

	s.mu.Lock()
	if !s.currentLocked(gen) {
		s.mu.Unlock()
		return
	}
	s.folders = next
	s.loaded.folders = true
	s.reselectFolderLocked()
	s.mu.Unlock()

	s.logger.Debug("folders snapshot applied", "count", len(next))
	s.notify()
}

func (s *Session) applyNotes(gen uint64, notes []wsmodels.Note) {
	next := make([]wsmodels.Note, len(notes))
	for i, n := range notes {
		next[i] = n.Thin()
	}
	sortByCreated(next, func(n wsmodels.Note) wsmodels.Timestamp { return n.CreatedAt })

	s.mu.Lock()
	if !s.currentLocked(gen) {
		s.mu.Unlock()
		return
	}
	s.notes = next
	s.loaded.notes = true
	s.reselectNoteLocked()
	s.reconcileRevealLocked()
	evicted := s.cache.reconcile(next)
	s.mu.Unlock()

	if len(evicted) > 0 {
		s.logger.Debug("evicted stale full notes", "note_ids", evicted)
	}
	s.logger.Debug("notes snapshot applied", "count", len(next))
	s.notify()
}

func (s *Session) applyPlans(gen uint64, plans []wsmodels.Plan) {
	next := append([]wsmodels.Plan(nil), plans...)
	sortByCreated(next, func(p wsmodels.Plan) wsmodels.Timestamp { return p.CreatedAt })

	s.mu.Lock()
	if !s.currentLocked(gen) {
		s.mu.Unlock()
		return
	}
	s.plans = next
	s.loaded.plans = true
	s.mu.Unlock()

	s.logger.Debug("plans snapshot applied", "count", len(next))
	s.notify()
}

// OnChange registers fn to run after every state transition. The returned
// function removes it.
func (s *Session) OnChange(fn func()) (remove func()) {
	s.listenersMu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			delete(s.listeners, id)
			s.listenersMu.Unlock()
		})
	}
}

func (s *Session) notify() {
	s.listenersMu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// detachedContext keeps the caller's values but not its cancellation, so a
// mutation that has started runs to completion.
func detachedContext(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

// errStaleGeneration is returned when the session was detached or switched
// to another user while an operation was in flight.
var errStaleGeneration = fmt.Errorf("%w: workspace session changed", domain.ErrUnauthorized)
