// Package memory implements the realtime document store and blob store in
// process memory. Snapshots are delivered synchronously on the writing
// goroutine, after the store's own lock is released.
package memory

import (
	"sync"
	"time"

	models "studynotes/internal/domain/models/workspace"
	"studynotes/internal/domain/services"
)

// Store holds the folder, note and plan collections of every user.
type Store struct {
	clock services.Clock
	ids   services.IDGenerator

	clockMu sync.Mutex
	last    time.Time

	folders *collection[models.Folder]
	notes   *collection[models.Note]
	plans   *collection[models.Plan]

	Faults *Faults
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for server timestamps.
func WithClock(c services.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithIDGenerator sets the generator used for document ids.
func WithIDGenerator(g services.IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		clock: services.RealClock{},
		ids:   services.UUIDGenerator{},
		folders: newCollection(
			func(f models.Folder) models.Timestamp { return f.CreatedAt },
			func(f models.Folder) models.Folder {
				f.ParentID = models.NormalizeParentID(f.ParentID)
				return f
			},
		),
		notes: newCollection(
			func(n models.Note) models.Timestamp { return n.CreatedAt },
			models.Note.Thin,
		),
		plans: newCollection(
			func(p models.Plan) models.Timestamp { return p.CreatedAt },
			nil,
		),
		Faults: newFaults(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// serverTime returns a strictly increasing timestamp.
func (s *Store) serverTime() models.Timestamp {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	t := s.clock.Now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return models.NewTimestamp(t)
}

// ListenerCount reports how many live subscriptions a user has across all
// three collections.
func (s *Store) ListenerCount(userID string) int {
	return s.folders.listenerCount(userID) +
		s.notes.listenerCount(userID) +
		s.plans.listenerCount(userID)
}

// Folders returns a FolderRepository backed by this store.
func (s *Store) Folders() *FolderRepository { return &FolderRepository{store: s} }

// Notes returns a NoteRepository backed by this store.
func (s *Store) Notes() *NoteRepository { return &NoteRepository{store: s} }

// Plans returns a PlanRepository backed by this store.
func (s *Store) Plans() *PlanRepository { return &PlanRepository{store: s} }
