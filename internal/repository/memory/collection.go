package memory

import (
	"slices"
	"sync"

	models "studynotes/internal/domain/models/workspace"
	wsrepo "studynotes/internal/domain/repositories/workspace"
)

// collection is one per-user document collection with realtime listeners.
// Writes bump a per-user version; listeners never see an older snapshot
// after a newer one.
type collection[T any] struct {
	mu      sync.Mutex
	docs    map[string]map[string]T // user id -> doc id -> doc
	version map[string]uint64
	subs    map[string]map[uint64]*listener[T]
	nextSub uint64

	createdAt func(T) models.Timestamp
	project   func(T) T // applied to every doc in a snapshot
}

type listener[T any] struct {
	mu     sync.Mutex
	fn     func([]T)
	last   uint64
	closed bool
}

func newCollection[T any](createdAt func(T) models.Timestamp, project func(T) T) *collection[T] {
	return &collection[T]{
		docs:      make(map[string]map[string]T),
		version:   make(map[string]uint64),
		subs:      make(map[string]map[uint64]*listener[T]),
		createdAt: createdAt,
		project:   project,
	}
}

// get returns a copy of one document.
func (c *collection[T]) get(userID, id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.docs[userID][id]
	return doc, ok
}

// write runs fn against the user's documents. When fn reports a change the
// new snapshot is delivered to every listener after the lock is released.
func (c *collection[T]) write(userID string, fn func(docs map[string]T) (bool, error)) error {
	c.mu.Lock()
	docs, ok := c.docs[userID]
	if !ok {
		docs = make(map[string]T)
		c.docs[userID] = docs
	}
	changed, err := fn(docs)
	if err != nil || !changed {
		c.mu.Unlock()
		return err
	}
	c.version[userID]++
	version := c.version[userID]
	snapshot := c.snapshotLocked(userID)
	targets := c.listenersLocked(userID)
	c.mu.Unlock()

	for _, l := range targets {
		l.deliver(version, snapshot)
	}
	return nil
}

// subscribe registers fn and delivers the current snapshot before returning.
func (c *collection[T]) subscribe(userID string, fn func([]T)) wsrepo.Unsubscribe {
	l := &listener[T]{fn: fn}

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	if c.subs[userID] == nil {
		c.subs[userID] = make(map[uint64]*listener[T])
	}
	c.subs[userID][id] = l
	version := c.version[userID]
	snapshot := c.snapshotLocked(userID)
	c.mu.Unlock()

	l.deliverInitial(version, snapshot)

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs[userID], id)
			c.mu.Unlock()

			l.mu.Lock()
			l.closed = true
			l.mu.Unlock()
		})
	}
}

// list returns the current snapshot without subscribing.
func (c *collection[T]) list(userID string) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked(userID)
}

func (c *collection[T]) listenerCount(userID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs[userID])
}

func (c *collection[T]) snapshotLocked(userID string) []T {
	out := make([]T, 0, len(c.docs[userID]))
	for _, doc := range c.docs[userID] {
		if c.project != nil {
			doc = c.project(doc)
		}
		out = append(out, doc)
	}
	slices.SortStableFunc(out, func(a, b T) int {
		sa, sb := c.createdAt(a).Seconds(), c.createdAt(b).Seconds()
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		}
		return 0
	})
	return out
}

func (c *collection[T]) listenersLocked(userID string) []*listener[T] {
	out := make([]*listener[T], 0, len(c.subs[userID]))
	for _, l := range c.subs[userID] {
		out = append(out, l)
	}
	return out
}

func (l *listener[T]) deliver(version uint64, snapshot []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || version <= l.last {
		return
	}
	l.last = version
	l.fn(slices.Clone(snapshot))
}

func (l *listener[T]) deliverInitial(version uint64, snapshot []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || (l.last != 0 && version <= l.last) {
		return
	}
	l.last = version
	l.fn(slices.Clone(snapshot))
}
