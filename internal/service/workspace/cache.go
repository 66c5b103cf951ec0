package workspace

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"studynotes/internal/domain"
	wsmodels "studynotes/internal/domain/models/workspace"
)

// noteCache maps note id to the full note document for the attached user.
// Concurrent loads of one id share a single fetch. reset bumps the epoch so
// fetches started before a detach cannot write into the new session.
type noteCache struct {
	mu      sync.Mutex
	epoch   uint64
	entries map[string]wsmodels.Note
	group   singleflight.Group
}

func newNoteCache() *noteCache {
	return &noteCache{entries: make(map[string]wsmodels.Note)}
}

func (c *noteCache) get(id string) (wsmodels.Note, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.entries[id]
	if !ok {
		return wsmodels.Note{}, false
	}
	return n.Clone(), true
}

func (c *noteCache) currentEpoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// put stores n unless the cache was reset since epoch or already holds a
// newer copy. Reports whether n was stored.
func (c *noteCache) put(epoch uint64, n wsmodels.Note) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		return false
	}
	if existing, ok := c.entries[n.ID]; ok && existing.UpdatedAt.After(n.UpdatedAt) {
		return false
	}
	c.entries[n.ID] = n.Clone()
	return true
}

// replace overwrites the entry for n.ID after a local write.
func (c *noteCache) replace(n wsmodels.Note) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[n.ID] = n.Clone()
}

// update applies fn to the cached entry for id, if any.
func (c *noteCache) update(id string, fn func(*wsmodels.Note)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.entries[id]; ok {
		fn(&n)
		c.entries[id] = n
	}
}

func (c *noteCache) evict(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

func (c *noteCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.entries = make(map[string]wsmodels.Note)
}

func (c *noteCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// reconcile drops entries whose note is gone from the thin list or whose
// thin copy is newer than the cached one. Returns the evicted ids.
func (c *noteCache) reconcile(thin []wsmodels.Note) []string {
	byID := make(map[string]wsmodels.Note, len(thin))
	for _, n := range thin {
		byID[n.ID] = n
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	var evicted []string
	for id, cached := range c.entries {
		current, ok := byID[id]
		if !ok || current.UpdatedAt.After(cached.UpdatedAt) {
			delete(c.entries, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

// FullNote returns the full document for id, fetching it at most once per
// session and serving later calls from the cache.
func (s *Session) FullNote(ctx context.Context, id string) (*wsmodels.Note, error) {
	uid, gen, err := s.attached()
	if err != nil {
		return nil, err
	}
	if n, ok := s.cache.get(id); ok {
		return &n, nil
	}

	epoch := s.cache.currentEpoch()
	key := fmt.Sprintf("%d/%s", epoch, id)
	v, err, _ := s.cache.group.Do(key, func() (any, error) {
		if n, ok := s.cache.get(id); ok {
			return n, nil
		}
		n, err := s.noteRepo.Get(detachedContext(ctx), uid, id)
		if err != nil {
			return nil, err
		}
		return *n, nil
	})
	if err != nil {
		return nil, domain.Transient("fetch note", err)
	}
	note := v.(wsmodels.Note)

	s.mu.Lock()
	live := s.currentLocked(gen)
	stored := live && s.cache.put(epoch, note)
	s.mu.Unlock()
	if !live {
		return nil, errStaleGeneration
	}
	if stored {
		s.logger.Debug("full note cached", "note_id", id)
		s.notify()
	}

	n, _ := s.cache.get(id)
	if n.ID == "" {
		n = note.Clone()
	}
	return &n, nil
}

// HydrateNote returns the full document when it has been loaded, otherwise
// the thin list entry. It never performs I/O.
func (s *Session) HydrateNote(id string) (*wsmodels.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.cache.get(id); ok {
		n.Hidden = s.effectiveHiddenLocked(n)
		return &n, true
	}
	if n, ok := s.noteLocked(id); ok {
		n.Hidden = s.effectiveHiddenLocked(n)
		return &n, true
	}
	return nil, false
}
