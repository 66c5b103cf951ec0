package workspace

import (
	"context"

	"studynotes/internal/domain"
	wsmodels "studynotes/internal/domain/models/workspace"
)

// revealState tracks a note's hidden flag while a write is outstanding.
// confirmed is the last value the store accepted and the rollback target;
// tentative is the value shown while the write is in flight.
type revealState struct {
	confirmed bool
	tentative *bool
	seq       uint64
}

func (r *revealState) effective() bool {
	if r.tentative != nil {
		return *r.tentative
	}
	return r.confirmed
}

func (s *Session) effectiveHiddenLocked(n wsmodels.Note) bool {
	if r, ok := s.reveal[n.ID]; ok {
		return r.effective()
	}
	return n.Hidden
}

// reconcileRevealLocked lets the latest snapshot overwrite the confirmed
// value of every note without a write in flight.
func (s *Session) reconcileRevealLocked() {
	for id, r := range s.reveal {
		if r.tentative == nil || !s.hasNoteLocked(id) {
			delete(s.reveal, id)
		}
	}
}

// AnswerVisible reports whether the answer of note id is shown.
func (s *Session) AnswerVisible(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sel.revealAll {
		return true
	}
	n, ok := s.noteLocked(id)
	if !ok {
		return false
	}
	return !s.effectiveHiddenLocked(n)
}

// UpdateNoteVisibility persists the note's hidden flag. The new value is
// shown immediately; if the write fails it is rolled back to the last
// confirmed value and the error is returned.
func (s *Session) UpdateNoteVisibility(ctx context.Context, id string, hidden bool) error {
	if id == "" {
		return domain.NewValidationError("note id is required")
	}
	uid, gen, err := s.attached()
	if err != nil {
		return err
	}

	s.mu.Lock()
	n, ok := s.noteLocked(id)
	if !ok {
		s.mu.Unlock()
		return &domain.NotFoundError{Message: "note not found: " + id}
	}
	r, ok := s.reveal[id]
	if !ok {
		r = &revealState{confirmed: n.Hidden}
		s.reveal[id] = r
	}
	r.seq++
	seq := r.seq
	tentative := hidden
	r.tentative = &tentative
	s.mu.Unlock()
	s.notify()

	stored, err := s.noteRepo.Patch(detachedContext(ctx), uid, id, wsmodels.NotePatch{Hidden: &hidden})

	s.mu.Lock()
	if !s.currentLocked(gen) {
		s.mu.Unlock()
		if err != nil {
			return domain.Transient("update note visibility", err)
		}
		return nil
	}
	r, ok = s.reveal[id]
	if err != nil {
		if ok && r.seq == seq {
			r.tentative = nil
		}
		s.mu.Unlock()
		s.notify()
		s.logger.Warn("visibility write failed, rolled back", "note_id", id, "error", err)
		return domain.Transient("update note visibility", err)
	}

	if ok {
		r.confirmed = hidden
		if r.seq == seq {
			r.tentative = nil
		}
	}
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes[i].Hidden = hidden
			if stored != nil {
				s.notes[i].UpdatedAt = stored.UpdatedAt
			}
		}
	}
	if stored != nil {
		s.cache.replace(*stored)
	}
	s.mu.Unlock()
	s.notify()

	s.logger.Debug("note visibility updated", "note_id", id, "hidden", hidden)
	return nil
}

// ToggleAnswer flips the effective hidden flag of note id.
func (s *Session) ToggleAnswer(ctx context.Context, id string) error {
	s.mu.Lock()
	n, ok := s.noteLocked(id)
	hidden := ok && s.effectiveHiddenLocked(n)
	s.mu.Unlock()
	if !ok {
		if _, _, err := s.attached(); err != nil {
			return err
		}
		return &domain.NotFoundError{Message: "note not found: " + id}
	}
	return s.UpdateNoteVisibility(ctx, id, !hidden)
}
