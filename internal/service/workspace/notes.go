package workspace

import (
	"context"
	"errors"
	"strings"

	"studynotes/internal/domain"
	wsmodels "studynotes/internal/domain/models/workspace"
	wssvc "studynotes/internal/domain/services/workspace"
)

// CreateNote writes a new note with no attachments, selects it, then uploads
// the files one by one and attaches whatever uploaded successfully. The note
// starts with its answer hidden.
func (s *Session) CreateNote(ctx context.Context, req *wssvc.CreateNoteRequest) (*wsmodels.Note, error) {
	if err := normalizeCreateNote(req); err != nil {
		return nil, err
	}
	uid, gen, err := s.attached()
	if err != nil {
		return nil, err
	}
	ctx = detachedContext(ctx)

	s.mu.Lock()
	folderExists := s.hasFolderLocked(req.FolderID)
	s.mu.Unlock()
	if !folderExists {
		return nil, domain.NewValidationError("folder %q does not exist", req.FolderID)
	}

	note := &wsmodels.Note{
		FolderID:    req.FolderID,
		Question:    req.Question,
		Answer:      req.Answer,
		Hidden:      true,
		Attachments: []wsmodels.Attachment{},
	}
	if err := s.noteRepo.Create(ctx, uid, note); err != nil {
		return nil, domain.Transient("create note", err)
	}

	s.update(func() {
		if !s.currentLocked(gen) {
			return
		}
		s.recordNoteLocked(*note)
		s.sel.activeNoteID = note.ID
		s.sel.panel = wsmodels.DefaultRightPanel()
		s.cache.replace(*note)
	})

	s.logger.Info("note created",
		"id", note.ID,
		"folder_id", note.FolderID,
		"attachments", len(req.Attachments),
	)

	uploaded := s.uploadAttachments(ctx, uid, note.ID, req.Attachments)
	if len(uploaded) == 0 {
		return note, nil
	}

	stored, err := s.noteRepo.Patch(ctx, uid, note.ID, wsmodels.NotePatch{Attachments: &uploaded})
	if err != nil {
		// Blobs are orphaned; the note itself exists.
		s.logger.Error("failed to attach uploaded files",
			"note_id", note.ID,
			"error", err,
		)
		return note, domain.Transient("attach files", err)
	}
	s.rewriteCached(gen, stored)
	return stored, nil
}

// UpdateNote replaces the note's text and reconciles its attachments:
// removed blobs are deleted (best effort), new files uploaded (failures
// skipped) and the merged list written together with the text. Existing and
// removed entries only count when they name an attachment stored on the
// note; the stored entry is kept as is.
func (s *Session) UpdateNote(ctx context.Context, req *wssvc.UpdateNoteRequest) (*wsmodels.Note, error) {
	if err := normalizeUpdateNote(req); err != nil {
		return nil, err
	}
	uid, gen, err := s.attached()
	if err != nil {
		return nil, err
	}
	ctx = detachedContext(ctx)

	current, err := s.noteRepo.Get(ctx, uid, req.NoteID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, domain.Transient("load note", err)
	}
	kept, removed := reconcileAttachments(current.Attachments, req.ExistingAttachments, req.RemovedAttachments)
	if dropped := len(req.ExistingAttachments) + len(req.RemovedAttachments) - len(kept) - len(removed); dropped > 0 {
		s.logger.Warn("ignored attachments not stored on the note",
			"note_id", req.NoteID,
			"count", dropped,
		)
	}

	s.deleteAttachments(ctx, uid, req.NoteID, removed)

	merged := make([]wsmodels.Attachment, 0, len(kept)+len(req.NewAttachments))
	merged = append(merged, kept...)
	merged = append(merged, s.uploadAttachments(ctx, uid, req.NoteID, req.NewAttachments)...)

	stored, err := s.noteRepo.Patch(ctx, uid, req.NoteID, wsmodels.NotePatch{
		Question:    &req.Question,
		Answer:      &req.Answer,
		Attachments: &merged,
	})
	if err != nil {
		return nil, domain.Transient("update note", err)
	}
	s.rewriteCached(gen, stored)

	s.logger.Info("note updated",
		"id", stored.ID,
		"attachments", len(stored.Attachments),
		"removed", len(req.RemovedAttachments),
	)
	return stored, nil
}

// DeleteNote removes every attachment blob of the note (best effort), then
// the note document. The attachment list comes from the cache, else from a
// fresh fetch; if that fetch fails only the blobs already known are removed.
func (s *Session) DeleteNote(ctx context.Context, noteID string) error {
	noteID = strings.TrimSpace(noteID)
	if noteID == "" {
		return domain.NewValidationError("note id is required")
	}
	uid, gen, err := s.attached()
	if err != nil {
		return err
	}
	ctx = detachedContext(ctx)

	attachments := s.noteAttachments(ctx, uid, noteID)
	s.deleteAttachments(ctx, uid, noteID, attachments)

	if err := s.noteRepo.Delete(ctx, uid, noteID); err != nil {
		return domain.Transient("delete note", err)
	}

	s.update(func() {
		if s.currentLocked(gen) {
			s.dropNoteLocked(noteID)
		}
	})

	s.logger.Info("note deleted", "id", noteID, "attachments", len(attachments))
	return nil
}

// noteAttachments resolves the attachment list of a note for deletion.
func (s *Session) noteAttachments(ctx context.Context, userID, noteID string) []wsmodels.Attachment {
	if n, ok := s.cache.get(noteID); ok {
		return n.Attachments
	}
	full, err := s.noteRepo.Get(ctx, userID, noteID)
	if err != nil {
		s.logger.Warn("could not load note attachments before delete",
			"note_id", noteID,
			"error", err,
		)
		s.mu.Lock()
		thin, _ := s.noteLocked(noteID)
		s.mu.Unlock()
		return thin.Attachments
	}
	return full.Attachments
}

// rewriteCached applies the result of a local write to the note list and
// the cache, then notifies listeners.
func (s *Session) rewriteCached(gen uint64, n *wsmodels.Note) {
	if n == nil {
		return
	}
	s.update(func() {
		if s.currentLocked(gen) {
			s.recordNoteLocked(*n)
			s.cache.replace(*n)
		}
	})
}

// reconcileAttachments resolves the client's existing and removed lists
// against the stored attachments by name. A name listed as existing is never
// removed; unknown names are dropped from both lists.
func reconcileAttachments(stored, existing, removed []wsmodels.Attachment) (kept, gone []wsmodels.Attachment) {
	byName := make(map[string]wsmodels.Attachment, len(stored))
	for _, a := range stored {
		byName[a.Name] = a
	}

	keep := make(map[string]bool, len(existing))
	for _, a := range existing {
		name := attachmentName(a.Name)
		match, ok := byName[name]
		if !ok || keep[name] {
			continue
		}
		keep[name] = true
		kept = append(kept, match)
	}

	drop := make(map[string]bool, len(removed))
	for _, a := range removed {
		name := attachmentName(a.Name)
		match, ok := byName[name]
		if !ok || keep[name] || drop[name] {
			continue
		}
		drop[name] = true
		gone = append(gone, match)
	}
	return kept, gone
}
