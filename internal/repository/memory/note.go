package memory

import (
	"context"
	"fmt"

	"studynotes/internal/domain"
	models "studynotes/internal/domain/models/workspace"
	wsrepo "studynotes/internal/domain/repositories/workspace"
)

// NoteRepository is the in-memory wsrepo.NoteRepository
type NoteRepository struct {
	store *Store
}

var _ wsrepo.NoteRepository = (*NoteRepository)(nil)

func (r *NoteRepository) Create(ctx context.Context, userID string, note *models.Note) error {
	if err := r.store.Faults.hit("notes.create", note.FolderID); err != nil {
		return err
	}
	now := r.store.serverTime()
	note.ID = r.store.ids.New()
	note.CreatedAt = now
	note.UpdatedAt = now
	doc := note.Clone()
	return r.store.notes.write(userID, func(docs map[string]models.Note) (bool, error) {
		docs[doc.ID] = doc
		return true, nil
	})
}

func (r *NoteRepository) Get(ctx context.Context, userID, noteID string) (*models.Note, error) {
	if err := r.store.Faults.hit("notes.get", noteID); err != nil {
		return nil, err
	}
	doc, ok := r.store.notes.get(userID, noteID)
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("note not found: %s", noteID)}
	}
	n := doc.Clone()
	return &n, nil
}

func (r *NoteRepository) Patch(ctx context.Context, userID, noteID string, patch models.NotePatch) (*models.Note, error) {
	if err := r.store.Faults.hit("notes.patch", noteID); err != nil {
		return nil, err
	}
	var out models.Note
	err := r.store.notes.write(userID, func(docs map[string]models.Note) (bool, error) {
		doc, ok := docs[noteID]
		if !ok {
			return false, &domain.NotFoundError{Message: fmt.Sprintf("note not found: %s", noteID)}
		}
		patch.Apply(&doc)
		doc.UpdatedAt = r.store.serverTime()
		docs[noteID] = doc
		out = doc.Clone()
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *NoteRepository) Delete(ctx context.Context, userID, noteID string) error {
	if err := r.store.Faults.hit("notes.delete", noteID); err != nil {
		return err
	}
	return r.store.notes.write(userID, func(docs map[string]models.Note) (bool, error) {
		if _, ok := docs[noteID]; !ok {
			return false, nil
		}
		delete(docs, noteID)
		return true, nil
	})
}

func (r *NoteRepository) List(ctx context.Context, userID string) ([]models.Note, error) {
	if err := r.store.Faults.hit("notes.list", userID); err != nil {
		return nil, err
	}
	return r.store.notes.list(userID), nil
}

func (r *NoteRepository) Subscribe(ctx context.Context, userID string, fn func([]models.Note)) (wsrepo.Unsubscribe, error) {
	if err := r.store.Faults.hit("notes.subscribe", userID); err != nil {
		return nil, err
	}
	return r.store.notes.subscribe(userID, fn), nil
}
