package workspace

import (
	"context"

	models "studynotes/internal/domain/models/workspace"
)

// NoteRepository defines realtime data access for a user's notes
type NoteRepository interface {
	// Create stores a new note. The store assigns ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, userID string, note *models.Note) error

	// Get fetches the full note document, including answer and attachments
	Get(ctx context.Context, userID, noteID string) (*models.Note, error)

	// Patch applies a partial update, stamps UpdatedAt and returns the full
	// document as stored.
	Patch(ctx context.Context, userID, noteID string, patch models.NotePatch) (*models.Note, error)

	// Delete removes the note document
	Delete(ctx context.Context, userID, noteID string) error

	// List reads the thin note list once, ordered like Subscribe
	List(ctx context.Context, userID string) ([]models.Note, error)

	// Subscribe delivers the thin note list (see models.Note.Thin), ordered
	// by creation time ascending, once on subscribe and after every change.
	Subscribe(ctx context.Context, userID string, fn func([]models.Note)) (Unsubscribe, error)
}
