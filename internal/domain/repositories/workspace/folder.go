package workspace

import (
	"context"

	models "studynotes/internal/domain/models/workspace"
)

// FolderRepository defines realtime data access for a user's folders
type FolderRepository interface {
	// Create stores a new folder. The store assigns ID and CreatedAt.
	Create(ctx context.Context, userID string, folder *models.Folder) error

	// Update writes the folder's name and parent
	Update(ctx context.Context, userID string, folder *models.Folder) error

	// Delete removes a single folder document (no cascade)
	Delete(ctx context.Context, userID, folderID string) error

	// List reads the folder list once, ordered like Subscribe
	List(ctx context.Context, userID string) ([]models.Folder, error)

	// Subscribe delivers the full folder list, ordered by creation time
	// ascending, once on subscribe and again after every change.
	Subscribe(ctx context.Context, userID string, fn func([]models.Folder)) (Unsubscribe, error)
}
