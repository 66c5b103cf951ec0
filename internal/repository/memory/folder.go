package memory

import (
	"context"
	"fmt"

	"studynotes/internal/domain"
	models "studynotes/internal/domain/models/workspace"
	wsrepo "studynotes/internal/domain/repositories/workspace"
)

// FolderRepository is the in-memory wsrepo.FolderRepository
type FolderRepository struct {
	store *Store
}

var _ wsrepo.FolderRepository = (*FolderRepository)(nil)

func (r *FolderRepository) Create(ctx context.Context, userID string, folder *models.Folder) error {
	if err := r.store.Faults.hit("folders.create", folder.Name); err != nil {
		return err
	}
	folder.ID = r.store.ids.New()
	folder.ParentID = models.NormalizeParentID(folder.ParentID)
	folder.CreatedAt = r.store.serverTime()
	doc := *folder
	return r.store.folders.write(userID, func(docs map[string]models.Folder) (bool, error) {
		docs[doc.ID] = doc
		return true, nil
	})
}

func (r *FolderRepository) Update(ctx context.Context, userID string, folder *models.Folder) error {
	if err := r.store.Faults.hit("folders.update", folder.ID); err != nil {
		return err
	}
	return r.store.folders.write(userID, func(docs map[string]models.Folder) (bool, error) {
		existing, ok := docs[folder.ID]
		if !ok {
			return false, &domain.NotFoundError{Message: fmt.Sprintf("folder not found: %s", folder.ID)}
		}
		existing.Name = folder.Name
		existing.ParentID = models.NormalizeParentID(folder.ParentID)
		docs[folder.ID] = existing
		*folder = existing
		return true, nil
	})
}

func (r *FolderRepository) Delete(ctx context.Context, userID, folderID string) error {
	if err := r.store.Faults.hit("folders.delete", folderID); err != nil {
		return err
	}
	return r.store.folders.write(userID, func(docs map[string]models.Folder) (bool, error) {
		if _, ok := docs[folderID]; !ok {
			return false, nil
		}
		delete(docs, folderID)
		return true, nil
	})
}

func (r *FolderRepository) List(ctx context.Context, userID string) ([]models.Folder, error) {
	if err := r.store.Faults.hit("folders.list", userID); err != nil {
		return nil, err
	}
	return r.store.folders.list(userID), nil
}

func (r *FolderRepository) Subscribe(ctx context.Context, userID string, fn func([]models.Folder)) (wsrepo.Unsubscribe, error) {
	if err := r.store.Faults.hit("folders.subscribe", userID); err != nil {
		return nil, err
	}
	return r.store.folders.subscribe(userID, fn), nil
}
