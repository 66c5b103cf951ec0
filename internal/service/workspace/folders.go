package workspace

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"studynotes/internal/domain"
	wsmodels "studynotes/internal/domain/models/workspace"
	wssvc "studynotes/internal/domain/services/workspace"
)

// CreateFolder creates a folder under req.ParentID (root when nil or empty)
// and makes it the active folder.
func (s *Session) CreateFolder(ctx context.Context, req *wssvc.CreateFolderRequest) (*wsmodels.Folder, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateFolderName(name); err != nil {
		return nil, err
	}
	parentID := wsmodels.NormalizeParentID(req.ParentID)

	uid, gen, err := s.attached()
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		s.mu.Lock()
		exists := s.hasFolderLocked(*parentID)
		s.mu.Unlock()
		if !exists {
			return nil, domain.NewValidationError("parent folder %q does not exist", *parentID)
		}
	}

	folder := &wsmodels.Folder{Name: name, ParentID: parentID}
	if err := s.folderRepo.Create(detachedContext(ctx), uid, folder); err != nil {
		return nil, domain.Transient("create folder", err)
	}

	s.update(func() {
		if s.currentLocked(gen) {
			s.recordFolderLocked(*folder)
			s.sel.activeFolderID = folder.ID
			s.sel.panel = wsmodels.DefaultRightPanel()
		}
	})

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
	)
	return folder, nil
}

// RenameFolder changes a folder's name.
func (s *Session) RenameFolder(ctx context.Context, folderID, name string) (*wsmodels.Folder, error) {
	name = strings.TrimSpace(name)
	if err := validateFolderName(name); err != nil {
		return nil, err
	}
	uid, gen, err := s.attached()
	if err != nil {
		return nil, err
	}

	folder, err := s.snapshotFolder(folderID)
	if err != nil {
		return nil, err
	}
	folder.Name = name
	if err := s.folderRepo.Update(detachedContext(ctx), uid, &folder); err != nil {
		return nil, domain.Transient("rename folder", err)
	}
	s.rewriteFolder(gen, folder)

	s.logger.Info("folder renamed", "id", folder.ID, "name", folder.Name)
	return &folder, nil
}

// MoveFolder re-parents a folder. The new parent must exist and must not be
// the folder itself or one of its descendants.
func (s *Session) MoveFolder(ctx context.Context, req *wssvc.MoveFolderRequest) (*wsmodels.Folder, error) {
	if strings.TrimSpace(req.FolderID) == "" {
		return nil, domain.NewValidationError("folder id is required")
	}
	parentID := wsmodels.NormalizeParentID(req.ParentID)

	uid, gen, err := s.attached()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	folder, ok := s.folderLocked(req.FolderID)
	folders := append([]wsmodels.Folder(nil), s.folders...)
	s.mu.Unlock()
	if !ok {
		return nil, &domain.NotFoundError{Message: "folder not found: " + req.FolderID}
	}

	if parentID != nil {
		if err := validateNoCircularReference(folders, folder.ID, *parentID); err != nil {
			return nil, err
		}
	}

	folder.ParentID = parentID
	if err := s.folderRepo.Update(detachedContext(ctx), uid, &folder); err != nil {
		return nil, domain.Transient("move folder", err)
	}
	s.rewriteFolder(gen, folder)

	s.logger.Info("folder moved", "id", folder.ID, "parent_id", folder.ParentID)
	return &folder, nil
}

// validateNoCircularReference rejects moving folderID under itself or under
// one of its own descendants.
func validateNoCircularReference(folders []wsmodels.Folder, folderID, newParentID string) error {
	if folderID == newParentID {
		return domain.NewValidationError("cannot move a folder into itself")
	}
	found := false
	for _, f := range folders {
		if f.ID == newParentID {
			found = true
			break
		}
	}
	if !found {
		return domain.NewValidationError("parent folder %q does not exist", newParentID)
	}
	if _, inside := CollectDescendantIDs(folders, folderID)[newParentID]; inside {
		return domain.NewValidationError("cannot move a folder into one of its subfolders")
	}
	return nil
}

// DeleteFolder deletes a folder, every folder below it and every note filed
// in any of them. The scope is read from the store rather than the session's
// lists, so documents whose snapshot has not arrived yet are included. Notes
// go first, each through DeleteNote so their attachments are removed too;
// folders are deleted deepest first. If any note cannot be deleted the
// folders are left in place and the joined errors are returned.
func (s *Session) DeleteFolder(ctx context.Context, folderID string) error {
	if strings.TrimSpace(folderID) == "" {
		return domain.NewValidationError("folder id is required")
	}
	uid, gen, err := s.attached()
	if err != nil {
		return err
	}
	ctx = detachedContext(ctx)

	folders, err := s.folderRepo.List(ctx, uid)
	if err != nil {
		return domain.Transient("list folders", err)
	}
	if !slices.ContainsFunc(folders, func(f wsmodels.Folder) bool { return f.ID == folderID }) {
		return &domain.NotFoundError{Message: "folder not found: " + folderID}
	}
	notes, err := s.noteRepo.List(ctx, uid)
	if err != nil {
		return domain.Transient("list notes", err)
	}

	order := descendantOrder(folders, folderID)
	scope := make(map[string]struct{}, len(order))
	for _, id := range order {
		scope[id] = struct{}{}
	}

	var noteErrs []error
	deletedNotes := 0
	for _, n := range notes {
		if _, ok := scope[n.FolderID]; !ok {
			continue
		}
		if err := s.DeleteNote(ctx, n.ID); err != nil {
			noteErrs = append(noteErrs, fmt.Errorf("delete note %s: %w", n.ID, err))
			continue
		}
		deletedNotes++
	}
	if len(noteErrs) > 0 {
		s.logger.Error("folder delete aborted, notes remain",
			"id", folderID,
			"failed_notes", len(noteErrs),
		)
		return errors.Join(noteErrs...)
	}

	for i := len(order) - 1; i >= 0; i-- {
		if err := s.folderRepo.Delete(ctx, uid, order[i]); err != nil {
			return domain.Transient("delete folder", err)
		}
		s.logger.Debug("deleted folder", "id", order[i])
	}

	s.update(func() {
		if s.currentLocked(gen) {
			s.dropFoldersLocked(scope)
		}
	})

	s.logger.Info("folder deleted",
		"id", folderID,
		"folders", len(order),
		"notes", deletedNotes,
	)
	return nil
}

// rewriteFolder applies a successful folder update to the session's list.
func (s *Session) rewriteFolder(gen uint64, f wsmodels.Folder) {
	s.update(func() {
		if s.currentLocked(gen) {
			s.recordFolderLocked(f)
		}
	})
}

func (s *Session) snapshotFolder(id string) (wsmodels.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.folderLocked(id)
	if !ok {
		return wsmodels.Folder{}, &domain.NotFoundError{Message: "folder not found: " + id}
	}
	return f, nil
}
