package handler

import (
	"log/slog"
	"net/http"

	wsmodels "studynotes/internal/domain/models/workspace"
	wssvc "studynotes/internal/domain/services/workspace"
	"studynotes/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	logger *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(logger *slog.Logger) *FolderHandler {
	return &FolderHandler{logger: logger}
}

// CreateFolder creates a folder and makes it active
// POST /api/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req wssvc.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	folder, err := s.CreateFolder(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// UpdateFolderRequest renames and/or moves a folder. parent_id null moves
// the folder to the root; an absent parent_id leaves it in place.
type UpdateFolderRequest struct {
	Name     *string                 `json:"name"`
	ParentID httputil.OptionalString `json:"parent_id"`
}

// UpdateFolder renames or moves a folder
// PATCH /api/folders/{id}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Folder ID")
	if !ok {
		return
	}
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req UpdateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == nil && !req.ParentID.Present {
		httputil.RespondError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	var folder *wsmodels.Folder
	var err error
	if req.Name != nil {
		if folder, err = s.RenameFolder(r.Context(), id, *req.Name); err != nil {
			handleError(w, r, h.logger, err)
			return
		}
	}
	if req.ParentID.Present {
		folder, err = s.MoveFolder(r.Context(), &wssvc.MoveFolderRequest{
			FolderID: id,
			ParentID: req.ParentID.Value,
		})
		if err != nil {
			handleError(w, r, h.logger, err)
			return
		}
	}
	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder deletes a folder with all subfolders and notes
// DELETE /api/folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Folder ID")
	if !ok {
		return
	}
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	if err := s.DeleteFolder(r.Context(), id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
