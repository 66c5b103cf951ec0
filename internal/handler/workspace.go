package handler

import (
	"log/slog"
	"net/http"

	wsmodels "studynotes/internal/domain/models/workspace"
	"studynotes/internal/handler/sse"
	"studynotes/internal/httputil"
	"studynotes/internal/service/workspace"
)

// WorkspaceHandler serves the workspace view and its UI state
type WorkspaceHandler struct {
	sessions  *workspace.Registry
	sseConfig *sse.Config
	logger    *slog.Logger
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(sessions *workspace.Registry, sseConfig *sse.Config, logger *slog.Logger) *WorkspaceHandler {
	if sseConfig == nil {
		sseConfig = sse.DefaultConfig()
	}
	return &WorkspaceHandler{
		sessions:  sessions,
		sseConfig: sseConfig,
		logger:    logger,
	}
}

// GetView returns the current workspace snapshot
// GET /api/workspace
func (h *WorkspaceHandler) GetView(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	httputil.RespondJSON(w, http.StatusOK, s.View())
}

// StreamView sends a "view" event with the full snapshot on connect and
// after every change, plus keep-alive comments while idle.
// GET /api/workspace/events
func (h *WorkspaceHandler) StreamView(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}

	writer, err := sse.NewWriter(w)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	changed := make(chan struct{}, 1)
	remove := s.OnChange(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer remove()

	keepAlive := sse.NewTickerKeepAlive(h.sseConfig.KeepAliveInterval)
	keepAliveDone := keepAlive.Start(writer, h.logger)
	defer keepAlive.Stop()

	userID := httputil.GetUserID(r)
	h.logger.Debug("view stream opened", "user_id", userID)
	defer h.logger.Debug("view stream closed", "user_id", userID)

	if err := writer.WriteEvent("view", s.View()); err != nil {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAliveDone:
			return
		case <-changed:
			if err := writer.WriteEvent("view", s.View()); err != nil {
				h.logger.Debug("view stream write failed", "user_id", userID, "error", err)
				return
			}
		}
	}
}

// SignOut detaches the caller's session and forgets it
// POST /api/workspace/signout
func (h *WorkspaceHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.sessions.SignOut(httputil.GetUserID(r))
	w.WriteHeader(http.StatusNoContent)
}

type selectionRequest struct {
	FolderID *string `json:"folder_id"`
	NoteID   *string `json:"note_id"`
}

// PutSelection changes the active folder and/or note. Selecting a note loads
// its full document.
// PUT /api/workspace/selection
func (h *WorkspaceHandler) PutSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req selectionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.FolderID != nil {
		s.SelectFolder(*req.FolderID)
	}
	if req.NoteID != nil {
		s.SelectNote(r.Context(), *req.NoteID)
	}
	httputil.RespondJSON(w, http.StatusOK, s.View())
}

type revealAllRequest struct {
	RevealAll bool `json:"reveal_all"`
}

// PutRevealAll toggles showing every answer
// PUT /api/workspace/reveal-all
func (h *WorkspaceHandler) PutRevealAll(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req revealAllRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.SetRevealAll(req.RevealAll)
	httputil.RespondJSON(w, http.StatusOK, s.View())
}

type panelRequest struct {
	Type     wsmodels.PanelType `json:"type"`
	ParentID *string            `json:"parent_id"`
	FolderID *string            `json:"folder_id"`
}

// PutPanel switches the right panel between the note view and the forms
// PUT /api/workspace/panel
func (h *WorkspaceHandler) PutPanel(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req panelRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch req.Type {
	case wsmodels.PanelNote:
		s.CloseRightPanel()
	case wsmodels.PanelFolderForm:
		s.OpenFolderForm(req.ParentID)
	case wsmodels.PanelNoteForm:
		folderID := ""
		if req.FolderID != nil {
			folderID = *req.FolderID
		}
		s.OpenNoteForm(folderID)
	default:
		httputil.RespondError(w, http.StatusBadRequest, "unknown panel type: "+string(req.Type))
		return
	}
	httputil.RespondJSON(w, http.StatusOK, s.View())
}

type dialogsRequest struct {
	TryYourselfOpen *bool `json:"try_yourself_open"`
	AIDrawerOpen    *bool `json:"ai_drawer_open"`
}

// PutDialogs opens or closes the quiz dialog and the assistant drawer
// PUT /api/workspace/dialogs
func (h *WorkspaceHandler) PutDialogs(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req dialogsRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TryYourselfOpen != nil {
		s.SetTryYourselfOpen(*req.TryYourselfOpen)
	}
	if req.AIDrawerOpen != nil {
		s.SetAIDrawerOpen(*req.AIDrawerOpen)
	}
	httputil.RespondJSON(w, http.StatusOK, s.View())
}
