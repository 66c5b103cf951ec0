package handler

import (
	"log/slog"
	"net/http"

	wsmodels "studynotes/internal/domain/models/workspace"
	wssvc "studynotes/internal/domain/services/workspace"
	"studynotes/internal/httputil"
)

// NoteHandler handles note HTTP requests
type NoteHandler struct {
	markdown *MarkdownRenderer
	logger   *slog.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(markdown *MarkdownRenderer, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{
		markdown: markdown,
		logger:   logger,
	}
}

// NoteResponse is a full note with its rendered answer
type NoteResponse struct {
	*wsmodels.Note
	AnswerVisible bool   `json:"answer_visible"`
	AnswerHTML    string `json:"answer_html"`
}

// CreateNote creates a note from a multipart form with fields folder_id,
// question, answer and any number of files.
// POST /api/notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	if err := httputil.ParseMultipart(w, r); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	uploads, closeUploads, err := httputil.FormUploads(r, "files")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer closeUploads()

	note, err := s.CreateNote(r.Context(), &wssvc.CreateNoteRequest{
		FolderID:    r.FormValue("folder_id"),
		Question:    r.FormValue("question"),
		Answer:      r.FormValue("answer"),
		Attachments: uploads,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, note)
}

// GetNote returns the full note, loading it into the session cache
// GET /api/notes/{id}
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Note ID")
	if !ok {
		return
	}
	s, ok := requireSession(w, r)
	if !ok {
		return
	}

	note, err := s.FullNote(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	answerHTML, err := h.markdown.Render(note.Answer)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if hydrated, ok := s.HydrateNote(id); ok {
		note.Hidden = hydrated.Hidden
	}
	httputil.RespondJSON(w, http.StatusOK, NoteResponse{
		Note:          note,
		AnswerVisible: s.AnswerVisible(id),
		AnswerHTML:    answerHTML,
	})
}

// UpdateNote replaces the note's text and reconciles its attachments. The
// multipart form carries question, answer, existing and removed (JSON
// arrays of attachments) and new files.
// PATCH /api/notes/{id}
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Note ID")
	if !ok {
		return
	}
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	if err := httputil.ParseMultipart(w, r); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := wssvc.UpdateNoteRequest{
		NoteID:   id,
		Question: r.FormValue("question"),
		Answer:   r.FormValue("answer"),
	}
	if err := httputil.FormJSON(r, "existing", &req.ExistingAttachments); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := httputil.FormJSON(r, "removed", &req.RemovedAttachments); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	uploads, closeUploads, err := httputil.FormUploads(r, "files")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer closeUploads()
	req.NewAttachments = uploads

	note, err := s.UpdateNote(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, note)
}

type visibilityRequest struct {
	Hidden *bool `json:"hidden"`
}

// UpdateVisibility hides or reveals a note's answer
// PUT /api/notes/{id}/visibility
func (h *NoteHandler) UpdateVisibility(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Note ID")
	if !ok {
		return
	}
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req visibilityRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil || req.Hidden == nil {
		httputil.RespondError(w, http.StatusBadRequest, "hidden is required")
		return
	}

	if err := s.UpdateNoteVisibility(r.Context(), id, *req.Hidden); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{
		"answer_visible": s.AnswerVisible(id),
	})
}

// DeleteNote deletes a note and its attachments
// DELETE /api/notes/{id}
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Note ID")
	if !ok {
		return
	}
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	if err := s.DeleteNote(r.Context(), id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchNotes fuzzy-matches note questions
// GET /api/notes/search?q=
func (h *NoteHandler) SearchNotes(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	results := s.SearchNotes(r.URL.Query().Get("q"))
	if results == nil {
		results = []wsmodels.Note{}
	}
	httputil.RespondJSON(w, http.StatusOK, results)
}
