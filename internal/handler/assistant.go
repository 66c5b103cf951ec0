package handler

import (
	"log/slog"
	"net/http"
	"strings"

	wsmodels "studynotes/internal/domain/models/workspace"
	"studynotes/internal/httputil"
	"studynotes/internal/service/assistant"
)

// AssistantHandler serves the study assistant
type AssistantHandler struct {
	assistant *assistant.Service
	logger    *slog.Logger
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(svc *assistant.Service, logger *slog.Logger) *AssistantHandler {
	return &AssistantHandler{assistant: svc, logger: logger}
}

// Intro returns the opening message of a review conversation
// GET /api/assistant/intro
func (h *AssistantHandler) Intro(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.assistant.Intro())
}

type reviewRequest struct {
	NoteID  string              `json:"note_id"`
	History []assistant.Message `json:"history"`
	Input   string              `json:"input"`
}

// Review answers a question about a note, by default the active one
// POST /api/assistant/review
func (h *AssistantHandler) Review(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req reviewRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	noteID := strings.TrimSpace(req.NoteID)
	if noteID == "" {
		noteID = s.View().ActiveNoteID
	}
	var note *wsmodels.Note
	if noteID != "" {
		full, err := s.FullNote(r.Context(), noteID)
		if err != nil {
			// Reply without note context.
			h.logger.Warn("assistant review without note context", "note_id", noteID, "error", err)
		} else {
			note = full
		}
	}

	reply, err := h.assistant.Review(r.Context(), note, req.History, req.Input)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, reply)
}

type chatRequest struct {
	Input string `json:"input"`
}

// Chat sends a free-form message to the assistant
// POST /api/assistant/chat
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	reply, err := h.assistant.Chat(r.Context(), req.Input)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, reply)
}
