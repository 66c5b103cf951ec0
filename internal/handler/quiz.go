package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"studynotes/internal/httputil"
	"studynotes/internal/service/study"
)

// QuizHandler serves the try-yourself quiz
type QuizHandler struct {
	quiz   *study.Quiz
	logger *slog.Logger
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(quiz *study.Quiz, logger *slog.Logger) *QuizHandler {
	return &QuizHandler{quiz: quiz, logger: logger}
}

type quizNextRequest struct {
	FolderID string `json:"folder_id"`
}

// QuizQuestion is one drawn question; the answer is not included
type QuizQuestion struct {
	NoteID   string `json:"note_id"`
	Question string `json:"question"`
}

// Next draws a random note filed directly in the folder
// POST /api/quiz/next
func (h *QuizHandler) Next(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req quizNextRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	folderID := strings.TrimSpace(req.FolderID)
	if folderID == "" {
		folderID = s.View().ActiveFolderID
	}
	if folderID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "folder_id is required")
		return
	}

	note, ok := h.quiz.Pick(study.Candidates(s.View().Notes, folderID))
	if !ok {
		httputil.RespondError(w, http.StatusNotFound, "no notes in this folder")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, QuizQuestion{NoteID: note.ID, Question: note.Question})
}

type quizCheckRequest struct {
	NoteID string `json:"note_id"`
	Answer string `json:"answer"`
}

// QuizResult tells whether the typed answer matched and shows the expected one
type QuizResult struct {
	Correct  bool   `json:"correct"`
	Expected string `json:"expected"`
}

// Check compares a typed answer against the note's answer
// POST /api/quiz/check
func (h *QuizHandler) Check(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req quizCheckRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.NoteID) == "" {
		httputil.RespondError(w, http.StatusBadRequest, "note_id is required")
		return
	}

	note, err := s.FullNote(r.Context(), req.NoteID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, QuizResult{
		Correct:  study.Check(note.Answer, req.Answer),
		Expected: note.Answer,
	})
}
