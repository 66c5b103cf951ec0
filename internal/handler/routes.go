package handler

import (
	"net/http"
)

// Handlers groups every HTTP handler of the server. Blob is nil when
// attachment URLs do not point at this server.
type Handlers struct {
	Workspace *WorkspaceHandler
	Folder    *FolderHandler
	Note      *NoteHandler
	Plan      *PlanHandler
	Quiz      *QuizHandler
	Assistant *AssistantHandler
	Blob      *BlobHandler
}

// RegisterRoutes mounts all routes on mux (Go 1.22+ enhanced patterns)
func RegisterRoutes(mux *http.ServeMux, h *Handlers) {
	mux.HandleFunc("GET /health", HealthCheck)

	// Workspace view and UI state
	mux.HandleFunc("GET /api/workspace", h.Workspace.GetView)
	mux.HandleFunc("GET /api/workspace/events", h.Workspace.StreamView)
	mux.HandleFunc("POST /api/workspace/signout", h.Workspace.SignOut)
	mux.HandleFunc("PUT /api/workspace/selection", h.Workspace.PutSelection)
	mux.HandleFunc("PUT /api/workspace/reveal-all", h.Workspace.PutRevealAll)
	mux.HandleFunc("PUT /api/workspace/panel", h.Workspace.PutPanel)
	mux.HandleFunc("PUT /api/workspace/dialogs", h.Workspace.PutDialogs)

	// Folder routes
	mux.HandleFunc("POST /api/folders", h.Folder.CreateFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", h.Folder.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", h.Folder.DeleteFolder)

	// Note routes
	mux.HandleFunc("POST /api/notes", h.Note.CreateNote)
	mux.HandleFunc("GET /api/notes/search", h.Note.SearchNotes)
	mux.HandleFunc("GET /api/notes/{id}", h.Note.GetNote)
	mux.HandleFunc("PATCH /api/notes/{id}", h.Note.UpdateNote)
	mux.HandleFunc("PUT /api/notes/{id}/visibility", h.Note.UpdateVisibility)
	mux.HandleFunc("DELETE /api/notes/{id}", h.Note.DeleteNote)

	// Plan routes
	mux.HandleFunc("POST /api/plans", h.Plan.CreatePlan)
	mux.HandleFunc("GET /api/plans/countdowns", h.Plan.ListCountdowns)
	mux.HandleFunc("PATCH /api/plans/{id}", h.Plan.UpdatePlan)
	mux.HandleFunc("DELETE /api/plans/{id}", h.Plan.DeletePlan)

	// Study routes
	mux.HandleFunc("POST /api/quiz/next", h.Quiz.Next)
	mux.HandleFunc("POST /api/quiz/check", h.Quiz.Check)
	mux.HandleFunc("GET /api/assistant/intro", h.Assistant.Intro)
	mux.HandleFunc("POST /api/assistant/review", h.Assistant.Review)
	mux.HandleFunc("POST /api/assistant/chat", h.Assistant.Chat)

	if h.Blob != nil {
		mux.HandleFunc("GET /blobs/{path...}", h.Blob.GetBlob)
	}
}
