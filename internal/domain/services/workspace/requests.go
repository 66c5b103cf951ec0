package workspace

import (
	models "studynotes/internal/domain/models/workspace"
)

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"` // nil or "" for root
}

// MoveFolderRequest moves a folder under a new parent
type MoveFolderRequest struct {
	FolderID string  `json:"folder_id"`
	ParentID *string `json:"parent_id"` // nil = move to root
}

// CreateNoteRequest represents a note creation request
type CreateNoteRequest struct {
	FolderID    string                    `json:"folder_id"`
	Question    string                    `json:"question"`
	Answer      string                    `json:"answer"`
	Attachments []models.AttachmentUpload `json:"-"`
}

// UpdateNoteRequest replaces a note's text and reconciles its attachments.
// ExistingAttachments are kept as-is, RemovedAttachments are deleted from
// the blob store and NewAttachments are uploaded and appended.
type UpdateNoteRequest struct {
	NoteID              string                    `json:"note_id"`
	Question            string                    `json:"question"`
	Answer              string                    `json:"answer"`
	NewAttachments      []models.AttachmentUpload `json:"-"`
	ExistingAttachments []models.Attachment       `json:"existing"`
	RemovedAttachments  []models.Attachment       `json:"removed"`
}

// CreatePlanRequest represents a study-plan creation request
type CreatePlanRequest struct {
	Title      string `json:"title"`
	TargetDate string `json:"target_date,omitempty"`
}

// UpdatePlanRequest is a merge update; nil fields are left untouched and an
// empty TargetDate clears the stored date.
type UpdatePlanRequest struct {
	PlanID     string  `json:"plan_id"`
	Title      *string `json:"title,omitempty"`
	TargetDate *string `json:"target_date,omitempty"`
}
