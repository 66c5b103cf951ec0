package workspace

import (
	"fmt"
	"io"
	"time"
)

// Note is a question/answer pair filed under exactly one folder.
//
// Notes delivered by a list subscription are thin projections: Answer is
// empty and Attachments is nil. The full document is fetched on demand.
type Note struct {
	ID          string       `json:"id"`
	FolderID    string       `json:"folder_id"`
	Question    string       `json:"question"`
	Answer      string       `json:"answer,omitempty"`
	Hidden      bool         `json:"hidden"`
	Attachments []Attachment `json:"attachments,omitempty"`
	CreatedAt   Timestamp    `json:"created_at"`
	UpdatedAt   Timestamp    `json:"updated_at"`
}

// Thin returns the list projection of n.
func (n Note) Thin() Note {
	n.Answer = ""
	n.Attachments = nil
	return n
}

// Clone returns a copy of n that shares no slices with it.
func (n Note) Clone() Note {
	if n.Attachments != nil {
		n.Attachments = append([]Attachment(nil), n.Attachments...)
	}
	return n
}

// Attachment is a file stored in the blob store and referenced by a note.
type Attachment struct {
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// AttachmentUpload is a file waiting to be uploaded.
type AttachmentUpload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// NotePatch lists the note fields to change. Nil fields are left untouched.
// The store stamps UpdatedAt on every patch.
type NotePatch struct {
	Question    *string
	Answer      *string
	Hidden      *bool
	Attachments *[]Attachment
}

// IsEmpty reports whether the patch changes nothing.
func (p NotePatch) IsEmpty() bool {
	return p.Question == nil && p.Answer == nil && p.Hidden == nil && p.Attachments == nil
}

// Apply copies the patched fields onto n.
func (p NotePatch) Apply(n *Note) {
	if p.Question != nil {
		n.Question = *p.Question
	}
	if p.Answer != nil {
		n.Answer = *p.Answer
	}
	if p.Hidden != nil {
		n.Hidden = *p.Hidden
	}
	if p.Attachments != nil {
		n.Attachments = append([]Attachment(nil), (*p.Attachments)...)
	}
}

// AttachmentPath returns the blob path for a note attachment:
// users/{uid}/notes/{noteId}/{filename}
func AttachmentPath(userID, noteID, filename string) string {
	return fmt.Sprintf("users/%s/notes/%s/%s", userID, noteID, filename)
}
