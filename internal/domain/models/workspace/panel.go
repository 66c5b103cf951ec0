package workspace

// PanelType selects what the right-side panel shows.
type PanelType string

const (
	PanelNote       PanelType = "note"
	PanelFolderForm PanelType = "folder-form"
	PanelNoteForm   PanelType = "note-form"
)

// Valid reports whether t is a known panel type.
func (t PanelType) Valid() bool {
	switch t {
	case PanelNote, PanelFolderForm, PanelNoteForm:
		return true
	}
	return false
}

// RightPanel is the right-side panel mode and its form defaults.
type RightPanel struct {
	Type    PanelType    `json:"type"`
	Payload PanelPayload `json:"payload"`
}

// PanelPayload carries the parent folder for a folder form or the target
// folder for a note form.
type PanelPayload struct {
	ParentID *string `json:"parent_id,omitempty"`
	FolderID *string `json:"folder_id,omitempty"`
}

// DefaultRightPanel shows the active note.
func DefaultRightPanel() RightPanel {
	return RightPanel{Type: PanelNote}
}
