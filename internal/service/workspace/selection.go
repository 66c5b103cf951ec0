package workspace

import (
	"context"

	wsmodels "studynotes/internal/domain/models/workspace"
)

// selection is the ephemeral per-session UI state
type selection struct {
	activeFolderID  string
	activeNoteID    string
	revealAll       bool
	tryYourselfOpen bool
	aiDrawerOpen    bool
	panel           wsmodels.RightPanel
}

func newSelection() selection {
	return selection{panel: wsmodels.DefaultRightPanel()}
}

// reselectFolderLocked keeps the active folder if it still exists, else
// falls back to the oldest folder, else none.
func (s *Session) reselectFolderLocked() {
	if s.sel.activeFolderID != "" && s.hasFolderLocked(s.sel.activeFolderID) {
		return
	}
	s.sel.activeFolderID = ""
	if len(s.folders) > 0 {
		s.sel.activeFolderID = s.folders[0].ID
	}
}

// reselectNoteLocked keeps the active note if it still exists, else falls
// back to the first note in the active folder, else the first note overall.
func (s *Session) reselectNoteLocked() {
	if s.sel.activeNoteID != "" && s.hasNoteLocked(s.sel.activeNoteID) {
		return
	}
	s.sel.activeNoteID = ""
	for _, n := range s.notes {
		if s.sel.activeFolderID != "" && n.FolderID == s.sel.activeFolderID {
			s.sel.activeNoteID = n.ID
			return
		}
	}
	if len(s.notes) > 0 {
		s.sel.activeNoteID = s.notes[0].ID
	}
}

func (s *Session) hasFolderLocked(id string) bool {
	_, ok := s.folderLocked(id)
	return ok
}

func (s *Session) folderLocked(id string) (wsmodels.Folder, bool) {
	for _, f := range s.folders {
		if f.ID == id {
			return f, true
		}
	}
	return wsmodels.Folder{}, false
}

func (s *Session) hasNoteLocked(id string) bool {
	_, ok := s.noteLocked(id)
	return ok
}

func (s *Session) noteLocked(id string) (wsmodels.Note, bool) {
	for _, n := range s.notes {
		if n.ID == id {
			return n, true
		}
	}
	return wsmodels.Note{}, false
}

// update runs fn under the lock and notifies listeners afterwards.
func (s *Session) update(fn func()) {
	s.mu.Lock()
	fn()
	s.mu.Unlock()
	s.notify()
}

// SelectFolder makes id the active folder. An empty id clears the selection.
func (s *Session) SelectFolder(id string) {
	s.update(func() {
		s.sel.activeFolderID = id
	})
}

// SelectNote makes id the active note, shows it in the right panel and
// loads the full document into the cache. Fetch failures are logged and the
// thin entry stays in place.
func (s *Session) SelectNote(ctx context.Context, id string) {
	s.update(func() {
		s.sel.activeNoteID = id
		s.sel.panel = wsmodels.DefaultRightPanel()
	})
	if id == "" {
		return
	}
	if _, err := s.FullNote(ctx, id); err != nil {
		s.logger.Warn("failed to load full note", "note_id", id, "error", err)
	}
}

// SetRevealAll shows every answer regardless of the per-note flag.
func (s *Session) SetRevealAll(on bool) {
	s.update(func() { s.sel.revealAll = on })
}

// SetTryYourselfOpen opens or closes the quiz dialog.
func (s *Session) SetTryYourselfOpen(open bool) {
	s.update(func() { s.sel.tryYourselfOpen = open })
}

// SetAIDrawerOpen opens or closes the assistant drawer.
func (s *Session) SetAIDrawerOpen(open bool) {
	s.update(func() { s.sel.aiDrawerOpen = open })
}

// OpenFolderForm shows the folder form with parentID as the default parent.
func (s *Session) OpenFolderForm(parentID *string) {
	s.update(func() {
		s.sel.panel = wsmodels.RightPanel{
			Type:    wsmodels.PanelFolderForm,
			Payload: wsmodels.PanelPayload{ParentID: wsmodels.NormalizeParentID(parentID)},
		}
	})
}

// OpenNoteForm shows the note form targeting folderID, or the active folder
// when folderID is empty. The target folder becomes the active folder.
func (s *Session) OpenNoteForm(folderID string) {
	s.update(func() {
		target := folderID
		if target == "" {
			target = s.sel.activeFolderID
		}
		if target != "" {
			s.sel.activeFolderID = target
		}
		s.sel.panel = wsmodels.RightPanel{
			Type:    wsmodels.PanelNoteForm,
			Payload: wsmodels.PanelPayload{FolderID: wsmodels.NormalizeParentID(&target)},
		}
	})
}

// CloseRightPanel returns the right panel to the active note.
func (s *Session) CloseRightPanel() {
	s.update(func() { s.sel.panel = wsmodels.DefaultRightPanel() })
}
