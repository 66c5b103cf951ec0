package workspace

import (
	"studynotes/internal/domain/models"
	wsmodels "studynotes/internal/domain/models/workspace"
)

// View is an immutable snapshot of a session plus everything derived from
// it. Notes carry their effective Hidden flag, so a pending visibility write
// is already reflected.
type View struct {
	User    *models.User `json:"user"`
	Loading bool         `json:"loading"`

	Folders []wsmodels.Folder `json:"folders"`
	Notes   []wsmodels.Note   `json:"notes"`
	Plans   []wsmodels.Plan   `json:"plans"`

	FolderTree              []*wsmodels.TreeNode `json:"folder_tree"`
	ActiveFolderID          string               `json:"active_folder_id,omitempty"`
	ActiveNoteID            string               `json:"active_note_id,omitempty"`
	ActiveFolderDescendants map[string]struct{}  `json:"-"`
	FolderNotes             []wsmodels.Note      `json:"folder_notes"`
	ActiveNote              *wsmodels.Note       `json:"active_note"`
	SelectedFolder          *wsmodels.Folder     `json:"selected_folder"`

	RevealAll       bool                `json:"reveal_all"`
	TryYourselfOpen bool                `json:"try_yourself_open"`
	AIDrawerOpen    bool                `json:"ai_drawer_open"`
	RightPanel      wsmodels.RightPanel `json:"right_panel"`
}

// AnswerVisible reports whether note's answer is shown: reveal-all wins,
// otherwise the note's own flag decides.
func (v View) AnswerVisible(note wsmodels.Note) bool {
	return v.RevealAll || !note.Hidden
}

// View returns the current snapshot.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	v := View{
		Loading:         s.user != nil && !s.loaded.complete(),
		Folders:         append([]wsmodels.Folder(nil), s.folders...),
		Plans:           append([]wsmodels.Plan(nil), s.plans...),
		ActiveFolderID:  s.sel.activeFolderID,
		ActiveNoteID:    s.sel.activeNoteID,
		RevealAll:       s.sel.revealAll,
		TryYourselfOpen: s.sel.tryYourselfOpen,
		AIDrawerOpen:    s.sel.aiDrawerOpen,
		RightPanel:      s.sel.panel,
	}
	if s.user != nil {
		u := *s.user
		v.User = &u
	}

	v.Notes = make([]wsmodels.Note, len(s.notes))
	for i, n := range s.notes {
		n.Hidden = s.effectiveHiddenLocked(n)
		v.Notes[i] = n
	}

	v.FolderTree = BuildFolderTree(s.folders)
	v.ActiveFolderDescendants = CollectDescendantIDs(s.folders, s.sel.activeFolderID)
	v.FolderNotes = scopeNotes(v.Notes, v.ActiveFolderDescendants)

	if f, ok := s.folderLocked(s.sel.activeFolderID); ok {
		v.SelectedFolder = &f
	}
	if n, ok := s.activeNoteLocked(); ok {
		v.ActiveNote = &n
	}
	return v
}

// activeNoteLocked prefers the cached full document over the thin entry.
func (s *Session) activeNoteLocked() (wsmodels.Note, bool) {
	id := s.sel.activeNoteID
	if id == "" {
		return wsmodels.Note{}, false
	}
	n, ok := s.cache.get(id)
	if !ok {
		n, ok = s.noteLocked(id)
	}
	if !ok {
		return wsmodels.Note{}, false
	}
	n.Hidden = s.effectiveHiddenLocked(n)
	return n, true
}

// scopeNotes returns the notes filed anywhere inside scope, keeping order.
func scopeNotes(notes []wsmodels.Note, scope map[string]struct{}) []wsmodels.Note {
	out := make([]wsmodels.Note, 0)
	if len(scope) == 0 {
		return out
	}
	for _, n := range notes {
		if _, ok := scope[n.FolderID]; ok {
			out = append(out, n)
		}
	}
	return out
}
