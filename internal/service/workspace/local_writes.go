package workspace

import (
	"slices"

	wsmodels "studynotes/internal/domain/models/workspace"
)

// The realtime stores deliver snapshots asynchronously, so a session that
// has just written a document may not see it in its lists yet. The helpers
// below apply the session's own completed writes to those lists; the next
// snapshot replaces them wholesale.

func (s *Session) recordFolderLocked(f wsmodels.Folder) {
	f.ParentID = wsmodels.NormalizeParentID(f.ParentID)
	next := slices.Clone(s.folders)
	if i := slices.IndexFunc(next, func(x wsmodels.Folder) bool { return x.ID == f.ID }); i >= 0 {
		next[i] = f
	} else {
		next = append(next, f)
		sortByCreated(next, func(f wsmodels.Folder) wsmodels.Timestamp { return f.CreatedAt })
	}
	s.folders = next
}

func (s *Session) dropFoldersLocked(ids map[string]struct{}) {
	s.folders = slices.DeleteFunc(slices.Clone(s.folders), func(f wsmodels.Folder) bool {
		_, ok := ids[f.ID]
		return ok
	})
	if _, ok := ids[s.sel.activeFolderID]; ok {
		s.sel.activeFolderID = ""
	}
}

func (s *Session) recordNoteLocked(n wsmodels.Note) {
	thin := n.Thin()
	next := slices.Clone(s.notes)
	if i := slices.IndexFunc(next, func(x wsmodels.Note) bool { return x.ID == thin.ID }); i >= 0 {
		next[i] = thin
	} else {
		next = append(next, thin)
		sortByCreated(next, func(n wsmodels.Note) wsmodels.Timestamp { return n.CreatedAt })
	}
	s.notes = next
}

func (s *Session) dropNoteLocked(id string) {
	s.notes = slices.DeleteFunc(slices.Clone(s.notes), func(n wsmodels.Note) bool { return n.ID == id })
	s.cache.evict(id)
	delete(s.reveal, id)
	if s.sel.activeNoteID == id {
		s.sel.activeNoteID = ""
	}
}
