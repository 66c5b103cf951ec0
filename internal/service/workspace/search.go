package workspace

import (
	"strings"

	"github.com/sahilm/fuzzy"

	wsmodels "studynotes/internal/domain/models/workspace"
)

// questionSource adapts a note list to fuzzy.Source
type questionSource []wsmodels.Note

func (q questionSource) String(i int) string { return q[i].Question }
func (q questionSource) Len() int            { return len(q) }

// SearchNotes fuzzy-matches query against note questions, best match first.
// An empty query returns nil.
func (s *Session) SearchNotes(query string) []wsmodels.Note {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	s.mu.Lock()
	notes := make(questionSource, len(s.notes))
	for i, n := range s.notes {
		n.Hidden = s.effectiveHiddenLocked(n)
		notes[i] = n
	}
	s.mu.Unlock()

	matches := fuzzy.FindFrom(query, notes)
	out := make([]wsmodels.Note, 0, len(matches))
	for _, m := range matches {
		out = append(out, notes[m.Index])
	}
	return out
}
