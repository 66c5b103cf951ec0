package study

import (
	"math/rand"
	"strings"
	"sync"
	"unicode"

	wsmodels "studynotes/internal/domain/models/workspace"
)

// Quiz draws practice questions from a folder and checks typed answers.
type Quiz struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewQuiz creates a quiz drawing from rng. A nil rng uses a time-seeded source.
func NewQuiz(rng *rand.Rand) *Quiz {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Quiz{rng: rng}
}

// Candidates returns the notes filed directly in folderID. Notes in
// subfolders are not included.
func Candidates(notes []wsmodels.Note, folderID string) []wsmodels.Note {
	var out []wsmodels.Note
	for _, n := range notes {
		if n.FolderID == folderID {
			out = append(out, n)
		}
	}
	return out
}

// Pick returns one candidate uniformly at random. ok is false when there
// are no candidates.
func (q *Quiz) Pick(candidates []wsmodels.Note) (wsmodels.Note, bool) {
	if len(candidates) == 0 {
		return wsmodels.Note{}, false
	}
	q.mu.Lock()
	i := q.rng.Intn(len(candidates))
	q.mu.Unlock()
	return candidates[i], true
}

// Check reports whether given matches expected. Both are normalized and the
// answer counts when it is a non-empty part of the expected text.
func Check(expected, given string) bool {
	g := normalizeAnswer(given)
	if g == "" {
		return false
	}
	return strings.Contains(normalizeAnswer(expected), g)
}

// normalizeAnswer lower-cases s and collapses every run of characters that
// are not letters or digits into one space.
func normalizeAnswer(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	gap := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if gap && b.Len() > 0 {
				b.WriteByte(' ')
			}
			gap = false
			b.WriteRune(r)
			continue
		}
		gap = true
	}
	return b.String()
}
