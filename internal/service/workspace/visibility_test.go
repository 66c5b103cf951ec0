package workspace

import (
	"context"
	"errors"
	"sync"
	"testing"

	"studynotes/internal/domain"
	wsmodels "studynotes/internal/domain/models/workspace"
)

func TestNewNoteAnswerHidden(t *testing.T) {
	f := newFixture(t)
	folder := mustFolder(t, f.session, "Bio", nil)
	note := mustNote(t, f.session, folder.ID, "What is ATP?", "Energy currency")

	if f.session.AnswerVisible(note.ID) {
		t.Error("new note answer visible, want hidden")
	}
	v := f.session.View()
	if v.ActiveNote == nil || !v.ActiveNote.Hidden {
		t.Errorf("ActiveNote = %+v, want hidden", v.ActiveNote)
	}
	if v.AnswerVisible(*v.ActiveNote) {
		t.Error("View.AnswerVisible() = true, want false")
	}
}

func TestRevealAllOverridesHidden(t *testing.T) {
	f := newFixture(t)
	folder := mustFolder(t, f.session, "Bio", nil)
	note := mustNote(t, f.session, folder.ID, "q", "a")

	f.session.SetRevealAll(true)
	if !f.session.AnswerVisible(note.ID) {
		t.Error("AnswerVisible() = false with reveal-all on")
	}
	v := f.session.View()
	if !v.RevealAll || !v.AnswerVisible(*v.ActiveNote) {
		t.Errorf("view reveal-all = %v, want answer visible", v.RevealAll)
	}
	// The stored flag is untouched.
	if !v.ActiveNote.Hidden {
		t.Error("reveal-all changed the note's hidden flag")
	}

	f.session.SetRevealAll(false)
	if f.session.AnswerVisible(note.ID) {
		t.Error("AnswerVisible() = true after reveal-all turned off")
	}
}

func TestUpdateNoteVisibilityIsOptimistic(t *testing.T) {
	f := newFixture(t)
	folder := mustFolder(t, f.session, "Bio", nil)
	note := mustNote(t, f.session, folder.ID, "q", "a")

	started := make(chan struct{})
	release := make(chan struct{})
	f.store.Faults.OnCall("notes.patch", func() {
		close(started)
		<-release
	})

	var wg sync.WaitGroup
	var writeErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		writeErr = f.session.UpdateNoteVisibility(context.Background(), note.ID, false)
	}()

	<-started
	if !f.session.AnswerVisible(note.ID) {
		t.Error("answer hidden while write in flight, want shown immediately")
	}
	close(release)
	wg.Wait()
	f.store.Faults.OnCall("notes.patch", nil)

	if writeErr != nil {
		t.Fatalf("UpdateNoteVisibility() error = %v", writeErr)
	}
	if !f.session.AnswerVisible(note.ID) {
		t.Error("answer hidden after confirmed write")
	}
	stored, err := f.store.Notes().Get(context.Background(), "u1", note.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Hidden {
		t.Error("stored note still hidden")
	}
}

func TestUpdateNoteVisibilityRollsBack(t *testing.T) {
	f := newFixture(t)
	folder := mustFolder(t, f.session, "Bio", nil)
	note := mustNote(t, f.session, folder.ID, "q", "a")
	f.store.Faults.Fail("notes.patch", errors.New("permission denied"))

	var seen []bool
	remove := f.session.OnChange(func() {
		seen = append(seen, f.session.AnswerVisible(note.ID))
	})
	defer remove()

	err := f.session.UpdateNoteVisibility(context.Background(), note.ID, false)
	if !errors.Is(err, domain.ErrTransient) {
		t.Fatalf("UpdateNoteVisibility() error = %v, want ErrTransient", err)
	}
	if f.session.AnswerVisible(note.ID) {
		t.Error("answer visible after failed write, want rolled back")
	}
	if len(seen) < 2 || !seen[0] || seen[len(seen)-1] {
		t.Errorf("visibility transitions = %v, want shown then hidden", seen)
	}
}

func TestToggleAnswer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	folder := mustFolder(t, f.session, "Bio", nil)
	note := mustNote(t, f.session, folder.ID, "q", "a")

	if err := f.session.ToggleAnswer(ctx, note.ID); err != nil {
		t.Fatalf("ToggleAnswer() error = %v", err)
	}
	if !f.session.AnswerVisible(note.ID) {
		t.Error("first toggle did not reveal the answer")
	}
	if err := f.session.ToggleAnswer(ctx, note.ID); err != nil {
		t.Fatalf("ToggleAnswer() error = %v", err)
	}
	if f.session.AnswerVisible(note.ID) {
		t.Error("second toggle did not hide the answer")
	}

	if err := f.session.ToggleAnswer(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("ToggleAnswer(missing) error = %v, want ErrNotFound", err)
	}
}

func TestVisibilityFollowsExternalWrites(t *testing.T) {
	f := newFixture(t)
	folder := mustFolder(t, f.session, "Bio", nil)
	note := mustNote(t, f.session, folder.ID, "q", "a")

	hidden := false
	if _, err := f.store.Notes().Patch(context.Background(), "u1", note.ID, wsmodels.NotePatch{Hidden: &hidden}); err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	if !f.session.AnswerVisible(note.ID) {
		t.Error("external reveal not reflected")
	}
}
