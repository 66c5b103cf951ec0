package workspace

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"studynotes/internal/domain"
	wsmodels "studynotes/internal/domain/models/workspace"
)

// storeNote writes a note straight to the store so the session only sees
// its thin projection.
func storeNote(t *testing.T, f *fixture, folderID string) *wsmodels.Note {
	t.Helper()
	n := &wsmodels.Note{
		FolderID:    folderID,
		Question:    "Define osmosis",
		Answer:      "Diffusion of water across a membrane",
		Hidden:      true,
		Attachments: []wsmodels.Attachment{{Name: "diagram.png", URL: "https://blobs.test/diagram.png"}},
	}
	if err := f.store.Notes().Create(context.Background(), "u1", n); err != nil {
		t.Fatalf("store Create() error = %v", err)
	}
	return n
}

func TestSelectNoteFetchesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	folder := mustFolder(t, f.session, "Bio", nil)
	n := storeNote(t, f, folder.ID)

	thin, ok := f.session.HydrateNote(n.ID)
	if !ok || len(thin.Attachments) != 0 || thin.Answer != "" {
		t.Fatalf("HydrateNote() before load = %+v, want thin entry", thin)
	}

	for i := 0; i < 3; i++ {
		f.session.SelectNote(ctx, n.ID)
	}
	if got := f.store.Faults.Calls("notes.get"); got != 1 {
		t.Errorf("notes.get calls = %d, want 1", got)
	}

	v := f.session.View()
	if v.ActiveNote == nil || v.ActiveNote.Answer != n.Answer || len(v.ActiveNote.Attachments) != 1 {
		t.Errorf("ActiveNote = %+v, want full document", v.ActiveNote)
	}
	full, _ := f.session.HydrateNote(n.ID)
	if full.Answer != n.Answer {
		t.Errorf("HydrateNote() answer = %q, want %q", full.Answer, n.Answer)
	}
}

func TestFullNoteConcurrentLoadsShareFetch(t *testing.T) {
	f := newFixture(t)
	folder := mustFolder(t, f.session, "Bio", nil)
	n := storeNote(t, f, folder.ID)

	release := make(chan struct{})
	f.store.Faults.OnCall("notes.get", func() { <-release })

	const callers = 5
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := f.session.FullNote(context.Background(), n.ID)
			if err == nil && got.Answer != n.Answer {
				err = errors.New("wrong answer: " + got.Answer)
			}
			errs <- err
		}()
	}
	// Let every caller join the in-flight load.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("FullNote() error = %v", err)
		}
	}
	if got := f.store.Faults.Calls("notes.get"); got != 1 {
		t.Errorf("notes.get calls = %d, want 1", got)
	}
}

func TestFullNoteFailureKeepsThinEntry(t *testing.T) {
	f := newFixture(t)
	folder := mustFolder(t, f.session, "Bio", nil)
	n := storeNote(t, f, folder.ID)
	f.store.Faults.Fail("notes.get", errors.New("unavailable"))

	if _, err := f.session.FullNote(context.Background(), n.ID); !errors.Is(err, domain.ErrTransient) {
		t.Fatalf("FullNote() error = %v, want ErrTransient", err)
	}
	f.session.SelectNote(context.Background(), n.ID)

	v := f.session.View()
	if v.ActiveNoteID != n.ID {
		t.Fatalf("active note = %q, want %q", v.ActiveNoteID, n.ID)
	}
	if v.ActiveNote == nil || v.ActiveNote.Question != n.Question || v.ActiveNote.Answer != "" {
		t.Errorf("ActiveNote = %+v, want thin entry", v.ActiveNote)
	}

	f.store.Faults.Clear("notes.get")
	if _, err := f.session.FullNote(context.Background(), n.ID); err != nil {
		t.Errorf("FullNote() after recovery error = %v", err)
	}
}

func TestExternalWriteEvictsCachedNote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	folder := mustFolder(t, f.session, "Bio", nil)
	n := storeNote(t, f, folder.ID)

	if _, err := f.session.FullNote(ctx, n.ID); err != nil {
		t.Fatalf("FullNote() error = %v", err)
	}

	answer := "Net movement of water toward higher solute concentration"
	if _, err := f.store.Notes().Patch(ctx, "u1", n.ID, wsmodels.NotePatch{Answer: &answer}); err != nil {
		t.Fatalf("Patch() error = %v", err)
	}

	got, err := f.session.FullNote(ctx, n.ID)
	if err != nil {
		t.Fatalf("FullNote() error = %v", err)
	}
	if got.Answer != answer {
		t.Errorf("answer = %q, want refreshed %q", got.Answer, answer)
	}
	if calls := f.store.Faults.Calls("notes.get"); calls != 2 {
		t.Errorf("notes.get calls = %d, want 2", calls)
	}
}

func TestFullNoteAbandonedAfterDetach(t *testing.T) {
	f := newFixture(t)
	folder := mustFolder(t, f.session, "Bio", nil)
	n := storeNote(t, f, folder.ID)

	f.store.Faults.OnCall("notes.get", f.session.Detach)

	_, err := f.session.FullNote(context.Background(), n.ID)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("FullNote() error = %v, want ErrUnauthorized", err)
	}
	if got := f.session.cache.len(); got != 0 {
		t.Errorf("cache entries = %d, want 0 after detach", got)
	}
}

func TestNoteCachePutRejectsOlderCopy(t *testing.T) {
	c := newNoteCache()
	epoch := c.currentEpoch()

	newer := wsmodels.Note{ID: "n1", Answer: "new", UpdatedAt: ts(20)}
	older := wsmodels.Note{ID: "n1", Answer: "old", UpdatedAt: ts(10)}
	if !c.put(epoch, newer) {
		t.Fatal("put(newer) rejected")
	}
	if c.put(epoch, older) {
		t.Error("put(older) accepted")
	}
	c.reset()
	if c.put(epoch, newer) {
		t.Error("put() accepted a load from before reset")
	}
}

func TestNoteCacheReconcile(t *testing.T) {
	c := newNoteCache()
	epoch := c.currentEpoch()
	c.put(epoch, wsmodels.Note{ID: "same", UpdatedAt: ts(10)})
	c.put(epoch, wsmodels.Note{ID: "stale", UpdatedAt: ts(10)})
	c.put(epoch, wsmodels.Note{ID: "gone", UpdatedAt: ts(10)})

	evicted := c.reconcile([]wsmodels.Note{
		{ID: "same", UpdatedAt: ts(10)},
		{ID: "stale", UpdatedAt: ts(11)},
	})
	if len(evicted) != 2 {
		t.Errorf("evicted = %v, want stale and gone", evicted)
	}
	if _, ok := c.get("same"); !ok {
		t.Error("unchanged entry evicted")
	}
	if c.len() != 1 {
		t.Errorf("len() = %d, want 1", c.len())
	}
}
