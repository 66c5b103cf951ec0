package memory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"studynotes/internal/domain"
	models "studynotes/internal/domain/models/workspace"
	"studynotes/internal/testutil"
)

func newTestStore() *Store {
	return NewStore(
		WithClock(testutil.FixedStart()),
		WithIDGenerator(testutil.NewStubIDGenerator("doc")),
	)
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	if err := store.Folders().Create(ctx, "u1", &models.Folder{Name: "Biology"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var got [][]models.Folder
	unsub, err := store.Folders().Subscribe(ctx, "u1", func(f []models.Folder) {
		got = append(got, f)
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer unsub()

	if len(got) != 1 || len(got[0]) != 1 || got[0][0].Name != "Biology" {
		t.Fatalf("initial snapshot = %+v, want one Biology folder", got)
	}
}

func TestSnapshotsOrderedByCreation(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	var last []models.Folder
	unsub, _ := store.Folders().Subscribe(ctx, "u1", func(f []models.Folder) { last = f })
	defer unsub()

	for _, name := range []string{"c", "a", "b"} {
		if err := store.Folders().Create(ctx, "u1", &models.Folder{Name: name}); err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
	}

	var names []string
	for _, f := range last {
		names = append(names, f.Name)
	}
	if strings.Join(names, ",") != "c,a,b" {
		t.Errorf("snapshot order = %v, want creation order c,a,b", names)
	}
}

func TestSubscriptionsAreScopedPerUser(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	calls := 0
	unsub, _ := store.Notes().Subscribe(ctx, "u2", func([]models.Note) { calls++ })
	defer unsub()

	_ = store.Notes().Create(ctx, "u1", &models.Note{FolderID: "f", Question: "q", Answer: "a"})

	if calls != 1 {
		t.Errorf("u2 listener calls = %d, want only the initial delivery", calls)
	}
}

func TestNoteSnapshotIsThin(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	note := &models.Note{
		FolderID:    "f",
		Question:    "What is ATP?",
		Answer:      "Energy currency",
		Hidden:      true,
		Attachments: []models.Attachment{{Name: "atp.png"}},
	}
	if err := store.Notes().Create(ctx, "u1", note); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var snap []models.Note
	unsub, _ := store.Notes().Subscribe(ctx, "u1", func(n []models.Note) { snap = n })
	defer unsub()

	if len(snap) != 1 {
		t.Fatalf("snapshot len = %d, want 1", len(snap))
	}
	if snap[0].Answer != "" || snap[0].Attachments != nil {
		t.Errorf("snapshot note = %+v, want answer and attachments stripped", snap[0])
	}
	if !snap[0].Hidden {
		t.Error("snapshot note lost its hidden flag")
	}

	full, err := store.Notes().Get(ctx, "u1", note.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if full.Answer != "Energy currency" || len(full.Attachments) != 1 {
		t.Errorf("Get() = %+v, want full document", full)
	}
}

func TestPatchStampsUpdatedAt(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	note := &models.Note{FolderID: "f", Question: "q", Answer: "a"}
	_ = store.Notes().Create(ctx, "u1", note)

	answer := "b"
	got, err := store.Notes().Patch(ctx, "u1", note.ID, models.NotePatch{Answer: &answer})
	if err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	if got.Answer != "b" || got.Question != "q" {
		t.Errorf("Patch() = %+v, want only answer changed", got)
	}
	if !got.UpdatedAt.After(note.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want later than %v", got.UpdatedAt, note.UpdatedAt)
	}

	_, err = store.Notes().Patch(ctx, "u1", "missing", models.NotePatch{Answer: &answer})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Patch(missing) error = %v, want ErrNotFound", err)
	}
}

func TestPlanMergeUpserts(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	title := "Finals"
	date := "2026-06-01T00:00:00Z"
	plan, err := store.Plans().Merge(ctx, "u1", "plan-1", models.PlanPatch{Title: &title, TargetDate: &date})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if plan.ID != "plan-1" || plan.CreatedAt.IsPending() {
		t.Errorf("Merge() = %+v, want created plan", plan)
	}

	none := ""
	plan, err = store.Plans().Merge(ctx, "u1", "plan-1", models.PlanPatch{TargetDate: &none})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if plan.Title != "Finals" || plan.TargetDate != nil {
		t.Errorf("Merge(clear date) = %+v, want title kept and date cleared", plan)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	calls := 0
	unsub, _ := store.Plans().Subscribe(ctx, "u1", func([]models.Plan) { calls++ })
	if store.ListenerCount("u1") != 1 {
		t.Fatalf("ListenerCount() = %d, want 1", store.ListenerCount("u1"))
	}
	unsub()
	unsub()

	_ = store.Plans().Create(ctx, "u1", &models.Plan{Title: "x"})
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (initial only)", calls)
	}
	if store.ListenerCount("u1") != 0 {
		t.Errorf("ListenerCount() = %d, want 0", store.ListenerCount("u1"))
	}
}

func TestFaultsInjectErrorsAndCountCalls(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	boom := errors.New("boom")

	store.Faults.Fail("notes.get:n1", boom)
	if _, err := store.Notes().Get(ctx, "u1", "n1"); !errors.Is(err, boom) {
		t.Errorf("Get(n1) error = %v, want boom", err)
	}
	if _, err := store.Notes().Get(ctx, "u1", "n2"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get(n2) error = %v, want ErrNotFound", err)
	}
	if got := store.Faults.Calls("notes.get"); got != 2 {
		t.Errorf("Calls(notes.get) = %d, want 2", got)
	}
}

func TestBlobStore(t *testing.T) {
	blobs := NewBlobStore("https://blobs.test/")
	ctx := context.Background()

	ref, err := blobs.Upload(ctx, "users/u1/notes/n1/a.txt", strings.NewReader("hello"), 5, "text/plain")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	url, err := blobs.PublicURL(ctx, ref)
	if err != nil {
		t.Fatalf("PublicURL() error = %v", err)
	}
	if url != "https://blobs.test/users/u1/notes/n1/a.txt" {
		t.Errorf("PublicURL() = %q", url)
	}

	if _, err := blobs.Upload(ctx, "p", strings.NewReader("abc"), 10, ""); err == nil {
		t.Error("Upload() with wrong size succeeded")
	}

	if err := blobs.Delete(ctx, ref.Path); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(blobs.Paths()) != 0 {
		t.Errorf("Paths() = %v, want empty", blobs.Paths())
	}
}
