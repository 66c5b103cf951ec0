package workspace

import (
	"context"
	"testing"

	"studynotes/internal/domain/models"
	"studynotes/internal/repository/memory"
	"studynotes/internal/testutil"
)

type fixture struct {
	session *Session
	store   *memory.Store
	blobs   *memory.BlobStore
	user    *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore(
		memory.WithClock(testutil.FixedStart()),
		memory.WithIDGenerator(testutil.NewStubIDGenerator("doc")),
	)
	blobs := memory.NewBlobStore("https://blobs.test/")
	f := &fixture{
		store: store,
		blobs: blobs,
		user:  &models.User{UID: "u1", Email: "student@example.com"},
	}
	f.session = NewSession(store.Folders(), store.Notes(), store.Plans(), blobs, testutil.DiscardLogger())
	if err := f.session.Attach(context.Background(), f.user); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	t.Cleanup(f.session.Detach)
	return f
}
