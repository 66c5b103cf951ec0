package seed

import (
	"context"
	"errors"
	"testing"

	wsmodels "studynotes/internal/domain/models/workspace"
	"studynotes/internal/domain/repositories"
	"studynotes/internal/repository/memory"
	"studynotes/internal/testutil"
)

// countingTx runs fn directly and counts calls.
type countingTx struct{ calls int }

func (c *countingTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	c.calls++
	return fn(ctx)
}

func TestSeedDemoWorkspace(t *testing.T) {
	store := memory.NewStore(memory.WithIDGenerator(testutil.NewStubIDGenerator("doc")))
	tx := &countingTx{}
	seeder := NewWorkspaceSeeder(store.Folders(), store.Notes(), store.Plans(), tx, testutil.DiscardLogger())

	res, err := seeder.Seed(context.Background(), "u1", DemoFolders(), DemoPlans("2026-06-01T00:00:00Z"))
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if res != (Result{Folders: 3, Notes: 5, Plans: 2}) {
		t.Errorf("result = %+v", res)
	}
	if tx.calls != 1 {
		t.Errorf("ExecTx calls = %d, want 1", tx.calls)
	}

	var folders []wsmodels.Folder
	unsub, err := store.Folders().Subscribe(context.Background(), "u1", func(f []wsmodels.Folder) { folders = f })
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer unsub()

	byName := map[string]wsmodels.Folder{}
	for _, f := range folders {
		byName[f.Name] = f
	}
	cells, bio := byName["Cells"], byName["Biology"]
	if cells.ParentID == nil || *cells.ParentID != bio.ID {
		t.Errorf("Cells parent = %v, want %s", cells.ParentID, bio.ID)
	}
	if bio.ParentID != nil {
		t.Errorf("Biology should be at the root, parent = %v", *bio.ParentID)
	}
}

func TestSeedStopsOnError(t *testing.T) {
	store := memory.NewStore()
	store.Faults.Fail("folders.create", errors.New("boom"))
	seeder := NewWorkspaceSeeder(store.Folders(), store.Notes(), store.Plans(), nil, testutil.DiscardLogger())

	if _, err := seeder.Seed(context.Background(), "u1", DemoFolders(), nil); err == nil {
		t.Fatal("expected error")
	}
}
