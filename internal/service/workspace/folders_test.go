package workspace

import (
	"context"
	"errors"
	"strings"
	"testing"

	"studynotes/internal/domain"
	wssvc "studynotes/internal/domain/services/workspace"
)

func TestCreateFolderValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	missing := "missing"

	tests := []struct {
		name string
		req  *wssvc.CreateFolderRequest
	}{
		{name: "empty name", req: &wssvc.CreateFolderRequest{Name: ""}},
		{name: "blank name", req: &wssvc.CreateFolderRequest{Name: "   "}},
		{name: "name too long", req: &wssvc.CreateFolderRequest{Name: strings.Repeat("x", 256)}},
		{name: "unknown parent", req: &wssvc.CreateFolderRequest{Name: "ok", ParentID: &missing}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.session.CreateFolder(ctx, tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("CreateFolder() error = %v, want ErrValidation", err)
			}
		})
	}
	if calls := f.store.Faults.Calls("folders.create"); calls != 0 {
		t.Errorf("store called %d times for invalid input", calls)
	}
}

func TestCreateFolderTrimsAndSelects(t *testing.T) {
	f := newFixture(t)
	f.session.OpenFolderForm(nil)

	folder, err := f.session.CreateFolder(context.Background(), &wssvc.CreateFolderRequest{Name: "  Biology  ", ParentID: new(string)})
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}
	if folder.Name != "Biology" || folder.ParentID != nil {
		t.Errorf("folder = %+v, want trimmed root folder", folder)
	}
	if folder.CreatedAt.IsPending() {
		t.Error("CreatedAt not assigned by the store")
	}
	v := f.session.View()
	if v.ActiveFolderID != folder.ID || v.RightPanel.Type != "note" {
		t.Errorf("view = active %q panel %q, want new folder and note panel", v.ActiveFolderID, v.RightPanel.Type)
	}
}

func TestCreateFolderStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.Faults.Fail("folders.create", errors.New("offline"))

	_, err := f.session.CreateFolder(context.Background(), &wssvc.CreateFolderRequest{Name: "Biology"})
	if !errors.Is(err, domain.ErrTransient) {
		t.Errorf("CreateFolder() error = %v, want ErrTransient", err)
	}
}

func TestRenameFolder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	folder := mustFolder(t, f.session, "Bio", nil)

	if _, err := f.session.RenameFolder(ctx, folder.ID, " "); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("RenameFolder(blank) error = %v, want ErrValidation", err)
	}
	if _, err := f.session.RenameFolder(ctx, "missing", "X"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("RenameFolder(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := f.session.RenameFolder(ctx, folder.ID, "Biology"); err != nil {
		t.Fatalf("RenameFolder() error = %v", err)
	}
	if got := f.session.View().Folders[0].Name; got != "Biology" {
		t.Errorf("folder name = %q, want Biology", got)
	}
}

func TestMoveFolder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.session

	a := mustFolder(t, s, "A", nil)
	b := mustFolder(t, s, "B", &a.ID)
	c := mustFolder(t, s, "C", &b.ID)
	d := mustFolder(t, s, "D", nil)

	tests := []struct {
		name     string
		folderID string
		parentID *string
		wantErr  error
	}{
		{name: "into itself", folderID: a.ID, parentID: &a.ID, wantErr: domain.ErrValidation},
		{name: "into child", folderID: a.ID, parentID: &b.ID, wantErr: domain.ErrValidation},
		{name: "into grandchild", folderID: a.ID, parentID: &c.ID, wantErr: domain.ErrValidation},
		{name: "unknown parent", folderID: a.ID, parentID: ptr("nope"), wantErr: domain.ErrValidation},
		{name: "unknown folder", folderID: "nope", parentID: nil, wantErr: domain.ErrNotFound},
		{name: "under sibling tree", folderID: b.ID, parentID: &d.ID},
		{name: "to root", folderID: c.ID, parentID: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.MoveFolder(ctx, &wssvc.MoveFolderRequest{FolderID: tt.folderID, ParentID: tt.parentID})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("MoveFolder() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("MoveFolder() error = %v", err)
			}
		})
	}

	scope := CollectDescendantIDs(s.View().Folders, d.ID)
	if _, ok := scope[b.ID]; !ok {
		t.Error("B not under D after move")
	}
	if _, ok := scope[c.ID]; ok {
		t.Error("C still under D after moving it to root")
	}
}

func TestDeleteFolderCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.session

	bio := mustFolder(t, s, "Biology", nil)
	cells := mustFolder(t, s, "Cells", &bio.ID)
	organelles := mustFolder(t, s, "Organelles", &cells.ID)
	chem := mustFolder(t, s, "Chemistry", nil)

	mustNote(t, s, bio.ID, "q1", "a1")
	mustNote(t, s, organelles.ID, "q2", "a2")
	keep := mustNote(t, s, chem.ID, "q3", "a3")

	if err := s.DeleteFolder(ctx, bio.ID); err != nil {
		t.Fatalf("DeleteFolder() error = %v", err)
	}

	v := s.View()
	if len(v.Folders) != 1 || v.Folders[0].ID != chem.ID {
		t.Errorf("folders = %+v, want only Chemistry", v.Folders)
	}
	if len(v.Notes) != 1 || v.Notes[0].ID != keep.ID {
		t.Errorf("notes = %+v, want only the Chemistry note", v.Notes)
	}
	for _, n := range v.Notes {
		if _, gone := map[string]bool{bio.ID: true, cells.ID: true, organelles.ID: true}[n.FolderID]; gone {
			t.Errorf("note %s survived in deleted folder %s", n.ID, n.FolderID)
		}
	}
}

func TestDeleteFolderKeepsFoldersWhenNoteDeleteFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.session

	bio := mustFolder(t, s, "Biology", nil)
	stuck := mustNote(t, s, bio.ID, "stuck", "a")
	mustNote(t, s, bio.ID, "fine", "b")

	f.store.Faults.Fail("notes.delete:"+stuck.ID, errors.New("permission denied"))

	err := s.DeleteFolder(ctx, bio.ID)
	if !errors.Is(err, domain.ErrTransient) {
		t.Fatalf("DeleteFolder() error = %v, want ErrTransient", err)
	}

	v := s.View()
	if len(v.Folders) != 1 {
		t.Errorf("folders = %d, want the folder kept", len(v.Folders))
	}
	if len(v.Notes) != 1 || v.Notes[0].ID != stuck.ID {
		t.Errorf("notes = %+v, want only the stuck note left", v.Notes)
	}
	if calls := f.store.Faults.Calls("folders.delete"); calls != 0 {
		t.Errorf("folders.delete called %d times, want 0", calls)
	}
}

func TestDeleteFolderUnknown(t *testing.T) {
	f := newFixture(t)
	if err := f.session.DeleteFolder(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("DeleteFolder(unknown) error = %v, want ErrNotFound", err)
	}
	if err := f.session.DeleteFolder(context.Background(), ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("DeleteFolder(\"\") error = %v, want ErrValidation", err)
	}
}
