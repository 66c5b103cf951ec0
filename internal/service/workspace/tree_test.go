package workspace

import (
	"sort"
	"testing"
	"time"

	models "studynotes/internal/domain/models/workspace"
)

func ts(sec int64) models.Timestamp {
	return models.NewTimestamp(time.Unix(sec, 0))
}

func ptr(s string) *string { return &s }

func folder(id, name string, parent *string, created int64) models.Folder {
	return models.Folder{ID: id, Name: name, ParentID: parent, CreatedAt: ts(created)}
}

// flatten walks the forest depth-first and returns every node id.
func flatten(nodes []*models.TreeNode) []string {
	var ids []string
	for _, n := range nodes {
		ids = append(ids, n.ID)
		ids = append(ids, flatten(n.Children)...)
	}
	return ids
}

func TestBuildFolderTree(t *testing.T) {
	folders := []models.Folder{
		folder("cells", "Cells", ptr("bio"), 20),
		folder("bio", "Biology", nil, 10),
		folder("chem", "Chemistry", nil, 10),
		folder("genes", "Genes", ptr("bio"), 15),
		folder("dna", "DNA", ptr("genes"), 30),
	}

	tree := BuildFolderTree(folders)

	if len(tree) != 2 {
		t.Fatalf("roots = %d, want 2", len(tree))
	}
	// Same creation time: ties broken by name.
	if tree[0].ID != "bio" || tree[1].ID != "chem" {
		t.Errorf("roots = [%s %s], want [bio chem]", tree[0].ID, tree[1].ID)
	}
	bio := tree[0]
	if len(bio.Children) != 2 || bio.Children[0].ID != "genes" || bio.Children[1].ID != "cells" {
		t.Errorf("bio children = %v, want [genes cells]", flatten(bio.Children))
	}
	if got := flatten(bio.Children[0].Children); len(got) != 1 || got[0] != "dna" {
		t.Errorf("genes children = %v, want [dna]", got)
	}
}

func TestBuildFolderTreeRoundTrip(t *testing.T) {
	folders := []models.Folder{
		folder("a", "A", nil, 1),
		folder("b", "B", ptr("a"), 2),
		folder("c", "C", ptr("b"), 3),
		folder("d", "D", nil, 4),
		folder("e", "E", ptr("d"), 5),
		folder("f", "F", ptr("a"), 6),
	}

	ids := flatten(BuildFolderTree(folders))
	if len(ids) != len(folders) {
		t.Fatalf("tree holds %d folders, want %d", len(ids), len(folders))
	}
	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("folder %s appears twice", id)
		}
		seen[id] = true
	}

	// Every child sits under its declared parent.
	var check func(parent *string, nodes []*models.TreeNode)
	check = func(parent *string, nodes []*models.TreeNode) {
		for _, n := range nodes {
			if (parent == nil) != (n.ParentID == nil) || (parent != nil && *parent != *n.ParentID) {
				t.Errorf("folder %s placed under wrong parent", n.ID)
			}
			id := n.ID
			check(&id, n.Children)
		}
	}
	check(nil, BuildFolderTree(folders))
}

func TestBuildFolderTreeToleratesBadInput(t *testing.T) {
	tests := []struct {
		name    string
		folders []models.Folder
		want    []string
	}{
		{
			name:    "empty",
			folders: nil,
			want:    nil,
		},
		{
			name: "dangling parent is dropped",
			folders: []models.Folder{
				folder("a", "A", nil, 1),
				folder("orphan", "Orphan", ptr("missing"), 2),
			},
			want: []string{"a"},
		},
		{
			name: "cycle unreachable from root is dropped",
			folders: []models.Folder{
				folder("a", "A", nil, 1),
				folder("x", "X", ptr("y"), 2),
				folder("y", "Y", ptr("x"), 3),
			},
			want: []string{"a"},
		},
		{
			name: "self parent",
			folders: []models.Folder{
				folder("self", "Self", ptr("self"), 1),
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := flatten(BuildFolderTree(tt.folders))
			if len(got) != len(tt.want) {
				t.Fatalf("tree = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("tree = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestCollectDescendantIDs(t *testing.T) {
	folders := []models.Folder{
		folder("bio", "Biology", nil, 1),
		folder("cells", "Cells", ptr("bio"), 2),
		folder("organelles", "Organelles", ptr("cells"), 3),
		folder("chem", "Chemistry", nil, 4),
		folder("x", "X", ptr("y"), 5),
		folder("y", "Y", ptr("x"), 6),
	}

	tests := []struct {
		name   string
		rootID string
		want   []string
	}{
		{name: "empty root", rootID: "", want: []string{}},
		{name: "subtree", rootID: "bio", want: []string{"bio", "cells", "organelles"}},
		{name: "leaf", rootID: "organelles", want: []string{"organelles"}},
		{name: "unknown id includes itself", rootID: "nope", want: []string{"nope"}},
		{name: "cycle terminates", rootID: "x", want: []string{"x", "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keys(CollectDescendantIDs(folders, tt.rootID))
			if len(got) != len(tt.want) {
				t.Fatalf("CollectDescendantIDs(%q) = %v, want %v", tt.rootID, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("CollectDescendantIDs(%q) = %v, want %v", tt.rootID, got, tt.want)
				}
			}
		})
	}
}

func TestDescendantClosureMatchesParentChains(t *testing.T) {
	folders := []models.Folder{
		folder("a", "A", nil, 1),
		folder("b", "B", ptr("a"), 2),
		folder("c", "C", ptr("b"), 3),
		folder("d", "D", ptr("a"), 4),
		folder("e", "E", nil, 5),
	}
	byID := make(map[string]models.Folder)
	for _, f := range folders {
		byID[f.ID] = f
	}

	// x is in closure(r) exactly when walking x's parents reaches r.
	reaches := func(x, r string) bool {
		for cur, steps := x, 0; steps <= len(folders); steps++ {
			if cur == r {
				return true
			}
			f, ok := byID[cur]
			if !ok || f.ParentID == nil {
				return false
			}
			cur = *f.ParentID
		}
		return false
	}

	for _, root := range folders {
		closure := CollectDescendantIDs(folders, root.ID)
		for _, f := range folders {
			_, in := closure[f.ID]
			if in != reaches(f.ID, root.ID) {
				t.Errorf("closure(%s) contains %s = %v, want %v", root.ID, f.ID, in, !in)
			}
		}
	}
}

func TestScopeNotesIsIdempotent(t *testing.T) {
	folders := []models.Folder{
		folder("bio", "Biology", nil, 1),
		folder("cells", "Cells", ptr("bio"), 2),
		folder("chem", "Chemistry", nil, 3),
	}
	notes := []models.Note{
		{ID: "n1", FolderID: "cells"},
		{ID: "n2", FolderID: "chem"},
		{ID: "n3", FolderID: "bio"},
	}
	scope := CollectDescendantIDs(folders, "bio")

	once := scopeNotes(notes, scope)
	twice := scopeNotes(once, scope)

	if len(once) != 2 || once[0].ID != "n1" || once[1].ID != "n3" {
		t.Fatalf("scopeNotes() = %+v, want n1 n3", once)
	}
	if len(twice) != len(once) {
		t.Errorf("scoping twice changed the result: %d vs %d", len(twice), len(once))
	}
	if got := scopeNotes(notes, CollectDescendantIDs(folders, "")); len(got) != 0 {
		t.Errorf("scopeNotes(no active folder) = %+v, want empty", got)
	}
}
