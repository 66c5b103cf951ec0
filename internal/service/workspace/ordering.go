package workspace

import (
	"cmp"
	"slices"

	models "studynotes/internal/domain/models/workspace"
)

// compareCreated orders by creation time ascending. Pending timestamps sort
// first.
func compareCreated(a, b models.Timestamp) int {
	return cmp.Compare(a.Seconds(), b.Seconds())
}

// compareFolders orders siblings by (creation time, name)
func compareFolders(a, b models.Folder) int {
	if c := compareCreated(a.CreatedAt, b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}

// sortFolders sorts folders in place by (creation time, name), stable
func sortFolders(folders []models.Folder) {
	slices.SortStableFunc(folders, compareFolders)
}

// sortByCreated sorts items in place by creation time, stable
func sortByCreated[T any](items []T, createdAt func(T) models.Timestamp) {
	slices.SortStableFunc(items, func(a, b T) int {
		return compareCreated(createdAt(a), createdAt(b))
	})
}
