package workspace

import (
	models "studynotes/internal/domain/models/workspace"
)

// groupByParent indexes folders by parent id. Root-level folders are keyed
// by "". Each group keeps the input order.
func groupByParent(folders []models.Folder) map[string][]models.Folder {
	groups := make(map[string][]models.Folder, len(folders))
	for _, f := range folders {
		key := f.ParentKey()
		groups[key] = append(groups[key], f)
	}
	return groups
}

// BuildFolderTree nests a flat folder list into a forest. Children at every
// level are ordered by (creation time, name). Folders whose parent chain
// never reaches the root (dangling parents, cycles) are left out.
func BuildFolderTree(folders []models.Folder) []*models.TreeNode {
	groups := groupByParent(folders)
	for key := range groups {
		sortFolders(groups[key])
	}

	onPath := make(map[string]bool)
	var build func(parentKey string) []*models.TreeNode
	build = func(parentKey string) []*models.TreeNode {
		children := groups[parentKey]
		nodes := make([]*models.TreeNode, 0, len(children))
		for _, child := range children {
			if onPath[child.ID] {
				continue
			}
			onPath[child.ID] = true
			nodes = append(nodes, &models.TreeNode{
				Folder:   child,
				Children: build(child.ID),
			})
			delete(onPath, child.ID)
		}
		return nodes
	}

	return build("")
}

// CollectDescendantIDs returns rootID plus every folder below it. An empty
// rootID yields an empty set.
func CollectDescendantIDs(folders []models.Folder, rootID string) map[string]struct{} {
	ids := make(map[string]struct{})
	if rootID == "" {
		return ids
	}
	for _, id := range descendantOrder(folders, rootID) {
		ids[id] = struct{}{}
	}
	return ids
}

// descendantOrder walks the closure of rootID breadth-first; parents always
// precede their children in the result.
func descendantOrder(folders []models.Folder, rootID string) []string {
	if rootID == "" {
		return nil
	}
	groups := groupByParent(folders)
	seen := map[string]bool{rootID: true}
	order := []string{rootID}
	for i := 0; i < len(order); i++ {
		for _, child := range groups[order[i]] {
			if seen[child.ID] {
				continue
			}
			seen[child.ID] = true
			order = append(order, child.ID)
		}
	}
	return order
}
