package workspace

// Folder is a node in a user's folder hierarchy.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id"` // nil = root level
	CreatedAt Timestamp `json:"created_at"`
}

// ParentKey returns the parent id, or "" for root-level folders.
func (f Folder) ParentKey() string {
	if f.ParentID == nil {
		return ""
	}
	return *f.ParentID
}

// TreeNode is a folder with its ordered children attached.
type TreeNode struct {
	Folder
	Children []*TreeNode `json:"children"`
}

// NormalizeParentID maps an empty parent id to nil (root).
func NormalizeParentID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	v := *id
	return &v
}
