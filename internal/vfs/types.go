package vfs

import "encoding/json"

// NodeType classifies a tree node.
type NodeType string

const (
	NodeFile   NodeType = "file"
	NodeFolder NodeType = "folder"
)

// Entry is a single directory listing entry.
type Entry struct {
	Name  string
	IsDir bool
}

// FileTreeNode is a serializable snapshot of one node in the sandbox
// hierarchy. ID always equals Path; Children is present (possibly empty)
// exactly when the node is a folder.
type FileTreeNode struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Type     NodeType       `json:"type"`
	Path     string         `json:"path"`
	Children []FileTreeNode `json:"children,omitempty"`
}

// MarshalJSON emits children for folders even when empty, and omits the
// field entirely for files.
func (n FileTreeNode) MarshalJSON() ([]byte, error) {
	type fileNode struct {
		ID   string   `json:"id"`
		Name string   `json:"name"`
		Type NodeType `json:"type"`
		Path string   `json:"path"`
	}
	if n.Type != NodeFolder {
		return json.Marshal(fileNode{ID: n.ID, Name: n.Name, Type: n.Type, Path: n.Path})
	}
	children := n.Children
	if children == nil {
		children = []FileTreeNode{}
	}
	return json.Marshal(struct {
		fileNode
		Children []FileTreeNode `json:"children"`
	}{
		fileNode: fileNode{ID: n.ID, Name: n.Name, Type: n.Type, Path: n.Path},
		Children: children,
	})
}

// DirectoryStats is an aggregate snapshot of a subtree, recomputed on
// demand and never persisted.
type DirectoryStats struct {
	FileCount   uint64 `json:"fileCount"`
	FolderCount uint64 `json:"folderCount"`
	TotalSize   uint64 `json:"totalSize"`
	Path        string `json:"path"`
}

// DiskUsage is a point-in-time storage estimate. Fields are nil when the
// host reports no figure; Available is quota minus usage when both are
// known.
type DiskUsage struct {
	Quota     *uint64 `json:"quota"`
	Usage     *uint64 `json:"usage"`
	Available *uint64 `json:"available"`
}
