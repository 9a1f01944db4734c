// Package bridge defines the request/response protocol between the
// consuming context and the handle-owning context, and dispatches incoming
// operations onto the sandbox store.
package bridge

import (
	"fmt"

	"github.com/sandboxfs/bridge/internal/vfs"
)

// Op tags a bridge operation. The set is closed: every request names
// exactly one of these and unknown tags are rejected by the dispatcher.
type Op string

const (
	OpCheckSupport       Op = "check-support"
	OpListDirectory      Op = "list-directory"
	OpReadFile           Op = "read-file"
	OpWriteFile          Op = "write-file"
	OpCreateFile         Op = "create-file"
	OpCreateFolder       Op = "create-folder"
	OpDeleteItem         Op = "delete-item"
	OpStatItem           Op = "stat-item"
	OpGetFileTree        Op = "get-file-tree"
	OpGetStorageEstimate Op = "get-storage-estimate"
	OpGetDirectoryStats  Op = "get-directory-stats"
	OpEmptyDirectory     Op = "empty-directory"
	OpClearAll           Op = "clear-all"
	OpSearchFiles        Op = "search-files"
	OpExportArchive      Op = "export-archive"
)

// Fixed mode constants reported by stat-item. The sandbox store has no real
// permission bits; these give path-based tooling something conventional.
const (
	FileMode   = 0o644
	FolderMode = 0o755
)

// Request is the flat wire envelope for every operation. Only the fields
// the tagged operation defines are populated.
type Request struct {
	Type       Op     `json:"type"`
	DirPath    string `json:"dirPath,omitempty"`
	FilePath   string `json:"filePath,omitempty"`
	FolderPath string `json:"folderPath,omitempty"`
	ItemPath   string `json:"itemPath,omitempty"`
	ItemType   string `json:"itemType,omitempty"`
	Content    string `json:"content,omitempty"`
	Pattern    string `json:"pattern,omitempty"`
}

// Response is the flat wire envelope for every result. Success is an
// explicit discriminant: consumers must never infer success from the
// absence of an error field.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	// Type doubles as the echoed operation tag on unknown-operation errors
	// and as the node kind ("file" or "directory") on stat-item results.
	Type string `json:"type,omitempty"`

	// check-support
	Supported bool `json:"supported,omitempty"`

	// list-directory
	Entries *[]string `json:"entries,omitempty"`

	// read-file
	Content  string `json:"content,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Charset  string `json:"charset,omitempty"`

	// stat-item
	IsDirectory bool    `json:"isDirectory,omitempty"`
	Mode        *uint32 `json:"mode,omitempty"`

	// get-file-tree
	FileTree *[]vfs.FileTreeNode `json:"fileTree,omitempty"`

	// get-directory-stats
	Stats *vfs.DirectoryStats `json:"stats,omitempty"`

	// get-storage-estimate
	*vfs.DiskUsage

	// search-files
	Matches *[]string `json:"matches,omitempty"`

	// export-archive
	Name    string `json:"name,omitempty"`
	Archive string `json:"archive,omitempty"`
}

// OK returns a bare success response.
func OK() *Response {
	return &Response{Success: true}
}

// Fail returns a failure response with a formatted message.
func Fail(format string, args ...interface{}) *Response {
	return &Response{Success: false, Error: fmt.Sprintf(format, args...)}
}
