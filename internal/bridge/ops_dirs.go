package bridge

import (
	"context"

	"go.uber.org/zap"

	"github.com/sandboxfs/bridge/internal/vfs"
)

func (h *handlers) listDirectory(ctx context.Context, req *Request) *Response {
	if req.DirPath == "" {
		return Fail("dirPath parameter required")
	}

	dir, err := vfs.ResolveDirectory(h.sandbox.Root(), req.DirPath)
	if err != nil {
		return Fail("list failed: %v", err)
	}

	entries, err := dir.Entries()
	if err != nil {
		return Fail("list failed: %v", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	return &Response{Success: true, Entries: &names}
}

func (h *handlers) createFolder(ctx context.Context, req *Request) *Response {
	if req.FolderPath == "" {
		return Fail("folderPath parameter required")
	}

	parent, name, err := vfs.ResolveParent(h.sandbox.Root(), req.FolderPath)
	if err != nil {
		return Fail("create folder failed: %v", err)
	}

	// Creation over an existing folder is a no-op.
	if _, err := parent.Directory(name, true); err != nil {
		return Fail("create folder failed: %v", err)
	}
	return OK()
}

func (h *handlers) deleteItem(ctx context.Context, req *Request) *Response {
	if req.ItemPath == "" {
		return Fail("itemPath parameter required")
	}

	parent, name, err := vfs.ResolveParent(h.sandbox.Root(), req.ItemPath)
	if err != nil {
		return Fail("delete failed: %v", err)
	}

	recursive := false
	switch req.ItemType {
	case "folder", "directory":
		recursive = true
	case "file", "":
		if req.ItemType == "" {
			if _, derr := parent.Directory(name, false); derr == nil {
				recursive = true
			}
		}
	default:
		return Fail("unknown itemType: %s", req.ItemType)
	}

	if err := parent.Remove(name, recursive); err != nil {
		return Fail("delete failed: %v", err)
	}
	return OK()
}

func (h *handlers) statItem(ctx context.Context, req *Request) *Response {
	if req.ItemPath == "" {
		return Fail("itemPath parameter required")
	}

	segments, err := vfs.SplitPath(req.ItemPath)
	if err != nil {
		return Fail("stat failed: %v", err)
	}
	if len(segments) == 0 {
		// The root is always a directory.
		return statResponse(true)
	}

	parent, name, err := vfs.ResolveParent(h.sandbox.Root(), req.ItemPath)
	if err != nil {
		return Fail("stat failed: %v", err)
	}

	if _, derr := parent.Directory(name, false); derr == nil {
		return statResponse(true)
	}
	if _, ferr := parent.File(name, false); ferr == nil {
		return statResponse(false)
	}
	return Fail("stat failed: %v", vfs.ErrNotFound)
}

func statResponse(isDir bool) *Response {
	mode := uint32(FileMode)
	kind := "file"
	if isDir {
		mode = uint32(FolderMode)
		kind = "directory"
	}
	return &Response{
		Success:     true,
		IsDirectory: isDir,
		Type:        kind,
		Mode:        &mode,
	}
}

func (h *handlers) emptyDirectory(ctx context.Context, req *Request) *Response {
	if req.DirPath == "" {
		return Fail("dirPath parameter required")
	}
	return h.empty(req.DirPath)
}

func (h *handlers) clearAll(ctx context.Context, req *Request) *Response {
	return h.empty("/")
}

// empty removes every entry under the named directory, best effort: an
// entry that cannot be removed is logged and skipped, and the aggregate
// still reports success.
func (h *handlers) empty(dirPath string) *Response {
	dir, err := vfs.ResolveDirectory(h.sandbox.Root(), dirPath)
	if err != nil {
		return Fail("empty failed: %v", err)
	}

	entries, err := dir.Entries()
	if err != nil {
		return Fail("empty failed: %v", err)
	}

	for _, entry := range entries {
		if err := dir.Remove(entry.Name, true); err != nil {
			h.logger.Warn("could not remove entry",
				zap.String("dir", dirPath),
				zap.String("name", entry.Name),
				zap.Error(err),
			)
		}
	}
	return OK()
}
