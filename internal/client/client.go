// Package client exposes the bridge operation set as a typed facade. A
// client must be initialized once before use; initialization probes the
// remote side for sandbox storage support and gates every other call.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sandboxfs/bridge/internal/bridge"
	"github.com/sandboxfs/bridge/internal/transport"
	"github.com/sandboxfs/bridge/internal/vfs"
)

// ErrNotInitialized is returned by every operation invoked before a
// successful Initialize.
var ErrNotInitialized = errors.New("client: not initialized")

// Client is a typed facade over one transport. Safe for concurrent use to
// the extent the underlying transport is.
type Client struct {
	transport transport.Transport

	mu          sync.Mutex
	initialized bool
}

// New creates an uninitialized client over the given transport.
func New(t transport.Transport) *Client {
	return &Client{transport: t}
}

// Initialize probes sandbox storage support on the owning side. It is
// idempotent: once successful, later calls return immediately. A failed
// probe leaves the client uninitialized so it can be retried.
func (c *Client) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return nil
	}

	resp, err := c.transport.Send(ctx, &bridge.Request{Type: bridge.OpCheckSupport})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("client: support check failed: %s", resp.Error)
	}
	if !resp.Supported {
		return errors.New("client: sandbox storage not supported")
	}

	c.initialized = true
	return nil
}

func (c *Client) call(ctx context.Context, req *bridge.Request) (*bridge.Response, error) {
	c.mu.Lock()
	ready := c.initialized
	c.mu.Unlock()
	if !ready {
		return nil, ErrNotInitialized
	}

	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("client: %s: %s", req.Type, resp.Error)
	}
	return resp, nil
}

// ReadDir lists the names of a directory's entries, sorted.
func (c *Client) ReadDir(ctx context.Context, dirPath string) ([]string, error) {
	resp, err := c.call(ctx, &bridge.Request{Type: bridge.OpListDirectory, DirPath: dirPath})
	if err != nil {
		return nil, err
	}
	if resp.Entries == nil {
		return []string{}, nil
	}
	return *resp.Entries, nil
}

// FileContent is a read result with its sniffed media type and, for
// non-UTF-8 payloads, a detected charset.
type FileContent struct {
	Content  string
	MimeType string
	Charset  string
}

// ReadFile reads a file's full content.
func (c *Client) ReadFile(ctx context.Context, filePath string) (FileContent, error) {
	resp, err := c.call(ctx, &bridge.Request{Type: bridge.OpReadFile, FilePath: filePath})
	if err != nil {
		return FileContent{}, err
	}
	return FileContent{Content: resp.Content, MimeType: resp.MimeType, Charset: resp.Charset}, nil
}

// WriteFile replaces a file's content, creating the file if missing. The
// parent directory must already exist.
func (c *Client) WriteFile(ctx context.Context, filePath, content string) error {
	_, err := c.call(ctx, &bridge.Request{Type: bridge.OpWriteFile, FilePath: filePath, Content: content})
	return err
}

// CreateFile creates a file with optional initial content.
func (c *Client) CreateFile(ctx context.Context, filePath, content string) error {
	_, err := c.call(ctx, &bridge.Request{Type: bridge.OpCreateFile, FilePath: filePath, Content: content})
	return err
}

// CreateFolder creates a directory. Creating an existing directory is a
// no-op.
func (c *Client) CreateFolder(ctx context.Context, folderPath string) error {
	_, err := c.call(ctx, &bridge.Request{Type: bridge.OpCreateFolder, FolderPath: folderPath})
	return err
}

// DeleteFile removes a single file.
func (c *Client) DeleteFile(ctx context.Context, itemPath string) error {
	_, err := c.call(ctx, &bridge.Request{Type: bridge.OpDeleteItem, ItemPath: itemPath, ItemType: "file"})
	return err
}

// DeleteFolder removes a directory and everything under it.
func (c *Client) DeleteFolder(ctx context.Context, itemPath string) error {
	_, err := c.call(ctx, &bridge.Request{Type: bridge.OpDeleteItem, ItemPath: itemPath, ItemType: "folder"})
	return err
}

// ItemInfo describes one stat-ed item.
type ItemInfo struct {
	IsDirectory bool
	Type        string
	Mode        uint32
}

// Stat reports whether an item is a file or a directory.
func (c *Client) Stat(ctx context.Context, itemPath string) (ItemInfo, error) {
	resp, err := c.call(ctx, &bridge.Request{Type: bridge.OpStatItem, ItemPath: itemPath})
	if err != nil {
		return ItemInfo{}, err
	}
	info := ItemInfo{IsDirectory: resp.IsDirectory, Type: resp.Type}
	if resp.Mode != nil {
		info.Mode = *resp.Mode
	}
	return info, nil
}

// FileTree snapshots the full sandbox as an ordered tree.
func (c *Client) FileTree(ctx context.Context) ([]vfs.FileTreeNode, error) {
	resp, err := c.call(ctx, &bridge.Request{Type: bridge.OpGetFileTree})
	if err != nil {
		return nil, err
	}
	if resp.FileTree == nil {
		return []vfs.FileTreeNode{}, nil
	}
	return *resp.FileTree, nil
}

// DiskUsage reports the sandbox storage estimate. Fields the owning side
// cannot determine are nil.
func (c *Client) DiskUsage(ctx context.Context) (vfs.DiskUsage, error) {
	resp, err := c.call(ctx, &bridge.Request{Type: bridge.OpGetStorageEstimate})
	if err != nil {
		return vfs.DiskUsage{}, err
	}
	if resp.DiskUsage == nil {
		return vfs.DiskUsage{}, nil
	}
	return *resp.DiskUsage, nil
}

// DirectoryStats recursively counts and sizes a subtree.
func (c *Client) DirectoryStats(ctx context.Context, dirPath string) (vfs.DirectoryStats, error) {
	resp, err := c.call(ctx, &bridge.Request{Type: bridge.OpGetDirectoryStats, DirPath: dirPath})
	if err != nil {
		return vfs.DirectoryStats{}, err
	}
	if resp.Stats == nil {
		return vfs.DirectoryStats{}, nil
	}
	return *resp.Stats, nil
}

// EmptyDirectory removes every entry under a directory, best effort.
func (c *Client) EmptyDirectory(ctx context.Context, dirPath string) error {
	_, err := c.call(ctx, &bridge.Request{Type: bridge.OpEmptyDirectory, DirPath: dirPath})
	return err
}

// ClearAll empties the sandbox root.
func (c *Client) ClearAll(ctx context.Context) error {
	_, err := c.call(ctx, &bridge.Request{Type: bridge.OpClearAll})
	return err
}

// Search returns the logical paths of files matching a glob pattern.
// Patterns support doublestar globs and match against root-relative paths.
func (c *Client) Search(ctx context.Context, pattern string) ([]string, error) {
	resp, err := c.call(ctx, &bridge.Request{Type: bridge.OpSearchFiles, Pattern: pattern})
	if err != nil {
		return nil, err
	}
	if resp.Matches == nil {
		return []string{}, nil
	}
	return *resp.Matches, nil
}

// ArchiveResult is a gzipped tarball of a subtree, base64-encoded.
type ArchiveResult struct {
	Name    string
	Archive string
}

// ExportArchive packs a subtree ("" or "/" for the whole sandbox) into a
// .tar.gz delivered base64-encoded.
func (c *Client) ExportArchive(ctx context.Context, dirPath string) (ArchiveResult, error) {
	resp, err := c.call(ctx, &bridge.Request{Type: bridge.OpExportArchive, DirPath: dirPath})
	if err != nil {
		return ArchiveResult{}, err
	}
	return ArchiveResult{Name: resp.Name, Archive: resp.Archive}, nil
}
