package vfs

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sandboxfs/bridge/internal/infrastructure/logging"
)

// BuildTree materializes the subtree under dir as an ordered snapshot.
// base is dir's own logical path ("/" for the sandbox root).
//
// Failure to enumerate dir itself propagates; failure inside a child
// directory degrades that node to an empty folder and is logged, so a
// partial tree is returned instead of nothing.
func BuildTree(ctx context.Context, dir DirectoryHandle, base string, logger *logging.Logger) ([]FileTreeNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	entries, err := dir.Entries()
	if err != nil {
		return nil, err
	}

	nodes := make([]FileTreeNode, 0, len(entries))
	for _, entry := range entries {
		childPath := JoinLogical(base, entry.Name)
		node := FileTreeNode{
			ID:   childPath,
			Name: entry.Name,
			Type: NodeFile,
			Path: childPath,
		}

		if entry.IsDir {
			node.Type = NodeFolder
			node.Children = []FileTreeNode{}

			child, err := dir.Directory(entry.Name, false)
			if err == nil {
				children, cerr := BuildTree(ctx, child, childPath, logger)
				if cerr != nil {
					err = cerr
				} else {
					node.Children = children
				}
			}
			if err != nil {
				logger.Warn("skipping unreadable subtree",
					zap.String("path", childPath),
					zap.Error(err),
				)
			}
		}

		nodes = append(nodes, node)
	}

	sortSiblings(nodes)
	return nodes, nil
}

// sortSiblings orders folders before files, then case-insensitively by name.
func sortSiblings(nodes []FileTreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if (nodes[i].Type == NodeFolder) != (nodes[j].Type == NodeFolder) {
			return nodes[i].Type == NodeFolder
		}
		return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
	})
}

// WalkFiles visits every file in the subtree under dir in tree order,
// calling visit with each file's logical path. Unreadable subtrees are
// skipped the same way BuildTree skips them.
func WalkFiles(ctx context.Context, dir DirectoryHandle, base string, logger *logging.Logger, visit func(path string)) error {
	nodes, err := BuildTree(ctx, dir, base, logger)
	if err != nil {
		return err
	}
	var walk func([]FileTreeNode)
	walk = func(nodes []FileTreeNode) {
		for _, node := range nodes {
			if node.Type == NodeFile {
				visit(node.Path)
				continue
			}
			walk(node.Children)
		}
	}
	walk(nodes)
	return nil
}
