package vfs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandboxfs/bridge/internal/infrastructure/logging"
)

func TestBuildTreeOrdering(t *testing.T) {
	root := testRoot(t)
	putFile(t, root, "b.txt", "")
	putFile(t, root, "A.txt", "")
	mkdirAll(t, root, "zeta")
	mkdirAll(t, root, "Alpha")

	nodes, err := BuildTree(context.Background(), root, "/", logging.NewNop())
	require.NoError(t, err)
	require.Len(t, nodes, 4)

	// Folders first, then case-insensitive by name.
	names := []string{nodes[0].Name, nodes[1].Name, nodes[2].Name, nodes[3].Name}
	assert.Equal(t, []string{"Alpha", "zeta", "A.txt", "b.txt"}, names)
	assert.Equal(t, NodeFolder, nodes[0].Type)
	assert.Equal(t, NodeFolder, nodes[1].Type)
	assert.Equal(t, NodeFile, nodes[2].Type)
	assert.Equal(t, NodeFile, nodes[3].Type)
}

func TestBuildTreePaths(t *testing.T) {
	root := testRoot(t)
	docs := mkdirAll(t, root, "docs")
	putFile(t, docs, "readme.md", "")

	nodes, err := BuildTree(context.Background(), root, "/", logging.NewNop())
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "/docs", nodes[0].Path)
	assert.Equal(t, "/docs", nodes[0].ID)
	require.Len(t, nodes[0].Children, 1)
	assert.Equal(t, "/docs/readme.md", nodes[0].Children[0].Path)
}

func TestBuildTreeEmptyRoot(t *testing.T) {
	root := testRoot(t)

	nodes, err := BuildTree(context.Background(), root, "/", logging.NewNop())
	require.NoError(t, err)
	assert.Empty(t, nodes)
	assert.NotNil(t, nodes)
}

func TestBuildTreeJSONShape(t *testing.T) {
	root := testRoot(t)
	mkdirAll(t, root, "empty")
	putFile(t, root, "f.txt", "")

	nodes, err := BuildTree(context.Background(), root, "/", logging.NewNop())
	require.NoError(t, err)

	data, err := json.Marshal(nodes)
	require.NoError(t, err)

	var decoded []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)

	// Folders always carry a children key, even when empty; files never do.
	assert.Contains(t, decoded[0], "children")
	assert.Equal(t, "[]", string(decoded[0]["children"]))
	assert.NotContains(t, decoded[1], "children")
}

// failingDir wraps a handle and fails Entries for one named subdirectory.
type failingDir struct {
	DirectoryHandle
	failName string
}

func (f *failingDir) Entries() ([]Entry, error) {
	if f.DirectoryHandle.Name() == f.failName {
		return nil, errors.New("injected failure")
	}
	return f.DirectoryHandle.Entries()
}

func (f *failingDir) Directory(name string, create bool) (DirectoryHandle, error) {
	child, err := f.DirectoryHandle.Directory(name, create)
	if err != nil {
		return nil, err
	}
	return &failingDir{DirectoryHandle: child, failName: f.failName}, nil
}

func TestBuildTreeDegradesUnreadableSubtree(t *testing.T) {
	root := testRoot(t)
	bad := mkdirAll(t, root, "bad")
	putFile(t, bad, "hidden.txt", "")
	good := mkdirAll(t, root, "good")
	putFile(t, good, "seen.txt", "")

	nodes, err := BuildTree(context.Background(), &failingDir{DirectoryHandle: root, failName: "bad"}, "/", logging.NewNop())
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	// The unreadable folder is present but empty; its sibling is intact.
	assert.Equal(t, "bad", nodes[0].Name)
	assert.Empty(t, nodes[0].Children)
	assert.Equal(t, "good", nodes[1].Name)
	require.Len(t, nodes[1].Children, 1)
}

func TestBuildTreeRootErrorPropagates(t *testing.T) {
	root := testRoot(t)
	_, err := BuildTree(context.Background(), &failingDir{DirectoryHandle: root, failName: ""}, "/", logging.NewNop())
	assert.Error(t, err)
}

func TestBuildTreeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildTree(ctx, testRoot(t), "/", logging.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWalkFiles(t *testing.T) {
	root := testRoot(t)
	docs := mkdirAll(t, root, "docs")
	putFile(t, docs, "a.md", "")
	putFile(t, root, "top.txt", "")

	var paths []string
	err := WalkFiles(context.Background(), root, "/", logging.NewNop(), func(p string) {
		paths = append(paths, p)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/docs/a.md", "/top.txt"}, paths)
}
