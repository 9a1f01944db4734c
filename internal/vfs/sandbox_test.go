package vfs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMemory(t *testing.T) {
	sb, err := Open(Options{Quota: 100})
	require.NoError(t, err)
	defer sb.Close()

	require.NoError(t, sb.Check())

	putFile(t, sb.Root(), "a.txt", "0123456789")

	estimate, err := sb.Estimate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, estimate.Usage)
	require.NotNil(t, estimate.Quota)
	require.NotNil(t, estimate.Available)
	assert.Equal(t, uint64(10), *estimate.Usage)
	assert.Equal(t, uint64(100), *estimate.Quota)
	assert.Equal(t, uint64(90), *estimate.Available)
}

func TestEstimateEmptyStore(t *testing.T) {
	sb, err := Open(Options{Quota: 100})
	require.NoError(t, err)
	defer sb.Close()

	estimate, err := sb.Estimate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), *estimate.Usage)
	assert.Equal(t, uint64(100), *estimate.Available)
}

func TestOpenMemoryNoQuota(t *testing.T) {
	sb, err := Open(Options{})
	require.NoError(t, err)
	defer sb.Close()

	estimate, err := sb.Estimate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, estimate.Usage)
	assert.Nil(t, estimate.Quota)
	assert.Nil(t, estimate.Available)
}

func TestEstimateClampsAvailable(t *testing.T) {
	sb, err := Open(Options{Quota: 5})
	require.NoError(t, err)
	defer sb.Close()

	putFile(t, sb.Root(), "big.txt", "0123456789")

	estimate, err := sb.Estimate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(10), *estimate.Usage)
	assert.Equal(t, uint64(0), *estimate.Available)
}

func TestOpenDisk(t *testing.T) {
	root := t.TempDir()

	sb, err := Open(Options{Root: root, Origin: "https://example.com:8443", Quota: 1 << 20})
	require.NoError(t, err)

	putFile(t, sb.Root(), "data.bin", "abcdef")

	estimate, err := sb.Estimate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(6), *estimate.Usage)

	// The origin maps onto a sanitized directory; the advisory lock sits
	// beside it, outside the store.
	assert.DirExists(t, filepath.Join(root, "https___example.com_8443"))
	assert.FileExists(t, filepath.Join(root, "https___example.com_8443.lock"))
	assert.NoFileExists(t, filepath.Join(root, "https___example.com_8443", ".bridge.lock"))

	require.NoError(t, sb.Close())
}

func TestOpenDiskRootListsOnlyClientData(t *testing.T) {
	sb, err := Open(Options{Root: t.TempDir(), Origin: "site"})
	require.NoError(t, err)
	defer sb.Close()

	// A fresh store is genuinely empty.
	entries, err := sb.Root().Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)

	putFile(t, sb.Root(), "data.txt", "x")
	entries, err = sb.Root().Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "data.txt", entries[0].Name)
}

func TestOpenDiskLockSurvivesEmptyingRoot(t *testing.T) {
	root := t.TempDir()

	sb, err := Open(Options{Root: root, Origin: "site"})
	require.NoError(t, err)
	putFile(t, sb.Root(), "a.txt", "x")
	mkdirAll(t, sb.Root(), "dir")

	// Deleting everything a client can see must not touch the lock.
	entries, err := sb.Root().Entries()
	require.NoError(t, err)
	for _, entry := range entries {
		require.NoError(t, sb.Root().Remove(entry.Name, true))
	}

	_, err = Open(Options{Root: root, Origin: "site"})
	assert.Error(t, err)

	require.NoError(t, sb.Close())
}

func TestOpenDiskLockExcludesSecondOwner(t *testing.T) {
	root := t.TempDir()

	first, err := Open(Options{Root: root, Origin: "site"})
	require.NoError(t, err)

	_, err = Open(Options{Root: root, Origin: "site"})
	assert.Error(t, err)

	// A different origin is a different store and locks independently.
	other, err := Open(Options{Root: root, Origin: "other"})
	require.NoError(t, err)
	require.NoError(t, other.Close())

	require.NoError(t, first.Close())

	// Releasing the lock lets a new owner in.
	again, err := Open(Options{Root: root, Origin: "site"})
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestOpenDiskPersists(t *testing.T) {
	root := t.TempDir()

	sb, err := Open(Options{Root: root, Origin: "site"})
	require.NoError(t, err)
	putFile(t, sb.Root(), "keep.txt", "kept")
	require.NoError(t, sb.Close())

	sb, err = Open(Options{Root: root, Origin: "site"})
	require.NoError(t, err)
	defer sb.Close()

	file, err := sb.Root().File("keep.txt", false)
	require.NoError(t, err)
	data, err := file.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "kept", string(data))
}

func TestSanitizeOrigin(t *testing.T) {
	assert.Equal(t, "default", sanitizeOrigin(""))
	assert.Equal(t, "example.com", sanitizeOrigin("example.com"))
	assert.Equal(t, "https___a.b_8080", sanitizeOrigin("https://a.b:8080"))
}
