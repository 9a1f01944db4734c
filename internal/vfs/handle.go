package vfs

import (
	"os"
	"path"
	"sort"

	"github.com/spf13/afero"
)

// DirectoryHandle is a live reference to a directory in the sandbox store.
// A handle is only valid for the duration of the operation that resolved it.
type DirectoryHandle interface {
	// Name returns the directory's own name; empty for the sandbox root.
	Name() string

	// Entries lists the directory's immediate children sorted by name.
	Entries() ([]Entry, error)

	// Directory returns a handle to the named child directory. With create
	// set, a missing child is created first; creating over an existing
	// directory is a no-op.
	Directory(name string, create bool) (DirectoryHandle, error)

	// File returns a handle to the named child file. With create set, a
	// missing child is created empty first.
	File(name string, create bool) (FileHandle, error)

	// Remove deletes the named child. Directories require recursive unless
	// empty.
	Remove(name string, recursive bool) error
}

// FileHandle is a live reference to a file in the sandbox store.
type FileHandle interface {
	Name() string
	Size() (int64, error)
	ReadAll() ([]byte, error)
	WriteAll(data []byte) error
}

type dirHandle struct {
	fs   afero.Fs
	path string // absolute slash path within fs
	name string
}

func (d *dirHandle) Name() string { return d.name }

func (d *dirHandle) Entries() ([]Entry, error) {
	infos, err := afero.ReadDir(d.fs, d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(d.path)
		}
		return nil, err
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, Entry{Name: info.Name(), IsDir: info.IsDir()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (d *dirHandle) Directory(name string, create bool) (DirectoryHandle, error) {
	child := path.Join(d.path, name)

	info, err := d.fs.Stat(child)
	switch {
	case err == nil:
		if !info.IsDir() {
			return nil, notDirectory(child)
		}
	case os.IsNotExist(err):
		if !create {
			return nil, notFound(child)
		}
		if err := d.fs.Mkdir(child, 0o755); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return &dirHandle{fs: d.fs, path: child, name: name}, nil
}

func (d *dirHandle) File(name string, create bool) (FileHandle, error) {
	child := path.Join(d.path, name)

	info, err := d.fs.Stat(child)
	switch {
	case err == nil:
		if info.IsDir() {
			return nil, notFile(child)
		}
	case os.IsNotExist(err):
		if !create {
			return nil, notFound(child)
		}
		if err := afero.WriteFile(d.fs, child, []byte{}, 0o644); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return &fileHandle{fs: d.fs, path: child, name: name}, nil
}

func (d *dirHandle) Remove(name string, recursive bool) error {
	child := path.Join(d.path, name)

	if _, err := d.fs.Stat(child); err != nil {
		if os.IsNotExist(err) {
			return notFound(child)
		}
		return err
	}

	if recursive {
		return d.fs.RemoveAll(child)
	}
	return d.fs.Remove(child)
}

type fileHandle struct {
	fs   afero.Fs
	path string
	name string
}

func (f *fileHandle) Name() string { return f.name }

func (f *fileHandle) Size() (int64, error) {
	info, err := f.fs.Stat(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, notFound(f.path)
		}
		return 0, err
	}
	return info.Size(), nil
}

func (f *fileHandle) ReadAll() ([]byte, error) {
	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(f.path)
		}
		return nil, err
	}
	return data, nil
}

func (f *fileHandle) WriteAll(data []byte) error {
	return afero.WriteFile(f.fs, f.path, data, 0o644)
}
