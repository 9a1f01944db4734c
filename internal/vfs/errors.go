package vfs

import (
	"errors"
	"fmt"
)

// Sentinel errors for the sandbox store. Callers match with errors.Is; the
// wrapped form carries the offending logical path.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidPath  = errors.New("invalid path")
	ErrNotDirectory = errors.New("not a directory")
	ErrNotFile      = errors.New("not a file")
	ErrUnsupported  = errors.New("sandbox storage unsupported")
)

func notFound(path string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, path)
}

func invalidPath(path string) error {
	return fmt.Errorf("%w: %q", ErrInvalidPath, path)
}

func notDirectory(path string) error {
	return fmt.Errorf("%w: %s", ErrNotDirectory, path)
}

func notFile(path string) error {
	return fmt.Errorf("%w: %s", ErrNotFile, path)
}
