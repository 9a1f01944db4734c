package vfs

import "strings"

// SplitPath normalizes a logical path into its non-empty segments. Empty
// segments from doubled or trailing slashes are discarded; traversal
// segments ("." and "..") are rejected outright rather than resolved.
func SplitPath(logical string) ([]string, error) {
	parts := strings.Split(logical, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		if part == "." || part == ".." {
			return nil, invalidPath(logical)
		}
		segments = append(segments, part)
	}
	return segments, nil
}

// NormalizePath returns the canonical slash-rooted form of a logical path.
func NormalizePath(logical string) (string, error) {
	segments, err := SplitPath(logical)
	if err != nil {
		return "", err
	}
	return "/" + strings.Join(segments, "/"), nil
}

// ResolveDirectory walks a logical path segment by segment from root and
// returns a handle to the addressed directory. Any missing segment fails
// with ErrNotFound; a segment naming a file fails with ErrNotDirectory.
func ResolveDirectory(root DirectoryHandle, logical string) (DirectoryHandle, error) {
	segments, err := SplitPath(logical)
	if err != nil {
		return nil, err
	}

	dir := root
	for _, segment := range segments {
		dir, err = dir.Directory(segment, false)
		if err != nil {
			return nil, err
		}
	}
	return dir, nil
}

// ResolveParent resolves all but the last segment of a logical path and
// returns the parent directory handle together with the terminal name. The
// root itself has no parent and fails with ErrInvalidPath.
func ResolveParent(root DirectoryHandle, logical string) (DirectoryHandle, string, error) {
	segments, err := SplitPath(logical)
	if err != nil {
		return nil, "", err
	}
	if len(segments) == 0 {
		return nil, "", invalidPath(logical)
	}

	name := segments[len(segments)-1]
	dir := root
	for _, segment := range segments[:len(segments)-1] {
		dir, err = dir.Directory(segment, false)
		if err != nil {
			return nil, "", err
		}
	}
	return dir, name, nil
}

// JoinLogical appends a name to a logical base path.
func JoinLogical(base, name string) string {
	if base == "/" || base == "" {
		return "/" + name
	}
	return base + "/" + name
}
