package bridge

import (
	"context"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/sandboxfs/bridge/internal/vfs"
)

func (h *handlers) fileTree(ctx context.Context, req *Request) *Response {
	nodes, err := vfs.BuildTree(ctx, h.sandbox.Root(), "/", h.logger)
	if err != nil {
		return Fail("file tree failed: %v", err)
	}
	return &Response{Success: true, FileTree: &nodes}
}

func (h *handlers) directoryStats(ctx context.Context, req *Request) *Response {
	if req.DirPath == "" {
		return Fail("dirPath parameter required")
	}

	logical, err := vfs.NormalizePath(req.DirPath)
	if err != nil {
		return Fail("directory stats failed: %v", err)
	}

	dir, err := vfs.ResolveDirectory(h.sandbox.Root(), logical)
	if err != nil {
		return Fail("directory stats failed: %v", err)
	}

	stats, err := vfs.ComputeStats(ctx, dir, logical, h.logger)
	if err != nil {
		return Fail("directory stats failed: %v", err)
	}
	return &Response{Success: true, Stats: &stats}
}

func (h *handlers) searchFiles(ctx context.Context, req *Request) *Response {
	if req.Pattern == "" {
		return Fail("pattern parameter required")
	}
	if !doublestar.ValidatePattern(req.Pattern) {
		return Fail("invalid pattern: %s", req.Pattern)
	}

	matches := []string{}
	err := vfs.WalkFiles(ctx, h.sandbox.Root(), "/", h.logger, func(path string) {
		// Patterns match against the path relative to the root, so
		// "**/*.txt" and "docs/*.md" behave as users expect.
		rel := strings.TrimPrefix(path, "/")
		if ok, _ := doublestar.Match(req.Pattern, rel); ok {
			matches = append(matches, path)
		}
	})
	if err != nil {
		return Fail("search failed: %v", err)
	}

	sort.Strings(matches)
	return &Response{Success: true, Matches: &matches}
}
