package bridge

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/sandboxfs/bridge/internal/vfs"
)

func (h *handlers) exportArchive(ctx context.Context, req *Request) *Response {
	logical, err := vfs.NormalizePath(req.DirPath)
	if err != nil {
		return Fail("export failed: %v", err)
	}

	dir, err := vfs.ResolveDirectory(h.sandbox.Root(), logical)
	if err != nil {
		return Fail("export failed: %v", err)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	if err := archiveDir(ctx, tw, dir, ""); err != nil {
		return Fail("export failed: %v", err)
	}
	if err := tw.Close(); err != nil {
		return Fail("export failed: %v", err)
	}
	if err := gz.Close(); err != nil {
		return Fail("export failed: %v", err)
	}

	name := "sandbox.tar.gz"
	if logical != "/" {
		segments := strings.Split(logical, "/")
		name = segments[len(segments)-1] + ".tar.gz"
	}

	return &Response{
		Success: true,
		Name:    name,
		Archive: base64.StdEncoding.EncodeToString(buf.Bytes()),
	}
}

// archiveDir writes the subtree under dir into tw with paths relative to
// the export root. Entry order follows the handle's sorted listing so the
// archive bytes are stable for identical trees.
func archiveDir(ctx context.Context, tw *tar.Writer, dir vfs.DirectoryHandle, prefix string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := dir.Entries()
	if err != nil {
		return err
	}

	now := time.Now()
	for _, entry := range entries {
		rel := entry.Name
		if prefix != "" {
			rel = prefix + "/" + entry.Name
		}

		if entry.IsDir {
			if err := tw.WriteHeader(&tar.Header{
				Typeflag: tar.TypeDir,
				Name:     rel + "/",
				Mode:     int64(FolderMode),
				ModTime:  now,
			}); err != nil {
				return err
			}
			child, err := dir.Directory(entry.Name, false)
			if err != nil {
				return err
			}
			if err := archiveDir(ctx, tw, child, rel); err != nil {
				return err
			}
			continue
		}

		file, err := dir.File(entry.Name, false)
		if err != nil {
			return err
		}
		data, err := file.ReadAll()
		if err != nil {
			return err
		}
		if err := tw.WriteHeader(&tar.Header{
			Typeflag: tar.TypeReg,
			Name:     rel,
			Mode:     int64(FileMode),
			Size:     int64(len(data)),
			ModTime:  now,
		}); err != nil {
			return err
		}
		if _, err := tw.Write(data); err != nil {
			return err
		}
	}
	return nil
}
