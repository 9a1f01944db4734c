package bridge

import (
	"context"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"

	"github.com/sandboxfs/bridge/internal/vfs"
)

func (h *handlers) readFile(ctx context.Context, req *Request) *Response {
	if req.FilePath == "" {
		return Fail("filePath parameter required")
	}

	parent, name, err := vfs.ResolveParent(h.sandbox.Root(), req.FilePath)
	if err != nil {
		return Fail("read failed: %v", err)
	}

	file, err := parent.File(name, false)
	if err != nil {
		return Fail("read failed: %v", err)
	}

	data, err := file.ReadAll()
	if err != nil {
		return Fail("read failed: %v", err)
	}

	resp := &Response{
		Success:  true,
		Content:  string(data),
		MimeType: mimetype.Detect(data).String(),
	}
	if len(data) > 0 && !utf8.Valid(data) {
		if best, err := chardet.NewTextDetector().DetectBest(data); err == nil {
			resp.Charset = best.Charset
		}
	}
	return resp
}

func (h *handlers) writeFile(ctx context.Context, req *Request) *Response {
	if req.FilePath == "" {
		return Fail("filePath parameter required")
	}
	return h.putFile(req.FilePath, req.Content, "write")
}

func (h *handlers) createFile(ctx context.Context, req *Request) *Response {
	if req.FilePath == "" {
		return Fail("filePath parameter required")
	}
	return h.putFile(req.FilePath, req.Content, "create")
}

// putFile writes content to the named file, creating it if missing. Missing
// intermediate directories are not created: a path whose parent does not
// exist fails with not-found.
func (h *handlers) putFile(path, content, verb string) *Response {
	parent, name, err := vfs.ResolveParent(h.sandbox.Root(), path)
	if err != nil {
		return Fail("%s failed: %v", verb, err)
	}

	file, err := parent.File(name, true)
	if err != nil {
		return Fail("%s failed: %v", verb, err)
	}

	if err := file.WriteAll([]byte(content)); err != nil {
		return Fail("%s failed: %v", verb, err)
	}
	return OK()
}
