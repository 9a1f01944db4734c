package bridge

import (
	"context"

	"github.com/sandboxfs/bridge/internal/infrastructure/logging"
	"github.com/sandboxfs/bridge/internal/vfs"
)

// handlers implements the operation set against one sandbox store. Every
// operation re-resolves from the root; no handle survives a call.
type handlers struct {
	sandbox *vfs.Sandbox
	logger  *logging.Logger
}

func (h *handlers) checkSupport(ctx context.Context, req *Request) *Response {
	if h.sandbox == nil {
		return Fail("sandbox store not available")
	}
	if err := h.sandbox.Check(); err != nil {
		return Fail("support check failed: %v", err)
	}
	return &Response{Success: true, Supported: true}
}

func (h *handlers) storageEstimate(ctx context.Context, req *Request) *Response {
	estimate, err := h.sandbox.Estimate(ctx)
	if err != nil {
		return Fail("storage estimate failed: %v", err)
	}
	return &Response{Success: true, DiskUsage: &estimate}
}
