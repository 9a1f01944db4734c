package bridge

import (
	"context"

	"go.uber.org/zap"

	"github.com/sandboxfs/bridge/internal/infrastructure/logging"
	"github.com/sandboxfs/bridge/internal/infrastructure/monitoring"
	"github.com/sandboxfs/bridge/internal/vfs"
)

// HandlerFunc executes one bridge operation. Handlers are stateless aside
// from re-deriving handles from the sandbox root on every call.
type HandlerFunc func(ctx context.Context, req *Request) *Response

// Dispatcher routes requests to operation handlers by tag.
type Dispatcher struct {
	handlers map[Op]HandlerFunc
	logger   *logging.Logger
	metrics  *monitoring.Metrics
}

// NewDispatcher creates a dispatcher with the full operation set registered
// against the given sandbox store.
func NewDispatcher(sandbox *vfs.Sandbox, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NewNop()
	}

	d := &Dispatcher{
		handlers: make(map[Op]HandlerFunc),
		logger:   logger,
	}

	h := &handlers{sandbox: sandbox, logger: logger}
	d.Register(OpCheckSupport, h.checkSupport)
	d.Register(OpListDirectory, h.listDirectory)
	d.Register(OpReadFile, h.readFile)
	d.Register(OpWriteFile, h.writeFile)
	d.Register(OpCreateFile, h.createFile)
	d.Register(OpCreateFolder, h.createFolder)
	d.Register(OpDeleteItem, h.deleteItem)
	d.Register(OpStatItem, h.statItem)
	d.Register(OpGetFileTree, h.fileTree)
	d.Register(OpGetStorageEstimate, h.storageEstimate)
	d.Register(OpGetDirectoryStats, h.directoryStats)
	d.Register(OpEmptyDirectory, h.emptyDirectory)
	d.Register(OpClearAll, h.clearAll)
	d.Register(OpSearchFiles, h.searchFiles)
	d.Register(OpExportArchive, h.exportArchive)

	return d
}

// WithMetrics attaches an operation metrics collector.
func (d *Dispatcher) WithMetrics(m *monitoring.Metrics) *Dispatcher {
	d.metrics = m
	return d
}

// Register adds or replaces the handler for an operation tag.
func (d *Dispatcher) Register(op Op, handler HandlerFunc) {
	d.handlers[op] = handler
}

// Dispatch looks up the request's handler and runs it. An unrecognized tag
// yields a failure response echoing the tag; dispatch itself never errors.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) *Response {
	handler, ok := d.handlers[req.Type]
	if !ok {
		d.logger.Warn("unknown operation", zap.String("op", string(req.Type)))
		if d.metrics != nil {
			d.metrics.RecordOpError(string(req.Type))
		}
		return &Response{Success: false, Error: "unknown operation", Type: string(req.Type)}
	}

	var timer *monitoring.Timer
	if d.metrics != nil {
		timer = monitoring.NewTimer(d.metrics, string(req.Type))
	}

	resp := handler(ctx, req)

	if d.metrics != nil {
		status := "ok"
		if !resp.Success {
			status = "error"
			d.metrics.RecordOpError(string(req.Type))
		}
		timer.Stop(status)

		if req.Type == OpGetStorageEstimate && resp.DiskUsage != nil && resp.Usage != nil {
			d.metrics.SetSandboxUsage(*resp.Usage)
		}
	}

	if !resp.Success {
		d.logger.Debug("operation failed",
			zap.String("op", string(req.Type)),
			zap.String("error", resp.Error),
		)
	}

	return resp
}
