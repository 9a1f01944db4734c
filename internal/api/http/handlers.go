// Package http exposes the bridge operation set over a JSON HTTP surface.
// The single POST /api/v1/execute endpoint carries any operation envelope;
// a few convenience GETs wrap the common read-only operations.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sandboxfs/bridge/internal/bridge"
)

// Handlers serves the daemon's HTTP endpoints.
type Handlers struct {
	dispatcher *bridge.Dispatcher
	version    string
}

// NewHandlers creates HTTP handlers over a dispatcher.
func NewHandlers(d *bridge.Dispatcher, version string) *Handlers {
	return &Handlers{dispatcher: d, version: version}
}

// Root reports service identity.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "bridged",
		"version": h.version,
		"status":  "running",
	})
}

// Health is the liveness probe.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Execute runs one bridge operation. Malformed JSON is the only HTTP-level
// failure; operation failures come back 200 with success=false.
func (h *Handlers) Execute(c *gin.Context) {
	var req bridge.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid request: " + err.Error(),
		})
		return
	}

	resp := h.dispatcher.Dispatch(c.Request.Context(), &req)
	c.JSON(http.StatusOK, resp)
}

// Tree snapshots the full sandbox tree.
func (h *Handlers) Tree(c *gin.Context) {
	resp := h.dispatcher.Dispatch(c.Request.Context(), &bridge.Request{Type: bridge.OpGetFileTree})
	c.JSON(http.StatusOK, resp)
}

// Usage reports the sandbox storage estimate.
func (h *Handlers) Usage(c *gin.Context) {
	resp := h.dispatcher.Dispatch(c.Request.Context(), &bridge.Request{Type: bridge.OpGetStorageEstimate})
	c.JSON(http.StatusOK, resp)
}

// Stats recursively counts and sizes the subtree named by the "path" query
// parameter, defaulting to the root.
func (h *Handlers) Stats(c *gin.Context) {
	dirPath := c.DefaultQuery("path", "/")
	resp := h.dispatcher.Dispatch(c.Request.Context(), &bridge.Request{
		Type:    bridge.OpGetDirectoryStats,
		DirPath: dirPath,
	})
	c.JSON(http.StatusOK, resp)
}
