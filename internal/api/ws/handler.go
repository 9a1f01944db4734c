// Package ws exposes the bridge operation set over a websocket stream.
// Each text frame carries one request envelope; the reply frame for a
// request is written before the next frame is read, so a connection sees
// strictly ordered request/response pairs.
package ws

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sandboxfs/bridge/internal/bridge"
	"github.com/sandboxfs/bridge/internal/infrastructure/logging"
	"github.com/sandboxfs/bridge/internal/infrastructure/monitoring"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Origin policy is enforced by the CORS layer on the HTTP surface;
		// the stream accepts any origin.
		return true
	},
}

// Handler manages websocket sessions over one dispatcher.
type Handler struct {
	dispatcher *bridge.Dispatcher
	logger     *logging.Logger
	metrics    *monitoring.Metrics
}

// NewHandler creates a websocket handler.
func NewHandler(d *bridge.Dispatcher, logger *logging.Logger, metrics *monitoring.Metrics) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{dispatcher: d, logger: logger, metrics: metrics}
}

// HandleConnection upgrades the request and services envelopes until the
// peer disconnects.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	log := h.logger.Named("ws").With(zap.String("conn", connID))
	log.Info("session opened", zap.String("remote", conn.RemoteAddr().String()))

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	ctx := c.Request.Context()
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("session closed abnormally", zap.Error(err))
			} else {
				log.Info("session closed")
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		var req bridge.Request
		var resp *bridge.Response
		if err := sonic.Unmarshal(data, &req); err != nil {
			resp = bridge.Fail("invalid request: %v", err)
		} else {
			resp = h.dispatcher.Dispatch(ctx, &req)
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("in", string(req.Type))
		}

		payload, err := sonic.Marshal(resp)
		if err != nil {
			log.Error("could not encode response", zap.Error(err))
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Warn("write failed", zap.Error(err))
			return
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("out", string(req.Type))
		}
	}
}
