package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/sandboxfs/bridge/internal/bridge"
)

// WS holds one websocket session against a bridge daemon. The channel
// carries one request/response pair at a time, so round trips are
// serialized under a mutex rather than correlated by ID.
type WS struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// DialWS connects to a daemon stream endpoint, e.g.
// "ws://127.0.0.1:8750/api/v1/stream".
func DialWS(ctx context.Context, url string) (*WS, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", url, err)
	}
	return &WS{conn: conn}, nil
}

func (t *WS) Send(ctx context.Context, req *bridge.Request) (*bridge.Response, error) {
	payload, err := sonic.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("transport: encode: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	deadline := time.Time{}
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	if err := t.conn.SetWriteDeadline(deadline); err != nil {
		return nil, fmt.Errorf("transport: %w", err)
	}
	if err := t.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return nil, fmt.Errorf("transport: write: %w", err)
	}

	if err := t.conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("transport: %w", err)
	}
	_, data, err := t.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("transport: read: %w", err)
	}

	var out bridge.Response
	if err := sonic.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("transport: decode: %w", err)
	}
	return &out, nil
}

// Close tears down the session. In-flight round trips fail with a read or
// write error.
func (t *WS) Close() error {
	return t.conn.Close()
}
