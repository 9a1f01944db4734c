// Package transport carries bridge requests between the consuming context
// and the handle-owning context. A transport moves envelopes; it never
// interprets operation semantics, and operation-level failures travel
// inside the response rather than as transport errors.
package transport

import (
	"context"

	"github.com/sandboxfs/bridge/internal/bridge"
)

// Transport sends one request and waits for its response. An error means
// the envelope could not be delivered or the reply could not be decoded;
// a response with Success=false is a delivered operation failure.
type Transport interface {
	Send(ctx context.Context, req *bridge.Request) (*bridge.Response, error)
}
