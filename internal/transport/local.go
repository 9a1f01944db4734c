package transport

import (
	"context"
	"errors"

	"github.com/sandboxfs/bridge/internal/bridge"
)

// Local dispatches in-process, for consumers living in the same process
// as the sandbox owner. Delivery cannot fail, so Send only errors when the
// context is already done.
type Local struct {
	dispatcher *bridge.Dispatcher
}

// NewLocal wraps a dispatcher as an in-process transport.
func NewLocal(d *bridge.Dispatcher) *Local {
	return &Local{dispatcher: d}
}

func (l *Local) Send(ctx context.Context, req *bridge.Request) (*bridge.Response, error) {
	if l.dispatcher == nil {
		return nil, errors.New("transport: no dispatcher attached")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.dispatcher.Dispatch(ctx, req), nil
}
