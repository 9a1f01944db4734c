package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/sandboxfs/bridge/internal/bridge"
)

const executePath = "/api/v1/execute"

// HTTP sends each request as one POST to a bridge daemon. Requests are
// independent; the underlying client pools connections.
type HTTP struct {
	client *resty.Client
}

// NewHTTP creates an HTTP transport against a daemon base URL, e.g.
// "http://127.0.0.1:8750".
func NewHTTP(baseURL string) *HTTP {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &HTTP{client: client}
}

func (t *HTTP) Send(ctx context.Context, req *bridge.Request) (*bridge.Response, error) {
	var out bridge.Response
	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&out).
		Post(executePath)
	if err != nil {
		return nil, fmt.Errorf("transport: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("transport: unexpected status %s", resp.Status())
	}
	return &out, nil
}
