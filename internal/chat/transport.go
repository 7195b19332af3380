package chat

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout is the only resilience policy applied to a request.
const DefaultTimeout = 60 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

// Transport sends one HTTP request and returns the status code and the raw
// response body. It is the single seam between the client and the network,
// so synchronous and asynchronous hosts only differ in the Transport they plug in.
type Transport interface {
	Send(ctx context.Context, req *http.Request) (status int, body []byte, err error)
}

// HTTPTransport is a Transport backed by net/http.
type HTTPTransport struct {
	Client *http.Client
}

// NewHTTPTransport returns a transport whose client gives up after timeout.
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		Client: &http.Client{Timeout: timeout},
	}
}

// Send performs the request and reads the whole body.
func (t *HTTPTransport) Send(ctx context.Context, req *http.Request) (int, []byte, error) {
	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *http.Request) (int, []byte, error)

// Send calls f(ctx, req).
func (f TransportFunc) Send(ctx context.Context, req *http.Request) (int, []byte, error) {
	return f(ctx, req)
}
