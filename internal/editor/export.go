package editor

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"
)

// Transport delivers a serialized tree to the generation service and
// returns its text response.
type Transport interface {
	Send(ctx context.Context, body []byte) (string, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, body []byte) (string, error)

func (f TransportFunc) Send(ctx context.Context, body []byte) (string, error) {
	return f(ctx, body)
}

// Request is a single-shot export. Its body is fixed when the request is
// created, so edits made while it is in flight do not affect it.
type Request struct {
	body      []byte
	transport Transport
	sent      atomic.Bool
}

// ExportTree serializes the current tree into a request. Nothing is sent
// until Send is called.
func (c *Controller) ExportTree() (*Request, error) {
	if c.transport == nil {
		return nil, ErrNoTransport
	}
	body, err := c.tree.Serialize().Marshal()
	if err != nil {
		return nil, fmt.Errorf("serialize tree: %w", err)
	}
	return &Request{body: body, transport: c.transport}, nil
}

// Body returns a copy of the request body.
func (r *Request) Body() []byte {
	return bytes.Clone(r.body)
}

// Send performs the exchange. It may be called once; later calls return
// ErrAlreadySent. Send is safe to call off the UI goroutine.
func (r *Request) Send(ctx context.Context) (string, error) {
	if !r.sent.CompareAndSwap(false, true) {
		return "", ErrAlreadySent
	}
	out, err := r.transport.Send(ctx, r.body)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return out, nil
}

// CompleteExport records the outcome of a sent request and surfaces it to
// the observer. A failed export keeps the previous output.
func (c *Controller) CompleteExport(output string, err error) {
	if err != nil {
		c.lastErr = err
	} else {
		c.lastOutput = output
		c.lastErr = nil
	}
	c.observer.ExportDone(output, err)
}

// LastExport returns the most recent successful output and the error of the
// most recent attempt, if it failed.
func (c *Controller) LastExport() (string, error) {
	return c.lastOutput, c.lastErr
}

// Export serializes, sends and completes in one call.
func (c *Controller) Export(ctx context.Context) (string, error) {
	req, err := c.ExportTree()
	if err != nil {
		c.CompleteExport("", err)
		return "", err
	}
	out, err := req.Send(ctx)
	c.CompleteExport(out, err)
	return out, err
}
