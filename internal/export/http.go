// Package export sends serialized command trees to a code-generation service.
package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// maxResponseBytes bounds how much generated source is read back.
const maxResponseBytes = 8 << 20

// StatusError is returned when the generator answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("generator returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("generator returned %d: %s", e.Code, body)
}

// HTTP posts the tree to URL as application/json and returns the response
// text verbatim. It satisfies editor.Transport.
type HTTP struct {
	URL    string
	client *http.Client
}

// Option configures an HTTP transport.
type Option func(*options)

type options struct {
	token   string
	timeout time.Duration
	client  *http.Client
}

// WithToken sends token as an OAuth2 bearer token.
func WithToken(token string) Option {
	return func(o *options) { o.token = token }
}

// WithTimeout bounds each request. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithClient sets the base client, mainly for tests.
func WithClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// New returns a transport for the generator at url.
func New(url string, opts ...Option) *HTTP {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	client := o.client
	if client == nil {
		client = &http.Client{}
	}
	if o.token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: o.token}))
	}
	if o.timeout > 0 {
		c := *client
		c.Timeout = o.timeout
		client = &c
	}
	return &HTTP{URL: url, client: client}
}

// Send POSTs body and returns the response text.
func (h *HTTP) Send(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/plain")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode, Body: string(data)}
	}
	return string(data), nil
}
