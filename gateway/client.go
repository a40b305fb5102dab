// ABOUTME: Client is the REST request gateway to the marine-data backend.
// ABOUTME: Every call carries the session id and a per-request deadline; results decode into typed structs.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds each request so an unresponsive backend cannot leave
// the client waiting forever.
const DefaultTimeout = 30 * time.Second

// Client issues REST calls to the backend on behalf of one session.
type Client struct {
	baseURL   string
	sessionID string
	http      *http.Client
	timeout   time.Duration
}

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request deadline applied when the caller's context
// has none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a gateway client for the given backend base URL and
// session identity.
func NewClient(baseURL, sessionID string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		sessionID: sessionID,
		http:      &http.Client{},
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SessionID returns the session identity this client was built with.
func (c *Client) SessionID() string {
	return c.sessionID
}

// deadline applies the default per-request timeout when the caller has not
// set one.
func (c *Client) deadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// do sends a request and decodes a 2xx JSON body into out (when non-nil).
// Non-2xx responses and network failures return a TransportError.
func (c *Client) do(ctx context.Context, op string, req *http.Request, out any) error {
	resp, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused; the body may still carry a
		// useful message for the error.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", strings.TrimSpace(string(body))),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// postJSON issues a POST with a JSON body to baseURL+path.
func (c *Client) postJSON(ctx context.Context, op, path string, body, out any) error {
	ctx, cancel := c.deadline(ctx)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(ctx, op, req, out)
}

// getJSON issues a GET to baseURL+path.
func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	ctx, cancel := c.deadline(ctx)
	defer cancel()

	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	return c.do(ctx, op, req, out)
}
