// Package http provides the HTTP transport for Question the Docs: a client that
// implements qtd.QueryClient against a backend QA endpoint, and a reference
// backend server exposing any qtd.QueryClient over the same wire format.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/pinnacledb/qtd"
)

// DefaultTimeout is the default timeout for backend requests.
// Kept consistent with qtd.DefaultTimeout.
const DefaultTimeout = 30 * time.Second

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 4 << 20

// Ensure Client implements qtd.QueryClient at compile time.
var _ qtd.QueryClient = (*Client)(nil)

// Client asks questions of a backend QA endpoint over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout for backend requests.
// Defaults to DefaultTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets the http.Client requests are sent with. The client is
// copied and the copy's Timeout set to the configured timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// NewClient creates a Client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Copy so the caller's client keeps its own timeout.
	hc := http.Client{}
	if c.client != nil {
		hc = *c.client
	}
	hc.Timeout = c.timeout
	c.client = &hc

	return c
}

// Ask sends one question to the backend and decodes its answer.
func (c *Client) Ask(ctx context.Context, req qtd.Request) (*qtd.Answer, error) {
	if _, err := qtd.NewRequest(req.KnowledgeBase, req.Question); err != nil {
		return nil, err
	}

	body, err := json.Marshal(queryRequest{
		KnowledgeBase: string(req.KnowledgeBase),
		Question:      req.Question,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents/query", bytes.NewReader(body))
	if err != nil {
		return nil, qtd.Errorf(qtd.ETRANSPORT, "invalid backend URL %q", c.baseURL)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, transportError(ctx, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, backendError(resp.StatusCode, data)
	}

	var ar answerResponse
	if err := json.Unmarshal(data, &ar); err != nil {
		return nil, qtd.Errorf(qtd.EBACKEND, "malformed answer from backend")
	}
	return toAnswer(ar), nil
}

// transportError classifies a failure to complete the HTTP exchange.
func transportError(ctx context.Context, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return qtd.Errorf(qtd.ETIMEOUT, "backend did not answer in time")
	case ctx.Err() != nil:
		return qtd.Errorf(qtd.ECANCELED, "request canceled")
	default:
		return qtd.Errorf(qtd.ETRANSPORT, "could not reach the backend: %v", err)
	}
}

// backendError converts a non-2xx response into an EBACKEND error carrying the
// backend's message when the body is an error payload.
func backendError(status int, body []byte) error {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Message != "" {
		return qtd.Errorf(qtd.EBACKEND, "%s", er.Message)
	}
	return qtd.Errorf(qtd.EBACKEND, "backend returned HTTP %d %s", status, http.StatusText(status))
}
