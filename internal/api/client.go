// Package api holds the HTTP plumbing shared by every docuflow service call:
// base URL handling, bearer authentication, request ids, transport error
// classification and extraction of error messages from rejected responses.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	apperrors "github.com/docuflow/docuflow/internal/errors"
	"github.com/docuflow/docuflow/internal/logging"
	"github.com/google/uuid"
)

// Version is reported in the User-Agent header
const Version = "0.1.0"

// maxErrorBody caps how much of a rejected response is read for its message
const maxErrorBody = 1 << 20

// Client talks to the docuflow service
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. The default has no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client for the service at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		userAgent:  "docuflow/" + Version,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// NewRequest builds a request for path relative to the base URL.
// Every request gets a fresh X-Request-ID which is also placed on the context for logging.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	id := uuid.NewString()
	ctx = logging.WithRequestID(ctx, id)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", id)
	return req, nil
}

// NewJSONRequest builds a request with v encoded as the JSON body
func (c *Client) NewJSONRequest(ctx context.Context, method, path string, v any) (*http.Request, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := c.NewRequest(ctx, method, path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// SetBearer attaches the session token to req
func SetBearer(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}

// Do sends req. A failure before any response arrives is returned as a
// network error; any response, successful or not, is returned to the caller.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	slog.DebugContext(ctx, "Sending request", "method", req.Method, "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.DebugContext(ctx, "Transport failure", "method", req.Method, "url", req.URL.String(), "err", err)
		return nil, apperrors.Network(c.baseURL, err)
	}

	slog.DebugContext(ctx, "Received response", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode)
	return resp, nil
}

// OK reports whether resp carries a 2xx status
func OK(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// ErrorMessage extracts a human readable message from a rejected response.
// The JSON body fields named by keys are tried in order and the first
// non-empty one wins. Non-string values are rendered as JSON. It returns ""
// when the body carries none of the fields.
func ErrorMessage(resp *http.Response, keys ...string) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	for _, key := range keys {
		if msg := fieldMessage(fields[key]); msg != "" {
			return msg
		}
	}
	return ""
}

func fieldMessage(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if !val {
			return ""
		}
	case float64:
		if val == 0 {
			return ""
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
