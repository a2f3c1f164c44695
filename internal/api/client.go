// Package api is the typed client for the remote Life Manager REST API.
// It owns the single configured request sender (base URL, bearer-token
// injection, global 401 handling) and the flat per-resource gateways built
// on top of it. Gateways never validate domain input; callers do that
// before invoking them.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifedeck/internal/session"
)

// ErrUnauthorized is wrapped into the error returned for any 401 response.
// By the time a caller sees it the session has already been cleared and the
// unauthorized handler has fired; callers must not attempt recovery.
var ErrUnauthorized = errors.New("unauthorized")

// genericFailure is shown when the server offers no message of its own.
const genericFailure = "the request could not be completed"

// Error is a non-401 failure response from the server. Message prefers the
// server-provided explanation and falls back to a generic one.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// Client sends authenticated requests to the Life Manager API.
type Client struct {
	baseURL        string
	http           *http.Client
	session        *session.Store
	log            *zap.Logger
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger attaches a structured logger for request tracing.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithHTTPClient substitutes the underlying transport, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithUnauthorizedHandler registers the hook fired after a 401 has cleared
// the session. The TUI uses it to force navigation back to the login page.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// NewClient builds a client for the given base URL. The session store is
// consulted on every request, so tokens picked up after login are used
// without rebuilding the client.
func NewClient(baseURL string, store *session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: store,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do executes one JSON request. userID, when non-empty, is sent as the
// X-User-Id header. out, when non-nil, receives the decoded response body.
func (c *Client) do(ctx context.Context, method, path, userID string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	// Re-read the token on every request rather than baking it in once:
	// a login or logout mid-session must take effect immediately.
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode == http.StatusUnauthorized {
		// Global 401 policy: the session is gone no matter which call
		// tripped it, and the caller's own error handling runs second.
		if err := c.session.Logout(); err != nil {
			c.log.Warn("clearing session after 401", zap.Error(err))
		}
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	}

	if resp.StatusCode >= 400 {
		return &Error{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorMessage extracts the server's message field, if any.
func errorMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return genericFailure
}

// UserMessage converts any gateway error into text fit for the UI,
// preferring the server's own wording.
func UserMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, ErrUnauthorized) {
		return "your session has expired, please log in again"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "the server took too long to respond"
	}
	return genericFailure
}
