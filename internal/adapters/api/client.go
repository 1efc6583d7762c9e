package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"academia/internal/adapters/perf"
)

// Adapter errors. ErrUnauthorized is the signal handlers use to tear down the
// local session and send the user back to login.
var (
	ErrUnauthorized = errors.New("backend rejected credentials")
	ErrNotFound     = errors.New("backend resource not found")
)

// timeNow is a variable for testability.
var timeNow = time.Now

type contextKey string

const tokenContextKey contextKey = "bearer-token"

// WithToken returns a context carrying the backend bearer token. The session
// middleware injects it per request; the client never reads ambient state.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

// TokenFrom extracts the bearer token from the context, if any.
func TokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok && token != ""
}

// Client talks to the gym's REST backend. It owns no state beyond the base
// URL and the HTTP client; authentication travels in the request context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	collector  *perf.Collector
}

// NewClient creates a backend client for the given base URL (e.g.
// "http://localhost:3000/api").
func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// SetCollector enables timing of backend calls for the perf dashboard.
func (c *Client) SetCollector(collector *perf.Collector) {
	c.collector = collector
}

// DefaultHTTPClient returns the http.Client used when the caller has no
// special transport needs.
func DefaultHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// do issues one backend request and decodes the JSON response into out when
// out is non-nil. Requests without a token in the context go out
// unauthenticated; rejecting them is the backend's job. No request is ever
// retried.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := TokenFrom(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := timeNow()
	resp, err := c.httpClient.Do(req)
	if c.collector != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		c.collector.Record(perf.Entry{
			Kind:       perf.KindBackend,
			Path:       method + " " + path,
			StatusCode: status,
			DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
			Timestamp:  start,
		})
	}
	if err != nil {
		return fmt.Errorf("backend request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// continue
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("backend unexpected status: %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}
