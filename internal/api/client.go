package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sampleapi/profile-cli/internal/debug"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "profile-cli"

	maxResponseBytes = 1 << 20
)

// Client is the transport-backed JSONGetter.
//
// By default the underlying http.Client uses a StubTransport, so requests
// are answered in-process. Tests swap HTTP for an httptest server client.
type Client struct {
	BaseURL   string
	HTTP      *http.Client
	UserAgent string
}

// Compile-time interface implementation checks
var _ JSONGetter = (*Client)(nil)

// New creates a client rooted at baseURL and served by a default stub.
func New(baseURL string) *Client {
	return NewWithTransport(baseURL, NewStubTransport(nil))
}

// NewWithTransport creates a client whose requests go through rt.
func NewWithTransport(baseURL string, rt http.RoundTripper) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:   strings.TrimSuffix(baseURL, "/"),
		UserAgent: DefaultUserAgent,
		HTTP: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: rt,
		},
	}
}

// resolve turns a path relative to BaseURL into an absolute URL.
func (c *Client) resolve(url string) string {
	if strings.HasPrefix(url, "/") {
		return c.BaseURL + url
	}
	return url
}

// Get performs a GET request and decodes the JSON object body.
//
// A 404 response or an empty/null body is reported as a lookup *Error.
func (c *Client) Get(ctx context.Context, url string) (Payload, error) {
	url = c.resolve(url)
	respBody, header, status, err := c.executeRequest(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}

	id, _ := UserIDFromURL(url)
	if status == http.StatusNotFound {
		if debug.IsEnabled(ctx) {
			slog.Debug("user not found", "url", url, "request_id", requestIDFromHeader(header))
		}
		return nil, NewLookupError(id)
	}
	if status >= 400 {
		return nil, &APIError{
			StatusCode: status,
			Body:       sanitizeErrorBody(respBody),
			RequestID:  requestIDFromHeader(header),
		}
	}

	trimmed := bytes.TrimSpace(respBody)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, NewLookupError(id)
	}
	var payload Payload
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, fmt.Errorf("unexpected API response format (JSON decode failed): %w", err)
	}
	if payload == nil {
		return nil, NewLookupError(id)
	}
	return payload, nil
}

// executeRequest performs a single HTTP request. It returns the response
// body, headers, status code, and any transport error.
func (c *Client) executeRequest(ctx context.Context, method, url string) ([]byte, http.Header, int, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		if debug.IsEnabled(ctx) {
			slog.Debug("request failed", "method", method, "url", url, "error", err)
		}
		if isTimeout(err) {
			return nil, nil, 0, newTimeoutError(url, err)
		}
		return nil, nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to read response: %w", err)
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("request complete", "method", method, "url", url, "status", resp.StatusCode, "duration", time.Since(start))
	}
	return respBody, resp.Header, resp.StatusCode, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func requestIDFromHeader(header http.Header) string {
	if header == nil {
		return ""
	}
	return header.Get("X-Request-Id")
}

// sanitizeErrorBody extracts a safe error message from an API response
// without echoing arbitrary response content.
func sanitizeErrorBody(body []byte) string {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		return "API request failed (response body redacted)"
	}
	if errResp.Error != "" {
		return errResp.Error
	}
	if errResp.Message != "" {
		return errResp.Message
	}
	return "API request failed (response body redacted)"
}
