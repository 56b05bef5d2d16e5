package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

// StubTransport is an in-memory http.RoundTripper standing in for a user
// API. It answers GET requests by the last path segment of the request URL
// and never dials the network.
type StubTransport struct {
	// Latency delays every response. The delay observes request
	// cancellation, so it can be used to exercise caller timeouts.
	Latency time.Duration

	users map[string]Payload
}

var _ http.RoundTripper = (*StubTransport)(nil)

// DefaultStubUsers returns the table served by a zero-configured stub.
func DefaultStubUsers() map[string]Payload {
	return map[string]Payload{
		"1234": {"firstName": "Real", "lastName": "Service Request"},
	}
}

// NewStubTransport creates a stub serving users. A nil table selects
// DefaultStubUsers.
func NewStubTransport(users map[string]Payload) *StubTransport {
	if users == nil {
		users = DefaultStubUsers()
	}
	return &StubTransport{users: users}
}

// RoundTrip implements http.RoundTripper.
func (s *StubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		_ = req.Body.Close()
	}
	if err := wait(req.Context(), s.Latency); err != nil {
		return nil, err
	}
	if req.Method != http.MethodGet {
		return stubResponse(req, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
	}

	id, ok := lastPathSegment(req.URL.Path)
	if !ok {
		return stubResponse(req, http.StatusNotFound, map[string]any{"error": "user not found"})
	}
	payload, ok := s.users[id]
	if !ok {
		return stubResponse(req, http.StatusNotFound, map[string]any{"error": "user not found"})
	}
	return stubResponse(req, http.StatusOK, payload)
}

// Entries returns a copy of the served table.
func (s *StubTransport) Entries(context.Context) (map[string]Payload, error) {
	out := make(map[string]Payload, len(s.users))
	for id, p := range s.users {
		out[id] = p
	}
	return out, nil
}

// KnownIDs returns the served ids in sorted order.
func (s *StubTransport) KnownIDs() []string {
	return sortedKeys(s.users)
}

func stubResponse(req *http.Request, status int, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("stub: encode response: %w", err)
	}
	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	header.Set("X-Request-Id", fmt.Sprintf("stub-%d", time.Now().UnixNano()))
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: int64(len(data)),
		Request:       req,
	}, nil
}

// wait sleeps for d or returns early on context cancellation.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func sortedKeys(m map[string]Payload) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
