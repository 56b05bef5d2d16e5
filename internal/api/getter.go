package api

import (
	"context"
	"net/url"
	"strings"
)

// DefaultBaseURL is the illustrative host user URLs are built against.
// Requests to it are answered by StubTransport and never leave the process.
const DefaultBaseURL = "http://api.sample.com"

// Payload is a decoded JSON object returned by a successful fetch.
type Payload map[string]any

// String returns the value stored under key when it is a non-empty string.
func (p Payload) String(key string) (string, bool) {
	v, ok := p[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// JSONGetter fetches a JSON object by URL.
//
// Implementations return either a non-nil payload and a nil error or a nil
// payload and a non-nil error, never both and never neither.
type JSONGetter interface {
	Get(ctx context.Context, url string) (Payload, error)
}

// GetterFunc adapts a plain function to JSONGetter.
type GetterFunc func(ctx context.Context, url string) (Payload, error)

// Get calls f(ctx, url).
func (f GetterFunc) Get(ctx context.Context, url string) (Payload, error) {
	return f(ctx, url)
}

// Callback receives the outcome of an asynchronous fetch.
type Callback func(Payload, error)

// Directory is implemented by backends that can enumerate their users.
type Directory interface {
	Entries(ctx context.Context) (map[string]Payload, error)
}

// UserURL returns the user resource URL for id under baseURL.
func UserURL(baseURL, id string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return baseURL + "/user/" + url.PathEscape(id)
}

// UserIDFromURL returns the last non-empty path segment of raw, decoded.
func UserIDFromURL(raw string) (string, bool) {
	path := raw
	if u, err := url.Parse(raw); err == nil {
		path = u.Path
	}
	return lastPathSegment(path)
}

// lastPathSegment returns the last non-empty segment of an already decoded
// path. The path is not parsed again, so '?' and '#' stay part of the id.
func lastPathSegment(path string) (string, bool) {
	segments := strings.Split(path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i], true
		}
	}
	return "", false
}
