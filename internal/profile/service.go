// Package profile resolves user display names through an injected
// api.JSONGetter.
package profile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sampleapi/profile-cli/internal/api"
	"github.com/sampleapi/profile-cli/internal/debug"
)

// ResultFunc receives the outcome of an asynchronous lookup. Exactly one
// of name and err is non-nil.
type ResultFunc func(name *Name, err error)

// Service looks up user profiles. It holds its getter for its lifetime and
// keeps no other state, so repeated lookups of one id are idempotent.
type Service struct {
	getter  api.JSONGetter
	baseURL string
	timeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithBaseURL sets the host user URLs are built against.
func WithBaseURL(baseURL string) Option {
	return func(s *Service) { s.baseURL = baseURL }
}

// WithTimeout bounds every lookup made through GetFullName.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// New creates a Service backed by getter.
func New(getter api.JSONGetter, opts ...Option) *Service {
	s := &Service{
		getter:  getter,
		baseURL: api.DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UserURL returns the URL fetched for id.
func (s *Service) UserURL(id string) string {
	return api.UserURL(s.baseURL, id)
}

// GetFullName fetches the user record for id and returns its name.
// Fetch errors are returned unchanged; a malformed record yields a data
// *api.Error.
func (s *Service) GetFullName(ctx context.Context, id string) (Name, error) {
	return s.getFullName(ctx, id, s.timeout)
}

// GetFullNameWithTimeout is GetFullName with an explicit deadline that
// overrides the configured one.
func (s *Service) GetFullNameWithTimeout(ctx context.Context, id string, timeout time.Duration) (Name, error) {
	return s.getFullName(ctx, id, timeout)
}

func (s *Service) getFullName(ctx context.Context, id string, timeout time.Duration) (Name, error) {
	if s.getter == nil {
		return Name{}, fmt.Errorf("profile service has no JSON getter")
	}
	url := s.UserURL(id)
	payload, err := api.GetWithTimeout(ctx, s.getter, url, timeout)
	if err != nil {
		if debug.IsEnabled(ctx) {
			slog.Debug("profile fetch failed", "id", id, "url", url, "error", err)
		}
		return Name{}, err
	}
	name, err := ParseName(payload)
	if err != nil {
		if debug.IsEnabled(ctx) {
			slog.Debug("profile payload rejected", "id", id, "error", err)
		}
		return Name{}, err
	}
	return name, nil
}

// GetFullNameAsync resolves id on a new goroutine and invokes cb exactly
// once. The returned channel is closed after cb returns.
func (s *Service) GetFullNameAsync(ctx context.Context, id string, cb ResultFunc) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		name, err := s.getFullNameSafe(ctx, id)
		if err != nil {
			cb(nil, err)
			return
		}
		cb(&name, nil)
	}()
	return done
}

func (s *Service) getFullNameSafe(ctx context.Context, id string) (name Name, err error) {
	defer func() {
		if r := recover(); r != nil {
			name, err = Name{}, fmt.Errorf("profile lookup panicked: %v", r)
		}
	}()
	return s.GetFullName(ctx, id)
}

// PrintHandler returns a ResultFunc that writes the resolved name, or the
// error message prefixed with "error: ", as one line to w.
func PrintHandler(w io.Writer) ResultFunc {
	return func(name *Name, err error) {
		if err != nil {
			_, _ = fmt.Fprintf(w, "error: %v\n", err)
			return
		}
		if name == nil {
			_, _ = fmt.Fprintln(w, "error: no result")
			return
		}
		_, _ = fmt.Fprintln(w, name.String())
	}
}
