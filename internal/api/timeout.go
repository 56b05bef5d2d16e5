package api

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// GetWithTimeout calls g.Get and gives up after d. The inner call runs on
// its own goroutine, so the deadline holds even for getters that ignore
// their context. A non-positive d disables the limit.
func GetWithTimeout(ctx context.Context, g JSONGetter, url string, d time.Duration) (Payload, error) {
	if d <= 0 {
		return g.Get(ctx, url)
	}
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type result struct {
		payload Payload
		err     error
	}
	done := make(chan result, 1)
	go func() {
		p, err := safeGet(ctx, g, url)
		done <- result{p, err}
	}()

	select {
	case r := <-done:
		if r.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !IsTimeoutError(r.err) {
			return nil, newTimeoutError(url, r.err)
		}
		return r.payload, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, newTimeoutError(url, ctx.Err())
		}
		return nil, ctx.Err()
	}
}

type timeoutGetter struct {
	next    JSONGetter
	timeout time.Duration
}

// WithTimeout decorates g so every Get is bounded by d.
func WithTimeout(g JSONGetter, d time.Duration) JSONGetter {
	if d <= 0 {
		return g
	}
	return &timeoutGetter{next: g, timeout: d}
}

func (t *timeoutGetter) Get(ctx context.Context, url string) (Payload, error) {
	return GetWithTimeout(ctx, t.next, url, t.timeout)
}

// GetAsync runs g.Get on a new goroutine and invokes cb exactly once with
// the outcome. The returned channel is closed after cb returns.
func GetAsync(ctx context.Context, g JSONGetter, url string, cb Callback) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		cb(safeGet(ctx, g, url))
	}()
	return done
}

// safeGet calls g.Get, converting a panic into an error and normalizing a
// result that has neither payload nor error.
func safeGet(ctx context.Context, g JSONGetter, url string) (p Payload, err error) {
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("getter panicked: %v", r)
		}
	}()
	p, err = g.Get(ctx, url)
	switch {
	case err != nil:
		return nil, err
	case p == nil:
		id, _ := UserIDFromURL(url)
		return nil, NewLookupError(id)
	}
	return p, nil
}
