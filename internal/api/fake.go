package api

import (
	"context"
	"sync"
)

// FakeClient is a fixed-table JSONGetter for deterministic tests and demos.
// Unknown ids produce a nil payload and a lookup *Error.
type FakeClient struct {
	users map[string]Payload

	mu    sync.Mutex
	calls []string
}

var (
	_ JSONGetter = (*FakeClient)(nil)
	_ Directory  = (*FakeClient)(nil)
)

// DefaultFakeUsers returns the table used by NewFakeClient(nil).
func DefaultFakeUsers() map[string]Payload {
	return map[string]Payload{
		"1234": {"firstName": "Rose", "lastName": "Tyler"},
		"4321": {"firstName": "Amy", "lastName": "Pond"},
	}
}

// NewFakeClient creates a fake serving users. A nil table selects
// DefaultFakeUsers.
func NewFakeClient(users map[string]Payload) *FakeClient {
	if users == nil {
		users = DefaultFakeUsers()
	}
	return &FakeClient{users: users}
}

// Get implements JSONGetter. Each call returns a fresh copy of the entry.
func (f *FakeClient) Get(ctx context.Context, url string) (Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, _ := UserIDFromURL(url)

	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	entry, ok := f.users[id]
	if !ok {
		return nil, NewLookupError(id)
	}
	out := make(Payload, len(entry))
	for k, v := range entry {
		out[k] = v
	}
	return out, nil
}

// Calls returns the URLs requested so far.
func (f *FakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// KnownIDs returns the ids in the table in sorted order.
func (f *FakeClient) KnownIDs() []string {
	return sortedKeys(f.users)
}

// Entries implements Directory.
func (f *FakeClient) Entries(context.Context) (map[string]Payload, error) {
	out := make(map[string]Payload, len(f.users))
	for id, p := range f.users {
		out[id] = p
	}
	return out, nil
}
