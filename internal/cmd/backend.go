package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/sampleapi/profile-cli/internal/api"
	"github.com/sampleapi/profile-cli/internal/config"
	"github.com/sampleapi/profile-cli/internal/profile"
)

// backend bundles the getter selected by --backend with its optional
// directory and cleanup.
type backend struct {
	name   string
	getter api.JSONGetter
	dir    api.Directory
	redis  *api.RedisDirectory
	close  func() error
}

func (b *backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

func openBackend(s config.Settings) (*backend, error) {
	switch s.Backend {
	case config.BackendStub, "":
		stub := api.NewStubTransport(nil)
		client := api.NewWithTransport(s.BaseURL, stub)
		client.UserAgent = fmt.Sprintf("profile-cli/%s", version)
		return &backend{name: config.BackendStub, getter: client, dir: stub}, nil
	case config.BackendFake:
		fake := api.NewFakeClient(nil)
		return &backend{name: config.BackendFake, getter: fake, dir: fake}, nil
	case config.BackendRedis:
		rdb, err := api.OpenRedisDirectory(s.RedisURL)
		if err != nil {
			return nil, err
		}
		return &backend{name: config.BackendRedis, getter: rdb, dir: rdb, redis: rdb, close: rdb.Close}, nil
	default:
		return nil, fmt.Errorf("%w %q", config.ErrInvalidBackend, s.Backend)
	}
}

func (b *backend) service(s config.Settings) *profile.Service {
	return profile.New(b.getter, profile.WithBaseURL(s.BaseURL), profile.WithTimeout(s.Timeout))
}

// userEntry is one directory record as shown by users/find.
type userEntry struct {
	ID      string        `json:"id"`
	Name    *profile.Name `json:"name,omitempty"`
	Problem string        `json:"problem,omitempty"`
}

func (e userEntry) display() string {
	if e.Name != nil {
		return e.Name.String()
	}
	return "(" + e.Problem + ")"
}

// directoryEntries lists the backend directory sorted by id.
func (b *backend) directoryEntries(ctx context.Context) ([]userEntry, error) {
	if b.dir == nil {
		return nil, fmt.Errorf("backend %q cannot list users", b.name)
	}
	raw, err := b.dir.Entries(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]userEntry, 0, len(raw))
	for id, payload := range raw {
		entry := userEntry{ID: id}
		if name, err := profile.ParseName(payload); err == nil {
			entry.Name = &name
		} else {
			entry.Problem = err.Error()
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}
