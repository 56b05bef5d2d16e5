package profile

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sampleapi/profile-cli/internal/api"
)

func TestGetFullName_FakeTable(t *testing.T) {
	svc := New(api.NewFakeClient(nil))
	ctx := context.Background()

	tests := []struct {
		id   string
		want Name
	}{
		{"1234", Name{"Rose", "Tyler"}},
		{"4321", Name{"Amy", "Pond"}},
	}
	for _, tt := range tests {
		got, err := svc.GetFullName(ctx, tt.id)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestGetFullName_UnknownID(t *testing.T) {
	svc := New(api.NewFakeClient(nil))
	for _, id := range []string{"9999", "asdf", ""} {
		got, err := svc.GetFullName(context.Background(), id)
		require.Error(t, err, id)
		assert.True(t, api.IsLookupError(err), id)
		assert.Equal(t, Name{}, got)
	}
}

func TestGetFullName_Idempotent(t *testing.T) {
	svc := New(api.NewFakeClient(nil))
	for _, id := range []string{"1234", "9999"} {
		n1, err1 := svc.GetFullName(context.Background(), id)
		n2, err2 := svc.GetFullName(context.Background(), id)
		assert.Equal(t, n1, n2)
		assert.Equal(t, err1, err2)
	}
}

func TestGetFullName_BuildsURL(t *testing.T) {
	fake := api.NewFakeClient(nil)
	svc := New(fake, WithBaseURL("http://profiles.internal/"))
	_, _ = svc.GetFullName(context.Background(), "1234")
	assert.Equal(t, []string{"http://profiles.internal/user/1234"}, fake.Calls())
	assert.Equal(t, "http://api.sample.com/user/7", New(fake).UserURL("7"))
}

func TestGetFullName_ForwardsFetchErrorUnchanged(t *testing.T) {
	sentinel := errors.New("transport exploded")
	svc := New(api.GetterFunc(func(context.Context, string) (api.Payload, error) {
		return nil, sentinel
	}))
	_, err := svc.GetFullName(context.Background(), "1")
	assert.Same(t, sentinel, err)
}

func TestGetFullName_BadData(t *testing.T) {
	svc := New(api.NewFakeClient(map[string]api.Payload{
		"5": {"firstName": "Only"},
	}))
	_, err := svc.GetFullName(context.Background(), "5")
	require.Error(t, err)
	assert.True(t, api.IsDataError(err))
	assert.False(t, api.IsLookupError(err))
}

func TestGetFullName_NilGetter(t *testing.T) {
	_, err := New(nil).GetFullName(context.Background(), "1")
	assert.Error(t, err)
}

// Every backend serving the same records yields the same observable result.
func TestGetFullName_Substitutable(t *testing.T) {
	table := map[string]api.Payload{
		"1234": {"firstName": "Rose", "lastName": "Tyler"},
		"4321": {"firstName": "Amy", "lastName": "Pond"},
		"bad":  {"firstName": "Half"},
		"a":    {"firstName": "Clara", "lastName": "Oswald"},
	}

	mr := miniredis.RunT(t)
	rdb := api.NewRedisDirectory(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = rdb.Close() })
	for id, p := range table {
		fields := map[string]string{}
		for k, v := range p {
			fields[k] = v.(string)
		}
		require.NoError(t, rdb.Seed(context.Background(), id, fields))
	}

	backends := map[string]api.JSONGetter{
		"fake":  api.NewFakeClient(table),
		"stub":  api.NewWithTransport(api.DefaultBaseURL, api.NewStubTransport(table)),
		"redis": rdb,
	}

	known := map[string]bool{"1234": true, "4321": true, "a": true}
	for _, id := range []string{"1234", "4321", "a", "bad", "9999", "a?b", "a#b", "a%3Fb"} {
		type outcome struct {
			name   Name
			lookup bool
			data   bool
		}
		var results []outcome
		for backend, g := range backends {
			n, err := New(g).GetFullName(context.Background(), id)
			results = append(results, outcome{n, api.IsLookupError(err), api.IsDataError(err)})
			if known[id] {
				assert.NoError(t, err, backend)
			} else {
				assert.Error(t, err, backend)
				assert.True(t, api.IsLookupError(err) || api.IsDataError(err), "%s %s: %v", backend, id, err)
			}
		}
		for _, r := range results[1:] {
			assert.Equal(t, results[0], r, "id %s", id)
		}
	}
}

func TestGetFullNameWithTimeout(t *testing.T) {
	slow := api.NewStubTransport(nil)
	slow.Latency = time.Second
	_, err := New(api.NewWithTransport(api.DefaultBaseURL, slow)).
		GetFullNameWithTimeout(context.Background(), "1234", 20*time.Millisecond)
	require.Error(t, err)
	assert.True(t, api.IsTimeoutError(err))

	fast := api.NewStubTransport(nil)
	got, err := New(api.NewWithTransport(api.DefaultBaseURL, fast)).
		GetFullNameWithTimeout(context.Background(), "1234", time.Second)
	require.NoError(t, err)
	assert.Equal(t, Name{"Real", "Service Request"}, got)
}

func TestWithTimeoutOption(t *testing.T) {
	slow := api.GetterFunc(func(context.Context, string) (api.Payload, error) {
		time.Sleep(300 * time.Millisecond)
		return api.Payload{"firstName": "A", "lastName": "B"}, nil
	})
	_, err := New(slow, WithTimeout(10*time.Millisecond)).GetFullName(context.Background(), "1")
	assert.True(t, api.IsTimeoutError(err))
}

func TestGetFullNameAsync_WellFormed(t *testing.T) {
	svc := New(api.NewFakeClient(nil))

	ids := []string{"1234", "4321", "9999", "asdf"}
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		var calls atomic.Int32
		done := svc.GetFullNameAsync(context.Background(), id, func(name *Name, err error) {
			calls.Add(1)
			assert.True(t, (name == nil) != (err == nil), "exactly one of name/err for %s", id)
		})
		go func() {
			defer wg.Done()
			<-done
			assert.Equal(t, int32(1), calls.Load())
		}()
	}
	wg.Wait()
}

func TestGetFullNameAsync_RecoversPanic(t *testing.T) {
	svc := New(api.GetterFunc(func(context.Context, string) (api.Payload, error) {
		panic("boom")
	}))
	var gotErr error
	<-svc.GetFullNameAsync(context.Background(), "1", func(name *Name, err error) {
		assert.Nil(t, name)
		gotErr = err
	})
	assert.ErrorContains(t, gotErr, "boom")
}

func TestPrintHandler(t *testing.T) {
	var buf bytes.Buffer
	h := PrintHandler(&buf)

	h(&Name{"Rose", "Tyler"}, nil)
	h(nil, api.NewLookupError("9999"))
	h(nil, nil)

	assert.Equal(t,
		"Rose Tyler\n"+
			"error: JSONService error 9: Invalid user ID \"9999\"\n"+
			"error: no result\n",
		buf.String())
}

func ExampleService_GetFullName() {
	svc := New(api.NewFakeClient(nil))
	handle := PrintHandler(os.Stdout)

	for _, id := range []string{"1234", "9999"} {
		name, err := svc.GetFullName(context.Background(), id)
		if err != nil {
			handle(nil, err)
			continue
		}
		handle(&name, nil)
	}
	// Output:
	// Rose Tyler
	// error: JSONService error 9: Invalid user ID "9999"
}
