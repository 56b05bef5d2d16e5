package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	client := New("")
	assert.Equal(t, DefaultBaseURL, client.BaseURL)
	assert.Equal(t, DefaultUserAgent, client.UserAgent)
	require.NotNil(t, client.HTTP)
	assert.IsType(t, &StubTransport{}, client.HTTP.Transport)
	assert.Equal(t, DefaultTimeout, client.HTTP.Timeout)

	assert.Equal(t, "http://x", New("http://x/").BaseURL)
}

func TestClientGet_Stub(t *testing.T) {
	client := New(DefaultBaseURL)

	p, err := client.Get(context.Background(), UserURL(DefaultBaseURL, "1234"))
	require.NoError(t, err)
	assert.Equal(t, Payload{"firstName": "Real", "lastName": "Service Request"}, p)

	p, err = client.Get(context.Background(), "/user/nope")
	assert.Nil(t, p)
	require.Error(t, err)
	assert.True(t, IsLookupError(err))
	assert.Contains(t, err.Error(), "Invalid user ID")
}

func TestClientGet_Server(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantLookup bool
		wantAPIErr int
		wantErr    bool
	}{
		{name: "ok", status: http.StatusOK, body: `{"firstName":"A","lastName":"B"}`},
		{name: "not found", status: http.StatusNotFound, body: `{"error":"nope"}`, wantErr: true, wantLookup: true},
		{name: "null body", status: http.StatusOK, body: `null`, wantErr: true, wantLookup: true},
		{name: "empty body", status: http.StatusOK, body: ``, wantErr: true, wantLookup: true},
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`, wantErr: true, wantAPIErr: 500},
		{name: "not an object", status: http.StatusOK, body: `[1,2]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Accept"))
				assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
				assert.Equal(t, "/user/42", r.URL.Path)
				w.Header().Set("X-Request-Id", "req-1")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewWithTransport(server.URL, http.DefaultTransport)
			p, err := client.Get(context.Background(), "/user/42")

			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "A", p["firstName"])
				return
			}
			require.Error(t, err)
			assert.Nil(t, p)
			assert.Equal(t, tt.wantLookup, IsLookupError(err))
			if tt.wantAPIErr != 0 {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.wantAPIErr, apiErr.StatusCode)
				assert.Equal(t, "boom", apiErr.Body)
				assert.Equal(t, "req-1", apiErr.RequestID)
			}
		})
	}
}

func TestClientGet_HTTPTimeout(t *testing.T) {
	stub := NewStubTransport(nil)
	stub.Latency = time.Second
	client := NewWithTransport(DefaultBaseURL, stub)
	client.HTTP.Timeout = 20 * time.Millisecond

	_, err := client.Get(context.Background(), "/user/1234")
	require.Error(t, err)
	assert.True(t, IsTimeoutError(err), "got %v", err)
}

func TestClientGet_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewWithTransport(url, http.DefaultTransport)
	_, err := client.Get(context.Background(), "/user/1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
	assert.False(t, IsLookupError(err))
}

func TestSanitizeErrorBody(t *testing.T) {
	assert.Equal(t, "bad", sanitizeErrorBody([]byte(`{"error":"bad"}`)))
	assert.Equal(t, "msg", sanitizeErrorBody([]byte(`{"message":"msg"}`)))
	assert.Contains(t, sanitizeErrorBody([]byte(`<html>`)), "redacted")
	assert.Contains(t, sanitizeErrorBody([]byte(`{}`)), "redacted")
}
