package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sampleapi/profile-cli/internal/api"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "lookup",
			err:  api.NewLookupError("9999"),
			want: []string{"User not found", `Invalid user ID "9999"`, "profiles users"},
		},
		{
			name: "bad data",
			err:  fmt.Errorf("wrapped: %w", api.NewDataError("lastName")),
			want: []string{"Malformed user record", "missing lastName"},
		},
		{
			name: "api error",
			err:  &api.APIError{StatusCode: 503, Body: "down", RequestID: "req-1"},
			want: []string{"HTTP 503", "down", "Request ID: req-1"},
		},
		{
			name: "connection refused",
			err:  errors.New("dial tcp 127.0.0.1:6379: connect: connection refused"),
			want: []string{"Connection refused", "--redis-url"},
		},
		{
			name: "generic",
			err:  errors.New("boom"),
			want: []string{"Error: boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HandleError(tt.err)
			for _, want := range tt.want {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestHandleError_Nil(t *testing.T) {
	assert.Empty(t, HandleError(nil))
}
