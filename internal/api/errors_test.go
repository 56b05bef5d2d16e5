package api

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLookupError(t *testing.T) {
	err := NewLookupError("9999")
	assert.Equal(t, KindLookup, err.Kind)
	assert.Equal(t, DomainJSONService, err.Domain)
	assert.Equal(t, CodeLookupFailure, err.Code)
	assert.Equal(t, `JSONService error 9: Invalid user ID "9999"`, err.Error())

	assert.Equal(t, "JSONService error 9: Invalid user ID", NewLookupError("").Error())
}

func TestNewDataError(t *testing.T) {
	err := NewDataError("firstName", "lastName")
	assert.Equal(t, KindData, err.Kind)
	assert.Equal(t, DomainProfileService, err.Domain)
	assert.Equal(t, CodeDataError, err.Code)
	assert.Equal(t, "UserProfileService error 9: bad data: missing firstName, lastName", err.Error())
}

func TestErrorKindHelpers(t *testing.T) {
	lookup := fmt.Errorf("wrapped: %w", NewLookupError("x"))
	data := NewDataError("lastName")
	timeout := newTimeoutError("/user/1", context.DeadlineExceeded)

	assert.True(t, IsLookupError(lookup))
	assert.False(t, IsDataError(lookup))
	assert.True(t, IsDataError(data))
	assert.False(t, IsLookupError(data))
	assert.True(t, IsTimeoutError(timeout))
	assert.True(t, errors.Is(timeout, context.DeadlineExceeded))

	assert.False(t, IsLookupError(nil))
	assert.False(t, IsDataError(errors.New("plain")))
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "lookup", KindLookup.String())
	assert.Equal(t, "data", KindData.String())
	assert.Equal(t, "timeout", KindTimeout.String())
	assert.Equal(t, "unknown", ErrorKind(0).String())
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{StatusCode: 500, Body: "boom"}
	assert.Equal(t, "API error (status 500): boom", err.Error())
}
