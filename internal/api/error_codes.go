package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorCode represents machine-readable error codes for scripted callers.
type ErrorCode string

const (
	// ErrNotFound indicates the user id could not be resolved.
	ErrNotFound ErrorCode = "not_found"
	// ErrBadData indicates the user record lacks required fields.
	ErrBadData ErrorCode = "bad_data"
	// ErrTimeout indicates the request timed out.
	ErrTimeout ErrorCode = "timeout"
	// ErrBadRequest indicates a malformed request (HTTP 4xx other than 404).
	ErrBadRequest ErrorCode = "bad_request"
	// ErrServerError indicates an internal server error (HTTP 5xx).
	ErrServerError ErrorCode = "server_error"
	// ErrUnavailable indicates the backend could not be reached.
	ErrUnavailable ErrorCode = "unavailable"
	// ErrUnknown indicates an unknown or unclassified error.
	ErrUnknown ErrorCode = "unknown"
)

// Suggestion returns a human-readable suggestion for resolving this error.
func (c ErrorCode) Suggestion() string {
	switch c {
	case ErrNotFound:
		return "Verify the user ID exists (try 'profiles users')"
	case ErrBadData:
		return "The user record is missing firstName or lastName"
	case ErrTimeout:
		return "Increase --timeout and retry"
	case ErrBadRequest:
		return "Check the request URL"
	case ErrServerError:
		return "The server encountered an error; try again later"
	case ErrUnavailable:
		return "Check that the selected backend is reachable"
	default:
		return ""
	}
}

// ErrorCodeFromStatus maps an HTTP status code to an ErrorCode.
func ErrorCodeFromStatus(statusCode int) ErrorCode {
	switch {
	case statusCode == 404:
		return ErrNotFound
	case statusCode == 408 || statusCode == 504:
		return ErrTimeout
	case statusCode >= 500 && statusCode < 600:
		return ErrServerError
	case statusCode >= 400:
		return ErrBadRequest
	default:
		return ErrUnknown
	}
}

// StructuredError provides machine-readable error information.
type StructuredError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Suggestion string         `json:"suggestion,omitempty"`
	Context    map[string]any `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewStructuredError creates a StructuredError from an ErrorCode and message.
func NewStructuredError(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:       code,
		Message:    message,
		Suggestion: code.Suggestion(),
	}
}

// StructuredErrorFromError converts any error to a StructuredError.
// It returns nil for a nil error.
func StructuredErrorFromError(err error) *StructuredError {
	if err == nil {
		return nil
	}

	var se *StructuredError
	if errors.As(err, &se) {
		return se
	}

	var fetchErr *Error
	if errors.As(err, &fetchErr) {
		code := ErrUnknown
		switch fetchErr.Kind {
		case KindLookup:
			code = ErrNotFound
		case KindData:
			code = ErrBadData
		case KindTimeout:
			code = ErrTimeout
		}
		out := NewStructuredError(code, fetchErr.Error())
		out.Context = map[string]any{
			"domain":     fetchErr.Domain,
			"error_code": fetchErr.Code,
		}
		return out
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		out := NewStructuredError(ErrorCodeFromStatus(apiErr.StatusCode), apiErr.Body)
		out.Context = map[string]any{"status_code": apiErr.StatusCode}
		if apiErr.RequestID != "" {
			out.Context["request_id"] = apiErr.RequestID
		}
		return out
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewStructuredError(ErrTimeout, err.Error())
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return NewStructuredError(ErrTimeout, err.Error())
		}
		return NewStructuredError(ErrUnavailable, err.Error())
	}

	return &StructuredError{
		Code:    ErrUnknown,
		Message: err.Error(),
	}
}
