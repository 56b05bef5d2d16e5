package api

import (
	"errors"
	"fmt"
	"strings"
)

// Error domains and codes. Lookup and data failures share code 9; callers
// tell them apart by Kind.
const (
	DomainJSONService    = "JSONService"
	DomainProfileService = "UserProfileService"

	CodeLookupFailure = 9
	CodeDataError     = 9
	CodeTimeout       = 10

	msgInvalidUserID = "Invalid user ID"
)

// ErrorKind distinguishes the failure causes a fetch can surface.
type ErrorKind int

const (
	// KindLookup means the id could not be resolved by the backend.
	KindLookup ErrorKind = iota + 1
	// KindData means the id resolved but the payload was malformed.
	KindData
	// KindTimeout means the caller-supplied deadline elapsed first.
	KindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindLookup:
		return "lookup"
	case KindData:
		return "data"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is a tagged fetch error carrying a domain, a numeric code and an
// optional message.
type Error struct {
	Kind    ErrorKind
	Domain  string
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "%s error %d", e.Domain, e.Code)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		_, _ = fmt.Fprintf(&b, " (%v)", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewLookupError reports that id is unknown to the backend.
func NewLookupError(id string) *Error {
	msg := msgInvalidUserID
	if id != "" {
		msg = fmt.Sprintf("%s %q", msgInvalidUserID, id)
	}
	return &Error{
		Kind:    KindLookup,
		Domain:  DomainJSONService,
		Code:    CodeLookupFailure,
		Message: msg,
	}
}

// NewDataError reports a payload that lacks the named required fields.
func NewDataError(missing ...string) *Error {
	msg := "bad data"
	if len(missing) > 0 {
		msg = "bad data: missing " + strings.Join(missing, ", ")
	}
	return &Error{
		Kind:    KindData,
		Domain:  DomainProfileService,
		Code:    CodeDataError,
		Message: msg,
	}
}

func newTimeoutError(url string, cause error) *Error {
	return &Error{
		Kind:    KindTimeout,
		Domain:  DomainJSONService,
		Code:    CodeTimeout,
		Message: "request timed out: " + url,
		Err:     cause,
	}
}

func kindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsLookupError checks if the error is an unknown-id failure.
func IsLookupError(err error) bool {
	return kindOf(err) == KindLookup
}

// IsDataError checks if the error is a malformed-payload failure.
func IsDataError(err error) bool {
	return kindOf(err) == KindData
}

// IsTimeoutError checks if the error is an enforced timeout.
func IsTimeoutError(err error) bool {
	return kindOf(err) == KindTimeout
}

// APIError represents a non-lookup error response from the JSON endpoint.
type APIError struct {
	StatusCode int
	Body       string
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}
