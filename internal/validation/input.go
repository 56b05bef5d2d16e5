// Package validation checks user-supplied ids and names before they reach
// a backend.
package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Error reports user input that failed validation.
type Error struct {
	msg string
}

func (e *Error) Error() string {
	return e.msg
}

func invalidf(format string, args ...any) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// Input length limits
const (
	MaxIDLength   = 64
	MaxNameLength = 255
)

// ValidateUserID rejects ids that cannot round-trip through a user URL:
// empty ids, ids containing '/', whitespace or control characters, and
// overlong ids. Unknown but well-formed ids pass.
func ValidateUserID(id string) error {
	if id == "" {
		return invalidf("user id is required")
	}
	if n := utf8.RuneCountInString(id); n > MaxIDLength {
		return invalidf("user id must not exceed %d characters (got %d)", MaxIDLength, n)
	}
	if strings.ContainsRune(id, '/') {
		return invalidf("user id %q must not contain '/'", id)
	}
	for _, r := range id {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return invalidf("user id %q must not contain whitespace or control characters", id)
		}
	}
	return nil
}

// ValidateName checks a first or last name; field names the value in
// error messages.
func ValidateName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return invalidf("%s is required", field)
	}
	if n := utf8.RuneCountInString(name); n > MaxNameLength {
		return invalidf("%s must not exceed %d characters (got %d)", field, MaxNameLength, n)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return invalidf("%s must not contain control characters", field)
		}
	}
	return nil
}
