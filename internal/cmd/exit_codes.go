package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/sampleapi/profile-cli/internal/api"
	"github.com/sampleapi/profile-cli/internal/config"
	"github.com/sampleapi/profile-cli/internal/validation"
)

const (
	exitOK       = 0
	exitGeneric  = 1
	exitUsage    = 2
	exitNotFound = 4
	exitBadData  = 5
	exitServer   = 7
	exitNetwork  = 8
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	var handled *handledError
	if errors.As(err, &handled) {
		if handled.exitCode != 0 {
			return handled.exitCode
		}
		err = handled.err
	}

	if code := exitCodeFromStructured(err); code != 0 {
		return code
	}
	if isUsageError(err) {
		return exitUsage
	}
	return exitGeneric
}

func exitCodeFromStructured(err error) int {
	structured := api.StructuredErrorFromError(err)
	if structured == nil {
		return 0
	}
	switch structured.Code {
	case api.ErrNotFound:
		return exitNotFound
	case api.ErrBadData:
		return exitBadData
	case api.ErrServerError:
		return exitServer
	case api.ErrTimeout, api.ErrUnavailable:
		return exitNetwork
	case api.ErrBadRequest:
		return exitUsage
	default:
		return 0
	}
}

// usageError marks an error caused by how the command was invoked.
type usageError struct {
	err error
}

func newUsageError(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

// cobraUsageIndicators match the untyped argument and flag errors cobra
// and pflag return.
var cobraUsageIndicators = []string{
	"unknown command",
	"unknown flag",
	"unknown shorthand flag",
	"flag needs an argument",
	"bad flag syntax",
	"requires at least",
	"accepts ",
	"invalid argument",
}

func isUsageError(err error) bool {
	var usage *usageError
	var invalid *validation.Error
	var setting *config.SettingError
	if errors.As(err, &usage) || errors.As(err, &invalid) || errors.As(err, &setting) {
		return true
	}
	if errors.Is(err, config.ErrInvalidBackend) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, indicator := range cobraUsageIndicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
