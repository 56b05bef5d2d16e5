package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sampleapi/profile-cli/internal/api"
	"github.com/sampleapi/profile-cli/internal/outfmt"
)

// errAlreadyHandled is a sentinel error indicating the error was already printed.
// Commands return it (wrapped in handledError) so Cobra reports failure for the
// exit code without printing the error a second time.
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() error {
	return errAlreadyHandled
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// Cause returns the original error.
func (e *handledError) Cause() error {
	return e.err
}

// RunE wraps a command function with enhanced error handling
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		if errors.Is(err, errAlreadyHandled) {
			return err
		}
		if isJSON(cmd) {
			if structured := api.StructuredErrorFromError(err); structured != nil {
				_ = outfmt.WriteJSON(cmd.ErrOrStderr(), structured, outfmt.IsCompact(cmdContext(cmd)))
			}
		} else {
			_, _ = fmt.Fprint(cmd.ErrOrStderr(), HandleError(err))
		}
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsJSON(cmdContext(cmd))
}

// printJSON outputs data as JSON honoring --query, --compact-json and jsonl mode.
func printJSON(cmd *cobra.Command, v any) error {
	return outfmt.Write(cmdContext(cmd), cmd.OutOrStdout(), v)
}

// newTabWriter creates a tabwriter for text output
func newTabWriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

// flagAlias registers a hidden alias sharing the canonical flag's value.
func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		panic(fmt.Sprintf("flagAlias: flag %q not found", name))
	}
	fs.AddFlag(&pflag.Flag{
		Name:        alias,
		Value:       f.Value,
		DefValue:    f.DefValue,
		NoOptDefVal: f.NoOptDefVal,
		Hidden:      true,
	})
}

// flagOrAliasChanged reports whether the flag or any alias sharing its
// value was set on the command line.
func flagOrAliasChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		return false
	}
	if f.Changed {
		return true
	}
	changed := false
	cmd.Flags().Visit(func(other *pflag.Flag) {
		if other.Value == f.Value {
			changed = true
		}
	})
	return changed
}
