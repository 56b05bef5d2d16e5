// Package iocontext carries the CLI's standard streams in a context so
// commands can be driven without touching the process streams.
package iocontext

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
)

// IO holds the streams a command reads from and writes to.
type IO struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// DefaultIO returns the process streams.
func DefaultIO() *IO {
	return &IO{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr}
}

// Buffered returns IO reading from input and writing to fresh buffers,
// along with those buffers.
func Buffered(input string) (streams *IO, out, errOut *bytes.Buffer) {
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	return &IO{In: strings.NewReader(input), Out: out, ErrOut: errOut}, out, errOut
}

type ioKey struct{}

// WithIO attaches streams to ctx.
func WithIO(ctx context.Context, streams *IO) context.Context {
	return context.WithValue(ctx, ioKey{}, streams)
}

// GetIO returns the streams attached to ctx, or DefaultIO. Unset fields
// fall back to the matching process stream.
func GetIO(ctx context.Context) *IO {
	streams, ok := ctx.Value(ioKey{}).(*IO)
	if !ok || streams == nil {
		return DefaultIO()
	}
	out := *streams
	def := DefaultIO()
	if out.In == nil {
		out.In = def.In
	}
	if out.Out == nil {
		out.Out = def.Out
	}
	if out.ErrOut == nil {
		out.ErrOut = def.ErrOut
	}
	return &out
}
