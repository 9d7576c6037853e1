// Package ioctx carries a command's output streams through a
// context.Context.
package ioctx

import (
	"context"
	"io"
)

// Streams are the writers a command reports to.
type Streams struct {
	Out io.Writer
	Err io.Writer
}

type streamsKey struct{}

// WithStreams returns a context carrying s.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

// Stdout returns the output stream of ctx, or io.Discard.
func Stdout(ctx context.Context) io.Writer {
	if s, ok := ctx.Value(streamsKey{}).(Streams); ok && s.Out != nil {
		return s.Out
	}
	return io.Discard
}

// Stderr returns the error stream of ctx, or io.Discard.
func Stderr(ctx context.Context) io.Writer {
	if s, ok := ctx.Value(streamsKey{}).(Streams); ok && s.Err != nil {
		return s.Err
	}
	return io.Discard
}
