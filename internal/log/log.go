// Package log provides context-aware diagnostic logging for vsx.
// Diagnostics go to stderr; primary data output is the output package's job.
package log

import (
	"context"
	"fmt"
	"io"
)

type ctxKey struct{}

// Logger writes diagnostics. Debug output is gated by verbose mode,
// warnings are suppressed in quiet mode, errors always print.
type Logger struct {
	out     io.Writer
	verbose bool
	quiet   bool
}

// New creates a new logger.
func New(out io.Writer, verbose, quiet bool) *Logger {
	return &Logger{out: out, verbose: verbose, quiet: quiet}
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a no-op logger if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return &Logger{out: io.Discard}
}

// Debugf writes formatted output when verbose mode is enabled.
func (l *Logger) Debugf(format string, args ...any) {
	if l.verbose {
		fmt.Fprintf(l.out, format+"\n", args...)
	}
}

// Warnf writes a warning unless quiet mode is enabled.
// Provider read failures and refresh timeouts land here: they degrade
// the result set, they never abort a query.
func (l *Logger) Warnf(format string, args ...any) {
	if !l.quiet {
		fmt.Fprintf(l.out, "warning: "+format+"\n", args...)
	}
}

// Errorf writes an error. Not suppressed by quiet mode.
func (l *Logger) Errorf(format string, args ...any) {
	fmt.Fprintf(l.out, "error: "+format+"\n", args...)
}

// Verbose returns true if verbose mode is enabled.
func (l *Logger) Verbose() bool {
	return l.verbose
}
