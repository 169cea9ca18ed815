// Package errors annotates errors with structured slog attributes and the source location where the annotation
// happened. It re-exports the standard library helpers so callers need a single import.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

type annotatedError struct {
	err    error
	msg    string
	attrs  []slog.Attr
	source string
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// NewSentinel creates an error meant to be declared as a package-level variable and compared with [Is].
// It carries no source location.
func NewSentinel(text string) error {
	return stderrors.New(text)
}

// New creates an error annotated with the caller's source location.
func New(text string, attrs ...slog.Attr) error {
	return &annotatedError{
		err:    nil,
		msg:    text,
		attrs:  attrs,
		source: callerSource(3), //nolint:mnd // skip runtime.Callers, callerSource and New.
	}
}

// Wrap annotates err with msg and attrs. The attrs are logged by [SlogError] under error.annotations.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &annotatedError{
		err:    err,
		msg:    msg,
		attrs:  attrs,
		source: callerSource(3), //nolint:mnd // skip runtime.Callers, callerSource and Wrap.
	}
}

// DecoratePanic converts a recovered panic value into an error pointing at the line that panicked.
func DecoratePanic(excp any) error {
	if excp == nil {
		return nil
	}
	return &annotatedError{
		err:    nil,
		msg:    fmt.Sprintf("panic: %v", excp),
		attrs:  nil,
		source: panicSource(),
	}
}

// SlogError turns err into a slog group with the message, the collected annotations and the source location of
// the outermost annotation.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}

	var (
		annotations []any
		source      string
	)
	for current := err; current != nil; current = stderrors.Unwrap(current) {
		var ae *annotatedError
		if !stderrors.As(current, &ae) {
			break
		}
		for _, attr := range ae.attrs {
			annotations = append(annotations, attr)
		}
		if source == "" {
			source = ae.source
		}
		current = ae
	}

	attrs := []any{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Group("annotations", annotations...))
	}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	return slog.Group("error", attrs...)
}

func callerSource(skip int) string {
	var pcs [1]uintptr
	if runtime.Callers(skip, pcs[:]) == 0 {
		return ""
	}
	frame, _ := runtime.CallersFrames(pcs[:]).Next()
	return formatFrame(frame)
}

// panicSource walks the stack of a deferred recover and returns the first frame after runtime.gopanic.
func panicSource() string {
	pcs := make([]uintptr, 32) //nolint:mnd // deep enough for any recover handler.
	n := runtime.Callers(1, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	afterPanic := false
	for {
		frame, more := frames.Next()
		if afterPanic && !strings.HasPrefix(frame.Function, "runtime.") {
			return formatFrame(frame)
		}
		if frame.Function == "runtime.gopanic" {
			afterPanic = true
		}
		if !more {
			return ""
		}
	}
}

func formatFrame(frame runtime.Frame) string {
	if frame.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", frame.File, frame.Line)
}

// Is reports whether any error in err's tree matches target. See [errors.Is].
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target. See [errors.As].
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err. See [errors.Unwrap].
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// Join returns an error that wraps the given errors. See [errors.Join].
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}
