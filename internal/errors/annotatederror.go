// Package errors provides error wrapping with slog annotations so that the
// context gathered on the way up the call stack ends up in the logs instead
// of being flattened into the error string.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

// AnnotatedError carries a message, an optional cause, slog attributes, and
// the source location where it was created.
type AnnotatedError struct {
	msg    string
	cause  error
	attrs  []slog.Attr
	source string
}

func (e *AnnotatedError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *AnnotatedError) Unwrap() error {
	return e.cause
}

// Wrap annotates err with a message and optional slog attributes. The caller's
// source location is recorded for logging with [SlogError].
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &AnnotatedError{
		msg:    msg,
		cause:  err,
		attrs:  attrs,
		source: caller(),
	}
}

// New returns an annotated error with the caller's source location.
func New(msg string) error {
	return &AnnotatedError{msg: msg, source: caller()}
}

// NewSentinel returns an error suitable for package-level sentinel values.
// It records no source location since the declaration site is not useful.
func NewSentinel(msg string) error {
	return &AnnotatedError{msg: msg}
}

// DecoratePanic converts a recovered panic value into an annotated error
// pointing at the panic site.
func DecoratePanic(recovered any) error {
	if recovered == nil {
		return nil
	}
	return &AnnotatedError{
		msg:    fmt.Sprintf("panic: %v", recovered),
		source: panicSite(),
	}
}

// panicSite returns the file:line that panicked. It prefers the frame right
// after runtime.gopanic so the log points at the panic statement rather than
// the deferred recover block.
func panicSite() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(2, pcs[:]) //nolint:mnd // skip runtime.Callers and panicSite itself.
	frames := runtime.CallersFrames(pcs[:n])
	var (
		fallback string
		sawPanic bool
	)
	for {
		frame, more := frames.Next()
		isRuntime := strings.HasPrefix(frame.Function, "runtime.")
		if isRuntime {
			sawPanic = sawPanic || frame.Function == "runtime.gopanic"
		} else {
			if sawPanic {
				return fmt.Sprintf("%s:%d", frame.File, frame.Line)
			}
			if fallback == "" && !strings.HasPrefix(frame.Function, pkgPrefix) {
				fallback = fmt.Sprintf("%s:%d", frame.File, frame.Line)
			}
		}
		if !more {
			return fallback
		}
	}
}

// pkgPrefix identifies this package's own functions on the stack. Matching on
// the function name rather than the file path keeps callers that merely live
// in this directory, like the external test package, out of the skip set.
const pkgPrefix = "github.com/jkarhu/packtrack/internal/errors."

// caller returns the file:line of the first stack frame outside this package
// and the runtime.
func caller() string {
	const maxDepth = 16
	var pcs [maxDepth]uintptr
	n := runtime.Callers(2, pcs[:]) //nolint:mnd // skip runtime.Callers and caller itself.
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, pkgPrefix) &&
			!strings.HasPrefix(frame.Function, "runtime.") {
			return fmt.Sprintf("%s:%d", frame.File, frame.Line)
		}
		if !more {
			return ""
		}
	}
}

// SlogError renders err as a structured "error" attribute with the wrapped
// message, the annotations collected along the chain, and the source location
// closest to the root cause's wrap site.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}

	var (
		annotations []slog.Attr
		source      string
	)
	for e := err; e != nil; e = stderrors.Unwrap(e) {
		if annotated, ok := e.(*AnnotatedError); ok { //nolint:errorlint // walking the chain manually.
			annotations = append(annotations, annotated.attrs...)
			if annotated.source != "" {
				source = annotated.source
			}
		}
	}

	attrs := []any{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		annotationArgs := make([]any, len(annotations))
		for i, a := range annotations {
			annotationArgs[i] = a
		}
		attrs = append(attrs, slog.Group("annotations", annotationArgs...))
	}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	return slog.Group("error", attrs...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Join wraps [errors.Join].
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// Unwrap wraps [errors.Unwrap].
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}
