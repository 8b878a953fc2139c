// Package errors provides error wrapping with slog annotations and source
// locations so that failures can be logged with full context at the boundary.
//
// It re-exports the stdlib helpers ([Is], [As], [Join], ...) so that callers
// only need one errors import.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

// annotatedError carries a message, an optional cause, slog attributes, and
// the program counter of the call site that created it.
type annotatedError struct {
	msg   string
	cause error
	attrs []slog.Attr
	pc    uintptr
}

func (e *annotatedError) Error() string {
	switch {
	case e.cause == nil:
		return e.msg
	case e.msg == "":
		return e.cause.Error()
	default:
		return e.msg + ": " + e.cause.Error()
	}
}

func (e *annotatedError) Unwrap() error {
	return e.cause
}

// NewSentinel creates a sentinel error meant to be declared as a package-level
// variable and compared with [Is].
func NewSentinel(msg string) error {
	return &annotatedError{msg: msg, cause: nil, attrs: nil, pc: 0}
}

// Wrap annotates err with a message and optional slog attributes. The call
// site is recorded so that [SlogError] can point at the origin of the failure.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	var pcs [1]uintptr
	runtime.Callers(2, pcs[:]) //nolint:mnd // skip runtime.Callers and Wrap.
	return &annotatedError{
		msg:   msg,
		cause: err,
		attrs: attrs,
		pc:    pcs[0],
	}
}

// Errorf mirrors [fmt.Errorf], %w wrapping included, but records the call
// site like [Wrap]. The formatted error is held as the cause so that [Is]
// and [As] see through to any wrapped target.
func Errorf(format string, args ...any) error {
	var pcs [1]uintptr
	runtime.Callers(2, pcs[:]) //nolint:mnd // skip runtime.Callers and Errorf.
	return &annotatedError{
		msg:   "",
		cause: fmt.Errorf(format, args...),
		attrs: nil,
		pc:    pcs[0],
	}
}

// DecoratePanic converts a recovered panic value into an error annotated with
// the location of the panic statement.
func DecoratePanic(recovered any) error {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(2, pcs[:]) //nolint:mnd // skip runtime.Callers and DecoratePanic.
	frames := runtime.CallersFrames(pcs[:n])

	// The frame that panicked sits right below runtime.gopanic.
	var pc uintptr
	seenPanic := false
	for {
		frame, more := frames.Next()
		if seenPanic {
			pc = frame.PC
			break
		}
		if strings.HasPrefix(frame.Function, "runtime.gopanic") {
			seenPanic = true
		}
		if !more {
			break
		}
	}

	return &annotatedError{
		msg:   fmt.Sprintf("panic: %v", recovered),
		cause: nil,
		attrs: nil,
		pc:    pc,
	}
}

// SlogError renders err as a single grouped [slog.Attr] containing the
// message, any annotations gathered from the wrap chain, and the source
// location of the outermost annotated error.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Group("error", slog.String("message", "<nil>"))
	}

	attrs := []slog.Attr{slog.String("message", err.Error())}

	var annotations []slog.Attr
	var source string
	for unwrapped := err; unwrapped != nil; unwrapped = errors.Unwrap(unwrapped) {
		var annotated *annotatedError
		if errors.As(unwrapped, &annotated) {
			annotations = append(annotations, annotated.attrs...)
			if source == "" && annotated.pc != 0 {
				frame, _ := runtime.CallersFrames([]uintptr{annotated.pc}).Next()
				source = fmt.Sprintf("%s:%d", frame.File, frame.Line)
			}
			unwrapped = annotated
		}
	}

	if len(annotations) > 0 {
		attrs = append(attrs, slog.Attr{
			Key:   "annotations",
			Value: slog.GroupValue(annotations...),
		})
	}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}

	return slog.Attr{Key: "error", Value: slog.GroupValue(attrs...)}
}

// New mirrors [errors.New].
func New(msg string) error {
	return errors.New(msg)
}

// Is mirrors [errors.Is].
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As mirrors [errors.As].
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap mirrors [errors.Unwrap].
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join mirrors [errors.Join].
func Join(errs ...error) error {
	return errors.Join(errs...)
}
