// Package errors wraps the standard library errors package with
// annotation support: errors carry slog attributes and the call site they
// were created at, and SlogError renders the whole chain as one structured
// log attribute.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
)

const maxStackDepth = 16

type annotatedError struct {
	msg   string
	cause error
	attrs []slog.Attr
	pcs   []uintptr
}

// callsite captures program counters starting skip frames above the
// caller of callsite.
func callsite(skip int) []uintptr {
	var pcs [maxStackDepth]uintptr
	n := runtime.Callers(skip+2, pcs[:])
	return pcs[:n]
}

// New creates an annotated error with optional slog attributes.
func New(msg string, attrs ...slog.Attr) error {
	return &annotatedError{msg: msg, attrs: attrs, pcs: callsite(1)}
}

// NewSentinel creates a plain sentinel error without annotations or a
// captured call site. Use for package-level error values compared with Is.
func NewSentinel(msg string) error {
	return errors.New(msg)
}

// Wrap annotates err with a message and optional slog attributes. A nil
// err is allowed; the result then carries only the message.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &annotatedError{msg: msg, cause: err, attrs: attrs, pcs: callsite(1)}
}

// DecoratePanic converts a recovered panic value into an annotated error
// whose source points at the panic site rather than the recovery handler.
func DecoratePanic(recovered any) error {
	return &annotatedError{
		msg: fmt.Sprintf("panic: %v", recovered),
		pcs: callsite(1),
	}
}

func (e *annotatedError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.cause
}

// Re-exports so callers only import one errors package.

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}

func Join(errs ...error) error {
	return errors.Join(errs...)
}

// SlogError renders err as a grouped slog attribute containing the
// message, all annotations found in the error chain and the source
// location of the outermost annotated error.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}

	annotations, pcs := collectChain(err)

	parts := []slog.Attr{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		parts = append(parts, slog.Attr{Key: "annotations", Value: slog.GroupValue(annotations...)})
	}
	if source := sourceLocation(pcs); source != "" {
		parts = append(parts, slog.String("source", source))
	}

	return slog.Attr{Key: "error", Value: slog.GroupValue(parts...)}
}

// collectChain walks the error tree gathering annotations from every
// annotated error and the call site of the outermost one.
func collectChain(err error) ([]slog.Attr, []uintptr) {
	var (
		annotations []slog.Attr
		pcs         []uintptr
	)
	queue := []error{err}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == nil {
			continue
		}
		if ae, ok := current.(*annotatedError); ok {
			annotations = append(annotations, ae.attrs...)
			if pcs == nil && len(ae.pcs) > 0 {
				pcs = ae.pcs
			}
		}
		switch unwrapped := current.(type) {
		case interface{ Unwrap() []error }:
			queue = append(queue, unwrapped.Unwrap()...)
		case interface{ Unwrap() error }:
			queue = append(queue, unwrapped.Unwrap())
		}
	}
	return annotations, pcs
}

// sourceLocation resolves the captured program counters to "file:line".
// Frames inside this package and the runtime are skipped. When the stack
// crosses runtime.gopanic, the frame after it is the panic site and wins.
func sourceLocation(pcs []uintptr) string {
	if len(pcs) == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs)
	var (
		candidate  string
		afterPanic bool
	)
	for {
		frame, more := frames.Next()
		if frame.Function == "runtime.gopanic" {
			afterPanic = true
		} else if afterPanic {
			return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
		} else if candidate == "" &&
			!strings.HasSuffix(frame.File, "annotatederror.go") &&
			!strings.HasPrefix(frame.Function, "runtime.") {
			candidate = fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
		}
		if !more {
			break
		}
	}
	return candidate
}
