package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseBuild  Phase = "build"  // IR construction
	PhaseLayout Phase = "layout" // size/alignment/offset computation
	PhaseFold   Phase = "fold"   // constant folding
	PhaseVisit  Phase = "visit"  // tree traversal
	PhaseCFG    Phase = "cfg"    // control-flow-graph construction
	PhaseAlpha  Phase = "alpha"  // fresh-name generation and cloning
	PhasePrint  Phase = "print"  // C source emission
)

// Kind categorizes the error
type Kind string

const (
	// KindBug marks a broken IR invariant: Mem on a non-pointer, Index on a
	// non-array, a missing field, setFormals on a non-function. These
	// indicate a caller error.
	KindBug Kind = "bug"
	// KindUnimplemented marks a case the core does not handle.
	KindUnimplemented Kind = "unimplemented"
	// KindSizeOf marks a type whose size cannot be computed: incomplete
	// composites, arrays of unknown or non-constant length, functions, void.
	KindSizeOf Kind = "sizeof"
	// KindTruncation marks a 64-bit value that did not fit its integer kind.
	KindTruncation Kind = "truncation"
	KindNotFound   Kind = "not_found"
	KindInvalid    Kind = "invalid_input"
)

// Error is the structured error type used throughout the library
type Error struct {
	Phase  Phase
	Kind   Kind
	Type   string // rendering of the offending C type, if any
	Detail string
	Value  any
	Cause  error
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Type != "" {
		b.WriteString(": ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Type sets the rendering of the offending C type
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Bug creates a broken-invariant error
func Bug(phase Phase, detail string, args ...any) *Error {
	return New(phase, KindBug).Detail(detail, args...).Build()
}

// Unimplemented creates an unimplemented-case error
func Unimplemented(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnimplemented,
		Detail: what,
	}
}

// SizeOf creates a sizeof error for the given type rendering.
// The layout engine raises it for incomplete composites, arrays of unknown
// or non-constant length, function types and void; ir.SizeOf recovers it
// locally by returning a symbolic expression.
func SizeOf(typ, detail string) *Error {
	return &Error{
		Phase:  PhaseLayout,
		Kind:   KindSizeOf,
		Type:   typ,
		Detail: detail,
	}
}

// IsSizeOf reports whether err is a sizeof error from the layout engine
func IsSizeOf(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == KindSizeOf
}

// Truncation creates a truncation warning value. It is reported through the
// warning sink rather than returned; printing continues with the truncated
// value.
func Truncation(kind string, value, truncated int64) *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindTruncation,
		Detail: fmt.Sprintf("value 0x%X truncated to 0x%X for %s", uint64(value), uint64(truncated), kind),
		Value:  value,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Invalid creates an invalid input error
func Invalid(phase Phase, detail string, args ...any) *Error {
	return New(phase, KindInvalid).Detail(detail, args...).Build()
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
