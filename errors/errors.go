package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile Phase = "compile" // Go type compilation
	PhaseEncode  Phase = "encode"  // value to bytes
	PhaseDecode  Phase = "decode"  // bytes to value
)

// Kind categorizes the error
type Kind string

const (
	KindMessage           Kind = "message"
	KindValueTruncated    Kind = "value_truncated"
	KindLengthRequired    Kind = "length_required"
	KindTypeUnknown       Kind = "type_unknown"
	KindIntegerOverflow   Kind = "integer_overflow"
	KindInvalidUTF8       Kind = "invalid_utf8"
	KindIdentifierUnknown Kind = "identifier_unknown"
	KindTypeMismatch      Kind = "type_mismatch"
	KindInvalidVariant    Kind = "invalid_variant"
	KindDepthExceeded     Kind = "depth_exceeded"
	KindUnsupported       Kind = "unsupported"
)

// Sentinels for errors.Is. They carry no phase and match an Error of the same
// kind raised in any phase.
var (
	ErrMessage           = &Error{Kind: KindMessage}
	ErrValueTruncated    = &Error{Kind: KindValueTruncated}
	ErrLengthRequired    = &Error{Kind: KindLengthRequired}
	ErrTypeUnknown       = &Error{Kind: KindTypeUnknown}
	ErrIntegerOverflow   = &Error{Kind: KindIntegerOverflow}
	ErrInvalidUTF8       = &Error{Kind: KindInvalidUTF8}
	ErrIdentifierUnknown = &Error{Kind: KindIdentifierUnknown}
	ErrTypeMismatch      = &Error{Kind: KindTypeMismatch}
	ErrInvalidVariant    = &Error{Kind: KindInvalidVariant}
	ErrDepthExceeded     = &Error{Kind: KindDepthExceeded}
	ErrUnsupported       = &Error{Kind: KindUnsupported}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Shape  string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.Shape != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.Shape != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", wire shape ")
			b.WriteString(e.Shape)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("wire shape ")
			b.WriteString(e.Shape)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.Shape != "" {
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

// Is reports whether target matches this error. A target without a phase
// matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Prepend adds path segments in front of the existing path. Containers use it
// while an error unwinds so the final path reads outermost first.
func (e *Error) Prepend(segments ...string) *Error {
	path := make([]string, 0, len(segments)+len(e.Path))
	path = append(path, segments...)
	e.Path = append(path, e.Path...)
	return e
}

// Clone returns a copy of e whose path can be extended without touching e.
func (e *Error) Clone() *Error {
	c := *e
	c.Path = append([]string(nil), e.Path...)
	return &c
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

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Shape sets the expected wire shape
func (b *Builder) Shape(s string) *Builder {
	b.err.Shape = s
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

// Message wraps an error raised by the value being encoded or decoded.
func Message(phase Phase, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMessage,
		Detail: "error raised by value",
		Cause:  cause,
	}
}

// Messagef creates a custom error on behalf of the value being transformed.
func Messagef(phase Phase, format string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMessage,
		Detail: fmt.Sprintf(format, args...),
	}
}

// Truncated creates a value-truncated error at the given input offset
func Truncated(offset, need, have int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindValueTruncated,
		Detail: fmt.Sprintf("need %d bytes at offset %d, have %d", need, offset, have),
	}
}

// LengthRequired creates an error for a container of unknown length
func LengthRequired(path []string, container string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindLengthRequired,
		Path:   path,
		Shape:  container,
		Detail: "cannot encode container of unknown length",
	}
}

// TypeUnknown creates an error for a value whose shape is not statically known
func TypeUnknown(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeUnknown,
		Path:   path,
		GoType: goType,
		Detail: "cannot transform a value without knowing its type",
	}
}

// IdentifierUnknown creates an error for a field or variant name lookup
func IdentifierUnknown(offset int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindIdentifierUnknown,
		Detail: fmt.Sprintf("identifiers are not encoded in this format (offset %d)", offset),
	}
}

// Overflow creates an integer overflow error
func Overflow(phase Phase, path []string, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIntegerOverflow,
		Path:   path,
		Shape:  target,
		Detail: fmt.Sprintf("value %v does not fit in %s", value, target),
		Value:  value,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// InvalidRune creates an error for a rune that is not a Unicode scalar value
func InvalidRune(phase Phase, path []string, r rune) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Shape:  "char",
		Detail: fmt.Sprintf("%#x is not a Unicode scalar value", r),
		Value:  r,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, shape string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		GoType: goType,
		Shape:  shape,
	}
}

// InvalidVariant creates an error for a variant index with no declared case
func InvalidVariant(phase Phase, path []string, index uint32, cases int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidVariant,
		Path:   path,
		Detail: fmt.Sprintf("variant index %d out of range (%d cases)", index, cases),
		Value:  index,
	}
}

// DepthExceeded creates a recursion limit error
func DepthExceeded(phase Phase, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDepthExceeded,
		Detail: fmt.Sprintf("nesting exceeds %d levels", limit),
		Value:  limit,
	}
}

// Unsupported creates an unsupported type error
func Unsupported(phase Phase, path []string, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Path:   path,
		Detail: what,
	}
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
