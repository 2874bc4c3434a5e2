package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode Phase = "decode" // bytes to values
	PhaseEncode Phase = "encode" // values to bytes
	PhaseLoad   Phase = "load"   // acquiring module bytes
)

// Kind categorizes the error
type Kind string

const (
	KindMagicMismatch Kind = "magic_mismatch"
	KindTruncated     Kind = "truncated"
	KindMisaligned    Kind = "misaligned"
	KindInvalidUTF8   Kind = "invalid_utf8"
	KindOverflow      Kind = "overflow"
	KindInvalidInput  Kind = "invalid_input"
	KindInvalidData   Kind = "invalid_data"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Chunk  string
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

	if e.Chunk != "" {
		b.WriteString(" in chunk ")
		b.WriteString(e.Chunk)
	}

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
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

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Chunk sets the chunk id the error belongs to
func (b *Builder) Chunk(id string) *Builder {
	b.err.Chunk = id
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

// MagicMismatch creates a magic mismatch error for a fixed header field
func MagicMismatch(field string, got, want []byte) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindMagicMismatch,
		Path:   []string{field},
		Detail: fmt.Sprintf("got %q, want %q", got, want),
		Value:  got,
	}
}

// Truncated creates a truncation error for a read of need units where
// only have remain
func Truncated(path []string, unit string, need, have int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTruncated,
		Path:   path,
		Detail: fmt.Sprintf("need %d %s, have %d", need, unit, have),
		Value:  need,
	}
}

// Misaligned creates an error for a byte-granularity read at a bit offset
func Misaligned(bitPos int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindMisaligned,
		Detail: fmt.Sprintf("byte read at bit %d (offset %d within byte)", bitPos, bitPos%8),
		Value:  bitPos,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Detail: fmt.Sprintf("value %v overflows %s", value, target),
		Value:  value,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
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

// Load creates a module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// Within returns a copy of err scoped to a chunk and with prefix prepended
// to its path. Errors that are not *Error are returned unchanged.
func Within(err error, chunk string, prefix ...string) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}
	c := *e
	if chunk != "" {
		c.Chunk = chunk
	}
	if len(prefix) > 0 {
		c.Path = append(append([]string(nil), prefix...), e.Path...)
	}
	return &c
}
