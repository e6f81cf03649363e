package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode     Phase = "decode"     // wire buffer to Go
	PhaseEncode     Phase = "encode"     // Go to wire buffer
	PhaseHandle     Phase = "handle"     // handle registry
	PhaseCalculate  Phase = "calculate"  // single-shot performance
	PhaseGradual    Phase = "gradual"    // incremental session
	PhaseCollection Phase = "collection" // collection document model
	PhaseDispatch   Phase = "dispatch"   // response envelope
	PhaseHost       Phase = "host"       // host adapter (guest memory, arguments)
)

// Kind categorizes the error
type Kind string

const (
	KindTruncatedInput    Kind = "truncated_input"
	KindDecode            Kind = "decode_error"
	KindInvalidHandle     Kind = "invalid_handle"
	KindMissingScoreState Kind = "missing_score_state"
	KindExhausted         Kind = "exhausted"
	KindIndexOutOfRange   Kind = "index_out_of_range"
	KindInternal          Kind = "internal"
	KindInvalidInput      Kind = "invalid_input"
)

// Code returns the 7-bit wire code for the kind. Unknown kinds map to
// the internal code so a host never sees an unassigned value.
func (k Kind) Code() uint8 {
	switch k {
	case KindTruncatedInput:
		return 1
	case KindDecode:
		return 2
	case KindInvalidHandle:
		return 3
	case KindMissingScoreState:
		return 4
	case KindExhausted:
		return 5
	case KindIndexOutOfRange:
		return 6
	case KindInvalidInput:
		return 8
	default:
		return 7
	}
}

// KindFromCode is the inverse of Kind.Code.
func KindFromCode(code uint8) Kind {
	switch code & 0x7f {
	case 1:
		return KindTruncatedInput
	case 2:
		return KindDecode
	case 3:
		return KindInvalidHandle
	case 4:
		return KindMissingScoreState
	case 5:
		return KindExhausted
	case 6:
		return KindIndexOutOfRange
	case 8:
		return KindInvalidInput
	default:
		return KindInternal
	}
}

// Error is the structured error type used throughout the bridge
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

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

// Is reports whether target matches this error.
// A target without a Phase matches on Kind alone.
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

// Sentinels for errors.Is checks by category.
var (
	ErrTruncatedInput    = &Error{Kind: KindTruncatedInput}
	ErrDecode            = &Error{Kind: KindDecode}
	ErrInvalidHandle     = &Error{Kind: KindInvalidHandle}
	ErrMissingScoreState = &Error{Kind: KindMissingScoreState}
	ErrExhausted         = &Error{Kind: KindExhausted}
	ErrIndexOutOfRange   = &Error{Kind: KindIndexOutOfRange}
	ErrInternal          = &Error{Kind: KindInternal}
	ErrInvalidInput      = &Error{Kind: KindInvalidInput}
)

// KindOf returns the Kind of the first *Error in err's chain.
// Errors that carry no Kind are internal.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
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

// Truncated creates a truncated input error
func Truncated(phase Phase, path []string, need, have int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTruncatedInput,
		Path:   path,
		Detail: fmt.Sprintf("need %d bytes, have %d", need, have),
		Value:  have,
	}
}

// Decode creates a structural decode error for beatmap or document bytes
func Decode(phase Phase, what string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDecode,
		Detail: fmt.Sprintf("decode %s", what),
		Cause:  cause,
	}
}

// InvalidHandle creates an invalid handle error
func InvalidHandle(phase Phase, handle uint64, reason string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidHandle,
		Detail: fmt.Sprintf("handle %#x: %s", handle, reason),
		Value:  handle,
	}
}

// MissingScoreState creates the error for a gradual step without a score
func MissingScoreState(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMissingScoreState,
		Detail: "score state required",
	}
}

// Exhausted creates the error for a gradual session with no steps left
func Exhausted(phase Phase, steps int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindExhausted,
		Detail: fmt.Sprintf("all %d objects processed", steps),
		Value:  steps,
	}
}

// OutOfRange creates an index out of range error
func OutOfRange(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIndexOutOfRange,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of range (length %d)", index, length),
		Value:  index,
	}
}

// Internal wraps an unexpected collaborator failure
func Internal(phase Phase, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInternal,
		Detail: "unexpected failure",
		Cause:  cause,
	}
}

// Panic converts a recovered panic value into an internal error
func Panic(phase Phase, recovered any) *Error {
	if err, ok := recovered.(error); ok {
		return &Error{
			Phase:  phase,
			Kind:   KindInternal,
			Detail: "recovered panic",
			Cause:  err,
			Value:  recovered,
		}
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInternal,
		Detail: fmt.Sprintf("recovered panic: %v", recovered),
		Value:  recovered,
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

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
