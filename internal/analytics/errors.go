package analytics

import "fmt"

// ErrorKind classifies why an engine operation rejected its input.
// Every kind describes bad input; none is retryable.
type ErrorKind string

const (
	KindEmptyInput         ErrorKind = "EMPTY_INPUT"
	KindNoValidData        ErrorKind = "NO_VALID_DATA"
	KindInsufficientData   ErrorKind = "INSUFFICIENT_DATA"
	KindLengthMismatch     ErrorKind = "LENGTH_MISMATCH"
	KindInvalidTimestamp   ErrorKind = "INVALID_TIMESTAMP"
	KindInvalidGranularity ErrorKind = "INVALID_GRANULARITY"
)

// Error is returned by every engine operation that fails.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is an *Error of the same kind, so callers can
// match with errors.Is(err, analytics.ErrInsufficientData).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is matching. Their messages are only defaults.
var (
	ErrEmptyInput         = &Error{Kind: KindEmptyInput, Message: "empty input"}
	ErrNoValidData        = &Error{Kind: KindNoValidData, Message: "no valid data found"}
	ErrInsufficientData   = &Error{Kind: KindInsufficientData, Message: "insufficient data"}
	ErrLengthMismatch     = &Error{Kind: KindLengthMismatch, Message: "length mismatch"}
	ErrInvalidTimestamp   = &Error{Kind: KindInvalidTimestamp, Message: "invalid timestamp"}
	ErrInvalidGranularity = &Error{Kind: KindInvalidGranularity, Message: "invalid granularity"}
)

// NewError creates an engine error of the given kind.
func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}
