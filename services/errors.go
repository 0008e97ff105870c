package services

import (
	"fmt"
	"runtime"
	"strings"
)

// ErrKind classifies an error for callers that need to map it to an HTTP
// status or a degrade-vs-fail decision.
type ErrKind int

const (
	// KindInvalidInput is a malformed request: wrong count, out of range,
	// duplicates. User-visible 400.
	KindInvalidInput ErrKind = iota
	// KindUnavailable is a backing-store or optional-feature outage. The
	// core degrades (empty candidates, default weights) and logs; it is
	// never surfaced as a 5xx if a partial answer is computable.
	KindUnavailable
	// KindInternal is a programming error or a failed write. User-visible
	// 500 with a short message.
	KindInternal
	// KindStateConflict is returned when a refresh is requested while one
	// is already running: success=false with an informational message,
	// never an HTTP error status.
	KindStateConflict
)

func (k ErrKind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindUnavailable:
		return "Unavailable"
	case KindInternal:
		return "Internal"
	case KindStateConflict:
		return "StateConflict"
	default:
		return "Unknown"
	}
}

// Error is a typed, kind-classified error. It wraps an underlying cause so
// callers can still use errors.Is/errors.As against it.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds a kind-classified error.
func NewError(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// ErrorContext provides additional context for a wrapped error.
type ErrorContext struct {
	Operation  string
	DrawType   int
	DrawID     int
	File       string
	Line       int
	Function   string
}

// WrappedError contains an error with additional context, used for
// logging-oriented diagnostics (distinct from the typed Error above, which
// callers branch on).
type WrappedError struct {
	Err     error
	Context ErrorContext
}

func (we *WrappedError) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s", we.Context.Operation, we.Err.Error()))

	if we.Context.DrawType != 0 {
		sb.WriteString(fmt.Sprintf(" (drawType: %d)", we.Context.DrawType))
	}
	if we.Context.DrawID != 0 {
		sb.WriteString(fmt.Sprintf(" (draw: %d)", we.Context.DrawID))
	}
	if we.Context.File != "" {
		sb.WriteString(fmt.Sprintf(" at %s:%d", we.Context.File, we.Context.Line))
	}

	return sb.String()
}

func (we *WrappedError) Unwrap() error {
	return we.Err
}

// WrapError wraps an error with operation context and caller information.
func WrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	pc, file, line, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	funcName := ""
	if fn != nil {
		funcName = fn.Name()
	}

	parts := strings.Split(file, "/")
	if len(parts) > 0 {
		file = parts[len(parts)-1]
	}

	return &WrappedError{
		Err: err,
		Context: ErrorContext{
			Operation: operation,
			File:      file,
			Line:      line,
			Function:  funcName,
		},
	}
}

// WrapErrorWithDraw wraps an error with draw-type/draw-id context.
func WrapErrorWithDraw(err error, operation string, drawTypeID, drawID int) error {
	if err == nil {
		return nil
	}

	wrapped := WrapError(err, operation)
	if we, ok := wrapped.(*WrappedError); ok {
		we.Context.DrawType = drawTypeID
		we.Context.DrawID = drawID
	}

	return wrapped
}

// SafeExecute runs fn and converts a panic into a wrapped error.
func SafeExecute(operation string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = WrapError(fmt.Errorf("panic: %v", r), operation)
		}
	}()

	return fn()
}
