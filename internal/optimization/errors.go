package optimization

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes an optimisation run can hit.
// Configuration and domain errors are fatal and surface at construction;
// evaluation errors are recoverable per the configured FailurePolicy; an
// acquisition search failure falls back to random candidate selection and
// never aborts a run on its own.
var (
	ErrInvalidDomain      = errors.New("invalid domain")
	ErrInsufficientBudget = errors.New("insufficient budget")
	ErrEvaluation         = errors.New("evaluation failed")
	ErrAcquisition        = errors.New("acquisition search failed")
)

// Error represents an optimization error with context
// that can be wrapped with additional information.
type Error struct {
	// Message describes the error that occurred.
	Message string
	// Op is the operation that caused the error.
	Op string
	// Component is the component where the error occurred.
	Component string
	// Err is the underlying error that triggered this one, if any.
	Err error
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var prefix string
	if e.Component != "" && e.Op != "" {
		prefix = fmt.Sprintf("%s: %s", e.Component, e.Op)
	} else if e.Component != "" {
		prefix = e.Component
	} else if e.Op != "" {
		prefix = e.Op
	}

	if e.Err != nil {
		if prefix != "" {
			return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	if prefix != "" {
		return fmt.Sprintf("%s: %s", prefix, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// WithOperation adds operation context to the error.
func (e *Error) WithOperation(op string) *Error {
	e.Op = op
	return e
}

// WithComponent adds component context to the error.
func (e *Error) WithComponent(component string) *Error {
	e.Component = component
	return e
}

// NewError creates a new optimization error wrapping the given sentinel.
func NewError(sentinel error, message string) *Error {
	return &Error{
		Message: message,
		Err:     sentinel,
	}
}

// NewErrorf creates a new optimization error wrapping the given sentinel
// with a formatted message.
func NewErrorf(sentinel error, format string, args ...interface{}) *Error {
	return &Error{
		Message: fmt.Sprintf(format, args...),
		Err:     sentinel,
	}
}

// WrapError wraps an existing error with additional context.
// If err is nil, WrapError returns nil.
func WrapError(err error, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// WrapErrorf wraps an existing error with additional formatted context.
// If err is nil, WrapErrorf returns nil.
func WrapErrorf(err error, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// EvaluationError wraps a failed objective evaluation at the given point so
// that errors.Is(err, ErrEvaluation) holds for any cause.
func EvaluationError(point []float64, cause error) *Error {
	return &Error{
		Message: fmt.Sprintf("objective failed at %v", point),
		Err:     fmt.Errorf("%w: %w", ErrEvaluation, cause),
	}
}
