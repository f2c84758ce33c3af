package task

import (
	"errors"
	"fmt"
)

// Kind identifies the category of an engine failure.
type Kind string

const (
	KindInsufficientData     Kind = "InsufficientData"
	KindInvalidDateFormat    Kind = "InvalidDateFormat"
	KindMissingRequiredField Kind = "MissingRequiredField"
	KindOracleUnavailable    Kind = "OracleUnavailable"
)

// Sentinels for errors.Is checks. Matching is by Kind only.
var (
	ErrInsufficientData     = &Error{Kind: KindInsufficientData}
	ErrInvalidDateFormat    = &Error{Kind: KindInvalidDateFormat}
	ErrMissingRequiredField = &Error{Kind: KindMissingRequiredField}
	ErrOracleUnavailable    = &Error{Kind: KindOracleUnavailable}
)

// Error is the structured error surfaced by every engine operation.
type Error struct {
	Kind    Kind           `json:"kind"`
	Message string         `json:"message"`
	TaskID  int            `json:"taskId,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"`
}

// NewError creates an error of the given kind.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// WithTask records the offending task id.
func (e *Error) WithTask(id int) *Error {
	e.TaskID = id
	return e
}

// WithDetail attaches an extra key/value for callers and logs.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Wrap attaches an underlying cause.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// KindOf returns the Kind of err, or "" when err is not an engine error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// InsufficientData reports a batch too small for the requested operation.
func InsufficientData(got, want int) *Error {
	return NewError(KindInsufficientData, fmt.Sprintf("need at least %d tasks, got %d", want, got)).
		WithDetail("batchSize", got)
}

// OracleUnavailable wraps a failed embedding or estimator call.
func OracleUnavailable(taskID int, err error) *Error {
	return NewError(KindOracleUnavailable, "similarity oracle call failed").
		WithTask(taskID).
		Wrap(err)
}
