package triquad

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrValidation        = errors.New("validation error")
	ErrParse             = errors.New("parse error")
	ErrEvaluation        = errors.New("evaluation error")
	ErrSourceUnavailable = errors.New("formula source unavailable")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindParse             ErrorKind = "parse"
	KindEvaluation        ErrorKind = "evaluation"
	KindSourceUnavailable ErrorKind = "source_unavailable"
)

var kindSentinels = map[ErrorKind]error{
	KindValidation:        ErrValidation,
	KindParse:             ErrParse,
	KindEvaluation:        ErrEvaluation,
	KindSourceUnavailable: ErrSourceUnavailable,
}

// Error carries the operation, kind and a human readable message.
// Msg is what callers show to users; Err is the optional underlying cause.
type Error struct {
	Op   string
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if msg == "" {
		msg = fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches the sentinel error of the same kind, so errors.Is(err, ErrParse) works.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

// IsKind helps callers classify errors without inspecting messages.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind of the first *Error in the chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func validationError(op, msg string) error {
	return &Error{Op: op, Kind: KindValidation, Msg: msg}
}
