package service

import (
	"errors"
	"fmt"
)

// Kind classifies service failures so handlers can map them to a status code
// without string matching.
type Kind int

const (
	KindUnexpected Kind = iota
	KindUnauthenticated
	KindForbidden
	KindInvalidArgument
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindUpstream:
		return "upstream"
	default:
		return "unexpected"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the classification from err, defaulting to unexpected.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnexpected
}

// MessageOf returns the caller-facing message carried by err, or empty when
// the error carries none.
func MessageOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}
