package domain

import (
	"errors"
	"strings"
)

var (
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")

	ErrAccountNotFound = errors.New("account not found")

	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = &kindError{msg: "invalid credentials", kind: ErrUnauthenticated}

	ErrTokenMalformed        = &kindError{msg: "token is malformed", kind: ErrUnauthenticated}
	ErrTokenSignatureInvalid = &kindError{msg: "token signature is invalid", kind: ErrUnauthenticated}
	ErrTokenExpired          = &kindError{msg: "token has expired", kind: ErrUnauthenticated}

	ErrInternal = errors.New("internal error")
)

// kindError is a sentinel that also matches a broader sentinel with errors.Is.
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Is(target error) bool { return target == e.kind }

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field" example:"username"`
	Message string `json:"message" example:"Username must be at least 3 characters long"`
}

// ValidationError is returned when caller input is rejected before any work is done.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindDuplicate
	KindUnauthenticated
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDuplicate:
		return "duplicate"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// KindOf classifies err into one of the outward error kinds.
// Anything unrecognised is internal.
func KindOf(err error) ErrorKind {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return KindValidation
	case errors.Is(err, ErrDuplicateEmail), errors.Is(err, ErrDuplicateUsername):
		return KindDuplicate
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrAccountNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}
