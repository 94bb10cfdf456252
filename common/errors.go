package common

import (
	"errors"
	"fmt"
)

var (
	// input shape or range violations
	ErrValidation = errors.New("validation error")

	// business key already taken
	ErrConflict = errors.New("conflict")

	// bad credentials or unknown token
	ErrUnauthorized = errors.New("unauthorized")

	ErrNotFound = errors.New("not found")

	// malformed identifier syntax
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error attaches a user-facing message to one of the sentinel errors above.
// errors.Is(err, ErrConflict) holds for Errorf(ErrConflict, ...).
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
