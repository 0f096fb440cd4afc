package service

import (
	"errors"
	"fmt"

	"storefront/internal/store"
)

// Error kinds. Match them with errors.Is.
var (
	ErrValidation   = store.ErrInvalid
	ErrNotFound     = store.ErrNotFound
	ErrConflict     = store.ErrConflict
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a failure the caller can act on: its Message is safe to show and
// its Kind decides the response status.
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

func invalid(format string, args ...interface{}) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func notFound(what string) error {
	return &Error{Kind: ErrNotFound, Message: what + " not found"}
}

func unauthorized(msg string) error {
	return &Error{Kind: ErrUnauthorized, Message: msg}
}

// fromStore turns store sentinels into typed errors named after what; any
// other error is wrapped with op and passed through.
func fromStore(err error, op, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return notFound(what)
	case errors.Is(err, store.ErrConflict):
		return &Error{Kind: ErrConflict, Message: what + " already exists"}
	case errors.Is(err, store.ErrInvalid):
		return invalid("%s has a value that is too long or out of range", what)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
