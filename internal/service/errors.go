package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error kinds. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOperationFailed    = errors.New("operation failed")
	ErrUnavailable        = errors.New("service unavailable")
)

// Error carries a client-safe message alongside its kind. Err, when set, is
// the underlying cause and is only ever logged.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

func validationf(format string, args ...interface{}) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func notFound(what string) error {
	return &Error{Kind: ErrNotFound, Msg: what + " not found."}
}

func conflict(msg string) error {
	return &Error{Kind: ErrConflict, Msg: msg}
}

func operationFailed(err error) error {
	return &Error{Kind: ErrOperationFailed, Msg: "operation failed.", Err: err}
}

func unavailable(msg string, err error) error {
	return &Error{Kind: ErrUnavailable, Msg: msg, Err: err}
}

// lookup converts a repository read error: a missing row becomes a not-found
// error for what, anything else passes through untouched.
func lookup(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(what)
	}
	return err
}

// unique converts a unique-constraint violation into a conflict with msg.
func unique(err error, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflict(msg)
	}
	return err
}
