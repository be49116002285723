package drive

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrConfiguration = errors.New("backend configuration missing")
	ErrAuth          = errors.New("not signed in")
	ErrQuery         = errors.New("query failed")
	ErrStorage       = errors.New("storage operation failed")
	ErrRecord        = errors.New("record operation failed")
	ErrNotFound      = errors.New("not found")
	ErrInvalid       = errors.New("invalid request")
)

// Error is returned by every Client operation.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == e.Kind }

func fail(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}
