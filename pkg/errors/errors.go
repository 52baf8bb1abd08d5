package errors

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedInput  = errors.New("malformed input")
	ErrMissingResource = errors.New("missing resource")
	ErrFormatMismatch  = errors.New("index format mismatch")
	ErrInternal        = errors.New("internal error")
)

// AppError attaches the failing operation and detail to a sentinel so a
// fatal report names the specific line, term, or offset involved.
type AppError struct {
	Err     error
	Op      string
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, op string, message string) *AppError {
	return &AppError{
		Err:     sentinel,
		Op:      op,
		Message: message,
	}
}

func Newf(sentinel error, op string, format string, args ...any) *AppError {
	return &AppError{
		Err:     sentinel,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// Process exit codes for the batch binaries.
const (
	ExitOK              = 0
	ExitInternal        = 1
	ExitMalformedInput  = 2
	ExitMissingResource = 3
	ExitFormatMismatch  = 4
)

func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrMalformedInput):
		return ExitMalformedInput
	case errors.Is(err, ErrMissingResource):
		return ExitMissingResource
	case errors.Is(err, ErrFormatMismatch):
		return ExitFormatMismatch
	default:
		return ExitInternal
	}
}
