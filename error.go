package despertador

import (
	"errors"
	"fmt"
)

type errorCode string

const (
	ErrInternal    errorCode = "internal"
	ErrInvalid     errorCode = "invalid"
	ErrNotFound    errorCode = "not_found"
	ErrUnavailable errorCode = "unavailable"
)

// Error is an application error. Adapters wrap the failure they observed in
// Err so callers can still inspect it.
type Error struct {
	Code        errorCode
	Description string
	Err         error
}

func (e *Error) Error() string {
	msg := "despertador: " + string(e.Code) + ": " + e.Description
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Errorf(code errorCode, format string, args ...any) error {
	return &Error{Code: code, Description: fmt.Sprintf(format, args...)}
}

// Wrapf annotates err with a code and a description. It returns nil if err
// is nil.
func Wrapf(code errorCode, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Description: fmt.Sprintf(format, args...), Err: err}
}

// ErrorCode returns the code of the outermost application error in the
// chain of err, or ErrInternal if there is none.
func ErrorCode(err error) errorCode {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return ErrInternal
}

// ErrorDescription returns a human-readable description of the error, or
// "internal error" if err isn't an application error.
func ErrorDescription(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Description != "" {
		return e.Description
	}
	return "internal error"
}

func IsNotFound(err error) bool {
	return ErrorCode(err) == ErrNotFound
}

// IsUnavailable reports whether err is a transient failure, e.g. a lock
// that could not be taken in time.
func IsUnavailable(err error) bool {
	return ErrorCode(err) == ErrUnavailable
}
