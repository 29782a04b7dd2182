// Package errors provides coded errors for the stipple packages.
//
// Every failure that a caller may want to branch on carries a [Code]. The
// code travels with the error through fmt.Errorf("%w") wrapping, so the CLI
// can pick an exit status without parsing messages.
//
// # Error Codes
//
// Codes follow a naming convention:
//   - INVALID_*: rejected before any work starts (flags, config, files)
//   - *_NOT_FOUND: a named resource is missing
//   - *_FAILED: a collaborator failed while a run was in progress
//   - RUN_STOPPED: the run is no longer stepping
//
// Degenerate geometry (a point without a Voronoi cell, a cell without
// weight) is never reported through this package: the relaxation engine
// recovers from it locally.
//
// # Usage
//
//	if err := errors.ValidatePositive("count", n); err != nil {
//	    return err
//	}
//	err := errors.Wrap(errors.ErrCodePartition, cause, "step %d", step)
//	if errors.Is(err, errors.ErrCodePartition) {
//	    // keep the last good points
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeDecode    Code = "DECODE_FAILED"
	ErrCodePartition Code = "PARTITION_FAILED"
	ErrCodeRender    Code = "RENDER_FAILED"

	ErrCodeStopped Code = "RUN_STOPPED"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Invalid reports whether the code marks input rejected up front.
func (c Code) Invalid() bool {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeInvalidFormat, ErrCodeInvalidPath:
		return true
	}
	return false
}

// Error is a coded error with an optional cause.
// The code is not part of the message; use [GetCode] or [Is].
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error that keeps cause in its chain.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any *Error in err's chain carries code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the outermost code in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsInvalid reports whether err was caused by rejected input anywhere in
// its chain.
func IsInvalid(err error) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code.Invalid() {
			return true
		}
		err = e.Cause
	}
	return false
}
