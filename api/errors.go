// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-mo.

package api

import (
	"errors"
	"fmt"
)

// Common errors used across the library.
var (
	// ErrUseAfterFree reports a ref, unref or registration on an object whose
	// refcount already reached zero. It is raised by panic, never returned.
	ErrUseAfterFree = errors.New("mini-object used after free")

	// ErrCopyUnsupported is returned when an independent copy is required of a
	// class that declares no copy function.
	ErrCopyUnsupported = errors.New("copy not supported")

	// ErrNotWritable is returned by payload setters called without sole
	// ownership.
	ErrNotWritable = errors.New("object is not writable")

	ErrPoolClosed      = errors.New("pool is closed")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("resource not found")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeUseAfterFree
	ErrCodeCopyUnsupported
	ErrCodeNotWritable
	ErrCodePoolClosed
	ErrCodeNotFound
	ErrCodeInternal
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeInvalidArgument:
		return "invalid-argument"
	case ErrCodeUseAfterFree:
		return "use-after-free"
	case ErrCodeCopyUnsupported:
		return "copy-unsupported"
	case ErrCodeNotWritable:
		return "not-writable"
	case ErrCodePoolClosed:
		return "pool-closed"
	case ErrCodeNotFound:
		return "not-found"
	default:
		return "internal"
	}
}

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Unwrap exposes the sentinel the error was built from.
func (e *Error) Unwrap() error { return e.cause }

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// Wrap builds a structured error around a sentinel so that errors.Is keeps
// matching it.
func Wrap(code ErrorCode, cause error) *Error {
	e := NewError(code, cause.Error())
	e.cause = cause
	return e
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
