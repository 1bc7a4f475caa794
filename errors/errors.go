// Package errors provides error types and handling for bucketsync operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a sync operation error with context about what failed.
// It wraps the underlying AWS SDK or filesystem error for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "upload", "list", "delete")
	Op string

	// Bucket is the bucket name (if applicable)
	Bucket string

	// Key is the remote object key (if applicable)
	Key string

	// Err is the underlying error from the AWS SDK or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("bucketsync.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("bucketsync.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("bucketsync.%s object %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("bucketsync.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewObjectError creates a new Error with bucket and key context.
func NewObjectError(op, bucket, key string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Key:    key,
		Err:    err,
	}
}

// Sentinel errors for common sync operation failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("bucketsync: invalid input")

	// ErrMissingBucket indicates that no bucket was configured
	ErrMissingBucket = errors.New("bucketsync: bucket is required")

	// ErrInvalidCredentials indicates that the credentials are incomplete
	ErrInvalidCredentials = errors.New("bucketsync: invalid credentials")

	// ErrLocalFile indicates that a local source file could not be read
	ErrLocalFile = errors.New("bucketsync: local file unreadable")
)

// IsInvalidInput checks if an error indicates invalid input.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
