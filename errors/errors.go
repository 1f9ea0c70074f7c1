// Package errors provides error types and handling for S3 transfer operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a transfer operation error with context about the operation
// that failed. It wraps the underlying AWS SDK error (or local I/O error) with
// additional context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "upload", "putObject", "deleteObject")
	Op string

	// Bucket is the S3 bucket name (if applicable)
	Bucket string

	// Key is the S3 object key (if applicable)
	Key string

	// Err is the underlying error from the AWS SDK or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("s3transfer.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("s3transfer.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("s3transfer.%s object %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("s3transfer.%s: %v", e.Op, e.Err)
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

// Sentinel errors for transfer operation failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("s3transfer: invalid input")

	// ErrInvalidBucketName indicates that the bucket name is invalid
	ErrInvalidBucketName = errors.New("s3transfer: invalid bucket name")

	// ErrInvalidObjectKey indicates that the object key is invalid
	ErrInvalidObjectKey = errors.New("s3transfer: invalid object key")

	// ErrInvalidRegion indicates that the configured region name is malformed
	ErrInvalidRegion = errors.New("s3transfer: invalid region")

	// ErrInvalidChunkSize indicates a bad multipart chunk-size configuration,
	// detected before any network activity
	ErrInvalidChunkSize = errors.New("s3transfer: invalid chunk size")

	// ErrSessionCreate indicates a multipart session could not be opened
	ErrSessionCreate = errors.New("s3transfer: multipart session create failed")

	// ErrSourceRead indicates a local I/O failure while producing a part
	ErrSourceRead = errors.New("s3transfer: source read failed")

	// ErrPartUpload indicates the remote rejected or failed a part upload
	ErrPartUpload = errors.New("s3transfer: part upload failed")

	// ErrSessionComplete indicates the remote rejected the finalize call after
	// all parts reportedly succeeded
	ErrSessionComplete = errors.New("s3transfer: multipart session complete failed")
)

// MultipartError is the aggregate error surfaced when a multipart upload
// fails. It preserves the triggering failure and any failures that co-occurred
// on other in-flight parts; the triggering error is the one reachable through
// Unwrap, so errors.Is and errors.As keep working against the sentinels above.
type MultipartError struct {
	// Bucket and Key identify the destination object.
	Bucket string
	Key    string

	// Part is the part number whose failure triggered the abort, or 0 when
	// the failure was not attributable to a single part.
	Part int32

	// Err is the triggering error.
	Err error

	// Related holds failures observed on other parts while draining
	// in-flight work. May be nil.
	Related error
}

// Error implements the error interface.
func (e *MultipartError) Error() string {
	if e.Part > 0 {
		return fmt.Sprintf("s3transfer.multipartUpload %s/%s: part %d: %v", e.Bucket, e.Key, e.Part, e.Err)
	}
	return fmt.Sprintf("s3transfer.multipartUpload %s/%s: %v", e.Bucket, e.Key, e.Err)
}

// Unwrap returns the triggering error.
func (e *MultipartError) Unwrap() error {
	return e.Err
}

// IsInvalidChunkSize checks if an error indicates a bad chunk-size configuration.
func IsInvalidChunkSize(err error) bool {
	return errors.Is(err, ErrInvalidChunkSize)
}

// IsInvalidInput checks if an error indicates invalid input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
