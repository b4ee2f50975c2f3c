package core

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	// ErrValidation represents a malformed request specification
	ErrValidation = errors.New("validation error")

	// ErrTimeout represents a request that exceeded its deadline
	ErrTimeout = errors.New("request timed out")

	// ErrNetwork represents a connection-level failure
	ErrNetwork = errors.New("network error")

	// ErrStorage represents a failure persisting a blob
	ErrStorage = errors.New("storage error")
)

// ValidationError reports an invalid field of a request specification.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// TimeoutError carries the timeout that was configured for the request.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("Request timed out after %s seconds", FormatSeconds(e.Timeout))
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// Seconds reports the configured timeout in seconds, e.g. 0.05 for 50ms.
func (e *TimeoutError) Seconds() float64 {
	return e.Timeout.Seconds()
}

// NetworkError represents a transport failure during Op.
type NetworkError struct {
	Op    string
	Cause error
}

func (e *NetworkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Cause)
	}
	return e.Op
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// StorageError represents a blob store failure at Path.
type StorageError struct {
	Op    string
	Path  string
	Cause error
}

func (e *StorageError) Error() string {
	msg := "failed to " + e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(timeout time.Duration) error {
	return &TimeoutError{Timeout: timeout}
}

// NewNetworkError creates a new network error
func NewNetworkError(op string, cause error) error {
	return &NetworkError{Op: op, Cause: cause}
}

// NewStorageError creates a new storage error
func NewStorageError(op, path string, cause error) error {
	return &StorageError{Op: op, Path: path, Cause: cause}
}

// FormatSeconds renders d in seconds with the shortest exact decimal form.
func FormatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
