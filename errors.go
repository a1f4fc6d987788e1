package recsort

import (
	"fmt"
)

// KeyError represents an unusable sort key passed to a sorting operation
type KeyError struct {
	// Key is the sort key that was rejected
	Key string
	// Reason explains why the key is unusable
	Reason string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("invalid sort key %q: %s", e.Key, e.Reason)
}

// NewKeyError creates a KeyError
func NewKeyError(key, reason string) error {
	return &KeyError{Key: key, Reason: reason}
}

// TypeMismatchError represents a comparison between two record values whose
// kinds have no defined order, such as a number against a string
type TypeMismatchError struct {
	// Key is the sort key under which the mismatched values were found
	Key string
	// AKind is the kind of the first value
	AKind string
	// BKind is the kind of the second value
	BKind string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("cannot compare %s with %s for key %q", e.AKind, e.BKind, e.Key)
}

// NewTypeMismatchError creates a TypeMismatchError
func NewTypeMismatchError(key, aKind, bKind string) error {
	return &TypeMismatchError{Key: key, AKind: aKind, BKind: bKind}
}

// EncodeError represents an error that occurred while encoding a record for a spill run
type EncodeError struct {
	// Cause is the underlying encoding error
	Cause error
	// Context provides additional information about what was being encoded
	Context string
}

func (e *EncodeError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("record encode error in %s: %v", e.Context, e.Cause)
	}
	return fmt.Sprintf("record encode error: %v", e.Cause)
}

func (e *EncodeError) Unwrap() error {
	return e.Cause
}

// NewEncodeError creates an EncodeError
func NewEncodeError(cause error, context string) error {
	return &EncodeError{Cause: cause, Context: context}
}

// DecodeError represents an error that occurred while decoding a record from a spill run
type DecodeError struct {
	// Cause is the underlying decoding error
	Cause error
	// DataSize is the size of the frame that failed to decode
	DataSize int
	// Context provides additional information about what was being decoded
	Context string
}

func (e *DecodeError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("record decode error in %s (data size: %d bytes): %v", e.Context, e.DataSize, e.Cause)
	}
	return fmt.Sprintf("record decode error (data size: %d bytes): %v", e.DataSize, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// NewDecodeError creates a DecodeError
func NewDecodeError(cause error, dataSize int, context string) error {
	return &DecodeError{Cause: cause, DataSize: dataSize, Context: context}
}

// NewDiskError creates an error wrapping the underlying I/O error
func NewDiskError(err error, operation string) error {
	return fmt.Errorf("disk error during %s: %w", operation, err)
}
