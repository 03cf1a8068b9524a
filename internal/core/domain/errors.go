package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoContent indicates a document produced nothing to index.
	ErrNoContent = errors.New("no indexable content")

	// ErrUnsupportedType indicates an unknown normaliser or provider type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured or unreachable.
	// Chat answers are disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service failed or is not configured.
	// Indexing and search both abort when it is returned.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// Index Errors.

	// ErrShapeMismatch indicates a vector whose dimension differs from the index.
	ErrShapeMismatch = errors.New("vector shape mismatch")

	// ErrSlotOutOfRange indicates a slot lookup outside the stored range.
	ErrSlotOutOfRange = errors.New("slot out of range")

	// ErrIndexCorrupted indicates the vector index and metadata store diverged.
	ErrIndexCorrupted = errors.New("index corrupted")

	// ErrIndexClosed indicates an operation on an index that is not open.
	ErrIndexClosed = errors.New("index closed")

	// ErrStorage indicates a persistence failure.
	ErrStorage = errors.New("storage failure")
)

// ShapeMismatchError reports a vector of the wrong dimension.
type ShapeMismatchError struct {
	Expected int
	Got      int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("vector shape mismatch: expected dimension %d, got %d", e.Expected, e.Got)
}

// Is matches ErrShapeMismatch.
func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}

// SlotOutOfRangeError reports a slot outside [0, Len).
type SlotOutOfRangeError struct {
	Slot int
	Len  int
}

func (e *SlotOutOfRangeError) Error() string {
	return fmt.Sprintf("slot %d out of range [0, %d)", e.Slot, e.Len)
}

// Is matches ErrSlotOutOfRange.
func (e *SlotOutOfRangeError) Is(target error) bool {
	return target == ErrSlotOutOfRange
}

// IndexCorruptionError reports a vector count that no longer matches the record count.
type IndexCorruptionError struct {
	Vectors int
	Records int
}

func (e *IndexCorruptionError) Error() string {
	return fmt.Sprintf("index corrupted: %d vectors but %d metadata records", e.Vectors, e.Records)
}

// Is matches ErrIndexCorrupted.
func (e *IndexCorruptionError) Is(target error) bool {
	return target == ErrIndexCorrupted
}

// StorageError wraps a failure to persist or load the index.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

// Is matches ErrStorage.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
