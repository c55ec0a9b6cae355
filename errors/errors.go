package errors

import (
	"errors"
	"fmt"
)

// Common error types for categorization and handling

var (
	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates invalid caller input
	ErrInvalidInput = errors.New("invalid input")

	// ErrDimensionMismatch indicates vectors of different dimensionality were
	// compared; this is a configuration error and must fail fast
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrInvalidPattern indicates a malformed regex rule in the audit table
	ErrInvalidPattern = errors.New("invalid audit pattern")

	// ErrEmbeddingService indicates the embedding service call failed
	ErrEmbeddingService = errors.New("embedding service failed")

	// ErrDatabaseOperation indicates a database operation failed
	ErrDatabaseOperation = errors.New("database operation failed")
)

// WrapError wraps an error with context message and stack
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapErrorf wraps an error with formatted context message
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDimensionMismatch checks if error is a dimension mismatch error
func IsDimensionMismatch(err error) bool {
	return errors.Is(err, ErrDimensionMismatch)
}

// IsEmbeddingService checks if error is an embedding service error
func IsEmbeddingService(err error) bool {
	return errors.Is(err, ErrEmbeddingService)
}
