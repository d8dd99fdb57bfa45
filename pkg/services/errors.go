// Package services coordinates the graph store, history, validation,
// event bus and persistence behind the operations the UI and API call.
package services

import (
	"errors"
	"fmt"

	"github.com/nodeloom/nodeloom/pkg/persistence"
)

var (
	// ErrDocumentNotFound is returned when a requested document does not
	// exist in the repository.
	ErrDocumentNotFound = persistence.ErrDocumentNotFound

	// ErrNoRepository is returned when a save or load is requested on an
	// editor constructed without a repository.
	ErrNoRepository = errors.New("no document repository configured")

	// ErrDocumentNameRequired rejects documents with an empty name.
	ErrDocumentNameRequired = errors.New("document name is required")

	// ErrNilDocument rejects nil document arguments.
	ErrNilDocument = errors.New("document cannot be nil")

	// ErrInvalidDocument is returned when a document fails structural
	// validation on its way into the repository.
	ErrInvalidDocument = errors.New("document failed validation")
)

// ServiceError wraps service-level errors with operation context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewValidationError creates a validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsValidationError reports whether the error should map to a client
// error rather than a server fault.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrDocumentNameRequired) ||
		errors.Is(err, ErrNilDocument) ||
		errors.Is(err, ErrInvalidDocument)
}

// IsNotFound reports whether the error indicates a missing document.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDocumentNotFound)
}
