package persistence

import "errors"

var (
	// ErrDocumentNotFound is returned by callers that require a document
	// to exist.
	ErrDocumentNotFound = errors.New("workflow document not found")
)

// IsDocumentNotFound reports whether err indicates a missing document.
func IsDocumentNotFound(err error) bool {
	return errors.Is(err, ErrDocumentNotFound)
}
