// Package persistence defines the repository contract for durable
// workflow document storage, with file, Redis and PostgreSQL
// implementations in subpackages. The editor's in-memory state never
// waits on any of them; saving happens against a snapshot.
package persistence

import (
	"context"

	"github.com/nodeloom/nodeloom/pkg/models"
)

// Repository stores workflow documents.
type Repository interface {
	// Save writes the document, overwriting any previous version.
	Save(ctx context.Context, doc *models.WorkflowDocument) error

	// GetByID returns the document, or nil without error when absent.
	GetByID(ctx context.Context, id string) (*models.WorkflowDocument, error)

	// List returns all stored documents.
	List(ctx context.Context) ([]*models.WorkflowDocument, error)

	// Delete removes the document; deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error

	// HealthCheck verifies the backing store is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases underlying resources.
	Close(ctx context.Context) error
}
