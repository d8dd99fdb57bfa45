package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/nodeloom/nodeloom/pkg/models"
	"github.com/nodeloom/nodeloom/pkg/persistence"
)

// Documents handles repository-backed document management for the API
// surface.
type Documents struct {
	repo     persistence.Repository
	validate *validator.Validate
}

// NewDocuments creates a document service.
func NewDocuments(repo persistence.Repository) *Documents {
	return &Documents{
		repo:     repo,
		validate: validator.New(),
	}
}

// HealthCheck checks the repository.
func (d *Documents) HealthCheck(ctx context.Context) (string, bool) {
	if d.repo == nil {
		return "Document repository not initialized", false
	}

	if err := d.repo.HealthCheck(ctx); err != nil {
		return "Document repository is unhealthy: " + err.Error(), false
	}

	return "Document repository is healthy", true
}

// List returns all stored documents.
func (d *Documents) List(ctx context.Context) ([]*models.WorkflowDocument, error) {
	docs, err := d.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return docs, nil
}

// FetchByID returns a document or ErrDocumentNotFound.
func (d *Documents) FetchByID(ctx context.Context, id string) (*models.WorkflowDocument, error) {
	doc, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if doc == nil {
		return nil, ErrDocumentNotFound
	}

	return doc, nil
}

// Create stores a new document, assigning id and timestamps.
func (d *Documents) Create(ctx context.Context, doc *models.WorkflowDocument) (*models.WorkflowDocument, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	if doc.Name == "" {
		return nil, ErrDocumentNameRequired
	}

	now := time.Now().UTC()
	doc.ID = uuid.New().String()
	doc.Metadata.CreatedAt = now
	doc.Metadata.UpdatedAt = now

	if doc.Version == "" {
		doc.Version = "1.0.0"
	}

	if doc.Nodes == nil {
		doc.Nodes = []*models.Node{}
	}

	if doc.Edges == nil {
		doc.Edges = []*models.Edge{}
	}

	if err := d.validate.Struct(doc); err != nil {
		return nil, NewValidationError("Create", "INVALID_DOCUMENT", err.Error(), ErrInvalidDocument)
	}

	if err := d.repo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	return doc, nil
}

// Update replaces an existing document's content, preserving identity
// and creation time.
func (d *Documents) Update(ctx context.Context, id string, doc *models.WorkflowDocument) (*models.WorkflowDocument, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	existing, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return nil, ErrDocumentNotFound
	}

	doc.ID = id
	doc.Metadata.CreatedAt = existing.Metadata.CreatedAt
	doc.Metadata.UpdatedAt = time.Now().UTC()

	if err := d.repo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}

	return doc, nil
}

// Import stores a parsed document as-is, preserving its ids. Missing
// timestamps are filled in.
func (d *Documents) Import(ctx context.Context, doc *models.WorkflowDocument) (*models.WorkflowDocument, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	if doc.Name == "" {
		return nil, ErrDocumentNameRequired
	}

	now := time.Now().UTC()
	if doc.Metadata.CreatedAt.IsZero() {
		doc.Metadata.CreatedAt = now
	}

	doc.Metadata.UpdatedAt = now

	if err := d.repo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to import document: %w", err)
	}

	return doc, nil
}

// Delete removes a document by id.
func (d *Documents) Delete(ctx context.Context, id string) error {
	existing, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if existing == nil {
		return ErrDocumentNotFound
	}

	if err := d.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	return nil
}
