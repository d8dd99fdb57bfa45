// Package file implements document persistence as one JSON file per
// document under a root directory, using the canonical export format
// so stored files are directly diffable.
package file

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/nodeloom/nodeloom/pkg/document"
	"github.com/nodeloom/nodeloom/pkg/models"
)

const documentsDir = "documents"

// Repository stores documents on the local filesystem.
type Repository struct {
	root string
}

// NewRepository creates a repository rooted at the given directory.
func NewRepository(root string) *Repository {
	return &Repository{root: root}
}

// Save writes the document's export form to <root>/documents/<id>.json.
func (r *Repository) Save(_ context.Context, doc *models.WorkflowDocument) error {
	dir := path.Join(r.root, documentsDir)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create documents directory: %w", err)
	}

	data, err := document.Export(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize document %s: %w", doc.ID, err)
	}

	return os.WriteFile(path.Join(dir, doc.ID+".json"), data, 0600)
}

// GetByID loads a document, returning nil without error when absent.
func (r *Repository) GetByID(_ context.Context, id string) (*models.WorkflowDocument, error) {
	filePath := filepath.Clean(path.Join(r.root, documentsDir, id+".json"))

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil //nolint:nilnil // absent is not an error at this layer
		}

		return nil, fmt.Errorf("failed to read document %s: %w", id, err)
	}

	doc, err := document.Import(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored document %s: %w", id, err)
	}

	return doc, nil
}

// List loads every stored document.
func (r *Repository) List(ctx context.Context) ([]*models.WorkflowDocument, error) {
	root := os.DirFS(path.Join(r.root, documentsDir))

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list document files: %w", err)
	}

	docs := make([]*models.WorkflowDocument, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		id := file[:len(file)-len(".json")]

		doc, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load document %s: %w", id, err)
		}

		if doc != nil {
			docs = append(docs, doc)
		}
	}

	return docs, nil
}

// Delete removes the document file; a missing file is not an error.
func (r *Repository) Delete(_ context.Context, id string) error {
	err := os.Remove(path.Join(r.root, documentsDir, id+".json"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}

	return nil
}

// HealthCheck verifies the root directory is usable.
func (r *Repository) HealthCheck(_ context.Context) error {
	if err := os.MkdirAll(path.Join(r.root, documentsDir), 0750); err != nil {
		return fmt.Errorf("document storage unavailable: %w", err)
	}

	return nil
}

// Close is a no-op for file storage.
func (r *Repository) Close(_ context.Context) error {
	return nil
}
