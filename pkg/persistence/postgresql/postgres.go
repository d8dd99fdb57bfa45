// Package postgresql implements document persistence on PostgreSQL.
// The export form is stored as JSONB so documents remain queryable
// from SQL.
package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // postgres driver

	"github.com/nodeloom/nodeloom/pkg/document"
	"github.com/nodeloom/nodeloom/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS workflow_documents (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	body       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Repository stores documents in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// NewRepository connects and runs the schema migration.
func NewRepository(ctx context.Context, databaseURL string) (*Repository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Save upserts the document body.
func (r *Repository) Save(ctx context.Context, doc *models.WorkflowDocument) error {
	body, err := document.Export(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize document %s: %w", doc.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO workflow_documents (id, name, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
		doc.ID, doc.Name, body, doc.Metadata.CreatedAt, doc.Metadata.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store document %s: %w", doc.ID, err)
	}

	return nil
}

// GetByID loads a document, returning nil without error when absent.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.WorkflowDocument, error) {
	var body []byte

	err := r.db.QueryRowContext(ctx,
		`SELECT body FROM workflow_documents WHERE id = $1`, id,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil //nolint:nilnil // absent is not an error at this layer
		}

		return nil, fmt.Errorf("failed to read document %s: %w", id, err)
	}

	doc, err := document.Import(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored document %s: %w", id, err)
	}

	return doc, nil
}

// List loads every stored document, newest first.
func (r *Repository) List(ctx context.Context) ([]*models.WorkflowDocument, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT body FROM workflow_documents ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.WorkflowDocument

	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}

		doc, err := document.Import(body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored document: %w", err)
		}

		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return docs, nil
}

// Delete removes the document row; a missing row is not an error.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM workflow_documents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}

	return nil
}

// HealthCheck pings the database.
func (r *Repository) HealthCheck(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database unavailable: %w", err)
	}

	return nil
}

// Close closes the connection pool.
func (r *Repository) Close(_ context.Context) error {
	return r.db.Close()
}
