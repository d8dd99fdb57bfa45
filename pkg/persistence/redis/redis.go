// Package redis implements document persistence on Redis. Documents
// are stored in their export form under one key each, with a set index
// for listing.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/nodeloom/nodeloom/pkg/document"
	"github.com/nodeloom/nodeloom/pkg/models"
)

const (
	keyPrefix = "nodeloom:documents:"
	indexKey  = "nodeloom:documents"
)

// Repository stores documents in Redis.
type Repository struct {
	client *redis.Client
}

// NewRepository connects to Redis using a redis:// URL.
func NewRepository(url string) (*Repository, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	return &Repository{client: redis.NewClient(opts)}, nil
}

// Save writes the document and registers it in the index atomically.
func (r *Repository) Save(ctx context.Context, doc *models.WorkflowDocument) error {
	data, err := document.Export(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize document %s: %w", doc.ID, err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, keyPrefix+doc.ID, data, 0)
	pipe.SAdd(ctx, indexKey, doc.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store document %s: %w", doc.ID, err)
	}

	return nil
}

// GetByID loads a document, returning nil without error when absent.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.WorkflowDocument, error) {
	data, err := r.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
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

// List loads every indexed document.
func (r *Repository) List(ctx context.Context) ([]*models.WorkflowDocument, error) {
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	docs := make([]*models.WorkflowDocument, 0, len(ids))

	for _, id := range ids {
		doc, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if doc != nil {
			docs = append(docs, doc)
		}
	}

	return docs, nil
}

// Delete removes the document and its index entry.
func (r *Repository) Delete(ctx context.Context, id string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, keyPrefix+id)
	pipe.SRem(ctx, indexKey, id)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}

	return nil
}

// HealthCheck pings the server.
func (r *Repository) HealthCheck(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis unavailable: %w", err)
	}

	return nil
}

// Close closes the client connection.
func (r *Repository) Close(_ context.Context) error {
	return r.client.Close()
}
