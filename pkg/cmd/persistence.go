package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nodeloom/nodeloom/pkg/persistence"
	"github.com/nodeloom/nodeloom/pkg/persistence/file"
	"github.com/nodeloom/nodeloom/pkg/persistence/postgresql"
	"github.com/nodeloom/nodeloom/pkg/persistence/redis"
)

// NewRepository picks a document repository from the storage URL scheme.
// Anything without a recognized scheme is treated as a filesystem path.
func NewRepository(ctx context.Context, logger *slog.Logger, storageURL string) persistence.Repository {
	switch parseRepositoryProvider(storageURL) {
	case "postgresql":
		repo, err := postgresql.NewRepository(ctx, storageURL)
		if err != nil {
			panic(err)
		}

		logger.InfoContext(ctx, "Using PostgreSQL document repository")

		return repo
	case "redis":
		repo, err := redis.NewRepository(storageURL)
		if err != nil {
			panic(err)
		}

		logger.InfoContext(ctx, "Using Redis document repository")

		return repo
	default:
		logger.InfoContext(ctx, "Using file document repository", "root", storageURL)

		return file.NewRepository(storageURL)
	}
}

func parseRepositoryProvider(storageURL string) string {
	scheme, _, found := strings.Cut(storageURL, "://")
	if !found {
		return "file"
	}

	switch scheme {
	case "postgres", "postgresql":
		return "postgresql"
	case "redis", "rediss":
		return "redis"
	default:
		return "file"
	}
}
