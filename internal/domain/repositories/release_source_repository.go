package repositories

import (
	"context"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
)

// ReleaseSourceRepository reads published releases from the hosting REST API.
// Implementations own their rate-limit bookkeeping; one instance is built
// per run and dropped at exit.
type ReleaseSourceRepository interface {
	// ListReleases returns every release of repoID ("owner/repo"). A
	// repository without releases yields an empty slice and no error.
	ListReleases(ctx context.Context, repoID string) ([]entities.Release, error)

	// LatestRelease returns the latest published release, or nil when there is none.
	LatestRelease(ctx context.Context, repoID string) (*entities.Release, error)

	// SearchRepositories returns repositories matching the search query,
	// most recently updated first.
	SearchRepositories(ctx context.Context, query string) ([]entities.SearchResult, error)
}

// ReleaseSourceFactory builds a ReleaseSourceRepository for an optional token.
type ReleaseSourceFactory func(token string) ReleaseSourceRepository
