//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
	"github.com/rios0rios0/fleetrelease/internal/domain/repositories"
)

// StubReleaseSourceRepository implements repositories.ReleaseSourceRepository
// with releases keyed by repo id.
type StubReleaseSourceRepository struct {
	Releases  map[string][]entities.Release
	ListErrs  map[string]error
	Latest    map[string]*entities.Release
	LatestErr map[string]error

	SearchResults []entities.SearchResult
	SearchErr     error

	// spy: calls received
	Token       string
	ListCalls   []string
	LatestCalls []string
	SearchCalls []string
}

var _ repositories.ReleaseSourceRepository = (*StubReleaseSourceRepository)(nil)

func (s *StubReleaseSourceRepository) ListReleases(_ context.Context, repoID string) ([]entities.Release, error) {
	s.ListCalls = append(s.ListCalls, repoID)
	if err := s.ListErrs[repoID]; err != nil {
		return nil, err
	}
	releases := s.Releases[repoID]
	if releases == nil {
		return []entities.Release{}, nil
	}
	return releases, nil
}

func (s *StubReleaseSourceRepository) LatestRelease(_ context.Context, repoID string) (*entities.Release, error) {
	s.LatestCalls = append(s.LatestCalls, repoID)
	if err := s.LatestErr[repoID]; err != nil {
		return nil, err
	}
	return s.Latest[repoID], nil
}

func (s *StubReleaseSourceRepository) SearchRepositories(
	_ context.Context,
	query string,
) ([]entities.SearchResult, error) {
	s.SearchCalls = append(s.SearchCalls, query)
	return s.SearchResults, s.SearchErr
}

// Factory returns a ReleaseSourceFactory that records the token and hands out this stub.
func (s *StubReleaseSourceRepository) Factory() repositories.ReleaseSourceFactory {
	return func(token string) repositories.ReleaseSourceRepository {
		s.Token = token
		return s
	}
}
