//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
	"github.com/rios0rios0/fleetrelease/internal/domain/repositories"
)

// StubAssetProberRepository implements repositories.AssetProberRepository
// with probes and digests keyed by asset URL.
type StubAssetProberRepository struct {
	Probes    map[string]entities.AssetProbe
	ProbeErrs map[string]error
	Digests   map[string]string

	// spy: URLs probed
	ProbedURLs []string
}

var _ repositories.AssetProberRepository = (*StubAssetProberRepository)(nil)

func (p *StubAssetProberRepository) Probe(_ context.Context, url string) (entities.AssetProbe, error) {
	p.ProbedURLs = append(p.ProbedURLs, url)
	if err := p.ProbeErrs[url]; err != nil {
		return entities.AssetProbe{}, err
	}
	return p.Probes[url], nil
}

func (p *StubAssetProberRepository) MetadataDigest(_ context.Context, url string) string {
	return p.Digests[url]
}

// Factory returns an AssetProberFactory that hands out this stub.
func (p *StubAssetProberRepository) Factory() repositories.AssetProberFactory {
	return func(string) repositories.AssetProberRepository { return p }
}
