package repositories

import (
	"context"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
)

// AssetProberRepository inspects downloadable release assets without
// downloading them.
type AssetProberRepository interface {
	// Probe issues a metadata-only request for the asset.
	Probe(ctx context.Context, url string) (entities.AssetProbe, error)

	// MetadataDigest returns the sha256 hex digest of the PEP 658 sidecar
	// metadata published at <url>.metadata, or "" when there is none.
	MetadataDigest(ctx context.Context, url string) string
}

// AssetProberFactory builds an AssetProberRepository for an optional token.
type AssetProberFactory func(token string) AssetProberRepository
