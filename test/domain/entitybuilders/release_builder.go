//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"fmt"
	"time"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// ReleaseBuilder helps create test releases with a fluent interface.
type ReleaseBuilder struct {
	*testkit.BaseBuilder
	tagName     string
	draft       bool
	prerelease  bool
	publishedAt time.Time
	assets      []entities.ReleaseAsset
}

// NewReleaseBuilder creates a new release builder with sensible defaults.
func NewReleaseBuilder() *ReleaseBuilder {
	return &ReleaseBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		tagName:     "v1.0.0",
		publishedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

// WithTag sets the release tag.
func (b *ReleaseBuilder) WithTag(tag string) *ReleaseBuilder {
	b.tagName = tag
	return b
}

// AsDraft marks the release as a draft.
func (b *ReleaseBuilder) AsDraft() *ReleaseBuilder {
	b.draft = true
	return b
}

// AsPrerelease marks the release as a prerelease.
func (b *ReleaseBuilder) AsPrerelease() *ReleaseBuilder {
	b.prerelease = true
	return b
}

// WithPublishedAt sets the publication time.
func (b *ReleaseBuilder) WithPublishedAt(at time.Time) *ReleaseBuilder {
	b.publishedAt = at
	return b
}

// WithAsset attaches an asset downloadable from a URL derived from its name.
func (b *ReleaseBuilder) WithAsset(name string) *ReleaseBuilder {
	b.assets = append(b.assets, entities.ReleaseAsset{
		Name:        name,
		DownloadURL: fmt.Sprintf("https://github.com/acme/pkg/releases/download/%s/%s", b.tagName, name),
	})
	return b
}

// Build creates the release (satisfies testkit.Builder interface).
func (b *ReleaseBuilder) Build() interface{} {
	return b.BuildRelease()
}

// BuildRelease creates the release with a concrete return type.
func (b *ReleaseBuilder) BuildRelease() entities.Release {
	assets := make([]entities.ReleaseAsset, len(b.assets))
	copy(assets, b.assets)
	return entities.Release{
		TagName:     b.tagName,
		Name:        b.tagName,
		Draft:       b.draft,
		Prerelease:  b.prerelease,
		PublishedAt: b.publishedAt,
		Assets:      assets,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ReleaseBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.tagName = "v1.0.0"
	b.draft = false
	b.prerelease = false
	b.publishedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b.assets = nil
	return b
}

// Clone creates a deep copy of the ReleaseBuilder.
func (b *ReleaseBuilder) Clone() testkit.Builder {
	assets := make([]entities.ReleaseAsset, len(b.assets))
	copy(assets, b.assets)
	return &ReleaseBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		tagName:     b.tagName,
		draft:       b.draft,
		prerelease:  b.prerelease,
		publishedAt: b.publishedAt,
		assets:      assets,
	}
}
