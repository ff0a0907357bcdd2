//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
)

func TestStableReleases(t *testing.T) {
	t.Parallel()

	t.Run("should drop drafts, prereleases and unparsable tags and sort newest first", func(t *testing.T) {
		t.Parallel()

		// given
		releases := []entities.Release{
			{TagName: "v0.9.0"},
			{TagName: "v1.10.0"},
			{TagName: "v1.2.0-rc1"},
			{TagName: "v2.0.0", Draft: true},
			{TagName: "v3.0.0", Prerelease: true},
			{TagName: "nightly"},
			{TagName: "vv5.0.0"},
			{TagName: "v1.9.1"},
		}

		// when
		stable := entities.StableReleases(releases)

		// then
		versions := make([]string, 0, len(stable))
		for _, release := range stable {
			versions = append(versions, release.Version)
		}
		assert.Equal(t, []string{"1.10.0", "1.9.1", "1.2.0", "0.9.0"}, versions)
	})
}

func TestVersionTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		tag          entities.VersionTag
		version      string
		conventional bool
		valid        bool
	}{
		{name: "should accept a conventional tag", tag: "v1.2.3", version: "1.2.3", conventional: true, valid: true},
		{name: "should strip a prerelease suffix when validating", tag: "v1.2.3-rc1", version: "1.2.3-rc1", conventional: true, valid: true},
		{name: "should flag a tag without the v prefix", tag: "1.2.3", version: ".2.3", conventional: false, valid: true},
		{name: "should flag a malformed version", tag: "v1.x", version: "1.x", conventional: true, valid: false},
		{name: "should strip only one leading v", tag: "vv1.0.0", version: "v1.0.0", conventional: true, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// then
			assert.Equal(t, tt.version, tt.tag.Version())
			assert.Equal(t, tt.conventional, tt.tag.IsConventional())
			assert.Equal(t, tt.valid, tt.tag.IsValidSemver())
		})
	}
}

func TestRelease_HasWheelAssets(t *testing.T) {
	t.Parallel()

	t.Run("should detect wheels among the assets", func(t *testing.T) {
		t.Parallel()

		// given
		release := entities.Release{Assets: []entities.ReleaseAsset{{Name: "pkg.tar.gz"}, {Name: "pkg-1.0-py3-none-any.whl"}}}

		// then
		assert.True(t, release.HasWheelAssets())
		assert.False(t, entities.Release{Assets: []entities.ReleaseAsset{{Name: "pkg.tar.gz"}}}.HasWheelAssets())
	})
}
