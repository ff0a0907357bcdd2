package entities

import (
	"sort"
	"strings"
	"time"
)

const wheelSuffix = ".whl"

// Release is a published release of a repository, as returned by the REST API.
type Release struct {
	TagName     string
	Name        string
	Draft       bool
	Prerelease  bool
	PublishedAt time.Time
	Assets      []ReleaseAsset
}

// ReleaseAsset is one downloadable file attached to a release.
type ReleaseAsset struct {
	Name        string
	DownloadURL string
	Size        int
}

// IsWheel reports whether the asset is a wheel.
func (a ReleaseAsset) IsWheel() bool { return strings.HasSuffix(a.Name, wheelSuffix) }

// HasWheelAssets reports whether any asset of the release is a wheel.
func (r Release) HasWheelAssets() bool {
	for _, asset := range r.Assets {
		if asset.IsWheel() {
			return true
		}
	}
	return false
}

// VersionedRelease pairs a release with its parsed bare version.
type VersionedRelease struct {
	Version string
	Release Release
}

// StableReleases drops drafts, prereleases and releases whose tag does not
// parse as a version, and sorts the rest newest first.
func StableReleases(releases []Release) []VersionedRelease {
	valid := make([]VersionedRelease, 0, len(releases))
	for _, release := range releases {
		if release.Draft || release.Prerelease {
			continue
		}
		version, ok := ParseReleaseVersion(release.TagName)
		if !ok {
			continue
		}
		valid = append(valid, VersionedRelease{Version: version, Release: release})
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return CompareVersions(valid[i].Version, valid[j].Version) > 0
	})
	return valid
}

// SearchResult is one repository returned by a repository search.
type SearchResult struct {
	Name     string
	FullName string
	Private  bool
}
