package entities

import (
	"strings"

	"golang.org/x/mod/semver"
)

const versionPrefix = "v"

// VersionTag is a release tag such as "v1.2.3" or "v1.2.3-rc1".
type VersionTag string

// Version returns the tag without its leading "v". Tags that do not start
// with "v" are returned with their first character removed, matching how
// the release has always derived the package version from the tag.
func (t VersionTag) Version() string {
	s := string(t)
	if s == "" {
		return ""
	}
	return s[1:]
}

// IsConventional reports whether the tag follows the v<major>.<minor>.<patch> prefix convention.
func (t VersionTag) IsConventional() bool {
	return strings.HasPrefix(string(t), versionPrefix)
}

// IsValidSemver reports whether the tag parses as a semantic version once
// the leading "v" and any "-suffix" are stripped.
func (t VersionTag) IsValidSemver() bool {
	_, ok := ParseReleaseVersion(string(t))
	return ok
}

func (t VersionTag) String() string { return string(t) }

// ParseReleaseVersion strips the leading "v" and any "-suffix" from a tag
// name and validates the remainder as a semantic version. It returns the
// bare version (e.g. "1.1.0") and whether it was valid.
func ParseReleaseVersion(tagName string) (string, bool) {
	bare := strings.TrimPrefix(tagName, versionPrefix)
	bare, _, _ = strings.Cut(bare, "-")
	if bare == "" {
		return "", false
	}
	if !semver.IsValid(versionPrefix + bare) {
		return "", false
	}
	return bare, true
}

// CompareVersions compares two bare versions returned by ParseReleaseVersion.
func CompareVersions(a, b string) int {
	return semver.Compare(versionPrefix+a, versionPrefix+b)
}
