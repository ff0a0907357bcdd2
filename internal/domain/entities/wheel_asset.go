package entities

import (
	"strings"
	"time"
)

// WheelAsset is a wheel collected for a package index page. It is derived
// entirely from remote release data and re-fetched on every build.
type WheelAsset struct {
	Filename       string
	URL            string
	Size           int64
	UploadTime     string
	Version        string
	ReleaseDate    time.Time
	MetadataSHA256 string
}

// HasMetadata reports whether PEP 658 sidecar metadata was found for the wheel.
func (w WheelAsset) HasMetadata() bool { return w.MetadataSHA256 != "" }

// RequiresPython3 reports whether the filename advertises a py3 tag.
func (w WheelAsset) RequiresPython3() bool { return strings.Contains(w.Filename, "py3") }

// AssetProbe is the result of a metadata-only request for an asset.
type AssetProbe struct {
	Size         int64
	LastModified string
}
