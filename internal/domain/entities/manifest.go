package entities

// PackagesManifest is packages.json: the per-package wheel counts published
// next to the index and read back by incremental index builds.
type PackagesManifest struct {
	Packages  []ManifestPackage `json:"packages"`
	Count     int               `json:"count"`
	Generated string            `json:"generated"`
}

// ManifestPackage is one entry of packages.json.
type ManifestPackage struct {
	Name        string `json:"name"`
	URL         string `json:"url,omitempty"`
	WheelCount  int    `json:"wheel_count"`
	LastUpdated string `json:"last_updated,omitempty"`
}

// Counts returns the wheel count per package name.
func (m *PackagesManifest) Counts() map[string]int {
	counts := make(map[string]int, len(m.Packages))
	for _, pkg := range m.Packages {
		counts[pkg.Name] = pkg.WheelCount
	}
	return counts
}

// RegistryInfo is registry.json: static facts about the published registry.
type RegistryInfo struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	Version           string `json:"version"`
	APIVersion        string `json:"api_version"`
	RepositoryVersion string `json:"repository_version"`
	LastUpdated       string `json:"last_updated"`
	IndexURL          string `json:"index_url"`
	PackagesURL       string `json:"packages_url"`
	Source            string `json:"source"`
	Maintainer        string `json:"maintainer"`
	License           string `json:"license"`
}
