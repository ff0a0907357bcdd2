package entities

import "sort"

// PackageEntry is one package served by the index.
type PackageEntry struct {
	Name        string
	RepoID      string
	WheelFilter string
	WheelCount  int
}

// PackageEntries derives the index packages from the registry, keyed by the
// repository name part of repo_id. Entries without a repo_id are skipped;
// later duplicates of a name are ignored so names stay unique.
func PackageEntries(registry *Registry) []PackageEntry {
	seen := make(map[string]bool)
	entries := make([]PackageEntry, 0, len(registry.Packages))
	for _, pkg := range registry.Packages {
		remote, err := ParseRepoID(pkg.RepoID)
		if err != nil || seen[remote.Name] {
			continue
		}
		seen[remote.Name] = true
		entries = append(entries, PackageEntry{
			Name:        remote.Name,
			RepoID:      remote.ID,
			WheelFilter: pkg.WheelFilter,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}
