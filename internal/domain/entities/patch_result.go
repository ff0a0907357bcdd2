package entities

// PatchResult is the outcome of applying one version patch to one file. It
// only decides whether the file is staged for the release commit.
type PatchResult struct {
	Path        string
	Changed     bool
	Description string
}

// PatchResults is the set of patch outcomes for one repository.
type PatchResults []PatchResult

// AnyChanged reports whether at least one patch modified its file.
func (r PatchResults) AnyChanged() bool {
	for _, result := range r {
		if result.Changed {
			return true
		}
	}
	return false
}

// ChangedPaths returns the distinct paths that were modified, in order.
func (r PatchResults) ChangedPaths() []string {
	seen := make(map[string]bool, len(r))
	paths := make([]string, 0, len(r))
	for _, result := range r {
		if !result.Changed || seen[result.Path] {
			continue
		}
		seen[result.Path] = true
		paths = append(paths, result.Path)
	}
	return paths
}
