package repositories

import (
	"fmt"
	"sort"

	domainRepos "github.com/rios0rios0/fleetrelease/internal/domain/repositories"
)

// ReleaseSourceRegistry manages the release source implementations by
// hosting provider name.
type ReleaseSourceRegistry struct {
	factories map[string]domainRepos.ReleaseSourceFactory
}

// NewReleaseSourceRegistry creates an empty release source registry.
func NewReleaseSourceRegistry() *ReleaseSourceRegistry {
	return &ReleaseSourceRegistry{
		factories: make(map[string]domainRepos.ReleaseSourceFactory),
	}
}

// Register adds a release source factory under the given name (e.g. "github").
func (r *ReleaseSourceRegistry) Register(name string, factory domainRepos.ReleaseSourceFactory) {
	r.factories[name] = factory
}

// Get returns a release source for the given provider name and token.
func (r *ReleaseSourceRegistry) Get(name, token string) (domainRepos.ReleaseSourceRepository, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown release source provider: %q", name)
	}
	return factory(token), nil
}

// Names returns the registered provider names, sorted.
func (r *ReleaseSourceRegistry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
