package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Registry is the registry database (index.json): a wholesale JSON document
// that is loaded, mutated in memory and saved in one step. Only one writer
// may hold it at a time; concurrent runs are not supported.
type Registry struct {
	Packages []RegistryPackage
	Extra    map[string]json.RawMessage
}

// RegistryPackage is one entry of the registry's packages array. Keys the
// tool does not know about are kept in Extra so a save never drops them.
// Known keys read from the file are written back even when empty.
type RegistryPackage struct {
	Name        string
	Description string
	RepoID      string
	Version     string
	UpdatedAt   string
	WheelFilter string
	Namespaces  []string
	External    bool
	Extra       map[string]json.RawMessage

	loaded map[string]bool
}

// ExternalRepoIDs returns the repo ids of packages that live outside the
// given home organization.
func (r *Registry) ExternalRepoIDs(homeOrg string) []string {
	ids := make([]string, 0)
	seen := make(map[string]bool)
	for _, pkg := range r.Packages {
		if pkg.RepoID == "" || strings.HasPrefix(pkg.RepoID, homeOrg+"/") || seen[pkg.RepoID] {
			continue
		}
		seen[pkg.RepoID] = true
		ids = append(ids, pkg.RepoID)
	}
	return ids
}

// FindByRepoID returns the first package backed by the given repository.
func (r *Registry) FindByRepoID(repoID string) *RegistryPackage {
	for i := range r.Packages {
		if r.Packages[i].RepoID == repoID {
			return &r.Packages[i]
		}
	}
	return nil
}

// NewExternalPackage builds the registry entry for a third-party repository
// discovered by search. Names that carry the discovery prefix are turned
// into a title ("nodetool-foo-bar" becomes "Foo Bar").
func NewExternalPackage(repoID, prefix string, release Release) (RegistryPackage, error) {
	remote, err := ParseRepoID(repoID)
	if err != nil {
		return RegistryPackage{}, err
	}

	displayName := remote.Name
	if prefix != "" && strings.HasPrefix(remote.Name, prefix) {
		words := strings.ReplaceAll(strings.TrimPrefix(remote.Name, prefix), "-", " ")
		displayName = cases.Title(language.English).String(words)
	}

	return RegistryPackage{
		Name:        displayName,
		Description: "External package: " + remote.Name,
		RepoID:      remote.ID,
		Version:     release.TagName,
		UpdatedAt:   FormatReleaseTime(release.PublishedAt),
		Namespaces:  []string{"nodetool.nodes." + strings.ReplaceAll(remote.Name, "-", "_")},
		External:    true,
	}, nil
}

// ApplyRelease records a newer release on the package. It reports whether
// anything changed.
func (p *RegistryPackage) ApplyRelease(release Release) bool {
	updated := false
	if release.TagName != "" && release.TagName != p.Version {
		p.Version = release.TagName
		updated = true
	}
	if published := FormatReleaseTime(release.PublishedAt); published != "" && published != p.UpdatedAt {
		p.UpdatedAt = published
		updated = true
	}
	return updated
}

// FormatReleaseTime renders a release timestamp the way the REST API does.
func FormatReleaseTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Registry) UnmarshalJSON(data []byte) error {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if raw, ok := fields["packages"]; ok {
		if err := json.Unmarshal(raw, &r.Packages); err != nil {
			return fmt.Errorf("packages: %w", err)
		}
		delete(fields, "packages")
	}
	r.Extra = fields
	return nil
}

// MarshalJSON implements json.Marshaler. Keys come out sorted.
func (r Registry) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+1)
	for key, value := range r.Extra {
		out[key] = value
	}
	packages := r.Packages
	if packages == nil {
		packages = []RegistryPackage{}
	}
	out["packages"] = packages
	return marshalUnescaped(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *RegistryPackage) UnmarshalJSON(data []byte) error {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	targets := map[string]any{
		"name":         &p.Name,
		"description":  &p.Description,
		"repo_id":      &p.RepoID,
		"version":      &p.Version,
		"updated_at":   &p.UpdatedAt,
		"wheel_filter": &p.WheelFilter,
		"namespaces":   &p.Namespaces,
		"external":     &p.External,
	}
	p.loaded = make(map[string]bool, len(targets))
	for key, target := range targets {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		p.loaded[key] = true
		delete(fields, key)
	}
	p.Extra = fields
	return nil
}

// MarshalJSON implements json.Marshaler. Empty fields are omitted unless
// they were present when the entry was loaded. Keys come out sorted.
func (p RegistryPackage) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+8) //nolint:mnd // known field count
	for key, value := range p.Extra {
		out[key] = value
	}
	p.putString(out, "name", p.Name)
	p.putString(out, "description", p.Description)
	p.putString(out, "repo_id", p.RepoID)
	p.putString(out, "version", p.Version)
	p.putString(out, "updated_at", p.UpdatedAt)
	p.putString(out, "wheel_filter", p.WheelFilter)
	if len(p.Namespaces) > 0 || p.loaded["namespaces"] {
		out["namespaces"] = p.Namespaces
	}
	if p.External || p.loaded["external"] {
		out["external"] = p.External
	}
	return marshalUnescaped(out)
}

// marshalUnescaped encodes like json.Marshal but leaves <, > and & as is.
func marshalUnescaped(value any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (p RegistryPackage) putString(out map[string]any, key, value string) {
	if value != "" || p.loaded[key] {
		out[key] = value
	}
}
