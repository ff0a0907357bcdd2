package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	logger "github.com/sirupsen/logrus"
	gl "gitlab.com/gitlab-org/api/client-go"
	"golang.org/x/mod/semver"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
	"github.com/rios0rios0/fleetrelease/internal/domain/repositories"
)

const (
	perPage        = 100
	searchPerPage  = 50
	orderReleased  = "released_at"
	sortDescending = "desc"
	excludeUser    = "-user:"
)

// GitLabReleaseSourceRepository implements repositories.ReleaseSourceRepository
// on the GitLab REST API. Upcoming releases are reported as drafts and tags
// with a semver prerelease part as prereleases.
type GitLabReleaseSourceRepository struct {
	client *gl.Client
	err    error
}

// NewGitLabReleaseSourceRepository creates a client for gitlab.com.
func NewGitLabReleaseSourceRepository(token string) repositories.ReleaseSourceRepository {
	client, err := gl.NewClient(token)
	return &GitLabReleaseSourceRepository{client: client, err: err}
}

// NewGitLabReleaseSourceRepositoryWithBaseURL creates a client against a
// self-managed instance or a test server.
func NewGitLabReleaseSourceRepositoryWithBaseURL(token, baseURL string) (*GitLabReleaseSourceRepository, error) {
	client, err := gl.NewClient(token, gl.WithBaseURL(baseURL), gl.WithoutRetries())
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", baseURL, err)
	}
	return &GitLabReleaseSourceRepository{client: client}, nil
}

func (p *GitLabReleaseSourceRepository) ListReleases(
	ctx context.Context,
	repoID string,
) ([]entities.Release, error) {
	if p.err != nil {
		return nil, fmt.Errorf("gitlab client not initialized: %w", p.err)
	}
	remote, err := entities.ParseRepoID(repoID)
	if err != nil {
		return nil, err
	}

	all := make([]entities.Release, 0)
	opts := &gl.ListReleasesOptions{
		ListOptions: gl.ListOptions{PerPage: perPage},
		OrderBy:     gl.Ptr(orderReleased),
		Sort:        gl.Ptr(sortDescending),
	}
	for {
		releases, resp, listErr := p.client.Releases.ListReleases(remote.ID, opts, gl.WithContext(ctx))
		if listErr != nil {
			if isNotFound(resp) {
				logger.Infof("[gitlab] No releases found for %s", repoID)
				return all, nil
			}
			return nil, fmt.Errorf("failed to fetch releases for %q: %w", repoID, listErr)
		}

		for _, release := range releases {
			all = append(all, toRelease(release))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	logger.Infof("[gitlab] Found %d releases for %s", len(all), repoID)
	return all, nil
}

// LatestRelease returns the most recently released entry that is neither
// upcoming nor a prerelease.
func (p *GitLabReleaseSourceRepository) LatestRelease(
	ctx context.Context,
	repoID string,
) (*entities.Release, error) {
	releases, err := p.ListReleases(ctx, repoID)
	if err != nil {
		return nil, err
	}
	for i := range releases {
		if !releases[i].Draft && !releases[i].Prerelease {
			return &releases[i], nil
		}
	}
	return nil, nil //nolint:nilnil // no release is not an error
}

// SearchRepositories understands the subset of the GitHub search syntax the
// discovery query uses: free terms are searched and "-user:<owner>" drops
// the owner's projects.
func (p *GitLabReleaseSourceRepository) SearchRepositories(
	ctx context.Context,
	query string,
) ([]entities.SearchResult, error) {
	if p.err != nil {
		return nil, fmt.Errorf("gitlab client not initialized: %w", p.err)
	}
	terms, excluded := parseSearchQuery(query)

	projects, _, err := p.client.Search.Projects(terms, &gl.SearchOptions{
		ListOptions: gl.ListOptions{PerPage: searchPerPage},
	}, gl.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("repository search failed: %w", err)
	}

	found := make([]entities.SearchResult, 0, len(projects))
	for _, project := range projects {
		owner, _, _ := strings.Cut(project.PathWithNamespace, "/")
		if excluded[owner] {
			continue
		}
		found = append(found, entities.SearchResult{
			Name:     project.Path,
			FullName: project.PathWithNamespace,
			Private:  project.Visibility != gl.PublicVisibility,
		})
	}
	return found, nil
}

func parseSearchQuery(query string) (string, map[string]bool) {
	excluded := make(map[string]bool)
	var terms []string
	for _, field := range strings.Fields(query) {
		switch {
		case strings.HasPrefix(field, excludeUser):
			excluded[strings.TrimPrefix(field, excludeUser)] = true
		case strings.Contains(field, ":"):
			// qualifiers without a GitLab equivalent
		default:
			terms = append(terms, field)
		}
	}
	return strings.Join(terms, " "), excluded
}

func isNotFound(resp *gl.Response) bool {
	return resp != nil && resp.Response != nil && resp.StatusCode == http.StatusNotFound
}

func toRelease(release *gl.Release) entities.Release {
	converted := entities.Release{
		TagName:    release.TagName,
		Name:       release.Name,
		Draft:      release.UpcomingRelease,
		Prerelease: semver.Prerelease(normalizeVersion(release.TagName)) != "",
	}
	switch {
	case release.ReleasedAt != nil:
		converted.PublishedAt = *release.ReleasedAt
	case release.CreatedAt != nil:
		converted.PublishedAt = *release.CreatedAt
	}
	for _, link := range release.Assets.Links {
		downloadURL := link.DirectAssetURL
		if downloadURL == "" {
			downloadURL = link.URL
		}
		converted.Assets = append(converted.Assets, entities.ReleaseAsset{
			Name:        link.Name,
			DownloadURL: downloadURL,
		})
	}
	return converted
}

// normalizeVersion ensures a version string has the "v" prefix for semver comparison.
func normalizeVersion(version string) string {
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}
