package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
	"github.com/rios0rios0/fleetrelease/internal/domain/repositories"
)

const (
	perPage        = 100
	searchPerPage  = 50
	searchSort     = "updated"
	requestTimeout = 30 * time.Second
)

// GitHubReleaseSourceRepository implements repositories.ReleaseSourceRepository
// on the GitHub REST API. Headers and rate-limit state live on the instance.
type GitHubReleaseSourceRepository struct {
	client  *gh.Client
	limiter *RateLimiter
}

// NewGitHubReleaseSourceRepository creates a client authenticated with the
// given token, or anonymous when the token is empty.
func NewGitHubReleaseSourceRepository(token string) repositories.ReleaseSourceRepository {
	client := gh.NewClient(&http.Client{Timeout: requestTimeout})
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHubReleaseSourceRepository{
		client:  client,
		limiter: NewRateLimiter(time.Now, time.Sleep),
	}
}

// NewGitHubReleaseSourceRepositoryWithBaseURL creates a client against
// another API root, such as a GitHub Enterprise instance or a test server.
func NewGitHubReleaseSourceRepositoryWithBaseURL(
	token, baseURL string,
	limiter *RateLimiter,
) (*GitHubReleaseSourceRepository, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", baseURL, err)
	}
	if parsed.Path == "" || parsed.Path[len(parsed.Path)-1] != '/' {
		parsed.Path += "/"
	}

	client := gh.NewClient(&http.Client{Timeout: requestTimeout})
	if token != "" {
		client = client.WithAuthToken(token)
	}
	client.BaseURL = parsed
	return &GitHubReleaseSourceRepository{client: client, limiter: limiter}, nil
}

func (p *GitHubReleaseSourceRepository) ListReleases(
	ctx context.Context,
	repoID string,
) ([]entities.Release, error) {
	remote, err := entities.ParseRepoID(repoID)
	if err != nil {
		return nil, err
	}

	all := make([]entities.Release, 0)
	opts := &gh.ListOptions{PerPage: perPage}
	for {
		p.limiter.BeforeCall()
		releases, resp, listErr := p.client.Repositories.ListReleases(ctx, remote.Organization, remote.Name, opts)
		p.observe(resp)
		if listErr != nil {
			if isNotFound(resp) {
				logger.Infof("[github] No releases found for %s", repoID)
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

	logger.Infof("[github] Found %d releases for %s", len(all), repoID)
	return all, nil
}

func (p *GitHubReleaseSourceRepository) LatestRelease(
	ctx context.Context,
	repoID string,
) (*entities.Release, error) {
	remote, err := entities.ParseRepoID(repoID)
	if err != nil {
		return nil, err
	}

	p.limiter.BeforeCall()
	release, resp, getErr := p.client.Repositories.GetLatestRelease(ctx, remote.Organization, remote.Name)
	p.observe(resp)
	if getErr != nil {
		if isNotFound(resp) {
			logger.Infof("[github] No releases found for %s", repoID)
			return nil, nil //nolint:nilnil // no release is not an error
		}
		return nil, fmt.Errorf("failed to fetch latest release for %q: %w", repoID, getErr)
	}

	converted := toRelease(release)
	return &converted, nil
}

func (p *GitHubReleaseSourceRepository) SearchRepositories(
	ctx context.Context,
	query string,
) ([]entities.SearchResult, error) {
	p.limiter.BeforeCall()
	result, resp, err := p.client.Search.Repositories(ctx, query, &gh.SearchOptions{
		Sort:        searchSort,
		ListOptions: gh.ListOptions{PerPage: searchPerPage},
	})
	p.observe(resp)
	if err != nil {
		return nil, fmt.Errorf("repository search failed: %w", err)
	}

	found := make([]entities.SearchResult, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		found = append(found, entities.SearchResult{
			Name:     repo.GetName(),
			FullName: repo.GetFullName(),
			Private:  repo.GetPrivate(),
		})
	}
	return found, nil
}

func (p *GitHubReleaseSourceRepository) observe(resp *gh.Response) {
	if resp != nil {
		p.limiter.Observe(resp.Response)
	}
}

func isNotFound(resp *gh.Response) bool {
	return resp != nil && resp.Response != nil && resp.StatusCode == http.StatusNotFound
}

func toRelease(release *gh.RepositoryRelease) entities.Release {
	converted := entities.Release{
		TagName:     release.GetTagName(),
		Name:        release.GetName(),
		Draft:       release.GetDraft(),
		Prerelease:  release.GetPrerelease(),
		PublishedAt: release.GetPublishedAt().Time,
	}
	for _, asset := range release.Assets {
		converted.Assets = append(converted.Assets, entities.ReleaseAsset{
			Name:        asset.GetName(),
			DownloadURL: asset.GetBrowserDownloadURL(),
			Size:        asset.GetSize(),
		})
	}
	return converted
}
