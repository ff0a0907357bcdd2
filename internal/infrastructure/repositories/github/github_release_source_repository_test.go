//go:build unit

package github_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/fleetrelease/internal/infrastructure/repositories/github"
)

type fakeClock struct {
	current time.Time
	slept   []time.Duration
}

func (c *fakeClock) now() time.Time { return c.current }

func (c *fakeClock) sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.current = c.current.Add(d)
}

func newSource(t *testing.T, handler http.Handler, clock *fakeClock) *github.GitHubReleaseSourceRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	source, err := github.NewGitHubReleaseSourceRepositoryWithBaseURL(
		"test-token", server.URL, github.NewRateLimiter(clock.now, clock.sleep),
	)
	require.NoError(t, err)
	return source
}

func TestGitHubReleaseSourceRepository_ListReleases(t *testing.T) {
	t.Parallel()

	t.Run("should follow pagination and convert assets", func(t *testing.T) {
		t.Parallel()

		// given
		clock := &fakeClock{current: time.Unix(1_700_000_000, 0)}
		var auth string
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/acme/core/releases", func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Query().Get("page") == "2" {
				fmt.Fprint(w, `[{"tag_name":"v1.0.0","draft":false,"prerelease":false,`+
					`"published_at":"2024-01-01T00:00:00Z","assets":[]}]`)
				return
			}
			w.Header().Set("Link", fmt.Sprintf(`<http://%s/repos/acme/core/releases?page=2>; rel="next"`, r.Host))
			fmt.Fprint(w, `[{"tag_name":"v1.1.0","draft":false,"prerelease":false,`+
				`"published_at":"2024-02-01T00:00:00Z","assets":[{"name":"core-1.1.0-py3-none-any.whl",`+
				`"browser_download_url":"https://example.com/core-1.1.0-py3-none-any.whl","size":1024}]}]`)
		})
		source := newSource(t, mux, clock)

		// when
		releases, err := source.ListReleases(context.Background(), "acme/core")

		// then
		require.NoError(t, err)
		require.Len(t, releases, 2)
		assert.Equal(t, "v1.1.0", releases[0].TagName)
		assert.Equal(t, "v1.0.0", releases[1].TagName)
		require.Len(t, releases[0].Assets, 1)
		assert.Equal(t, 1024, releases[0].Assets[0].Size)
		assert.Equal(t, "Bearer test-token", auth)
	})

	t.Run("should return no releases for a missing repository", func(t *testing.T) {
		t.Parallel()

		// given
		clock := &fakeClock{current: time.Unix(1_700_000_000, 0)}
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/acme/missing/releases", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		})
		source := newSource(t, mux, clock)

		// when
		releases, err := source.ListReleases(context.Background(), "acme/missing")

		// then
		require.NoError(t, err)
		assert.Empty(t, releases)
	})

	t.Run("should sleep until reset when the remaining quota is low", func(t *testing.T) {
		t.Parallel()

		// given
		clock := &fakeClock{current: time.Unix(1_700_000_000, 0)}
		reset := clock.current.Add(30 * time.Second).Unix()
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/acme/core/releases", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("X-RateLimit-Remaining", "5")
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `[]`)
		})
		source := newSource(t, mux, clock)

		// when
		_, err := source.ListReleases(context.Background(), "acme/core")

		// then
		require.NoError(t, err)
		require.Len(t, clock.slept, 1)
		assert.Equal(t, 31*time.Second, clock.slept[0])
	})
}

func TestGitHubReleaseSourceRepository_LatestRelease(t *testing.T) {
	t.Parallel()

	t.Run("should return nil when the repository has no release", func(t *testing.T) {
		t.Parallel()

		// given
		clock := &fakeClock{current: time.Unix(1_700_000_000, 0)}
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/acme/core/releases/latest", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		})
		source := newSource(t, mux, clock)

		// when
		release, err := source.LatestRelease(context.Background(), "acme/core")

		// then
		require.NoError(t, err)
		assert.Nil(t, release)
	})
}

func TestGitHubReleaseSourceRepository_SearchRepositories(t *testing.T) {
	t.Parallel()

	t.Run("should pass the query and map the results", func(t *testing.T) {
		t.Parallel()

		// given
		clock := &fakeClock{current: time.Unix(1_700_000_000, 0)}
		var query, sort string
		mux := http.NewServeMux()
		mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.Query().Get("q")
			sort = r.URL.Query().Get("sort")
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"total_count":1,"items":[{"name":"nodetool-extra","full_name":"bob/nodetool-extra","private":false}]}`)
		})
		source := newSource(t, mux, clock)

		// when
		results, err := source.SearchRepositories(context.Background(), "nodetool- in:name -user:nodetool-ai")

		// then
		require.NoError(t, err)
		assert.Equal(t, "nodetool- in:name -user:nodetool-ai", query)
		assert.Equal(t, "updated", sort)
		require.Len(t, results, 1)
		assert.Equal(t, "bob/nodetool-extra", results[0].FullName)
	})
}

func TestRateLimiter_BeforeCall(t *testing.T) {
	t.Parallel()

	t.Run("should sleep out the window after more than fifty fast calls", func(t *testing.T) {
		t.Parallel()

		// given
		clock := &fakeClock{current: time.Unix(1_700_000_000, 0)}
		limiter := github.NewRateLimiter(clock.now, clock.sleep)

		// when
		for range 60 {
			clock.current = clock.current.Add(100 * time.Millisecond)
			limiter.BeforeCall()
		}

		// then
		require.Len(t, clock.slept, 1)
		assert.Equal(t, 55*time.Second, clock.slept[0])
	})

	t.Run("should not sleep when calls are spread over more than a minute", func(t *testing.T) {
		t.Parallel()

		// given
		clock := &fakeClock{current: time.Unix(1_700_000_000, 0)}
		limiter := github.NewRateLimiter(clock.now, clock.sleep)

		// when
		for range 60 {
			clock.current = clock.current.Add(2 * time.Second)
			limiter.BeforeCall()
		}

		// then
		assert.Empty(t, clock.slept)
	})
}
