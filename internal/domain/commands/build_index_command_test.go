//go:build unit

package commands_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/fleetrelease/internal/domain/commands"
	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
	infraRepos "github.com/rios0rios0/fleetrelease/internal/infrastructure/repositories"
	"github.com/rios0rios0/fleetrelease/internal/infrastructure/repositories/registry"
	builders "github.com/rios0rios0/fleetrelease/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/fleetrelease/test/infrastructure/repositorydoubles"
)

const indexRegistry = `{
  "packages": [
    {"name": "Base", "repo_id": "nodetool-ai/nodetool-base"},
    {"name": "Whisper", "repo_id": "acme/nodetool-whisper", "wheel_filter": "cpu"}
  ]
}
`

type indexFixture struct {
	root     string
	outDir   string
	registry string
	source   *doubles.StubReleaseSourceRepository
	prober   *doubles.StubAssetProberRepository
	cmd      *commands.BuildIndexCommand
}

func newIndexFixture(t *testing.T) *indexFixture {
	t.Helper()
	root := t.TempDir()
	f := &indexFixture{
		root:     root,
		outDir:   filepath.Join(root, "docs", "simple"),
		registry: writeRepoFile(t, root, "index.json", indexRegistry),
		source:   &doubles.StubReleaseSourceRepository{Releases: map[string][]entities.Release{}},
		prober:   &doubles.StubAssetProberRepository{},
	}
	sources := infraRepos.NewReleaseSourceRegistry()
	sources.Register("github", f.source.Factory())
	now := func() time.Time { return time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC) }
	f.cmd = commands.NewBuildIndexCommandWithClock(sources, f.prober.Factory(), registry.NewJSONRegistryRepository(), now)
	return f
}

func (f *indexFixture) opts() commands.BuildIndexOptions {
	return commands.BuildIndexOptions{OutputDir: f.outDir, RegistryPath: f.registry, Token: "ghp_index"}
}

func TestBuildIndexCommand_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should list stable wheels newest first and skip prereleases and drafts", func(t *testing.T) {
		t.Parallel()

		// given
		f := newIndexFixture(t)
		v100 := builders.NewReleaseBuilder().WithTag("v1.0.0").WithAsset("nodetool_base-1.0.0-py3-none-any.whl").BuildRelease()
		v110 := builders.NewReleaseBuilder().WithTag("v1.1.0").WithAsset("nodetool_base-1.1.0-py3-none-any.whl").BuildRelease()
		rc := builders.NewReleaseBuilder().WithTag("v1.2.0-rc1").AsPrerelease().
			WithAsset("nodetool_base-1.2.0rc1-py3-none-any.whl").BuildRelease()
		draft := builders.NewReleaseBuilder().WithTag("v2.0.0").AsDraft().
			WithAsset("nodetool_base-2.0.0-py3-none-any.whl").BuildRelease()
		f.source.Releases["nodetool-ai/nodetool-base"] = []entities.Release{v100, rc, v110, draft}
		newest := v110.Assets[0].DownloadURL
		f.prober.Probes = map[string]entities.AssetProbe{newest: {Size: 2048, LastModified: "Sat, 01 Jun 2024 08:00:00 GMT"}}
		f.prober.Digests = map[string]string{newest: "abc123"}

		// when
		err := f.cmd.Execute(context.Background(), entities.DefaultSettings(), f.opts())

		// then
		require.NoError(t, err)
		page := readRepoFile(t, filepath.Join(f.outDir, "nodetool-base", "index.html"))
		assert.Equal(t, 2, entities.CountWheelLinks(page))
		assert.Less(t, strings.Index(page, "1.1.0-py3"), strings.Index(page, "1.0.0-py3"))
		assert.NotContains(t, page, "rc1")
		assert.NotContains(t, page, "2.0.0")
		assert.Contains(t, page, `data-size="2048" data-requires-python="&gt;=3.11" data-dist-info-metadata="sha256=abc123"`)
		assert.Equal(t, "ghp_index", f.source.Token)
	})

	t.Run("should not advertise a python requirement for wheels without a py3 tag", func(t *testing.T) {
		t.Parallel()

		// given
		f := newIndexFixture(t)
		f.source.Releases["nodetool-ai/nodetool-base"] = []entities.Release{
			builders.NewReleaseBuilder().WithAsset("nodetool_base-1.0.0-cp311-cp311-macosx_14_0_arm64.whl").BuildRelease(),
		}

		// when
		err := f.cmd.Execute(context.Background(), entities.DefaultSettings(), f.opts())

		// then
		require.NoError(t, err)
		page := readRepoFile(t, filepath.Join(f.outDir, "nodetool-base", "index.html"))
		assert.Equal(t, 1, entities.CountWheelLinks(page))
		assert.NotContains(t, page, "data-requires-python")
		assert.NotContains(t, page, "data-dist-info-metadata")
	})

	t.Run("should apply the wheel filter and write the root index", func(t *testing.T) {
		t.Parallel()

		// given
		f := newIndexFixture(t)
		f.source.Releases["acme/nodetool-whisper"] = []entities.Release{
			builders.NewReleaseBuilder().
				WithAsset("nodetool_whisper-1.0.0+cpu-py3-none-any.whl").
				WithAsset("nodetool_whisper-1.0.0+cuda-py3-none-any.whl").
				WithAsset("nodetool_whisper-1.0.0.tar.gz").
				BuildRelease(),
		}

		// when
		err := f.cmd.Execute(context.Background(), entities.DefaultSettings(), f.opts())

		// then
		require.NoError(t, err)
		page := readRepoFile(t, filepath.Join(f.outDir, "nodetool-whisper", "index.html"))
		assert.Equal(t, 1, entities.CountWheelLinks(page))
		assert.Contains(t, page, "+cpu")

		root := readRepoFile(t, filepath.Join(f.outDir, "index.html"))
		assert.Contains(t, root, `<a href="nodetool-base/">nodetool-base</a> (0 wheels)<br>`)
		assert.Contains(t, root, `<a href="nodetool-whisper/">nodetool-whisper</a> (1 wheels)<br>`)
		assert.Contains(t, root, "Total: 2 packages, 1 wheels")
		assert.Contains(t, root, "Last updated: 2024-06-01 08:30:00 UTC")
	})

	t.Run("should record zero wheels for a package that cannot be fetched", func(t *testing.T) {
		t.Parallel()

		// given
		f := newIndexFixture(t)
		f.source.ListErrs = map[string]error{"nodetool-ai/nodetool-base": errors.New("HTTP 500")}
		f.source.Releases["acme/nodetool-whisper"] = []entities.Release{
			builders.NewReleaseBuilder().WithAsset("nodetool_whisper-1.0.0+cpu-py3-none-any.whl").BuildRelease(),
		}

		// when
		err := f.cmd.Execute(context.Background(), entities.DefaultSettings(), f.opts())

		// then
		require.NoError(t, err)
		root := readRepoFile(t, filepath.Join(f.outDir, "index.html"))
		assert.Contains(t, root, "nodetool-base</a> (0 wheels)")
		assert.Contains(t, root, "nodetool-whisper</a> (1 wheels)")
	})

	t.Run("should keep previous counts of packages outside the filter", func(t *testing.T) {
		t.Parallel()

		// given
		f := newIndexFixture(t)
		writeRepoFile(t, f.root, "docs/packages.json",
			`{"packages":[{"name":"nodetool-whisper","wheel_count":5},{"name":"nodetool-base","wheel_count":9}],"count":2}`)
		f.source.Releases["nodetool-ai/nodetool-base"] = []entities.Release{
			builders.NewReleaseBuilder().WithAsset("nodetool_base-1.0.0-py3-none-any.whl").BuildRelease(),
		}
		opts := f.opts()
		opts.PackageFilter = "nodetool-base"

		// when
		err := f.cmd.Execute(context.Background(), entities.DefaultSettings(), opts)

		// then
		require.NoError(t, err)
		root := readRepoFile(t, filepath.Join(f.outDir, "index.html"))
		assert.Contains(t, root, "nodetool-base</a> (1 wheels)")
		assert.Contains(t, root, "nodetool-whisper</a> (5 wheels)")
		assert.Equal(t, []string{"nodetool-ai/nodetool-base"}, f.source.ListCalls)
	})

	t.Run("should ignore previous counts when force rebuilding", func(t *testing.T) {
		t.Parallel()

		// given
		f := newIndexFixture(t)
		writeRepoFile(t, f.root, "docs/packages.json",
			`{"packages":[{"name":"nodetool-whisper","wheel_count":5}],"count":1}`)
		opts := f.opts()
		opts.PackageFilter = "nodetool-base"
		opts.ForceRebuild = true

		// when
		err := f.cmd.Execute(context.Background(), entities.DefaultSettings(), opts)

		// then
		require.NoError(t, err)
		root := readRepoFile(t, filepath.Join(f.outDir, "index.html"))
		assert.Contains(t, root, "nodetool-whisper</a> (0 wheels)")
	})

	t.Run("should fail for a package filter that matches nothing", func(t *testing.T) {
		t.Parallel()

		// given
		f := newIndexFixture(t)
		opts := f.opts()
		opts.PackageFilter = "nodetool-missing"

		// when
		err := f.cmd.Execute(context.Background(), entities.DefaultSettings(), opts)

		// then
		require.ErrorIs(t, err, entities.ErrPackageNotFound)
		assert.Empty(t, f.source.ListCalls)
	})

	t.Run("should fail when the registry file is missing", func(t *testing.T) {
		t.Parallel()

		// given
		f := newIndexFixture(t)
		opts := f.opts()
		opts.RegistryPath = filepath.Join(f.root, "absent.json")

		// when
		err := f.cmd.Execute(context.Background(), entities.DefaultSettings(), opts)

		// then
		require.ErrorIs(t, err, entities.ErrRegistryNotFound)
	})
}
