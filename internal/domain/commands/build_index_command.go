package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
	"github.com/rios0rios0/fleetrelease/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/fleetrelease/internal/infrastructure/repositories"
)

const (
	indexPage         = "index.html"
	manifestFile      = "packages.json"
	rootIndexSubtitle = "Simple package index for %s packages hosted on GitHub"
)

// BuildIndex is the interface for the PEP 503 index builder.
type BuildIndex interface {
	Execute(ctx context.Context, settings *entities.Settings, opts BuildIndexOptions) error
}

// BuildIndexOptions holds runtime options for one index build.
type BuildIndexOptions struct {
	OutputDir     string
	Token         string
	ForceRebuild  bool
	PackageFilter string // if set, only this package page is rebuilt
	RegistryPath  string // defaults to settings.Registry.IndexFile
	ManifestPath  string // prior packages.json; defaults to <OutputDir>/../packages.json
}

// BuildIndexCommand renders the static Simple Repository API pages of every
// registry package from its published releases.
type BuildIndexCommand struct {
	sources  *infraRepos.ReleaseSourceRegistry
	probers  repositories.AssetProberFactory
	registry repositories.RegistryRepository
	now      func() time.Time
}

// NewBuildIndexCommand creates a new BuildIndexCommand.
func NewBuildIndexCommand(
	sources *infraRepos.ReleaseSourceRegistry,
	probers repositories.AssetProberFactory,
	registry repositories.RegistryRepository,
) *BuildIndexCommand {
	return NewBuildIndexCommandWithClock(sources, probers, registry, time.Now)
}

// NewBuildIndexCommandWithClock creates a BuildIndexCommand stamping pages with now.
func NewBuildIndexCommandWithClock(
	sources *infraRepos.ReleaseSourceRegistry,
	probers repositories.AssetProberFactory,
	registry repositories.RegistryRepository,
	now func() time.Time,
) *BuildIndexCommand {
	return &BuildIndexCommand{sources: sources, probers: probers, registry: registry, now: now}
}

// Execute builds the package pages and the root page. A package that cannot
// be fetched is listed with zero wheels instead of failing the build.
func (it *BuildIndexCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts BuildIndexOptions,
) error {
	registryPath := opts.RegistryPath
	if registryPath == "" {
		registryPath = settings.Registry.IndexFile
	}
	registry, err := it.registry.Load(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	entries := entities.PackageEntries(registry)
	toBuild := entries
	if opts.PackageFilter != "" {
		toBuild = filterEntries(entries, opts.PackageFilter)
		if len(toBuild) == 0 {
			return fmt.Errorf("%w: %q", entities.ErrPackageNotFound, opts.PackageFilter)
		}
	}

	counts := make(map[string]int, len(entries))
	if !opts.ForceRebuild && opts.PackageFilter != "" {
		it.loadPriorCounts(opts, counts)
	}

	if opts.Token == "" {
		logger.Warn("No GitHub token provided, API rate limits may apply")
	}
	source, err := it.sources.Get(settings.Registry.Provider, opts.Token)
	if err != nil {
		return err
	}
	prober := it.probers(opts.Token)

	logger.Infof("[index] Building index for %d package(s) in %s", len(toBuild), opts.OutputDir)
	for _, entry := range toBuild {
		count, buildErr := it.buildPackage(ctx, settings, source, prober, entry, opts.OutputDir)
		if buildErr != nil {
			logger.Errorf("[index] Failed to process %s: %v", entry.Name, buildErr)
			count = 0
		}
		counts[entry.Name] = count
	}

	for i := range entries {
		entries[i].WheelCount = counts[entries[i].Name]
	}

	description := fmt.Sprintf(rootIndexSubtitle, strings.TrimSuffix(settings.Registry.Name, " Package Registry"))
	root := entities.RenderRootIndex(settings.Registry.Title, description, entries, it.now())
	if writeErr := it.registry.WritePage(filepath.Join(opts.OutputDir, indexPage), root); writeErr != nil {
		return fmt.Errorf("failed to write root index: %w", writeErr)
	}

	logger.Infof("[index] Index generated at %s", opts.OutputDir)
	logger.Infof("[index] Use with: pip install --index-url %s <package>", settings.Registry.SimpleIndexURL())
	return nil
}

// loadPriorCounts fills counts from the previous manifest. Missing or
// unreadable manifests leave counts empty.
func (it *BuildIndexCommand) loadPriorCounts(opts BuildIndexOptions, counts map[string]int) {
	manifestPath := opts.ManifestPath
	if manifestPath == "" {
		manifestPath = filepath.Join(filepath.Dir(filepath.Clean(opts.OutputDir)), manifestFile)
	}

	manifest, err := it.registry.LoadManifest(manifestPath)
	if err != nil {
		if !errors.Is(err, entities.ErrRegistryNotFound) {
			logger.Warnf("[index] Could not read previous manifest %s: %v", manifestPath, err)
		}
		return
	}
	for name, count := range manifest.Counts() {
		counts[name] = count
	}
	logger.Infof("[index] Loaded %d previous package count(s) from %s", len(manifest.Packages), manifestPath)
}

func (it *BuildIndexCommand) buildPackage(
	ctx context.Context,
	settings *entities.Settings,
	source repositories.ReleaseSourceRepository,
	prober repositories.AssetProberRepository,
	entry entities.PackageEntry,
	outputDir string,
) (int, error) {
	logger.Infof("[index] Processing %s (%s)...", entry.Name, entry.RepoID)

	releases, err := source.ListReleases(ctx, entry.RepoID)
	if err != nil {
		return 0, err
	}

	var wheels []entities.WheelAsset
	for _, versioned := range entities.StableReleases(releases) {
		for _, asset := range versioned.Release.Assets {
			if !asset.IsWheel() || (entry.WheelFilter != "" && !strings.Contains(asset.Name, entry.WheelFilter)) {
				continue
			}
			wheels = append(wheels, it.collectWheel(ctx, prober, versioned, asset))
		}
	}

	page := entities.RenderPackagePage(entry.Name, wheels, settings.Registry.RequiresPython)
	if writeErr := it.registry.WritePage(filepath.Join(outputDir, entry.Name, indexPage), page); writeErr != nil {
		return 0, writeErr
	}
	logger.Infof("[index] Generated %s index (%d wheels)", entry.Name, len(wheels))
	return len(wheels), nil
}

func (it *BuildIndexCommand) collectWheel(
	ctx context.Context,
	prober repositories.AssetProberRepository,
	versioned entities.VersionedRelease,
	asset entities.ReleaseAsset,
) entities.WheelAsset {
	wheel := entities.WheelAsset{
		Filename:    asset.Name,
		URL:         asset.DownloadURL,
		Version:     versioned.Version,
		ReleaseDate: versioned.Release.PublishedAt,
	}

	probe, err := prober.Probe(ctx, asset.DownloadURL)
	if err != nil {
		logger.Warnf("[index] Could not get metadata for %s: %v", asset.Name, err)
		return wheel
	}
	wheel.Size = probe.Size
	wheel.UploadTime = probe.LastModified
	wheel.MetadataSHA256 = prober.MetadataDigest(ctx, asset.DownloadURL)

	if wheel.Size > 0 {
		logger.Debugf("[index]   %s (%s)", asset.Name, humanize.Bytes(uint64(wheel.Size)))
	}
	return wheel
}

func filterEntries(entries []entities.PackageEntry, name string) []entities.PackageEntry {
	for _, entry := range entries {
		if entry.Name == name {
			return []entities.PackageEntry{entry}
		}
	}
	return nil
}
