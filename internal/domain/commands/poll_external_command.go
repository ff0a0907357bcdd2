package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
	"github.com/rios0rios0/fleetrelease/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/fleetrelease/internal/infrastructure/repositories"
)

// PollExternal is the interface for the external release poller.
type PollExternal interface {
	Execute(ctx context.Context, settings *entities.Settings, opts PollExternalOptions) error
}

// PollExternalOptions holds runtime options for one poll.
type PollExternalOptions struct {
	RegistryPath string // defaults to settings.Registry.IndexFile
	Token        string
	Discover     bool // search for new third-party packages
}

// PollExternalCommand refreshes the registry entries of packages hosted
// outside the home organization and optionally discovers new ones. The
// registry is loaded, changed and saved in one step by a single writer.
type PollExternalCommand struct {
	sources  *infraRepos.ReleaseSourceRegistry
	registry repositories.RegistryRepository
}

// NewPollExternalCommand creates a new PollExternalCommand.
func NewPollExternalCommand(
	sources *infraRepos.ReleaseSourceRegistry,
	registry repositories.RegistryRepository,
) *PollExternalCommand {
	return &PollExternalCommand{sources: sources, registry: registry}
}

// Execute polls the external packages and saves the registry only when an
// entry changed or a package was added.
func (it *PollExternalCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts PollExternalOptions,
) error {
	registryPath := opts.RegistryPath
	if registryPath == "" {
		registryPath = settings.Registry.IndexFile
	}
	registry, err := it.registry.Load(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	before, err := json.Marshal(registry)
	if err != nil {
		return err
	}

	source, err := it.sources.Get(settings.Registry.Provider, opts.Token)
	if err != nil {
		return err
	}

	external := registry.ExternalRepoIDs(settings.Organization)
	logger.Infof("Found %d external repositories in registry", len(external))
	for _, repoID := range external {
		it.refresh(ctx, source, registry, repoID)
	}

	if opts.Discover {
		known := make(map[string]bool, len(external))
		for _, repoID := range external {
			known[repoID] = true
		}
		it.discover(ctx, settings, source, registry, known)
	}

	after, err := json.Marshal(registry)
	if err != nil {
		return err
	}
	if string(before) == string(after) {
		logger.Info("No changes detected")
		return nil
	}

	logger.Info("Registry updated, saving changes...")
	return it.registry.Save(registryPath, registry)
}

func (it *PollExternalCommand) refresh(
	ctx context.Context,
	source repositories.ReleaseSourceRepository,
	registry *entities.Registry,
	repoID string,
) {
	logger.Infof("Checking %s for updates...", repoID)
	latest, err := source.LatestRelease(ctx, repoID)
	if err != nil {
		logger.Errorf("Failed to fetch the latest release of %s: %v", repoID, err)
		return
	}
	if latest == nil {
		return
	}
	if !latest.HasWheelAssets() {
		logger.Warnf("%s has releases but no wheel files", repoID)
		return
	}

	pkg := registry.FindByRepoID(repoID)
	previous := pkg.Version
	if pkg.ApplyRelease(*latest) && previous != pkg.Version {
		logger.Infof("Updating %s version from %s to %s", repoID, previous, pkg.Version)
	}
}

// discover searches for public repositories named with the discovery prefix
// outside the home organization and adds the ones publishing wheels.
func (it *PollExternalCommand) discover(
	ctx context.Context,
	settings *entities.Settings,
	source repositories.ReleaseSourceRepository,
	registry *entities.Registry,
	known map[string]bool,
) {
	prefix := settings.Registry.DiscoveryPrefix
	logger.Infof("Discovering new %s packages...", strings.TrimSuffix(prefix, "-"))

	query := fmt.Sprintf("%s in:name -user:%s", prefix, settings.Organization)
	results, err := source.SearchRepositories(ctx, query)
	if err != nil {
		logger.Errorf("Error during package discovery: %v", err)
		return
	}

	for _, result := range results {
		if !strings.HasPrefix(result.Name, prefix) || result.Private || known[result.FullName] {
			continue
		}

		latest, latestErr := source.LatestRelease(ctx, result.FullName)
		if latestErr != nil || latest == nil || !latest.HasWheelAssets() {
			continue
		}

		pkg, pkgErr := entities.NewExternalPackage(result.FullName, prefix, *latest)
		if pkgErr != nil {
			logger.Warnf("Skipping discovered repository %s: %v", result.FullName, pkgErr)
			continue
		}
		registry.Packages = append(registry.Packages, pkg)
		known[result.FullName] = true
		logger.Infof("Added new external package: %s", result.FullName)
	}
}
