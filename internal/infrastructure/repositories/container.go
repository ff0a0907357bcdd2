package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/fleetrelease/internal/domain/repositories"
	assetRepo "github.com/rios0rios0/fleetrelease/internal/infrastructure/repositories/asset"
	ghcliRepo "github.com/rios0rios0/fleetrelease/internal/infrastructure/repositories/ghcli"
	gitRepo "github.com/rios0rios0/fleetrelease/internal/infrastructure/repositories/git"
	ghRepo "github.com/rios0rios0/fleetrelease/internal/infrastructure/repositories/github"
	glRepo "github.com/rios0rios0/fleetrelease/internal/infrastructure/repositories/gitlab"
	registryRepo "github.com/rios0rios0/fleetrelease/internal/infrastructure/repositories/registry"
	shellRepo "github.com/rios0rios0/fleetrelease/internal/infrastructure/repositories/shell"
	versionRepo "github.com/rios0rios0/fleetrelease/internal/infrastructure/repositories/versionfile"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register release source registry with all hosting providers
	if err := container.Provide(func() *ReleaseSourceRegistry {
		reg := NewReleaseSourceRegistry()
		reg.Register("github", ghRepo.NewGitHubReleaseSourceRepository)
		reg.Register("gitlab", glRepo.NewGitLabReleaseSourceRepository)
		return reg
	}); err != nil {
		return err
	}

	// Local tooling
	if err := container.Provide(func() domainRepos.ShellRepository {
		return shellRepo.NewExecShellRepository()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(shell domainRepos.ShellRepository) domainRepos.GitRepository {
		return gitRepo.NewGitRepository(shell)
	}); err != nil {
		return err
	}
	if err := container.Provide(func(shell domainRepos.ShellRepository) domainRepos.CIRepository {
		return ghcliRepo.NewGhCIRepository(shell)
	}); err != nil {
		return err
	}
	if err := container.Provide(func() domainRepos.VersionFileRepository {
		return versionRepo.NewFileVersionRepository()
	}); err != nil {
		return err
	}

	// Registry storage
	if err := container.Provide(func() domainRepos.RegistryRepository {
		return registryRepo.NewJSONRegistryRepository()
	}); err != nil {
		return err
	}

	// Asset probing authenticates per run, so the factory is provided
	if err := container.Provide(func() domainRepos.AssetProberFactory {
		return func(token string) domainRepos.AssetProberRepository {
			return assetRepo.NewHTTPAssetProberRepository(token)
		}
	}); err != nil {
		return err
	}

	return nil
}
