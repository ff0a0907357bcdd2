package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
	"github.com/rios0rios0/fleetrelease/internal/domain/repositories"
)

const (
	originRemote      = "origin"
	pyprojectFile     = "pyproject.toml"
	lockFile          = "uv.lock"
	packageMetadata   = "package_metadata"
	dockerfilePrefix  = "Dockerfile"
	terraformSuffix   = ".tf"
	metadataExtension = ".json"
)

// TagRepository is the interface for the per-repository release driver.
type TagRepository interface {
	Execute(ctx context.Context, settings *entities.Settings, repo entities.Repository, opts TagOptions) error
}

// TagOptions holds the options of one repository release.
type TagOptions struct {
	Tag            entities.VersionTag
	UpdateVersions bool
}

// TagRepositoryCommand brings one working copy to the release tag:
// authenticate the remote, optionally patch and commit the version files,
// then create and force-push the annotated tag.
type TagRepositoryCommand struct {
	git          repositories.GitRepository
	versionFiles repositories.VersionFileRepository
	shell        repositories.ShellRepository
	lookupEnv    func(string) string
}

// NewTagRepositoryCommand creates a new TagRepositoryCommand.
func NewTagRepositoryCommand(
	git repositories.GitRepository,
	versionFiles repositories.VersionFileRepository,
	shell repositories.ShellRepository,
) *TagRepositoryCommand {
	return NewTagRepositoryCommandWithEnv(git, versionFiles, shell, os.Getenv)
}

// NewTagRepositoryCommandWithEnv creates a TagRepositoryCommand reading
// credentials through the given lookup instead of the process environment.
func NewTagRepositoryCommandWithEnv(
	git repositories.GitRepository,
	versionFiles repositories.VersionFileRepository,
	shell repositories.ShellRepository,
	lookupEnv func(string) string,
) *TagRepositoryCommand {
	return &TagRepositoryCommand{
		git:          git,
		versionFiles: versionFiles,
		shell:        shell,
		lookupEnv:    lookupEnv,
	}
}

// Execute releases a single repository. Every returned error is
// recoverable: the caller logs it and moves on to the next repository.
func (it *TagRepositoryCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	repo entities.Repository,
	opts TagOptions,
) error {
	if info, err := os.Stat(repo.Path); err != nil || !info.IsDir() {
		logger.Errorf("Repository directory '%s' not found. Skipping...", repo.Path)
		return fmt.Errorf("%w: %s", entities.ErrRepositoryMissing, repo.Path)
	}
	if !it.git.IsWorkingCopy(repo.Path) {
		logger.Errorf("'%s' is not a git repository. Skipping...", repo.Path)
		return fmt.Errorf("%w: %s", entities.ErrNotWorkingCopy, repo.Path)
	}

	logger.Infof("Processing %s...", repo.Name)
	logDiagnostics(it.git.Diagnostics(repo.Path))
	it.configureAuthentication(ctx, repo)

	if opts.UpdateVersions {
		if err := it.commitVersionBump(ctx, settings, repo, opts.Tag); err != nil {
			return err
		}
	}

	return it.pushTag(ctx, repo, opts.Tag)
}

// configureAuthentication embeds the CI token into the origin remote so
// that non-interactive pushes succeed. Problems only produce warnings.
func (it *TagRepositoryCommand) configureAuthentication(ctx context.Context, repo entities.Repository) {
	token, source := entities.ResolveTokenFromEnv(it.lookupEnv)
	if token == "" {
		logger.Warnf("No %s found in environment", strings.Join(entities.TokenEnvVars, ", "))
		return
	}

	remoteURL, err := it.git.RemoteURL(repo.Path, originRemote)
	if err != nil {
		logger.Warnf("Could not read the %s remote of %s: %v", originRemote, repo.Name, err)
		return
	}

	authURL, err := entities.AuthenticatedRemoteURL(remoteURL, token)
	if err != nil {
		logger.Warnf("Unexpected remote URL format: %s", entities.MaskURLCredentials(remoteURL))
		return
	}

	if setErr := it.git.SetRemoteURL(ctx, repo.Path, originRemote, authURL); setErr != nil {
		logger.Warnf("Failed to configure git authentication for %s: %v", repo.Name, setErr)
		return
	}
	logger.Infof("Configured git authentication for %s (token from %s)", repo.Name, source)
}

func (it *TagRepositoryCommand) commitVersionBump(
	ctx context.Context,
	settings *entities.Settings,
	repo entities.Repository,
	tag entities.VersionTag,
) error {
	version := tag.Version()

	var results entities.PatchResults
	var known []string
	if repo.IsApplication() {
		results, known = it.patchApplication(settings, repo, version)
	} else {
		results, known = it.patchLibrary(settings, repo, tag)
	}

	scanned := false
	if !repo.IsApplication() && !repo.Priority {
		scanned = it.scanPackages(ctx, settings, repo)
	}

	if !results.AnyChanged() && !scanned {
		logger.Infof("No version files found to update in %s", repo.Name)
		return nil
	}

	files := stagedFiles(repo.Path, results.ChangedPaths(), known)
	if _, err := it.git.Add(ctx, repo.Path, files); err != nil {
		logger.Warnf("Failed to stage version files in %s: %v", repo.Name, err)
	}

	if result, err := it.git.Commit(ctx, repo.Path, "Bump version to "+version); err != nil {
		logger.Warnf("No changes to commit in %s (files may already be at version %s)", repo.Name, version)
		logger.Debugf("  commit output: %s", result.StdoutOrEmpty())
		return nil
	}

	result, err := it.git.Push(ctx, repo.Path, originRemote, settings.MainBranch, false)
	if err != nil {
		logger.Errorf("Failed to push version bump of %s", repo.Name)
		logCommandFailure(result)
		logDiagnostics(it.git.Diagnostics(repo.Path))
		return fmt.Errorf("%w: %s: %w", entities.ErrPushFailed, repo.Name, err)
	}
	logger.Infof("Pushed version bump of %s to %s", repo.Name, settings.MainBranch)
	return nil
}

// patchLibrary applies the library patches and returns their results with
// the files staged whenever they exist.
func (it *TagRepositoryCommand) patchLibrary(
	settings *entities.Settings,
	repo entities.Repository,
	tag entities.VersionTag,
) (entities.PatchResults, []string) {
	version := tag.Version()
	versioning := settings.Versioning
	pyproject := filepath.Join(repo.Path, pyprojectFile)
	workflow := filepath.Join(repo.Path, filepath.FromSlash(versioning.WorkflowFile))

	results := entities.PatchResults{
		it.versionFiles.PatchTOMLVersion(pyproject, version),
		it.versionFiles.PinTOMLDependency(pyproject, versioning.DependencyPackage, version),
		it.versionFiles.PatchYAMLScalar(workflow, versioning.CoreRefKey, tag.String()),
	}

	dockerfiles := it.versionFiles.FindFiles(repo.Path, func(name string) bool {
		return strings.HasPrefix(name, dockerfilePrefix)
	})
	for _, dockerfile := range dockerfiles {
		results = append(results,
			it.versionFiles.PatchGitURLRefs(dockerfile, settings.Organization, tag.String()),
			it.versionFiles.PatchInlinePins(dockerfile, versioning.PinPrefix, version),
		)
	}

	terraformFiles := it.versionFiles.FindFiles(repo.Path, func(name string) bool {
		return strings.HasSuffix(name, terraformSuffix)
	})
	for _, tfFile := range terraformFiles {
		results = append(results, it.versionFiles.PatchTerraformModuleRefs(tfFile, settings.Organization, tag.String()))
	}

	known := []string{pyproject, filepath.Join(repo.Path, lockFile), workflow}
	for _, dir := range it.versionFiles.FindDirs(repo.Path, packageMetadata) {
		matches, _ := filepath.Glob(filepath.Join(dir, "*"+metadataExtension))
		known = append(known, matches...)
	}
	return results, known
}

func (it *TagRepositoryCommand) patchApplication(
	settings *entities.Settings,
	repo entities.Repository,
	version string,
) (entities.PatchResults, []string) {
	var results entities.PatchResults
	var known []string
	for _, manifest := range settings.Versioning.ApplicationManifests {
		path := filepath.Join(repo.Path, filepath.FromSlash(manifest))
		results = append(results, it.versionFiles.PatchJSONVersion(path, version))
		known = append(known, path)
	}
	for _, constants := range settings.Versioning.ApplicationConstants {
		path := filepath.Join(repo.Path, filepath.FromSlash(constants))
		results = append(results, it.versionFiles.PatchConstVersion(path, version))
		known = append(known, path)
	}
	return results, known
}

// scanPackages regenerates package_metadata/*.json with the configured tool
// and reports whether it ran successfully.
func (it *TagRepositoryCommand) scanPackages(
	ctx context.Context,
	settings *entities.Settings,
	repo entities.Repository,
) bool {
	command := settings.Versioning.PackageScanCommand
	if len(command) == 0 {
		return false
	}
	_, statErr := os.Stat(filepath.Join(repo.Path, pyprojectFile))
	if statErr != nil && len(it.versionFiles.FindDirs(repo.Path, packageMetadata)) == 0 {
		return false
	}

	logger.Infof("Running package scan in %s...", repo.Name)
	result, err := it.shell.Run(ctx, repo.Path, command[0], command[1:]...)
	if err != nil {
		logger.Warnf("Package scan failed in %s: %v", repo.Name, err)
		logger.Debugf("  stderr: %s", result.StderrOrEmpty())
		return false
	}
	return true
}

func (it *TagRepositoryCommand) pushTag(ctx context.Context, repo entities.Repository, tag entities.VersionTag) error {
	if result, err := it.git.Tag(ctx, repo.Path, tag.String(), "Release "+tag.String()); err != nil {
		logger.Errorf("Failed to create tag %s in %s", tag, repo.Name)
		logCommandFailure(result)
		return fmt.Errorf("failed to create tag %s in %s: %w", tag, repo.Name, err)
	}

	result, err := it.git.Push(ctx, repo.Path, originRemote, tag.String(), true)
	if err != nil {
		logger.Errorf("Failed to push tag %s for %s", tag, repo.Name)
		logCommandFailure(result)
		logDiagnostics(it.git.Diagnostics(repo.Path))
		return nil
	}
	logger.Infof("Pushed tag %s for %s", tag, repo.Name)
	return nil
}

// stagedFiles returns the changed files plus the known files that exist,
// relative to the repository root, without duplicates.
func stagedFiles(root string, changed, known []string) []string {
	seen := make(map[string]bool)
	files := make([]string, 0, len(changed)+len(known))
	add := func(path string) {
		rel, err := filepath.Rel(root, path)
		if err != nil || seen[rel] {
			return
		}
		seen[rel] = true
		files = append(files, filepath.ToSlash(rel))
	}

	for _, path := range changed {
		add(path)
	}
	for _, path := range known {
		if _, err := os.Stat(path); err == nil {
			add(path)
		}
	}
	return files
}
