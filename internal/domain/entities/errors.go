package entities

import "errors"

var (
	// ErrRepositoryMissing is returned when a repository directory does not exist.
	ErrRepositoryMissing = errors.New("repository directory not found")
	// ErrNotWorkingCopy is returned when a directory is not a git working copy.
	ErrNotWorkingCopy = errors.New("not a git repository")
	// ErrPushFailed is returned when pushing the version commit fails.
	ErrPushFailed = errors.New("failed to push commit")
	// ErrUnsupportedRemote is returned for remotes that are not GitHub HTTPS or SSH URLs.
	ErrUnsupportedRemote = errors.New("unexpected remote URL format")
	// ErrInvalidRepoID is returned for identifiers that are not "owner/repo".
	ErrInvalidRepoID = errors.New("invalid repository identifier")

	// ErrWorkflowFailed is returned when a release workflow fails or is cancelled.
	ErrWorkflowFailed = errors.New("some release workflows failed or were cancelled")
	// ErrWorkflowTimeout is returned when the polling budget runs out.
	ErrWorkflowTimeout = errors.New("timeout waiting for release workflows to complete")
	// ErrRegistryTrigger is returned when the registry rebuild workflow cannot be started.
	ErrRegistryTrigger = errors.New("failed to trigger registry workflow")
	// ErrToolMissing is returned when a required command-line tool is not installed.
	ErrToolMissing = errors.New("required tool not found in PATH")
	// ErrReleaseDeclined is returned when the operator declines an unconventional tag.
	ErrReleaseDeclined = errors.New("release declined")
	// ErrUnknownRepository is returned when --repo names a repository outside the fleet.
	ErrUnknownRepository = errors.New("repository not in known repos")

	// ErrPackageNotFound is returned when the index package filter matches nothing.
	ErrPackageNotFound = errors.New("package not found in registry")
	// ErrRegistryNotFound is returned when the registry database file is missing.
	ErrRegistryNotFound = errors.New("registry file not found")
	// ErrConfigNotFound is returned when no settings file exists in the default locations.
	ErrConfigNotFound = errors.New("config file not found in default locations")
)
