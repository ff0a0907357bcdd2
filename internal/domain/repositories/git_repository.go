package repositories

import (
	"context"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
)

// GitRepository abstracts the source-control operations performed on a
// local working copy during a release. Read-only inspection goes through
// the repository object model, mutations go through the git tool so that
// credential helpers and hooks behave as they would for an operator.
type GitRepository interface {
	// IsWorkingCopy reports whether path opens as a git repository.
	IsWorkingCopy(path string) bool

	// RemoteURL returns the first URL of the named remote.
	RemoteURL(path, remote string) (string, error)

	// SetRemoteURL replaces the URL of the named remote.
	SetRemoteURL(ctx context.Context, path, remote, url string) error

	// Add stages exactly the given paths, relative to the working copy root.
	Add(ctx context.Context, path string, files []string) (*entities.CommandResult, error)

	// Commit records the staged changes with the given message.
	Commit(ctx context.Context, path, message string) (*entities.CommandResult, error)

	// Push pushes ref to remote, force-updating it when force is set.
	Push(ctx context.Context, path, remote, ref string, force bool) (*entities.CommandResult, error)

	// Tag creates or overwrites an annotated tag on HEAD.
	Tag(ctx context.Context, path, tag, message string) (*entities.CommandResult, error)

	// Diagnostics collects identity, remotes, status, branch and env presence.
	Diagnostics(path string) entities.GitDiagnostics
}
