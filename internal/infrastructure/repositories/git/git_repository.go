package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
	"github.com/rios0rios0/fleetrelease/internal/domain/repositories"
)

const gitBinary = "git"

// GitRepository inspects working copies with go-git and mutates them with
// the git tool, so pushes use the operator's credential setup.
type GitRepository struct {
	shell  repositories.ShellRepository
	lookup func(string) string
}

// NewGitRepository creates a new GitRepository running git through shell.
func NewGitRepository(shell repositories.ShellRepository) *GitRepository {
	return &GitRepository{shell: shell, lookup: os.Getenv}
}

// NewGitRepositoryWithEnv creates a GitRepository that reads diagnostic
// environment variables through lookup instead of the process environment.
func NewGitRepositoryWithEnv(shell repositories.ShellRepository, lookup func(string) string) *GitRepository {
	return &GitRepository{shell: shell, lookup: lookup}
}

func (r *GitRepository) IsWorkingCopy(path string) bool {
	_, err := gogit.PlainOpen(path)
	return err == nil
}

func (r *GitRepository) RemoteURL(path, remote string) (string, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", entities.ErrNotWorkingCopy, path)
	}
	rem, err := repo.Remote(remote)
	if err != nil {
		return "", fmt.Errorf("failed to read remote %q: %w", remote, err)
	}
	urls := rem.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no URL", remote)
	}
	return urls[0], nil
}

func (r *GitRepository) SetRemoteURL(ctx context.Context, path, remote, url string) error {
	_, err := r.shell.Run(ctx, path, gitBinary, "remote", "set-url", remote, url)
	return err
}

func (r *GitRepository) Add(ctx context.Context, path string, files []string) (*entities.CommandResult, error) {
	args := append([]string{"add", "--"}, files...)
	return r.shell.Run(ctx, path, gitBinary, args...)
}

func (r *GitRepository) Commit(ctx context.Context, path, message string) (*entities.CommandResult, error) {
	return r.shell.Run(ctx, path, gitBinary, "commit", "-m", message)
}

func (r *GitRepository) Push(
	ctx context.Context,
	path, remote, ref string,
	force bool,
) (*entities.CommandResult, error) {
	args := []string{"push", "-v"}
	if force {
		args = append(args, "-f")
	}
	args = append(args, remote, ref)
	return r.shell.Run(ctx, path, gitBinary, args...)
}

func (r *GitRepository) Tag(ctx context.Context, path, tag, message string) (*entities.CommandResult, error) {
	return r.shell.Run(ctx, path, gitBinary, "tag", "-f", "-a", tag, "-m", message)
}

// Diagnostics never fails; whatever cannot be read is left empty.
func (r *GitRepository) Diagnostics(path string) entities.GitDiagnostics {
	diagnostics := entities.GitDiagnostics{
		Path:        path,
		Environment: entities.CollectEnvPresence(entities.DiagnosticEnvVars, r.lookup),
	}

	if info, err := os.Stat(filepath.Join(path, ".git")); err == nil && info.IsDir() {
		diagnostics.IsRepository = true
	}

	repo, err := gogit.PlainOpen(path)
	if err != nil {
		logger.Debugf("Could not open %s for diagnostics: %v", path, err)
		return diagnostics
	}

	if cfg, cfgErr := repo.ConfigScoped(config.GlobalScope); cfgErr == nil {
		diagnostics.UserName = cfg.User.Name
		diagnostics.UserEmail = cfg.User.Email
	}

	if remotes, remotesErr := repo.Remotes(); remotesErr == nil {
		for _, remote := range remotes {
			for _, url := range remote.Config().URLs {
				diagnostics.Remotes = append(diagnostics.Remotes,
					remote.Config().Name+"\t"+entities.MaskURLCredentials(url))
			}
		}
		sort.Strings(diagnostics.Remotes)
	}

	if worktree, wtErr := repo.Worktree(); wtErr == nil {
		if status, statusErr := worktree.Status(); statusErr == nil {
			diagnostics.Status = strings.TrimRight(status.String(), "\n")
		}
	}

	if head, headErr := repo.Head(); headErr == nil && head.Name().IsBranch() {
		diagnostics.CurrentBranch = head.Name().Short()
	}

	return diagnostics
}
