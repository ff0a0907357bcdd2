//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
	"github.com/rios0rios0/fleetrelease/internal/domain/repositories"
)

// PushCall records a single invocation of Push.
type PushCall struct {
	Path   string
	Remote string
	Ref    string
	Force  bool
}

// SpyGitRepository implements repositories.GitRepository as a configurable spy.
type SpyGitRepository struct {
	// --- IsWorkingCopy ---
	NotWorkingCopy bool

	// --- RemoteURL / SetRemoteURL ---
	Remote       string
	RemoteErr    error
	SetRemoteErr error
	SetRemotes   []string

	// --- Add / Commit / Push / Tag ---
	CommitErr error
	PushErrs  map[string]error // ref -> error
	TagErr    error

	// spy: calls received
	Added            [][]string
	Commits          []string
	Pushes           []PushCall
	Tags             []string
	DiagnosticsCalls int
}

var _ repositories.GitRepository = (*SpyGitRepository)(nil)

func (g *SpyGitRepository) IsWorkingCopy(_ string) bool { return !g.NotWorkingCopy }

func (g *SpyGitRepository) RemoteURL(_, _ string) (string, error) {
	if g.RemoteErr != nil {
		return "", g.RemoteErr
	}
	return g.Remote, nil
}

func (g *SpyGitRepository) SetRemoteURL(_ context.Context, _, _, url string) error {
	g.SetRemotes = append(g.SetRemotes, url)
	return g.SetRemoteErr
}

func (g *SpyGitRepository) Add(
	_ context.Context,
	path string,
	files []string,
) (*entities.CommandResult, error) {
	g.Added = append(g.Added, files)
	return &entities.CommandResult{Command: append([]string{"git", "add", "--"}, files...), Dir: path}, nil
}

func (g *SpyGitRepository) Commit(_ context.Context, path, message string) (*entities.CommandResult, error) {
	g.Commits = append(g.Commits, message)
	return g.result(path, g.CommitErr, "git", "commit", "-m", message)
}

func (g *SpyGitRepository) Push(
	_ context.Context,
	path, remote, ref string,
	force bool,
) (*entities.CommandResult, error) {
	g.Pushes = append(g.Pushes, PushCall{Path: path, Remote: remote, Ref: ref, Force: force})
	return g.result(path, g.PushErrs[ref], "git", "push", remote, ref)
}

func (g *SpyGitRepository) Tag(_ context.Context, path, tag, message string) (*entities.CommandResult, error) {
	g.Tags = append(g.Tags, tag)
	return g.result(path, g.TagErr, "git", "tag", "-f", "-a", tag, "-m", message)
}

func (g *SpyGitRepository) Diagnostics(path string) entities.GitDiagnostics {
	g.DiagnosticsCalls++
	return entities.GitDiagnostics{Path: path, IsRepository: !g.NotWorkingCopy}
}

// PushedRefs returns the refs of every recorded push, in order.
func (g *SpyGitRepository) PushedRefs() []string {
	refs := make([]string, 0, len(g.Pushes))
	for _, push := range g.Pushes {
		refs = append(refs, push.Ref)
	}
	return refs
}

func (g *SpyGitRepository) result(path string, err error, command ...string) (*entities.CommandResult, error) {
	result := &entities.CommandResult{Command: command, Dir: path}
	if err != nil {
		result.ExitCode = 1
		result.Stderr = err.Error()
	}
	return result, err
}
