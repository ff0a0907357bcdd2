package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
	"github.com/rios0rios0/fleetrelease/internal/domain/repositories"
)

// Release is the interface for the fleet release orchestrator.
type Release interface {
	Execute(ctx context.Context, settings *entities.Settings, opts ReleaseOptions) error
}

// ReleaseOptions holds runtime options for a single release.
type ReleaseOptions struct {
	Tag            string
	UpdateVersions bool
	NoWaitPriority bool   // tag the other repositories without waiting for the priority one
	OnlyRepository string // if set, release only this repository
	// Confirm asks the operator a yes/no question. A nil Confirm declines.
	Confirm func(prompt string) bool
}

// ReleaseCommand tags the whole fleet in dependency order, waits for the
// release workflows and triggers the registry rebuild. One orchestrator per
// workspace may run at a time: working copies and remotes are not locked.
type ReleaseCommand struct {
	tagRepository TagRepository
	waitWorkflows WaitWorkflows
	ci            repositories.CIRepository
	lookupEnv     func(string) string
	out           io.Writer
}

// NewReleaseCommand creates a new ReleaseCommand.
func NewReleaseCommand(
	tagRepository TagRepository,
	waitWorkflows WaitWorkflows,
	ci repositories.CIRepository,
) *ReleaseCommand {
	return NewReleaseCommandWithOutput(tagRepository, waitWorkflows, ci, os.Getenv, os.Stdout)
}

// NewReleaseCommandWithOutput creates a ReleaseCommand with an injected
// environment lookup and summary output.
func NewReleaseCommandWithOutput(
	tagRepository TagRepository,
	waitWorkflows WaitWorkflows,
	ci repositories.CIRepository,
	lookupEnv func(string) string,
	out io.Writer,
) *ReleaseCommand {
	return &ReleaseCommand{
		tagRepository: tagRepository,
		waitWorkflows: waitWorkflows,
		ci:            ci,
		lookupEnv:     lookupEnv,
		out:           out,
	}
}

// releaseSummary collects the per-repository outcomes for the final report.
type releaseSummary struct {
	tag         entities.VersionTag
	tagged      []string
	failed      []string
	monitorURL  string
	waitSkipped bool
}

// Execute runs the release. Per-repository tagging failures are logged and
// reported in the summary; waiting and triggering failures abort.
func (it *ReleaseCommand) Execute(ctx context.Context, settings *entities.Settings, opts ReleaseOptions) error {
	tag := entities.VersionTag(opts.Tag)

	logger.Info("=== Environment Diagnostics ===")
	logEnvPresence(entities.CollectEnvPresence(entities.TokenEnvVars, it.lookupEnv))

	if err := confirmTag(tag, opts.Confirm); err != nil {
		return err
	}

	selected, err := selectRepositories(settings, opts.OnlyRepository)
	if err != nil {
		return err
	}

	if availErr := it.ci.EnsureAvailable(); availErr != nil {
		return availErr
	}

	logger.Infof("Starting release process for version %s", tag)
	logger.Infof("Update versions: %t", opts.UpdateVersions)
	tagOpts := TagOptions{Tag: tag, UpdateVersions: opts.UpdateVersions}
	summary := &releaseSummary{tag: tag, waitSkipped: opts.NoWaitPriority}

	remaining := selected
	if opts.OnlyRepository == "" {
		if priority, ok := settings.PriorityRepository(); ok {
			it.tagOne(ctx, settings, priority, tagOpts, summary)

			if opts.NoWaitPriority {
				logger.Warnf("Skipping wait for %s release workflow", priority.Name)
			} else {
				logger.Infof("Waiting for %s to be published before tagging dependents...", priority.Name)
				if waitErr := it.waitWorkflows.Execute(ctx, settings, []entities.Repository{priority}, tag); waitErr != nil {
					return fmt.Errorf("%s release did not publish: %w", priority.Name, waitErr)
				}
				logger.Infof("%s %s is published", priority.Name, tag)
			}
			remaining = withoutRepository(selected, priority.Name)
		}
	}

	for _, repo := range remaining {
		it.tagOne(ctx, settings, repo, tagOpts, summary)
	}

	if waitErr := it.waitWorkflows.Execute(ctx, settings, selected, tag); waitErr != nil {
		return waitErr
	}

	monitorURL, triggerErr := it.triggerRegistry(ctx, settings)
	if triggerErr != nil {
		return triggerErr
	}
	summary.monitorURL = monitorURL

	_, _ = fmt.Fprintln(it.out, renderSummary(summary))
	return nil
}

func (it *ReleaseCommand) tagOne(
	ctx context.Context,
	settings *entities.Settings,
	repo entities.Repository,
	opts TagOptions,
	summary *releaseSummary,
) {
	logger.Infof("[release] %s", repo.Name)
	if err := it.tagRepository.Execute(ctx, settings, repo, opts); err != nil {
		logger.Errorf("[release] %s: %v", repo.Name, err)
		summary.failed = append(summary.failed, repo.Name)
		return
	}
	summary.tagged = append(summary.tagged, repo.Name)
}

// triggerRegistry starts the registry rebuild workflow and returns the URL
// to monitor it, or "" when the repository name cannot be resolved.
func (it *ReleaseCommand) triggerRegistry(ctx context.Context, settings *entities.Settings) (string, error) {
	registryDir := settings.Registry.Path
	logger.Infof("Triggering registry workflow %s...", settings.Registry.WorkflowID)
	if err := it.ci.TriggerWorkflow(ctx, registryDir, settings.Registry.WorkflowID); err != nil {
		return "", err
	}
	logger.Info("Registry workflow triggered successfully")

	fullName, err := it.ci.RepoFullName(ctx, registryDir)
	if err != nil {
		logger.Warnf("Could not resolve the registry repository name: %v", err)
		return "", nil
	}
	monitorURL := fmt.Sprintf("https://github.com/%s/actions/workflows/%s", fullName, settings.Registry.WorkflowID)
	logger.Infof("Monitor at: %s", monitorURL)
	return monitorURL, nil
}

// confirmTag warns about tags that do not follow the v-prefix convention and
// asks the operator before going on. Malformed versions only warn.
func confirmTag(tag entities.VersionTag, confirm func(string) bool) error {
	if !tag.IsConventional() {
		logger.Warnf("Version tag %q does not start with 'v'", tag)
		if confirm == nil || !confirm("Continue anyway? (y/n) ") {
			return fmt.Errorf("%w: tag %q", entities.ErrReleaseDeclined, tag)
		}
	}
	if !tag.IsValidSemver() {
		logger.Warnf("Version tag %q is not a valid semantic version", tag)
	}
	return nil
}

func selectRepositories(settings *entities.Settings, only string) ([]entities.Repository, error) {
	if only == "" {
		return settings.Fleet(), nil
	}
	repo, ok := settings.FindRepository(only)
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)",
			entities.ErrUnknownRepository, only, strings.Join(settings.RepositoryNames(), ", "))
	}
	return []entities.Repository{repo}, nil
}

func withoutRepository(repos []entities.Repository, name string) []entities.Repository {
	kept := make([]entities.Repository, 0, len(repos))
	for _, repo := range repos {
		if repo.Name != name {
			kept = append(kept, repo)
		}
	}
	return kept
}

func renderSummary(summary *releaseSummary) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")).
		Render("Release process completed successfully!")

	lines := []string{
		header,
		"",
		"Version: " + summary.tag.String(),
		fmt.Sprintf("Tagged repositories: %d", len(summary.tagged)),
	}
	if len(summary.failed) > 0 {
		failed := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).
			Render(fmt.Sprintf("Failed repositories: %s", strings.Join(summary.failed, ", ")))
		lines = append(lines, failed)
	}
	if summary.waitSkipped {
		lines = append(lines, "Priority workflow wait: skipped")
	}
	if summary.monitorURL != "" {
		lines = append(lines, "Registry workflow: "+summary.monitorURL)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("12")).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
