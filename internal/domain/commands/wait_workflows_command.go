package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
	"github.com/rios0rios0/fleetrelease/internal/domain/repositories"
)

// WaitWorkflows is the interface for the release workflow poller.
type WaitWorkflows interface {
	Execute(ctx context.Context, settings *entities.Settings, repos []entities.Repository, tag entities.VersionTag) error
}

// WaitWorkflowsCommand blocks until the release workflow of every given
// repository has finished, polling the CI platform at a fixed interval.
type WaitWorkflowsCommand struct {
	ci    repositories.CIRepository
	sleep func(time.Duration)
	out   io.Writer
}

// NewWaitWorkflowsCommand creates a new WaitWorkflowsCommand that sleeps in
// real time and prints failed run logs to stdout.
func NewWaitWorkflowsCommand(ci repositories.CIRepository) *WaitWorkflowsCommand {
	return NewWaitWorkflowsCommandWithClock(ci, time.Sleep, os.Stdout)
}

// NewWaitWorkflowsCommandWithClock creates a WaitWorkflowsCommand with an
// injected sleeper and log output.
func NewWaitWorkflowsCommandWithClock(
	ci repositories.CIRepository,
	sleep func(time.Duration),
	out io.Writer,
) *WaitWorkflowsCommand {
	return &WaitWorkflowsCommand{ci: ci, sleep: sleep, out: out}
}

// Execute polls until every repository is terminal. It returns
// entities.ErrWorkflowFailed when any of them failed, and
// entities.ErrWorkflowTimeout when the polling budget runs out first.
// Repositories whose directory is missing are not waited for.
func (it *WaitWorkflowsCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	repos []entities.Repository,
	tag entities.VersionTag,
) error {
	interval := settings.Polling.Interval
	maxWait := settings.Polling.MaxWait
	logsPrinted := make(map[string]bool)

	logger.Infof("Waiting for release workflows of %s...", tag)
	for elapsed := time.Duration(0); elapsed < maxWait; elapsed += interval {
		if err := ctx.Err(); err != nil {
			return err
		}

		allDone := true
		anyFailed := false
		for _, repo := range repos {
			if !dirExists(repo.Path) {
				continue
			}

			state, lookup := it.checkRepository(ctx, settings, repo, tag)
			switch state {
			case entities.WorkflowSucceeded:
				logger.Infof("  Release workflow completed for %s", repo.Name)
			case entities.WorkflowFailed:
				logger.Errorf("  Release workflow failed or cancelled for %s", repo.Name)
				anyFailed = true
				if !logsPrinted[repo.Name] {
					logsPrinted[repo.Name] = true
					it.printLogs(ctx, repo, lookup.Run)
				}
			default:
				logger.Infof("  Waiting for release workflow in %s...", repo.Name)
				allDone = false
			}
		}

		if allDone {
			if anyFailed {
				return entities.ErrWorkflowFailed
			}
			logger.Info("All release workflows completed successfully")
			return nil
		}

		it.sleep(interval)
		logger.Infof("Elapsed time: %s / %s", elapsed+interval, maxWait)
	}

	return fmt.Errorf("%w after %s", entities.ErrWorkflowTimeout, maxWait)
}

// checkRepository classifies the release run of one repository. When no
// run can be found the published release decides between succeeded and pending.
func (it *WaitWorkflowsCommand) checkRepository(
	ctx context.Context,
	settings *entities.Settings,
	repo entities.Repository,
	tag entities.VersionTag,
) (entities.WorkflowState, entities.RunLookup) {
	lookup := it.findRun(ctx, settings, repo, tag)
	if lookup.Outcome == entities.LookupFound {
		return entities.ClassifyRun(*lookup.Run), lookup
	}

	if lookup.Outcome == entities.LookupQueryFailed {
		logger.Debugf("  Could not list workflow runs for %s: %v", repo.Name, lookup.Err)
	}
	if it.ci.ReleaseExists(ctx, repo.Path, tag.String()) {
		return entities.WorkflowSucceeded, lookup
	}
	return entities.WorkflowPending, lookup
}

func (it *WaitWorkflowsCommand) findRun(
	ctx context.Context,
	settings *entities.Settings,
	repo entities.Repository,
	tag entities.VersionTag,
) entities.RunLookup {
	runs, err := it.ci.ListRuns(ctx, repo.Path, settings.Polling.RunLimit)
	if err != nil {
		return entities.RunLookup{Outcome: entities.LookupQueryFailed, Err: err}
	}
	run := entities.FindReleaseRun(runs, tag.String(), settings.ReleaseWorkflows)
	if run == nil {
		return entities.RunLookup{Outcome: entities.LookupNoMatch}
	}
	return entities.RunLookup{Run: run, Outcome: entities.LookupFound}
}

func (it *WaitWorkflowsCommand) printLogs(ctx context.Context, repo entities.Repository, run *entities.WorkflowRun) {
	if run == nil {
		logger.Warnf("  Could not find the workflow run of %s to fetch logs", repo.Name)
		return
	}

	logs, err := it.ci.RunLog(ctx, repo.Path, run.ID)
	if err != nil {
		logger.Warnf("  Failed to fetch logs of run %d for %s: %v", run.ID, repo.Name, err)
		return
	}

	_, _ = fmt.Fprintf(it.out, "===== Logs for %s (run %d) =====\n%s\n===== End of logs for %s =====\n",
		repo.Name, run.ID, logs, repo.Name)
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
