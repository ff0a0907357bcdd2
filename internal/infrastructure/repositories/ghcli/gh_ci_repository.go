package ghcli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
	"github.com/rios0rios0/fleetrelease/internal/domain/repositories"
)

const (
	ghBinary  = "gh"
	runFields = "databaseId,status,conclusion,headBranch,headSha,event,workflowName"
)

// GhCIRepository drives GitHub Actions through the gh tool, which resolves
// the target repository from the working directory it runs in.
type GhCIRepository struct {
	shell repositories.ShellRepository
}

// NewGhCIRepository creates a new GhCIRepository.
func NewGhCIRepository(shell repositories.ShellRepository) *GhCIRepository {
	return &GhCIRepository{shell: shell}
}

func (r *GhCIRepository) EnsureAvailable() error {
	if _, err := r.shell.LookPath(ghBinary); err != nil {
		return fmt.Errorf("%w: %s", entities.ErrToolMissing, ghBinary)
	}
	return nil
}

func (r *GhCIRepository) ListRuns(ctx context.Context, dir string, limit int) ([]entities.WorkflowRun, error) {
	result, err := r.shell.Run(ctx, dir, ghBinary,
		"run", "list", "--limit", strconv.Itoa(limit), "--json", runFields)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow runs: %w", err)
	}

	var runs []entities.WorkflowRun
	if decodeErr := json.Unmarshal([]byte(result.Stdout), &runs); decodeErr != nil {
		return nil, fmt.Errorf("failed to decode workflow runs: %w", decodeErr)
	}
	return runs, nil
}

func (r *GhCIRepository) RunLog(ctx context.Context, dir string, runID int64) (string, error) {
	result, err := r.shell.Run(ctx, dir, ghBinary, "run", "view", strconv.FormatInt(runID, 10), "--log")
	if err != nil {
		return "", fmt.Errorf("failed to retrieve workflow logs: %w", err)
	}
	return result.Stdout, nil
}

func (r *GhCIRepository) ReleaseExists(ctx context.Context, dir, tag string) bool {
	_, err := r.shell.Run(ctx, dir, ghBinary, "release", "view", tag)
	return err == nil
}

func (r *GhCIRepository) TriggerWorkflow(ctx context.Context, dir, workflow string) error {
	if _, err := r.shell.Run(ctx, dir, ghBinary, "workflow", "run", workflow); err != nil {
		return fmt.Errorf("%w: %w", entities.ErrRegistryTrigger, err)
	}
	return nil
}

func (r *GhCIRepository) RepoFullName(ctx context.Context, dir string) (string, error) {
	result, err := r.shell.Run(ctx, dir, ghBinary,
		"repo", "view", "--json", "nameWithOwner", "-q", ".nameWithOwner")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Stdout), nil
}
