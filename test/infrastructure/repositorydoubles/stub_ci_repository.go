//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
	"github.com/rios0rios0/fleetrelease/internal/domain/repositories"
)

// StubCIRepository implements repositories.CIRepository with canned, per-directory answers.
type StubCIRepository struct {
	// --- EnsureAvailable ---
	MissingTool bool

	// --- ListRuns ---
	// RunsByDir holds one run list per poll; the last one repeats once exhausted.
	RunsByDir map[string][][]entities.WorkflowRun
	ListErrs  map[string]error

	// --- RunLog ---
	Logs map[int64]string

	// --- ReleaseExists ---
	Releases map[string]bool // dir -> release published

	// --- TriggerWorkflow / RepoFullName ---
	TriggerErr error
	FullName   string

	// spy: calls received
	ListCalls map[string]int
	LogCalls  []int64
	Triggered []string
}

var _ repositories.CIRepository = (*StubCIRepository)(nil)

func (c *StubCIRepository) EnsureAvailable() error {
	if c.MissingTool {
		return fmt.Errorf("%w: gh", entities.ErrToolMissing)
	}
	return nil
}

func (c *StubCIRepository) ListRuns(_ context.Context, dir string, _ int) ([]entities.WorkflowRun, error) {
	if c.ListCalls == nil {
		c.ListCalls = make(map[string]int)
	}
	call := c.ListCalls[dir]
	c.ListCalls[dir]++

	if err := c.ListErrs[dir]; err != nil {
		return nil, err
	}
	sequence := c.RunsByDir[dir]
	if len(sequence) == 0 {
		return []entities.WorkflowRun{}, nil
	}
	if call >= len(sequence) {
		call = len(sequence) - 1
	}
	return sequence[call], nil
}

func (c *StubCIRepository) RunLog(_ context.Context, _ string, runID int64) (string, error) {
	c.LogCalls = append(c.LogCalls, runID)
	return c.Logs[runID], nil
}

func (c *StubCIRepository) ReleaseExists(_ context.Context, dir, _ string) bool {
	return c.Releases[dir]
}

func (c *StubCIRepository) TriggerWorkflow(_ context.Context, _, workflow string) error {
	c.Triggered = append(c.Triggered, workflow)
	if c.TriggerErr != nil {
		return fmt.Errorf("%w: %w", entities.ErrRegistryTrigger, c.TriggerErr)
	}
	return nil
}

func (c *StubCIRepository) RepoFullName(_ context.Context, _ string) (string, error) {
	if c.FullName == "" {
		return "", fmt.Errorf("no repository")
	}
	return c.FullName, nil
}
