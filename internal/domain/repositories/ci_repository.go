package repositories

import (
	"context"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
)

// CIRepository queries and drives the remote CI platform for the repository
// checked out at a given directory.
type CIRepository interface {
	// EnsureAvailable fails with entities.ErrToolMissing when the CI tool is not installed.
	EnsureAvailable() error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, dir string, limit int) ([]entities.WorkflowRun, error)

	// RunLog returns the full log of a run.
	RunLog(ctx context.Context, dir string, runID int64) (string, error)

	// ReleaseExists reports whether a published release exists for the tag.
	ReleaseExists(ctx context.Context, dir, tag string) bool

	// TriggerWorkflow dispatches the workflow with the given name or numeric id.
	TriggerWorkflow(ctx context.Context, dir, workflow string) error

	// RepoFullName returns the "owner/repo" name of the repository at dir.
	RepoFullName(ctx context.Context, dir string) (string, error)
}
