package entities

const (
	runStatusCompleted     = "completed"
	runConclusionSuccess   = "success"
	runConclusionFailure   = "failure"
	runConclusionCancelled = "cancelled"
)

// WorkflowRun is one CI run as reported by the CI platform. It is queried
// fresh on every poll and never cached.
type WorkflowRun struct {
	ID           int64  `json:"databaseId"`
	Status       string `json:"status"`
	Conclusion   string `json:"conclusion"`
	Branch       string `json:"headBranch"`
	HeadSHA      string `json:"headSha"`
	Event        string `json:"event"`
	WorkflowName string `json:"workflowName"`
}

// WorkflowState is the poller's classification of a repository's release run.
type WorkflowState int

const (
	WorkflowPending WorkflowState = iota
	WorkflowSucceeded
	WorkflowFailed
)

func (s WorkflowState) String() string {
	switch s {
	case WorkflowSucceeded:
		return "succeeded"
	case WorkflowFailed:
		return "failed"
	default:
		return "pending"
	}
}

// IsTerminal reports whether the state will not change on later polls.
func (s WorkflowState) IsTerminal() bool { return s != WorkflowPending }

// LookupOutcome separates the reasons a release run may be missing.
type LookupOutcome int

const (
	// LookupFound means a matching run exists.
	LookupFound LookupOutcome = iota
	// LookupNoMatch means the run list was fetched but held no matching run.
	LookupNoMatch
	// LookupQueryFailed means the run list could not be fetched or decoded.
	LookupQueryFailed
)

// RunLookup is the result of searching the recent runs for a release run.
type RunLookup struct {
	Run     *WorkflowRun
	Outcome LookupOutcome
	Err     error
}

// FindReleaseRun returns the first run (most recent first) whose branch is
// the release tag and whose workflow name is one of the release workflows.
func FindReleaseRun(runs []WorkflowRun, tag string, releaseWorkflows []string) *WorkflowRun {
	names := make(map[string]bool, len(releaseWorkflows))
	for _, name := range releaseWorkflows {
		names[name] = true
	}
	for i := range runs {
		if runs[i].Branch == tag && names[runs[i].WorkflowName] {
			return &runs[i]
		}
	}
	return nil
}

// ClassifyRun maps a run's status and conclusion onto a WorkflowState.
// Completed runs with conclusions other than failure or cancelled count as
// succeeded.
func ClassifyRun(run WorkflowRun) WorkflowState {
	if run.Status != runStatusCompleted {
		return WorkflowPending
	}
	switch run.Conclusion {
	case runConclusionFailure, runConclusionCancelled:
		return WorkflowFailed
	default:
		return WorkflowSucceeded
	}
}
