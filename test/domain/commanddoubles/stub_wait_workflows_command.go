//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"strings"

	"github.com/rios0rios0/fleetrelease/internal/domain/commands"
	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
)

// StubWaitWorkflowsCommand implements commands.WaitWorkflows. Each call
// returns the next error of Errs (nil once exhausted).
type StubWaitWorkflowsCommand struct {
	Errs []error

	// spy: repository names of every call
	Calls  [][]string
	Events *[]string
}

var _ commands.WaitWorkflows = (*StubWaitWorkflowsCommand)(nil)

func (s *StubWaitWorkflowsCommand) Execute(
	_ context.Context,
	_ *entities.Settings,
	repos []entities.Repository,
	_ entities.VersionTag,
) error {
	names := make([]string, 0, len(repos))
	for _, repo := range repos {
		names = append(names, repo.Name)
	}
	call := len(s.Calls)
	s.Calls = append(s.Calls, names)
	if s.Events != nil {
		*s.Events = append(*s.Events, "wait:"+strings.Join(names, ","))
	}
	if call < len(s.Errs) {
		return s.Errs[call]
	}
	return nil
}
