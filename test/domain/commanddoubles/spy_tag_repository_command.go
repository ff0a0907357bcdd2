//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/fleetrelease/internal/domain/commands"
	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
)

// SpyTagRepositoryCommand implements commands.TagRepository and records the
// repositories it was asked to release.
type SpyTagRepositoryCommand struct {
	Errs map[string]error // repository name -> error

	// spy: calls received
	Repositories []string
	LastOpts     commands.TagOptions
	// Events is shared with other doubles to assert the interleaving of calls.
	Events *[]string
}

var _ commands.TagRepository = (*SpyTagRepositoryCommand)(nil)

func (s *SpyTagRepositoryCommand) Execute(
	_ context.Context,
	_ *entities.Settings,
	repo entities.Repository,
	opts commands.TagOptions,
) error {
	s.Repositories = append(s.Repositories, repo.Name)
	s.LastOpts = opts
	if s.Events != nil {
		*s.Events = append(*s.Events, "tag:"+repo.Name)
	}
	return s.Errs[repo.Name]
}
