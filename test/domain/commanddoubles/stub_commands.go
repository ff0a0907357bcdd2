//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/fleetrelease/internal/domain/commands"
	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
)

// StubReleaseCommand is a stub implementation of commands.Release.
type StubReleaseCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	LastSettings     *entities.Settings
	LastOpts         commands.ReleaseOptions
}

var _ commands.Release = (*StubReleaseCommand)(nil)

func (s *StubReleaseCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.ReleaseOptions,
) error {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	return s.ExecuteErr
}

// StubBuildIndexCommand is a stub implementation of commands.BuildIndex.
type StubBuildIndexCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	LastOpts         commands.BuildIndexOptions
}

var _ commands.BuildIndex = (*StubBuildIndexCommand)(nil)

func (s *StubBuildIndexCommand) Execute(
	_ context.Context,
	_ *entities.Settings,
	opts commands.BuildIndexOptions,
) error {
	s.ExecuteCallCount++
	s.LastOpts = opts
	return s.ExecuteErr
}

// StubGenerateMetadataCommand is a stub implementation of commands.GenerateMetadata.
type StubGenerateMetadataCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	LastOpts         commands.GenerateMetadataOptions
}

var _ commands.GenerateMetadata = (*StubGenerateMetadataCommand)(nil)

func (s *StubGenerateMetadataCommand) Execute(
	_ context.Context,
	_ *entities.Settings,
	opts commands.GenerateMetadataOptions,
) error {
	s.ExecuteCallCount++
	s.LastOpts = opts
	return s.ExecuteErr
}

// StubPollExternalCommand is a stub implementation of commands.PollExternal.
type StubPollExternalCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	LastOpts         commands.PollExternalOptions
}

var _ commands.PollExternal = (*StubPollExternalCommand)(nil)

func (s *StubPollExternalCommand) Execute(
	_ context.Context,
	_ *entities.Settings,
	opts commands.PollExternalOptions,
) error {
	s.ExecuteCallCount++
	s.LastOpts = opts
	return s.ExecuteErr
}
