package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register command constructors
	constructors := []any{
		NewTagRepositoryCommand,
		NewWaitWorkflowsCommand,
		NewReleaseCommand,
		NewBuildIndexCommand,
		NewGenerateMetadataCommand,
		NewPollExternalCommand,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *TagRepositoryCommand) TagRepository {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *WaitWorkflowsCommand) WaitWorkflows {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *ReleaseCommand) Release {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *BuildIndexCommand) BuildIndex {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *GenerateMetadataCommand) GenerateMetadata {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *PollExternalCommand) PollExternal {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
