package controllers

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/fleetrelease/internal/domain/commands"
	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
)

// PollController handles the "poll" subcommand.
type PollController struct {
	command commands.PollExternal
}

// NewPollController creates a new PollController.
func NewPollController(command commands.PollExternal) *PollController {
	return &PollController{command: command}
}

// GetBind returns the Cobra command metadata for the poll controller.
func (it *PollController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "poll",
		Short: "Refresh external packages of the registry from their latest releases",
		Long: `Check every registry package hosted outside the home organization for a
newer release with wheels and record its version. With --discover, public
repositories named with the discovery prefix are searched and added.`,
		Args: cobra.NoArgs,
	}
}

// Execute polls the external packages.
func (it *PollController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	discover, _ := cmd.Flags().GetBool("discover")
	registryPath, _ := cmd.Flags().GetString("registry")

	return it.command.Execute(context.Background(), settings, commands.PollExternalOptions{
		RegistryPath: registryPath,
		Token:        resolveRegistryToken("", settings, nil),
		Discover:     discover,
	})
}

// AddFlags adds the poll-specific flags to the given Cobra command.
func (it *PollController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("discover", false, "Search for new third-party packages")
	cmd.Flags().String("registry", "", "Path to the registry index.json (default: from config)")
}
