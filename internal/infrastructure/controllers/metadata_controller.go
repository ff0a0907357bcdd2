package controllers

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/fleetrelease/internal/domain/commands"
	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
)

// MetadataController handles the "metadata" subcommand.
type MetadataController struct {
	command commands.GenerateMetadata
}

// NewMetadataController creates a new MetadataController.
func NewMetadataController(command commands.GenerateMetadata) *MetadataController {
	return &MetadataController{command: command}
}

// GetBind returns the Cobra command metadata for the metadata controller.
func (it *MetadataController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "metadata",
		Short: "Generate registry.json, packages.json and the usage documents",
		Args:  cobra.NoArgs,
	}
}

// Execute generates the metadata files.
func (it *MetadataController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	outputDir, _ := cmd.Flags().GetString("output-dir")
	return it.command.Execute(context.Background(), settings, commands.GenerateMetadataOptions{OutputDir: outputDir})
}

// AddFlags adds the metadata-specific flags to the given Cobra command.
func (it *MetadataController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("output-dir", "docs", "Directory holding simple/ and receiving the metadata files")
}
