package controllers

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/fleetrelease/internal/domain/commands"
	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
)

// IndexController handles the "index" subcommand.
type IndexController struct {
	command commands.BuildIndex
}

// NewIndexController creates a new IndexController.
func NewIndexController(command commands.BuildIndex) *IndexController {
	return &IndexController{command: command}
}

// GetBind returns the Cobra command metadata for the index controller.
func (it *IndexController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "index",
		Short: "Build the PEP 503 package index from published releases",
		Long: `Build a static Simple Repository API index for every package of the registry.

Each package page lists the wheels of its stable releases, newest first,
with their size and PEP 658 metadata digest when available. The root page
links every package with its wheel count.`,
		Args: cobra.NoArgs,
	}
}

// Execute builds the index.
func (it *IndexController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	outputDir, _ := cmd.Flags().GetString("output-dir")
	tokenFlag, _ := cmd.Flags().GetString("github-token")
	forceRebuild, _ := cmd.Flags().GetBool("force-rebuild")
	packageFilter, _ := cmd.Flags().GetString("package-filter")
	registryPath, _ := cmd.Flags().GetString("registry")
	manifestPath, _ := cmd.Flags().GetString("manifest")

	return it.command.Execute(context.Background(), settings, commands.BuildIndexOptions{
		OutputDir:     outputDir,
		Token:         resolveRegistryToken(tokenFlag, settings, nil),
		ForceRebuild:  forceRebuild,
		PackageFilter: packageFilter,
		RegistryPath:  registryPath,
		ManifestPath:  manifestPath,
	})
}

// AddFlags adds the index-specific flags to the given Cobra command.
func (it *IndexController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("output-dir", "dist", "Directory receiving the index pages")
	cmd.Flags().String("github-token", "", "GitHub token (default: FLEETRELEASE_REGISTRY_TOKEN or GITHUB_TOKEN)")
	cmd.Flags().Bool("force-rebuild", false, "Ignore counts recorded by a previous build")
	cmd.Flags().String("package-filter", "", "Rebuild only this package")
	cmd.Flags().String("registry", "", "Path to the registry index.json (default: from config)")
	cmd.Flags().String("manifest", "", "Previous packages.json (default: <output-dir>/../packages.json)")
}
