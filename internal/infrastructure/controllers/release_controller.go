package controllers

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/fleetrelease/internal/domain/commands"
	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
)

// ReleaseController handles the "release" subcommand.
type ReleaseController struct {
	command commands.Release
	in      io.Reader
	out     io.Writer
}

// NewReleaseController creates a new ReleaseController prompting on the terminal.
func NewReleaseController(command commands.Release) *ReleaseController {
	return &ReleaseController{command: command, in: os.Stdin, out: os.Stdout}
}

// GetBind returns the Cobra command metadata for the release controller.
func (it *ReleaseController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "release <tag>",
		Short: "Tag every fleet repository and wait for the release workflows",
		Long: `Release the whole fleet at the given version tag (e.g. v1.2.3).

The priority repository is tagged first and its release workflow is awaited
before any dependent repository is touched. Every other repository is then
tagged in order, all release workflows are awaited, and finally the registry
rebuild workflow is triggered.

With --update-versions the version files of each repository (pyproject.toml,
package.json, Dockerfiles, workflow files, Terraform module refs) are bumped
and committed to the main branch before tagging.`,
		Args: cobra.ExactArgs(1),
	}
}

// Execute runs the release.
func (it *ReleaseController) Execute(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	updateVersions, _ := cmd.Flags().GetBool("update-versions")
	noWaitCore, _ := cmd.Flags().GetBool("no-wait-core")
	only, _ := cmd.Flags().GetString("repo")
	assumeYes, _ := cmd.Flags().GetBool("yes")

	confirm := it.prompt
	if assumeYes {
		confirm = func(string) bool { return true }
	}

	return it.command.Execute(context.Background(), settings, commands.ReleaseOptions{
		Tag:            args[0],
		UpdateVersions: updateVersions,
		NoWaitPriority: noWaitCore,
		OnlyRepository: only,
		Confirm:        confirm,
	})
}

// AddFlags adds the release-specific flags to the given Cobra command.
func (it *ReleaseController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("update-versions", "u", false, "Bump and commit version files before tagging")
	cmd.Flags().Bool("no-wait-core", false, "Do not wait for the priority repository's release workflow")
	cmd.Flags().String("repo", "", "Release only this repository")
	cmd.Flags().BoolP("yes", "y", false, "Answer yes to confirmation prompts")
}

func (it *ReleaseController) prompt(question string) bool {
	_, _ = fmt.Fprint(it.out, question)
	answer, err := bufio.NewReader(it.in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
