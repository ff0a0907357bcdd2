package controllers

import (
	"io"

	"github.com/rios0rios0/fleetrelease/internal/domain/commands"
)

// ResolveRegistryToken exports resolveRegistryToken for testing.
var ResolveRegistryToken = resolveRegistryToken //nolint:gochecknoglobals // test export

// NewReleaseControllerWithIO creates a ReleaseController prompting on the given streams.
func NewReleaseControllerWithIO(command commands.Release, in io.Reader, out io.Writer) *ReleaseController {
	return &ReleaseController{command: command, in: in, out: out}
}
