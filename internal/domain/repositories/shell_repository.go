package repositories

import (
	"context"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
)

// ShellRepository runs external command-line tools.
type ShellRepository interface {
	// Run executes name with args in dir and captures both output streams.
	// The returned result is never nil; the error is non-nil when the
	// command could not be started or exited with a non-zero status.
	Run(ctx context.Context, dir, name string, args ...string) (*entities.CommandResult, error)

	// LookPath reports the absolute path of a tool, or an error when it is not installed.
	LookPath(name string) (string, error)
}
