//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"strings"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
	"github.com/rios0rios0/fleetrelease/internal/domain/repositories"
)

// ShellCall records one invocation of Run.
type ShellCall struct {
	Dir     string
	Command []string
}

// ShellResponse is the canned output for every command line starting with
// Prefix. When Dir is set the response only applies to that directory.
type ShellResponse struct {
	Prefix   string
	Dir      string
	Stdout   string
	Stderr   string
	ExitCode int
}

// SpyShellRepository implements repositories.ShellRepository as a configurable spy.
// Commands without a matching response succeed with empty output.
type SpyShellRepository struct {
	Responses   []ShellResponse
	LookPathErr error

	// spy: commands that were run
	Calls []ShellCall
}

var _ repositories.ShellRepository = (*SpyShellRepository)(nil)

func (s *SpyShellRepository) Run(
	_ context.Context,
	dir, name string,
	args ...string,
) (*entities.CommandResult, error) {
	command := append([]string{name}, args...)
	s.Calls = append(s.Calls, ShellCall{Dir: dir, Command: command})

	result := &entities.CommandResult{Command: command, Dir: dir}
	line := strings.Join(command, " ")
	for _, response := range s.Responses {
		if !strings.HasPrefix(line, response.Prefix) || (response.Dir != "" && response.Dir != dir) {
			continue
		}
		result.Stdout = response.Stdout
		result.Stderr = response.Stderr
		result.ExitCode = response.ExitCode
		break
	}

	if result.ExitCode != 0 {
		return result, fmt.Errorf("command %q exited with status %d", line, result.ExitCode)
	}
	return result, nil
}

func (s *SpyShellRepository) LookPath(name string) (string, error) {
	if s.LookPathErr != nil {
		return "", s.LookPathErr
	}
	return "/usr/bin/" + name, nil
}

// CommandLines returns every recorded command joined with spaces.
func (s *SpyShellRepository) CommandLines() []string {
	lines := make([]string, 0, len(s.Calls))
	for _, call := range s.Calls {
		lines = append(lines, strings.Join(call.Command, " "))
	}
	return lines
}
