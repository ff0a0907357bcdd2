package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
)

const exitCodeNotStarted = -1

// ExecShellRepository runs commands as child processes of the current one,
// inheriting its environment.
type ExecShellRepository struct{}

// NewExecShellRepository creates a new ExecShellRepository.
func NewExecShellRepository() *ExecShellRepository {
	return &ExecShellRepository{}
}

func (r *ExecShellRepository) Run(
	ctx context.Context,
	dir, name string,
	args ...string,
) (*entities.CommandResult, error) {
	command := append([]string{name}, args...)
	logger.Debugf("Running: %s (cwd=%s)", entities.MaskedCommandLine(command), dir)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	result := &entities.CommandResult{
		Command: command,
		Dir:     dir,
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
	}
	if runErr == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	} else {
		result.ExitCode = exitCodeNotStarted
	}
	logger.Debugf("Command returned %d: %s", result.ExitCode, result.CommandLine())
	return result, fmt.Errorf("command %q failed: %w", result.CommandLine(), runErr)
}

func (r *ExecShellRepository) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
