package commands

import (
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
)

// logDiagnostics prints a git diagnostics snapshot.
func logDiagnostics(diag entities.GitDiagnostics) {
	logger.Infof("=== Git Diagnostics for %s ===", diag.Path)
	if !diag.IsRepository {
		logger.Warnf("  %s is not a git repository", diag.Path)
	}
	logger.Infof("  user.name: %s", valueOrNotSet(diag.UserName))
	logger.Infof("  user.email: %s", valueOrNotSet(diag.UserEmail))
	for _, remote := range diag.Remotes {
		logger.Infof("  remote: %s", remote)
	}
	if diag.CurrentBranch != "" {
		logger.Infof("  branch: %s", diag.CurrentBranch)
	}
	if diag.Status != "" {
		logger.Infof("  status:\n%s", diag.Status)
	} else {
		logger.Info("  status: clean")
	}
	logEnvPresence(diag.Environment)
	logger.Info("=== End Diagnostics ===")
}

func logEnvPresence(presence []entities.EnvPresence) {
	for _, env := range presence {
		if env.Set {
			logger.Infof("  %s: %s", env.Name, env.Value)
		} else {
			logger.Warnf("  %s: not set", env.Name)
		}
	}
}

// logCommandFailure prints the output of a failed tool invocation.
func logCommandFailure(result *entities.CommandResult) {
	if result == nil {
		return
	}
	logger.Errorf("  Command: %s", result.CommandLine())
	logger.Errorf("  Exit code: %d", result.ExitCode)
	logger.Errorf("  stdout: %s", result.StdoutOrEmpty())
	logger.Errorf("  stderr: %s", result.StderrOrEmpty())
}

func valueOrNotSet(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}
