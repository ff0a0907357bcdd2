package entities

import "strings"

// CommandResult captures one finished subprocess invocation.
type CommandResult struct {
	Command  []string
	Dir      string
	Stdout   string
	Stderr   string
	ExitCode int
}

// Succeeded reports whether the command exited with status zero.
func (r *CommandResult) Succeeded() bool { return r != nil && r.ExitCode == 0 }

// CommandLine returns the command as a single printable string, with any
// credentials embedded in URL arguments masked.
func (r *CommandResult) CommandLine() string { return MaskedCommandLine(r.Command) }

// MaskedCommandLine joins a command for logging, masking URL credentials.
func MaskedCommandLine(command []string) string {
	masked := make([]string, len(command))
	for i, arg := range command {
		masked[i] = MaskURLCredentials(arg)
	}
	return strings.Join(masked, " ")
}

// StdoutOrEmpty returns stdout, or "(empty)" for diagnostics when there is none.
func (r *CommandResult) StdoutOrEmpty() string { return orEmpty(r.Stdout) }

// StderrOrEmpty returns stderr, or "(empty)" for diagnostics when there is none.
func (r *CommandResult) StderrOrEmpty() string { return orEmpty(r.Stderr) }

func orEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(empty)"
	}
	return strings.TrimSpace(s)
}
