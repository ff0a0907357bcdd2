package entities

import (
	"os"
	"strings"
)

const (
	maskedValue     = "masked"
	maskVisibleRune = 4
)

// TokenEnvVars lists the CI authentication variables in precedence order.
var TokenEnvVars = []string{"GH_PAT", "GITHUB_TOKEN", "GH_TOKEN"} //nolint:gochecknoglobals // fixed precedence

// DiagnosticEnvVars are reported in git diagnostics; token values are masked.
var DiagnosticEnvVars = []string{ //nolint:gochecknoglobals // fixed list
	"GH_PAT", "GITHUB_TOKEN", "GIT_AUTHOR_NAME", "GIT_AUTHOR_EMAIL",
}

// ResolveTokenFromEnv returns the first non-empty token among TokenEnvVars
// together with the variable it came from.
func ResolveTokenFromEnv(lookup func(string) string) (string, string) {
	if lookup == nil {
		lookup = os.Getenv
	}
	for _, name := range TokenEnvVars {
		if value := lookup(name); value != "" {
			return value, name
		}
	}
	return "", ""
}

// MaskSecret keeps the first and last four characters of a secret and hides
// the rest. Short secrets are hidden entirely.
func MaskSecret(value string) string {
	if len(value) <= 2*maskVisibleRune {
		return "***"
	}
	return value[:maskVisibleRune] + "..." + value[len(value)-maskVisibleRune:]
}

// IsSecretEnvVar reports whether the variable holds a credential that must be masked.
func IsSecretEnvVar(name string) bool {
	return strings.Contains(name, "TOKEN") || strings.Contains(name, "PAT")
}

// CollectEnvPresence reports which of the named variables are set. Secret
// values are masked with MaskSecret.
func CollectEnvPresence(names []string, lookup func(string) string) []EnvPresence {
	if lookup == nil {
		lookup = os.Getenv
	}
	presence := make([]EnvPresence, 0, len(names))
	for _, name := range names {
		value := lookup(name)
		entry := EnvPresence{Name: name, Set: value != ""}
		switch {
		case !entry.Set:
		case IsSecretEnvVar(name):
			entry.Value = MaskSecret(value)
		default:
			entry.Value = value
		}
		presence = append(presence, entry)
	}
	return presence
}
