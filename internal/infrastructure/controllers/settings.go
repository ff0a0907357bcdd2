package controllers

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
)

// registryTokenEnvVars are checked in order when no token flag or config token is given.
var registryTokenEnvVars = []string{"FLEETRELEASE_REGISTRY_TOKEN", "GITHUB_TOKEN"} //nolint:gochecknoglobals // fixed precedence

// loadSettings applies the global flags and loads the configuration.
func loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(logger.DebugLevel)
	}
	configPath, _ := cmd.Flags().GetString("config")
	return entities.LoadSettings(configPath)
}

// resolveRegistryToken picks the REST API token: the flag, then the config
// file, then the environment.
func resolveRegistryToken(flagValue string, settings *entities.Settings, lookup func(string) string) string {
	if flagValue != "" {
		return flagValue
	}
	if settings.Registry.Token != "" {
		return settings.Registry.Token
	}
	if lookup == nil {
		lookup = os.Getenv
	}
	for _, name := range registryTokenEnvVars {
		if value := lookup(name); value != "" {
			return value
		}
	}
	return ""
}
