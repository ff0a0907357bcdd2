package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	defaultPollInterval = 30 * time.Second
	defaultMaxWait      = 30 * time.Minute
	defaultRunLimit     = 20
)

// Settings is the top-level configuration for fleetrelease.
type Settings struct {
	Organization     string               `yaml:"organization"`
	Workspace        string               `yaml:"workspace"`
	MainBranch       string               `yaml:"main_branch"`
	Repositories     []RepositorySettings `yaml:"repositories"`
	ReleaseWorkflows []string             `yaml:"release_workflows"`
	Polling          PollingSettings      `yaml:"polling"`
	Versioning       VersioningSettings   `yaml:"versioning"`
	Registry         RegistrySettings     `yaml:"registry"`
}

// RepositorySettings describes one fleet member in the config file.
type RepositorySettings struct {
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`     // defaults to <workspace>/<name>
	Role     Role   `yaml:"role"`     // "library" (default) or "application"
	Priority bool   `yaml:"priority"` // released and awaited before everything else
}

// PollingSettings bounds the workflow poller.
type PollingSettings struct {
	Interval time.Duration `yaml:"interval"`
	MaxWait  time.Duration `yaml:"max_wait"`
	RunLimit int           `yaml:"run_limit"`
}

// VersioningSettings names the files and identifiers the version patches target.
type VersioningSettings struct {
	DependencyPackage  string   `yaml:"dependency_package"`   // pinned to the new version in pyproject.toml
	CoreRefKey         string   `yaml:"core_ref_key"`         // YAML key holding the core tag in WorkflowFile
	WorkflowFile       string   `yaml:"workflow_file"`        // relative to the repository root
	PinPrefix          string   `yaml:"pin_prefix"`           // prefix of inline name==X.Y.Z pins
	PackageScanCommand []string `yaml:"package_scan_command"` // regenerates package_metadata/*.json

	// files of the application repository, relative to its root
	ApplicationManifests []string `yaml:"application_manifests"` // JSON files with a top-level version
	ApplicationConstants []string `yaml:"application_constants"` // sources declaring export const VERSION
}

// RegistrySettings configures the package registry repository and index.
type RegistrySettings struct {
	Provider        string `yaml:"provider"` // release source for the index builder
	Path            string `yaml:"path"`
	WorkflowID      string `yaml:"workflow_id"`
	IndexFile       string `yaml:"index_file"`
	Token           string `yaml:"token"`
	BaseURL         string `yaml:"base_url"`
	Name            string `yaml:"name"`
	Description     string `yaml:"description"`
	Title           string `yaml:"title"`
	Source          string `yaml:"source"`
	Maintainer      string `yaml:"maintainer"`
	License         string `yaml:"license"`
	RequiresPython  string `yaml:"requires_python"`
	DiscoveryPrefix string `yaml:"discovery_prefix"`
	ExamplePackage  string `yaml:"example_package"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// DefaultSettings returns the settings of the NodeTool fleet, used when no
// config file is present and as the base every config file overrides.
func DefaultSettings() *Settings {
	libraries := []string{
		"nodetool-apple", "nodetool-base", "nodetool-comfy", "nodetool-elevenlabs",
		"nodetool-fal", "nodetool-huggingface", "nodetool-lib-ml", "nodetool-mlx",
		"nodetool-lib-audio", "nodetool-replicate", "nodetool-whispercpp",
	}
	repos := []RepositorySettings{{Name: "nodetool-core", Role: RoleLibrary, Priority: true}}
	for _, name := range libraries {
		repos = append(repos, RepositorySettings{Name: name, Role: RoleLibrary})
	}
	repos = append(repos, RepositorySettings{Name: "nodetool", Role: RoleApplication})

	return &Settings{
		Organization:     "nodetool-ai",
		Workspace:        ".",
		MainBranch:       "main",
		Repositories:     repos,
		ReleaseWorkflows: []string{"Build and Publish Wheel", "Release"},
		Polling: PollingSettings{
			Interval: defaultPollInterval,
			MaxWait:  defaultMaxWait,
			RunLimit: defaultRunLimit,
		},
		Versioning: VersioningSettings{
			DependencyPackage:  "nodetool-core",
			CoreRefKey:         "NODETOOL_CORE_REF",
			WorkflowFile:       ".github/workflows/copilot-setup-steps.yml",
			PinPrefix:          "nodetool-",
			PackageScanCommand: []string{"nodetool", "package", "scan"},
			ApplicationManifests: []string{
				"web/package.json", "electron/package.json", "mobile/package.json",
			},
			ApplicationConstants: []string{"web/src/config/constants.ts"},
		},
		Registry: RegistrySettings{
			Provider:        "github",
			Path:            ".",
			WorkflowID:      "188184531",
			IndexFile:       "index.json",
			BaseURL:         "https://nodetool-ai.github.io/nodetool-registry",
			Name:            "NodeTool Package Registry",
			Description:     "Official package registry for NodeTool AI workflow packages",
			Title:           "NodeTool Package Index",
			Source:          "https://github.com/nodetool-ai/nodetool-registry",
			Maintainer:      "NodeTool AI Team",
			License:         "MIT",
			RequiresPython:  ">=3.11",
			DiscoveryPrefix: "nodetool-",
			ExamplePackage:  "nodetool-base",
		},
	}
}

// NewSettings reads a YAML config file on top of DefaultSettings, resolves
// token references and validates the result.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	settings := DefaultSettings()
	if unmarshalErr := yaml.Unmarshal(data, settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.Registry.Token = ResolveToken(settings.Registry.Token)

	if validateErr := settings.Validate(); validateErr != nil {
		return nil, validateErr
	}
	return settings, nil
}

// LoadSettings loads the given config file, or the first one found in the
// default locations, or falls back to DefaultSettings when there is none.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		found, err := FindConfigFile()
		if err != nil {
			logger.Debugf("No config file found, using built-in fleet defaults")
			return DefaultSettings(), nil
		}
		path = found
	}
	logger.Infof("Using config file: %s", path)
	return NewSettings(path)
}

// FindConfigFile searches for a configuration file in standard locations.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{".", ".config", "configs"}
	if homeDir != "" {
		locations = append(locations, homeDir, filepath.Join(homeDir, ".config"))
	}

	patterns := []string{
		".fleetrelease.yaml",
		".fleetrelease.yml",
		"fleetrelease.yaml",
		"fleetrelease.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", ErrConfigNotFound
}

// ResolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from it.
func ResolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// Validate checks for required configuration values.
func (s *Settings) Validate() error {
	if len(s.Repositories) == 0 {
		return errors.New("at least one repository must be configured")
	}

	names := make(map[string]bool, len(s.Repositories))
	priorities := 0
	for i, repo := range s.Repositories {
		if repo.Name == "" {
			return fmt.Errorf("repositories[%d].name is required", i)
		}
		if names[repo.Name] {
			return fmt.Errorf("repositories[%d].name %q is duplicated", i, repo.Name)
		}
		names[repo.Name] = true
		switch repo.Role {
		case "", RoleLibrary, RoleApplication:
		default:
			return fmt.Errorf("repositories[%d].role %q must be %q or %q", i, repo.Role, RoleLibrary, RoleApplication)
		}
		if repo.Priority {
			priorities++
		}
	}
	if priorities > 1 {
		return errors.New("at most one repository can be marked as priority")
	}

	if len(s.ReleaseWorkflows) == 0 {
		return errors.New("release_workflows must have at least one entry")
	}
	if s.Polling.Interval <= 0 || s.Polling.MaxWait <= 0 {
		return errors.New("polling.interval and polling.max_wait must be positive")
	}
	if s.Polling.RunLimit <= 0 {
		return errors.New("polling.run_limit must be positive")
	}
	return nil
}

// Fleet returns the repository descriptors in release order.
func (s *Settings) Fleet() []Repository {
	fleet := make([]Repository, 0, len(s.Repositories))
	for _, repo := range s.Repositories {
		path := repo.Path
		if path == "" {
			path = filepath.Join(s.Workspace, repo.Name)
		}
		role := repo.Role
		if role == "" {
			role = RoleLibrary
		}
		fleet = append(fleet, Repository{
			Name:     repo.Name,
			Path:     path,
			Role:     role,
			Priority: repo.Priority,
		})
	}
	return fleet
}

// PriorityRepository returns the repository every other one depends on, if any.
func (s *Settings) PriorityRepository() (Repository, bool) {
	for _, repo := range s.Fleet() {
		if repo.Priority {
			return repo, true
		}
	}
	return Repository{}, false
}

// FindRepository returns the fleet member with the given name.
func (s *Settings) FindRepository(name string) (Repository, bool) {
	for _, repo := range s.Fleet() {
		if repo.Name == name {
			return repo, true
		}
	}
	return Repository{}, false
}

// RepositoryNames returns the fleet names in release order.
func (s *Settings) RepositoryNames() []string {
	names := make([]string, 0, len(s.Repositories))
	for _, repo := range s.Repositories {
		names = append(names, repo.Name)
	}
	return names
}
