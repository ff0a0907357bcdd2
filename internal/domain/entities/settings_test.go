//go:build unit

package entities_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fleetrelease.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewSettings(t *testing.T) {
	t.Parallel()

	t.Run("should override defaults with the config file", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, `
organization: acme
workspace: /work
repositories:
  - name: acme-core
    priority: true
  - name: acme-app
    role: application
    path: /src/app
polling:
  interval: 5s
  max_wait: 2m
  run_limit: 10
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "acme", settings.Organization)
		assert.Equal(t, 5*time.Second, settings.Polling.Interval)
		assert.Equal(t, 2*time.Minute, settings.Polling.MaxWait)
		assert.Equal(t, []string{"Build and Publish Wheel", "Release"}, settings.ReleaseWorkflows)
		assert.Equal(t, []entities.Repository{
			{Name: "acme-core", Path: filepath.Join("/work", "acme-core"), Role: entities.RoleLibrary, Priority: true},
			{Name: "acme-app", Path: "/src/app", Role: entities.RoleApplication},
		}, settings.Fleet())
	})

	t.Run("should read the registry token from a file", func(t *testing.T) {
		t.Parallel()

		// given
		tokenPath := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(tokenPath, []byte("ghp_from_file\n"), 0o600))
		path := writeConfig(t, "registry:\n  token: "+tokenPath+"\n")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "ghp_from_file", settings.Registry.Token)
	})

	tests := []struct {
		name   string
		config string
	}{
		{name: "should reject duplicated names", config: "repositories:\n  - name: a\n  - name: a\n"},
		{name: "should reject two priority repositories", config: "repositories:\n  - {name: a, priority: true}\n  - {name: b, priority: true}\n"},
		{name: "should reject an unknown role", config: "repositories:\n  - {name: a, role: plugin}\n"},
		{name: "should reject a missing name", config: "repositories:\n  - path: /x\n"},
		{name: "should reject an empty workflow list", config: "release_workflows: []\n"},
		{name: "should reject a non-positive interval", config: "polling:\n  interval: 0s\n"},
		{name: "should reject malformed YAML", config: "repositories: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			path := writeConfig(t, tt.config)

			// when
			settings, err := entities.NewSettings(path)

			// then
			require.Error(t, err)
			assert.Nil(t, settings)
		})
	}
}

//nolint:paralleltest // t.Setenv cannot run in parallel
func TestNewSettings_TokenFromEnvironment(t *testing.T) {
	t.Run("should resolve the registry token from the environment", func(t *testing.T) {
		// given
		t.Setenv("FLEETRELEASE_TEST_TOKEN", "ghp_from_env")
		path := writeConfig(t, "registry:\n  token: ${FLEETRELEASE_TEST_TOKEN}\n")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "ghp_from_env", settings.Registry.Token)
	})
}

func TestDefaultSettings(t *testing.T) {
	t.Parallel()

	t.Run("should describe a valid fleet led by the core repository", func(t *testing.T) {
		t.Parallel()

		// given
		settings := entities.DefaultSettings()

		// when
		priority, hasPriority := settings.PriorityRepository()
		app, hasApp := settings.FindRepository("nodetool")

		// then
		require.NoError(t, settings.Validate())
		assert.True(t, hasPriority)
		assert.Equal(t, "nodetool-core", priority.Name)
		assert.True(t, hasApp)
		assert.True(t, app.IsApplication())
		assert.Equal(t, "nodetool-core", settings.RepositoryNames()[0])
	})
}

func TestLoadSettings(t *testing.T) {
	t.Parallel()

	t.Run("should fail for a config path that does not exist", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := entities.LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))

		// then
		require.Error(t, err)
	})
}
