//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
)

func TestResolveTokenFromEnv(t *testing.T) {
	t.Parallel()

	lookup := func(values map[string]string) func(string) string {
		return func(name string) string { return values[name] }
	}

	t.Run("should prefer GH_PAT over the other variables", func(t *testing.T) {
		t.Parallel()

		// when
		token, source := entities.ResolveTokenFromEnv(lookup(map[string]string{
			"GH_PAT": "pat", "GITHUB_TOKEN": "gh", "GH_TOKEN": "cli",
		}))

		// then
		assert.Equal(t, "pat", token)
		assert.Equal(t, "GH_PAT", source)
	})

	t.Run("should fall back to GH_TOKEN last", func(t *testing.T) {
		t.Parallel()

		// when
		token, source := entities.ResolveTokenFromEnv(lookup(map[string]string{"GH_TOKEN": "cli"}))

		// then
		assert.Equal(t, "cli", token)
		assert.Equal(t, "GH_TOKEN", source)
	})

	t.Run("should return nothing without a token", func(t *testing.T) {
		t.Parallel()

		// when
		token, source := entities.ResolveTokenFromEnv(lookup(nil))

		// then
		assert.Empty(t, token)
		assert.Empty(t, source)
	})
}

func TestCollectEnvPresence(t *testing.T) {
	t.Parallel()

	t.Run("should mask secrets and report unset variables", func(t *testing.T) {
		t.Parallel()

		// given
		values := map[string]string{"GITHUB_TOKEN": "ghp_1234567890abcd", "GIT_AUTHOR_NAME": "Release Bot"}

		// when
		presence := entities.CollectEnvPresence(entities.DiagnosticEnvVars, func(name string) string { return values[name] })

		// then
		assert.Equal(t, []entities.EnvPresence{
			{Name: "GH_PAT"},
			{Name: "GITHUB_TOKEN", Set: true, Value: "ghp_...abcd"},
			{Name: "GIT_AUTHOR_NAME", Set: true, Value: "Release Bot"},
			{Name: "GIT_AUTHOR_EMAIL"},
		}, presence)
	})

	t.Run("should hide short secrets entirely", func(t *testing.T) {
		t.Parallel()

		// then
		assert.Equal(t, "***", entities.MaskSecret("short"))
	})
}
