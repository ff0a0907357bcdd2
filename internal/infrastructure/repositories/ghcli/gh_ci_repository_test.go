//go:build unit

package ghcli_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
	"github.com/rios0rios0/fleetrelease/internal/infrastructure/repositories/ghcli"
	doubles "github.com/rios0rios0/fleetrelease/test/infrastructure/repositorydoubles"
)

func TestGhCIRepository_ListRuns(t *testing.T) {
	t.Parallel()

	t.Run("should decode the run list", func(t *testing.T) {
		t.Parallel()

		// given
		shell := &doubles.SpyShellRepository{Responses: []doubles.ShellResponse{{
			Prefix: "gh run list",
			Stdout: `[{"databaseId":42,"status":"completed","conclusion":"success",` +
				`"headBranch":"v1.2.3","headSha":"abc","event":"push","workflowName":"Release"}]`,
		}}}
		repo := ghcli.NewGhCIRepository(shell)

		// when
		runs, err := repo.ListRuns(context.Background(), "/work/core", 20)

		// then
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, int64(42), runs[0].ID)
		assert.Equal(t, "v1.2.3", runs[0].Branch)
		assert.Equal(t, "Release", runs[0].WorkflowName)
		assert.Equal(t,
			"gh run list --limit 20 --json databaseId,status,conclusion,headBranch,headSha,event,workflowName",
			shell.CommandLines()[0])
	})

	t.Run("should fail on undecodable output", func(t *testing.T) {
		t.Parallel()

		// given
		shell := &doubles.SpyShellRepository{Responses: []doubles.ShellResponse{{
			Prefix: "gh run list", Stdout: "not json",
		}}}
		repo := ghcli.NewGhCIRepository(shell)

		// when
		_, err := repo.ListRuns(context.Background(), "/work/core", 20)

		// then
		require.Error(t, err)
	})
}

func TestGhCIRepository_TriggerWorkflow(t *testing.T) {
	t.Parallel()

	t.Run("should wrap the registry trigger error", func(t *testing.T) {
		t.Parallel()

		// given
		shell := &doubles.SpyShellRepository{Responses: []doubles.ShellResponse{{
			Prefix: "gh workflow run", ExitCode: 1, Stderr: "HTTP 404",
		}}}
		repo := ghcli.NewGhCIRepository(shell)

		// when
		err := repo.TriggerWorkflow(context.Background(), "/work/registry", "188184531")

		// then
		require.Error(t, err)
		assert.True(t, errors.Is(err, entities.ErrRegistryTrigger))
	})
}

func TestGhCIRepository_EnsureAvailable(t *testing.T) {
	t.Parallel()

	t.Run("should report the missing tool", func(t *testing.T) {
		t.Parallel()

		// given
		shell := &doubles.SpyShellRepository{LookPathErr: errors.New("not found")}
		repo := ghcli.NewGhCIRepository(shell)

		// when
		err := repo.EnsureAvailable()

		// then
		require.ErrorIs(t, err, entities.ErrToolMissing)
	})
}
