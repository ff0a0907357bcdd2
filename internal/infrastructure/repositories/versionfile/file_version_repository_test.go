//go:build unit

package versionfile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/fleetrelease/internal/infrastructure/repositories/versionfile"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestFileVersionRepository_Idempotence(t *testing.T) {
	t.Parallel()

	repo := versionfile.NewFileVersionRepository()

	tests := []struct {
		name    string
		file    string
		content string
		patch   func(path string) bool
		want    string
	}{
		{
			name:    "toml version",
			file:    "pyproject.toml",
			content: "[project]\n  version = \"0.1.0\"\nname = \"x\"\n",
			patch:   func(p string) bool { return repo.PatchTOMLVersion(p, "1.2.3").Changed },
			want:    "  version = \"1.2.3\"",
		},
		{
			name:    "dependency pin",
			file:    "pyproject.toml",
			content: "dependencies = [\n  \"nodetool-core>=0.5\",\n]\n",
			patch:   func(p string) bool { return repo.PinTOMLDependency(p, "nodetool-core", "1.2.3").Changed },
			want:    "\"nodetool-core==1.2.3\"",
		},
		{
			name:    "json version",
			file:    "web/package.json",
			content: "{\"name\": \"web\", \"version\": \"0.1.0\", \"private\": true}",
			patch:   func(p string) bool { return repo.PatchJSONVersion(p, "1.2.3").Changed },
			want:    "{\n  \"name\": \"web\",\n  \"version\": \"1.2.3\",\n  \"private\": true\n}\n",
		},
		{
			name:    "yaml scalar",
			file:    ".github/workflows/setup.yml",
			content: "env:\n  NODETOOL_CORE_REF: v0.1.0  \n",
			patch:   func(p string) bool { return repo.PatchYAMLScalar(p, "NODETOOL_CORE_REF", "v1.2.3").Changed },
			want:    "  NODETOOL_CORE_REF: v1.2.3  \n",
		},
		{
			name:    "source constant",
			file:    "web/src/config/constants.ts",
			content: "export const VERSION = \"0.1.0\";\n",
			patch:   func(p string) bool { return repo.PatchConstVersion(p, "1.2.3").Changed },
			want:    "export const VERSION = \"1.2.3\";",
		},
		{
			name:    "git url refs",
			file:    "Dockerfile",
			content: "RUN pip install git+https://github.com/nodetool-ai/nodetool-base.git@v0.1.0\n",
			patch:   func(p string) bool { return repo.PatchGitURLRefs(p, "nodetool-ai", "v1.2.3").Changed },
			want:    "nodetool-base.git@v1.2.3",
		},
		{
			name:    "inline pins",
			file:    "Dockerfile.gpu",
			content: "RUN pip install nodetool-core==0.1.0 nodetool-base==0.1.0rc1\n",
			patch:   func(p string) bool { return repo.PatchInlinePins(p, "nodetool-", "1.2.3").Changed },
			want:    "nodetool-core==1.2.3 nodetool-base==1.2.3",
		},
		{
			name: "terraform module refs",
			file: "infra/main.tf",
			content: "module \"runner\" {\n  source = \"git::https://github.com/nodetool-ai/tf-runner.git?ref=v0.1.0\"\n}\n" +
				"module \"other\" {\n  source = \"git::https://github.com/someone/tf.git?ref=v9.9.9\"\n}\n",
			patch: func(p string) bool { return repo.PatchTerraformModuleRefs(p, "nodetool-ai", "v1.2.3").Changed },
			want:  "tf-runner.git?ref=v1.2.3\"",
		},
	}

	for _, tt := range tests {
		t.Run("should be idempotent for "+tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			path := writeFile(t, t.TempDir(), tt.file, tt.content)

			// when
			first := tt.patch(path)
			afterFirst := readFile(t, path)
			second := tt.patch(path)
			afterSecond := readFile(t, path)

			// then
			assert.True(t, first)
			assert.False(t, second)
			assert.Equal(t, afterFirst, afterSecond)
			assert.Contains(t, afterFirst, tt.want)
		})
	}
}

func TestFileVersionRepository_NoOps(t *testing.T) {
	t.Parallel()

	t.Run("should not create a missing file", func(t *testing.T) {
		t.Parallel()

		// given
		repo := versionfile.NewFileVersionRepository()
		path := filepath.Join(t.TempDir(), "pyproject.toml")

		// when
		result := repo.PatchTOMLVersion(path, "1.2.3")

		// then
		assert.False(t, result.Changed)
		assert.NoFileExists(t, path)
	})

	t.Run("should leave malformed JSON untouched", func(t *testing.T) {
		t.Parallel()

		// given
		repo := versionfile.NewFileVersionRepository()
		path := writeFile(t, t.TempDir(), "package.json", "{\"version\": ")

		// when
		result := repo.PatchJSONVersion(path, "1.2.3")

		// then
		assert.False(t, result.Changed)
		assert.Equal(t, "{\"version\": ", readFile(t, path))
	})

	t.Run("should leave foreign terraform modules untouched", func(t *testing.T) {
		t.Parallel()

		// given
		repo := versionfile.NewFileVersionRepository()
		content := "module \"other\" {\n  source = \"git::https://github.com/someone/tf.git?ref=v9.9.9\"\n}\n"
		path := writeFile(t, t.TempDir(), "main.tf", content)

		// when
		result := repo.PatchTerraformModuleRefs(path, "nodetool-ai", "v1.2.3")

		// then
		assert.False(t, result.Changed)
		assert.Equal(t, content, readFile(t, path))
	})
}

func TestFileVersionRepository_Find(t *testing.T) {
	t.Parallel()

	t.Run("should find dockerfiles outside vendored directories", func(t *testing.T) {
		t.Parallel()

		// given
		repo := versionfile.NewFileVersionRepository()
		root := t.TempDir()
		writeFile(t, root, "Dockerfile", "")
		writeFile(t, root, "docker/Dockerfile.gpu", "")
		writeFile(t, root, "node_modules/pkg/Dockerfile", "")
		writeFile(t, root, ".venv/Dockerfile", "")

		// when
		found := repo.FindFiles(root, func(name string) bool { return strings.HasPrefix(name, "Dockerfile") })

		// then
		assert.ElementsMatch(t, []string{
			filepath.Join(root, "Dockerfile"),
			filepath.Join(root, "docker", "Dockerfile.gpu"),
		}, found)
	})

	t.Run("should find package_metadata directories", func(t *testing.T) {
		t.Parallel()

		// given
		repo := versionfile.NewFileVersionRepository()
		root := t.TempDir()
		writeFile(t, root, "src/pkg/package_metadata/pkg.json", "{}")
		writeFile(t, root, ".git/package_metadata/x.json", "{}")

		// when
		found := repo.FindDirs(root, "package_metadata")

		// then
		assert.Equal(t, []string{filepath.Join(root, "src", "pkg", "package_metadata")}, found)
	})
}
