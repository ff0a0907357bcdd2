package repositories

import (
	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
)

// VersionFileRepository applies the version patches to files on disk. Every
// method is a no-op returning an unchanged result when the file does not
// exist, writes only when the content differs, and never fails: unreadable
// or malformed files are logged and reported as unchanged.
type VersionFileRepository interface {
	PatchTOMLVersion(path, version string) entities.PatchResult
	PinTOMLDependency(path, pkg, version string) entities.PatchResult
	PatchJSONVersion(path, version string) entities.PatchResult
	PatchYAMLScalar(path, key, value string) entities.PatchResult
	PatchConstVersion(path, version string) entities.PatchResult
	PatchGitURLRefs(path, org, tag string) entities.PatchResult
	PatchInlinePins(path, prefix, version string) entities.PatchResult
	PatchTerraformModuleRefs(path, org, tag string) entities.PatchResult

	// FindFiles walks root and returns files whose base name starts with
	// prefix or has the given extension, skipping vendored directories.
	FindFiles(root string, match func(name string) bool) []string

	// FindDirs walks root and returns directories with the given base name.
	FindDirs(root, name string) []string
}
