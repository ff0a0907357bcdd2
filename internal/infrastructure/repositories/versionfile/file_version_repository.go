package versionfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
	"github.com/rios0rios0/fleetrelease/internal/scanner"
	"github.com/rios0rios0/fleetrelease/internal/upgrader"
)

// FileVersionRepository applies version patches to files on the local disk.
type FileVersionRepository struct{}

// NewFileVersionRepository creates a new FileVersionRepository.
func NewFileVersionRepository() *FileVersionRepository {
	return &FileVersionRepository{}
}

// skippedDirs are never descended into when searching a working copy.
var skippedDirs = map[string]bool{ //nolint:gochecknoglobals // fixed set
	".git": true, ".venv": true, "node_modules": true,
}

func (r *FileVersionRepository) PatchTOMLVersion(path, version string) entities.PatchResult {
	return r.apply(path, "version", func(content string) (string, bool) {
		return entities.PatchTOMLVersion(content, version)
	})
}

func (r *FileVersionRepository) PinTOMLDependency(path, pkg, version string) entities.PatchResult {
	return r.apply(path, pkg+" dependency pin", func(content string) (string, bool) {
		return entities.PinTOMLDependency(content, pkg, version)
	})
}

func (r *FileVersionRepository) PatchJSONVersion(path, version string) entities.PatchResult {
	return r.apply(path, "version", func(content string) (string, bool) {
		updated, changed, err := entities.PatchJSONVersion(content, version)
		if err != nil {
			logger.Warnf("  Could not parse JSON in %s: %v", path, err)
			return content, false
		}
		return updated, changed
	})
}

func (r *FileVersionRepository) PatchYAMLScalar(path, key, value string) entities.PatchResult {
	return r.apply(path, key, func(content string) (string, bool) {
		return entities.PatchYAMLScalar(content, key, value)
	})
}

func (r *FileVersionRepository) PatchConstVersion(path, version string) entities.PatchResult {
	return r.apply(path, "VERSION constant", func(content string) (string, bool) {
		return entities.PatchConstVersion(content, version)
	})
}

func (r *FileVersionRepository) PatchGitURLRefs(path, org, tag string) entities.PatchResult {
	return r.apply(path, "git package refs", func(content string) (string, bool) {
		return entities.PatchGitURLRefs(content, org, tag)
	})
}

func (r *FileVersionRepository) PatchInlinePins(path, prefix, version string) entities.PatchResult {
	return r.apply(path, "pinned package versions", func(content string) (string, bool) {
		return entities.PatchInlinePins(content, prefix, version)
	})
}

func (r *FileVersionRepository) PatchTerraformModuleRefs(path, org, tag string) entities.PatchResult {
	return r.apply(path, "module refs", func(content string) (string, bool) {
		return upgrader.ApplyTag(content, scanner.ScanModuleRefs(content, path, org), tag)
	})
}

func (r *FileVersionRepository) FindFiles(root string, match func(name string) bool) []string {
	var found []string
	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries are skipped
		}
		if entry.IsDir() {
			if path != root && skippedDirs[entry.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.Type().IsRegular() && match(entry.Name()) {
			found = append(found, path)
		}
		return nil
	})
	return found
}

func (r *FileVersionRepository) FindDirs(root, name string) []string {
	var found []string
	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || !entry.IsDir() {
			return nil //nolint:nilerr // unreadable entries are skipped
		}
		if path != root && skippedDirs[entry.Name()] {
			return filepath.SkipDir
		}
		if entry.Name() == name && path != root {
			found = append(found, path)
		}
		return nil
	})
	return found
}

// apply reads the file, transforms it and writes it back only when the
// content changed. A missing file is a silent no-op.
func (r *FileVersionRepository) apply(
	path, description string,
	transform func(content string) (string, bool),
) entities.PatchResult {
	result := entities.PatchResult{Path: path, Description: description}

	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warnf("  Could not stat %s: %v", path, err)
		}
		return result
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warnf("  Could not read %s: %v", path, err)
		return result
	}

	updated, changed := transform(string(data))
	if !changed {
		return result
	}

	if writeErr := os.WriteFile(path, []byte(updated), info.Mode().Perm()); writeErr != nil {
		logger.Warnf("  Could not write %s: %v", path, writeErr)
		return result
	}

	logger.Infof("  Updated %s in %s", description, path)
	result.Changed = true
	return result
}
