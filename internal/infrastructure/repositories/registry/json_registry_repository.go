package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
)

const (
	filePerm  = 0o644
	dirPerm   = 0o755
	pageIndex = "index.html"
)

// JSONRegistryRepository stores the registry and its published files as
// plain JSON and HTML on the local disk.
type JSONRegistryRepository struct{}

// NewJSONRegistryRepository creates a new JSONRegistryRepository.
func NewJSONRegistryRepository() *JSONRegistryRepository {
	return &JSONRegistryRepository{}
}

func (r *JSONRegistryRepository) Load(path string) (*entities.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", entities.ErrRegistryNotFound, path)
		}
		return nil, fmt.Errorf("failed to read registry %q: %w", path, err)
	}

	var registry entities.Registry
	if unmarshalErr := json.Unmarshal(data, &registry); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse registry %q: %w", path, unmarshalErr)
	}
	return &registry, nil
}

// Save writes the registry with sorted keys, 2-space indentation and a
// trailing newline.
func (r *JSONRegistryRepository) Save(path string, registry *entities.Registry) error {
	return writeJSON(path, registry)
}

func (r *JSONRegistryRepository) LoadManifest(path string) (*entities.PackagesManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", entities.ErrRegistryNotFound, path)
		}
		return nil, err
	}

	var manifest entities.PackagesManifest
	if unmarshalErr := json.Unmarshal(data, &manifest); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse manifest %q: %w", path, unmarshalErr)
	}
	return &manifest, nil
}

func (r *JSONRegistryRepository) SaveManifest(path string, manifest *entities.PackagesManifest) error {
	return writeJSON(path, manifest)
}

func (r *JSONRegistryRepository) SaveInfo(path string, info *entities.RegistryInfo) error {
	return writeJSON(path, info)
}

func (r *JSONRegistryRepository) WritePage(path, content string) error {
	return writeAtomic(path, []byte(content))
}

func (r *JSONRegistryRepository) ReadPackagePages(dir string) (map[string]string, error) {
	pages := make(map[string]string)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return pages, nil
		}
		return nil, err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, readErr := os.ReadFile(filepath.Join(dir, entry.Name(), pageIndex))
		if readErr != nil {
			continue
		}
		pages[entry.Name()] = string(data)
	}
	return pages, nil
}

func writeJSON(path string, value any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	return writeAtomic(path, buf.Bytes())
}

// writeAtomic writes to a temporary file in the target directory and renames
// it over the target, so readers never observe a partial file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, writeErr := tmp.Write(data); writeErr != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, writeErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		return fmt.Errorf("failed to write %s: %w", path, closeErr)
	}
	if chmodErr := os.Chmod(tmpName, filePerm); chmodErr != nil {
		return fmt.Errorf("failed to write %s: %w", path, chmodErr)
	}
	if renameErr := os.Rename(tmpName, path); renameErr != nil {
		return fmt.Errorf("failed to replace %s: %w", path, renameErr)
	}
	return nil
}
