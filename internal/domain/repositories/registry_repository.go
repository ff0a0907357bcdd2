package repositories

import (
	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
)

// RegistryRepository persists the registry database and everything
// published next to it. Saves are atomic: readers see either the old or the
// new file. A single writer is assumed.
type RegistryRepository interface {
	Load(path string) (*entities.Registry, error)
	Save(path string, registry *entities.Registry) error

	// LoadManifest reads a packages.json; a missing file yields entities.ErrRegistryNotFound.
	LoadManifest(path string) (*entities.PackagesManifest, error)
	SaveManifest(path string, manifest *entities.PackagesManifest) error
	SaveInfo(path string, info *entities.RegistryInfo) error

	// WritePage writes a generated page, creating parent directories.
	WritePage(path, content string) error

	// ReadPackagePages returns the index.html content of every direct
	// subdirectory of dir that has one, keyed by subdirectory name.
	ReadPackagePages(dir string) (map[string]string, error)
}
