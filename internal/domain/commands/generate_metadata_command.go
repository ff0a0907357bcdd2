package commands

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	logger "github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/rios0rios0/fleetrelease/internal/domain/entities"
	"github.com/rios0rios0/fleetrelease/internal/domain/repositories"
)

const (
	registryInfoFile   = "registry.json"
	usageMarkdownFile  = "usage.md"
	usageHTMLFile      = "usage.html"
	simpleDir          = "simple"
	registryVersion    = "1.0"
	simpleAPIVersion   = "2"
	repositoryAPIVer   = "1.0"
	metadataTimeLayout = "2006-01-02T15:04:05Z"
)

// GenerateMetadata is the interface for the registry metadata generator.
type GenerateMetadata interface {
	Execute(ctx context.Context, settings *entities.Settings, opts GenerateMetadataOptions) error
}

// GenerateMetadataOptions holds runtime options for one metadata run.
type GenerateMetadataOptions struct {
	OutputDir string // holds simple/ and receives the generated files
}

// GenerateMetadataCommand writes the files published next to the index:
// registry.json, packages.json and the usage document.
type GenerateMetadataCommand struct {
	registry repositories.RegistryRepository
	markdown goldmark.Markdown
	now      func() time.Time
}

// NewGenerateMetadataCommand creates a new GenerateMetadataCommand.
func NewGenerateMetadataCommand(registry repositories.RegistryRepository) *GenerateMetadataCommand {
	return NewGenerateMetadataCommandWithClock(registry, time.Now)
}

// NewGenerateMetadataCommandWithClock creates a GenerateMetadataCommand stamping files with now.
func NewGenerateMetadataCommandWithClock(
	registry repositories.RegistryRepository,
	now func() time.Time,
) *GenerateMetadataCommand {
	return &GenerateMetadataCommand{
		registry: registry,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		now:      now,
	}
}

// Execute generates every metadata file into opts.OutputDir.
func (it *GenerateMetadataCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts GenerateMetadataOptions,
) error {
	stamp := it.now().UTC().Format(metadataTimeLayout)
	reg := settings.Registry

	info := &entities.RegistryInfo{
		Name:              reg.Name,
		Description:       reg.Description,
		Version:           registryVersion,
		APIVersion:        simpleAPIVersion,
		RepositoryVersion: repositoryAPIVer,
		LastUpdated:       stamp,
		IndexURL:          reg.SimpleIndexURL(),
		PackagesURL:       reg.PackagesURL(),
		Source:            reg.Source,
		Maintainer:        reg.Maintainer,
		License:           reg.License,
	}
	if err := it.registry.SaveInfo(filepath.Join(opts.OutputDir, registryInfoFile), info); err != nil {
		return fmt.Errorf("failed to write %s: %w", registryInfoFile, err)
	}

	manifest, err := it.buildManifest(reg, filepath.Join(opts.OutputDir, simpleDir), stamp)
	if err != nil {
		return err
	}
	if saveErr := it.registry.SaveManifest(filepath.Join(opts.OutputDir, manifestFile), manifest); saveErr != nil {
		return fmt.Errorf("failed to write %s: %w", manifestFile, saveErr)
	}

	usage := entities.RenderUsageMarkdown(reg)
	if writeErr := it.registry.WritePage(filepath.Join(opts.OutputDir, usageMarkdownFile), usage); writeErr != nil {
		return fmt.Errorf("failed to write %s: %w", usageMarkdownFile, writeErr)
	}

	page, err := it.renderUsageHTML(reg.Name, usage)
	if err != nil {
		return err
	}
	if writeErr := it.registry.WritePage(filepath.Join(opts.OutputDir, usageHTMLFile), page); writeErr != nil {
		return fmt.Errorf("failed to write %s: %w", usageHTMLFile, writeErr)
	}

	logger.Infof("Generated metadata for %d package(s) in %s", manifest.Count, opts.OutputDir)
	return nil
}

func (it *GenerateMetadataCommand) buildManifest(
	reg entities.RegistrySettings,
	simplePath string,
	stamp string,
) (*entities.PackagesManifest, error) {
	pages, err := it.registry.ReadPackagePages(simplePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read package pages: %w", err)
	}

	packages := make([]entities.ManifestPackage, 0, len(pages))
	for name, page := range pages {
		packages = append(packages, entities.ManifestPackage{
			Name:        name,
			URL:         reg.PackageURL(name),
			WheelCount:  entities.CountWheelLinks(page),
			LastUpdated: stamp,
		})
	}
	sort.Slice(packages, func(i, j int) bool { return packages[i].Name < packages[j].Name })

	return &entities.PackagesManifest{
		Packages:  packages,
		Count:     len(packages),
		Generated: stamp,
	}, nil
}

func (it *GenerateMetadataCommand) renderUsageHTML(title, usage string) (string, error) {
	var body bytes.Buffer
	if err := it.markdown.Convert([]byte(usage), &body); err != nil {
		return "", fmt.Errorf("failed to render usage document: %w", err)
	}
	return fmt.Sprintf(
		"<!DOCTYPE html>\n<html>\n<head>\n  <meta charset=\"utf-8\">\n  <title>%s Usage</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		title, body.String(),
	), nil
}
