package entities

import (
	"fmt"
	"html"
	"strings"
	"time"
)

const (
	repositoryVersionMeta = `  <meta name="pypi:repository-version" content="1.0">`
	apiVersionMeta        = `  <meta name="api-version" content="2">`
	wheelLinkMarker       = wheelSuffix + "</a>"
	indexTimestampLayout  = "2006-01-02 15:04:05 UTC"
)

// RenderPackagePage renders the Simple Repository API page of one package.
// Wheels are listed in the given order. requiresPython is advertised only
// for py3 wheels, and the dist-info metadata digest only when one was found.
func RenderPackagePage(name string, wheels []WheelAsset, requiresPython string) string {
	escapedName := html.EscapeString(name)
	lines := []string{
		"<!DOCTYPE html>",
		"<html>",
		"<head>",
		fmt.Sprintf("  <title>Links for %s</title>", escapedName),
		repositoryVersionMeta,
		apiVersionMeta,
		"</head>",
		"<body>",
		fmt.Sprintf("  <h1>Links for %s</h1>", escapedName),
	}

	for _, wheel := range wheels {
		attrs := []string{fmt.Sprintf(`href="%s"`, html.EscapeString(wheel.URL))}
		if wheel.Size > 0 {
			attrs = append(attrs, fmt.Sprintf(`data-size="%d"`, wheel.Size))
		}
		if requiresPython != "" && wheel.RequiresPython3() {
			attrs = append(attrs, fmt.Sprintf(`data-requires-python="%s"`, html.EscapeString(requiresPython)))
		}
		if wheel.HasMetadata() {
			attrs = append(attrs, fmt.Sprintf(`data-dist-info-metadata="sha256=%s"`, wheel.MetadataSHA256))
		}
		lines = append(lines, fmt.Sprintf(
			"    <a %s>%s</a><br>", strings.Join(attrs, " "), html.EscapeString(wheel.Filename),
		))
	}

	lines = append(lines, "</body>", "</html>")
	return strings.Join(lines, "\n")
}

// RenderRootIndex renders the root page linking every package with its
// wheel count. Packages are listed in the order given.
func RenderRootIndex(title, description string, packages []PackageEntry, generatedAt time.Time) string {
	escapedTitle := html.EscapeString(title)
	lines := []string{
		"<!DOCTYPE html>",
		"<html>",
		"<head>",
		fmt.Sprintf("  <title>%s</title>", escapedTitle),
		repositoryVersionMeta,
		apiVersionMeta,
		"</head>",
		"<body>",
		fmt.Sprintf("  <h1>%s</h1>", escapedTitle),
		fmt.Sprintf("  <p>%s</p>", html.EscapeString(description)),
		"  <hr>",
	}

	total := 0
	for _, pkg := range packages {
		total += pkg.WheelCount
		name := html.EscapeString(pkg.Name)
		lines = append(lines, fmt.Sprintf(`  <a href="%s/">%s</a> (%d wheels)<br>`, name, name, pkg.WheelCount))
	}

	lines = append(lines,
		"  <hr>",
		fmt.Sprintf("  <p><small>Total: %d packages, %d wheels</small></p>", len(packages), total),
		fmt.Sprintf("  <p><small>Last updated: %s</small></p>", generatedAt.UTC().Format(indexTimestampLayout)),
		"</body>",
		"</html>",
	)
	return strings.Join(lines, "\n")
}

// CountWheelLinks counts the wheel links on a rendered package page.
func CountWheelLinks(page string) int {
	return strings.Count(page, wheelLinkMarker)
}
