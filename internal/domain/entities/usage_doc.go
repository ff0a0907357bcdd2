package entities

import (
	"fmt"
	"strings"
)

const fence = "```"

// SimpleIndexURL is the public URL of the registry's PEP 503 root.
func (r RegistrySettings) SimpleIndexURL() string {
	return strings.TrimSuffix(r.BaseURL, "/") + "/simple/"
}

// PackagesURL is the public URL of packages.json.
func (r RegistrySettings) PackagesURL() string {
	return strings.TrimSuffix(r.BaseURL, "/") + "/packages.json"
}

// PackageURL is the public URL of one package page.
func (r RegistrySettings) PackageURL(name string) string {
	return r.SimpleIndexURL() + name + "/"
}

// RenderUsageMarkdown renders the usage document published with the registry.
func RenderUsageMarkdown(registry RegistrySettings) string {
	index := registry.SimpleIndexURL()
	example := registry.ExamplePackage
	cloneDir := strings.TrimSuffix(registry.Source[strings.LastIndex(registry.Source, "/")+1:], ".git")

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s Usage\n\n", registry.Name)

	sb.WriteString("## Installation\n\n")
	fmt.Fprintf(&sb, "Install packages from the registry:\n\n%sbash\n", fence)
	fmt.Fprintf(&sb, "# Install single package\npip install --index-url %s %s\n\n", index, example)
	fmt.Fprintf(&sb, "# Use as extra index (combines with PyPI)\npip install --extra-index-url %s %s\n", index, example)
	sb.WriteString(fence + "\n\n")

	sb.WriteString("## Configuration\n\n")
	fmt.Fprintf(&sb, "### pip.conf\n%sini\n[global]\nextra-index-url = %s\n%s\n\n", fence, index, fence)
	fmt.Fprintf(&sb, "### requirements.txt\n%s\n--extra-index-url %s\n%s\n%s\n\n", fence, index, example, fence)
	fmt.Fprintf(&sb, "### pyproject.toml\n%stoml\n[tool.pip]\nextra-index-url = %q\n%s\n\n", fence, index, fence)

	sb.WriteString("## Environment Variables\n")
	fmt.Fprintf(&sb, "%sbash\nexport PIP_EXTRA_INDEX_URL=%q\n%s\n\n", fence, index, fence)

	sb.WriteString("## Development\n\n")
	sb.WriteString("For local development, you can build and serve the index:\n\n")
	fmt.Fprintf(&sb, "%sbash\n", fence)
	fmt.Fprintf(&sb, "git clone %s.git\ncd %s\n\n", strings.TrimSuffix(registry.Source, ".git"), cloneDir)
	sb.WriteString("fleetrelease index --output-dir docs/simple\n")
	sb.WriteString("fleetrelease metadata --output-dir docs\n\n")
	sb.WriteString("python -m http.server 8000 --directory docs\n")
	fmt.Fprintf(&sb, "# Then use: pip install --index-url http://localhost:8000/simple/ %s\n", example)
	sb.WriteString(fence + "\n")

	return sb.String()
}
