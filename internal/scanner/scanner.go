package scanner

import (
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// ModuleRef is a Terraform module whose git source is pinned with ?ref=.
type ModuleRef struct {
	Name     string // module label
	Source   string // source value without quotes
	Ref      string // current value of the ref parameter
	FilePath string
	Line     int
	Start    int // byte offset of the source string, quotes included
	End      int
}

var (
	refPattern    = regexp.MustCompile(`[?&]ref=([^&\s"]+)`)
	modulePattern = regexp.MustCompile(`(?s)module\s+"([^"]+)"\s*\{[^}]*?source\s*=\s*("[^"]+")`)
)

// ScanModuleRefs parses a Terraform file and returns the git-pinned module
// sources that live under the given GitHub organization.
func ScanModuleRefs(content, filePath, org string) []ModuleRef {
	parser := hclparse.NewParser()

	file, diags := parser.ParseHCL([]byte(content), filePath)
	if diags.HasErrors() || file.Body == nil {
		return scanWithRegex(content, filePath, org)
	}

	bodyContent, _, diags := file.Body.PartialContent(&hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "module", LabelNames: []string{"name"}},
		},
	})
	if diags.HasErrors() {
		return scanWithRegex(content, filePath, org)
	}

	var refs []ModuleRef
	for _, block := range bodyContent.Blocks {
		blockContent, _, _ := block.Body.PartialContent(&hcl.BodySchema{
			Attributes: []hcl.AttributeSchema{{Name: "source"}},
		})
		sourceAttr, hasSource := blockContent.Attributes["source"]
		if !hasSource {
			continue
		}

		sourceVal, valueDiags := sourceAttr.Expr.Value(&hcl.EvalContext{})
		if valueDiags.HasErrors() || sourceVal.Type() != cty.String || sourceVal.IsNull() {
			continue
		}

		source := sourceVal.AsString()
		ref := extractRef(source)
		if ref == "" || !belongsTo(source, org) {
			continue
		}

		exprRange := sourceAttr.Expr.Range()
		refs = append(refs, ModuleRef{
			Name:     block.Labels[0],
			Source:   source,
			Ref:      ref,
			FilePath: filePath,
			Line:     block.DefRange.Start.Line,
			Start:    exprRange.Start.Byte,
			End:      exprRange.End.Byte,
		})
	}

	return refs
}

// scanWithRegex is the fallback for files the HCL parser rejects.
func scanWithRegex(content, filePath, org string) []ModuleRef {
	var refs []ModuleRef
	for _, match := range modulePattern.FindAllStringSubmatchIndex(content, -1) {
		source := strings.Trim(content[match[4]:match[5]], `"`)
		ref := extractRef(source)
		if ref == "" || !belongsTo(source, org) {
			continue
		}
		refs = append(refs, ModuleRef{
			Name:     content[match[2]:match[3]],
			Source:   source,
			Ref:      ref,
			FilePath: filePath,
			Line:     strings.Count(content[:match[0]], "\n") + 1,
			Start:    match[4],
			End:      match[5],
		})
	}
	return refs
}

// belongsTo reports whether a module source is hosted under the GitHub organization.
func belongsTo(source, org string) bool {
	if org == "" {
		return false
	}
	return strings.Contains(source, "github.com/"+org+"/") ||
		strings.Contains(source, "github.com:"+org+"/")
}

// extractRef returns the value of the ref query parameter.
func extractRef(source string) string {
	if matches := refPattern.FindStringSubmatch(source); len(matches) > 1 {
		return matches[1]
	}
	return ""
}
