package upgrader

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rios0rios0/fleetrelease/internal/scanner"
)

// RetagSource returns the module source with its ref parameter set to tag.
func RetagSource(source, ref, tag string) string {
	for _, sep := range []string{"?ref=", "&ref="} {
		old := sep + ref
		if idx := strings.Index(source, old); idx >= 0 {
			return source[:idx] + sep + tag + source[idx+len(old):]
		}
	}
	return source
}

// ApplyTag rewrites the ref of every scanned module source to tag. Refs
// already at tag are left alone, so applying the same tag twice yields the
// content of the first application.
func ApplyTag(content string, refs []scanner.ModuleRef, tag string) (string, bool) {
	ordered := make([]scanner.ModuleRef, len(refs))
	copy(ordered, refs)
	// replace back to front so earlier offsets stay valid
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start > ordered[j].Start })

	updated := content
	for _, ref := range ordered {
		if ref.Ref == tag || ref.Start < 0 || ref.End > len(updated) || ref.Start >= ref.End {
			continue
		}
		replacement := strconv.Quote(RetagSource(ref.Source, ref.Ref, tag))
		if strings.HasPrefix(updated[ref.Start:ref.End], `"`) {
			updated = updated[:ref.Start] + replacement + updated[ref.End:]
		}
	}
	return updated, updated != content
}
