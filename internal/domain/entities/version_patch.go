package entities

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// The functions below are the pure halves of the version patches: each takes
// the file content and returns the new content and whether it differs.
// Applying any of them twice with the same arguments yields the content of
// the first application.

var (
	tomlVersionPattern   = regexp.MustCompile(`(?m)^([ \t]*)version = "[^"]+"`)
	nameDeclPattern      = regexp.MustCompile(`^\s*name\s*=`)
	constVersionPattern  = regexp.MustCompile(`(export const VERSION = ")[^"]+(")`)
	errJSONNotObject     = errors.New("top-level JSON value is not an object")
	jsonVersionKey       = "version"
	jsonIndent           = "  "
	semverReplacementFmt = "${1}%s${2}"
)

// PatchTOMLVersion replaces the first `version = "..."` assignment,
// preserving its leading whitespace.
func PatchTOMLVersion(content, version string) (string, bool) {
	loc := tomlVersionPattern.FindStringSubmatchIndex(content)
	if loc == nil {
		return content, false
	}
	indent := content[loc[2]:loc[3]]
	updated := content[:loc[0]] + indent + `version = "` + version + `"` + content[loc[1]:]
	return updated, updated != content
}

// PinTOMLDependency rewrites every quoted dependency specifier of pkg to the
// exact pin "pkg==version". Lines that declare a name (`name = "..."`) are
// left alone, so a package whose own name contains pkg is never renamed.
func PinTOMLDependency(content, pkg, version string) (string, bool) {
	if pkg == "" || !strings.Contains(content, pkg) {
		return content, false
	}

	pattern := regexp.MustCompile(`"` + regexp.QuoteMeta(pkg) + `[^"]*"`)
	pin := `"` + pkg + "==" + version + `"`

	var sb strings.Builder
	last := 0
	for _, loc := range pattern.FindAllStringIndex(content, -1) {
		if nameDeclPattern.MatchString(lineAt(content, loc[0])) {
			continue
		}
		sb.WriteString(content[last:loc[0]])
		sb.WriteString(pin)
		last = loc[1]
	}
	sb.WriteString(content[last:])

	updated := sb.String()
	return updated, updated != content
}

// lineAt returns the full line containing the byte offset.
func lineAt(content string, offset int) string {
	start := strings.LastIndex(content[:offset], "\n") + 1
	end := strings.Index(content[offset:], "\n")
	if end < 0 {
		return content[start:]
	}
	return content[start : offset+end]
}

// PatchJSONVersion sets the top-level "version" field of a JSON object and
// re-serializes it with 2-space indentation and a trailing newline. Key
// order is preserved. When the field already holds the version the content
// is returned untouched.
func PatchJSONVersion(content, version string) (string, bool, error) {
	fields, err := decodeOrderedObject(content)
	if err != nil {
		return content, false, err
	}

	encoded, _ := json.Marshal(version)
	found := false
	for i := range fields {
		if fields[i].key != jsonVersionKey {
			continue
		}
		var current string
		if json.Unmarshal(fields[i].value, &current) == nil && current == version {
			return content, false, nil
		}
		fields[i].value = encoded
		found = true
	}
	if !found {
		fields = append(fields, orderedField{key: jsonVersionKey, value: encoded})
	}

	updated, err := encodeOrderedObject(fields)
	if err != nil {
		return content, false, err
	}
	return updated, updated != content, nil
}

type orderedField struct {
	key   string
	value json.RawMessage
}

func decodeOrderedObject(content string) ([]orderedField, error) {
	decoder := json.NewDecoder(strings.NewReader(content))

	open, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := open.(json.Delim); !ok || delim != '{' {
		return nil, errJSONNotObject
	}

	var fields []orderedField
	for decoder.More() {
		keyToken, tokenErr := decoder.Token()
		if tokenErr != nil {
			return nil, tokenErr
		}
		key, _ := keyToken.(string)

		var value json.RawMessage
		if decodeErr := decoder.Decode(&value); decodeErr != nil {
			return nil, decodeErr
		}
		fields = append(fields, orderedField{key: key, value: value})
	}

	if _, closeErr := decoder.Token(); closeErr != nil {
		return nil, closeErr
	}
	if _, trailingErr := decoder.Token(); !errors.Is(trailingErr, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level object")
	}
	return fields, nil
}

func encodeOrderedObject(fields []orderedField) (string, error) {
	if len(fields) == 0 {
		return "{}\n", nil
	}

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, field := range fields {
		key, err := json.Marshal(field.key)
		if err != nil {
			return "", err
		}
		buf.WriteString(jsonIndent)
		buf.Write(key)
		buf.WriteString(": ")
		if indentErr := json.Indent(&buf, field.value, jsonIndent, jsonIndent); indentErr != nil {
			return "", indentErr
		}
		if i < len(fields)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.String(), nil
}

// PatchYAMLScalar replaces the value of every `KEY: value` line for the
// given key, preserving indentation and trailing whitespace.
func PatchYAMLScalar(content, key, value string) (string, bool) {
	if key == "" {
		return content, false
	}
	pattern := regexp.MustCompile(`(?m)^([ \t]*` + regexp.QuoteMeta(key) + `:[ \t]*)(\S+)([ \t\r]*)$`)
	updated := pattern.ReplaceAllString(content, "${1}"+escapeReplacement(value)+"${3}")
	return updated, updated != content
}

// PatchConstVersion replaces the first `export const VERSION = "..."` declaration.
func PatchConstVersion(content, version string) (string, bool) {
	loc := constVersionPattern.FindStringIndex(content)
	if loc == nil {
		return content, false
	}
	match := content[loc[0]:loc[1]]
	replaced := constVersionPattern.ReplaceAllString(match, fmt.Sprintf(semverReplacementFmt, escapeReplacement(version)))
	updated := content[:loc[0]] + replaced + content[loc[1]:]
	return updated, updated != content
}

// PatchGitURLRefs replaces the @<tag> suffix of every
// git+https://github.com/<org>/<repo>.git@<tag> reference.
func PatchGitURLRefs(content, org, tag string) (string, bool) {
	if org == "" {
		return content, false
	}
	pattern := regexp.MustCompile(
		`(git\+https://github\.com/` + regexp.QuoteMeta(org) + `/[^\s"']+?\.git@)([^\s"'\\]+)`,
	)
	updated := pattern.ReplaceAllString(content, "${1}"+escapeReplacement(tag))
	return updated, updated != content
}

// PatchInlinePins replaces every `<prefix>name==X.Y.Z...` pin with the version.
func PatchInlinePins(content, prefix, version string) (string, bool) {
	if prefix == "" {
		return content, false
	}
	pattern := regexp.MustCompile(`(` + regexp.QuoteMeta(prefix) + `[a-z-]+)==([0-9]+\.[0-9]+\.[0-9]+[^\s"]*)`)
	updated := pattern.ReplaceAllString(content, "${1}=="+escapeReplacement(version))
	return updated, updated != content
}

func escapeReplacement(value string) string {
	return strings.ReplaceAll(value, "$", "$$")
}
