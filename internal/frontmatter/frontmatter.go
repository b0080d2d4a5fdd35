// Package frontmatter extracts header metadata from content documents.
// A metadata block is the text between a leading "---" delimiter line and
// its next occurrence, parsed as YAML and normalized so every value is
// either a string or an ordered []string.
package frontmatter

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Delimiter marks the start and end of a metadata block.
const Delimiter = "---"

// Fields is the normalized key set of a metadata block. Values are always
// string or []string. A nil Fields means "no metadata": the document could
// not be read or carries no block, and callers must treat it as
// unrestricted.
type Fields map[string]any

// Parse reads the document at path and returns its metadata fields.
// It never mutates the document. On any read failure it returns nil.
func Parse(path string) Fields {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return ParseBytes(data)
}

// ParseBytes extracts and normalizes the metadata block from raw document
// content. Returns nil when no well-formed block is present.
func ParseBytes(data []byte) Fields {
	block, ok := extractBlock(string(data))
	if !ok {
		return nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(block), &raw); err != nil {
		return nil
	}
	if len(raw) == 0 {
		return nil
	}

	fields := make(Fields, len(raw))
	for key, value := range raw {
		fields[key] = normalize(value)
	}
	return fields
}

// StringList reads a key as an ordered list of strings. A scalar value is
// promoted to a single-element list. The second return reports whether the
// key is present at all, which is distinct from an empty list.
func (f Fields) StringList(key string) ([]string, bool) {
	value, ok := f[key]
	if !ok {
		return nil, false
	}
	switch v := value.(type) {
	case string:
		return []string{v}, true
	case []string:
		return v, true
	default:
		return nil, true
	}
}

// extractBlock returns the text between the leading delimiter line and its
// next occurrence. The delimiter must be the first non-blank line.
func extractBlock(content string) (string, bool) {
	lines := strings.Split(content, "\n")

	start := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if trimmed == Delimiter {
			start = i
		}
		break
	}
	if start < 0 {
		return "", false
	}

	for i := start + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == Delimiter {
			return strings.Join(lines[start+1:i], "\n"), true
		}
	}
	return "", false
}

// normalize coerces a decoded YAML value to string or []string.
// An explicitly empty value ("key:") becomes an empty list. Quoting is
// already stripped by the YAML decoder.
func normalize(value any) any {
	switch v := value.(type) {
	case nil:
		return []string{}
	case string:
		return v
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, scalarString(item))
		}
		return items
	default:
		return scalarString(v)
	}
}

// scalarString renders a scalar YAML value as its textual form.
func scalarString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
