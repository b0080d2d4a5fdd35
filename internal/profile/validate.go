package profile

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agentpack/agentpack/internal/frontmatter"
)

// ValidationResult is the advisory outcome of checking one scoped
// document's visibility declarations.
type ValidationResult struct {
	Valid    bool
	Warnings []string
}

// ValidateDoc checks a document that lives inside a parent profile's own
// shared area. It is advisory only: the visibility filter silently
// declines to match a bad declaration, while this check explains why.
//
// It warns when a declaration uses a fully-qualified "parent:sub" form
// instead of a bare sub-name, and when a bare name is not one of the
// scope's declared sub-profiles.
func ValidateDoc(path string, scope Scope, validSubNames []string) ValidationResult {
	result := ValidationResult{Valid: true}
	if scope == ScopeGlobal {
		return result
	}

	fields := frontmatter.Parse(path)
	if fields == nil {
		return result
	}
	policy := docPolicy(fields)

	check := func(key, entry string) {
		if strings.Contains(entry, ":") {
			result.Valid = false
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"%s: %s entry %q is fully qualified; content scoped under %q must use a bare sub-profile name",
				path, key, entry, string(scope)))
			return
		}
		if !slices.Contains(validSubNames, entry) {
			result.Valid = false
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"%s: %s entry %q is not a sub-profile of %q (known: %s)",
				path, key, entry, string(scope), strings.Join(validSubNames, ", ")))
		}
	}

	for _, entry := range policy.Declared {
		check(KeyProfiles, entry)
	}
	for _, entry := range policy.Excluded {
		check(KeyExclude, entry)
	}
	return result
}
