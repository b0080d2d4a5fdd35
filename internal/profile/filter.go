package profile

import (
	"strings"

	"github.com/agentpack/agentpack/internal/frontmatter"
)

// Metadata keys controlling document visibility. The use-cases pair is a
// backward-compatibility alias normalized away in docPolicy.
const (
	KeyProfiles       = "profiles"
	KeyExclude        = "exclude-from-profiles"
	legacyKeyProfiles = "use-cases"
	legacyKeyExclude  = "exclude-from-use-cases"
)

// Scope is the matching scope of a visibility check: the global shared
// area, or one parent profile's own shared area.
type Scope string

// ScopeGlobal matches declarations against the full specifier form.
const ScopeGlobal Scope = ""

// Policy is a document's normalized visibility declaration. Declared is
// meaningful only when HasDeclared is true: an absent profiles key means
// "include everywhere", while an empty declared list matches nothing.
type Policy struct {
	Declared    []string
	HasDeclared bool
	Excluded    []string
}

// docPolicy normalizes a document's metadata to the canonical visibility
// keys, applying the legacy aliases exactly once here.
func docPolicy(fields frontmatter.Fields) Policy {
	var p Policy
	if fields == nil {
		return p
	}
	if declared, ok := fields.StringList(KeyProfiles); ok {
		p.Declared, p.HasDeclared = declared, true
	} else if declared, ok := fields.StringList(legacyKeyProfiles); ok {
		p.Declared, p.HasDeclared = declared, true
	}
	if excluded, ok := fields.StringList(KeyExclude); ok {
		p.Excluded = excluded
	} else if excluded, ok := fields.StringList(legacyKeyExclude); ok {
		p.Excluded = excluded
	}
	return p
}

// Include decides whether the document at path is visible to the given
// target specifiers under the matching scope. It never fails: a document
// without readable metadata is unrestricted, and exclusion always takes
// precedence over any positive declaration.
func Include(path string, targets []Specifier, scope Scope) bool {
	return IncludeFields(frontmatter.Parse(path), targets, scope)
}

// IncludeFields is Include on already-parsed metadata.
func IncludeFields(fields frontmatter.Fields, targets []Specifier, scope Scope) bool {
	if fields == nil {
		return true
	}
	policy := docPolicy(fields)

	for _, excluded := range policy.Excluded {
		for _, target := range targets {
			if Matches(excluded, target, scope) {
				return false
			}
		}
	}

	if !policy.HasDeclared {
		return true
	}

	for _, declared := range policy.Declared {
		for _, target := range targets {
			if Matches(declared, target, scope) {
				return true
			}
		}
	}
	return false
}

// Matches applies the scope-aware match rule between one declared entry
// and one target specifier.
//
// In the global scope a declaration matches its exact target, and a bare
// parent-level declaration covers every "parent:sub" target, so shared
// content can opt into an entire profile family by naming the parent.
//
// Inside a parent's own shared area the target must be a sub-profile of
// that parent, and the declaration must be the bare sub-name: a
// fully-qualified spec never matches there, it only draws a validator
// warning.
func Matches(declared string, target Specifier, scope Scope) bool {
	if scope == ScopeGlobal {
		if declared == target.String() {
			return true
		}
		return target.Sub != "" && declared == target.Parent
	}

	if target.Parent != string(scope) || target.Sub == "" {
		return false
	}
	if strings.Contains(declared, ":") {
		return false
	}
	return declared == target.Sub
}
