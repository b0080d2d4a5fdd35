// Package profile implements profile specifier resolution, nested-profile
// expansion, and the per-document visibility rules that decide which
// content a composition run includes.
package profile

import "strings"

// Wildcard is the sub-profile name that explicitly selects every declared
// sub-profile of a nested profile ("parent:*").
const Wildcard = "*"

// Specifier is a parsed profile selector: a flat profile name, a nested
// profile reference, or a single "parent:sub" leaf.
type Specifier struct {
	Parent string
	Sub    string
}

// ParseSpecifier splits a raw specifier on its first colon.
// "dev" yields {Parent: dev}, "dev:api" yields {Parent: dev, Sub: api}.
func ParseSpecifier(raw string) Specifier {
	parent, sub, found := strings.Cut(raw, ":")
	if !found {
		return Specifier{Parent: parent}
	}
	return Specifier{Parent: parent, Sub: sub}
}

// String renders the specifier back to its textual form.
func (s Specifier) String() string {
	if s.Sub == "" {
		return s.Parent
	}
	return s.Parent + ":" + s.Sub
}

// IsQualified reports whether the specifier addresses a single sub-profile.
func (s Specifier) IsQualified() bool {
	return s.Sub != "" && s.Sub != Wildcard
}

// IsWildcard reports whether the specifier is an explicit wildcard
// ("parent:*").
func (s Specifier) IsWildcard() bool {
	return s.Sub == Wildcard
}
