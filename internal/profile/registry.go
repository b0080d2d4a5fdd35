package profile

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SubProfile is a leaf bundle declared under a parent profile.
type SubProfile struct {
	Name        string
	Description string
}

// Definition describes one declared profile. A profile is nested iff it
// declares at least one sub-profile. Sub preserves declaration order.
type Definition struct {
	Name        string
	Description string
	Sub         []SubProfile
}

// IsNested reports whether the profile declares sub-profiles.
func (d Definition) IsNested() bool {
	return len(d.Sub) > 0
}

// Declarations is an ordered set of profile definitions as declared in a
// source marker file. YAML mapping order is preserved.
type Declarations struct {
	order []string
	defs  map[string]Definition
}

// declaredEntry mirrors the YAML shape of a single profile declaration.
type declaredEntry struct {
	Description string               `yaml:"description"`
	Profiles    map[string]yaml.Node `yaml:"profiles"`
}

// UnmarshalYAML decodes a profiles mapping while keeping key order, which
// a plain map would lose.
func (d *Declarations) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("profile: profiles must be a mapping, got %s", node.Tag)
	}

	d.order = nil
	d.defs = make(map[string]Definition)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := node.Content[i+1]

		def := Definition{Name: keyNode.Value}
		if valNode.Kind == yaml.MappingNode {
			var err error
			def.Description, def.Sub, err = decodeDefinition(valNode)
			if err != nil {
				return fmt.Errorf("profile %q: %w", keyNode.Value, err)
			}
		}

		d.order = append(d.order, def.Name)
		d.defs[def.Name] = def
	}
	return nil
}

// decodeDefinition reads a profile body: description plus an optional
// ordered sub-profile mapping.
func decodeDefinition(node *yaml.Node) (string, []SubProfile, error) {
	var description string
	var sub []SubProfile

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]

		switch key {
		case "description":
			description = val.Value
		case "profiles":
			if val.Kind != yaml.MappingNode {
				return "", nil, fmt.Errorf("profile: sub-profiles must be a mapping")
			}
			for j := 0; j+1 < len(val.Content); j += 2 {
				entry := SubProfile{Name: val.Content[j].Value}
				var body struct {
					Description string `yaml:"description"`
				}
				if val.Content[j+1].Kind == yaml.MappingNode {
					if err := val.Content[j+1].Decode(&body); err != nil {
						return "", nil, err
					}
				}
				entry.Description = body.Description
				sub = append(sub, entry)
			}
		}
	}
	return description, sub, nil
}

// Names returns the declared profile names in declaration order.
func (d *Declarations) Names() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Lookup returns the definition for name.
func (d *Declarations) Lookup(name string) (Definition, bool) {
	def, ok := d.defs[name]
	return def, ok
}

// Registry aggregates profile declarations from an ordered list of
// sources. A later source's declaration of the same profile name replaces
// the earlier one wholesale.
type Registry struct {
	order []string
	defs  map[string]Definition
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Merge folds one source's declarations into the registry.
func (r *Registry) Merge(decls *Declarations) {
	if decls == nil {
		return
	}
	for _, name := range decls.order {
		if _, seen := r.defs[name]; !seen {
			r.order = append(r.order, name)
		}
		r.defs[name] = decls.defs[name]
	}
}

// Lookup returns the merged definition for name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Names returns all known profile names, first-declared order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// IsNested reports whether name is a known profile with sub-profiles.
func (r *Registry) IsNested(name string) bool {
	def, ok := r.defs[name]
	return ok && def.IsNested()
}

// SubProfiles returns the declared sub-profile names of a profile, in
// declaration order. Unknown or flat profiles yield nil.
func (r *Registry) SubProfiles(name string) []string {
	def, ok := r.defs[name]
	if !ok || !def.IsNested() {
		return nil
	}
	names := make([]string, len(def.Sub))
	for i, sub := range def.Sub {
		names[i] = sub.Name
	}
	return names
}

// Expand resolves raw specifiers into concrete leaf specifiers. A bare
// nested-profile name or an explicit wildcard expands to one "parent:sub"
// per declared sub-profile, kept contiguous in declaration order. Flat
// names, explicit "parent:sub" pairs, and unknown names pass through
// unchanged; unknown names are resolved against sources later and may
// simply yield no content.
func (r *Registry) Expand(raw []string) []Specifier {
	var out []Specifier
	for _, item := range raw {
		spec := ParseSpecifier(item)

		expandable := spec.IsWildcard() || (spec.Sub == "" && r.IsNested(spec.Parent))
		if !expandable {
			out = append(out, spec)
			continue
		}
		subs := r.SubProfiles(spec.Parent)
		if len(subs) == 0 {
			// Wildcard on an unknown or flat profile passes through.
			out = append(out, spec)
			continue
		}
		for _, sub := range subs {
			out = append(out, Specifier{Parent: spec.Parent, Sub: sub})
		}
	}
	return out
}
