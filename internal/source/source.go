// Package source defines content source descriptors, the merge of global
// and project source lists, and the resolver boundary that turns a
// descriptor into a local tree. Fetch and cache mechanics for remote
// sources live behind the Resolver interface.
package source

import (
	"errors"
	"fmt"
)

// Sentinel errors for source operations.
var (
	// ErrSourceNotFound indicates a descriptor's location does not exist.
	ErrSourceNotFound = errors.New("source: location not found")

	// ErrNotASource indicates a location exists but carries no repository
	// marker file.
	ErrNotASource = errors.New("source: repository marker file missing")

	// ErrInvalidDescriptor indicates a malformed source descriptor.
	ErrInvalidDescriptor = errors.New("source: invalid descriptor")
)

// Kind discriminates how a source location is interpreted.
type Kind string

const (
	// KindLocal is a directory on the local filesystem.
	KindLocal Kind = "local"

	// KindRemote is a git repository fetched and cached by a resolver.
	KindRemote Kind = "remote"
)

// Descriptor identifies one content source. Ordering of descriptors
// matters: later sources overwrite earlier ones during composition.
type Descriptor struct {
	Kind     Kind   `yaml:"kind"`
	Location string `yaml:"location"`
	Name     string `yaml:"name,omitempty"`
}

// DisplayName returns the configured name, falling back to the location.
func (d Descriptor) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Location
}

// Validate checks a descriptor for configuration errors.
func (d Descriptor) Validate() error {
	if d.Location == "" {
		return fmt.Errorf("%w: empty location", ErrInvalidDescriptor)
	}
	switch d.Kind {
	case KindLocal, KindRemote:
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q for %q", ErrInvalidDescriptor, d.Kind, d.Location)
	}
}

// Position controls where the global source list sits relative to the
// project's own list when the two are merged.
type Position string

const (
	// PositionFirst prepends global sources, letting project sources
	// override them.
	PositionFirst Position = "first"

	// PositionLast appends global sources, letting them override project
	// sources.
	PositionLast Position = "last"
)

// Merge combines the global and project source lists at the configured
// position. Duplicate locations keep their first occurrence so a source
// never contributes two layers.
func Merge(global, project []Descriptor, position Position) []Descriptor {
	ordered := make([]Descriptor, 0, len(global)+len(project))
	if position == PositionLast {
		ordered = append(ordered, project...)
		ordered = append(ordered, global...)
	} else {
		ordered = append(ordered, global...)
		ordered = append(ordered, project...)
	}

	seen := make(map[string]bool, len(ordered))
	merged := ordered[:0]
	for _, desc := range ordered {
		if seen[desc.Location] {
			continue
		}
		seen[desc.Location] = true
		merged = append(merged, desc)
	}
	return merged
}
