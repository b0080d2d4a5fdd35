package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/agentpack/agentpack/internal/defs"
	"github.com/agentpack/agentpack/internal/profile"
)

// Resolver turns a source descriptor into a local path whose tree
// contains the repository marker file. Implementations own any fetch or
// cache mechanics.
type Resolver interface {
	Resolve(ctx context.Context, desc Descriptor) (string, error)
}

// LocalResolver resolves local descriptors by verifying the directory and
// its marker file. It rejects remote descriptors; wiring a fetching
// resolver is the caller's concern.
type LocalResolver struct{}

// NewLocalResolver creates a LocalResolver.
func NewLocalResolver() *LocalResolver {
	return &LocalResolver{}
}

// Resolve validates the descriptor and checks the marker file on disk.
func (r *LocalResolver) Resolve(_ context.Context, desc Descriptor) (string, error) {
	if err := desc.Validate(); err != nil {
		return "", err
	}
	if desc.Kind != KindLocal {
		return "", fmt.Errorf("%w: resolver handles local sources only, got %q",
			ErrInvalidDescriptor, desc.Kind)
	}

	path := filepath.Clean(desc.Location)
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrSourceNotFound, desc.Location)
	}
	if _, err := os.Stat(filepath.Join(path, defs.MarkerYAML)); err != nil {
		return "", fmt.Errorf("%w: %s has no %s", ErrNotASource, desc.Location, defs.MarkerYAML)
	}
	return path, nil
}

// Marker is the decoded repository marker file of a resolved source.
type Marker struct {
	Name     string               `yaml:"name"`
	Profiles profile.Declarations `yaml:"profiles"`
}

// LoadMarker reads and decodes the marker file at the root of a resolved
// source tree.
func LoadMarker(sourcePath string) (*Marker, error) {
	data, err := os.ReadFile(filepath.Join(sourcePath, defs.MarkerYAML))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotASource, sourcePath)
	}
	var marker Marker
	if err := yaml.Unmarshal(data, &marker); err != nil {
		return nil, fmt.Errorf("source: parse %s in %s: %w", defs.MarkerYAML, sourcePath, err)
	}
	return &marker, nil
}
